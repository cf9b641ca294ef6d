package provider

import (
	"io"
	"net/http"
	"strings"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/pkg/errors"
)

// ErrorHandler formats failures from the OAuth stages in accordance
// with the Problem Reporting extension.
//
// In direct mode (the default, for the consumer-facing token
// endpoints) the problem is written straight into the response, with a
// WWW-Authenticate challenge on 401/403. In indirect mode (for the
// browser-facing authorization endpoints) the problem is delivered to
// the consumer by redirecting through the user's browser; when no
// callback URL is known for the transaction, or it is out-of-band, the
// error is handed back to the caller so the application can render it
// for the user instead.
func ErrorHandler(opts ...Option) Middleware {
	o := newOptions(opts)

	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			octx, r := ensureContext(r)
			err := next(w, r)
			if err == nil {
				return nil
			}

			switch o.mode {
			case ModeDirect:
				respondDirect(w, err, o.realm)
				return nil
			case ModeIndirect:
				if octx.CallbackURL == "" || octx.CallbackURL == OOB {
					return err
				}
				location, rerr := oauthmodel.CallbackWithParams(octx.CallbackURL, problemParams(err))
				if rerr != nil {
					return errors.Wrap(rerr, "[ErrorHandler] problem redirect failed")
				}
				http.Redirect(w, r, location, http.StatusFound)
				return nil
			default:
				return err
			}
		}
	}
}

func respondDirect(w http.ResponseWriter, err error, realm string) {
	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	params := problemParams(err)

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		comps := make([]string, 0, len(params)+1)
		comps = append(comps, `realm="`+realm+`"`)
		for _, p := range params {
			comps = append(comps, oauthmodel.PercentEncode(p.Key)+`="`+oauthmodel.PercentEncode(p.Value)+`"`)
		}
		w.Header().Set("WWW-Authenticate", "OAuth "+strings.Join(comps, ","))
	}

	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, params.Encode())
}

func problemParams(err error) oauthmodel.Params {
	params := oauthmodel.Params{}.Add("oauth_problem", problemCode(err))
	if advice := problemAdvice(err); advice != "" {
		params = params.Add("oauth_problem_advice", advice)
	}
	return params
}

func problemCode(err error) string {
	var pc interface{ ProblemCode() string }
	if errors.As(err, &pc) {
		return pc.ProblemCode()
	}
	return oauthmodel.ProblemServerError
}

// problemAdvice reports the human-readable message without the problem
// code prefix typed errors bake into Error().
func problemAdvice(err error) string {
	var ae *oauthmodel.AuthorizationError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var bre *oauthmodel.BadRequestError
	if errors.As(err, &bre) {
		return bre.Message
	}
	return err.Error()
}
