package provider

import (
	"io"
	"net/http"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/pkg/errors"
)

// RequestTokenIssuer mints a temporary credential bound to the
// consumer and the callback URL it registered for this authorization.
// params carries extension parameters from the stage's request parser,
// nil when none is configured. extra is appended to the response ahead
// of the standard oauth_* parameters. Returning an empty token rejects
// the consumer.
type RequestTokenIssuer func(consumer any, callbackURL string, params map[string]string) (token, secret string, extra oauthmodel.Params, err error)

// RequestToken handles requests to obtain an unauthorized request
// token. The authentication collaborator must have attached AuthInfo
// with the consumer and its callback URL before this handler runs; the
// callback is transmitted alongside the consumer's credentials and
// parsed during that step.
func (s *Server) RequestToken(issue RequestTokenIssuer, opts ...Option) HandlerFunc {
	if issue == nil {
		panic("oauth: RequestToken requires an issue function")
	}
	o := newOptions(opts)

	return func(w http.ResponseWriter, r *http.Request) error {
		info := AuthInfoFromRequest(r)
		if info == nil {
			return errors.New("authentication info not available")
		}

		var params map[string]string
		if o.requestParser != nil {
			var err error
			if params, err = o.requestParser(r); err != nil {
				return err
			}
		}

		token, secret, extra, err := issue(info.Consumer, info.CallbackURL, params)
		if err != nil {
			return err
		}
		if token == "" {
			return oauthmodel.NewAuthorizationError("request token not issued",
				oauthmodel.ProblemConsumerKeyRejected, http.StatusBadRequest)
		}

		body := extra.
			Add("oauth_token", token).
			Add("oauth_token_secret", secret).
			Add("oauth_callback_confirmed", "true")
		writeFormResponse(w, body)
		return nil
	}
}

// writeFormResponse emits a terminal form-url-encoded token response.
func writeFormResponse(w http.ResponseWriter, params oauthmodel.Params) {
	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	_, _ = io.WriteString(w, params.Encode())
}
