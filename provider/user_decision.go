package provider

import (
	"net/http"
	"sync"

	"github.com/oauthkit/go-oauth1-server/internal/utils"
	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/sessions"
	"github.com/pkg/errors"
)

// VerifierIssuer records the user's approval of a request token and
// mints the verification code the consumer must present when
// exchanging it. decision carries the parsed decision payload (scope
// and the like). An empty verifier is permitted for pre-1.0a flows.
type VerifierIssuer func(token string, user any, decision *Decision) (verifier string, err error)

// UserDecision processes the user's response to the authorization
// dialog and retires the transaction. Unless disabled with
// WithoutTransactionLoader, the transaction loader runs first to
// repopulate the transaction from the session.
//
// On approval the verifier is issued and the user agent is redirected
// back to the consumer; with no callback (or the "oob" sentinel) the
// verifier is attached to the request Context and control passes to
// the next handler for display. On denial no verifier is issued; the
// consumer is informed via an oauth_problem=user_refused redirect when
// redirectOnCancel is set, otherwise control passes through.
//
// The transaction is deleted from the session exactly once on every
// decision path, as the response is written; a failure from the
// decision parser or the issuer aborts beforehand and leaves the
// transaction in place for retry.
func (s *Server) UserDecision(issue VerifierIssuer, opts ...Option) Middleware {
	if issue == nil {
		panic("oauth: UserDecision requires an issue function")
	}
	o := newOptions(opts)

	decide := s.userDecision(issue, o)
	if !o.loadTransaction {
		return decide
	}
	loader := s.TransactionLoader(opts...)
	return func(next HandlerFunc) HandlerFunc {
		return loader(decide(next))
	}
}

func (s *Server) userDecision(issue VerifierIssuer, o *options) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			sess := sessions.FromRequest(r)
			if sess == nil {
				return errors.New("OAuth service provider requires session support")
			}
			txns, _ := sess.Get(o.sessionKey).(map[string]*Transaction)
			if txns == nil {
				return errors.New("invalid OAuth session key")
			}
			if err := r.ParseForm(); err != nil {
				return errors.Wrap(err, "OAuth service provider requires a parseable body")
			}
			octx := FromRequest(r)
			if octx == nil || octx.TransactionID == "" {
				return errors.New("OAuth transaction not found")
			}

			var decision *Decision
			if o.decisionParser != nil {
				var err error
				if decision, err = o.decisionParser(r); err != nil {
					return err
				}
			}
			if decision == nil {
				decision = &Decision{}
			}
			if decision.Allow == nil {
				decision.Allow = utils.Ptr(r.PostFormValue(o.cancelField) == "")
			}

			octx.User = UserFromRequest(r)
			octx.Decision = decision

			tid := octx.TransactionID
			remove := func() { delete(txns, tid) }

			if !*decision.Allow {
				// The protocol leaves denial behaviour open. Matching
				// OAuth 2.0, the default informs the consumer with a
				// problem redirect; applications that want their own
				// denial page disable redirectOnCancel and inspect
				// Context.Decision downstream.
				if octx.CallbackURL == "" || octx.CallbackURL == OOB || !o.redirectOnCancel {
					return passAndRetire(w, r, next, remove)
				}
				location, err := oauthmodel.CallbackWithParams(octx.CallbackURL,
					oauthmodel.Params{}.Add("oauth_problem", oauthmodel.ProblemUserRefused))
				if err != nil {
					return err
				}
				redirectAndRetire(w, r, location, remove)
				return nil
			}

			verifier, err := issue(octx.Authz.Token, octx.User, decision)
			if err != nil {
				return err
			}

			if octx.CallbackURL == "" || octx.CallbackURL == OOB {
				octx.Verifier = verifier
				return passAndRetire(w, r, next, remove)
			}

			params := oauthmodel.Params{}.Add("oauth_token", octx.Authz.Token)
			if verifier != "" {
				params = params.Add("oauth_verifier", verifier)
			}
			location, err := oauthmodel.CallbackWithParams(octx.CallbackURL, params)
			if err != nil {
				return err
			}
			redirectAndRetire(w, r, location, remove)
			return nil
		}
	}
}

// cleanupWriter retires the decision's transaction exactly once, as
// the response is first written or when the handler completes,
// whichever comes first.
type cleanupWriter struct {
	http.ResponseWriter
	once   sync.Once
	remove func()
}

func (w *cleanupWriter) WriteHeader(code int) {
	w.once.Do(w.remove)
	w.ResponseWriter.WriteHeader(code)
}

func (w *cleanupWriter) Write(b []byte) (int, error) {
	w.once.Do(w.remove)
	return w.ResponseWriter.Write(b)
}

func redirectAndRetire(w http.ResponseWriter, r *http.Request, location string, remove func()) {
	cw := &cleanupWriter{ResponseWriter: w, remove: remove}
	http.Redirect(cw, r, location, http.StatusFound)
	cw.once.Do(cw.remove)
}

func passAndRetire(w http.ResponseWriter, r *http.Request, next HandlerFunc, remove func()) error {
	cw := &cleanupWriter{ResponseWriter: w, remove: remove}
	err := next(cw, r)
	cw.once.Do(cw.remove)
	return err
}
