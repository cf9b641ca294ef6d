package provider

import (
	"net/http"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/sessions"
	"github.com/pkg/errors"
)

// TransactionLoader reloads an in-flight authorization transaction
// from the session. It is chained implicitly before the user-decision
// stage; mounting it explicitly is only needed when that chaining is
// disabled. Requests without a transaction ID, or with an ID no longer
// in the session, pass through untouched so integrations that attach
// the transaction differently keep working.
func (s *Server) TransactionLoader(opts ...Option) Middleware {
	o := newOptions(opts)

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

			tid := r.FormValue(o.transactionField)
			if tid == "" {
				return next(w, r)
			}
			txn, ok := txns[tid]
			if !ok {
				return next(w, r)
			}

			client, err := s.DeserializeClient(txn.Client)
			if err != nil {
				return err
			}
			if client == nil {
				// The consumer was valid when the transaction was
				// created but has since been deauthorized. Retire the
				// transaction; no response goes to the consumer.
				delete(txns, tid)
				return oauthmodel.NewAuthorizationError("no longer authorized", oauthmodel.ProblemConsumerKeyRejected)
			}

			octx, r := ensureContext(r)
			octx.TransactionID = tid
			octx.Client = client
			octx.CallbackURL = txn.CallbackURL
			octx.Req = txn.Req
			octx.Authz = txn.Authz
			return next(w, r)
		}
	}
}
