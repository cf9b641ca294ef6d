package provider

import (
	"net/http"

	"github.com/oauthkit/go-oauth1-server/internal/utils"
	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/sessions"
	"github.com/pkg/errors"
)

// ValidateFunc looks up the request token presented on an
// authorization request and returns its owning consumer, the callback
// URL bound to it, and the parameters of the original request-token
// request. A nil consumer means the token is not (or no longer) valid;
// returning the callback URL even in that case lets the error
// formatter inform the consumer via redirect.
type ValidateFunc func(token string, authz *AuthorizationRequest) (consumer any, callbackURL string, areq map[string]string, err error)

// UserAuthorization begins an authorization transaction for a browser
// request carrying oauth_token. On success the transaction is stored
// in the session and control passes to the next handler, which renders
// the authorization dialog using the populated request Context; this
// stage never writes a response itself.
func (s *Server) UserAuthorization(validate ValidateFunc, opts ...Option) Middleware {
	if validate == nil {
		panic("oauth: UserAuthorization requires a validate function")
	}
	o := newOptions(opts)

	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			sess := sessions.FromRequest(r)
			if sess == nil {
				return errors.New("OAuth service provider requires session support")
			}

			token := r.URL.Query().Get("oauth_token")
			callback := r.URL.Query().Get("oauth_callback")
			if token == "" {
				return oauthmodel.NewBadRequestError("missing oauth_token parameter")
			}

			octx, r := ensureContext(r)

			var params map[string]string
			if o.requestParser != nil {
				var err error
				if params, err = o.requestParser(r); err != nil {
					return err
				}
			}
			authz := &AuthorizationRequest{Token: token, CallbackURL: callback, Params: params}
			octx.Authz = authz

			consumer, callbackURL, areq, err := validate(token, authz)
			// Populate the context before checking for failure: a
			// callback URL supplied alongside a negative result lets
			// the indirect error formatter redirect instead of failing
			// opaquely.
			octx.Client = consumer
			octx.CallbackURL = callbackURL
			if err != nil {
				return err
			}
			if consumer == nil {
				// The token was valid when the consumer obtained it but
				// has since been invalidated or disallowed.
				return oauthmodel.NewAuthorizationError("request token not valid", oauthmodel.ProblemTokenRejected)
			}
			octx.Req = areq

			obj, err := s.SerializeClient(consumer)
			if err != nil {
				return err
			}

			tid := utils.UID(o.idLength)
			octx.TransactionID = tid
			transactions(sess, o.sessionKey)[tid] = &Transaction{
				Protocol:    "oauth",
				Client:      obj,
				CallbackURL: callbackURL,
				Req:         areq,
				Authz:       authz,
			}

			return next(w, r)
		}
	}
}
