package provider

import (
	"context"
	"net/http"
)

// Context carries the OAuth state a request accumulates as it moves
// through the authorization stages. The error formatter attaches an
// empty Context at the top of the chain; inner stages populate it in
// place so that even a failed validation can leave behind the callback
// URL needed for an indirect error redirect.
type Context struct {
	// Client is the consumer whose request token is under
	// authorization.
	Client any

	// CallbackURL is the consumer callback bound to the request token
	// at issuance, frozen into the transaction at creation time.
	CallbackURL string

	// TransactionID identifies the session-persisted transaction.
	TransactionID string

	// Req holds the parameters of the original request-token request,
	// as returned by the validate callback.
	Req map[string]string

	// Authz holds the parameters of the authorization request that
	// started (or resumed) the dialog.
	Authz *AuthorizationRequest

	// User is the authenticated resource owner making the decision.
	User any

	// Decision is the processed allow/deny result.
	Decision *Decision

	// Verifier is set on the allow path when no redirect target exists
	// (out-of-band), for the application to display.
	Verifier string
}

// Consumer returns the client under authorization; the two names are
// aliases in OAuth 1.0 terminology.
func (c *Context) Consumer() any { return c.Client }

type oauthContextKey struct{}

// NewContext returns a context carrying the OAuth request state.
func NewContext(ctx context.Context, octx *Context) context.Context {
	return context.WithValue(ctx, oauthContextKey{}, octx)
}

// FromContext returns the OAuth request state carried by ctx, or nil.
func FromContext(ctx context.Context) *Context {
	octx, _ := ctx.Value(oauthContextKey{}).(*Context)
	return octx
}

// FromRequest returns the OAuth request state attached to r, or nil.
func FromRequest(r *http.Request) *Context {
	return FromContext(r.Context())
}

// ensureContext returns the request's OAuth state, attaching a fresh
// one when none exists yet. Stages mutate the shared struct so outer
// middleware observes what inner stages established.
func ensureContext(r *http.Request) (*Context, *http.Request) {
	if octx := FromRequest(r); octx != nil {
		return octx, r
	}
	octx := &Context{}
	return octx, r.WithContext(NewContext(r.Context(), octx))
}

// AuthInfo carries what the authentication collaborator established
// before the consumer-facing stages run: the authenticated consumer
// and the protocol parameters transmitted alongside its credentials.
// OAuth transmits these with the signature, so they are parsed during
// authentication, prior to the engine's stages.
type AuthInfo struct {
	// Consumer is the authenticated consumer.
	Consumer any

	// CallbackURL is the oauth_callback from the signed request
	// (request-token stage).
	CallbackURL string

	// Token is the request token under exchange (access-token stage).
	Token string

	// Verifier is the oauth_verifier presented for the exchange
	// (access-token stage).
	Verifier string

	// Params holds any further parameters of the signed request.
	Params map[string]string
}

type authInfoKey struct{}

// WithAuthInfo attaches authentication results to the request.
func WithAuthInfo(r *http.Request, info *AuthInfo) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), authInfoKey{}, info))
}

// AuthInfoFromRequest returns the authentication results attached to
// the request, or nil.
func AuthInfoFromRequest(r *http.Request) *AuthInfo {
	info, _ := r.Context().Value(authInfoKey{}).(*AuthInfo)
	return info
}

type userKey struct{}

// WithUser attaches the authenticated resource owner to the request.
func WithUser(r *http.Request, user any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey{}, user))
}

// UserFromRequest returns the authenticated resource owner, or nil.
func UserFromRequest(r *http.Request) any {
	return r.Context().Value(userKey{})
}
