package provider

import (
	"github.com/oauthkit/go-oauth1-server/sessions"
)

// OOB is the out-of-band callback sentinel: the consumer has no
// redirect target and the verifier must be displayed to the user.
const OOB = "oob"

// Transaction is the session-persisted record of an in-progress
// authorization dialog. It is created by the user-authorization stage,
// reloaded by the transaction loader, and retired by the user-decision
// stage once its response has been emitted. The serialized consumer
// and the callback URL are frozen at creation time.
type Transaction struct {
	Protocol    string
	Client      any // consumer, serialized through the engine's chain
	CallbackURL string
	Req         map[string]string
	Authz       *AuthorizationRequest
}

// AuthorizationRequest holds the parameters of the browser request
// that initiated the authorization dialog.
type AuthorizationRequest struct {
	// Token is the oauth_token being authorized.
	Token string

	// CallbackURL is the optional oauth_callback supplied on the
	// authorization request. OAuth 1.0 (pre-1.0a) consumers transmit
	// the callback here rather than at token issuance; accepting it
	// unconditionally enables session fixation (oauth.net advisory
	// 2009-1), so validate callbacks should treat it with suspicion.
	CallbackURL string

	// Params holds extension parameters from the stage's request
	// parser (display preferences and the like).
	Params map[string]string
}

// Decision is the outcome of the user's authorization decision. A
// parser may leave Allow nil, in which case the stage derives it from
// the presence of the configured cancel field.
type Decision struct {
	Allow  *bool
	Params map[string]string
}

// transactions returns the session's transaction map stored under
// key, creating it on first use.
func transactions(sess *sessions.Session, key string) map[string]*Transaction {
	txns, _ := sess.Get(key).(map[string]*Transaction)
	if txns == nil {
		txns = make(map[string]*Transaction)
		sess.Set(key, txns)
	}
	return txns
}
