package tokens

import "time"

// RequestToken is a temporary credential issued to a consumer, good for
// one pass through the authorization dialog. Approved and Verifier are
// set when the user allows access; UserID records who approved.
type RequestToken struct {
	Token       string
	Secret      string
	ConsumerID  string
	CallbackURL string
	Verifier    string
	UserID      string
	Approved    bool
	Iat         time.Time
}

// AccessToken is the long-lived credential a request token is exchanged
// for. It grants the consumer access to the user's protected resources.
type AccessToken struct {
	Token      string
	Secret     string
	ConsumerID string
	UserID     string
	Iat        time.Time
}
