package provider

import "net/http"

// Mode selects how the error formatter delivers a failure: directly in
// the response body, or indirectly via a redirect through the user's
// browser.
type Mode string

const (
	ModeDirect   Mode = "direct"
	ModeIndirect Mode = "indirect"
)

// Stage defaults.
const (
	DefaultSessionKey       = "authorize"
	DefaultTransactionField = "transaction_id"
	DefaultCancelField      = "cancel"
	DefaultIDLength         = 8
	DefaultRealm            = "Clients"
)

// RequestParser extracts protocol extension parameters from a request
// on behalf of the request-token and user-authorization stages.
type RequestParser func(r *http.Request) (map[string]string, error)

// DecisionParser extracts the user's decision payload from the
// decision request. It may leave Decision.Allow nil to fall back on
// the cancel-field heuristic.
type DecisionParser func(r *http.Request) (*Decision, error)

type options struct {
	sessionKey       string
	transactionField string
	cancelField      string
	idLength         int
	redirectOnCancel bool
	realm            string
	mode             Mode
	loadTransaction  bool
	requestParser    RequestParser
	decisionParser   DecisionParser
}

// Option adjusts a stage's configuration.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		sessionKey:       DefaultSessionKey,
		transactionField: DefaultTransactionField,
		cancelField:      DefaultCancelField,
		idLength:         DefaultIDLength,
		redirectOnCancel: true,
		realm:            DefaultRealm,
		mode:             ModeDirect,
		loadTransaction:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSessionKey sets the session key under which the transaction map
// is stored.
func WithSessionKey(key string) Option {
	return func(o *options) { o.sessionKey = key }
}

// WithTransactionField sets the query/body field carrying the
// transaction ID on decision requests.
func WithTransactionField(field string) Option {
	return func(o *options) { o.transactionField = field }
}

// WithCancelField sets the body field whose presence denies the
// authorization when the decision parser leaves the choice open.
func WithCancelField(field string) Option {
	return func(o *options) { o.cancelField = field }
}

// WithIDLength sets the generated transaction ID length.
func WithIDLength(n int) Option {
	return func(o *options) { o.idLength = n }
}

// WithRedirectOnCancel controls whether a denial with a known callback
// redirects there with oauth_problem=user_refused (the default) or
// passes through for the application to render its own page.
func WithRedirectOnCancel(redirect bool) Option {
	return func(o *options) { o.redirectOnCancel = redirect }
}

// WithRealm sets the authentication realm reported in WWW-Authenticate
// challenges.
func WithRealm(realm string) Option {
	return func(o *options) { o.realm = realm }
}

// WithMode selects the error formatter's delivery mode.
func WithMode(mode Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithoutTransactionLoader disables the transaction loader implicitly
// chained before the user-decision stage, for integrations that attach
// the transaction themselves.
func WithoutTransactionLoader() Option {
	return func(o *options) { o.loadTransaction = false }
}

// WithRequestParser installs a protocol extension parameter parser.
func WithRequestParser(parse RequestParser) Option {
	return func(o *options) { o.requestParser = parse }
}

// WithDecisionParser installs a decision payload parser.
func WithDecisionParser(parse DecisionParser) Option {
	return func(o *options) { o.decisionParser = parse }
}
