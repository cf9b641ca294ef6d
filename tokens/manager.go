package tokens

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
)

// Manager issues and exchanges the credentials of the three-legged
// flow: request tokens bound to a consumer and callback, verifiers
// minted on user approval, and access tokens granted once the consumer
// presents a matching verifier.
type Manager struct {
	requestRepo        RequestTokenRepo
	accessRepo         AccessTokenRepo
	tokenLength        int
	verifierLength     int
	requestTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithRequestTokenExpiry bounds how long an unexchanged request token
// stays valid.
func WithRequestTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.requestTokenExpiry = expiry
	}
}

func WithTokenLength(bytes int) ManagerOption {
	return func(m *Manager) {
		m.tokenLength = bytes
	}
}

func New(requestRepo RequestTokenRepo, accessRepo AccessTokenRepo, options ...ManagerOption) *Manager {
	m := &Manager{
		requestRepo: requestRepo,
		accessRepo:  accessRepo,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.tokenLength == 0 {
		m.tokenLength = 16
	}
	if m.verifierLength == 0 {
		m.verifierLength = 8
	}
	if m.requestTokenExpiry == 0 {
		m.requestTokenExpiry = time.Minute * 10
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// IssueRequestToken creates and stores a fresh request token for the
// consumer, bound to the callback the consumer transmitted.
func (m *Manager) IssueRequestToken(consumerID, callbackURL string) (*RequestToken, error) {
	token, err := randomHex(m.tokenLength)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.IssueRequestToken token")
	}
	secret, err := randomHex(m.tokenLength)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.IssueRequestToken secret")
	}

	rt := &RequestToken{
		Token:       token,
		Secret:      secret,
		ConsumerID:  consumerID,
		CallbackURL: callbackURL,
		Iat:         m.nowFunc(),
	}
	if err := m.requestRepo.Upsert(rt); err != nil {
		return nil, errors.Wrap(err, "Manager.IssueRequestToken Upsert")
	}
	return rt, nil
}

// GetRequestToken returns a live request token, or nil when the token
// is unknown or has expired. Expired tokens are retired on sight.
func (m *Manager) GetRequestToken(token string) (*RequestToken, error) {
	rt, err := m.requestRepo.Get(token)
	if errors.Is(err, apperrors.ErrTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Manager.GetRequestToken Get")
	}
	if m.nowFunc().Sub(rt.Iat) > m.requestTokenExpiry {
		if err := m.requestRepo.Delete(token); err != nil {
			return nil, errors.Wrap(err, "Manager.GetRequestToken Delete")
		}
		return nil, nil
	}
	return rt, nil
}

// Approve records the user's consent on the request token and mints
// the verifier the consumer must present at the exchange.
func (m *Manager) Approve(token, userID string) (string, error) {
	rt, err := m.GetRequestToken(token)
	if err != nil {
		return "", err
	}
	if rt == nil {
		return "", errors.New("Manager.Approve request token not found")
	}

	verifier, err := randomHex(m.verifierLength)
	if err != nil {
		return "", errors.Wrap(err, "Manager.Approve verifier")
	}

	rt.Approved = true
	rt.UserID = userID
	rt.Verifier = verifier
	if err := m.requestRepo.Upsert(rt); err != nil {
		return "", errors.Wrap(err, "Manager.Approve Upsert")
	}
	return verifier, nil
}

// VerifyExchange reports whether token and verifier identify an
// approved request token. A mismatch is not an error.
func (m *Manager) VerifyExchange(token, verifier string) (bool, error) {
	rt, err := m.GetRequestToken(token)
	if err != nil {
		return false, err
	}
	if rt == nil || !rt.Approved {
		return false, nil
	}
	return hmac.Equal(hashToken(rt.Verifier), hashToken(verifier)), nil
}

// Exchange trades an approved request token for an access token and
// retires the request token, making replay of the exchange impossible.
func (m *Manager) Exchange(requestToken string) (*AccessToken, error) {
	rt, err := m.GetRequestToken(requestToken)
	if err != nil {
		return nil, err
	}
	if rt == nil || !rt.Approved {
		return nil, nil
	}

	token, err := randomHex(m.tokenLength)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Exchange token")
	}
	secret, err := randomHex(m.tokenLength)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Exchange secret")
	}

	at := &AccessToken{
		Token:      token,
		Secret:     secret,
		ConsumerID: rt.ConsumerID,
		UserID:     rt.UserID,
		Iat:        m.nowFunc(),
	}
	if err := m.accessRepo.Upsert(at); err != nil {
		return nil, errors.Wrap(err, "Manager.Exchange Upsert")
	}
	if err := m.requestRepo.Delete(requestToken); err != nil {
		return nil, errors.Wrap(err, "Manager.Exchange Delete")
	}
	return at, nil
}

// Revoke removes an access token, withdrawing the consumer's access.
func (m *Manager) Revoke(accessToken string) error {
	return m.accessRepo.Delete(accessToken)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(s string) []byte {
	h := sha1.Sum([]byte(s))
	return h[:]
}
