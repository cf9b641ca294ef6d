package sessions

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultCookieName is the cookie holding the signed session ID.
const DefaultCookieName = "oauth_sid"

// Manager loads and creates sessions, transporting the session ID in
// an HMAC-signed cookie. Session values themselves stay server-side
// in the Repo; the cookie only carries the ID.
type Manager struct {
	repo       Repo
	secret     []byte
	cookieName string
	secure     bool
	maxAge     time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) { m.cookieName = name }
}

// WithSecureCookies marks the session cookie Secure, for deployments
// terminating TLS in front of the provider.
func WithSecureCookies(secure bool) ManagerOption {
	return func(m *Manager) { m.secure = secure }
}

// WithMaxAge bounds a session's lifetime. A session older than maxAge
// is discarded on its next request and a fresh one started. Zero means
// sessions never age out.
func WithMaxAge(maxAge time.Duration) ManagerOption {
	return func(m *Manager) { m.maxAge = maxAge }
}

// NewManager builds a session manager. secret signs the session-ID
// cookie and must be stable across restarts for sessions to survive.
func NewManager(repo Repo, secret []byte, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewManager] repo is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("[sessions.NewManager] signing secret is required")
	}
	m := &Manager{repo: repo, secret: secret, cookieName: DefaultCookieName}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Middleware attaches a session to every request, creating one when
// the request carries no valid session cookie, and persists it after
// the wrapped handler returns.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.load(r)
		if session == nil {
			session = New(uuid.New().String())
			signed, err := m.sign(session.ID)
			if err != nil {
				log.Error().Err(err).Msg("session cookie signing failed")
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    signed,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), session)))

		if err := m.repo.Upsert(session); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("session persist failed")
		}
	})
}

func (m *Manager) load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	id, err := m.verify(cookie.Value)
	if err != nil {
		return nil
	}
	session, err := m.repo.Get(id)
	if err != nil {
		return nil
	}
	if m.maxAge > 0 && time.Since(session.CreatedAt) > m.maxAge {
		if err := m.repo.Delete(id); err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("expired session delete failed")
		}
		return nil
	}
	return session
}

func (m *Manager) sign(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": sessionID})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session cookie")
	}
	return signed, nil
}

func (m *Manager) verify(value string) (string, error) {
	token, err := jwt.Parse(value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "invalid session cookie")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid session cookie claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("session cookie missing sid")
	}
	return sid, nil
}
