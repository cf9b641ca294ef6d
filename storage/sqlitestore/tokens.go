package sqlitestore

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
	"github.com/oauthkit/go-oauth1-server/tokens"
)

var _ tokens.RequestTokenRepo = (*requestTokenStore)(nil)

type requestTokenStore struct {
	db *sql.DB
}

func (s *requestTokenStore) Upsert(t *tokens.RequestToken) error {
	_, err := s.db.Exec(`
		INSERT INTO request_tokens (token, secret, consumer_id, callback_url, verifier, user_id, approved, iat)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8)
		ON CONFLICT (token) DO UPDATE SET
			secret=?2, consumer_id=?3, callback_url=?4, verifier=?5, user_id=?6, approved=?7, iat=?8;`,
		t.Token, t.Secret, t.ConsumerID, t.CallbackURL, t.Verifier, t.UserID, boolToInt(t.Approved), t.Iat.Unix(),
	)
	return errors.Wrap(err, "[sqlitestore] upsert request token")
}

func (s *requestTokenStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM request_tokens WHERE token=?1;`, token)
	return errors.Wrap(err, "[sqlitestore] delete request token")
}

func (s *requestTokenStore) Get(token string) (*tokens.RequestToken, error) {
	row := s.db.QueryRow(`
		SELECT token, secret, consumer_id, callback_url, verifier, user_id, approved, iat
		FROM request_tokens
		WHERE token=?1;`,
		token,
	)

	var rt tokens.RequestToken
	var approved int
	var iat int64
	if err := row.Scan(&rt.Token, &rt.Secret, &rt.ConsumerID, &rt.CallbackURL, &rt.Verifier, &rt.UserID, &approved, &iat); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, errors.Wrap(err, "[sqlitestore] get request token")
	}
	rt.Approved = approved != 0
	rt.Iat = time.Unix(iat, 0)
	return &rt, nil
}

var _ tokens.AccessTokenRepo = (*accessTokenStore)(nil)

type accessTokenStore struct {
	db *sql.DB
}

func (s *accessTokenStore) Upsert(t *tokens.AccessToken) error {
	_, err := s.db.Exec(`
		INSERT INTO access_tokens (token, secret, consumer_id, user_id, iat)
		VALUES (?1, ?2, ?3, ?4, ?5)
		ON CONFLICT (token) DO UPDATE SET
			secret=?2, consumer_id=?3, user_id=?4, iat=?5;`,
		t.Token, t.Secret, t.ConsumerID, t.UserID, t.Iat.Unix(),
	)
	return errors.Wrap(err, "[sqlitestore] upsert access token")
}

func (s *accessTokenStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM access_tokens WHERE token=?1;`, token)
	return errors.Wrap(err, "[sqlitestore] delete access token")
}

func (s *accessTokenStore) Get(token string) (*tokens.AccessToken, error) {
	row := s.db.QueryRow(`
		SELECT token, secret, consumer_id, user_id, iat
		FROM access_tokens
		WHERE token=?1;`,
		token,
	)
	return scanAccessToken(row.Scan)
}

func (s *accessTokenStore) ListByUserID(userID string) ([]*tokens.AccessToken, error) {
	rows, err := s.db.Query(`
		SELECT token, secret, consumer_id, user_id, iat
		FROM access_tokens
		WHERE user_id=?1
		ORDER BY iat;`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore] list access tokens")
	}
	defer rows.Close()

	result := make([]*tokens.AccessToken, 0)
	for rows.Next() {
		at, err := scanAccessToken(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, at)
	}
	return result, errors.Wrap(rows.Err(), "[sqlitestore] list access tokens")
}

func scanAccessToken(scan func(...any) error) (*tokens.AccessToken, error) {
	var at tokens.AccessToken
	var iat int64
	if err := scan(&at.Token, &at.Secret, &at.ConsumerID, &at.UserID, &iat); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, errors.Wrap(err, "[sqlitestore] scan access token")
	}
	at.Iat = time.Unix(iat, 0)
	return &at, nil
}
