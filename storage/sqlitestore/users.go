package sqlitestore

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
	"github.com/oauthkit/go-oauth1-server/users"
)

var _ users.UserRepo = (*userStore)(nil)

type userStore struct {
	db *sql.DB
}

func (s *userStore) Upsert(u *users.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, username, password_hash, first_name, last_name, date_joined, last_login, verified, blocked)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10)
		ON CONFLICT (id) DO UPDATE SET
			email=?2, username=?3, password_hash=?4, first_name=?5, last_name=?6,
			date_joined=?7, last_login=?8, verified=?9, blocked=?10;`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName,
		u.DateJoined.Unix(), unixOrZero(u.LastLogin), boolToInt(u.Verified), boolToInt(u.Blocked),
	)
	return errors.Wrap(err, "[sqlitestore] upsert user")
}

func (s *userStore) Delete(email string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE email=?1;`, email)
	return errors.Wrap(err, "[sqlitestore] delete user")
}

func (s *userStore) GetByEmail(email string) (*users.User, error) {
	return s.getWhere(`email=?1`, email)
}

func (s *userStore) GetByID(id string) (*users.User, error) {
	return s.getWhere(`id=?1`, id)
}

func (s *userStore) getWhere(where string, arg any) (*users.User, error) {
	row := s.db.QueryRow(`
		SELECT id, email, username, password_hash, first_name, last_name, date_joined, last_login, verified, blocked
		FROM users
		WHERE `+where+`;`,
		arg,
	)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	return u, err
}

func (s *userStore) List(offset, limit int) ([]*users.User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, username, password_hash, first_name, last_name, date_joined, last_login, verified, blocked
		FROM users
		ORDER BY email
		LIMIT ?1 OFFSET ?2;`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore] list users")
	}
	defer rows.Close()

	result := make([]*users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, errors.Wrap(rows.Err(), "[sqlitestore] list users")
}

func (s *userStore) SetBlocked(email string, blocked bool) error {
	_, err := s.db.Exec(`UPDATE users SET blocked=?2 WHERE email=?1;`, email, boolToInt(blocked))
	return errors.Wrap(err, "[sqlitestore] set blocked")
}

func (s *userStore) SetVerified(email string, verified bool) error {
	_, err := s.db.Exec(`UPDATE users SET verified=?2 WHERE email=?1;`, email, boolToInt(verified))
	return errors.Wrap(err, "[sqlitestore] set verified")
}

func scanUser(scan func(...any) error) (*users.User, error) {
	var u users.User
	var dateJoined, lastLogin int64
	var verified, blocked int
	if err := scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&dateJoined, &lastLogin, &verified, &blocked); err != nil {
		return nil, errors.Wrap(err, "[sqlitestore] scan user")
	}
	u.DateJoined = time.Unix(dateJoined, 0)
	if lastLogin != 0 {
		u.LastLogin = time.Unix(lastLogin, 0)
	}
	u.Verified = verified != 0
	u.Blocked = blocked != 0
	return &u, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
