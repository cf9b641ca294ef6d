package sqlitestore

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/oauthkit/go-oauth1-server/clients"
	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
)

var _ clients.Repo = (*consumerStore)(nil)

type consumerStore struct {
	db *sql.DB
}

func (s *consumerStore) Upsert(c *clients.Consumer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO consumers (id, name, key, secret, callback_url, revoked, scopes)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
		ON CONFLICT (id) DO UPDATE SET
			name=?2, key=?3, secret=?4, callback_url=?5, revoked=?6, scopes=?7;`,
		c.ID, c.Name, c.Key, c.Secret, c.CallbackURL, boolToInt(c.Revoked), strings.Join(c.Scopes, " "),
	)
	return errors.Wrap(err, "[sqlitestore] upsert consumer")
}

func (s *consumerStore) Delete(consumerID string) error {
	_, err := s.db.Exec(`DELETE FROM consumers WHERE id=?1;`, consumerID)
	return errors.Wrap(err, "[sqlitestore] delete consumer")
}

func (s *consumerStore) Get(consumerID string) (*clients.Consumer, error) {
	return s.getWhere(`id=?1`, consumerID)
}

func (s *consumerStore) GetByKey(key string) (*clients.Consumer, error) {
	return s.getWhere(`key=?1`, key)
}

func (s *consumerStore) getWhere(where string, arg any) (*clients.Consumer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, key, secret, callback_url, revoked, scopes
		FROM consumers
		WHERE `+where+`;`,
		arg,
	)
	c, err := scanConsumer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrConsumerNotFound
	}
	return c, err
}

func (s *consumerStore) List(offset, limit int) ([]*clients.Consumer, error) {
	rows, err := s.db.Query(`
		SELECT id, name, key, secret, callback_url, revoked, scopes
		FROM consumers
		ORDER BY id
		LIMIT ?1 OFFSET ?2;`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore] list consumers")
	}
	defer rows.Close()

	result := make([]*clients.Consumer, 0)
	for rows.Next() {
		c, err := scanConsumer(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, errors.Wrap(rows.Err(), "[sqlitestore] list consumers")
}

func scanConsumer(scan func(...any) error) (*clients.Consumer, error) {
	var c clients.Consumer
	var revoked int
	var scopes string
	if err := scan(&c.ID, &c.Name, &c.Key, &c.Secret, &c.CallbackURL, &revoked, &scopes); err != nil {
		return nil, errors.Wrap(err, "[sqlitestore] scan consumer")
	}
	c.Revoked = revoked != 0
	if scopes != "" {
		c.Scopes = strings.Split(scopes, " ")
	}
	return &c, nil
}
