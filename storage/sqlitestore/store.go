// Package sqlitestore provides SQLite persistence for consumers, users,
// and token storage.
package sqlitestore

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/oauthkit/go-oauth1-server/clients"
	"github.com/oauthkit/go-oauth1-server/tokens"
	"github.com/oauthkit/go-oauth1-server/users"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore.New] open")
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RequestTokens returns the request token view of the store.
func (s *Store) RequestTokens() tokens.RequestTokenRepo {
	return &requestTokenStore{db: s.db}
}

// AccessTokens returns the access token view of the store.
func (s *Store) AccessTokens() tokens.AccessTokenRepo {
	return &accessTokenStore{db: s.db}
}

// Consumers returns the consumer registry view of the store.
func (s *Store) Consumers() clients.Repo {
	return &consumerStore{db: s.db}
}

// Users returns the user account view of the store.
func (s *Store) Users() users.UserRepo {
	return &userStore{db: s.db}
}

func initSchema(db *sql.DB) error {
	if err := initTable(db, "request_tokens", `
		CREATE TABLE IF NOT EXISTS request_tokens (
			token        TEXT PRIMARY KEY,
			secret       TEXT NOT NULL,
			consumer_id  TEXT NOT NULL,
			callback_url TEXT NOT NULL DEFAULT '',
			verifier     TEXT NOT NULL DEFAULT '',
			user_id      TEXT NOT NULL DEFAULT '',
			approved     INTEGER NOT NULL DEFAULT 0,
			iat          INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "access_tokens", `
		CREATE TABLE IF NOT EXISTS access_tokens (
			token       TEXT PRIMARY KEY,
			secret      TEXT NOT NULL,
			consumer_id TEXT NOT NULL,
			user_id     TEXT NOT NULL,
			iat         INTEGER NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "consumers", `
		CREATE TABLE IF NOT EXISTS consumers (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			key          TEXT NOT NULL UNIQUE,
			secret       TEXT NOT NULL,
			callback_url TEXT NOT NULL DEFAULT '',
			revoked      INTEGER NOT NULL DEFAULT 0,
			scopes       TEXT NOT NULL DEFAULT ''
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "users", `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			username      TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			date_joined   INTEGER NOT NULL,
			last_login    INTEGER NOT NULL DEFAULT 0,
			verified      INTEGER NOT NULL DEFAULT 0,
			blocked       INTEGER NOT NULL DEFAULT 0
		);`,
	); err != nil {
		return err
	}

	return nil
}

func initTable(db *sql.DB, name string, schema string) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrapf(err, "[sqlitestore.initSchema] %s", name)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
