package faketokenrepo

import (
	"errors"
	"sync"

	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
	"github.com/oauthkit/go-oauth1-server/tokens"
)

var _ tokens.RequestTokenRepo = (*FakeRequestTokenRepo)(nil)

type FakeRequestTokenRepo struct {
	tokens map[string]*tokens.RequestToken
	lock   sync.RWMutex
}

func NewFakeRequestTokenRepo() *FakeRequestTokenRepo {
	return &FakeRequestTokenRepo{
		tokens: make(map[string]*tokens.RequestToken),
	}
}

func (r *FakeRequestTokenRepo) Upsert(token *tokens.RequestToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if token.Token == "" {
		return errors.New("token is required")
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *FakeRequestTokenRepo) Delete(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *FakeRequestTokenRepo) Get(token string) (*tokens.RequestToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return rt, nil
}

var _ tokens.AccessTokenRepo = (*FakeAccessTokenRepo)(nil)

type FakeAccessTokenRepo struct {
	tokens map[string]*tokens.AccessToken
	lock   sync.RWMutex
}

func NewFakeAccessTokenRepo() *FakeAccessTokenRepo {
	return &FakeAccessTokenRepo{
		tokens: make(map[string]*tokens.AccessToken),
	}
}

func (r *FakeAccessTokenRepo) Upsert(token *tokens.AccessToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if token.Token == "" {
		return errors.New("token is required")
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *FakeAccessTokenRepo) Delete(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *FakeAccessTokenRepo) Get(token string) (*tokens.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	at, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return at, nil
}

func (r *FakeAccessTokenRepo) ListByUserID(userID string) ([]*tokens.AccessToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	result := make([]*tokens.AccessToken, 0)
	for _, at := range r.tokens {
		if at.UserID == userID {
			result = append(result, at)
		}
	}
	return result, nil
}
