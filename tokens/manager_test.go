package tokens_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/oauthkit/go-oauth1-server/tokens"
	faketokenrepo "github.com/oauthkit/go-oauth1-server/tokens/repofake"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, options ...tokens.ManagerOption) (*tokens.Manager, *faketokenrepo.FakeRequestTokenRepo, *faketokenrepo.FakeAccessTokenRepo) {
	t.Helper()
	requestRepo := faketokenrepo.NewFakeRequestTokenRepo()
	accessRepo := faketokenrepo.NewFakeAccessTokenRepo()
	return tokens.New(requestRepo, accessRepo, options...), requestRepo, accessRepo
}

func TestIssueRequestToken(t *testing.T) {
	m, requestRepo, _ := newManager(t)

	rt, err := m.IssueRequestToken("c-1", "http://consumer.example.com/cb")
	require.NoError(t, err)
	require.Len(t, rt.Token, 32)
	require.Len(t, rt.Secret, 32)
	require.NotEqual(t, rt.Token, rt.Secret)
	require.Equal(t, "c-1", rt.ConsumerID)
	require.Equal(t, "http://consumer.example.com/cb", rt.CallbackURL)
	require.False(t, rt.Approved)

	stored, err := requestRepo.Get(rt.Token)
	require.NoError(t, err)
	require.Same(t, rt, stored)
}

func TestGetRequestTokenExpiry(t *testing.T) {
	now := time.Now()
	m, _, _ := newManager(t,
		tokens.WithNowFunc(func() time.Time { return now }),
		tokens.WithRequestTokenExpiry(time.Minute),
	)

	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)

	got, err := m.GetRequestToken(rt.Token)
	require.NoError(t, err)
	require.Same(t, rt, got)

	now = now.Add(2 * time.Minute)
	got, err = m.GetRequestToken(rt.Token)
	require.NoError(t, err)
	require.Nil(t, got, "expired request tokens are gone")
}

// brokenRequestTokenRepo fails every lookup, standing in for a storage
// backend that is down.
type brokenRequestTokenRepo struct {
	tokens.RequestTokenRepo
}

func (brokenRequestTokenRepo) Get(string) (*tokens.RequestToken, error) {
	return nil, errors.New("connection refused")
}

func TestGetRequestTokenStorageFailure(t *testing.T) {
	m := tokens.New(brokenRequestTokenRepo{}, faketokenrepo.NewFakeAccessTokenRepo())

	got, err := m.GetRequestToken("tok")
	require.Error(t, err, "a storage failure is not the same as an unknown token")
	require.Nil(t, got)
}

func TestApproveAndVerifyExchange(t *testing.T) {
	m, _, _ := newManager(t)
	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)

	verifier, err := m.Approve(rt.Token, "u-1")
	require.NoError(t, err)
	require.NotEmpty(t, verifier)

	ok, err := m.VerifyExchange(rt.Token, verifier)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.VerifyExchange(rt.Token, "wrong")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyExchangeUnapproved(t *testing.T) {
	m, _, _ := newManager(t)
	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)

	ok, err := m.VerifyExchange(rt.Token, "")
	require.NoError(t, err)
	require.False(t, ok, "an unapproved token never verifies")
}

func TestExchangeRetiresRequestToken(t *testing.T) {
	m, requestRepo, accessRepo := newManager(t)
	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)
	_, err = m.Approve(rt.Token, "u-1")
	require.NoError(t, err)

	at, err := m.Exchange(rt.Token)
	require.NoError(t, err)
	require.NotNil(t, at)
	require.Equal(t, "c-1", at.ConsumerID)
	require.Equal(t, "u-1", at.UserID)

	stored, err := accessRepo.Get(at.Token)
	require.NoError(t, err)
	require.Same(t, at, stored)

	_, err = requestRepo.Get(rt.Token)
	require.Error(t, err, "the request token is deleted on exchange")

	again, err := m.Exchange(rt.Token)
	require.NoError(t, err)
	require.Nil(t, again, "a second exchange of the same token yields nothing")
}

func TestExchangeUnapprovedToken(t *testing.T) {
	m, _, _ := newManager(t)
	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)

	at, err := m.Exchange(rt.Token)
	require.NoError(t, err)
	require.Nil(t, at)
}

func TestRevoke(t *testing.T) {
	m, _, accessRepo := newManager(t)
	rt, err := m.IssueRequestToken("c-1", "")
	require.NoError(t, err)
	_, err = m.Approve(rt.Token, "u-1")
	require.NoError(t, err)
	at, err := m.Exchange(rt.Token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(at.Token))
	_, err = accessRepo.Get(at.Token)
	require.Error(t, err)
}
