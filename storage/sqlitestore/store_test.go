package sqlitestore_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oauthkit/go-oauth1-server/clients"
	"github.com/oauthkit/go-oauth1-server/storage/sqlitestore"
	"github.com/oauthkit/go-oauth1-server/tokens"
	"github.com/oauthkit/go-oauth1-server/users"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.New(filepath.Join(t.TempDir(), "oauth1.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRequestTokenRoundTrip(t *testing.T) {
	repo := newStore(t).RequestTokens()

	iat := time.Now().Truncate(time.Second)
	rt := &tokens.RequestToken{
		Token:       "hh5s93j4hdidpola",
		Secret:      "hdhd0244k9j7ao03",
		ConsumerID:  "c-1",
		CallbackURL: "http://consumer.example.com/cb",
		Iat:         iat,
	}
	require.NoError(t, repo.Upsert(rt))

	got, err := repo.Get("hh5s93j4hdidpola")
	require.NoError(t, err)
	require.Equal(t, rt.Secret, got.Secret)
	require.Equal(t, rt.ConsumerID, got.ConsumerID)
	require.Equal(t, rt.CallbackURL, got.CallbackURL)
	require.False(t, got.Approved)
	require.True(t, got.Iat.Equal(iat))
}

func TestRequestTokenUpsertUpdates(t *testing.T) {
	repo := newStore(t).RequestTokens()

	rt := &tokens.RequestToken{Token: "t-1", Secret: "s-1", ConsumerID: "c-1", Iat: time.Now()}
	require.NoError(t, repo.Upsert(rt))

	rt.Approved = true
	rt.UserID = "u-1"
	rt.Verifier = "hfdp7dh39dks9884"
	require.NoError(t, repo.Upsert(rt))

	got, err := repo.Get("t-1")
	require.NoError(t, err)
	require.True(t, got.Approved)
	require.Equal(t, "u-1", got.UserID)
	require.Equal(t, "hfdp7dh39dks9884", got.Verifier)
}

func TestRequestTokenDelete(t *testing.T) {
	repo := newStore(t).RequestTokens()

	require.NoError(t, repo.Upsert(&tokens.RequestToken{Token: "t-1", Secret: "s", ConsumerID: "c", Iat: time.Now()}))
	require.NoError(t, repo.Delete("t-1"))

	_, err := repo.Get("t-1")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	repo := newStore(t).AccessTokens()

	at := &tokens.AccessToken{
		Token:      "nnch734d00sl2jdk",
		Secret:     "pfkkdhi9sl3r4s00",
		ConsumerID: "c-1",
		UserID:     "u-1",
		Iat:        time.Now().Truncate(time.Second),
	}
	require.NoError(t, repo.Upsert(at))

	got, err := repo.Get("nnch734d00sl2jdk")
	require.NoError(t, err)
	require.Equal(t, at.Secret, got.Secret)
	require.Equal(t, at.UserID, got.UserID)

	require.NoError(t, repo.Delete(at.Token))
	_, err = repo.Get(at.Token)
	require.Error(t, err)
}

func TestAccessTokenListByUserID(t *testing.T) {
	repo := newStore(t).AccessTokens()

	now := time.Now().Truncate(time.Second)
	for i, token := range []string{"t-1", "t-2"} {
		require.NoError(t, repo.Upsert(&tokens.AccessToken{
			Token: token, Secret: "s", ConsumerID: "c-1", UserID: "u-1",
			Iat: now.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.Upsert(&tokens.AccessToken{
		Token: "t-3", Secret: "s", ConsumerID: "c-1", UserID: "u-2", Iat: now,
	}))

	list, err := repo.ListByUserID("u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "t-1", list[0].Token)
	require.Equal(t, "t-2", list[1].Token)
}

func TestConsumerRoundTrip(t *testing.T) {
	repo := newStore(t).Consumers()

	c := &clients.Consumer{
		Name:        "Example Printer",
		Key:         "dpf43f3p2l4k3l03",
		Secret:      "kd94hf93k423kf44",
		CallbackURL: "http://printer.example.com/ready",
		Scopes:      []string{"photos:read", "photos:print"},
	}
	require.NoError(t, repo.Upsert(c))
	require.NotEmpty(t, c.ID, "upsert assigns an id")

	byID, err := repo.Get(c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Name, byID.Name)
	require.Equal(t, c.Scopes, byID.Scopes)

	byKey, err := repo.GetByKey("dpf43f3p2l4k3l03")
	require.NoError(t, err)
	require.Equal(t, c.ID, byKey.ID)
	require.Equal(t, c.Secret, byKey.Secret)
}

func TestConsumerRevokeAndDelete(t *testing.T) {
	repo := newStore(t).Consumers()

	c := &clients.Consumer{Name: "App", Key: "k-1", Secret: "s-1"}
	require.NoError(t, repo.Upsert(c))

	c.Revoked = true
	require.NoError(t, repo.Upsert(c))

	got, err := repo.Get(c.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	require.NoError(t, repo.Delete(c.ID))
	_, err = repo.Get(c.ID)
	require.Error(t, err)
}

func TestConsumerList(t *testing.T) {
	repo := newStore(t).Consumers()

	for _, key := range []string{"k-1", "k-2", "k-3"} {
		require.NoError(t, repo.Upsert(&clients.Consumer{Name: key, Key: key, Secret: "s"}))
	}

	page, err := repo.List(0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func TestUserRoundTrip(t *testing.T) {
	repo := newStore(t).Users()

	hash, err := users.HashPassword("Printer123!")
	require.NoError(t, err)

	u := &users.User{
		Email:        "jane@example.com",
		Username:     "jane",
		PasswordHash: hash,
		FirstName:    "Jane",
		Verified:     true,
	}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)
	require.False(t, u.DateJoined.IsZero(), "upsert stamps the join date")

	byEmail, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.True(t, byEmail.CheckPassword("Printer123!"))
	require.True(t, byEmail.LastLogin.IsZero())

	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "jane", byID.Username)
}

func TestUserBlockedAndVerifiedFlags(t *testing.T) {
	repo := newStore(t).Users()

	u := &users.User{Email: "sam@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Upsert(u))

	require.NoError(t, repo.SetBlocked("sam@example.com", true))
	require.NoError(t, repo.SetVerified("sam@example.com", true))

	got, err := repo.GetByEmail("sam@example.com")
	require.NoError(t, err)
	require.True(t, got.Blocked)
	require.True(t, got.Verified)
	require.False(t, got.CanLogIn())
}

func TestManagerWithSQLiteStore(t *testing.T) {
	store := newStore(t)
	m := tokens.New(store.RequestTokens(), store.AccessTokens())

	rt, err := m.IssueRequestToken("c-1", "http://consumer.example.com/cb")
	require.NoError(t, err)

	verifier, err := m.Approve(rt.Token, "u-1")
	require.NoError(t, err)

	ok, err := m.VerifyExchange(rt.Token, verifier)
	require.NoError(t, err)
	require.True(t, ok)

	at, err := m.Exchange(rt.Token)
	require.NoError(t, err)
	require.NotNil(t, at)

	gone, err := m.GetRequestToken(rt.Token)
	require.NoError(t, err)
	require.Nil(t, gone)
}
