package users_test

import (
	"testing"

	"github.com/oauthkit/go-oauth1-server/users"
	fakeuserrepo "github.com/oauthkit/go-oauth1-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3rSecret", hash)

	u := &users.User{PasswordHash: hash}
	require.True(t, u.CheckPassword("Sup3rSecret"))
	require.False(t, u.CheckPassword("wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"no uppercase", "sup3rsecret", true},
		{"no lowercase", "SUP3RSECRET", true},
		{"no number", "SuperSecret", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Jane", (&users.User{FirstName: "Jane", Username: "jd", Email: "jd@example.com"}).DisplayName())
	require.Equal(t, "jd", (&users.User{Username: "jd", Email: "jd@example.com"}).DisplayName())
	require.Equal(t, "jd@example.com", (&users.User{Email: "jd@example.com"}).DisplayName())
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := &users.User{Email: "jane@example.com", Username: "jane"}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	require.Same(t, u, byEmail)

	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Same(t, u, byID)

	require.NoError(t, repo.SetBlocked("jane@example.com", true))
	require.True(t, byEmail.Blocked)
	require.False(t, byEmail.CanLogIn())

	require.NoError(t, repo.Delete("jane@example.com"))
	_, err = repo.GetByEmail("jane@example.com")
	require.Error(t, err)
}
