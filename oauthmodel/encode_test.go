package oauthmodel_test

import (
	"testing"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/stretchr/testify/require"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unreserved untouched", "abcXYZ019-._~", "abcXYZ019-._~"},
		{"spaces and separators", "a b&c=d", "a%20b%26c%3Dd"},
		{"oauth profile extras", "!'()*", "%21%27%28%29%2A"},
		{"slash and colon", "http://x/y", "http%3A%2F%2Fx%2Fy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, oauthmodel.PercentEncode(tc.in))
		})
	}
}

func TestParamsEncodePreservesOrder(t *testing.T) {
	params := oauthmodel.Params{}.
		Add("xoauth_extra", "1").
		Add("oauth_token", "abc").
		Add("oauth_token_secret", "s s")
	require.Equal(t, "xoauth_extra=1&oauth_token=abc&oauth_token_secret=s%20s", params.Encode())
}

func TestCallbackWithParams(t *testing.T) {
	location, err := oauthmodel.CallbackWithParams("http://consumer.example.com/cb?keep=1#frag",
		oauthmodel.Params{}.Add("oauth_token", "abc").Add("oauth_verifier", "v123"))
	require.NoError(t, err)
	require.Equal(t, "http://consumer.example.com/cb?keep=1&oauth_token=abc&oauth_verifier=v123", location)
}

func TestCallbackWithParamsBadURL(t *testing.T) {
	_, err := oauthmodel.CallbackWithParams("http://%zz", oauthmodel.Params{}.Add("oauth_problem", "user_refused"))
	require.Error(t, err)
}
