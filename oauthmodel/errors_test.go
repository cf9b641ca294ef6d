package oauthmodel_test

import (
	"net/http"
	"testing"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationErrorDefaults(t *testing.T) {
	err := oauthmodel.NewAuthorizationError("request token not valid", "")
	require.Equal(t, oauthmodel.ProblemTokenRejected, err.Code)
	require.Equal(t, http.StatusUnauthorized, err.Status)
	require.Equal(t, "token_rejected: request token not valid", err.Error())
}

func TestAuthorizationErrorStatusFromCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{oauthmodel.ProblemVersionRejected, http.StatusBadRequest},
		{oauthmodel.ProblemParameterAbsent, http.StatusBadRequest},
		{oauthmodel.ProblemParameterRejected, http.StatusBadRequest},
		{oauthmodel.ProblemTimestampRefused, http.StatusBadRequest},
		{oauthmodel.ProblemNonceUsed, http.StatusBadRequest},
		{oauthmodel.ProblemSignatureMethodRejected, http.StatusBadRequest},
		{oauthmodel.ProblemPermissionDenied, http.StatusForbidden},
		{oauthmodel.ProblemTokenRejected, http.StatusUnauthorized},
		{oauthmodel.ProblemTokenExpired, http.StatusUnauthorized},
		{oauthmodel.ProblemConsumerKeyRejected, http.StatusUnauthorized},
		{oauthmodel.ProblemVerifierInvalid, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			err := oauthmodel.NewAuthorizationError("nope", tc.code)
			require.Equal(t, tc.status, err.StatusCode())
			require.Equal(t, tc.code, err.ProblemCode())
		})
	}
}

func TestAuthorizationErrorExplicitStatus(t *testing.T) {
	err := oauthmodel.NewAuthorizationError("gone", oauthmodel.ProblemTokenRejected, http.StatusGone)
	require.Equal(t, http.StatusGone, err.Status)
}

func TestBadRequestError(t *testing.T) {
	err := oauthmodel.NewBadRequestError("missing oauth_token parameter")
	require.Equal(t, http.StatusBadRequest, err.StatusCode())
	require.Equal(t, "missing oauth_token parameter", err.Error())
}
