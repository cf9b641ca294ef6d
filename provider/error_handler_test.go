package provider_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/provider"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func failWith(err error) provider.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error { return err }
}

func TestErrorHandlerDirectAuthorizationError(t *testing.T) {
	handler := provider.ErrorHandler()(failWith(
		oauthmodel.NewAuthorizationError("user denied access", oauthmodel.ProblemPermissionDenied)))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/oauth/access_token", nil)
	require.NoError(t, handler(w, r))

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t,
		`OAuth realm="Clients",oauth_problem="permission_denied",oauth_problem_advice="user%20denied%20access"`,
		w.Header().Get("WWW-Authenticate"))
	require.Equal(t, "application/x-www-form-urlencoded", w.Header().Get("Content-Type"))
	require.Equal(t, "oauth_problem=permission_denied&oauth_problem_advice=user%20denied%20access", w.Body.String())
}

func TestErrorHandlerDirectRealmOption(t *testing.T) {
	handler := provider.ErrorHandler(provider.WithRealm("Photos"))(failWith(
		oauthmodel.NewAuthorizationError("token expired", oauthmodel.ProblemTokenExpired)))

	w := httptest.NewRecorder()
	require.NoError(t, handler(w, httptest.NewRequest(http.MethodPost, "/oauth/access_token", nil)))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Header().Get("WWW-Authenticate"), `OAuth realm="Photos"`)
}

func TestErrorHandlerDirectBadRequest(t *testing.T) {
	handler := provider.ErrorHandler()(failWith(
		&oauthmodel.BadRequestError{Message: "missing oauth_token parameter"}))

	w := httptest.NewRecorder()
	require.NoError(t, handler(w, httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, w.Header().Get("WWW-Authenticate"), "challenges accompany 401 and 403 only")
	require.Equal(t, "oauth_problem=server_error&oauth_problem_advice=missing%20oauth_token%20parameter", w.Body.String())
}

func TestErrorHandlerDirectPlainError(t *testing.T) {
	handler := provider.ErrorHandler()(failWith(errors.New("storage down")))

	w := httptest.NewRecorder()
	require.NoError(t, handler(w, httptest.NewRequest(http.MethodPost, "/oauth/request_token", nil)))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "oauth_problem=server_error&oauth_problem_advice=storage%20down", w.Body.String())
}

func TestErrorHandlerIndirectRedirects(t *testing.T) {
	inner := func(w http.ResponseWriter, r *http.Request) error {
		octx := provider.FromRequest(r)
		octx.CallbackURL = "http://consumer.example.com/cb"
		return oauthmodel.NewAuthorizationError("request token not valid", oauthmodel.ProblemTokenRejected)
	}
	handler := provider.ErrorHandler(provider.WithMode(provider.ModeIndirect))(inner)

	w := httptest.NewRecorder()
	require.NoError(t, handler(w, httptest.NewRequest(http.MethodGet, "/oauth/authorize?oauth_token=bad", nil)))

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t,
		"http://consumer.example.com/cb?oauth_problem=token_rejected&oauth_problem_advice=request%20token%20not%20valid",
		w.Header().Get("Location"))
}

func TestErrorHandlerIndirectNoCallbackPassesUp(t *testing.T) {
	boom := oauthmodel.NewAuthorizationError("request token not valid", oauthmodel.ProblemTokenRejected)
	handler := provider.ErrorHandler(provider.WithMode(provider.ModeIndirect))(failWith(boom))

	w := httptest.NewRecorder()
	err := handler(w, httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil))

	require.Same(t, boom, err)
	require.Zero(t, w.Body.Len())
}

func TestErrorHandlerIndirectOOBPassesUp(t *testing.T) {
	inner := func(w http.ResponseWriter, r *http.Request) error {
		provider.FromRequest(r).CallbackURL = provider.OOB
		return errors.New("boom")
	}
	handler := provider.ErrorHandler(provider.WithMode(provider.ModeIndirect))(inner)

	err := handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil))
	require.EqualError(t, err, "boom")
}

func TestErrorHandlerUnknownModePassesUp(t *testing.T) {
	boom := errors.New("boom")
	handler := provider.ErrorHandler(provider.WithMode("carrier-pigeon"))(failWith(boom))

	err := handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, boom)
}

func TestErrorHandlerSuccessPassesThrough(t *testing.T) {
	handler := provider.ErrorHandler()(func(w http.ResponseWriter, r *http.Request) error {
		require.NotNil(t, provider.FromRequest(r), "an OAuth context is attached for inner stages")
		w.WriteHeader(http.StatusOK)
		return nil
	})

	w := httptest.NewRecorder()
	require.NoError(t, handler(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Equal(t, http.StatusOK, w.Code)
}
