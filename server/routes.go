package server

import (
	"net/http"

	"github.com/oauthkit/go-oauth1-server/provider"
)

func (s *Server) initRoutes() {
	s.router.Use(s.RecoverMiddleware, s.LoggingMiddleware)

	realm := provider.WithRealm(s.config.GetRealm())

	// Token endpoints. Failures are reported directly in the response
	// body with a WWW-Authenticate challenge where appropriate.
	s.router.Handle(RouteRequestToken, provider.HTTPHandler(provider.Chain(
		s.requestTokenHandler(),
		provider.ErrorHandler(realm),
		s.recordProblems(),
		s.consumerAuth(stageRequestToken),
	))).Methods(http.MethodPost)

	s.router.Handle(RouteAccessToken, provider.HTTPHandler(provider.Chain(
		s.accessTokenHandler(),
		provider.ErrorHandler(realm),
		s.recordProblems(),
		s.consumerAuth(stageAccessToken),
	))).Methods(http.MethodPost)

	// Browser endpoints. Failures travel back to the consumer via its
	// callback where one is known.
	s.router.Handle(RouteAuthorize, s.browserHandler(provider.Chain(
		s.consentPageHandler(),
		provider.ErrorHandler(realm, provider.WithMode(provider.ModeIndirect)),
		s.recordProblems(),
		s.requireLogin(),
		s.engine.UserAuthorization(s.validateRequestToken()),
	))).Methods(http.MethodGet)

	s.router.Handle(RouteDecision, s.browserHandler(provider.Chain(
		s.decisionResultHandler(),
		provider.ErrorHandler(realm, provider.WithMode(provider.ModeIndirect)),
		s.recordProblems(),
		s.requireLogin(),
		s.engine.UserDecision(s.issueVerifier()),
	))).Methods(http.MethodPost)

	// Login
	s.router.Handle(RouteLogin, s.browserFunc(s.loginPageHandler)).Methods(http.MethodGet)
	s.router.Handle(RouteLogin, s.browserFunc(s.loginSubmitHandler)).Methods(http.MethodPost)
	s.router.Handle(RouteLogout, s.browserFunc(s.logoutHandler)).Methods(http.MethodGet)
}

// browserHandler dresses a handler chain with the session and
// frame-security middleware every browser-facing endpoint needs.
func (s *Server) browserHandler(h provider.HandlerFunc) http.Handler {
	return s.FrameSecurityMiddleware(s.sessions.Middleware(provider.HTTPHandler(h)))
}

func (s *Server) browserFunc(h http.HandlerFunc) http.Handler {
	return s.FrameSecurityMiddleware(s.sessions.Middleware(h))
}
