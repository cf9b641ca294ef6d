package server

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/provider"
)

// LoggingMiddleware prints a coloured route line per request in DEV,
// and stays quiet everywhere else.
func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			logRoute(r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("recovered from panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// FrameSecurityMiddleware stops the login and authorization pages from
// being embedded in frames on other sites.
func (s *Server) FrameSecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next.ServeHTTP(w, r)
	})
}

// recordProblems counts protocol failures on their way out to the
// error formatter, labelled with the problem code the consumer will
// see. Anything other than an AuthorizationError is reported to the
// consumer as server_error, so it is counted as such here too.
func (s *Server) recordProblems() provider.Middleware {
	return func(next provider.HandlerFunc) provider.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			err := next(w, r)
			if err != nil {
				s.metrics.RecordProblem(r.Context(), reportedProblem(err))
			}
			return err
		}
	}
}

func reportedProblem(err error) string {
	var authzErr *oauthmodel.AuthorizationError
	if errors.As(err, &authzErr) {
		return authzErr.Code
	}
	return oauthmodel.ProblemServerError
}

func logRoute(method, path string) {
	displayMethod := method
	if color, ok := methodColors[method]; ok {
		paddedMethod := fmt.Sprintf(" %-7s", method)
		displayMethod = color + paddedMethod + ResetColor
	}
	fmt.Println("["+displayMethod+"]", path)
}
