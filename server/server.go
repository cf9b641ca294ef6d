package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oauthkit/go-oauth1-server/clients"
	"github.com/oauthkit/go-oauth1-server/instrumentation"
	"github.com/oauthkit/go-oauth1-server/internal/config"
	"github.com/oauthkit/go-oauth1-server/provider"
	"github.com/oauthkit/go-oauth1-server/sessions"
	"github.com/oauthkit/go-oauth1-server/tokens"
	"github.com/oauthkit/go-oauth1-server/users"
)

// Repos bundles the storage collaborators the server works against.
type Repos struct {
	Consumers     clients.Repo
	Users         users.UserRepo
	RequestTokens tokens.RequestTokenRepo
	AccessTokens  tokens.AccessTokenRepo
	Sessions      sessions.Repo
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	router   *mux.Router
	config   config.Config
	engine   *provider.Server
	repos    Repos
	tokens   *tokens.Manager
	sessions *sessions.Manager
	metrics  *instrumentation.Metrics
}

func New(cfg config.Config, repos Repos, options ...Option) (*Server, error) {
	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		repos:  repos,
		env:    cfg.GetEnv(),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.tokens == nil {
		s.tokens = tokens.New(repos.RequestTokens, repos.AccessTokens,
			tokens.WithRequestTokenExpiry(cfg.GetRequestTokenExpiry()),
			tokens.WithTokenLength(cfg.GetTokenLength()),
		)
	}
	if s.sessions == nil {
		manager, err := sessions.NewManager(repos.Sessions, cfg.GetSessionSecret(),
			sessions.WithSecureCookies(cfg.GetSecureCookies()),
			sessions.WithMaxAge(cfg.GetMaxSessionAge()))
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create session manager: %w", err)
		}
		s.sessions = manager
	}
	if s.metrics == nil {
		metrics, err := instrumentation.New(nil)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create metrics: %w", err)
		}
		s.metrics = metrics
	}

	s.engine = provider.NewServer()
	s.engine.RegisterSerializer(func(client any) (any, error) {
		return client.(*clients.Consumer).ID, nil
	})
	s.engine.RegisterDeserializer(func(obj any) (any, error) {
		id, _ := obj.(string)
		consumer, err := s.repos.Consumers.Get(id)
		if err != nil || consumer.Revoked {
			return nil, nil
		}
		return consumer, nil
	})

	if err := parseTemplates(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s.initRoutes()

	return s, nil
}

// Option adjusts the server's collaborators, mostly for tests.
type Option func(*Server)

func WithTokenManager(m *tokens.Manager) Option {
	return func(s *Server) { s.tokens = m }
}

func WithSessionManager(m *sessions.Manager) Option {
	return func(s *Server) { s.sessions = m }
}

func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
