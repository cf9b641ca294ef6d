package server

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oauthkit/go-oauth1-server/clients"
	"github.com/oauthkit/go-oauth1-server/users"
)

const (
	DefaultAdminUsername = "admin"
	DemoConsumerKey      = "demo-consumer"
	DemoConsumerName     = "Demo Consumer"
)

// InitialiseSystem seeds the admin user and a demo consumer on first
// run. Returns the generated admin password on first creation (empty
// string if the user already exists).
func (s *Server) InitialiseSystem() (generatedPassword string, err error) {
	baseURL := s.config.GetBaseURL()

	consumer, err := s.initialiseDemoConsumer()
	if err != nil {
		return "", fmt.Errorf("[Server InitialiseSystem] failed to bootstrap demo consumer: %w", err)
	}

	adminEmail := generateEmailFromBaseURL(DefaultAdminUsername, baseURL)
	generatedPassword, err = s.createAdminUser(adminEmail)
	if err != nil {
		return "", fmt.Errorf("[Server InitialiseSystem] failed to bootstrap admin user: %w", err)
	}

	if generatedPassword != "" {
		log.Info().
			Str("baseURL", baseURL).
			Str("adminEmail", adminEmail).
			Str("adminPassword", generatedPassword).
			Msg("admin user created, change the password after first login")
		log.Info().
			Str("consumerKey", consumer.Key).
			Str("consumerSecret", consumer.Secret).
			Str("requestTokenURL", baseURL+RouteRequestToken).
			Str("authorizeURL", baseURL+RouteAuthorize).
			Str("accessTokenURL", baseURL+RouteAccessToken).
			Msg("demo consumer configured")
	}
	return generatedPassword, nil
}

// initialiseDemoConsumer registers the demo consumer if it doesn't exist.
func (s *Server) initialiseDemoConsumer() (*clients.Consumer, error) {
	existing, err := s.repos.Consumers.GetByKey(DemoConsumerKey)
	if err == nil && existing != nil {
		return existing, nil
	}

	secret, err := randomSecret()
	if err != nil {
		return nil, fmt.Errorf("[server initialiseDemoConsumer] failed to generate secret: %w", err)
	}

	consumer := &clients.Consumer{
		Name:   DemoConsumerName,
		Key:    DemoConsumerKey,
		Secret: secret,
	}
	if err := s.repos.Consumers.Upsert(consumer); err != nil {
		return nil, fmt.Errorf("[server initialiseDemoConsumer] failed to create demo consumer: %w", err)
	}
	return consumer, nil
}

// createAdminUser creates the admin user if none exists.
func (s *Server) createAdminUser(adminEmail string) (generatedPassword string, err error) {
	existing, err := s.repos.Users.GetByEmail(adminEmail)
	if err == nil && existing != nil {
		return "", nil
	}

	generatedPassword, err = randomSecret()
	if err != nil {
		return "", fmt.Errorf("[server createAdminUser] failed to generate password: %w", err)
	}

	passwordHash, err := users.HashPassword(generatedPassword)
	if err != nil {
		return "", fmt.Errorf("[server createAdminUser] failed to hash password: %w", err)
	}

	admin := &users.User{
		Email:        adminEmail,
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		FirstName:    "System",
		LastName:     "Administrator",
		Verified:     true,
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return "", fmt.Errorf("[server createAdminUser] failed to create admin user: %w", err)
	}
	return generatedPassword, nil
}

func randomSecret() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// generateEmailFromBaseURL creates an email address from a username and base URL
// Example: ("admin", "https://auth.example.com/path") -> "admin@auth.example.com"
func generateEmailFromBaseURL(user, baseURL string) string {
	domain := strings.ReplaceAll(strings.ReplaceAll(baseURL, "https://", ""), "http://", "")
	domain = strings.SplitN(domain, "/", 2)[0]
	domain = strings.SplitN(domain, ":", 2)[0]
	return fmt.Sprintf("%s@%s", user, domain)
}
