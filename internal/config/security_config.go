package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() []byte
	GetMaxSessionAge() time.Duration
	GetSecureCookies() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionSecret() []byte {
	return []byte(GetEnv("SESSION_SECRET", "dev-session-secret"))
}

func (Security) GetMaxSessionAge() time.Duration {
	return 30 * time.Minute // Sessions expire after 30 minutes
}

func (s Security) GetSecureCookies() bool {
	return GetEnv("SECURE_COOKIES", "") == "true"
}
