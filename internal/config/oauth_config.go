package config

import "time"

type OAuthConfig interface {
	GetRealm() string
	GetRequestTokenExpiry() time.Duration
	GetTokenLength() int
	GetTimestampWindow() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetRealm() string {
	return GetEnv("OAUTH_REALM", "Clients")
}

func (OAuth) GetRequestTokenExpiry() time.Duration {
	return 10 * time.Minute
}

func (OAuth) GetTokenLength() int {
	return 16 // 16 bytes = 32 hex characters
}

// GetTimestampWindow bounds how far a signed request's oauth_timestamp
// may drift from server time.
func (OAuth) GetTimestampWindow() time.Duration {
	return 5 * time.Minute
}
