package clients

import (
	"crypto/hmac"
	"crypto/sha1"
)

// Consumer is an application registered with the provider. It
// authenticates with its key and signs requests with its secret, per
// OAuth 1.0 terminology.
type Consumer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Secret      string   `json:"secret"`
	CallbackURL string   `json:"callbackURL,omitempty"` // pre-registered callback, for 1.0 consumers
	Revoked     bool     `json:"revoked"`
	Scopes      []string `json:"scopes,omitempty"`
}

// HasScope checks if the consumer is allowed a specific scope
func (c *Consumer) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// VerifySecret compares a presented shared secret against the
// consumer's in constant time.
func (c *Consumer) VerifySecret(secret string) bool {
	return hmac.Equal(hashSecret(c.Secret), hashSecret(secret))
}

func hashSecret(s string) []byte {
	h := sha1.Sum([]byte(s))
	return h[:]
}
