package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// UID returns a URL-safe random identifier of exactly n characters.
func UID(n int) string {
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure means the platform is broken
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n]
}
