package security

import (
	"crypto/rand"
	"encoding/base64"
)

// UniqueString returns a URL-safe random string built from n bytes of entropy.
// Session access keys use 50 bytes, refresh keys 100; at those sizes collisions
// are negligible so the keys can serve as unique lookup criteria.
func UniqueString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
