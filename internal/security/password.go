package security

import (
	"github.com/matthewhartstonge/argon2"
)

var hashConfig = argon2.DefaultConfig()

// HashPassword hashes a plain text password using argon2id and returns the
// encoded form suitable for storage.
func HashPassword(password string) (string, error) {
	encoded, err := hashConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword checks a plain text password against an encoded argon2 hash.
func VerifyPassword(password, passwordHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(passwordHash))
}
