package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthenticator signs and validates the HS256 bearer tokens issued by the
// token usecase. Access and refresh tokens share the signing secret and differ
// only in claim shape and TTL.
type JWTAuthenticator struct {
	secret string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret string) JWTAuthenticator {
	return JWTAuthenticator{secret: secret}
}

// GenerateToken generates a JWT token with the given claims.
func (a *JWTAuthenticator) GenerateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ParseToken validates a JWT token and returns its claims. An expired token
// surfaces as an error matching jwt.ErrTokenExpired so callers can tell
// "expired, go refresh" apart from "malformed, re-login".
func (a *JWTAuthenticator) ParseToken(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
