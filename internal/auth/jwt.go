package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every access-token validation failure.
// Malformed tokens, bad signatures, and expired tokens are deliberately not
// distinguished so the error cannot be used as an oracle.
var ErrInvalidToken = errors.New("invalid access token")

// Claims represents the JWT claims for an access token. The subject is the
// username; the role is re-read from storage on refresh, so a role change
// takes effect on the next refresh.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// JWTManager issues and validates signed access tokens. The secret and
// lifetimes are injected once at startup and never mutated.
type JWTManager struct {
	secret       []byte
	accessExpiry time.Duration
}

// NewJWTManager creates a new JWT manager with the given secret and access
// token lifetime.
func NewJWTManager(secret string, accessExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
	}
}

// AccessExpiry returns the configured access token lifetime.
func (m *JWTManager) AccessExpiry() time.Duration {
	return m.accessExpiry
}

// GenerateAccessToken creates a signed HS256 token embedding the username as
// subject, the role, and an absolute expiry of now + the configured lifetime.
func (m *JWTManager) GenerateAccessToken(username string, role string) (string, error) {
	return m.generateWithExpiry(username, role, m.accessExpiry)
}

// generateWithExpiry is split out so tests can mint already-expired tokens.
func (m *JWTManager) generateWithExpiry(username, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "authgo",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signedToken, nil
}

// ValidateAccessToken parses and validates an access token, returning the
// claims only if the signature verifies and the token has not expired. Every
// failure mode collapses to ErrInvalidToken.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
