package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for malformed, expired, or wrongly
// signed tokens, and for tokens that do not grant the authenticated role.
var ErrInvalidToken = errors.New("invalid bearer token")

// Claims is the JWT payload carried by authenticated callers.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint signs an HS256 token granting the authenticated role to subject for
// ttl. Used by the token CLI; the API server only verifies.
func Mint(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	now := time.Now()
	claims := Claims{
		Role: string(RoleAuthenticated),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify parses an HS256 token against secret and returns the role it grants.
// A token that fails any check yields ErrInvalidToken; callers map that to
// 401 rather than downgrading to anonymous.
func Verify(secret, tokenString string) (Role, error) {
	if secret == "" {
		return RoleAnonymous, fmt.Errorf("%w: authenticated access disabled", ErrInvalidToken)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return RoleAnonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return RoleAnonymous, ErrInvalidToken
	}
	if claims.Role != string(RoleAuthenticated) {
		return RoleAnonymous, fmt.Errorf("%w: role %q not recognized", ErrInvalidToken, claims.Role)
	}
	return RoleAuthenticated, nil
}
