// Package auth issues and verifies roster session tokens and guards
// HTTP routes by role.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rosterhq/roster/internal/users"
)

// Claims are the JWT claims for a roster session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Nickname string         `json:"nickname"`
	Role     users.UserRole `json:"role"`
}

// Issuer issues and verifies session JWTs signed with an HMAC secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewIssuer creates an Issuer. The issuer string becomes the "iss"
// claim and should match the API base URL; ttl defaults to 24 hours
// when zero.
func NewIssuer(secret []byte, issuer string, ttl time.Duration) *Issuer {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue creates a signed session token for u.
func (i *Issuer) Issue(u *users.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
		UserID:   u.ID.String(),
		Email:    u.Email,
		Nickname: u.Nickname,
		Role:     u.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verify session token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unrecognized role in session token")
	}
	return claims, nil
}
