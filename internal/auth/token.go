// Package auth issues and verifies player context tokens.
//
// A player context is an anonymous identity: creating one returns a signed
// token, and every session operation presents it as a bearer credential. No
// accounts, no passwords.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

const defaultTTL = 30 * 24 * time.Hour

// Issuer signs and verifies player context tokens with an HMAC key.
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

type contextClaims struct {
	jwt.RegisteredClaims
	PlayerContextID string `json:"player_context_id"`
}

// NewIssuer builds a token issuer. The key must be non-empty.
func NewIssuer(key []byte, issuer string) (*Issuer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	return &Issuer{
		key:    key,
		issuer: issuer,
		ttl:    defaultTTL,
		clock:  time.Now,
	}, nil
}

// Issue signs a token for the given player context.
func (i *Issuer) Issue(playerContextID string) (string, error) {
	if strings.TrimSpace(playerContextID) == "" {
		return "", fmt.Errorf("player context id is required")
	}

	now := i.clock().UTC()
	claims := contextClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   playerContextID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		PlayerContextID: playerContextID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign context token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the player context ID it carries.
func (i *Issuer) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.E(apperrors.CodeUnauthorized, "context token is required")
	}

	var parsed contextClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(func() time.Time { return i.clock().UTC() }),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnauthorized, "context token is invalid", err)
	}
	if strings.TrimSpace(parsed.PlayerContextID) == "" {
		return "", apperrors.E(apperrors.CodeUnauthorized, "context token has no player context")
	}
	return parsed.PlayerContextID, nil
}
