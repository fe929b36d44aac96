package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrMalformedToken = errors.New("malformed access token")

// InspectToken reads the claims of an access token without verifying its
// signature. The backend remains the only authority on validity.
func InspectToken(token string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// Expired reports whether the token carries an expiry before now.
// Tokens without an exp claim never expire locally.
func (c *JWTClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
