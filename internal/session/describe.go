package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from the stored token without the signing key.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// Describe decodes the token claims without verifying the signature.
// Tokens that are not JWTs yield an error; callers treat that as opaque.
func Describe(token string, now time.Time) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = now.After(exp.Time)
	}
	return info, nil
}
