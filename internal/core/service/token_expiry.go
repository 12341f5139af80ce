package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the exp claim of a JWT without verifying it. The station
// holds no signing key; the claim only narrows the local expiry and the server
// stays the authority on validity. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// sessionExpiry is now+ttl, pulled in to the token's own expiry when that is
// sooner and still in the future.
func sessionExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if tokExp, ok := tokenExpiry(token); ok && tokExp.After(now) && tokExp.Before(exp) {
		return tokExp
	}
	return exp
}
