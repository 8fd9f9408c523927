package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySlack is how close to expiry an access token may get before callers
// should refresh it proactively instead of waiting for a 401.
const expirySlack = 30 * time.Second

// AccessTokenExpiry extracts the expiry claim from an access token.
// Tokens are opaque by contract, but the backend issues JWTs in practice;
// when the token is not a parseable JWT or carries no exp claim, ok is
// false and callers must fall back to reactive 401 handling.
func AccessTokenExpiry(token string) (expiry time.Time, ok bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiresSoon reports whether the token is known to expire within the slack
// window. Opaque tokens always report false.
func ExpiresSoon(token string, now time.Time) bool {
	exp, ok := AccessTokenExpiry(token)
	if !ok {
		return false
	}
	return !now.Add(expirySlack).Before(exp)
}
