package models

import (
	"math"
	"time"

	"golang.org/x/oauth2"
)

// TokenState is the access/refresh token pair issued by the TrackVia token
// endpoint together with its lifetime.
//
// A TokenState is never mutated after construction. Login and refresh produce
// a new value which replaces the previous one wholesale, so a reader holding
// a TokenState always sees a consistent triple.
type TokenState struct {
	// AccessToken is the short-lived bearer credential sent as the
	// access_token query parameter on every API call.
	AccessToken string

	// RefreshToken is exchanged for a new TokenState without re-sending the
	// user's password.
	RefreshToken string

	// ExpiresIn is the lifetime of AccessToken in seconds, as reported by the
	// server at IssuedAt.
	ExpiresIn int64

	// IssuedAt is the local time at which the token response was received.
	IssuedAt time.Time
}

// MaxExpiresIn is the longest lifetime, in seconds, a time.Duration can hold.
// Longer lifetimes are treated as this value.
const MaxExpiresIn = int64(math.MaxInt64 / int64(time.Second))

// IsZero reports whether t holds no access token.
func (t TokenState) IsZero() bool {
	return t.AccessToken == ""
}

// Lifetime returns ExpiresIn as a time.Duration, capped at MaxExpiresIn.
func (t TokenState) Lifetime() time.Duration {
	return time.Duration(min(t.ExpiresIn, MaxExpiresIn)) * time.Second
}

// Expiry returns the absolute instant at which AccessToken stops being valid.
func (t TokenState) Expiry() time.Time {
	return t.IssuedAt.Add(t.Lifetime())
}

// OAuth2 returns t as an [oauth2.Token] so it can be handed to code built on
// golang.org/x/oauth2.
func (t TokenState) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry(),
		ExpiresIn:    t.ExpiresIn,
	}
}
