package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignedToken is a freshly signed access token together with its claims.
type SignedToken struct {
	SignedString string
	Claims       *jwt.RegisteredClaims
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token.
//
// The token carries the issuer, the subject, a random token ID and the
// issue time. A non-positive tokenDuration produces a token without an
// exp claim, which never expires.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("fakeapi", "user@example.com", time.Now(), time.Hour, "secret")
func GenerateJWTToken(issuer, subject string, issuedAt time.Time, tokenDuration time.Duration, signKey string) (SignedToken, error) {
	if issuer == "" || subject == "" || signKey == "" {
		return SignedToken{}, errors.New("invalid params for generating JWT Token")
	}

	claims := &jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  subject,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	if tokenDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(tokenDuration))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return SignedToken{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return SignedToken{SignedString: signed, Claims: claims}, nil
}

// ValidateAndParseJWTToken checks the signature, the issuer and the
// expiry of tokenString against now, and returns its subject.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return "", fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if subject == "" {
		return "", errors.New("empty subject error")
	}

	return subject, nil
}
