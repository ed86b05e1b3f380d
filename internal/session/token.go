package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "storefront-session"

type cookieClaims struct {
	jwt.RegisteredClaims
}

// signToken issues the HS256 cookie value that points at a stored session.
func signToken(secret []byte, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("missing session secret")
	}
	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifyToken checks signature, issuer and expiry and returns the session id.
func verifyToken(tokenString string, secret []byte, now time.Time) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("missing token")
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("missing session secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	claims := &cookieClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("missing session id in token")
	}
	return claims.Subject, nil
}
