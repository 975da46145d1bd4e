package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// MintSessionToken signs an HS256 session token for the given identity.
func MintSessionToken(signingKey []byte, userID, email, displayName string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:       email,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies a session token and returns its claims. Expired
// or malformed tokens come back as CodeUnauthorized.
func ParseSessionToken(signingKey []byte, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, "invalid session token")
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid session token")
	}
	return claims, nil
}
