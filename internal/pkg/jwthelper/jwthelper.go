package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims

	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	PolicyCode  string   `json:"policy_code"`
}

// GenerateToken mints a signed session token carrying the account's resolved
// permission set and policy code. It returns the token and its expiry instant.
func GenerateToken(signingKey []byte, issuer string, validity time.Duration, userID int64, email string, permissions []string, policyCode string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(validity)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:       email,
		Permissions: permissions,
		PolicyCode:  policyCode,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, expiresAt, nil
}

// ParseToken validates a session token and returns its claims.
func ParseToken(signingKey []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt.ParseWithClaims -> %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
