package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
	PurposeReset   = "reset"
)

// resetTTL bounds how long a password-reset token stays usable.
const resetTTL = time.Hour

type Claims struct {
	jwt.RegisteredClaims
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
}

// TokenIssuer signs and verifies the HS256 access and refresh tokens this
// server issues itself.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (t *TokenIssuer) IssueAccess(userID uuid.UUID, role string) (string, error) {
	return t.sign(t.accessSecret, userID, role, PurposeAccess, t.accessTTL)
}

func (t *TokenIssuer) IssueRefresh(userID uuid.UUID) (string, error) {
	return t.sign(t.refreshSecret, userID, "", PurposeRefresh, t.refreshTTL)
}

// IssueReset mints a short-lived token a user presents to set a new password.
func (t *TokenIssuer) IssueReset(userID uuid.UUID) (string, error) {
	return t.sign(t.accessSecret, userID, "", PurposeReset, resetTTL)
}

func (t *TokenIssuer) sign(secret []byte, userID uuid.UUID, role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:    role,
		Purpose: purpose,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess parses and validates an access token.
func (t *TokenIssuer) VerifyAccess(tokenStr string) (*Claims, error) {
	return verify(t.accessSecret, tokenStr, PurposeAccess)
}

// VerifyRefresh parses and validates a refresh token.
func (t *TokenIssuer) VerifyRefresh(tokenStr string) (*Claims, error) {
	return verify(t.refreshSecret, tokenStr, PurposeRefresh)
}

// VerifyReset parses and validates a password-reset token.
func (t *TokenIssuer) VerifyReset(tokenStr string) (*Claims, error) {
	return verify(t.accessSecret, tokenStr, PurposeReset)
}

func verify(secret []byte, tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("token purpose %q, expected %q", claims.Purpose, purpose)
	}
	return claims, nil
}
