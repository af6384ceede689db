// Package auth signs and verifies the notification tokens pushed by the
// backend, so the shell only applies outcomes the backend actually issued.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/skydragon/internal/session"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("notification token required")
	ErrMissingKey   = errors.New("signing key required")
)

// TokenManager handles notification token generation and validation.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims carried by a notification.
type Claims struct {
	Kind        string `json:"kind"`
	ReferralID  string `json:"referral_id,omitempty"`
	Name        string `json:"name,omitempty"`
	TierID      int    `json:"tier_id,omitempty"`
	Periods     int    `json:"periods,omitempty"`
	Recipient   string `json:"recipient,omitempty"`
	Description string `json:"description,omitempty"`
	Devices     int    `json:"devices,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenManager creates a new token manager with the given secret and token duration.
// secretKey is shared with the backend; tokenDuration bounds how long a
// notification stays acceptable after it was issued.
func NewTokenManager(secretKey string, tokenDuration time.Duration) (*TokenManager, error) {
	if secretKey == "" {
		return nil, ErrMissingKey
	}
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Generate creates a signed token for the given notification.
func (m *TokenManager) Generate(n session.Notification) (string, error) {
	issued := n.At
	if issued.IsZero() {
		issued = m.now()
	}
	claims := &Claims{
		Kind:        string(n.Kind),
		ReferralID:  n.ReferralID,
		Name:        n.Name,
		TierID:      n.TierID,
		Periods:     n.Periods,
		Recipient:   n.Recipient,
		Description: n.Description,
		Devices:     n.Devices,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a token, returning the notification it carries.
func (m *TokenManager) Validate(tokenString string) (session.Notification, error) {
	if tokenString == "" {
		return session.Notification{}, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return session.Notification{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return session.Notification{}, ErrInvalidToken
	}

	n := session.Notification{
		Kind:        session.NotificationKind(claims.Kind),
		ReferralID:  claims.ReferralID,
		Name:        claims.Name,
		TierID:      claims.TierID,
		Periods:     claims.Periods,
		Recipient:   claims.Recipient,
		Description: claims.Description,
		Devices:     claims.Devices,
	}
	if claims.IssuedAt != nil {
		n.At = claims.IssuedAt.Time
	}
	return n, nil
}
