package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed, expiring session tokens.
// It holds no per-token state: the token itself is the session.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

// Issue signs a token asserting accountID that expires after ttl.
func (s *TokenService) Issue(accountID string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiryAfter(now, ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// expiryAfter returns now+ttl rounded up to whole seconds, the precision of the exp claim,
// so a token never expires before ttl has elapsed.
func expiryAfter(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if rounded := exp.Truncate(time.Second); rounded.Before(exp) {
		return rounded.Add(time.Second)
	}
	return exp
}

// Verify returns the account id asserted by token.
// Expired tokens yield ErrTokenExpired; every other defect yields ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (string, error) {
	accountID, err := s.verify(tokenString)
	switch {
	case err == nil:
		tokenVerifications.WithLabelValues(verifyResultValid).Inc()
	case errors.Is(err, ErrTokenExpired):
		tokenVerifications.WithLabelValues(verifyResultExpired).Inc()
	default:
		tokenVerifications.WithLabelValues(verifyResultInvalid).Inc()
	}
	return accountID, err
}

func (s *TokenService) verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrTokenInvalid
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// The signature is checked before the claims, so an expired token here is authentic.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

// GenerateSecret returns 32 random bytes, hex-encoded, suitable for AUTH_JWT_SECRET.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
