// Package auth implements credential hashing and session tokens for the
// server: an Argon2id PasswordHasher and a JWT TokenService.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates HMAC-signed JWTs whose subject is the
// user's email. The key is fixed at construction; replacing it invalidates
// every token issued before.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, e.g. to test expiry.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService builds a TokenService for one of HS256, HS384 or HS512.
func NewTokenService(secretKey string, algorithm string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("token secret key is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("negative token ttl %s", ttl)
	}

	s := &TokenService{
		secret: []byte(secretKey),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the lifetime applied by IssueDefault.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// IssueDefault issues a token for subject with the configured TTL.
func (s *TokenService) IssueDefault(subject string) (string, time.Time, error) {
	return s.Issue(subject, s.ttl)
}

// Issue signs a token for subject that expires at now+ttl. The expiry is
// returned alongside the token for clients that want to schedule re-login.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(s.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Time, nil
}

// Validate checks the signature first, then expiry, and returns the subject.
//
// Errors:
//   - common.ErrTokenMalformed: not a JWT, bad encoding, or no subject.
//   - common.ErrInvalidSignature: tampered, foreign key, or foreign algorithm.
//   - common.ErrTokenExpired: now is at or after exp.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", classify(err)
	}

	if claims.Subject == "" {
		return "", common.ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrTokenMalformed
	}
}
