package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, secret string, now time.Time) *TokenService {
	t.Helper()
	s, err := NewTokenService(secret, "HS256", 30*time.Minute, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return s
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("", "HS256", time.Minute)
	require.Error(t, err)

	_, err = NewTokenService("k", "RS256", time.Minute)
	require.Error(t, err, "asymmetric algorithms are not supported")

	_, err = NewTokenService("k", "nope", time.Minute)
	require.Error(t, err)

	_, err = NewTokenService("k", "HS256", -time.Second)
	require.Error(t, err)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		s, err := NewTokenService("k", alg, time.Minute)
		require.NoError(t, err, alg)
		assert.Equal(t, time.Minute, s.TTL())
	}
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "super-secret", time.Unix(1_700_000_000, 0))

	tok, exp, err := s.IssueDefault("a@x.com")
	require.NoError(t, err)
	assert.True(t, time.Unix(1_700_000_000, 0).Add(30*time.Minute).Equal(exp))

	subject, err := s.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestValidate_ZeroTTLIsExpiredImmediately(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", time.Unix(1_700_000_000, 0))

	tok, _, err := s.Issue("a@x.com", 0)
	require.NoError(t, err)

	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestValidate_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestTokenService(t, "secret", now)

	tok, _, err := s.Issue("a@x.com", time.Minute)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(59 * time.Second) }
	_, err = s.Validate(tok)
	require.NoError(t, err, "still valid before expiry")

	s.now = func() time.Time { return now.Add(time.Minute) }
	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired, "expired at exactly exp")
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	issuer := newTestTokenService(t, "right-secret", now)
	verifier := newTestTokenService(t, "wrong-secret", now)

	tok, _, err := issuer.IssueDefault("a@x.com")
	require.NoError(t, err)

	_, err = verifier.Validate(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestValidate_TamperedSubject(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", time.Unix(1_700_000_000, 0))

	tok, _, err := s.IssueDefault("a@x.com")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["sub"] = "mallory@x.com"
	forged, err := json.Marshal(claims)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = s.Validate(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestValidate_TamperedAndExpiredReportsSignature(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", time.Unix(1_700_000_000, 0))
	tok, _, err := s.Issue("a@x.com", 0)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	parts[2] = base64.RawURLEncoding.EncodeToString([]byte("not-the-signature"))

	_, err = s.Validate(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestValidate_ForeignAlgorithm(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestTokenService(t, "secret", now)

	other := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	tok, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.Validate(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	s := newTestTokenService(t, "secret", time.Unix(1_700_000_000, 0))

	for _, tok := range []string{"", "not-a-valid-jwt", "a.b.c", "....."} {
		_, err := s.Validate(tok)
		assert.ErrorIs(t, err, common.ErrTokenMalformed, "token %q", tok)
	}
}

func TestValidate_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	s := newTestTokenService(t, "secret", now)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Validate(noSub)
	assert.ErrorIs(t, err, common.ErrTokenMalformed)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "a@x.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Validate(noExp)
	assert.ErrorIs(t, err, common.ErrTokenMalformed)
}
