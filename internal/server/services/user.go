// Package services contains server-side business logic. This file implements
// UserService, the auth gateway: registration, login and resolving the
// current user from a session token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/auth"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/telemetry"
	"go.opentelemetry.io/otel"
)

// MaxPasswordLength bounds the work an unauthenticated caller can request
// from the hasher. Longer passwords are rejected, never truncated.
const MaxPasswordLength = 4096

var tracer = otel.Tracer("github.com/dmitrijs2005/vocabkeeper/internal/server/services")

// AccessToken is a signed session token and its absolute expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// UserService provides authentication-related operations:
// - Register: validate, hash and persist a new user
// - Login: verify credentials and issue a session token
// - Resolve: map a session token back to an active user
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenService
	logger      logging.Logger

	// dummyHash is verified against when the user does not exist, so that
	// unknown and known identifiers cost the same.
	dummyHash string
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	tokens *auth.TokenService, logger logging.Logger) (*UserService, error) {

	dummy, err := hasher.Hash(string(common.GenerateRandByteArray(16)))
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "user_service"),
		dummyHash:   dummy,
	}, nil
}

// Register creates an active user. An existing email yields
// common.ErrDuplicateIdentifier, whether caught by the lookup or by the
// store's unique constraint.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	if err := validateCredentials(email, password); err != nil {
		record("register", err)
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		record("register", common.ErrDuplicateIdentifier)
		return nil, common.ErrDuplicateIdentifier
	} else if !errors.Is(err, common.ErrorNotFound) {
		record("register", err)
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		record("register", err)
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, IsActive: true})
	if err != nil {
		record("register", err)
		if errors.Is(err, common.ErrDuplicateIdentifier) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	record("register", nil)
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies credentials and issues a token whose subject is the email.
// Unknown email, wrong password and inactive account all return
// common.ErrInvalidCredentials after the same amount of hashing work.
func (s *UserService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	ctx, span := tracer.Start(ctx, "UserService.Login")
	defer span.End()

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		record("login", err)
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	encoded := s.dummyHash
	if user != nil {
		encoded = user.PasswordHash
	}

	ok, verr := s.hasher.Verify(password, encoded)
	if verr != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "error", verr)
	}
	if user == nil || !ok || !user.IsActive {
		record("login", common.ErrInvalidCredentials)
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueDefault(user.Email)
	if err != nil {
		record("login", err)
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	record("login", nil)
	s.logger.Debug(ctx, "user logged in", "user_id", user.ID)
	return &AccessToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve returns the active user the token was issued to. Any token error,
// or a subject that no longer maps to an active user, is
// common.ErrUnauthenticated.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Resolve")
	defer span.End()

	subject, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "reason", err.Error())
		record("resolve", common.ErrUnauthenticated)
		return nil, common.ErrUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			record("resolve", common.ErrUnauthenticated)
			return nil, common.ErrUnauthenticated
		}
		record("resolve", err)
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if !user.IsActive {
		record("resolve", common.ErrUnauthenticated)
		return nil, common.ErrUnauthenticated
	}

	record("resolve", nil)
	return user, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is not a valid address", common.ErrorValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, MaxPasswordLength)
	}
	return nil
}

// record bumps the auth counter with an outcome class derived from err.
func record(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, common.ErrDuplicateIdentifier):
		outcome = "duplicate"
	case errors.Is(err, common.ErrInvalidCredentials):
		outcome = "invalid_credentials"
	case errors.Is(err, common.ErrUnauthenticated):
		outcome = "unauthenticated"
	case errors.Is(err, common.ErrorValidation):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	telemetry.AuthOperations.WithLabelValues(operation, outcome).Inc()
}
