// Package auth handles signup, login and session management.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// DemoEmail identifies the throwaway demo account.
const DemoEmail = "demo@stockverse.com"

// AuthService handles user registration and the current-user session.
// Credentials are plain text end to end: StockVerse accounts guard
// virtual money only.
type AuthService struct {
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	LedgerRepo  domain.LedgerRepository

	log zerolog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, ledgerRepo domain.LedgerRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		LedgerRepo:  ledgerRepo,
		log:         log.With().Str("component", "auth").Logger(),
	}
}

// Signup registers a new user with the starting balance, creates their
// empty ledger and logs them in. Returns domain.ErrEmailTaken when the
// email is already registered.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	user := &domain.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  password,
		Balance:   domain.StartingBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.LedgerRepo.Save(ctx, user.ID, domain.NewLedger(user.Balance)); err != nil {
		return nil, err
	}
	if err := s.SessionRepo.SetCurrent(ctx, user.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("User registered")
	return user, nil
}

// Login matches email and password against the registered users and
// makes the matching user the session user. Returns
// domain.ErrInvalidCredentials when nothing matches.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil || user.Password != password {
		// Same answer whether the email is unknown or the password is
		// wrong.
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.SessionRepo.SetCurrent(ctx, user.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("User logged in")
	return user, nil
}

// Logout clears the session user.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.SessionRepo.Clear(ctx)
}

// CurrentUser returns the session user, or domain.ErrNotLoggedIn.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	id, ok, err := s.SessionRepo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotLoggedIn
	}

	user, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		// A stale session pointing at a deleted user behaves like being
		// logged out.
		return nil, domain.ErrNotLoggedIn
	}
	return user, nil
}

// ClearDemoUsers removes the demo account, its ledger, and its session
// if it is currently logged in.
func (s *AuthService) ClearDemoUsers(ctx context.Context) error {
	user, err := s.UserRepo.GetByEmail(ctx, DemoEmail)
	if err != nil {
		// No demo user registered; nothing to clear.
		return nil
	}

	if current, ok, err := s.SessionRepo.Current(ctx); err == nil && ok && current == user.ID {
		if err := s.SessionRepo.Clear(ctx); err != nil {
			return err
		}
	}
	if err := s.LedgerRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	if err := s.UserRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info().Msg("Demo user cleared")
	return nil
}

// IsAuthError reports whether err is one of the expected credential
// failures rather than an infrastructure problem.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCredentials) ||
		errors.Is(err, domain.ErrEmailTaken) ||
		errors.Is(err, domain.ErrNotLoggedIn)
}
