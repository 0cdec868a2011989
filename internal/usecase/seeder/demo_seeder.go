// Package seeder provisions the built-in demo account.
package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockverse/stockverse-backend/internal/domain"
	"github.com/stockverse/stockverse-backend/internal/usecase/auth"
)

// Demo account credentials. The password is not a secret: the account
// exists so visitors can try the simulator without signing up.
const (
	demoName     = "Demo User"
	demoPassword = "demo123"
)

// DemoSeeder ensures the demo account exists at startup.
type DemoSeeder struct {
	UserRepo   domain.UserRepository
	LedgerRepo domain.LedgerRepository

	log zerolog.Logger
}

// NewDemoSeeder creates a new DemoSeeder instance.
func NewDemoSeeder(userRepo domain.UserRepository, ledgerRepo domain.LedgerRepository, log zerolog.Logger) *DemoSeeder {
	return &DemoSeeder{
		UserRepo:   userRepo,
		LedgerRepo: ledgerRepo,
		log:        log.With().Str("component", "seeder").Logger(),
	}
}

// Seed creates the demo user with the starting balance and a fresh
// ledger. If the demo user already exists, no action is taken.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	if _, err := s.UserRepo.GetByEmail(ctx, auth.DemoEmail); err == nil {
		return nil
	}

	user := &domain.User{
		ID:        uuid.New(),
		Name:      demoName,
		Email:     auth.DemoEmail,
		Password:  demoPassword,
		Balance:   domain.StartingBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return err
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			// Lost a race with another seeding path; fine.
			return nil
		}
		return err
	}
	if err := s.LedgerRepo.Save(ctx, user.ID, domain.NewLedger(user.Balance)); err != nil {
		return err
	}

	s.log.Info().Str("email", auth.DemoEmail).Msg("Demo user seeded")
	return nil
}
