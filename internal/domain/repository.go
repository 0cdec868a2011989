package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns an error when no user
	// with that email is registered.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Create registers a new user. Fails when the email is already taken.
	Create(ctx context.Context, user *User) error

	// Delete removes a user by id.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves all registered users.
	List(ctx context.Context) ([]*User, error)
}

// SessionRepository persists the "current user" across restarts, the
// server-side analogue of the browser's remembered session.
type SessionRepository interface {
	// SetCurrent records the given user id as the current session user.
	SetCurrent(ctx context.Context, userID uuid.UUID) error

	// Current returns the current session user id, or ok=false when no
	// user is logged in.
	Current(ctx context.Context) (uuid.UUID, bool, error)

	// Clear removes the current session user.
	Clear(ctx context.Context) error
}

// LedgerRepository persists one ledger per user.
type LedgerRepository interface {
	// Get retrieves the ledger for a user. Returns an error when no
	// ledger has been saved for that user.
	Get(ctx context.Context, userID uuid.UUID) (*Ledger, error)

	// Save stores the full ledger state for a user, replacing any
	// previous state.
	Save(ctx context.Context, userID uuid.UUID, ledger *Ledger) error

	// Delete removes a user's ledger.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// QuoteProvider supplies current market quotes. Implementations may be a
// static table, a random-walk simulator or a rate-limited external API.
type QuoteProvider interface {
	// GetQuote returns the current quote for a symbol, or an
	// UnknownSymbolError when the provider does not know the symbol.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// ListQuotes returns current quotes for every symbol the provider
	// knows about.
	ListQuotes(ctx context.Context) ([]*Quote, error)
}
