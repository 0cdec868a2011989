package pebblestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// LedgerRepository implements domain.LedgerRepository, one record per user.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a LedgerRepository backed by store.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func ledgerKey(userID uuid.UUID) []byte {
	return []byte("ledger:" + userID.String())
}

// Get retrieves a user's ledger.
func (r *LedgerRepository) Get(_ context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	var rec ledgerRecord
	found, err := r.store.get(ledgerKey(userID), &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("ledger for user %s not found", userID)
	}
	return ledgerFromRecord(rec)
}

// Save stores the full ledger state for a user.
func (r *LedgerRepository) Save(_ context.Context, userID uuid.UUID, ledger *domain.Ledger) error {
	return r.store.set(ledgerKey(userID), ledgerToRecord(ledger))
}

// Delete removes a user's ledger.
func (r *LedgerRepository) Delete(_ context.Context, userID uuid.UUID) error {
	return r.store.delete(ledgerKey(userID))
}
