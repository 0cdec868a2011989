package pebblestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var sessionKey = []byte("session:current")

// SessionRepository implements domain.SessionRepository, remembering the
// logged-in user across server restarts.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository creates a SessionRepository backed by store.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// SetCurrent records userID as the current session user.
func (r *SessionRepository) SetCurrent(_ context.Context, userID uuid.UUID) error {
	return r.store.set(sessionKey, userID.String())
}

// Current returns the current session user id, or ok=false when no user
// is logged in.
func (r *SessionRepository) Current(_ context.Context) (uuid.UUID, bool, error) {
	var raw string
	found, err := r.store.get(sessionKey, &raw)
	if err != nil || !found {
		return uuid.Nil, false, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("stored session has invalid user id %q: %w", raw, err)
	}
	return id, true, nil
}

// Clear removes the current session user.
func (r *SessionRepository) Clear(_ context.Context) error {
	return r.store.delete(sessionKey)
}
