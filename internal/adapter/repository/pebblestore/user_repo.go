package pebblestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

var usersKey = []byte("users")

// UserRepository implements domain.UserRepository on the key-value store.
// All registered users live in one record, the way the original app kept
// them under a single browser-storage key.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a UserRepository backed by store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Email == email {
			return userFromRecord(rec)
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id.String() {
			return userFromRecord(rec)
		}
	}
	return nil, fmt.Errorf("user %s not found", id)
}

// Create registers a new user. Returns domain.ErrEmailTaken when the
// email is already registered.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	records = append(records, userToRecord(user))
	return r.store.set(usersKey, records)
}

// Delete removes a user by id. Deleting an unknown id is a no-op.
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id.String() {
			kept = append(kept, rec)
		}
	}
	return r.store.set(usersKey, kept)
}

// List retrieves all registered users.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for _, rec := range records {
		u, err := userFromRecord(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// load reads the users array; callers must hold the store lock.
func (r *UserRepository) load() ([]userRecord, error) {
	var records []userRecord
	if _, err := r.store.get(usersKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}
