// Package pebblestore persists application state in a local Pebble
// key-value store.
//
// Key layout:
//
//	users           msgpack array of all registered users
//	session:current id of the logged-in user
//	ledger:<userID> msgpack ledger state for one user
//
// The key strings are internal: nothing outside this package depends on
// them.
package pebblestore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/vmihailenco/msgpack/v5"
)

// Store wraps a Pebble database and provides the repositories.
type Store struct {
	db *pebble.DB

	// Pebble handles concurrent access, but the users array needs
	// read-modify-write cycles to stay consistent.
	mu sync.Mutex
}

// Open opens (or creates) the key-value store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// get unmarshals the value at key into out. Returns found=false when the
// key does not exist.
func (s *Store) get(key []byte, out interface{}) (bool, error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	defer closer.Close()

	if err := msgpack.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("failed to decode value at %q: %w", key, err)
	}
	return true, nil
}

// set marshals v and writes it at key with a synced write: trade state
// must survive a crash right after the confirmation is shown.
func (s *Store) set(key []byte, v interface{}) error {
	val, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	return s.db.Set(key, val, pebble.Sync)
}

func (s *Store) delete(key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}
