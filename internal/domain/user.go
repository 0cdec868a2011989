package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a registered user in the domain layer.
// Passwords are stored and compared in plain text: StockVerse is a virtual
// trading simulator and its identity layer is intentionally not hardened.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	Balance   decimal.Decimal // starting cash balance granted at signup
	CreatedAt time.Time
}

// Validate ensures the user adheres to domain rules.
// Returns an error if validation fails.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("user name cannot be empty")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("user email is not valid")
	}
	if u.Password == "" {
		return errors.New("user password cannot be empty")
	}
	if u.Balance.IsNegative() {
		return errors.New("user balance cannot be negative")
	}
	return nil
}
