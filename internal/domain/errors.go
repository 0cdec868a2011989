package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors returned by ledger operations. All of them are
// recoverable-by-user: they are surfaced as messages to the caller and a
// failed operation never mutates ledger state.
var (
	// ErrInvalidQuantity is returned when a trade quantity is not a
	// positive integer number of shares.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidCredentials is returned by login when no user matches the
	// given email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by signup when the email is already registered.
	ErrEmailTaken = errors.New("user already exists with this email")

	// ErrNotLoggedIn is returned when an operation requires a session user
	// and none is set.
	ErrNotLoggedIn = errors.New("no user is logged in")
)

// UnknownSymbolError is returned when a symbol is not known to the
// quote provider.
type UnknownSymbolError struct {
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("stock %s not found", e.Symbol)
}

// InsufficientBalanceError is returned by buy when the total cost exceeds
// the available cash balance. It carries both amounts for UI display.
type InsufficientBalanceError struct {
	Need decimal.Decimal
	Have decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need $%s, have $%s",
		e.Need.StringFixed(2), e.Have.StringFixed(2))
}

// NoPositionError is returned by sell when the user holds no shares of
// the symbol.
type NoPositionError struct {
	Symbol string
}

func (e *NoPositionError) Error() string {
	return fmt.Sprintf("you don't own any shares of %s", e.Symbol)
}

// InsufficientSharesError is returned by sell when the requested quantity
// exceeds the held quantity. It carries both quantities for UI display.
type InsufficientSharesError struct {
	Symbol    string
	Owned     int64
	Requested int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: own %d, trying to sell %d",
		e.Symbol, e.Owned, e.Requested)
}
