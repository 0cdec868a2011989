package domain

import "github.com/shopspring/decimal"

// Snapshot is an immutable copy of a ledger's state, published to
// subscribers after each successful mutation. Consumers render from
// snapshots instead of reaching into live ledger state.
type Snapshot struct {
	CashBalance decimal.Decimal
	Holdings    []Position
	Log         []TransactionRecord
}
