package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionType distinguishes mirrored bank postings.
type BankTransactionType string

const (
	BankDeposit    BankTransactionType = "deposit"
	BankWithdrawal BankTransactionType = "withdrawal"
)

// BankTransaction is one entry in the external bank ledger mirror.
type BankTransaction struct {
	ID          string
	Type        BankTransactionType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Account     string
}

// BankGateway mirrors ledger mutations to an external banking API. When
// mirroring is enabled the external post must succeed before the local
// ledger commits: a gateway error aborts the trade with local state
// untouched (two-phase commit).
type BankGateway interface {
	// PostWithdrawal records a cash outflow (stock purchase).
	PostWithdrawal(ctx context.Context, amount decimal.Decimal, description string) (*BankTransaction, error)

	// PostDeposit records a cash inflow (stock sale proceeds).
	PostDeposit(ctx context.Context, amount decimal.Decimal, description string) (*BankTransaction, error)

	// ListTransactions returns the mirrored transactions, newest first.
	ListTransactions(ctx context.Context) ([]*BankTransaction, error)
}
