// Package bank provides gateways to the external banking API that
// mirrors ledger cash movements.
package bank

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
	"github.com/stockverse/stockverse-backend/pkg/id"
)

// accountName labels mirrored transactions in the external ledger.
const accountName = "Virtual Trading Account"

// ErrGatewayUnavailable is returned while the gateway failure switch is on.
var ErrGatewayUnavailable = errors.New("bank gateway unavailable")

// MockGateway simulates the external banking API in memory. It is seeded
// with the initial funding deposit and appends one mirrored transaction
// per trade. The failure switch makes every post fail, which is how the
// two-phase-commit behavior of the trading service is exercised.
type MockGateway struct {
	mu           sync.Mutex
	transactions []*domain.BankTransaction
	failing      bool
}

// NewMockGateway creates a gateway pre-seeded with the initial funding
// deposit.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		transactions: []*domain.BankTransaction{
			{
				ID:          id.New(),
				Type:        domain.BankDeposit,
				Amount:      domain.StartingBalance,
				Description: "Initial Virtual Trading Balance",
				Date:        time.Now().UTC(),
				Account:     accountName,
			},
		},
	}
}

// SetFailing toggles the failure switch.
func (g *MockGateway) SetFailing(failing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing = failing
}

// PostWithdrawal records a cash outflow.
func (g *MockGateway) PostWithdrawal(ctx context.Context, amount decimal.Decimal, description string) (*domain.BankTransaction, error) {
	return g.post(ctx, domain.BankWithdrawal, amount, description)
}

// PostDeposit records a cash inflow.
func (g *MockGateway) PostDeposit(ctx context.Context, amount decimal.Decimal, description string) (*domain.BankTransaction, error) {
	return g.post(ctx, domain.BankDeposit, amount, description)
}

func (g *MockGateway) post(_ context.Context, typ domain.BankTransactionType, amount decimal.Decimal, description string) (*domain.BankTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failing {
		return nil, ErrGatewayUnavailable
	}

	tx := &domain.BankTransaction{
		ID:          id.New(),
		Type:        typ,
		Amount:      amount,
		Description: description,
		Date:        time.Now().UTC(),
		Account:     accountName,
	}
	g.transactions = append([]*domain.BankTransaction{tx}, g.transactions...)
	return tx, nil
}

// ListTransactions returns mirrored transactions, newest first.
func (g *MockGateway) ListTransactions(_ context.Context) ([]*domain.BankTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*domain.BankTransaction, len(g.transactions))
	copy(out, g.transactions)
	return out, nil
}
