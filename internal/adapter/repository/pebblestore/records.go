package pebblestore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// Stored record types. Monetary values are serialized as strings, the
// same convention the API layer uses, so stored state stays readable and
// exact regardless of codec numeric handling.

type userRecord struct {
	ID        string    `msgpack:"id"`
	Name      string    `msgpack:"name"`
	Email     string    `msgpack:"email"`
	Password  string    `msgpack:"password"`
	Balance   string    `msgpack:"balance"`
	CreatedAt time.Time `msgpack:"created_at"`
}

type positionRecord struct {
	Symbol        string `msgpack:"symbol"`
	Name          string `msgpack:"name"`
	Sector        string `msgpack:"sector"`
	Quantity      int64  `msgpack:"quantity"`
	AverageCost   string `msgpack:"average_cost"`
	TotalInvested string `msgpack:"total_invested"`
}

type transactionRecord struct {
	ID           string    `msgpack:"id"`
	Side         string    `msgpack:"side"`
	Symbol       string    `msgpack:"symbol"`
	Quantity     int64     `msgpack:"quantity"`
	Price        string    `msgpack:"price"`
	Date         time.Time `msgpack:"date"`
	TotalCost    string    `msgpack:"total_cost"`
	TotalValue   string    `msgpack:"total_value"`
	CostBasis    string    `msgpack:"cost_basis"`
	GainLoss     string    `msgpack:"gain_loss"`
	BalanceAfter string    `msgpack:"balance_after"`
}

type ledgerRecord struct {
	CashBalance string              `msgpack:"cash_balance"`
	Holdings    []positionRecord    `msgpack:"holdings"`
	Log         []transactionRecord `msgpack:"log"`
}

func userToRecord(u *domain.User) userRecord {
	return userRecord{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Balance:   u.Balance.String(),
		CreatedAt: u.CreatedAt,
	}
}

func userFromRecord(r userRecord) (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("stored user has invalid id %q: %w", r.ID, err)
	}
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return nil, fmt.Errorf("stored user has invalid balance %q: %w", r.Balance, err)
	}
	return &domain.User{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Balance:   balance,
		CreatedAt: r.CreatedAt,
	}, nil
}

func ledgerToRecord(l *domain.Ledger) ledgerRecord {
	rec := ledgerRecord{
		CashBalance: l.CashBalance.String(),
		Holdings:    make([]positionRecord, 0, len(l.Holdings)),
		Log:         make([]transactionRecord, 0, len(l.Log)),
	}
	for _, p := range l.Holdings {
		rec.Holdings = append(rec.Holdings, positionRecord{
			Symbol:        p.Symbol,
			Name:          p.Name,
			Sector:        p.Sector,
			Quantity:      p.Quantity,
			AverageCost:   p.AverageCost.String(),
			TotalInvested: p.TotalInvested.String(),
		})
	}
	for _, t := range l.Log {
		rec.Log = append(rec.Log, transactionRecord{
			ID:           t.ID,
			Side:         string(t.Side),
			Symbol:       t.Symbol,
			Quantity:     t.Quantity,
			Price:        t.Price.String(),
			Date:         t.Date,
			TotalCost:    t.TotalCost.String(),
			TotalValue:   t.TotalValue.String(),
			CostBasis:    t.CostBasis.String(),
			GainLoss:     t.GainLoss.String(),
			BalanceAfter: t.BalanceAfter.String(),
		})
	}
	return rec
}

func ledgerFromRecord(rec ledgerRecord) (*domain.Ledger, error) {
	balance, err := decimal.NewFromString(rec.CashBalance)
	if err != nil {
		return nil, fmt.Errorf("stored ledger has invalid balance %q: %w", rec.CashBalance, err)
	}

	l := domain.NewLedger(balance)
	for _, p := range rec.Holdings {
		avgCost, err := decimal.NewFromString(p.AverageCost)
		if err != nil {
			return nil, fmt.Errorf("stored position %s has invalid average cost: %w", p.Symbol, err)
		}
		invested, err := decimal.NewFromString(p.TotalInvested)
		if err != nil {
			return nil, fmt.Errorf("stored position %s has invalid total invested: %w", p.Symbol, err)
		}
		l.Holdings = append(l.Holdings, domain.Position{
			Symbol:        p.Symbol,
			Name:          p.Name,
			Sector:        p.Sector,
			Quantity:      p.Quantity,
			AverageCost:   avgCost,
			TotalInvested: invested,
		})
	}
	for _, t := range rec.Log {
		l.Log = append(l.Log, domain.TransactionRecord{
			ID:           t.ID,
			Side:         domain.TradeSide(t.Side),
			Symbol:       t.Symbol,
			Quantity:     t.Quantity,
			Price:        mustDecimal(t.Price),
			Date:         t.Date,
			TotalCost:    mustDecimal(t.TotalCost),
			TotalValue:   mustDecimal(t.TotalValue),
			CostBasis:    mustDecimal(t.CostBasis),
			GainLoss:     mustDecimal(t.GainLoss),
			BalanceAfter: mustDecimal(t.BalanceAfter),
		})
	}
	return l, nil
}

// mustDecimal parses amounts this package wrote itself; a parse failure
// means the store was corrupted outside the application.
func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
