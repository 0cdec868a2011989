package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Position represents a user's current holding of one symbol.
// A symbol appears at most once in a ledger's holdings, and a position is
// removed entirely when its quantity reaches zero (never kept at zero).
type Position struct {
	Symbol        string
	Name          string
	Sector        string
	Quantity      int64
	AverageCost   decimal.Decimal // weighted-average purchase price per share, rounded to the cent
	// TotalInvested is the cost basis of the shares still held. It sums
	// the rounded per-trade amounts actually debited from the cash
	// balance, so after mixed-price buys it can differ from
	// AverageCost*Quantity by a cent or two of rounding.
	TotalInvested decimal.Decimal
}

// Validate ensures the position adheres to domain rules.
func (p *Position) Validate() error {
	if p.Symbol == "" {
		return errors.New("position symbol cannot be empty")
	}
	if p.Quantity < 1 {
		return errors.New("position quantity must be at least 1")
	}
	if p.AverageCost.IsNegative() {
		return errors.New("position average cost cannot be negative")
	}
	if p.TotalInvested.IsNegative() {
		return errors.New("position total invested cannot be negative")
	}
	return nil
}

// CostBasis returns the cost basis of selling quantity shares at the
// position's current average cost, rounded to the cent.
func (p *Position) CostBasis(quantity int64) decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(quantity)).Round(2)
}
