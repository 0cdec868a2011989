package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// TransactionRecord is an immutable entry in a ledger's append-only log.
// IDs are ULIDs: monotonically increasing within the process, so the stored
// newest-first log always has strictly decreasing ids from index 0.
//
// TotalCost is set on buys; TotalValue, CostBasis and GainLoss on sells.
type TransactionRecord struct {
	ID           string
	Side         TradeSide
	Symbol       string
	Quantity     int64
	Price        decimal.Decimal
	Date         time.Time
	TotalCost    decimal.Decimal
	TotalValue   decimal.Decimal
	CostBasis    decimal.Decimal
	GainLoss     decimal.Decimal
	BalanceAfter decimal.Decimal
}
