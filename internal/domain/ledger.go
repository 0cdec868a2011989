package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/pkg/id"
)

// StartingBalance is the virtual cash balance granted at signup and
// restored by Reset.
var StartingBalance = decimal.NewFromInt(10000)

// Ledger owns one user's trading state: cash balance, holdings and the
// append-only transaction log (stored newest-first). Every operation is a
// single atomic transition: a failed operation leaves all three pieces of
// state untouched.
//
// Ledger itself is not safe for concurrent use; callers that may invoke
// operations from more than one goroutine must serialize access per user
// (the trading service does this with a per-user mutex).
type Ledger struct {
	CashBalance decimal.Decimal
	Holdings    []Position
	Log         []TransactionRecord
}

// NewLedger creates a ledger with the given starting cash balance and no
// holdings or history.
func NewLedger(balance decimal.Decimal) *Ledger {
	return &Ledger{
		CashBalance: balance,
		Holdings:    []Position{},
		Log:         []TransactionRecord{},
	}
}

// PortfolioStats summarizes the portfolio against current market prices.
type PortfolioStats struct {
	TotalInvested        decimal.Decimal
	CurrentValue         decimal.Decimal
	TotalGainLoss        decimal.Decimal
	TotalGainLossPercent decimal.Decimal
}

// SectorStats aggregates holdings performance for one sector.
type SectorStats struct {
	TotalInvested decimal.Decimal
	CurrentValue  decimal.Decimal
	GainLoss      decimal.Decimal
	Symbols       []string
}

// Buy purchases quantity shares at the quoted price. The total cost is
// rounded to the cent, the cash balance is debited and the position's
// weighted average cost is recalculated. A BUY record is prepended to
// the log.
func (l *Ledger) Buy(q Quote, quantity int64) (*TransactionRecord, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !q.Price.IsPositive() {
		// A quote without a positive price means the provider has no
		// usable data for the symbol.
		return nil, &UnknownSymbolError{Symbol: q.Symbol}
	}

	totalCost := q.Price.Mul(decimal.NewFromInt(quantity)).Round(2)
	if totalCost.GreaterThan(l.CashBalance) {
		return nil, &InsufficientBalanceError{Need: totalCost, Have: l.CashBalance}
	}

	l.CashBalance = l.CashBalance.Sub(totalCost)

	if i := l.findPosition(q.Symbol); i >= 0 {
		p := &l.Holdings[i]
		existingCost := p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
		newQuantity := p.Quantity + quantity
		p.AverageCost = existingCost.Add(totalCost).
			Div(decimal.NewFromInt(newQuantity)).Round(2)
		p.Quantity = newQuantity
		p.TotalInvested = p.TotalInvested.Add(totalCost)
	} else {
		l.Holdings = append(l.Holdings, Position{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Sector:        q.Sector,
			Quantity:      quantity,
			AverageCost:   q.Price,
			TotalInvested: totalCost,
		})
	}

	rec := TransactionRecord{
		ID:           id.New(),
		Side:         TradeSideBuy,
		Symbol:       q.Symbol,
		Quantity:     quantity,
		Price:        q.Price,
		Date:         time.Now().UTC(),
		TotalCost:    totalCost,
		BalanceAfter: l.CashBalance,
	}
	l.prepend(rec)
	return &rec, nil
}

// Sell disposes of quantity shares at the quoted price. The proceeds are
// credited to the cash balance and the realized gain/loss against the
// average cost basis is recorded. The average cost of the remaining shares
// is unchanged by a partial sell (standard average-cost accounting); a
// position reaching zero quantity is removed entirely.
func (l *Ledger) Sell(q Quote, quantity int64) (*TransactionRecord, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !q.Price.IsPositive() {
		return nil, &UnknownSymbolError{Symbol: q.Symbol}
	}

	i := l.findPosition(q.Symbol)
	if i < 0 {
		return nil, &NoPositionError{Symbol: q.Symbol}
	}
	p := &l.Holdings[i]
	if quantity > p.Quantity {
		return nil, &InsufficientSharesError{
			Symbol:    q.Symbol,
			Owned:     p.Quantity,
			Requested: quantity,
		}
	}

	totalValue := q.Price.Mul(decimal.NewFromInt(quantity)).Round(2)
	costBasis := p.CostBasis(quantity)
	gainLoss := totalValue.Sub(costBasis)

	l.CashBalance = l.CashBalance.Add(totalValue)
	p.Quantity -= quantity
	p.TotalInvested = p.TotalInvested.Sub(costBasis)
	if p.Quantity == 0 {
		l.Holdings = append(l.Holdings[:i], l.Holdings[i+1:]...)
	}

	rec := TransactionRecord{
		ID:           id.New(),
		Side:         TradeSideSell,
		Symbol:       q.Symbol,
		Quantity:     quantity,
		Price:        q.Price,
		Date:         time.Now().UTC(),
		TotalValue:   totalValue,
		CostBasis:    costBasis,
		GainLoss:     gainLoss,
		BalanceAfter: l.CashBalance,
	}
	l.prepend(rec)
	return &rec, nil
}

// Stats computes portfolio statistics against the given current prices.
// A held symbol missing from prices is valued at zero: when the quote
// provider no longer returns a symbol the position still counts toward
// totalInvested but contributes nothing to currentValue.
func (l *Ledger) Stats(prices map[string]decimal.Decimal) PortfolioStats {
	totalInvested := decimal.Zero
	currentValue := decimal.Zero
	for _, p := range l.Holdings {
		totalInvested = totalInvested.Add(p.TotalInvested)
		if price, ok := prices[p.Symbol]; ok {
			currentValue = currentValue.Add(price.Mul(decimal.NewFromInt(p.Quantity)).Round(2))
		}
	}

	gainLoss := currentValue.Sub(totalInvested)
	percent := decimal.Zero
	if totalInvested.IsPositive() {
		percent = gainLoss.Mul(decimal.NewFromInt(100)).Div(totalInvested).Round(2)
	}
	return PortfolioStats{
		TotalInvested:        totalInvested,
		CurrentValue:         currentValue,
		TotalGainLoss:        gainLoss,
		TotalGainLossPercent: percent,
	}
}

// SectorPerformance groups holdings by sector and aggregates invested
// amount, current value and unrealized gain/loss. Symbols without a
// current price are skipped, mirroring Stats' degenerate behavior.
func (l *Ledger) SectorPerformance(prices map[string]decimal.Decimal) map[string]SectorStats {
	sectors := make(map[string]SectorStats)
	for _, p := range l.Holdings {
		price, ok := prices[p.Symbol]
		if !ok {
			continue
		}
		value := price.Mul(decimal.NewFromInt(p.Quantity)).Round(2)

		s := sectors[p.Sector]
		s.TotalInvested = s.TotalInvested.Add(p.TotalInvested)
		s.CurrentValue = s.CurrentValue.Add(value)
		s.GainLoss = s.GainLoss.Add(value.Sub(p.TotalInvested))
		s.Symbols = append(s.Symbols, p.Symbol)
		sectors[p.Sector] = s
	}
	return sectors
}

// Reset restores the starting balance and clears holdings and history.
func (l *Ledger) Reset() {
	l.CashBalance = StartingBalance
	l.Holdings = []Position{}
	l.Log = []TransactionRecord{}
}

// Snapshot returns an immutable deep copy of the ledger state, suitable
// for handing to observers.
func (l *Ledger) Snapshot() Snapshot {
	holdings := make([]Position, len(l.Holdings))
	copy(holdings, l.Holdings)
	log := make([]TransactionRecord, len(l.Log))
	copy(log, l.Log)
	return Snapshot{
		CashBalance: l.CashBalance,
		Holdings:    holdings,
		Log:         log,
	}
}

func (l *Ledger) findPosition(symbol string) int {
	for i := range l.Holdings {
		if l.Holdings[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

func (l *Ledger) prepend(rec TransactionRecord) {
	l.Log = append([]TransactionRecord{rec}, l.Log...)
}
