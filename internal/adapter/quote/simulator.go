package quote

import (
	"context"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// SimulatedProvider serves quotes that drift on a bounded random walk.
// Each Tick moves every price by -3%..+3% and jitters the volume, like a
// market feed without the market. Ticks are driven externally (the server
// schedules them with cron); the provider itself never owns a timer.
//
// Safe for concurrent use.
type SimulatedProvider struct {
	mu     sync.RWMutex
	order  []string
	quotes map[string]domain.Quote
	rng    *rand.Rand
}

// NewSimulatedProvider creates a simulator seeded with the given catalog.
func NewSimulatedProvider(catalog []domain.Quote, seed int64) *SimulatedProvider {
	p := &SimulatedProvider{
		quotes: make(map[string]domain.Quote, len(catalog)),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, q := range catalog {
		p.order = append(p.order, q.Symbol)
		p.quotes[q.Symbol] = q
	}
	return p
}

// Tick advances every quote one step of the random walk.
func (p *SimulatedProvider) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sym := range p.order {
		q := p.quotes[sym]

		drift := (p.rng.Float64() - 0.5) * 0.06 // -3% .. +3%
		oldPrice := q.Price
		newPrice := oldPrice.Mul(decimal.NewFromFloat(1 + drift)).Round(2)
		if !newPrice.IsPositive() {
			// A sufficiently long losing streak on a penny stock could
			// walk the price to zero; pin it at one cent instead.
			newPrice = decimal.NewFromFloat(0.01)
		}

		change := newPrice.Sub(oldPrice)
		q.PreviousClose = oldPrice
		q.Price = newPrice
		q.Change = change
		q.ChangePercent = change.Mul(decimal.NewFromInt(100)).Div(oldPrice).Round(2)
		q.Volume = int64(float64(q.Volume) * (0.8 + p.rng.Float64()*0.4))
		if newPrice.GreaterThan(q.High) {
			q.High = newPrice
		}
		if q.Low.IsZero() || newPrice.LessThan(q.Low) {
			q.Low = newPrice
		}

		p.quotes[sym] = q
	}
}

// Run advances the simulation one tick. It implements the scheduler Job
// interface so the cron scheduler can drive the feed.
func (p *SimulatedProvider) Run() error {
	p.Tick()
	return nil
}

// Name implements the scheduler Job interface.
func (p *SimulatedProvider) Name() string { return "quote-tick" }

// GetQuote returns the current quote for symbol, or an UnknownSymbolError.
func (p *SimulatedProvider) GetQuote(_ context.Context, symbol string) (*domain.Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	q, ok := p.quotes[symbol]
	if !ok {
		return nil, &domain.UnknownSymbolError{Symbol: symbol}
	}
	return &q, nil
}

// ListQuotes returns current quotes in catalog order.
func (p *SimulatedProvider) ListQuotes(_ context.Context) ([]*domain.Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*domain.Quote, 0, len(p.order))
	for _, sym := range p.order {
		q := p.quotes[sym]
		out = append(out, &q)
	}
	return out, nil
}
