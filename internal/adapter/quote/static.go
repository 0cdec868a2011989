// Package quote provides implementations of the domain QuoteProvider:
// a static table, a random-walk simulator and a rate-limited
// Alpha Vantage client.
package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// StaticProvider serves quotes from a fixed in-memory table. It backs the
// demo catalog and acts as the fallback for the live provider.
type StaticProvider struct {
	order  []string
	quotes map[string]domain.Quote
}

// NewStaticProvider creates a provider with the default demo catalog.
func NewStaticProvider() *StaticProvider {
	return NewStaticProviderWith(DefaultCatalog())
}

// NewStaticProviderWith creates a provider serving the given quotes.
func NewStaticProviderWith(quotes []domain.Quote) *StaticProvider {
	p := &StaticProvider{quotes: make(map[string]domain.Quote, len(quotes))}
	for _, q := range quotes {
		p.order = append(p.order, q.Symbol)
		p.quotes[q.Symbol] = q
	}
	return p
}

// GetQuote returns the quote for symbol, or an UnknownSymbolError.
func (p *StaticProvider) GetQuote(_ context.Context, symbol string) (*domain.Quote, error) {
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, &domain.UnknownSymbolError{Symbol: symbol}
	}
	return &q, nil
}

// ListQuotes returns all quotes in catalog order.
func (p *StaticProvider) ListQuotes(_ context.Context) ([]*domain.Quote, error) {
	out := make([]*domain.Quote, 0, len(p.order))
	for _, sym := range p.order {
		q := p.quotes[sym]
		out = append(out, &q)
	}
	return out, nil
}

// DefaultCatalog returns the demo stock table.
func DefaultCatalog() []domain.Quote {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []domain.Quote{
		{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology",
			Price: price("180.25"), Change: price("2.15"), ChangePercent: price("1.21"), Volume: 45678900},
		{Symbol: "TSLA", Name: "Tesla Inc.", Sector: "Automotive",
			Price: price("250.80"), Change: price("-5.20"), ChangePercent: price("-2.03"), Volume: 23456700},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology",
			Price: price("140.50"), Change: price("1.80"), ChangePercent: price("1.30"), Volume: 12345600},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology",
			Price: price("378.90"), Change: price("5.40"), ChangePercent: price("1.45"), Volume: 34567800},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Sector: "Consumer Discretionary",
			Price: price("155.30"), Change: price("1.80"), ChangePercent: price("1.17"), Volume: 23456700},
		{Symbol: "META", Name: "Meta Platforms Inc.", Sector: "Technology",
			Price: price("485.60"), Change: price("8.90"), ChangePercent: price("1.87"), Volume: 12345600},
	}
}
