package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// DefaultAlphaVantageURL is the production query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

// minCallInterval spaces out API calls to stay inside the free tier's
// 5 calls/minute limit.
const minCallInterval = 12 * time.Second

// AlphaVantageProvider fetches live quotes from the Alpha Vantage
// GLOBAL_QUOTE endpoint. The free tier is heavily rate limited, so the
// provider never blocks waiting for quota: inside the spacing window, or
// on any API failure, it degrades to the last fetched quote and then to
// the fallback provider. Trades therefore always see either live, cached
// or simulated data, never an outage.
type AlphaVantageProvider struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	fallback domain.QuoteProvider
	log      zerolog.Logger

	mu       sync.Mutex
	lastCall time.Time
	cache    map[string]domain.Quote
}

// NewAlphaVantageProvider creates a live quote provider. fallback supplies
// the symbol catalog and stands in whenever the API cannot be used.
func NewAlphaVantageProvider(baseURL, apiKey string, fallback domain.QuoteProvider, log zerolog.Logger) *AlphaVantageProvider {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	return &AlphaVantageProvider{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		fallback: fallback,
		log:      log.With().Str("component", "alphavantage").Logger(),
		cache:    make(map[string]domain.Quote),
	}
}

// GetQuote returns the freshest quote available for symbol: a live fetch
// when quota allows, otherwise the cached quote, otherwise the fallback.
func (p *AlphaVantageProvider) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	// The symbol must at least exist in the fallback catalog; unknown
	// symbols fail fast without burning an API call.
	base, err := p.fallback.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if !p.tryAcquireSlot() {
		return p.cachedOr(symbol, base), nil
	}

	live, err := p.fetch(ctx, symbol)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("Live quote failed, degrading to cached data")
		return p.cachedOr(symbol, base), nil
	}

	// The API has no name/sector metadata; carry it over from the catalog.
	live.Name = base.Name
	live.Sector = base.Sector

	p.mu.Lock()
	p.cache[symbol] = *live
	p.mu.Unlock()
	return live, nil
}

// ListQuotes returns the catalog with cached live prices where available.
// It deliberately makes no API calls: refreshing the whole catalog at
// 5 calls/minute would take longer than the data stays interesting.
func (p *AlphaVantageProvider) ListQuotes(ctx context.Context) ([]*domain.Quote, error) {
	quotes, err := p.fallback.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, q := range quotes {
		if cached, ok := p.cache[q.Symbol]; ok {
			c := cached
			quotes[i] = &c
		}
	}
	return quotes, nil
}

// tryAcquireSlot reports whether an API call is allowed now, and if so
// claims the slot.
func (p *AlphaVantageProvider) tryAcquireSlot() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastCall) < minCallInterval {
		return false
	}
	p.lastCall = now
	return true
}

func (p *AlphaVantageProvider) cachedOr(symbol string, base *domain.Quote) *domain.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.cache[symbol]; ok {
		return &q
	}
	return base
}

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload. The API reports
// errors in-band: "Error Message" for bad requests, "Note" for rate limits.
type globalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
}

func (p *AlphaVantageProvider) fetch(ctx context.Context, symbol string) (*domain.Quote, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", p.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	var payload globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding alpha vantage response: %w", err)
	}
	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage error: %s", payload.ErrorMessage)
	}
	if payload.Note != "" {
		return nil, fmt.Errorf("alpha vantage rate limited: %s", payload.Note)
	}
	if payload.GlobalQuote["01. symbol"] == "" {
		return nil, fmt.Errorf("no data found for symbol %s", symbol)
	}

	return parseGlobalQuote(payload.GlobalQuote)
}

func parseGlobalQuote(raw map[string]string) (*domain.Quote, error) {
	price, err := decimal.NewFromString(raw["05. price"])
	if err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", raw["05. price"], err)
	}

	q := &domain.Quote{
		Symbol: raw["01. symbol"],
		Price:  price.Round(2),
	}
	// The remaining fields are display-only; parse failures leave zeros.
	q.Change, _ = decimal.NewFromString(raw["09. change"])
	if pct := raw["10. change percent"]; len(pct) > 0 && pct[len(pct)-1] == '%' {
		q.ChangePercent, _ = decimal.NewFromString(pct[:len(pct)-1])
	}
	q.Volume, _ = strconv.ParseInt(raw["06. volume"], 10, 64)
	q.High, _ = decimal.NewFromString(raw["03. high"])
	q.Low, _ = decimal.NewFromString(raw["04. low"])
	q.Open, _ = decimal.NewFromString(raw["02. open"])
	q.PreviousClose, _ = decimal.NewFromString(raw["08. previous close"])
	return q, nil
}
