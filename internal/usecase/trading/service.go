// Package trading orchestrates trades against one user's ledger.
package trading

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// TradeResult is returned on a successful buy or sell.
type TradeResult struct {
	Record  *domain.TransactionRecord
	Message string
}

// TradingService executes buys and sells for users. Each operation loads
// the user's ledger, validates and applies the trade, and persists the new
// state; nothing is saved when any step fails, so persisted state is
// always one consistent (balance, holdings, log) triple.
//
// When a BankGateway is configured every trade is mirrored to the external
// bank ledger first: the external post must succeed before the local state
// commits.
//
// Operations on the same user are serialized with a per-user mutex, since
// the ledger's atomicity contract assumes one writer at a time.
type TradingService struct {
	LedgerRepo domain.LedgerRepository
	Quotes     domain.QuoteProvider
	Bank       domain.BankGateway // nil disables bank mirroring

	log zerolog.Logger

	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex
	subs      map[int]snapshotSub
	nextSubID int
}

// snapshotSub is one registered snapshot observer, scoped to a single
// user's ledger.
type snapshotSub struct {
	userID uuid.UUID
	ch     chan domain.Snapshot
}

// NewTradingService creates a new TradingService instance. bank may be
// nil when mirroring is disabled.
func NewTradingService(ledgerRepo domain.LedgerRepository, quotes domain.QuoteProvider, bank domain.BankGateway, log zerolog.Logger) *TradingService {
	return &TradingService{
		LedgerRepo: ledgerRepo,
		Quotes:     quotes,
		Bank:       bank,
		log:        log.With().Str("component", "trading").Logger(),
		userLocks:  make(map[uuid.UUID]*sync.Mutex),
		subs:       make(map[int]snapshotSub),
	}
}

// Buy purchases quantity shares of symbol at the provider's current price.
func (s *TradingService) Buy(ctx context.Context, userID uuid.UUID, symbol string, quantity int64) (*TradeResult, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	q, err := s.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The in-memory ledger is a private copy; mutations only become
	// visible once Save succeeds.
	rec, err := ledger.Buy(*q, quantity)
	if err != nil {
		return nil, err
	}

	if s.Bank != nil {
		desc := fmt.Sprintf("Stock Purchase - %d shares of %s", quantity, symbol)
		if _, err := s.Bank.PostWithdrawal(ctx, rec.TotalCost, desc); err != nil {
			return nil, fmt.Errorf("bank transaction failed: %w", err)
		}
	}

	if err := s.LedgerRepo.Save(ctx, userID, ledger); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user", userID.String()).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Str("total_cost", rec.TotalCost.StringFixed(2)).
		Msg("Buy executed")

	s.publish(userID, ledger.Snapshot())
	return &TradeResult{
		Record:  rec,
		Message: fmt.Sprintf("Successfully bought %d shares of %s", quantity, symbol),
	}, nil
}

// Sell disposes of quantity shares of symbol at the provider's current
// price. The result's record carries the realized gain/loss.
func (s *TradingService) Sell(ctx context.Context, userID uuid.UUID, symbol string, quantity int64) (*TradeResult, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	q, err := s.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := ledger.Sell(*q, quantity)
	if err != nil {
		return nil, err
	}

	if s.Bank != nil {
		desc := fmt.Sprintf("Stock Sale - %d shares of %s", quantity, symbol)
		if _, err := s.Bank.PostDeposit(ctx, rec.TotalValue, desc); err != nil {
			return nil, fmt.Errorf("bank transaction failed: %w", err)
		}
	}

	if err := s.LedgerRepo.Save(ctx, userID, ledger); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user", userID.String()).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Str("gain_loss", rec.GainLoss.StringFixed(2)).
		Msg("Sell executed")

	s.publish(userID, ledger.Snapshot())
	return &TradeResult{
		Record:  rec,
		Message: fmt.Sprintf("Successfully sold %d shares of %s", quantity, symbol),
	}, nil
}

// Portfolio returns the user's current snapshot (balance, holdings, log).
func (s *TradingService) Portfolio(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := ledger.Snapshot()
	return &snap, nil
}

// Stats computes portfolio statistics against current provider prices.
// Held symbols the provider no longer returns are valued at zero.
func (s *TradingService) Stats(ctx context.Context, userID uuid.UUID) (domain.PortfolioStats, error) {
	prices, err := s.currentPrices(ctx)
	if err != nil {
		return domain.PortfolioStats{}, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return domain.PortfolioStats{}, err
	}
	return ledger.Stats(prices), nil
}

// SectorPerformance aggregates the user's holdings by sector.
func (s *TradingService) SectorPerformance(ctx context.Context, userID uuid.UUID) (map[string]domain.SectorStats, error) {
	prices, err := s.currentPrices(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.SectorPerformance(prices), nil
}

// History returns the user's transaction log, newest first.
func (s *TradingService) History(ctx context.Context, userID uuid.UUID) ([]domain.TransactionRecord, error) {
	snap, err := s.Portfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Log, nil
}

// Reset restores the user's ledger to the starting balance with no
// holdings and no history.
func (s *TradingService) Reset(ctx context.Context, userID uuid.UUID) error {
	unlock := s.lockUser(userID)
	defer unlock()

	ledger, err := s.LedgerRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	ledger.Reset()
	if err := s.LedgerRepo.Save(ctx, userID, ledger); err != nil {
		return err
	}

	s.log.Info().Str("user", userID.String()).Msg("Ledger reset")
	s.publish(userID, ledger.Snapshot())
	return nil
}

// Subscribe registers a snapshot observer for one user's ledger. Every
// successful mutation of that user's ledger publishes the resulting
// snapshot; other users' mutations are never delivered. Slow consumers
// miss snapshots rather than block trades. The returned function cancels
// the subscription.
func (s *TradingService) Subscribe(userID uuid.UUID) (<-chan domain.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan domain.Snapshot, 16)
	s.subs[id] = snapshotSub{userID: userID, ch: ch}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

func (s *TradingService) publish(userID uuid.UUID, snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- snap:
		default:
			s.log.Warn().Str("user", userID.String()).Msg("Snapshot channel full, dropping snapshot")
		}
	}
}

// currentPrices builds a symbol->price map from the provider.
func (s *TradingService) currentPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	quotes, err := s.Quotes.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
	}
	return prices, nil
}

func (s *TradingService) lockUser(userID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
