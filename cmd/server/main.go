package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockverse/stockverse-backend/internal/adapter/bank"
	"github.com/stockverse/stockverse-backend/internal/adapter/httpapi"
	"github.com/stockverse/stockverse-backend/internal/adapter/quote"
	"github.com/stockverse/stockverse-backend/internal/adapter/repository/pebblestore"
	"github.com/stockverse/stockverse-backend/internal/config"
	"github.com/stockverse/stockverse-backend/internal/domain"
	"github.com/stockverse/stockverse-backend/internal/scheduler"
	"github.com/stockverse/stockverse-backend/internal/usecase/auth"
	"github.com/stockverse/stockverse-backend/internal/usecase/seeder"
	"github.com/stockverse/stockverse-backend/internal/usecase/trading"
	"github.com/stockverse/stockverse-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogLevel == "debug",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

// run owns every resource with a cleanup step. It returns instead of
// exiting so the deferred closes always execute, including on startup
// failures after the store is open.
func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("quote_mode", string(cfg.QuoteMode)).
		Bool("bank_mirror", cfg.BankMirror).
		Msg("Starting StockVerse server")

	store, err := pebblestore.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening key-value store at %s: %w", cfg.DataDir, err)
	}
	defer store.Close()

	userRepo := pebblestore.NewUserRepository(store)
	sessionRepo := pebblestore.NewSessionRepository(store)
	ledgerRepo := pebblestore.NewLedgerRepository(store)

	sched := scheduler.New(log)
	quotes, err := buildQuoteProvider(cfg, sched, log)
	if err != nil {
		return err
	}

	var gateway domain.BankGateway
	if cfg.BankMirror {
		gateway = bank.NewMockGateway()
	}

	authSvc := auth.NewAuthService(userRepo, sessionRepo, ledgerRepo, log)
	tradingSvc := trading.NewTradingService(ledgerRepo, quotes, gateway, log)

	if cfg.SeedDemoUser {
		demo := seeder.NewDemoSeeder(userRepo, ledgerRepo, log)
		if err := demo.Seed(context.Background()); err != nil {
			return fmt.Errorf("seeding demo user: %w", err)
		}
	}

	handler := httpapi.NewHandler(authSvc, tradingSvc, quotes, gateway, log)
	server := httpapi.NewServer(fmt.Sprintf(":%d", cfg.Port), handler, log)

	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// buildQuoteProvider wires the quote source selected by QUOTE_MODE. The
// simulated mode registers its market tick with the scheduler. The Alpha
// Vantage mode layers the live API over the static catalog so the feed
// keeps serving through rate limits and outages.
func buildQuoteProvider(cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (domain.QuoteProvider, error) {
	switch cfg.QuoteMode {
	case config.QuoteModeStatic:
		return quote.NewStaticProvider(), nil

	case config.QuoteModeAlphaVantage:
		fallback := quote.NewStaticProvider()
		return quote.NewAlphaVantageProvider(quote.DefaultAlphaVantageURL, cfg.AlphaVantageKey, fallback, log), nil

	default:
		sim := quote.NewSimulatedProvider(quote.DefaultCatalog(), time.Now().UnixNano())
		schedule := fmt.Sprintf("@every %s", cfg.QuoteTickInterval)
		if err := sched.AddJob(schedule, sim); err != nil {
			return nil, fmt.Errorf("scheduling quote ticks: %w", err)
		}
		return sim, nil
	}
}
