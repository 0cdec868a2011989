// Package httpapi exposes the application over a JSON HTTP API for the
// browser frontend.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockverse/stockverse-backend/internal/domain"
	"github.com/stockverse/stockverse-backend/internal/usecase/auth"
	"github.com/stockverse/stockverse-backend/internal/usecase/trading"
)

// Handler handles all API requests.
type Handler struct {
	auth    *auth.AuthService
	trading *trading.TradingService
	quotes  domain.QuoteProvider
	bank    domain.BankGateway // nil when mirroring is disabled
	log     zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(authSvc *auth.AuthService, tradingSvc *trading.TradingService, quotes domain.QuoteProvider, bank domain.BankGateway, log zerolog.Logger) *Handler {
	return &Handler{
		auth:    authSvc,
		trading: tradingSvc,
		quotes:  quotes,
		bank:    bank,
		log:     log.With().Str("component", "httpapi").Logger(),
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// HandleSignup handles POST /api/auth/signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleLogout handles POST /api/auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleCurrentUser handles GET /api/auth/me.
func (h *Handler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleClearDemo handles DELETE /api/auth/demo.
func (h *Handler) HandleClearDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.ClearDemoUsers(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "demo user cleared"})
}

// HandleListStocks handles GET /api/stocks.
func (h *Handler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.ListQuotes(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]quoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResponse(q))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleGetStock handles GET /api/stocks/{symbol}.
func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	q, err := h.quotes.GetQuote(r.Context(), symbol)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

// HandleBuy handles POST /api/trades/buy.
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.trading.Buy)
}

// HandleSell handles POST /api/trades/sell.
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, h.trading.Sell)
}

type tradeFunc func(ctx context.Context, userID uuid.UUID, symbol string, quantity int64) (*trading.TradeResult, error)

func (h *Handler) handleTrade(w http.ResponseWriter, r *http.Request, trade tradeFunc) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := trade(r.Context(), user.ID, req.Symbol, req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, tradeResponse{
		Message:     result.Message,
		Transaction: toTransactionResponse(*result.Record),
	})
}

// HandleGetPortfolio handles GET /api/portfolio.
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	snap, err := h.trading.Portfolio(r.Context(), user.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

// HandleGetStats handles GET /api/portfolio/stats.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	stats, err := h.trading.Stats(r.Context(), user.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

// HandleGetSectors handles GET /api/portfolio/sectors.
func (h *Handler) HandleGetSectors(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	sectors, err := h.trading.SectorPerformance(r.Context(), user.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make(map[string]sectorResponse, len(sectors))
	for name, s := range sectors {
		out[name] = sectorResponse{
			TotalInvested: s.TotalInvested.StringFixed(2),
			CurrentValue:  s.CurrentValue.StringFixed(2),
			GainLoss:      s.GainLoss.StringFixed(2),
			Symbols:       s.Symbols,
		}
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleGetTransactions handles GET /api/portfolio/transactions.
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	history, err := h.trading.History(r.Context(), user.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(history))
	for _, t := range history {
		out = append(out, toTransactionResponse(t))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleReset handles POST /api/portfolio/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.trading.Reset(r.Context(), user.ID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "portfolio reset"})
}

// HandleBankTransactions handles GET /api/bank/transactions.
func (h *Handler) HandleBankTransactions(w http.ResponseWriter, r *http.Request) {
	if h.bank == nil {
		h.writeError(w, http.StatusNotFound, "bank mirroring is not enabled")
		return
	}

	txs, err := h.bank.ListTransactions(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]bankTransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toBankTransactionResponse(t))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /api/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors to HTTP status codes. Trade
// validation failures are 422s: well-formed requests the ledger refused.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		unknownSymbol      *domain.UnknownSymbolError
		insufficientFunds  *domain.InsufficientBalanceError
		noPosition         *domain.NoPositionError
		insufficientShares *domain.InsufficientSharesError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unknownSymbol):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficientFunds),
		errors.As(err, &noPosition),
		errors.As(err, &insufficientShares):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNotLoggedIn):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg("Request failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
