package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockverse/stockverse-backend/internal/adapter/bank"
	"github.com/stockverse/stockverse-backend/internal/adapter/quote"
	"github.com/stockverse/stockverse-backend/internal/adapter/repository/pebblestore"
	"github.com/stockverse/stockverse-backend/internal/usecase/auth"
	"github.com/stockverse/stockverse-backend/internal/usecase/trading"
)

type apiTest struct {
	server  *httptest.Server
	gateway *bank.MockGateway
}

// newAPITest wires the full stack on a throwaway store: real services,
// the static quote catalog and a mock bank gateway.
func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	store, err := pebblestore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	userRepo := pebblestore.NewUserRepository(store)
	sessionRepo := pebblestore.NewSessionRepository(store)
	ledgerRepo := pebblestore.NewLedgerRepository(store)
	quotes := quote.NewStaticProvider()
	gateway := bank.NewMockGateway()

	authSvc := auth.NewAuthService(userRepo, sessionRepo, ledgerRepo, zerolog.Nop())
	tradingSvc := trading.NewTradingService(ledgerRepo, quotes, gateway, zerolog.Nop())
	handler := NewHandler(authSvc, tradingSvc, quotes, gateway, zerolog.Nop())

	server := httptest.NewServer(NewRouter(handler, zerolog.Nop()))
	t.Cleanup(server.Close)
	return &apiTest{server: server, gateway: gateway}
}

func (a *apiTest) do(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *apiTest) doList(t *testing.T, path string) (*http.Response, []map[string]interface{}) {
	t.Helper()

	resp, err := a.server.Client().Get(a.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded []map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *apiTest) signup(t *testing.T, email string) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	api := newAPITest(t)

	resp, body := api.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestSignupLoginLogout(t *testing.T) {
	api := newAPITest(t)

	resp, body := api.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "10000.00", body["balance"])

	// Signup logs the user in.
	resp, body = api.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", body["email"])

	resp, _ = api.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "alice@example.com")

	resp, body := api.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Alice Again", "email": "alice@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "user already exists with this email", body["error"])
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "alice@example.com")

	resp, body := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestListAndGetStocks(t *testing.T) {
	api := newAPITest(t)

	resp, stocks := api.doList(t, "/api/stocks")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, stocks, 6)

	resp, body := api.do(t, http.MethodGet, "/api/stocks/AAPL", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Apple Inc.", body["name"])
	assert.Equal(t, "180.25", body["price"])

	resp, _ = api.do(t, http.MethodGet, "/api/stocks/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTradeRequiresLogin(t *testing.T) {
	api := newAPITest(t)

	resp, _ := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBuySellFlow(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	resp, body := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Successfully bought 5 shares of AAPL", body["message"])
	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "BUY", tx["side"])
	assert.Equal(t, "901.25", tx["totalCost"])
	assert.Equal(t, "9098.75", tx["balanceAfter"])

	resp, body = api.do(t, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "9098.75", body["cashBalance"])
	holdings := body["holdings"].([]interface{})
	require.Len(t, holdings, 1)
	pos := holdings[0].(map[string]interface{})
	assert.Equal(t, "AAPL", pos["symbol"])
	assert.Equal(t, float64(5), pos["quantity"])
	assert.Equal(t, "180.25", pos["averageCost"])

	resp, body = api.do(t, http.MethodPost, "/api/trades/sell", map[string]interface{}{
		"symbol": "AAPL", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tx = body["transaction"].(map[string]interface{})
	assert.Equal(t, "SELL", tx["side"])
	assert.Equal(t, "360.50", tx["totalValue"])
	assert.Equal(t, "0.00", tx["gainLoss"], "sold at the same price it was bought")

	resp, txs := api.doList(t, "/api/portfolio/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, txs, 2)
	assert.Equal(t, "SELL", txs[0]["side"], "log is newest first")
	assert.Equal(t, "BUY", txs[1]["side"])
}

func TestBuy_ValidationFailures(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "zero quantity",
			body:       map[string]interface{}{"symbol": "AAPL", "quantity": 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing symbol",
			body:       map[string]interface{}{"quantity": 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown symbol",
			body:       map[string]interface{}{"symbol": "NOPE", "quantity": 1},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "insufficient balance",
			body:       map[string]interface{}{"symbol": "META", "quantity": 100},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := api.do(t, http.MethodPost, "/api/trades/buy", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	// Failed buys never touch the balance.
	resp, body := api.do(t, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10000.00", body["cashBalance"])
}

func TestSell_WithoutPosition(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	resp, body := api.do(t, http.MethodPost, "/api/trades/sell", map[string]interface{}{
		"symbol": "TSLA", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "you don't own any shares of TSLA", body["error"])
}

func TestPortfolioStatsAndSectors(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	resp, _ := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Static prices never move, so value equals invested.
	resp, body := api.do(t, http.MethodGet, "/api/portfolio/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "360.50", body["totalInvested"])
	assert.Equal(t, "360.50", body["currentValue"])
	assert.Equal(t, "0.00", body["totalGainLoss"])

	resp, body = api.do(t, http.MethodGet, "/api/portfolio/sectors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tech := body["Technology"].(map[string]interface{})
	assert.Equal(t, "360.50", tech["totalInvested"])
}

func TestPortfolioReset(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	resp, _ := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/portfolio/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10000.00", body["cashBalance"])
	assert.Empty(t, body["holdings"])
	assert.Empty(t, body["transactions"])
}

func TestBankTransactionsMirrorTrades(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")

	resp, _ := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, txs := api.doList(t, "/api/bank/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, txs, 2)
	assert.Equal(t, "withdrawal", txs[0]["type"])
	assert.Equal(t, "Stock Purchase - 2 shares of AAPL", txs[0]["description"])
	assert.Equal(t, "360.50", txs[0]["amount"])
	assert.Equal(t, "Initial Virtual Trading Balance", txs[1]["description"])
}

func TestBankFailureAbortsTrade(t *testing.T) {
	api := newAPITest(t)
	api.signup(t, "trader@example.com")
	api.gateway.SetFailing(true)

	resp, body := api.do(t, http.MethodPost, "/api/trades/buy", map[string]interface{}{
		"symbol": "AAPL", "quantity": 1,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, fmt.Sprint(body["error"]), "bank transaction failed")

	// The local ledger never committed.
	resp, body = api.do(t, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10000.00", body["cashBalance"])
	assert.Empty(t, body["holdings"])
}
