package bank

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

func TestMockGateway_SeededWithInitialDeposit(t *testing.T) {
	g := NewMockGateway()

	txs, err := g.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.BankDeposit, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(domain.StartingBalance))
	assert.Equal(t, "Initial Virtual Trading Balance", txs[0].Description)
}

func TestMockGateway_PostsAppearNewestFirst(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	_, err := g.PostWithdrawal(ctx, decimal.NewFromInt(900), "Stock Purchase - 5 shares of AAPL")
	require.NoError(t, err)
	_, err = g.PostDeposit(ctx, decimal.NewFromInt(400), "Stock Sale - 2 shares of AAPL")
	require.NoError(t, err)

	txs, err := g.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, domain.BankDeposit, txs[0].Type)
	assert.Equal(t, "Stock Sale - 2 shares of AAPL", txs[0].Description)
	assert.Equal(t, domain.BankWithdrawal, txs[1].Type)
	assert.Equal(t, "Initial Virtual Trading Balance", txs[2].Description)
}

func TestMockGateway_FailureSwitch(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	g.SetFailing(true)
	_, err := g.PostWithdrawal(ctx, decimal.NewFromInt(100), "Stock Purchase - 1 shares of AAPL")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// Failed posts leave the ledger mirror untouched.
	txs, err := g.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	g.SetFailing(false)
	_, err = g.PostWithdrawal(ctx, decimal.NewFromInt(100), "Stock Purchase - 1 shares of AAPL")
	assert.NoError(t, err)
}
