package pebblestore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testUser(email string) *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		Name:      "Test User",
		Email:     email,
		Password:  "secret",
		Balance:   domain.StartingBalance,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestStore(t))

	user := testUser("alice@example.com")
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, user.Name, byEmail.Name)
	assert.True(t, user.Balance.Equal(byEmail.Balance))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestStore(t))

	require.NoError(t, repo.Create(ctx, testUser("alice@example.com")))
	err := repo.Create(ctx, testUser("alice@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestStore(t))

	user := testUser("alice@example.com")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	assert.Error(t, err)

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, user.ID))
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestStore(t))

	require.NoError(t, repo.Create(ctx, testUser("a@example.com")))
	require.NoError(t, repo.Create(ctx, testUser("b@example.com")))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(openTestStore(t))

	_, ok, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store has no session")

	userID := uuid.New()
	require.NoError(t, repo.SetCurrent(ctx, userID))

	got, ok, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	require.NoError(t, repo.Clear(ctx))
	_, ok, err = repo.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(openTestStore(t))
	userID := uuid.New()

	ledger := domain.NewLedger(domain.StartingBalance)
	_, err := ledger.Buy(domain.Quote{
		Symbol: "AAPL",
		Name:   "Apple Inc.",
		Sector: "Technology",
		Price:  decimal.RequireFromString("180.25"),
	}, 5)
	require.NoError(t, err)
	_, err = ledger.Sell(domain.Quote{
		Symbol: "AAPL",
		Price:  decimal.RequireFromString("190.00"),
	}, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, userID, ledger))

	loaded, err := repo.Get(ctx, userID)
	require.NoError(t, err)

	assert.True(t, loaded.CashBalance.Equal(ledger.CashBalance))
	require.Len(t, loaded.Holdings, 1)
	assert.Equal(t, ledger.Holdings[0].Quantity, loaded.Holdings[0].Quantity)
	assert.True(t, loaded.Holdings[0].AverageCost.Equal(ledger.Holdings[0].AverageCost))
	assert.True(t, loaded.Holdings[0].TotalInvested.Equal(ledger.Holdings[0].TotalInvested))

	require.Len(t, loaded.Log, 2)
	assert.Equal(t, ledger.Log[0].ID, loaded.Log[0].ID)
	assert.Equal(t, domain.TradeSideSell, loaded.Log[0].Side)
	assert.True(t, loaded.Log[0].GainLoss.Equal(ledger.Log[0].GainLoss))
}

func TestLedgerRepository_GetMissing(t *testing.T) {
	repo := NewLedgerRepository(openTestStore(t))

	_, err := repo.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestLedgerRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(openTestStore(t))
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, userID, domain.NewLedger(domain.StartingBalance)))
	require.NoError(t, repo.Delete(ctx, userID))

	_, err := repo.Get(ctx, userID)
	assert.Error(t, err)
}

func TestLedgerRepository_LoadedLedgerIsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(openTestStore(t))
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, userID, domain.NewLedger(domain.StartingBalance)))

	first, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	_, err = first.Buy(domain.Quote{Symbol: "AAPL", Price: decimal.RequireFromString("180")}, 5)
	require.NoError(t, err)

	// The mutation was never saved, so a fresh load sees the old state.
	second, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, second.CashBalance.Equal(domain.StartingBalance))
	assert.Empty(t, second.Holdings)
}
