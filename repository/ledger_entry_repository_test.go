package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebubechi-ihediwa/StellarCade/models"
	"github.com/ebubechi-ihediwa/StellarCade/repository/testutil"
)

func TestLedgerEntryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerEntryRepository(testDB.DB)
	gameRepo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	t.Run("records a deposit entry", func(t *testing.T) {
		ref := "tx-ref-1"
		entry := testutil.CreateTestLedgerEntry("GALICE", 1000, 0, models.EntryTypeDeposit)
		entry.TransferRef = &ref

		require.NoError(t, repo.Record(ctx, entry))
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("records a game entry linked to the game", func(t *testing.T) {
		gameID, err := gameRepo.NextID(ctx)
		require.NoError(t, err)
		require.NoError(t, gameRepo.Create(ctx, testutil.CreateTestGame(gameID, "GALICE")))

		entry := testutil.CreateTestLedgerEntry("GALICE", -100, 1000, models.EntryTypeGameLoss)
		entry.GameID = &gameID
		require.NoError(t, repo.Record(ctx, entry))

		entries, err := repo.GetByAccount(ctx, "GALICE", 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, gameID, *entries[0].GameID)
	})
}

func TestLedgerEntryRepository_GetByAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerEntryRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, testutil.CreateTestLedgerEntry("GALICE", 1000, 0, models.EntryTypeDeposit)))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestLedgerEntry("GALICE", -400, 1000, models.EntryTypeWithdrawal)))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestLedgerEntry("GBOB", 50, 0, models.EntryTypeDeposit)))

	t.Run("newest first, scoped to the account", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, "GALICE", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, models.EntryTypeWithdrawal, entries[0].EntryType)
		assert.Equal(t, models.EntryTypeDeposit, entries[1].EntryType)

		// Each entry replays: after = before + amount
		for _, entry := range entries {
			assert.Equal(t, entry.BalanceAfter, entry.BalanceBefore+entry.Amount)
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, "GALICE", 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("unknown account yields empty history", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, "GNOBODY", 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
