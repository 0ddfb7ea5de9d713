package repository

import (
	"context"
	"testing"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_RecordAndStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	entries := []*models.BalanceHistory{
		testutil.CreateTestBalanceHistory(42, 0, 110, models.TransactionTypeDaily),
		testutil.CreateTestBalanceHistory(42, 110, 410, models.TransactionTypeWork),
		testutil.CreateTestBalanceHistory(42, 410, 260, models.TransactionTypeCrimeFine),
		testutil.CreateTestBalanceHistory(42, 260, 200, models.TransactionTypeTransferOut),
	}
	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
		assert.NotZero(t, entry.ID)
		assert.Equal(t, testGuildID, entry.GuildID)
	}

	// Another guild's history is invisible
	other := NewBalanceHistoryRepository(testDB.DB, testGuildID+1)
	require.NoError(t, other.Record(ctx, testutil.CreateTestBalanceHistory(42, 0, 5000, models.TransactionTypeDaily)))

	t.Run("newest first", func(t *testing.T) {
		history, err := repo.GetByUser(ctx, 42, 2)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.TransactionTypeTransferOut, history[0].TransactionType)
		assert.Equal(t, models.TransactionTypeCrimeFine, history[1].TransactionType)
		assert.Equal(t, true, history[0].TransactionMetadata["test"])
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, models.EconomyStats{
			Transactions: 4,
			TotalEarned:  410,
			TotalLost:    210,
			BiggestGain:  300,
			BiggestLoss:  150,
		}, *stats)
	})

	t.Run("no history", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, models.EconomyStats{}, *stats)
	})
}
