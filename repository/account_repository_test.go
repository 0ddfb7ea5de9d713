package repository

import (
	"context"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/repository/testutil"
	"github.com/whoami669/my-bot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID int64 = 111222333

func TestAccountRepository_GetOrCreateForUpdate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	t.Run("missing account", func(t *testing.T) {
		account, err := repo.GetByDiscordID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("creates once", func(t *testing.T) {
		account, created, err := repo.GetOrCreateForUpdate(ctx, 123456)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(0), account.Balance)
		assert.Equal(t, testGuildID, account.GuildID)
		assert.Nil(t, account.LastDaily)

		again, created, err := repo.GetOrCreateForUpdate(ctx, 123456)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, account.ID, again.ID)
	})

	t.Run("accounts are per guild", func(t *testing.T) {
		other := NewAccountRepository(testDB.DB, testGuildID+1)
		_, created, err := other.GetOrCreateForUpdate(ctx, 123456)
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestAccountRepository_Updates(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	_, _, err := repo.GetOrCreateForUpdate(ctx, 42)
	require.NoError(t, err)

	claimed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateBalance(ctx, 42, 750))
	require.NoError(t, repo.UpdateDaily(ctx, 42, claimed, 3))
	require.NoError(t, repo.UpdateCooldown(ctx, 42, service.CooldownWork, claimed.Add(time.Hour)))

	account, err := repo.GetByDiscordID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, int64(750), account.Balance)
	assert.Equal(t, 3, account.DailyStreak)
	require.NotNil(t, account.LastDaily)
	assert.True(t, claimed.Equal(*account.LastDaily))
	require.NotNil(t, account.LastWork)
	assert.True(t, claimed.Add(time.Hour).Equal(*account.LastWork))
	assert.Nil(t, account.LastCrime)

	t.Run("unknown account", func(t *testing.T) {
		assert.Error(t, repo.UpdateBalance(ctx, 7, 10))
	})

	t.Run("unknown cooldown", func(t *testing.T) {
		assert.Error(t, repo.UpdateCooldown(ctx, 42, service.CooldownKind("nap"), claimed))
	})

	t.Run("negative balance is rejected", func(t *testing.T) {
		assert.Error(t, repo.UpdateBalance(ctx, 42, -1))
	})
}

func TestAccountRepository_Leaderboard(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	balances := map[int64]int64{1: 500, 2: 1500, 3: 0, 4: 900}
	for id, balance := range balances {
		_, _, err := repo.GetOrCreateForUpdate(ctx, id)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateBalance(ctx, id, balance))
	}

	entries, err := repo.GetTopBalances(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.LeaderboardEntry{Rank: 1, DiscordID: 2, Value: 1500}, *entries[0])
	assert.Equal(t, models.LeaderboardEntry{Rank: 3, DiscordID: 1, Value: 500}, *entries[2])

	rank, err := repo.GetRank(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = repo.GetRank(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, rank)

	rank, err = repo.GetRank(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, rank)
}
