package service

import (
	"context"
	"testing"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLevelingService(factory UnitOfWorkFactory, random Random) *levelingService {
	svc := NewLevelingService(factory, random).(*levelingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int64
		level int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{199, 1},
		{200, 2},
		{450, 3},
		{5000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp %d", tt.xp)
		if tt.level > 0 {
			assert.LessOrEqual(t, XPForLevel(tt.level), tt.xp)
			assert.Greater(t, XPForLevel(tt.level+1), tt.xp)
		}
	}
}

func TestLevelingService_ProcessMessage_LevelUp(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestLevelingService(factory, &scriptedRandom{ints: []int{10}})

	existing := &models.UserLevel{GuildID: testGuildID, DiscordID: 42, XP: 40, Messages: 9}
	account := &models.Account{GuildID: testGuildID, DiscordID: 42, Balance: 20}

	uow.On("Commit").Return(nil)
	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).Return(&models.GuildSettings{GuildID: testGuildID, LevelingEnabled: true}, nil)
	uow.Levels.On("Get", ctx, int64(42)).Return(existing, nil)
	uow.Levels.On("Upsert", ctx, mock.MatchedBy(func(l *models.UserLevel) bool {
		return l.XP == 65 && l.Level == 1 && l.Messages == 10 && l.LastXPAt != nil && l.LastXPAt.Equal(testNow)
	})).Return(nil)
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(42)).Return(account, false, nil)
	uow.Accounts.On("UpdateBalance", ctx, int64(42), int64(120)).Return(nil)
	uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeLevelReward && h.ChangeAmount == 100
	})).Return(nil)
	uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	uow.Events.On("Publish", events.LevelUpEvent{
		UserID:    42,
		GuildID:   testGuildID,
		ChannelID: 7,
		OldLevel:  0,
		NewLevel:  1,
		Reward:    100,
	}).Return(nil)

	levelUp, err := svc.ProcessMessage(ctx, testGuildID, 7, 42)

	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, models.LevelUp{OldLevel: 0, NewLevel: 1, Reward: 100}, *levelUp)
	uow.AssertAll(t)
}

func TestLevelingService_ProcessMessage_Cooldown(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestLevelingService(factory, &scriptedRandom{})

	lastXP := testNow.Add(-30 * time.Second)
	existing := &models.UserLevel{GuildID: testGuildID, DiscordID: 42, XP: 100, Level: 1, Messages: 3, LastXPAt: &lastXP}

	uow.On("Commit").Return(nil)
	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).Return(&models.GuildSettings{GuildID: testGuildID, LevelingEnabled: true}, nil)
	uow.Levels.On("Get", ctx, int64(42)).Return(existing, nil)
	uow.Levels.On("Upsert", ctx, mock.MatchedBy(func(l *models.UserLevel) bool {
		return l.XP == 100 && l.Messages == 4 && l.LastXPAt.Equal(lastXP)
	})).Return(nil)

	levelUp, err := svc.ProcessMessage(ctx, testGuildID, 7, 42)

	require.NoError(t, err)
	assert.Nil(t, levelUp)
	uow.AssertAll(t)
}

func TestLevelingService_ProcessMessage_Disabled(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestLevelingService(factory, &scriptedRandom{})

	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).Return(&models.GuildSettings{GuildID: testGuildID}, nil)

	levelUp, err := svc.ProcessMessage(ctx, testGuildID, 7, 42)

	require.NoError(t, err)
	assert.Nil(t, levelUp)
	uow.Levels.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit")
}

func TestLevelingService_GetRank_NoXP(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestLevelingService(factory, nil)

	uow.Levels.On("Get", ctx, int64(42)).Return(nil, nil)

	ranked, err := svc.GetRank(ctx, testGuildID, 42)

	require.NoError(t, err)
	assert.Nil(t, ranked)
	uow.Levels.AssertNotCalled(t, "GetRank", mock.Anything, mock.Anything)
}
