package repository

import (
	"context"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreateGuildSettings(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, testGuildID, settings.GuildID)
	assert.Nil(t, settings.WelcomeChannelID)
	assert.True(t, settings.LevelingEnabled)
	assert.True(t, settings.AutonomousEnabled)

	channelID := int64(777)
	settings.WelcomeChannelID = &channelID
	settings.LevelingEnabled = false
	require.NoError(t, repo.UpdateGuildSettings(ctx, settings))

	reloaded, err := repo.GetOrCreateGuildSettings(ctx, testGuildID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.WelcomeChannelID)
	assert.Equal(t, channelID, *reloaded.WelcomeChannelID)
	assert.False(t, reloaded.LevelingEnabled)

	missing := &models.GuildSettings{GuildID: 1}
	assert.Error(t, repo.UpdateGuildSettings(ctx, missing))
}

func TestLevelRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLevelRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	level, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, level)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	for id, xp := range map[int64]int64{1: 120, 2: 900, 3: 450} {
		require.NoError(t, repo.Upsert(ctx, &models.UserLevel{DiscordID: id, XP: xp, Level: 1, Messages: 10, LastXPAt: &now}))
	}

	// Upsert overwrites
	require.NoError(t, repo.Upsert(ctx, &models.UserLevel{DiscordID: 1, XP: 200, Level: 2, Messages: 11, LastXPAt: &now}))

	level, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Equal(t, int64(200), level.XP)
	assert.Equal(t, 2, level.Level)
	assert.Equal(t, int64(11), level.Messages)

	top, err := repo.GetTop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].DiscordID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, int64(3), top[1].DiscordID)

	rank, err := repo.GetRank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
}

func TestModerationRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewModerationRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	for _, reason := range []string{"spam", "slurs"} {
		require.NoError(t, repo.AddWarning(ctx, &models.Warning{DiscordID: 5, ModeratorID: 9, Reason: reason}))
	}

	count, err := repo.CountWarnings(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	warnings, err := repo.ListWarnings(ctx, 5)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "spam", warnings[0].Reason)
	assert.Equal(t, int64(9), warnings[1].ModeratorID)

	cleared, err := repo.ClearWarnings(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	count, err = repo.CountWarnings(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, count)

	entry := &models.ModerationLog{TargetID: 5, ModeratorID: 9, Action: models.ModerationActionClearWarnings, Reason: "fresh start"}
	require.NoError(t, repo.LogAction(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.Equal(t, testGuildID, entry.GuildID)
}

func TestReminderRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReminderRepository(testDB.DB, testGuildID)
	other := NewReminderRepository(testDB.DB, testGuildID+1)
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	due := testutil.CreateTestReminder(42, "stretch", now.Add(-time.Minute))
	later := testutil.CreateTestReminder(42, "water plants", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, due))
	require.NoError(t, repo.Create(ctx, later))
	require.NoError(t, other.Create(ctx, testutil.CreateTestReminder(42, "elsewhere", now.Add(-time.Hour))))

	pending, err := repo.CountPending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	guilds, err := repo.GetGuildsWithDueReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{testGuildID, testGuildID + 1}, guilds)

	reminders, err := repo.GetDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "stretch", reminders[0].Text)
	assert.Equal(t, int64(555), reminders[0].ChannelID)

	require.NoError(t, repo.Delete(ctx, due.ID))

	reminders, err = repo.GetDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestInviteRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewInviteRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	joined := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, invited := range []int64{100, 101, 102} {
		require.NoError(t, repo.Record(ctx, &models.InviteRecord{
			InviterID: 10, InvitedID: invited, InviteCode: "abc", JoinedAt: joined, StillMember: true,
		}))
	}
	require.NoError(t, repo.Record(ctx, &models.InviteRecord{
		InviterID: 20, InvitedID: 200, InviteCode: "xyz", JoinedAt: joined, StillMember: true,
	}))

	require.NoError(t, repo.MarkLeft(ctx, 101, joined.Add(time.Hour)))

	count, err := repo.CountActiveInvites(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	leaderboard, err := repo.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, leaderboard, 2)
	assert.Equal(t, models.LeaderboardEntry{Rank: 1, DiscordID: 10, Value: 2}, *leaderboard[0])
	assert.Equal(t, models.LeaderboardEntry{Rank: 2, DiscordID: 20, Value: 1}, *leaderboard[1])
}

func TestActivityRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewActivityRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rows := []*models.MessageActivity{
		testutil.CreateTestActivity(1, 100, now.Add(-time.Hour)),
		testutil.CreateTestActivity(1, 100, now.Add(-2*time.Hour)),
		testutil.CreateTestActivity(1, 101, now.Add(-3*time.Hour)),
		testutil.CreateTestActivity(2, 101, now.Add(-4*time.Hour)),
		testutil.CreateTestActivity(2, 102, now.Add(-48*time.Hour)),
	}
	for _, row := range rows {
		require.NoError(t, repo.LogMessage(ctx, row))
	}

	stats, err := repo.GetChannelStats(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.ChannelStats{ChannelID: 1, Messages: 3, UniqueUsers: 2}, stats[0])
	assert.Equal(t, models.ChannelStats{ChannelID: 2, Messages: 1, UniqueUsers: 1}, stats[1])

	trends, err := repo.GetDailyTrends(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, int64(1), trends[0].Messages)
	assert.Equal(t, int64(4), trends[1].Messages)
	assert.Equal(t, int64(2), trends[1].ActiveUsers)

	top, err := repo.GetTopUsers(ctx, now.Add(-7*24*time.Hour), 2)
	require.NoError(t, err)
	assert.Equal(t, []models.UserActivity{{DiscordID: 100, Messages: 2}, {DiscordID: 101, Messages: 2}}, top)

	messages, users, err := repo.GetTotals(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(5), messages)
	assert.Equal(t, int64(3), users)
}

func TestDecisionRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDecisionRepository(testDB.DB, testGuildID)
	other := NewDecisionRepository(testDB.DB, testGuildID+1)
	ctx := context.Background()

	first := testutil.CreateTestDecision(models.DecisionEngineCognitive, models.ActionPostStrategicContent, 0.9)
	second := testutil.CreateTestDecision(models.DecisionEngineCognitive, models.ActionCreateEngagementChannel, 0.85)
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestDecision(models.DecisionEngineAutonomous, models.ActionRewardUsers, 0.8)))
	require.NoError(t, other.Record(ctx, testutil.CreateTestDecision(models.DecisionEngineCognitive, models.ActionPostStrategicContent, 0.95)))

	recent, err := repo.GetRecent(ctx, models.DecisionEngineCognitive, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)
	assert.Equal(t, "general", recent[0].Action["target"])
	assert.InDelta(t, 0.85, recent[0].Confidence, 1e-9)

	guilds, err := repo.CountGuildsWithDecisions(ctx, models.DecisionEngineCognitive)
	require.NoError(t, err)
	assert.Equal(t, 2, guilds)

	guilds, err = repo.CountGuildsWithDecisions(ctx, models.DecisionEngineAutonomous)
	require.NoError(t, err)
	assert.Equal(t, 1, guilds)
}

func TestContentRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewContentRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	content := &models.GeneratedContent{
		RequestedBy: 42,
		Platform:    "reddit",
		ContentType: "general",
		Caption:     "Come hang out with us",
	}
	require.NoError(t, repo.Create(ctx, content))
	assert.NotZero(t, content.ID)
	assert.Equal(t, testGuildID, content.GuildID)
	assert.False(t, content.CreatedAt.IsZero())
}

func TestPruneActivity(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewActivityRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.LogMessage(ctx, testutil.CreateTestActivity(1, 100, now.Add(-ActivityRetention-time.Hour))))
	require.NoError(t, repo.LogMessage(ctx, testutil.CreateTestActivity(1, 100, now.Add(-time.Hour))))

	deleted, err := PruneActivity(ctx, testDB.DB, now.Add(-ActivityRetention))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	messages, _, err := repo.GetTotals(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), messages)
}
