package insights

import (
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSnapshot = models.GuildSnapshot{
	Name:         "Test Guild",
	ChannelNames: map[int64]string{10: "general", 11: "memes"},
}

func testInsights() *models.CommunityInsights {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &models.CommunityInsights{
		TopChannels:   []models.ChannelStats{{ChannelID: 10, Messages: 40, UniqueUsers: 6, Engagement: 29.8}},
		QuietChannels: []models.ChannelStats{{ChannelID: 11, Messages: 1, UniqueUsers: 1, Engagement: 1}},
		DailyTrends: []models.DailyTrend{
			{Day: day, Messages: 10},
			{Day: day.AddDate(0, 0, 1), Messages: 20},
		},
		TopUsers: []models.UserActivity{{DiscordID: 5, Messages: 12}},
	}
}

func TestHumanizeAction(t *testing.T) {
	assert.Equal(t, "Create Channel", humanizeAction("create_channel"))
	assert.Equal(t, "Dm Inactive Users", humanizeAction(models.ActionDMInactiveUsers))
	assert.Equal(t, "Unknown", humanizeAction(""))
}

func TestBuildInsightEmbed(t *testing.T) {
	embed := buildInsightEmbed(testInsights(), testSnapshot)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "#general: 29.8 engagement\n", embed.Fields[0].Value)
	assert.Equal(t, "30 messages this week\n15 daily average", embed.Fields[1].Value)
	assert.Equal(t, "<@5>: 12 messages\n", embed.Fields[2].Value)

	empty := buildInsightEmbed(&models.CommunityInsights{}, testSnapshot)
	assert.Empty(t, empty.Fields)
	assert.NotEmpty(t, empty.Description)
}

func TestBuildTrendsEmbed(t *testing.T) {
	embed := buildTrendsEmbed(testInsights())
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Oct 01: 10 messages\nOct 02: 20 messages\n", embed.Fields[0].Value)
	assert.Equal(t, "Total: 30\nDaily Avg: 15", embed.Fields[1].Value)
}

func TestBuildChannelPerformanceEmbed(t *testing.T) {
	embed := buildChannelPerformanceEmbed(testInsights(), testSnapshot)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "#general: 29.8 (40 msgs, 6 users)\n", embed.Fields[0].Value)
	assert.Equal(t, "#memes: 1.0 (1 msgs, 1 users)\n", embed.Fields[1].Value)
}

func TestBuildSuggestionsEmbedCapsAtThree(t *testing.T) {
	recs := make([]models.Recommendation, 5)
	for i := range recs {
		recs[i] = models.Recommendation{ActionType: models.ActionCreateChannel, Target: "events", Reasoning: "quiet", Confidence: 0.6}
	}
	embed := buildSuggestionsEmbed(recs)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Suggestion 1: Create Channel", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "**Confidence:** 60.0%")
}

func TestTrendArrow(t *testing.T) {
	assert.Equal(t, "📈", trendArrow(testInsights().DailyTrends))
	assert.Equal(t, "➡️", trendArrow(nil))
	assert.Equal(t, "📉", trendArrow([]models.DailyTrend{{Messages: 5}, {Messages: 2}}))
}

func TestBuildDailySummaryEmbed(t *testing.T) {
	report := &models.AutonomousReport{
		Insights:        testInsights(),
		Recommendations: []models.Recommendation{{ActionType: models.ActionRewardUsers, Confidence: 0.9}},
		Suggestions:     []models.Recommendation{{ActionType: models.ActionCreateChannel}},
	}
	embed := buildDailySummaryEmbed(report, testSnapshot, 1)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "📈 20 messages today", embed.Fields[1].Value)
	assert.Equal(t, "1 executed, 1 suggested", embed.Fields[2].Value)
	assert.Equal(t, "• Reward Users (90.0%)\n", embed.Fields[3].Value)
}

func TestRewardSummary(t *testing.T) {
	users := []models.UserActivity{{DiscordID: 1}, {DiscordID: 2}}
	assert.Contains(t, rewardSummary(users, 250), "<@1> <@2>")
}

func TestActionResultOutcome(t *testing.T) {
	tests := []struct {
		name   string
		result actionResult
		want   models.DecisionOutcome
	}{
		{"executed", actionResult{state: actionExecuted, detail: "Posted in <#1>"}, models.DecisionOutcome{Executed: true, Detail: "Posted in <#1>"}},
		{"failed", actionResult{state: actionFailed, detail: "No announcement channel"}, models.DecisionOutcome{Detail: "No announcement channel"}},
		{"logged", actionResult{state: actionLogged, detail: "Logged for manual follow-up"}, models.DecisionOutcome{Detail: "Logged for manual follow-up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.outcome())
		})
	}
}
