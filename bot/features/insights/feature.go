package insights

import (
	"context"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const aiTimeout = 90 * time.Second

// Feature is the autonomous community manager: it logs message activity,
// answers the analytics commands and runs the daily analysis
type Feature struct {
	session    *discordgo.Session
	analytics  service.AnalyticsService
	autonomous service.AutonomousService
	settings   service.GuildSettingsService
}

// New creates a new insights feature instance
func New(session *discordgo.Session, analytics service.AnalyticsService, autonomous service.AutonomousService, settings service.GuildSettingsService) *Feature {
	return &Feature{
		session:    session,
		analytics:  analytics,
		autonomous: autonomous,
		settings:   settings,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)

	return []*discordgo.ApplicationCommand{
		{Name: "insight", Description: "Get AI-powered server insights", DefaultMemberPermissions: &manageGuild},
		{Name: "ai-suggest", Description: "Get fresh AI suggestions for community events", DefaultMemberPermissions: &manageGuild},
		{Name: "ai-analytics", Description: "View comprehensive server analytics", DefaultMemberPermissions: &manageGuild},
	}
}

// HandleCommand routes insight commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "insight":
		f.handleInsight(s, i)
	case "ai-suggest":
		f.handleSuggest(s, i)
	case "ai-analytics":
		f.handleAnalytics(s, i)
	}
}

// OnMessage records a guild message for the analytics
func (f *Feature) OnMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}
	channelID, err := common.ParseID(m.ChannelID)
	if err != nil {
		return
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		return
	}

	if err := f.analytics.LogMessage(ctx, guildID, channelID, userID, len([]rune(m.Content))); err != nil {
		log.WithError(err).Debugf("Failed to log message activity in guild %s", m.GuildID)
	}
}

func (f *Feature) handleInsight(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer insight response: %v", err)
		return
	}

	insights, err := f.analytics.BuildInsights(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to build insights"), true)
		return
	}
	snap, err := common.Snapshot(s, i.GuildID)
	if err != nil {
		log.WithError(err).Warnf("Failed to snapshot guild %s", i.GuildID)
	}

	if _, err := common.FollowUpWithEmbed(s, i, buildInsightEmbed(insights, snap), nil, false); err != nil {
		log.Errorf("Error sending insight follow-up: %v", err)
	}
}

func (f *Feature) handleSuggest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer ai-suggest response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
	defer cancel()

	insights, err := f.analytics.BuildInsights(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to build insights"), true)
		return
	}
	snap, err := common.Snapshot(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to snapshot guild"), true)
		return
	}

	recs, err := f.autonomous.Recommend(ctx, snap, insights)
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "failed to get recommendations"), true)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, buildSuggestionsEmbed(recs), nil, false); err != nil {
		log.Errorf("Error sending ai-suggest follow-up: %v", err)
	}
}

func (f *Feature) handleAnalytics(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer ai-analytics response: %v", err)
		return
	}

	insights, err := f.analytics.BuildInsights(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to build insights"), true)
		return
	}
	snap, err := common.Snapshot(s, i.GuildID)
	if err != nil {
		log.WithError(err).Warnf("Failed to snapshot guild %s", i.GuildID)
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{
			buildChannelPerformanceEmbed(insights, snap),
			buildTrendsEmbed(insights),
		},
	})
	if err != nil {
		log.Errorf("Error sending ai-analytics follow-up: %v", err)
	}
}
