package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type actionState int

const (
	actionExecuted actionState = iota
	actionFailed
	actionLogged
)

// actionResult is how an approved recommendation was carried out
type actionResult struct {
	state  actionState
	detail string
}

func (r actionResult) outcome() models.DecisionOutcome {
	return models.DecisionOutcome{Executed: r.state == actionExecuted, Detail: r.detail}
}

// RunAutonomous runs the daily analysis of one guild and acts on the
// approved recommendations. Guilds with the manager switched off are skipped.
func (f *Feature) RunAutonomous(ctx context.Context, guildID string) error {
	id, err := common.ParseID(guildID)
	if err != nil {
		return err
	}

	settings, err := f.settings.GetOrCreateSettings(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AutonomousEnabled {
		log.Debugf("Autonomous manager disabled in guild %s", guildID)
		return nil
	}

	snap, err := common.Snapshot(f.session, guildID)
	if err != nil {
		return fmt.Errorf("failed to snapshot guild: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	report, err := f.autonomous.Analyze(ctx, id, snap)
	if err != nil {
		return fmt.Errorf("autonomous analysis failed: %w", err)
	}

	logsChannel, err := common.LogChannel(f.session, guildID, settings, service.ChannelAILogs)
	if err != nil {
		log.WithError(err).Warnf("No ai-logs channel in guild %s", guildID)
	}
	post := func(embed *discordgo.MessageEmbed) {
		if logsChannel == "" {
			return
		}
		if _, err := f.session.ChannelMessageSendEmbed(logsChannel, embed); err != nil {
			log.WithError(err).Warnf("Failed to post to ai-logs in guild %s", guildID)
		}
	}

	executed := 0
	outcomes := make([]models.DecisionOutcome, 0, len(report.Approved))
	for _, rec := range report.Approved {
		result := f.execute(guildID, rec, report)
		if result.state == actionExecuted {
			executed++
		}
		outcomes = append(outcomes, result.outcome())
		post(buildActionEmbed(rec, result))
	}
	if err := f.autonomous.RecordOutcomes(ctx, id, report, outcomes); err != nil {
		log.WithError(err).Errorf("Failed to record autonomous decisions in guild %s", guildID)
	}
	for _, rec := range report.Suggestions {
		post(buildSuggestionEmbed(rec))
	}
	post(buildDailySummaryEmbed(report, snap, executed))

	log.WithFields(log.Fields{
		"guild":       guildID,
		"executed":    executed,
		"suggestions": len(report.Suggestions),
	}).Info("Autonomous actions complete")
	return nil
}

// execute carries out the Discord side of an approved recommendation
func (f *Feature) execute(guildID string, rec models.Recommendation, report *models.AutonomousReport) actionResult {
	switch rec.ActionType {
	case models.ActionSendAnnouncement:
		if err := service.CheckOutgoing(rec.Target); err != nil {
			return actionResult{state: actionFailed, detail: "Blocked by the content filter"}
		}
		channelID := common.AnnouncementChannel(f.session, guildID)
		if channelID == "" {
			return actionResult{state: actionFailed, detail: "No announcement channel"}
		}
		if _, err := f.session.ChannelMessageSendEmbed(channelID, buildAnnouncementEmbed(rec.Target)); err != nil {
			log.WithError(err).Warnf("Failed to send community update in guild %s", guildID)
			return actionResult{state: actionFailed, detail: "Could not post the announcement"}
		}
		return actionResult{state: actionExecuted, detail: "Posted in <#" + channelID + ">"}

	case models.ActionRewardUsers:
		if len(report.Rewarded) == 0 {
			return actionResult{state: actionFailed, detail: "No active members to reward"}
		}
		return actionResult{state: actionExecuted, detail: rewardSummary(report.Rewarded, report.RewardAmount)}
	}

	return actionResult{state: actionLogged, detail: "Logged for manual follow-up"}
}

func buildAnnouncementEmbed(text string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🚀 Community Update",
		Description: common.Truncate(text, 4096),
		Color:       common.ColorSuccess,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Powered by Autonomous AI"},
	}
}

func rewardSummary(users []models.UserActivity, amount int64) string {
	summary := fmt.Sprintf("Rewarded %s to", common.FormatCoins(amount))
	for _, user := range users {
		summary += " " + common.UserMention(user.DiscordID)
	}
	return summary
}
