package moderation

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

// action carries the parties of one moderation command
type action struct {
	guildID     int64
	moderatorID int64
	targetID    int64
	target      *discordgo.User
	member      *discordgo.Member // nil when the target is not in the guild
	reason      string
}

// resolveTarget loads the user option and enforces the role hierarchy when
// the target is a guild member
func (f *Feature) resolveTarget(s *discordgo.Session, i *discordgo.InteractionCreate) (*action, error) {
	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		return nil, common.NewSystemError(err, "failed to parse interaction IDs")
	}

	opts := common.CommandOptions(i)
	target := opts.User(s, "user")
	if target == nil {
		return nil, common.NewUserError("Member not found.", "target user missing")
	}
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		return nil, common.NewSystemError(err, "failed to parse target ID")
	}
	if targetID == moderatorID {
		return nil, common.FromServiceError(service.ErrSelfTarget, "moderator targeted self")
	}

	act := &action{
		guildID:     guildID,
		moderatorID: moderatorID,
		targetID:    targetID,
		target:      target,
		reason:      opts.String("reason", ""),
	}

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		// Bans may target users who already left
		log.WithError(err).Debugf("Target %s is not a member of guild %s", target.ID, i.GuildID)
		return act, nil
	}
	act.member = member

	hierarchy, err := common.LoadHierarchy(s, i.GuildID, i.Member)
	if err != nil {
		return nil, common.NewSystemError(err, "failed to load role hierarchy")
	}
	if err := hierarchy.CheckMember(member); err != nil {
		return nil, common.HierarchyError(err, "moderation blocked by hierarchy")
	}

	return act, nil
}

// requireMember rejects actions on users who are not in the guild
func requireMember(act *action) error {
	if act.member == nil {
		return common.NewUserError("That user is not a member of this server.", "target not a member")
	}
	return nil
}

// logAction writes the audit row. The Discord action already happened, so a
// failure here is logged and not surfaced.
func (f *Feature) logAction(act *action, kind models.ModerationAction, reason string) {
	err := f.moderationService.LogAction(context.Background(), &models.ModerationLog{
		GuildID:     act.guildID,
		TargetID:    act.targetID,
		ModeratorID: act.moderatorID,
		Action:      kind,
		Reason:      reason,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":  act.guildID,
			"target_id": act.targetID,
			"action":    kind,
		}).WithError(err).Error("Failed to write moderation log")
	}
}

func displayReason(reason string) string {
	if reason == "" {
		return "No reason provided"
	}
	return reason
}

func (f *Feature) respondAction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

func (f *Feature) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	act, err := f.resolveTarget(s, i)
	if err == nil {
		err = requireMember(act)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := s.GuildMemberDeleteWithReason(i.GuildID, act.target.ID, displayReason(act.reason)); err != nil {
		common.HandleError(s, i, common.NewUserError("I couldn't kick that member. Check my permissions.", "kick failed"), false)
		log.WithError(err).Warnf("Failed to kick %s", act.target.ID)
		return
	}

	f.logAction(act, models.ModerationActionKick, act.reason)
	f.respondAction(s, i, buildActionEmbed("👢 Member Kicked", act, common.ColorWarning))
}

func (f *Feature) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	act, err := f.resolveTarget(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	days := int(common.CommandOptions(i).Int("delete_days", 0))
	if err := service.ValidateBanDeleteDays(days); err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "invalid delete days"), false)
		return
	}

	if err := s.GuildBanCreateWithReason(i.GuildID, act.target.ID, displayReason(act.reason), days); err != nil {
		common.HandleError(s, i, common.NewUserError("I couldn't ban that user. Check my permissions.", "ban failed"), false)
		log.WithError(err).Warnf("Failed to ban %s", act.target.ID)
		return
	}

	f.logAction(act, models.ModerationActionBan, act.reason)
	embed := buildActionEmbed("🔨 Member Banned", act, common.ColorDanger)
	if days > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Messages Deleted", Value: fmt.Sprintf("Last %d days", days), Inline: true,
		})
	}
	f.respondAction(s, i, embed)
}

func (f *Feature) handleUnban(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	opts := common.CommandOptions(i)
	rawID := opts.String("user_id", "")
	targetID, err := common.ParseID(rawID)
	if err != nil {
		common.HandleError(s, i, common.NewUserError("That doesn't look like a user ID.", "invalid unban ID"), false)
		return
	}

	if err := s.GuildBanDelete(i.GuildID, rawID); err != nil {
		common.HandleError(s, i, common.NewUserError("That user isn't banned, or I can't manage bans.", "unban failed"), false)
		log.WithError(err).Debugf("Failed to unban %s", rawID)
		return
	}

	act := &action{
		guildID:     guildID,
		moderatorID: moderatorID,
		targetID:    targetID,
		target:      &discordgo.User{ID: rawID},
		reason:      opts.String("reason", ""),
	}
	f.logAction(act, models.ModerationActionUnban, act.reason)
	f.respondAction(s, i, buildActionEmbed("🔓 User Unbanned", act, common.ColorSuccess))
}

func (f *Feature) handleTimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	act, err := f.resolveTarget(s, i)
	if err == nil {
		err = requireMember(act)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	minutes := int(common.CommandOptions(i).Int("minutes", 0))
	if err := service.ValidateTimeoutMinutes(minutes); err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "invalid timeout"), false)
		return
	}

	duration := time.Duration(minutes) * time.Minute
	until := time.Now().Add(duration)
	if err := s.GuildMemberTimeout(i.GuildID, act.target.ID, &until); err != nil {
		common.HandleError(s, i, common.NewUserError("I couldn't time out that member. Check my permissions.", "timeout failed"), false)
		log.WithError(err).Warnf("Failed to time out %s", act.target.ID)
		return
	}

	f.logAction(act, models.ModerationActionTimeout, fmt.Sprintf("%s (%s)", displayReason(act.reason), common.FormatDuration(duration)))
	embed := buildActionEmbed("🔇 Member Timed Out", act, common.ColorWarning)
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Duration", Value: common.FormatDuration(duration), Inline: true},
		&discordgo.MessageEmbedField{Name: "Ends", Value: common.FormatDiscordTimestamp(until, "R"), Inline: true},
	)
	f.respondAction(s, i, embed)
}

func (f *Feature) handleUntimeout(s *discordgo.Session, i *discordgo.InteractionCreate) {
	act, err := f.resolveTarget(s, i)
	if err == nil {
		err = requireMember(act)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if act.member.CommunicationDisabledUntil == nil || act.member.CommunicationDisabledUntil.Before(time.Now()) {
		common.HandleError(s, i, common.NewUserError("That member is not timed out.", "untimeout on member without timeout"), false)
		return
	}

	if err := s.GuildMemberTimeout(i.GuildID, act.target.ID, nil); err != nil {
		common.HandleError(s, i, common.NewUserError("I couldn't remove that timeout. Check my permissions.", "untimeout failed"), false)
		log.WithError(err).Warnf("Failed to remove timeout of %s", act.target.ID)
		return
	}

	f.logAction(act, models.ModerationActionUntimeout, act.reason)
	f.respondAction(s, i, buildActionEmbed("🔊 Timeout Removed", act, common.ColorSuccess))
}

func (f *Feature) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	opts := common.CommandOptions(i)
	amount := int(opts.Int("amount", 0))
	if err := service.ValidateClearAmount(amount); err != nil {
		common.HandleError(s, i, common.NewUserError(err.Error(), "invalid clear amount"), false)
		return
	}
	var authorID string
	if user := opts.User(s, "user"); user != nil {
		authorID = user.ID
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer clear response: %v", err)
		return
	}

	messages, err := s.ChannelMessages(i.ChannelID, service.MaxClearAmount, "", "", "")
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to fetch channel messages"), true)
		return
	}

	ids := selectForClear(messages, authorID, amount, time.Now())
	switch len(ids) {
	case 0:
		common.FollowUpWithError(s, i, "No deletable messages found. Messages older than 14 days can't be bulk deleted.")
		return
	case 1:
		err = s.ChannelMessageDelete(i.ChannelID, ids[0])
	default:
		err = s.ChannelMessagesBulkDelete(i.ChannelID, ids)
	}
	if err != nil {
		common.HandleError(s, i, common.NewUserError("I couldn't delete those messages. Check my permissions.", "bulk delete failed"), true)
		log.WithError(err).Warnf("Failed to clear messages in %s", i.ChannelID)
		return
	}

	act := &action{guildID: guildID, moderatorID: moderatorID}
	if authorID != "" {
		act.targetID, _ = common.ParseID(authorID)
	}
	f.logAction(act, models.ModerationActionClear, fmt.Sprintf("%d messages in <#%s>", len(ids), i.ChannelID))
	common.FollowUpWithSuccess(s, i, fmt.Sprintf("Deleted **%d** messages.", len(ids)), true)
}

// bulkDeleteWindow is the age limit Discord applies to bulk deletes
const bulkDeleteWindow = 14 * 24 * time.Hour

// selectForClear picks up to amount message IDs, newest first, optionally
// restricted to one author and to the bulk delete window
func selectForClear(messages []*discordgo.Message, authorID string, amount int, now time.Time) []string {
	var ids []string
	for _, msg := range messages {
		if len(ids) == amount {
			break
		}
		if now.Sub(msg.Timestamp) >= bulkDeleteWindow {
			continue
		}
		if authorID != "" && (msg.Author == nil || msg.Author.ID != authorID) {
			continue
		}
		ids = append(ids, msg.ID)
	}
	return ids
}

func (f *Feature) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	act, err := f.resolveTarget(s, i)
	if err == nil {
		err = requireMember(act)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if act.target.Bot {
		common.HandleError(s, i, common.NewUserError("Bots can't be warned.", "warn targeted bot"), false)
		return
	}

	result, err := f.moderationService.Warn(context.Background(), act.guildID, act.targetID, act.moderatorID, act.reason)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to warn member"), false)
		return
	}

	embed := buildWarnEmbed(act.target.ID, result)
	if result.Escalation != "" {
		outcome, err := f.escalate(s, i.GuildID, act, result)
		if err != nil {
			log.WithError(err).Warnf("Failed to apply %s escalation to %s", result.Escalation, act.target.ID)
			outcome = fmt.Sprintf("⚠️ Automatic %s failed. Check my permissions.", result.Escalation)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Escalation", Value: outcome})
	}

	f.respondAction(s, i, embed)
}

// escalate applies the automatic action of a warning threshold
func (f *Feature) escalate(s *discordgo.Session, guildID string, act *action, result *models.WarnResult) (string, error) {
	reason := fmt.Sprintf("Automatic escalation after %d warnings", result.Count)

	var (
		err     error
		outcome string
	)
	switch result.Escalation {
	case models.ModerationActionTimeout:
		until := time.Now().Add(result.EscalationDuration)
		err = s.GuildMemberTimeout(guildID, act.target.ID, &until)
		outcome = fmt.Sprintf("🔇 Timed out for %s", common.FormatDuration(result.EscalationDuration))
		reason = fmt.Sprintf("%s (%s)", reason, common.FormatDuration(result.EscalationDuration))
	case models.ModerationActionKick:
		err = s.GuildMemberDeleteWithReason(guildID, act.target.ID, reason)
		outcome = "👢 Kicked from the server"
	case models.ModerationActionBan:
		err = s.GuildBanCreateWithReason(guildID, act.target.ID, reason, 0)
		outcome = "🔨 Banned from the server"
	default:
		return "", fmt.Errorf("unknown escalation %q", result.Escalation)
	}
	if err != nil {
		return "", err
	}

	f.logAction(act, result.Escalation, reason)
	return outcome, nil
}

func (f *Feature) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	target := common.CommandOptions(i).User(s, "user")
	if target == nil {
		common.HandleError(s, i, common.NewUserError("Member not found.", "target user missing"), false)
		return
	}
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	warnings, err := f.moderationService.ListWarnings(context.Background(), guildID, targetID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list warnings"), false)
		return
	}

	embed := buildWarningsEmbed(common.GetDisplayName(s, i.GuildID, target.ID), warnings)
	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to warnings command: %v", err)
	}
}

func (f *Feature) handleClearWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, moderatorID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}
	target := common.CommandOptions(i).User(s, "user")
	if target == nil {
		common.HandleError(s, i, common.NewUserError("Member not found.", "target user missing"), false)
		return
	}
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	cleared, err := f.moderationService.ClearWarnings(context.Background(), guildID, targetID, moderatorID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to clear warnings"), false)
		return
	}

	if cleared == 0 {
		common.HandleError(s, i, common.NewUserError(fmt.Sprintf("<@%s> has no warnings.", target.ID), "no warnings to clear"), false)
		return
	}
	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Cleared **%d** warnings for <@%s>.", cleared, target.ID), false); err != nil {
		log.Errorf("Error responding to clearwarnings command: %v", err)
	}
}
