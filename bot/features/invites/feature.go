package invites

import (
	"context"
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature attributes joins to invites and rewards active inviters
type Feature struct {
	session       *discordgo.Session
	inviteService service.InviteService
	tracker       *service.InviteTracker
}

// New creates a new invites feature instance
func New(session *discordgo.Session, inviteService service.InviteService, tracker *service.InviteTracker) *Feature {
	return &Feature{
		session:       session,
		inviteService: inviteService,
		tracker:       tracker,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "invites-leaderboard", Description: "Top inviters of this server"},
		{Name: "my-invites", Description: "Your active invites and next goal"},
	}
}

// HandleCommand routes invite commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "invites-leaderboard":
		f.handleLeaderboard(s, i)
	case "my-invites":
		f.handleMyInvites(s, i)
	}
}

// snapshots converts live invites, skipping ones without an inviter such as vanity URLs
func snapshots(invites []*discordgo.Invite) []models.InviteSnapshot {
	out := make([]models.InviteSnapshot, 0, len(invites))
	for _, inv := range invites {
		if inv.Inviter == nil {
			continue
		}
		inviterID, err := common.ParseID(inv.Inviter.ID)
		if err != nil {
			continue
		}
		out = append(out, models.InviteSnapshot{Code: inv.Code, InviterID: inviterID, Uses: inv.Uses})
	}
	return out
}

// LoadGuild fills the invite cache of a guild
func (f *Feature) LoadGuild(s *discordgo.Session, guildID string) {
	id, err := common.ParseID(guildID)
	if err != nil {
		return
	}
	invites, err := s.GuildInvites(guildID)
	if err != nil {
		log.WithError(err).Warnf("Failed to cache invites of guild %s", guildID)
		return
	}
	f.tracker.Replace(id, snapshots(invites))
}

// ForgetGuild drops the cache of a guild the bot left
func (f *Feature) ForgetGuild(guildID string) {
	if id, err := common.ParseID(guildID); err == nil {
		f.tracker.Forget(id)
	}
}

// OnInviteCreate caches a new invite
func (f *Feature) OnInviteCreate(e *discordgo.InviteCreate) {
	id, err := common.ParseID(e.GuildID)
	if err != nil || e.Invite == nil {
		return
	}
	f.tracker.Add(id, e.Code, e.Uses)
}

// OnInviteDelete drops a deleted invite
func (f *Feature) OnInviteDelete(e *discordgo.InviteDelete) {
	if id, err := common.ParseID(e.GuildID); err == nil {
		f.tracker.Remove(id, e.Code)
	}
}

// OnMemberJoin attributes a join to the invite whose use count went up
func (f *Feature) OnMemberJoin(ctx context.Context, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}

	invites, err := s.GuildInvites(m.GuildID)
	if err != nil {
		log.WithError(err).Warnf("Failed to fetch invites of guild %s", m.GuildID)
		return
	}

	used := f.attribute(guildID, m.User, snapshots(invites))
	if m.User.Bot {
		return
	}
	invitedID, err := common.ParseID(m.User.ID)
	if err != nil {
		return
	}
	if used == nil {
		log.Debugf("No invite attributed for %s in guild %s", m.User.ID, m.GuildID)
		return
	}

	join, err := f.inviteService.RecordJoin(ctx, guildID, invitedID, *used)
	if err != nil {
		log.WithError(err).Errorf("Failed to record invite join in guild %s", m.GuildID)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"inviter_id": join.InviterID,
		"invited_id": join.InvitedID,
		"code":       join.InviteCode,
		"total":      join.Total,
	}).Info("Attributed member join")
}

// attribute refreshes the cached use counts and returns the invite a human
// member joined with. Bot joins still consume an invite use, so the cache is
// refreshed before they are skipped.
func (f *Feature) attribute(guildID int64, user *discordgo.User, live []models.InviteSnapshot) *models.InviteSnapshot {
	used := f.tracker.Attribute(guildID, live)
	if user.Bot {
		return nil
	}
	return used
}

// OnMemberLeave marks the member's invite attribution as inactive
func (f *Feature) OnMemberLeave(ctx context.Context, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}
	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		return
	}
	invitedID, err := common.ParseID(m.User.ID)
	if err != nil {
		return
	}
	if err := f.inviteService.RecordLeave(ctx, guildID, invitedID); err != nil {
		log.WithError(err).Errorf("Failed to record invite leave in guild %s", m.GuildID)
	}
}

// RewardMilestone gives the milestone role to the inviter and announces it
func (f *Feature) RewardMilestone(ctx context.Context, event events.InviteMilestoneEvent) error {
	guildID := common.FormatID(event.GuildID)
	inviterID := common.FormatID(event.InviterID)

	role, err := common.EnsureRole(f.session, guildID, event.RoleName, common.ColorGold)
	if err != nil {
		return fmt.Errorf("failed to ensure milestone role: %w", err)
	}
	if err := f.session.GuildMemberRoleAdd(guildID, inviterID, role.ID); err != nil {
		return fmt.Errorf("failed to assign milestone role: %w", err)
	}

	channelID := common.AnnouncementChannel(f.session, guildID)
	if channelID == "" {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Invite Milestone!", event.Emoji),
		Description: fmt.Sprintf("%s reached **%d** active invites and earned the %s role!",
			common.UserMention(event.InviterID), event.Count, role.Mention()),
		Color: common.ColorGold,
	}
	if _, err := f.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to announce milestone: %w", err)
	}
	return nil
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	entries, err := f.inviteService.Leaderboard(context.Background(), guildID, common.LeaderboardSize)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get invite leaderboard"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📨 Invite Leaderboard",
		Color: common.ColorGold,
	}
	if len(entries) == 0 {
		embed.Description = "No invites tracked yet."
	} else {
		var b strings.Builder
		for _, entry := range entries {
			fmt.Fprintf(&b, "%s %s: **%d** invites\n", common.RankLabel(entry.Rank),
				common.GetDisplayNameInt64(s, i.GuildID, entry.DiscordID), entry.Value)
		}
		embed.Description = b.String()
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to invites-leaderboard command: %v", err)
	}
}

func (f *Feature) handleMyInvites(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	stats, err := f.inviteService.GetStats(context.Background(), guildID, userID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get invite stats"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildStatsEmbed(stats), nil, true); err != nil {
		log.Errorf("Error responding to my-invites command: %v", err)
	}
}

func buildStatsEmbed(stats *models.InviteStats) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📨 Your Invites",
		Description: fmt.Sprintf("You have **%d** active invites.", stats.Total),
		Color:       common.ColorInfo,
	}
	if stats.NextMilestone > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Next Goal",
			Value: fmt.Sprintf("%s %d/%d", common.ProgressBar(int64(stats.Total), int64(stats.NextMilestone), 10),
				stats.Total, stats.NextMilestone),
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Next Goal", Value: "Every goal reached 🏆"})
	}
	return embed
}
