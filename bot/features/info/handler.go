package info

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var verificationLevels = map[discordgo.VerificationLevel]string{
	discordgo.VerificationLevelNone:     "None",
	discordgo.VerificationLevelLow:      "Low",
	discordgo.VerificationLevelMedium:   "Medium",
	discordgo.VerificationLevelHigh:     "High",
	discordgo.VerificationLevelVeryHigh: "Very High",
}

func (f *Feature) respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

func (f *Feature) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("Latency: **%dms**", s.HeartbeatLatency().Milliseconds()),
		Color:       common.ColorSuccess,
	})
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer info response: %v", err)
		return
	}

	users := 0
	for _, guild := range s.State.Guilds {
		users += guild.MemberCount
	}
	hostStats := collectHostStats()

	embed := &discordgo.MessageEmbed{
		Title:       "🤖 Bot Information",
		Description: "A community bot with an economy, levels, moderation and AI features.",
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Servers", Value: fmt.Sprint(len(s.State.Guilds)), Inline: true},
			{Name: "Users", Value: common.FormatBalance(int64(users)), Inline: true},
			{Name: "Commands", Value: fmt.Sprint(f.stats.CommandCount()), Inline: true},
			{Name: "Go", Value: runtime.Version(), Inline: true},
			{Name: "Version", Value: f.stats.Version, Inline: true},
			{Name: "Uptime", Value: common.FormatDuration(f.stats.Uptime(time.Now())), Inline: true},
			{Name: "CPU", Value: fmt.Sprintf("%d cores, %.1f%%", hostStats.CPUCount, hostStats.CPUPercent), Inline: true},
			{Name: "Memory", Value: hostStats.memory(), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprint(hostStats.Goroutines), Inline: true},
		},
	}
	if hostStats.Platform != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: hostStats.Platform}
	}

	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending info follow-up: %v", err)
	}
}

func (f *Feature) handleUptime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       "⏰ Bot Uptime",
		Description: fmt.Sprintf("I've been online for **%s**", common.FormatDuration(f.stats.Uptime(time.Now()))),
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Started", Value: common.FormatDiscordTimestamp(f.stats.StartedAt, "F")},
		},
	})
}

func (f *Feature) handleServerInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guild, err := common.GuildOf(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 " + guild.Name,
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true},
			{Name: "Members", Value: common.FormatBalance(int64(guild.MemberCount)), Inline: true},
			{Name: "Channels", Value: fmt.Sprint(len(guild.Channels)), Inline: true},
			{Name: "Roles", Value: fmt.Sprint(len(guild.Roles)), Inline: true},
			{Name: "Boosts", Value: fmt.Sprintf("%d (tier %d)", guild.PremiumSubscriptionCount, guild.PremiumTier), Inline: true},
			{Name: "Verification Level", Value: verificationLevels[guild.VerificationLevel], Inline: true},
		},
	}
	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Created", Value: common.FormatDiscordTimestamp(created, "R"), Inline: true,
		})
	}
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}
	if guild.Description != "" {
		embed.Description = guild.Description
	}

	f.respond(s, i, embed)
}

func (f *Feature) handleUserInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := common.CommandOptions(i).UserOrSelf(s, i, "user")
	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewUserError("That user is not a member of this server.", "userinfo target not a member"), false)
		return
	}

	f.respond(s, i, buildUserInfoEmbed(s, i.GuildID, member))
}

func buildUserInfoEmbed(s *discordgo.Session, guildID string, member *discordgo.Member) *discordgo.MessageEmbed {
	user := member.User
	embed := &discordgo.MessageEmbed{
		Title:     "👤 " + common.GetDisplayName(s, guildID, user.ID),
		Color:     common.ColorInfo,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: user.Username, Inline: true},
			{Name: "ID", Value: user.ID, Inline: true},
			{Name: "Bot", Value: yesNo(user.Bot), Inline: true},
			{Name: "Joined Server", Value: common.FormatDiscordTimestamp(member.JoinedAt, "R"), Inline: true},
		},
	}
	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Account Created", Value: common.FormatDiscordTimestamp(created, "R"), Inline: true,
		})
	}

	if roles, err := common.GuildRoles(s, guildID); err == nil {
		if top := topRole(roles, member.Roles); top != nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Top Role", Value: top.Mention(), Inline: true,
			})
			embed.Color = top.Color
		}
		if mentions := roleMentions(roles, member.Roles); mentions != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("Roles (%d)", len(member.Roles)),
				Value: common.Truncate(mentions, common.EmbedFieldLimit),
			})
		}
	}
	if embed.Color == 0 {
		embed.Color = common.ColorInfo
	}
	return embed
}

func (f *Feature) handleAvatar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := common.CommandOptions(i).UserOrSelf(s, i, "user")
	url := target.AvatarURL("1024")

	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🖼️ %s's Avatar", common.GetDisplayName(s, i.GuildID, target.ID)),
		Description: fmt.Sprintf("[Open original](%s)", url),
		Color:       common.ColorInfo,
		Image:       &discordgo.MessageEmbedImage{URL: url},
	})
}

// topRole returns the member role with the highest position
func topRole(roles []*discordgo.Role, roleIDs []string) *discordgo.Role {
	var top *discordgo.Role
	for _, role := range roles {
		for _, id := range roleIDs {
			if role.ID == id && (top == nil || role.Position > top.Position) {
				top = role
			}
		}
	}
	return top
}

func roleMentions(roles []*discordgo.Role, roleIDs []string) string {
	held := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = true
	}
	var mentions []string
	for _, role := range roles {
		if held[role.ID] {
			mentions = append(mentions, role.Mention())
		}
	}
	return strings.Join(mentions, " ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
