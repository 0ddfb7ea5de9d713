package serversetup

import (
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const membersRoleName = "Members"

// namedPermission pairs a permission bit with its display name
type namedPermission struct {
	bit  int64
	name string
}

// requiredPermissions are the guild permissions the bot's features rely on
var requiredPermissions = []namedPermission{
	{discordgo.PermissionViewChannel, "View Channels"},
	{discordgo.PermissionSendMessages, "Send Messages"},
	{discordgo.PermissionEmbedLinks, "Embed Links"},
	{discordgo.PermissionAttachFiles, "Attach Files"},
	{discordgo.PermissionReadMessageHistory, "Read Message History"},
	{discordgo.PermissionAddReactions, "Add Reactions"},
	{discordgo.PermissionManageMessages, "Manage Messages"},
	{discordgo.PermissionManageChannels, "Manage Channels"},
	{discordgo.PermissionManageRoles, "Manage Roles"},
	{discordgo.PermissionManageGuild, "Manage Server"},
	{discordgo.PermissionKickMembers, "Kick Members"},
	{discordgo.PermissionBanMembers, "Ban Members"},
	{discordgo.PermissionModerateMembers, "Timeout Members"},
}

// Feature repairs the permissions the bot and members need
type Feature struct{}

// New creates a new server setup feature instance
func New() *Feature {
	return &Feature{}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{Name: "fix-bot-permissions", Description: "Check the bot's permissions and open every channel to it", DefaultMemberPermissions: &admin},
		{Name: "assign-members-role", Description: "Give the Members role to all users in the server", DefaultMemberPermissions: &admin},
		{Name: "unlock-voice-channels", Description: "Let members connect and speak in every voice channel", DefaultMemberPermissions: &admin},
	}
}

// HandleCommand routes server setup commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "fix-bot-permissions":
		f.handleFixPermissions(s, i)
	case "assign-members-role":
		f.handleAssignMembers(s, i)
	case "unlock-voice-channels":
		f.handleUnlockVoice(s, i)
	}
}

// GuildPermissions combines @everyone with the permissions of the given roles
func GuildPermissions(guildID string, roles []*discordgo.Role, memberRoleIDs []string) int64 {
	held := make(map[string]bool, len(memberRoleIDs)+1)
	held[guildID] = true // @everyone shares the guild ID
	for _, id := range memberRoleIDs {
		held[id] = true
	}

	var perms int64
	for _, role := range roles {
		if held[role.ID] {
			perms |= role.Permissions
		}
	}
	return perms
}

// MissingPermissions lists the required permissions not covered by perms
func MissingPermissions(perms int64) []string {
	if perms&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	var missing []string
	for _, p := range requiredPermissions {
		if perms&p.bit == 0 {
			missing = append(missing, p.name)
		}
	}
	return missing
}

// setupCounts tallies a bulk channel or member operation
type setupCounts struct {
	success int
	failed  int
	skipped int
}

func (f *Feature) handleFixPermissions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer fix-bot-permissions response: %v", err)
		return
	}

	botMember, err := common.BotMember(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load bot member"), true)
		return
	}
	roles, err := common.GuildRoles(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list roles"), true)
		return
	}
	channels, err := common.GuildChannels(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list channels"), true)
		return
	}

	missing := MissingPermissions(GuildPermissions(i.GuildID, roles, botMember.Roles))

	membersRole, err := common.EnsureRole(s, i.GuildID, membersRoleName, common.ColorInfo)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to ensure Members role"), true)
		return
	}

	var counts setupCounts
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			continue
		}
		botAllow, memberAllow := channelGrants(ch.Type)
		err := s.ChannelPermissionSet(ch.ID, botMember.User.ID, discordgo.PermissionOverwriteTypeMember, botAllow, 0)
		if err == nil {
			err = s.ChannelPermissionSet(ch.ID, membersRole.ID, discordgo.PermissionOverwriteTypeRole, memberAllow, 0)
		}
		if err != nil {
			log.WithError(err).Debugf("Failed to fix permissions of channel %s", ch.ID)
			counts.failed++
			continue
		}
		counts.success++
	}

	embed := &discordgo.MessageEmbed{
		Title: "✅ Bot Permission Fix Complete",
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channels Fixed", Value: fmt.Sprint(counts.success), Inline: true},
			{Name: "Errors", Value: fmt.Sprint(counts.failed), Inline: true},
			{Name: "Members Role", Value: membersRole.Mention(), Inline: true},
			{Name: "Missing Server Permissions", Value: missingSummary(missing)},
		},
	}
	if len(missing) > 0 {
		embed.Color = common.ColorWarning
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending fix-bot-permissions follow-up: %v", err)
	}
}

// channelGrants returns what the bot and the Members role are allowed in a channel
func channelGrants(kind discordgo.ChannelType) (bot, members int64) {
	bot = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages |
		discordgo.PermissionEmbedLinks | discordgo.PermissionReadMessageHistory
	members = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages
	if kind == discordgo.ChannelTypeGuildVoice || kind == discordgo.ChannelTypeGuildStageVoice {
		voice := int64(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
		bot |= voice
		members |= voice
	}
	return bot, members
}

func missingSummary(missing []string) string {
	if len(missing) == 0 {
		return "None 🎉"
	}
	return common.Truncate("⚠️ "+strings.Join(missing, ", ")+"\nGrant these to the bot's role in Server Settings.", common.EmbedFieldLimit)
}

func (f *Feature) handleAssignMembers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer assign-members-role response: %v", err)
		return
	}

	role, err := common.EnsureRole(s, i.GuildID, membersRoleName, common.ColorInfo)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to ensure Members role"), true)
		return
	}
	members, err := common.AllMembers(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list members"), true)
		return
	}

	var counts setupCounts
	for _, member := range members {
		if member.User == nil || member.User.Bot {
			continue
		}
		if hasRole(member, role.ID) {
			counts.skipped++
			continue
		}
		if err := s.GuildMemberRoleAdd(i.GuildID, member.User.ID, role.ID); err != nil {
			counts.failed++
			continue
		}
		counts.success++
	}

	embed := &discordgo.MessageEmbed{
		Title: "✅ Members Role Assignment Complete",
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Assigned", Value: fmt.Sprint(counts.success), Inline: true},
			{Name: "Already Had Role", Value: fmt.Sprint(counts.skipped), Inline: true},
			{Name: "Errors", Value: fmt.Sprint(counts.failed), Inline: true},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending assign-members-role follow-up: %v", err)
	}
}

func hasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// voiceTarget picks the Members role when it exists, else @everyone
func voiceTarget(guildID string, roles []*discordgo.Role) (id, label string) {
	for _, role := range roles {
		if strings.EqualFold(role.Name, membersRoleName) {
			return role.ID, role.Mention()
		}
	}
	return guildID, "@everyone"
}

func (f *Feature) handleUnlockVoice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer unlock-voice-channels response: %v", err)
		return
	}

	roles, err := common.GuildRoles(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list roles"), true)
		return
	}
	channels, err := common.GuildChannels(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list channels"), true)
		return
	}

	targetID, label := voiceTarget(i.GuildID, roles)
	allow := int64(discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect |
		discordgo.PermissionVoiceSpeak | discordgo.PermissionVoiceUseVAD)

	var counts setupCounts
	total := 0
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		total++
		if err := s.ChannelPermissionSet(ch.ID, targetID, discordgo.PermissionOverwriteTypeRole, allow, 0); err != nil {
			counts.failed++
			continue
		}
		counts.success++
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Voice Channels Unlocked",
		Description: "Connect and speak granted to " + label,
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Unlocked", Value: fmt.Sprint(counts.success), Inline: true},
			{Name: "Errors", Value: fmt.Sprint(counts.failed), Inline: true},
			{Name: "Total Voice Channels", Value: fmt.Sprint(total), Inline: true},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending unlock-voice-channels follow-up: %v", err)
	}
}
