package roles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	actionAdd    = "add"
	actionRemove = "remove"
)

// checkRole verifies both the invoker and the bot sit above role
func checkRole(s *discordgo.Session, i *discordgo.InteractionCreate, role *discordgo.Role) error {
	if role.Managed || role.ID == i.GuildID {
		return common.NewUserError("That role is managed by Discord or an integration and can't be assigned.", "managed role")
	}

	hierarchy, err := common.LoadHierarchy(s, i.GuildID, i.Member)
	if err != nil {
		return common.NewSystemError(err, "failed to load role hierarchy")
	}
	if err := hierarchy.CheckPosition(role.Position); err != nil {
		return common.HierarchyError(err, "role change blocked by hierarchy")
	}
	return nil
}

func (f *Feature) handleRoleChange(s *discordgo.Session, i *discordgo.InteractionCreate, add bool) {
	opts := common.CommandOptions(i)
	user := opts.User(s, "user")
	role := opts.Role(s, i.GuildID, "role")
	if user == nil || role == nil {
		common.HandleError(s, i, common.NewUserError("Member or role not found.", "role change options missing"), false)
		return
	}

	if err := checkRole(s, i, role); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	member, err := s.GuildMember(i.GuildID, user.ID)
	if err != nil {
		common.HandleError(s, i, common.NewUserError("That user is not a member of this server.", "role target not a member"), false)
		return
	}

	has := slices.Contains(member.Roles, role.ID)
	switch {
	case add && has:
		common.HandleError(s, i, common.NewUserError(fmt.Sprintf("<@%s> already has the %s role!", user.ID, role.Mention()), "role already held"), false)
		return
	case !add && !has:
		common.HandleError(s, i, common.NewUserError(fmt.Sprintf("<@%s> doesn't have the %s role!", user.ID, role.Mention()), "role not held"), false)
		return
	}

	title, verb := "✅ Role Added", "Added"
	if add {
		err = s.GuildMemberRoleAdd(i.GuildID, user.ID, role.ID)
	} else {
		title, verb = "✅ Role Removed", "Removed"
		err = s.GuildMemberRoleRemove(i.GuildID, user.ID, role.ID)
	}
	if err != nil {
		common.HandleError(s, i, common.NewUserError("I don't have permission to manage this role!", "role change failed"), false)
		log.WithError(err).Warnf("Failed to change role %s for %s", role.ID, user.ID)
		return
	}

	preposition := "to"
	if !add {
		preposition = "from"
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("%s %s %s <@%s>", verb, role.Mention(), preposition, user.ID),
		Color:       common.ColorSuccess,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to role command: %v", err)
	}
}

func (f *Feature) handleRoleAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	role := opts.Role(s, i.GuildID, "role")
	action := opts.String("action", actionAdd)
	if role == nil {
		common.HandleError(s, i, common.NewUserError("Role not found.", "role-all role missing"), false)
		return
	}
	if err := checkRole(s, i, role); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer role-all response: %v", err)
		return
	}

	members, err := common.AllMembers(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list members"), true)
		return
	}

	result := applyToAll(members, role.ID, action == actionAdd, func(userID string) error {
		if action == actionAdd {
			return s.GuildMemberRoleAdd(i.GuildID, userID, role.ID)
		}
		return s.GuildMemberRoleRemove(i.GuildID, userID, role.ID)
	})

	log.WithFields(log.Fields{
		"guild_id": i.GuildID,
		"role_id":  role.ID,
		"action":   action,
		"success":  result.success,
		"failed":   result.failed,
	}).Info("Bulk role change finished")

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Role Operation Complete",
		Description: fmt.Sprintf("Finished %sing %s", strings.TrimSuffix(action, "e"), role.Mention()),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Successful", Value: fmt.Sprint(result.success), Inline: true},
			{Name: "Errors", Value: fmt.Sprint(result.failed), Inline: true},
			{Name: "Total Members", Value: fmt.Sprint(len(members)), Inline: true},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending role-all follow-up: %v", err)
	}
}

type bulkResult struct {
	success int
	failed  int
}

// applyToAll runs change for every human member that needs it. Members that
// already match the wanted state are left alone.
func applyToAll(members []*discordgo.Member, roleID string, add bool, change func(userID string) error) bulkResult {
	var result bulkResult
	for _, member := range members {
		if member.User == nil || member.User.Bot {
			continue
		}
		if slices.Contains(member.Roles, roleID) == add {
			continue
		}
		if err := change(member.User.ID); err != nil {
			log.WithError(err).Debugf("Failed to change role for %s", member.User.ID)
			result.failed++
			continue
		}
		result.success++
	}
	return result
}

func (f *Feature) handleRoleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	role := common.CommandOptions(i).Role(s, i.GuildID, "role")
	if role == nil {
		common.HandleError(s, i, common.NewUserError("Role not found.", "role-info role missing"), false)
		return
	}

	color := role.Color
	if color == 0 {
		color = common.ColorInfo
	}
	embed := &discordgo.MessageEmbed{
		Title: "📋 Role Information: " + role.Name,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: role.ID, Inline: true},
			{Name: "Color", Value: fmt.Sprintf("#%06X", role.Color), Inline: true},
			{Name: "Mentionable", Value: yesNo(role.Mentionable), Inline: true},
			{Name: "Hoisted", Value: yesNo(role.Hoist), Inline: true},
			{Name: "Position", Value: fmt.Sprint(role.Position), Inline: true},
		},
	}
	if created, err := discordgo.SnowflakeTimestamp(role.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Created", Value: common.FormatDiscordTimestamp(created, "R"), Inline: true,
		})
	}
	if role.Permissions&discordgo.PermissionAdministrator != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "⚠️ Administrator", Value: "This role has administrator permissions",
		})
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to role-info command: %v", err)
	}
}

func (f *Feature) handleRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	roles, err := common.GuildRoles(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list roles"), false)
		return
	}

	listed := listableRoles(roles, i.GuildID)
	embed := &discordgo.MessageEmbed{
		Title:       "📋 Server Roles",
		Description: common.Truncate(roleList(listed), common.EmbedFieldLimit),
		Color:       common.ColorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d roles", len(listed))},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to role-list command: %v", err)
	}
}

// listableRoles drops @everyone and orders roles from highest to lowest
func listableRoles(roles []*discordgo.Role, guildID string) []*discordgo.Role {
	var out []*discordgo.Role
	for _, role := range roles {
		if role.ID != guildID {
			out = append(out, role)
		}
	}
	slices.SortFunc(out, func(a, b *discordgo.Role) int {
		return b.Position - a.Position
	})
	return out
}

func roleList(roles []*discordgo.Role) string {
	if len(roles) == 0 {
		return "No roles yet."
	}
	mentions := make([]string, len(roles))
	for n, role := range roles {
		mentions[n] = role.Mention()
	}
	return strings.Join(mentions, " ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
