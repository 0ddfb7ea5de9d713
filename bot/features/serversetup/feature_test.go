package serversetup

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildPermissions(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "guild", Permissions: discordgo.PermissionViewChannel},
		{ID: "bot-role", Permissions: discordgo.PermissionSendMessages | discordgo.PermissionManageRoles},
		{ID: "other", Permissions: discordgo.PermissionBanMembers},
	}

	perms := GuildPermissions("guild", roles, []string{"bot-role"})
	assert.NotZero(t, perms&discordgo.PermissionViewChannel)
	assert.NotZero(t, perms&discordgo.PermissionManageRoles)
	assert.Zero(t, perms&discordgo.PermissionBanMembers)
}

func TestMissingPermissions(t *testing.T) {
	assert.Nil(t, MissingPermissions(discordgo.PermissionAdministrator))

	all := int64(0)
	for _, p := range requiredPermissions {
		all |= p.bit
	}
	assert.Empty(t, MissingPermissions(all))

	missing := MissingPermissions(all &^ discordgo.PermissionManageRoles &^ discordgo.PermissionEmbedLinks)
	assert.Equal(t, []string{"Embed Links", "Manage Roles"}, missing)

	assert.Len(t, MissingPermissions(0), len(requiredPermissions))
}

func TestChannelGrants(t *testing.T) {
	bot, members := channelGrants(discordgo.ChannelTypeGuildText)
	assert.NotZero(t, bot&discordgo.PermissionEmbedLinks)
	assert.Zero(t, members&discordgo.PermissionVoiceConnect)

	bot, members = channelGrants(discordgo.ChannelTypeGuildVoice)
	assert.NotZero(t, bot&discordgo.PermissionVoiceSpeak)
	assert.NotZero(t, members&discordgo.PermissionVoiceConnect)
}

func TestVoiceTarget(t *testing.T) {
	id, label := voiceTarget("guild", []*discordgo.Role{{ID: "r1", Name: "Moderators"}})
	assert.Equal(t, "guild", id)
	assert.Equal(t, "@everyone", label)

	id, label = voiceTarget("guild", []*discordgo.Role{{ID: "r2", Name: "members"}})
	assert.Equal(t, "r2", id)
	assert.Equal(t, "<@&r2>", label)
}

func TestMissingSummary(t *testing.T) {
	assert.Equal(t, "None 🎉", missingSummary(nil))
	summary := missingSummary([]string{"Manage Roles", "Ban Members"})
	require.Contains(t, summary, "Manage Roles, Ban Members")
}

func TestHasRole(t *testing.T) {
	member := &discordgo.Member{Roles: []string{"a", "b"}}
	assert.True(t, hasRole(member, "b"))
	assert.False(t, hasRole(member, "c"))
}
