package common

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestBuildSnapshot(t *testing.T) {
	guild := &discordgo.Guild{
		Name:                     "Test Guild",
		MemberCount:              4,
		Roles:                    []*discordgo.Role{{ID: "1"}, {ID: "2"}},
		PremiumTier:              discordgo.PremiumTier2,
		PremiumSubscriptionCount: 7,
		Presences: []*discordgo.Presence{
			{Status: discordgo.StatusOnline},
			{Status: discordgo.StatusIdle},
			{Status: discordgo.StatusOffline},
		},
	}
	channels := []*discordgo.Channel{
		{ID: "10", Name: "general", Type: discordgo.ChannelTypeGuildText},
		{ID: "11", Name: "Voice", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "12", Name: "Text Channels", Type: discordgo.ChannelTypeGuildCategory},
	}

	snap := BuildSnapshot(guild, channels)
	assert.Equal(t, "Test Guild", snap.Name)
	assert.Equal(t, 2, snap.ChannelCount)
	assert.Equal(t, 2, snap.RoleCount)
	assert.Equal(t, 2, snap.BoostLevel)
	assert.Equal(t, 7, snap.BoostCount)
	assert.InDelta(t, 0.5, snap.OnlineRatio, 1e-9)
	assert.Equal(t, "general", snap.ChannelName(10))
	assert.Equal(t, "unknown-channel", snap.ChannelName(12))

	assert.Equal(t, []string{"general"}, ChannelNames(channels))
}
