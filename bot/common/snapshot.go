package common

import (
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Snapshot gathers the live guild state handed to the AI engines
func Snapshot(s *discordgo.Session, guildID string) (models.GuildSnapshot, error) {
	guild, err := GuildOf(s, guildID)
	if err != nil {
		return models.GuildSnapshot{}, err
	}
	channels, err := GuildChannels(s, guildID)
	if err != nil {
		return models.GuildSnapshot{}, err
	}
	return BuildSnapshot(guild, channels), nil
}

// BuildSnapshot summarizes a guild and its channels
func BuildSnapshot(guild *discordgo.Guild, channels []*discordgo.Channel) models.GuildSnapshot {
	snap := models.GuildSnapshot{
		Name:         guild.Name,
		MemberCount:  guild.MemberCount,
		RoleCount:    len(guild.Roles),
		BoostLevel:   int(guild.PremiumTier),
		BoostCount:   guild.PremiumSubscriptionCount,
		ChannelNames: make(map[int64]string, len(channels)),
	}
	if snap.MemberCount == 0 {
		snap.MemberCount = guild.ApproximateMemberCount
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			continue
		}
		snap.ChannelCount++
		if id, err := ParseID(ch.ID); err == nil {
			snap.ChannelNames[id] = ch.Name
		}
	}

	if snap.MemberCount > 0 {
		snap.OnlineRatio = float64(OnlineCount(guild)) / float64(snap.MemberCount)
	}
	return snap
}

// ChannelNames lists the names of text channels
func ChannelNames(channels []*discordgo.Channel) []string {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			names = append(names, ch.Name)
		}
	}
	return names
}
