package common

import (
	"github.com/bwmarrin/discordgo"
)

// memberPageSize is the largest page the members endpoint returns
const memberPageSize = 1000

// AllMembers pages through every member of a guild
func AllMembers(s *discordgo.Session, guildID string) ([]*discordgo.Member, error) {
	var (
		members []*discordgo.Member
		after   string
	)
	for {
		page, err := s.GuildMembers(guildID, after, memberPageSize)
		if err != nil {
			return nil, err
		}
		members = append(members, page...)
		if len(page) < memberPageSize {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// MemberCounts splits members into humans and bots
func MemberCounts(members []*discordgo.Member) (humans, bots int) {
	for _, member := range members {
		if member.User != nil && member.User.Bot {
			bots++
		} else {
			humans++
		}
	}
	return humans, bots
}

// OnlineCount counts presences that are not offline
func OnlineCount(guild *discordgo.Guild) int {
	online := 0
	for _, presence := range guild.Presences {
		if presence.Status != discordgo.StatusOffline && presence.Status != "" {
			online++
		}
	}
	return online
}
