package common

import (
	"errors"

	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// ErrBotHierarchy is returned when the bot's own role is too low for an action
var ErrBotHierarchy = errors.New("bot role is not above the target")

// GuildRoles reads roles from the state cache, falling back to the API
func GuildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return s.GuildRoles(guildID)
}

// GuildOf reads a guild from the state cache, falling back to the API
func GuildOf(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild, nil
	}
	return s.Guild(guildID)
}

// HighestRolePosition returns the highest position among roleIDs, 0 for none
func HighestRolePosition(roles []*discordgo.Role, roleIDs []string) int {
	highest := 0
	for _, role := range roles {
		for _, id := range roleIDs {
			if role.ID == id && role.Position > highest {
				highest = role.Position
			}
		}
	}
	return highest
}

// BotMember returns the bot's own guild member
func BotMember(s *discordgo.Session, guildID string) (*discordgo.Member, error) {
	return s.GuildMember(guildID, s.State.User.ID)
}

// Hierarchy holds the highest role positions relevant to a moderation action
type Hierarchy struct {
	Roles        []*discordgo.Role
	ActorPos     int
	BotPos       int
	ActorIsOwner bool
}

// LoadHierarchy resolves the invoker and bot positions in a guild
func LoadHierarchy(s *discordgo.Session, guildID string, actor *discordgo.Member) (*Hierarchy, error) {
	guild, err := GuildOf(s, guildID)
	if err != nil {
		return nil, err
	}
	roles, err := GuildRoles(s, guildID)
	if err != nil {
		return nil, err
	}
	bot, err := BotMember(s, guildID)
	if err != nil {
		return nil, err
	}

	return &Hierarchy{
		Roles:        roles,
		ActorPos:     HighestRolePosition(roles, actor.Roles),
		BotPos:       HighestRolePosition(roles, bot.Roles),
		ActorIsOwner: actor.User != nil && actor.User.ID == guild.OwnerID,
	}, nil
}

// CheckPosition validates an action on something at position targetPos,
// a member's highest role or a role itself
func (h *Hierarchy) CheckPosition(targetPos int) error {
	if !service.CanModerate(targetPos, h.ActorPos, h.ActorIsOwner) {
		return service.ErrHierarchy
	}
	if targetPos >= h.BotPos {
		return ErrBotHierarchy
	}
	return nil
}

// CheckMember validates an action on a guild member
func (h *Hierarchy) CheckMember(target *discordgo.Member) error {
	return h.CheckPosition(HighestRolePosition(h.Roles, target.Roles))
}

// HierarchyError converts a hierarchy failure into a user error
func HierarchyError(err error, logMessage string) *BotError {
	if errors.Is(err, ErrBotHierarchy) {
		return NewUserError("My highest role must be above the target for me to do that.", logMessage)
	}
	return FromServiceError(err, logMessage)
}
