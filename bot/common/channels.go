package common

import (
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GuildChannels reads channels from the state cache, falling back to the API
func GuildChannels(s *discordgo.Session, guildID string) ([]*discordgo.Channel, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Channels) > 0 {
		return guild.Channels, nil
	}
	return s.GuildChannels(guildID)
}

// FindChannelByName returns the first channel of type kind named name
func FindChannelByName(channels []*discordgo.Channel, name string, kind discordgo.ChannelType) *discordgo.Channel {
	for _, ch := range channels {
		if ch.Type == kind && strings.EqualFold(ch.Name, name) {
			return ch
		}
	}
	return nil
}

// EnsureTextChannel finds a text channel by name or creates it under
// category. Private channels are hidden from @everyone.
func EnsureTextChannel(s *discordgo.Session, guildID, name, category string, private bool) (*discordgo.Channel, bool, error) {
	channels, err := GuildChannels(s, guildID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list channels: %w", err)
	}
	if ch := FindChannelByName(channels, name, discordgo.ChannelTypeGuildText); ch != nil {
		return ch, false, nil
	}

	data := discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildText,
	}
	if category != "" {
		parent, err := ensureCategory(s, guildID, channels, category)
		if err != nil {
			return nil, false, err
		}
		data.ParentID = parent.ID
	}
	if private {
		data.PermissionOverwrites = []*discordgo.PermissionOverwrite{{
			ID:   guildID, // @everyone shares the guild ID
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		}}
		if s.State.User != nil {
			data.PermissionOverwrites = append(data.PermissionOverwrites, &discordgo.PermissionOverwrite{
				ID:    s.State.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks,
			})
		}
	}

	ch, err := s.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create channel %s: %w", name, err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"channel": name,
		"private": private,
	}).Info("Created channel")
	return ch, true, nil
}

func ensureCategory(s *discordgo.Session, guildID string, channels []*discordgo.Channel, name string) (*discordgo.Channel, error) {
	if ch := FindChannelByName(channels, name, discordgo.ChannelTypeGuildCategory); ch != nil {
		return ch, nil
	}
	ch, err := s.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", name, err)
	}
	return ch, nil
}

// SettingsChannel returns the configured channel of a kind, falling back to
// a text channel named after the kind. It returns "" when neither exists.
func SettingsChannel(s *discordgo.Session, guildID string, settings *models.GuildSettings, kind service.ChannelKind) string {
	if settings != nil {
		if id := service.ChannelID(settings, kind); id != nil {
			return FormatID(*id)
		}
	}
	channels, err := GuildChannels(s, guildID)
	if err != nil {
		log.WithError(err).Warnf("Failed to list channels of guild %s", guildID)
		return ""
	}
	if ch := FindChannelByName(channels, string(kind), discordgo.ChannelTypeGuildText); ch != nil {
		return ch.ID
	}
	return ""
}

// LogChannel returns the configured channel of a kind, creating a private
// channel named after the kind when none exists
func LogChannel(s *discordgo.Session, guildID string, settings *models.GuildSettings, kind service.ChannelKind) (string, error) {
	if id := SettingsChannel(s, guildID, settings, kind); id != "" {
		return id, nil
	}
	ch, _, err := EnsureTextChannel(s, guildID, string(kind), "", true)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

// AnnouncementChannel returns the "general" text channel, else the system channel, else ""
func AnnouncementChannel(s *discordgo.Session, guildID string) string {
	channels, err := GuildChannels(s, guildID)
	if err == nil {
		if ch := FindChannelByName(channels, "general", discordgo.ChannelTypeGuildText); ch != nil {
			return ch.ID
		}
	}
	if guild, err := GuildOf(s, guildID); err == nil {
		return guild.SystemChannelID
	}
	return ""
}

// EnsureRole finds a role by name or creates it
func EnsureRole(s *discordgo.Session, guildID, name string, color int) (*discordgo.Role, error) {
	roles, err := GuildRoles(s, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}

	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	return role, nil
}
