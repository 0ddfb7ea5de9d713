package moderation

import (
	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles member moderation and the warning ledger
type Feature struct {
	moderationService service.ModerationService
}

// New creates a new moderation feature instance
func New(moderationService service.ModerationService) *Feature {
	return &Feature{
		moderationService: moderationService,
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for the action",
		MaxLength:   500,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	kick := int64(discordgo.PermissionKickMembers)
	ban := int64(discordgo.PermissionBanMembers)
	moderate := int64(discordgo.PermissionModerateMembers)
	manageMessages := int64(discordgo.PermissionManageMessages)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "kick",
			Description:              "Kick a member from the server",
			DefaultMemberPermissions: &kick,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to kick", true), reasonOption()},
		},
		{
			Name:                     "ban",
			Description:              "Ban a member from the server",
			DefaultMemberPermissions: &ban,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to ban", true),
				reasonOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "delete_days",
					Description: "Days of messages to delete (0-7)",
					MinValue:    common.Ptr(0.0),
					MaxValue:    service.MaxBanDeleteDays,
				},
			},
		},
		{
			Name:                     "unban",
			Description:              "Lift a ban",
			DefaultMemberPermissions: &ban,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "user_id", Description: "ID of the banned user", Required: true},
				reasonOption(),
			},
		},
		{
			Name:                     "timeout",
			Description:              "Time out a member",
			DefaultMemberPermissions: &moderate,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to time out", true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Duration in minutes (max 28 days)",
					Required:    true,
					MinValue:    common.Ptr(float64(service.MinTimeoutMinutes)),
					MaxValue:    service.MaxTimeoutMinutes,
				},
				reasonOption(),
			},
		},
		{
			Name:                     "untimeout",
			Description:              "Remove a member's timeout",
			DefaultMemberPermissions: &moderate,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to release", true), reasonOption()},
		},
		{
			Name:                     "clear",
			Description:              "Delete recent messages in this channel",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Number of messages to delete (1-100)",
					Required:    true,
					MinValue:    common.Ptr(float64(service.MinClearAmount)),
					MaxValue:    service.MaxClearAmount,
				},
				userOption("Only delete messages from this member", false),
			},
		},
		{
			Name:                     "warn",
			Description:              "Warn a member",
			DefaultMemberPermissions: &moderate,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to warn", true), reasonOption()},
		},
		{
			Name:                     "warnings",
			Description:              "List a member's warnings",
			DefaultMemberPermissions: &moderate,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to inspect", true)},
		},
		{
			Name:                     "clearwarnings",
			Description:              "Clear all of a member's warnings",
			DefaultMemberPermissions: &moderate,
			Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to clear", true)},
		},
	}
}

// HandleCommand routes moderation commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "kick":
		f.handleKick(s, i)
	case "ban":
		f.handleBan(s, i)
	case "unban":
		f.handleUnban(s, i)
	case "timeout":
		f.handleTimeout(s, i)
	case "untimeout":
		f.handleUntimeout(s, i)
	case "clear":
		f.handleClear(s, i)
	case "warn":
		f.handleWarn(s, i)
	case "warnings":
		f.handleWarnings(s, i)
	case "clearwarnings":
		f.handleClearWarnings(s, i)
	}
}
