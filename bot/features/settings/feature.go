package settings

import (
	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild settings management
type Feature struct {
	guildSettingsService service.GuildSettingsService
}

// New creates a new settings feature instance
func New(guildSettingsService service.GuildSettingsService) *Feature {
	return &Feature{
		guildSettingsService: guildSettingsService,
	}
}

// Commands returns the /settings command with its subcommands
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)

	kinds := make([]*discordgo.ApplicationCommandOptionChoice, len(service.ChannelKinds))
	for n, kind := range service.ChannelKinds {
		kinds[n] = &discordgo.ApplicationCommandOptionChoice{Name: string(kind), Value: string(kind)}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "settings",
			Description:              "Configure the bot for this server",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show the current settings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Choose the channel used for an announcement kind",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "kind", Description: "Announcement kind", Required: true, Choices: kinds},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Target channel",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "toggle",
					Description: "Turn leveling or the autonomous manager on or off",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "feature",
							Description: "Feature to switch",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "leveling", Value: string(service.ToggleLeveling)},
								{Name: "autonomous", Value: string(service.ToggleAutonomous)},
							},
						},
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "On or off", Required: true},
					},
				},
			},
		},
	}
}

// HandleCommand routes settings subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)
	switch sub {
	case "view":
		f.handleView(s, i)
	case "channel":
		f.handleChannel(s, i, opts)
	case "toggle":
		f.handleToggle(s, i, opts)
	}
}
