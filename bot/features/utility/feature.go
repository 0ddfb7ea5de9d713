package utility

import (
	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves reminders, polls and the small everyday commands
type Feature struct {
	reminderService service.ReminderService
	random          service.Random
}

// New creates a new utility feature instance
func New(reminderService service.ReminderService, random service.Random) *Feature {
	return &Feature{
		reminderService: reminderService,
		random:          random,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	manageMessages := int64(discordgo.PermissionManageMessages)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "remind",
			Description: "Set a reminder",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Time in minutes (max 7 days)",
					Required:    true,
					MinValue:    common.Ptr(float64(service.MinReminderMinutes)),
					MaxValue:    service.MaxReminderMinutes,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "What to remind you about",
					Required:    true,
					MaxLength:   1000,
				},
			},
		},
		{
			Name:        "poll",
			Description: "Create a poll",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "question", Description: "Poll question", Required: true, MaxLength: 256},
				{Type: discordgo.ApplicationCommandOptionString, Name: "options", Description: "Options separated by commas (2-10)", Required: true},
			},
		},
		{
			Name:        "choose",
			Description: "Choose randomly from options",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "options", Description: "Options separated by commas", Required: true},
			},
		},
		{
			Name:        "8ball",
			Description: "Ask the magic 8-ball a question",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "question", Description: "Your question", Required: true, MaxLength: 256},
			},
		},
		{
			Name:        "dice",
			Description: "Roll dice",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "sides", Description: "Number of sides (default 6)", MinValue: common.Ptr(float64(minSides)), MaxValue: maxSides},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "Number of dice (default 1)", MinValue: common.Ptr(1.0), MaxValue: maxDice},
			},
		},
		{Name: "flip", Description: "Flip a coin"},
		{
			Name:                     "say",
			Description:              "Make the bot say something",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Message to say", Required: true},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Channel to send to",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
				},
			},
		},
		{
			Name:                     "embed",
			Description:              "Create an embed message",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Embed title", Required: true, MaxLength: 256},
				{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Embed description", Required: true, MaxLength: 4000},
				{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Hex color code like #FF0000"},
			},
		},
		{Name: "membercount", Description: "Get server member count"},
	}
}

// HandleCommand routes utility commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "remind":
		f.handleRemind(s, i)
	case "poll":
		f.handlePoll(s, i)
	case "choose":
		f.handleChoose(s, i)
	case "8ball":
		f.handleEightBall(s, i)
	case "dice":
		f.handleDice(s, i)
	case "flip":
		f.handleFlip(s, i)
	case "say":
		f.handleSay(s, i)
	case "embed":
		f.handleEmbed(s, i)
	case "membercount":
		f.handleMemberCount(s, i)
	}
}
