package settings

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleView handles the /settings view command
func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	settings, err := f.guildSettingsService.GetOrCreateSettings(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild settings"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildSettingsEmbed(settings), nil, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleChannel handles the /settings channel command
func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	kind := service.ChannelKind(opts.String("kind", ""))
	channel := opts.Channel(s, "channel")
	if channel == nil {
		common.HandleError(s, i, common.NewUserError("Channel not found.", "settings channel missing"), false)
		return
	}
	channelID, err := common.ParseID(channel.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse channel ID"), false)
		return
	}

	if err := f.guildSettingsService.UpdateChannel(context.Background(), guildID, kind, channelID); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to update settings channel"), false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"kind":       kind,
		"channel_id": channelID,
	}).Info("Updated announcement channel")

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("**%s** messages will go to <#%s>", kind, channel.ID), true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleToggle handles the /settings toggle command
func (f *Feature) handleToggle(s *discordgo.Session, i *discordgo.InteractionCreate, opts common.Options) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	toggle := service.SettingToggle(opts.String("feature", ""))
	enabled := opts.Bool("enabled", true)
	if err := f.guildSettingsService.SetToggle(context.Background(), guildID, toggle, enabled); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to update toggle"), false)
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("**%s** is now %s", toggle, state), true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

func buildSettingsEmbed(settings *models.GuildSettings) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚙️ Server Settings",
		Color: common.ColorPrimary,
	}
	for _, kind := range service.ChannelKinds {
		value := "Not set (found by name)"
		if id := service.ChannelID(settings, kind); id != nil {
			value = fmt.Sprintf("<#%d>", *id)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: string(kind), Value: value, Inline: true,
		})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Leveling", Value: onOff(settings.LevelingEnabled), Inline: true},
		&discordgo.MessageEmbedField{Name: "Autonomous Manager", Value: onOff(settings.AutonomousEnabled), Inline: true},
	)
	return embed
}

func onOff(v bool) string {
	if v {
		return "🟢 On"
	}
	return "🔴 Off"
}
