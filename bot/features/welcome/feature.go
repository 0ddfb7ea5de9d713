package welcome

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// eventChannels are created by /setup-welcome under the server events category
var eventChannels = []service.ChannelKind{service.ChannelWelcome, service.ChannelLeaves, service.ChannelBoosts}

// Feature announces joins, departures and boosts
type Feature struct {
	guildSettingsService service.GuildSettingsService
}

// New creates a new welcome feature instance
func New(guildSettingsService service.GuildSettingsService) *Feature {
	return &Feature{
		guildSettingsService: guildSettingsService,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{Name: "boosts", Description: "Check total server boosts"},
		{
			Name:                     "setup-welcome",
			Description:              "Create the welcome, leaves and boosts channels",
			DefaultMemberPermissions: &admin,
		},
	}
}

// HandleCommand routes welcome commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "boosts":
		f.handleBoosts(s, i)
	case "setup-welcome":
		f.handleSetup(s, i)
	}
}

// OnGuildCreate makes sure the guild has a settings row
func (f *Feature) OnGuildCreate(ctx context.Context, guildID string) {
	id, err := common.ParseID(guildID)
	if err != nil {
		return
	}
	if _, err := f.guildSettingsService.GetOrCreateSettings(ctx, id); err != nil {
		log.WithError(err).Errorf("Failed to create settings for guild %s", guildID)
	}
}

// OnMemberJoin posts the arrival embed
func (f *Feature) OnMemberJoin(ctx context.Context, s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	f.announce(ctx, s, m.GuildID, service.ChannelWelcome, buildArrivalEmbed(m.User, time.Now().UTC()))
}

// OnMemberLeave posts the departure embed
func (f *Feature) OnMemberLeave(ctx context.Context, s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	f.announce(ctx, s, m.GuildID, service.ChannelLeaves, buildDepartureEmbed(m.User, time.Now().UTC()))
}

// OnMemberUpdate celebrates a member who just started boosting
func (f *Feature) OnMemberUpdate(ctx context.Context, s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.Member == nil || m.User == nil || !startedBoosting(m.BeforeUpdate, m.Member) {
		return
	}

	boosts := 0
	if guild, err := common.GuildOf(s, m.GuildID); err == nil {
		boosts = guild.PremiumSubscriptionCount
	}
	f.announce(ctx, s, m.GuildID, service.ChannelBoosts, buildBoostEmbed(m.User, boosts))
}

// startedBoosting reports a premium_since transition from unset to set.
// Without a cached previous state nothing is announced.
func startedBoosting(before, after *discordgo.Member) bool {
	if before == nil || after == nil {
		return false
	}
	return before.PremiumSince == nil && after.PremiumSince != nil
}

func (f *Feature) announce(ctx context.Context, s *discordgo.Session, guildID string, kind service.ChannelKind, embed *discordgo.MessageEmbed) {
	id, err := common.ParseID(guildID)
	if err != nil {
		return
	}
	settings, err := f.guildSettingsService.GetOrCreateSettings(ctx, id)
	if err != nil {
		log.WithError(err).Warnf("Failed to load settings for guild %s", guildID)
	}

	channelID := common.SettingsChannel(s, guildID, settings, kind)
	if channelID == "" {
		log.Debugf("No %s channel in guild %s", kind, guildID)
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithError(err).Warnf("Failed to send %s message in guild %s", kind, guildID)
	}
}

func (f *Feature) handleBoosts(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guild, err := common.GuildOf(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewUserError("Error getting boost information.", "failed to load guild"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "💎 Server Boost Status",
		Color: common.ColorBoost,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current Boosts", Value: fmt.Sprint(guild.PremiumSubscriptionCount), Inline: true},
			{Name: "Boost Tier", Value: fmt.Sprintf("Level %d", guild.PremiumTier), Inline: true},
		},
	}
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to boosts command: %v", err)
	}
}

func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer setup-welcome response: %v", err)
		return
	}

	mentions := make([]string, 0, len(eventChannels))
	for _, kind := range eventChannels {
		ch, _, err := common.EnsureTextChannel(s, i.GuildID, string(kind), common.ServerEventsCategory, false)
		if err != nil {
			common.HandleError(s, i, common.NewUserError("I couldn't create the channels. Check that I can manage channels.", "setup-welcome failed"), true)
			log.WithError(err).Warnf("Failed to set up %s channel", kind)
			return
		}
		channelID, err := common.ParseID(ch.ID)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to parse channel ID"), true)
			return
		}
		if err := f.guildSettingsService.UpdateChannel(context.Background(), guildID, kind, channelID); err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to store event channel"), true)
			return
		}
		mentions = append(mentions, ch.Mention())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Welcome System Setup Complete",
		Description: fmt.Sprintf("Created or found in the **%s** category:", common.ServerEventsCategory),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channels", Value: fmt.Sprintf("👋 %s\n🚪 %s\n💎 %s", mentions[0], mentions[1], mentions[2])},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending setup-welcome follow-up: %v", err)
	}
}
