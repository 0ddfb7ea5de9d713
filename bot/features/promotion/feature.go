package promotion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorPromotion = 0x00FF99
	colorImage     = 0xFF6B6B

	promotionTimeout = 2 * time.Minute
)

// promoChannel is a channel created by /setup-promotion
type promoChannel struct {
	name  string
	topic string
}

var promoChannels = []promoChannel{
	{"invite-friends", "🤝 Invite your friends and get rewarded!"},
	{"share-this-server", "📢 Share our awesome server on social media"},
	{"growth-announcements", "🚀 Server growth milestones and celebrations"},
}

// Feature generates promotional posts for social platforms
type Feature struct {
	promotionService service.PromotionService
}

// New creates a new promotion feature instance
func New(promotionService service.PromotionService) *Feature {
	return &Feature{promotionService: promotionService}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	admin := int64(discordgo.PermissionAdministrator)
	manageGuild := int64(discordgo.PermissionManageGuild)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "promote",
			Description:              "Generate AI-powered promotional content for social media",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "platform",
					Description: "Target platform",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Reddit", Value: "reddit"},
						{Name: "TikTok", Value: "tiktok"},
						{Name: "Twitter/X", Value: "twitter"},
						{Name: "Instagram", Value: "instagram"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "content_type",
					Description: "Type of content",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "General Promotion", Value: "general"},
						{Name: "Event Promotion", Value: "event"},
						{Name: "Milestone Celebration", Value: "milestone"},
						{Name: "Feature Highlight", Value: "feature"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "with_image", Description: "Also generate an image"},
			},
		},
		{Name: "setup-promotion", Description: "Setup promotional channels and features", DefaultMemberPermissions: &admin},
	}
}

// HandleCommand routes promotion commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "promote":
		f.handlePromote(s, i)
	case "setup-promotion":
		f.handleSetup(s, i)
	}
}

func (f *Feature) handlePromote(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer promote response: %v", err)
		return
	}

	server, err := describeServer(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to describe guild"), true)
		return
	}

	opts := common.CommandOptions(i)
	ctx, cancel := context.WithTimeout(context.Background(), promotionTimeout)
	defer cancel()

	content, err := f.promotionService.Generate(ctx, models.PromotionRequest{
		GuildID:     guildID,
		RequestedBy: userID,
		Platform:    opts.String("platform", ""),
		ContentType: opts.String("content_type", "general"),
		WithImage:   opts.Bool("with_image", false),
		Server:      server,
	})
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "failed to generate promotion"), true)
		return
	}

	embeds := []*discordgo.MessageEmbed{buildContentEmbed(content)}
	if content.ImageURL != nil {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title: "🎨 Generated Promotional Image",
			Color: colorImage,
			Image: &discordgo.MessageEmbedImage{URL: *content.ImageURL},
		})
	}
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{Embeds: embeds}); err != nil {
		log.Errorf("Error sending promote follow-up: %v", err)
	}
}

func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer setup-promotion response: %v", err)
		return
	}

	channels, err := common.GuildChannels(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list channels"), true)
		return
	}

	var created []string
	for _, promo := range promoChannels {
		if common.FindChannelByName(channels, promo.name, discordgo.ChannelTypeGuildText) != nil {
			continue
		}
		ch, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
			Name:  promo.name,
			Type:  discordgo.ChannelTypeGuildText,
			Topic: promo.topic,
		})
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to create promotion channel "+promo.name), true)
			return
		}
		created = append(created, ch.Mention())
	}

	if _, err := common.FollowUpWithEmbed(s, i, buildSetupEmbed(created), nil, false); err != nil {
		log.Errorf("Error sending setup-promotion follow-up: %v", err)
	}
}

// describeServer gathers what the copywriter needs to know about a guild
func describeServer(s *discordgo.Session, guildID string) (models.PromotionServer, error) {
	guild, err := common.GuildOf(s, guildID)
	if err != nil {
		return models.PromotionServer{}, err
	}
	channels, err := common.GuildChannels(s, guildID)
	if err != nil {
		return models.PromotionServer{}, err
	}

	memberCount := guild.MemberCount
	if memberCount == 0 {
		memberCount = guild.ApproximateMemberCount
	}
	return models.PromotionServer{
		Name:        guild.Name,
		MemberCount: memberCount,
		Channels:    common.ChannelNames(channels),
		Description: guild.Description,
	}, nil
}

func buildContentEmbed(content *models.GeneratedContent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🚀 %s Promotional Content", platformLabel(content.Platform)),
		Color:     colorPromotion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📝 Caption", Value: common.Truncate(service.FilterOutgoing(content.Caption), 1000)},
		},
	}

	if len(content.Hashtags) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🏷️ Hashtags", Value: common.Truncate(strings.Join(content.Hashtags, " "), 1000)})
	}
	if content.CallToAction != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📢 Call to Action", Value: common.Truncate(service.FilterOutgoing(content.CallToAction), 1000)})
	}
	if content.PlatformNotes != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "💡 Platform Tips", Value: common.Truncate(content.PlatformNotes, 1000)})
	}
	if content.ImagePrompt != "" && content.ImageURL == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🎨 Image Prompt (for DALL-E)", Value: common.Truncate(content.ImagePrompt, 1000)})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Saved as draft #%d", content.ID)}
	return embed
}

func platformLabel(platform string) string {
	switch platform {
	case "tiktok":
		return "TikTok"
	case "twitter":
		return "Twitter/X"
	case "":
		return "Social"
	}
	return strings.ToUpper(platform[:1]) + platform[1:]
}

func buildSetupEmbed(created []string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "✅ Promotional System Setup Complete",
		Color:     colorPromotion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(created) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📺 Channels Created", Value: strings.Join(created, "\n")})
	} else {
		embed.Description = "All promotional channels already exist."
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:  "🎯 Features Enabled",
			Value: "• Invite tracking and rewards\n• Promotional content generation\n• Growth gamification\n• Leaderboards",
		},
		&discordgo.MessageEmbedField{
			Name:  "🚀 Commands Available",
			Value: "`/promote` - Generate social media content\n`/invites-leaderboard` - View top inviters\n`/my-invites` - Check personal stats",
		},
	)
	return embed
}
