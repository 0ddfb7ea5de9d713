package leveling

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves XP ranks and announces level-ups
type Feature struct {
	session         *discordgo.Session
	levelingService service.LevelingService
}

// New creates a new leveling feature instance
func New(session *discordgo.Session, levelingService service.LevelingService) *Feature {
	return &Feature{
		session:         session,
		levelingService: levelingService,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "rank",
			Description: "Show a member's level card",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to show"},
			},
		},
		{Name: "levels", Description: "Show the most active members by XP"},
	}
}

// HandleCommand routes leveling commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "rank":
		f.handleRank(s, i)
	case "levels":
		f.handleLevels(s, i)
	}
}

func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}
	target := common.CommandOptions(i).UserOrSelf(s, i, "user")
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer rank response: %v", err)
		return
	}

	ranked, err := f.levelingService.GetRank(context.Background(), guildID, targetID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get rank"), true)
		return
	}
	name := common.GetDisplayName(s, i.GuildID, target.ID)
	if ranked == nil {
		common.FollowUpWithError(s, i, fmt.Sprintf("%s hasn't earned any XP yet. Start chatting!", name))
		return
	}

	card := RankCard{
		DisplayName:  name,
		Rank:         ranked.Rank,
		Level:        ranked.Level,
		XP:           ranked.XP,
		LevelStartXP: service.XPForLevel(ranked.Level),
		NextLevelXP:  service.XPForLevel(ranked.Level + 1),
		Messages:     ranked.Messages,
	}

	png, err := RenderRankCard(card)
	if err != nil {
		// The text embed still carries everything the card shows
		log.WithError(err).Warn("Failed to render rank card")
		if _, err := common.FollowUpWithEmbed(s, i, buildRankEmbed(card), nil, false); err != nil {
			log.Errorf("Failed to send rank embed: %v", err)
		}
		return
	}

	if err := common.FollowUpWithFile(s, i, "rank.png", bytes.NewReader(png), nil); err != nil {
		log.Errorf("Failed to send rank card: %v", err)
	}
}

func (f *Feature) handleLevels(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	top, err := f.levelingService.GetTop(context.Background(), guildID, common.LeaderboardSize)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to get level leaderboard"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📈 Level Leaderboard",
		Color: common.ColorPrimary,
	}
	if len(top) == 0 {
		embed.Description = "Nobody has earned XP yet."
	} else {
		var b strings.Builder
		for _, entry := range top {
			fmt.Fprintf(&b, "%s %s: Level **%d** (%s XP)\n", common.RankLabel(entry.Rank),
				common.GetDisplayNameInt64(s, i.GuildID, entry.DiscordID), entry.Level, common.FormatBalance(entry.XP))
		}
		embed.Description = b.String()
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to levels command: %v", err)
	}
}

// AnnounceLevelUp congratulates a member in the channel that triggered the level-up
func (f *Feature) AnnounceLevelUp(ctx context.Context, event events.LevelUpEvent) error {
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Level Up!",
		Description: fmt.Sprintf("%s reached **level %d**!", common.UserMention(event.UserID), event.NewLevel),
		Color:       common.ColorGold,
	}
	if event.Reward > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("+%s level reward", common.FormatCoins(event.Reward))}
	}

	_, err := f.session.ChannelMessageSendEmbed(common.FormatID(event.ChannelID), embed)
	return err
}

func buildRankEmbed(card RankCard) *discordgo.MessageEmbed {
	earned, span := card.Progress()
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s", card.DisplayName),
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rank", Value: fmt.Sprintf("#%d", card.Rank), Inline: true},
			{Name: "Level", Value: fmt.Sprint(card.Level), Inline: true},
			{Name: "Messages", Value: common.FormatBalance(card.Messages), Inline: true},
			{Name: "Progress", Value: fmt.Sprintf("%s %s/%s XP", common.ProgressBar(earned, span, 10),
				common.FormatBalance(earned), common.FormatBalance(span))},
		},
	}
}
