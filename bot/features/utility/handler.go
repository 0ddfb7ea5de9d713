package utility

import (
	"context"
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

func (f *Feature) handleRemind(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse channel ID"), false)
		return
	}

	opts := common.CommandOptions(i)
	minutes := int(opts.Int("minutes", 0))
	text := strings.TrimSpace(opts.String("message", ""))
	if minutes < service.MinReminderMinutes || minutes > service.MaxReminderMinutes {
		common.HandleError(s, i, common.NewUserError("Time must be between 1 minute and 7 days (10080 minutes)!", "invalid reminder time"), false)
		return
	}
	if text == "" {
		common.HandleError(s, i, common.NewUserError("Tell me what to remind you about.", "empty reminder"), false)
		return
	}

	reminder, err := f.reminderService.Schedule(context.Background(), guildID, userID, channelID, minutes, text)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to schedule reminder"), false)
		return
	}

	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       "⏰ Reminder Set",
		Description: fmt.Sprintf("I'll remind you %s: %s", common.FormatDiscordTimestamp(reminder.RemindAt, "R"), text),
		Color:       common.ColorInfo,
	})
}

// ReminderDeliverer posts due reminders in the channel they were set in
func ReminderDeliverer(s *discordgo.Session) service.ReminderDeliverer {
	return func(ctx context.Context, reminder *models.Reminder) error {
		embed := &discordgo.MessageEmbed{
			Title:       "⏰ Reminder",
			Description: common.Truncate(service.FilterOutgoing(reminder.Text), 4000),
			Color:       common.ColorInfo,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Set " + reminder.CreatedAt.UTC().Format("Jan 2 15:04 MST"),
			},
		}
		_, err := s.ChannelMessageSendComplex(common.FormatID(reminder.ChannelID), &discordgo.MessageSend{
			Content: common.UserMention(reminder.DiscordID),
			Embeds:  []*discordgo.MessageEmbed{embed},
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Users: []string{common.FormatID(reminder.DiscordID)},
			},
		})
		return err
	}
}

func (f *Feature) handlePoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	options := common.SplitOptions(opts.String("options", ""))
	if len(options) < 2 {
		common.HandleError(s, i, common.NewUserError("You need at least 2 options!", "poll with too few options"), false)
		return
	}
	if len(options) > len(pollEmojis) {
		common.HandleError(s, i, common.NewUserError("Maximum 10 options allowed!", "poll with too many options"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Poll",
		Description: opts.String("question", ""),
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Options", Value: common.Truncate(pollLines(options), common.EmbedFieldLimit)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Poll by " + common.DisplayNameOf(common.InteractionUser(i)),
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to poll command: %v", err)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch poll message")
		return
	}
	for n := range options {
		if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, pollEmojis[n]); err != nil {
			log.WithError(err).Warnf("Failed to add poll reaction %d", n+1)
			return
		}
	}
}

func (f *Feature) handleChoose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := common.SplitOptions(common.CommandOptions(i).String("options", ""))
	if len(options) < 2 {
		common.HandleError(s, i, common.NewUserError("You need at least 2 options!", "choose with too few options"), false)
		return
	}

	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       "🎲 Random Choice",
		Description: fmt.Sprintf("I choose: **%s**", options[f.random.IntN(len(options))]),
		Color:       common.ColorBoost,
	})
}

func (f *Feature) handleEightBall(s *discordgo.Session, i *discordgo.InteractionCreate) {
	question := common.CommandOptions(i).String("question", "")

	f.respond(s, i, &discordgo.MessageEmbed{
		Title: "🎱 Magic 8-Ball",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Question", Value: question},
			{Name: "Answer", Value: eightBallAnswers[f.random.IntN(len(eightBallAnswers))]},
		},
	})
}

func (f *Feature) handleDice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	sides := int(opts.Int("sides", defaultSides))
	count := int(opts.Int("count", 1))
	if sides < minSides || sides > maxSides {
		common.HandleError(s, i, common.NewUserError("Sides must be between 2 and 100!", "invalid dice sides"), false)
		return
	}
	if count < 1 || count > maxDice {
		common.HandleError(s, i, common.NewUserError("Count must be between 1 and 20!", "invalid dice count"), false)
		return
	}

	f.respond(s, i, buildDiceEmbed(rollDice(f.random, sides, count)))
}

func (f *Feature) handleFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	result, emoji := "Heads", "🪙"
	if f.random.IntN(2) == 1 {
		result, emoji = "Tails", "🔄"
	}

	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       emoji + " Coin Flip",
		Description: fmt.Sprintf("Result: **%s**", result),
		Color:       common.ColorGold,
	})
}

func (f *Feature) handleSay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	message := opts.String("message", "")
	if err := service.CheckOutgoing(message); err != nil {
		common.HandleError(s, i, common.NewUserError("I can't send that message.", "say blocked by outgoing filter"), false)
		return
	}

	channelID := i.ChannelID
	if channel := opts.Channel(s, "channel"); channel != nil {
		channelID = channel.ID
	}

	if _, err := common.SendChannelText(s, channelID, message); err != nil {
		common.HandleError(s, i, common.NewUserError("I don't have permission to send messages in that channel!", "say failed"), false)
		log.WithError(err).Debugf("Failed to send to %s", channelID)
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Message sent to <#%s>!", channelID), true); err != nil {
		log.Errorf("Error responding to say command: %v", err)
	}
}

func (f *Feature) handleEmbed(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	color := common.ColorInfo
	if raw := opts.String("color", ""); raw != "" {
		parsed, err := common.ParseHexColor(raw)
		if err != nil {
			common.HandleError(s, i, common.NewUserError("Invalid color code! Use hex format like #FF0000", "invalid embed color"), false)
			return
		}
		color = parsed
	}

	title := opts.String("title", "")
	description := opts.String("description", "")
	if service.CheckOutgoing(title) != nil || service.CheckOutgoing(description) != nil {
		common.HandleError(s, i, common.NewUserError("I can't send that message.", "embed blocked by outgoing filter"), false)
		return
	}

	f.respond(s, i, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Created by " + common.DisplayNameOf(common.InteractionUser(i)),
		},
	})
}

func (f *Feature) handleMemberCount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer membercount response: %v", err)
		return
	}

	members, err := common.AllMembers(s, i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to list members"), true)
		return
	}
	humans, bots := common.MemberCounts(members)

	embed := &discordgo.MessageEmbed{
		Title: "👥 Member Count",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Members", Value: common.FormatBalance(int64(len(members))), Inline: true},
			{Name: "Humans", Value: common.FormatBalance(int64(humans)), Inline: true},
			{Name: "Bots", Value: common.FormatBalance(int64(bots)), Inline: true},
		},
	}
	if guild, err := s.State.Guild(i.GuildID); err == nil && len(guild.Presences) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Online", Value: common.FormatBalance(int64(common.OnlineCount(guild))), Inline: true,
		})
	}

	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending membercount follow-up: %v", err)
	}
}
