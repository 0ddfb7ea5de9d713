package economy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	target := common.CommandOptions(i).UserOrSelf(s, i, "user")
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target ID"), false)
		return
	}

	info, err := f.economyService.GetBalance(ctx, guildID, targetID)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to get balance"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildBalanceEmbed(common.GetDisplayName(s, i.GuildID, target.ID), info), nil, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	result, err := f.economyService.ClaimDaily(context.Background(), guildID, userID)
	if err != nil {
		f.respondWithFailure(s, i, err, "Daily", "claim your daily reward")
		return
	}

	if err := common.RespondWithEmbed(s, i, buildDailyEmbed(result), nil, false); err != nil {
		log.Errorf("Error responding to daily command: %v", err)
	}
}

func (f *Feature) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	result, err := f.economyService.Work(context.Background(), guildID, userID)
	if err != nil {
		f.respondWithFailure(s, i, err, "Work", "work again")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💼 Work Complete!",
		Description: fmt.Sprintf("You worked as a **%s** and earned **%s**", result.Job, common.FormatCoins(result.Earned)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to work command: %v", err)
	}
}

func (f *Feature) handleCrime(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	result, err := f.economyService.Crime(context.Background(), guildID, userID)
	if err != nil {
		f.respondWithFailure(s, i, err, "Crime", "commit a crime again")
		return
	}

	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "New Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
		},
	}
	if result.Success {
		embed.Title = "🎯 Crime Successful!"
		embed.Description = fmt.Sprintf("You successfully committed **%s** and earned **%s**", result.Crime, common.FormatCoins(result.Earned))
		embed.Color = common.ColorSuccess
	} else {
		embed.Title = "🚨 Crime Failed!"
		embed.Description = fmt.Sprintf("You were caught attempting **%s** and fined **%s**", result.Crime, common.FormatCoins(result.Fine))
		embed.Color = common.ColorDanger
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to crime command: %v", err)
	}
}

func (f *Feature) handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, robberID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	victim := common.CommandOptions(i).User(s, "user")
	if victim == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}
	if victim.Bot {
		common.RespondWithError(s, i, "Bots don't carry wallets.")
		return
	}
	victimID, err := common.ParseID(victim.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse victim ID"), false)
		return
	}

	result, err := f.economyService.Rob(context.Background(), guildID, robberID, victimID)
	if err != nil {
		f.respondWithFailure(s, i, err, "Rob", "rob someone again")
		return
	}

	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
		},
	}
	if result.Success {
		embed.Title = "🦹 Robbery Successful!"
		embed.Description = fmt.Sprintf("You stole **%s** (%d%%) from %s", common.FormatCoins(result.Stolen), result.StolenPercent, victim.Mention())
		embed.Color = common.ColorSuccess
	} else {
		embed.Title = "🚔 Robbery Failed!"
		embed.Description = fmt.Sprintf("%s caught you in the act. You paid a fine of **%s**", victim.Mention(), common.FormatCoins(result.Fine))
		embed.Color = common.ColorDanger
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to rob command: %v", err)
	}
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, fromID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	opts := common.CommandOptions(i)
	recipient := opts.User(s, "user")
	amount := opts.Int("amount", 0)

	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipient.Bot {
		common.RespondWithError(s, i, "You can't give money to bots.")
		return
	}
	toID, err := common.ParseID(recipient.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse recipient ID"), false)
		return
	}

	result, err := f.economyService.Transfer(context.Background(), guildID, fromID, toID, amount)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "transfer failed"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💸 Transfer Complete",
		Description: fmt.Sprintf("You gave **%s** to %s", common.FormatCoins(result.Amount), recipient.Mention()),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
			{Name: "Their Balance", Value: common.FormatCoins(result.RecipientBalance), Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse guild ID"), false)
		return
	}

	entries, err := f.economyService.Leaderboard(context.Background(), guildID, common.LeaderboardSize)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to load leaderboard"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "💰 Economy Leaderboard",
		Color: common.ColorGold,
	}
	if len(entries) == 0 {
		embed.Description = "No economy data found for this server"
	} else {
		var b strings.Builder
		for _, entry := range entries {
			fmt.Fprintf(&b, "%s %s: %s\n", common.RankLabel(entry.Rank),
				common.GetDisplayNameInt64(s, i.GuildID, entry.DiscordID), common.FormatCoins(entry.Value))
		}
		embed.Description = b.String()
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

// respondWithFailure shows cooldowns as a titled embed and everything else as an error
func (f *Feature) respondWithFailure(s *discordgo.Session, i *discordgo.InteractionCreate, err error, title, action string) {
	var cooldown *service.CooldownError
	if errors.As(err, &cooldown) {
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("⏰ %s Cooldown", title),
			Description: fmt.Sprintf("You can %s in %s", action, common.FormatCooldown(cooldown.Remaining)),
			Color:       common.ColorWarning,
		}
		if respondErr := common.RespondWithEmbed(s, i, embed, nil, true); respondErr != nil {
			log.Errorf("Error responding with cooldown: %v", respondErr)
		}
		return
	}
	common.HandleError(s, i, common.FromServiceError(err, strings.ToLower(title)+" failed"), false)
}
