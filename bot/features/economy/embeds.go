package economy

import (
	"fmt"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
)

func buildBalanceEmbed(displayName string, info *models.BalanceInfo) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("%s: **%s**", displayName, common.FormatCoins(info.Balance)),
		Color:       common.ColorGold,
	}

	if info.Rank > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Rank", Value: "#" + fmt.Sprint(info.Rank), Inline: true,
		})
	}
	if info.Stats != nil && info.Stats.Transactions > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Total Earned", Value: common.FormatCoins(info.Stats.TotalEarned), Inline: true},
			&discordgo.MessageEmbedField{Name: "Total Lost", Value: common.FormatCoins(info.Stats.TotalLost), Inline: true},
		)
	}
	if len(info.Recent) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Recent Activity", Value: recentActivity(info.Recent),
		})
	}

	return embed
}

func recentActivity(history []*models.BalanceHistory) string {
	var b strings.Builder
	for _, h := range history {
		sign := "+"
		if h.ChangeAmount < 0 {
			sign = ""
		}
		fmt.Fprintf(&b, "`%s%s` %s %s\n",
			sign, common.FormatCoins(h.ChangeAmount),
			transactionLabel(h.TransactionType),
			common.FormatDiscordTimestamp(h.CreatedAt, "R"))
	}
	return common.Truncate(b.String(), common.EmbedFieldLimit)
}

func transactionLabel(t models.TransactionType) string {
	switch t {
	case models.TransactionTypeDaily:
		return "Daily reward"
	case models.TransactionTypeWork:
		return "Work"
	case models.TransactionTypeCrimeWin:
		return "Crime payout"
	case models.TransactionTypeCrimeFine:
		return "Crime fine"
	case models.TransactionTypeRobWin:
		return "Robbery"
	case models.TransactionTypeRobVictim:
		return "Robbed"
	case models.TransactionTypeRobFine:
		return "Robbery fine"
	case models.TransactionTypeTransferIn:
		return "Received"
	case models.TransactionTypeTransferOut:
		return "Sent"
	case models.TransactionTypeLevelReward:
		return "Level reward"
	case models.TransactionTypeCommunityReward:
		return "Community reward"
	}
	return string(t)
}

func buildDailyEmbed(result *models.DailyResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💰 Daily Reward Claimed!",
		Description: fmt.Sprintf("You received **%s**", common.FormatCoins(result.Reward)),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: fmt.Sprintf("%d days", result.Streak), Inline: true},
			{Name: "Bonus", Value: common.FormatCoins(result.Bonus), Inline: true},
			{Name: "New Balance", Value: common.FormatCoins(result.NewBalance), Inline: true},
		},
	}
}
