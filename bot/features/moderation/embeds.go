package moderation

import (
	"fmt"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
)

// maxListedWarnings keeps the warnings embed under Discord's field limit
const maxListedWarnings = 10

func buildActionEmbed(title string, act *action, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", act.target.ID), Inline: true},
			{Name: "Moderator", Value: common.UserMention(act.moderatorID), Inline: true},
			{Name: "Reason", Value: common.Truncate(displayReason(act.reason), common.EmbedFieldLimit)},
		},
	}
}

func buildWarnEmbed(targetID string, result *models.WarnResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Warning Issued",
		Description: fmt.Sprintf("<@%s> has been warned.", targetID),
		Color:       common.ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: common.Truncate(result.Reason, common.EmbedFieldLimit)},
			{Name: "Total Warnings", Value: fmt.Sprint(result.Count), Inline: true},
		},
	}
}

func buildWarningsEmbed(displayName string, warnings []*models.Warning) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("⚠️ Warnings for %s", displayName),
		Color: common.ColorWarning,
	}
	if len(warnings) == 0 {
		embed.Description = "No warnings on record."
		embed.Color = common.ColorSuccess
		return embed
	}

	embed.Description = fmt.Sprintf("**%d** warnings on record", len(warnings))
	for n, warning := range warnings {
		if n == maxListedWarnings {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Showing the %d most recent", maxListedWarnings),
			}
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("#%d · %s", len(warnings)-n, common.FormatDiscordTimestamp(warning.CreatedAt, "d")),
			Value: common.Truncate(
				fmt.Sprintf("%s\nby %s", warning.Reason, common.UserMention(warning.ModeratorID)),
				common.EmbedFieldLimit),
		})
	}
	return embed
}
