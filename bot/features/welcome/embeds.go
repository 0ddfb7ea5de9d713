package welcome

import (
	"fmt"
	"time"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/bwmarrin/discordgo"
)

const footerTime = "2006-01-02 15:04:05"

func buildArrivalEmbed(user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "New Arrival 🚀",
		Description: fmt.Sprintf("Yoooo welcome in **%s**", user.Mention()),
		Color:       common.ColorSuccess,
		Timestamp:   now.Format(time.RFC3339),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
		Footer:      &discordgo.MessageEmbedFooter{Text: "Joined on " + now.Format(footerTime) + " UTC"},
	}
}

func buildDepartureEmbed(user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Departure 🌿",
		Description: fmt.Sprintf("**%s** went to go touch some grass", user.Username),
		Color:       common.ColorDanger,
		Timestamp:   now.Format(time.RFC3339),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
		Footer:      &discordgo.MessageEmbedFooter{Text: "Left on " + now.Format(footerTime) + " UTC"},
	}
}

func buildBoostEmbed(user *discordgo.User, totalBoosts int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Server Boosted 💎",
		Description: fmt.Sprintf("Bro a legend called **%s** has boosted the server!", user.Mention()),
		Color:       common.ColorBoost,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Total Boosts: %d", totalBoosts)},
	}
}
