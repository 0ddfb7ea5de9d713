package utility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultSides = 6
	minSides     = 2
	maxSides     = 100
	maxDice      = 20
)

var pollEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

var eightBallAnswers = []string{
	"It is certain", "It is decidedly so", "Without a doubt", "Yes definitely",
	"You may rely on it", "As I see it, yes", "Most likely", "Outlook good",
	"Yes", "Signs point to yes", "Reply hazy, try again", "Ask again later",
	"Better not tell you now", "Cannot predict now", "Concentrate and ask again",
	"Don't count on it", "My reply is no", "My sources say no",
	"Outlook not so good", "Very doubtful",
}

func pollLines(options []string) string {
	var b strings.Builder
	for n, option := range options {
		fmt.Fprintf(&b, "%s %s\n", pollEmojis[n], option)
	}
	return b.String()
}

func rollDice(r service.Random, sides, count int) []int {
	rolls := make([]int, count)
	for n := range rolls {
		rolls[n] = r.IntN(sides) + 1
	}
	return rolls
}

func buildDiceEmbed(rolls []int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎲 Dice Roll",
		Color: common.ColorSuccess,
	}
	if len(rolls) == 1 {
		embed.Description = fmt.Sprintf("You rolled a **%d**", rolls[0])
		return embed
	}

	total := 0
	parts := make([]string, len(rolls))
	for n, roll := range rolls {
		total += roll
		parts[n] = strconv.Itoa(roll)
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Rolls", Value: strings.Join(parts, " + ")},
		{Name: "Total", Value: strconv.Itoa(total)},
	}
	return embed
}
