package fun

import (
	"fmt"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorJoke       = 0xF1C40F
	colorQuote      = 0x9B59B6
	colorCompliment = 0xFF69B4
)

// Feature serves the canned entertainment commands
type Feature struct {
	random service.Random
	quiz   *Quiz
}

// New creates a new fun feature instance
func New(random service.Random, quiz *Quiz) *Feature {
	return &Feature{random: random, quiz: quiz}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "joke", Description: "Get a random joke"},
		{Name: "fact", Description: "Get a random fun fact"},
		{Name: "quote", Description: "Get an inspirational quote"},
		{Name: "riddle", Description: "Get a riddle to solve"},
		{Name: "trivia", Description: "Answer a trivia question"},
		{Name: "meme", Description: "Get a random meme"},
		{
			Name:        "roast",
			Description: "Get a playful roast",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to roast (optional)"},
			},
		},
		{
			Name:        "compliment",
			Description: "Give someone a nice compliment",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to compliment (optional)"},
			},
		},
	}
}

// HandleCommand routes fun commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var embed *discordgo.MessageEmbed
	switch i.ApplicationCommandData().Name {
	case "joke":
		embed = &discordgo.MessageEmbed{Title: "😄 Random Joke", Description: pick(f.random, jokes), Color: colorJoke}
	case "fact":
		embed = &discordgo.MessageEmbed{Title: "🧠 Fun Fact", Description: pick(f.random, facts), Color: common.ColorInfo}
	case "quote":
		embed = quoteEmbed(pick(f.random, quotes))
	case "meme":
		embed = &discordgo.MessageEmbed{Title: "😂 Meme", Description: pick(f.random, memes), Color: f.random.IntN(0xFFFFFF + 1)}
	case "roast":
		target := common.CommandOptions(i).UserOrSelf(s, i, "user")
		embed = &discordgo.MessageEmbed{
			Title:       "🔥 Roast",
			Description: fmt.Sprintf(pick(f.random, roasts), target.Mention()),
			Color:       common.ColorDanger,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Just kidding! 😄"},
		}
	case "compliment":
		target := common.CommandOptions(i).UserOrSelf(s, i, "user")
		embed = &discordgo.MessageEmbed{
			Title:       "💝 Compliment",
			Description: fmt.Sprintf(pick(f.random, compliments), target.Mention()),
			Color:       colorCompliment,
		}
	case "riddle":
		riddle := pick(f.random, riddles)
		if err := f.quiz.PostRiddle(s, i, &riddle, "🧩 Riddle", false); err != nil {
			log.Errorf("Error responding to riddle command: %v", err)
		}
		return
	case "trivia":
		if err := f.quiz.PostTrivia(s, i, pick(f.random, triviaBank).toQuestion(), false); err != nil {
			log.Errorf("Error responding to trivia command: %v", err)
		}
		return
	default:
		return
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

// HandleComponent resolves trivia and riddle buttons
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.quiz.HandleComponent(s, i)
}

// OwnsComponent reports whether a button belongs to this feature
func (f *Feature) OwnsComponent(customID string) bool {
	return IsQuizComponent(customID)
}

func quoteEmbed(q quote) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💭 Inspirational Quote",
		Description: "\"" + q.text + "\"",
		Color:       colorQuote,
		Footer:      &discordgo.MessageEmbedFooter{Text: "— " + q.author},
	}
}

func pick[T any](random service.Random, items []T) T {
	return items[random.IntN(len(items))]
}
