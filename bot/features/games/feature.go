package games

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/bot/features/fun"
	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorTwentyQuestions = 0x9B59B6
	colorWordGame        = 0x3498DB
	colorMystery         = 0x8E44AD

	gameTimeout = 60 * time.Second
)

var wordGameEmojis = map[string]string{
	"story":       "📚",
	"rhyme":       "🎵",
	"association": "🔗",
}

// Feature runs the AI-hosted games
type Feature struct {
	chatService service.ChatService
	quiz        *fun.Quiz
}

// New creates a new games feature instance. Generated riddles and trivia are
// posted on the shared quiz board.
func New(chatService service.ChatService, quiz *fun.Quiz) *Feature {
	return &Feature{chatService: chatService, quiz: quiz}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "twenty-questions", Description: "Start a game of 20 Questions with AI"},
		{
			Name:        "ai-riddle",
			Description: "Generate a riddle with AI",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "difficulty",
				Description: "Riddle difficulty",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Easy", Value: "easy"},
					{Name: "Medium", Value: "medium"},
					{Name: "Hard", Value: "hard"},
				},
			}},
		},
		{
			Name:        "ai-wordgame",
			Description: "Play collaborative word games with AI",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "game_type",
				Description: "Type of word game",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Story Building", Value: "story"},
					{Name: "Rhyme Time", Value: "rhyme"},
					{Name: "Word Association", Value: "association"},
				},
			}},
		},
		{
			Name:        "ai-trivia",
			Description: "Generate trivia questions with AI",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "category",
				Description: "Trivia category",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "General Knowledge", Value: "general"},
					{Name: "Science", Value: "science"},
					{Name: "Movies & TV", Value: "movies"},
					{Name: "Music", Value: "music"},
					{Name: "Sports", Value: "sports"},
					{Name: "History", Value: "history"},
				},
			}},
		},
		{
			Name:        "ai-mystery",
			Description: "Generate interactive mystery scenarios",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "difficulty",
				Description: "Mystery complexity",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Simple", Value: "simple"},
					{Name: "Complex", Value: "complex"},
				},
			}},
		},
		{Name: "end-game", Description: "Stop your active AI game"},
	}
}

// HandleCommand routes game commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	switch i.ApplicationCommandData().Name {
	case "twenty-questions":
		f.startGame(s, i, models.GameTwentyQuestions, "")
	case "ai-wordgame":
		f.startGame(s, i, models.GameWordGame, opts.String("game_type", ""))
	case "ai-mystery":
		f.startGame(s, i, models.GameMystery, opts.String("difficulty", ""))
	case "ai-riddle":
		f.handleRiddle(s, i, opts.String("difficulty", ""))
	case "ai-trivia":
		f.handleTrivia(s, i, opts.String("category", ""))
	case "end-game":
		f.handleEndGame(s, i)
	}
}

func (f *Feature) startGame(s *discordgo.Session, i *discordgo.InteractionCreate, kind models.GameKind, variant string) {
	_, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse channel ID"), false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer %s response: %v", kind, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), gameTimeout)
	defer cancel()

	opening, err := f.chatService.StartGame(ctx, userID, channelID, kind, variant)
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "failed to start game"), true)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, openingEmbed(kind, variant, opening), nil, false); err != nil {
		log.Errorf("Error sending %s opening: %v", kind, err)
	}
}

func (f *Feature) handleRiddle(s *discordgo.Session, i *discordgo.InteractionCreate, difficulty string) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer ai-riddle response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), gameTimeout)
	defer cancel()

	riddle, err := f.chatService.Riddle(ctx, difficulty)
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "failed to generate riddle"), true)
		return
	}
	riddle.Text = service.FilterOutgoing(riddle.Text)

	if err := f.quiz.PostRiddle(s, i, riddle, fmt.Sprintf("🧩 %s Riddle", titleCase(difficulty)), true); err != nil {
		log.Errorf("Error posting ai riddle: %v", err)
	}
}

func (f *Feature) handleTrivia(s *discordgo.Session, i *discordgo.InteractionCreate, category string) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer ai-trivia response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), gameTimeout)
	defer cancel()

	question, err := f.chatService.Trivia(ctx, category)
	if errors.Is(err, service.ErrUnparsableTrivia) {
		common.HandleError(s, i, common.NewUserError(common.AIUnavailableMessage, "trivia reply had no options"), true)
		return
	}
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "failed to generate trivia"), true)
		return
	}
	question.Question = service.FilterOutgoing(question.Question)

	if err := f.quiz.PostTrivia(s, i, question, true); err != nil {
		log.Errorf("Error posting ai trivia: %v", err)
	}
}

func (f *Feature) handleEndGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse interaction IDs"), false)
		return
	}

	if !f.chatService.EndGame(userID) {
		common.HandleError(s, i, common.NewUserError("You don't have an active game.", "no game to end"), false)
		return
	}
	if err := common.RespondWithSuccess(s, i, "Game over! Thanks for playing.", true); err != nil {
		log.Errorf("Error responding to end-game command: %v", err)
	}
}

// OnMessage continues the author's active game in this channel. It reports
// whether the message was consumed by a game.
func (f *Feature) OnMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Author == nil || m.Author.Bot || strings.TrimSpace(m.Content) == "" {
		return false
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		return false
	}
	channelID, err := common.ParseID(m.ChannelID)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, gameTimeout)
	defer cancel()

	turn, err := f.chatService.ContinueGame(ctx, userID, channelID, m.Content)
	if err != nil {
		log.WithError(err).Warnf("Failed to continue game for %s", m.Author.ID)
		if _, sendErr := s.ChannelMessageSendReply(m.ChannelID, common.AIUnavailableMessage, m.Reference()); sendErr != nil {
			log.WithError(sendErr).Debug("Failed to send game fallback")
		}
		return true
	}
	if turn == nil {
		return false
	}

	embed := turnEmbed(turn)
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: m.Reference(),
	}); err != nil {
		log.WithError(err).Warnf("Failed to send game turn in %s", m.ChannelID)
	}
	return true
}

func openingEmbed(kind models.GameKind, variant, opening string) *discordgo.MessageEmbed {
	text := service.FilterOutgoing(opening)
	switch kind {
	case models.GameTwentyQuestions:
		return &discordgo.MessageEmbed{
			Title: "🎯 20 Questions Game Started!",
			Description: common.Truncate(text, 3800) + fmt.Sprintf("\n\n**Questions remaining: %d**\nAsk yes/no questions to guess what I'm thinking of!",
				service.TwentyQuestionsLimit),
			Color: colorTwentyQuestions,
		}
	case models.GameWordGame:
		emoji, ok := wordGameEmojis[variant]
		if !ok {
			emoji = "🎮"
		}
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s %s Game", emoji, titleCase(variant)),
			Description: common.Truncate(text, 4096),
			Color:       colorWordGame,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Reply to participate!"},
		}
	default:
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔍 %s Mystery", titleCase(variant)),
			Description: common.Truncate(text, 4096),
			Color:       colorMystery,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Reply with your investigation choices!"},
		}
	}
}

func turnEmbed(turn *models.GameTurn) *discordgo.MessageEmbed {
	text := common.Truncate(service.FilterOutgoing(turn.Reply), 3800)
	switch turn.Kind {
	case models.GameTwentyQuestions:
		embed := &discordgo.MessageEmbed{
			Title:       "🎯 20 Questions",
			Description: fmt.Sprintf("%s\n\n**Questions remaining: %d**", text, turn.QuestionsLeft),
			Color:       colorTwentyQuestions,
		}
		if turn.Finished {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: "Game over! Start a new one with /twenty-questions"}
		}
		return embed
	case models.GameWordGame:
		return &discordgo.MessageEmbed{Title: "🎮 Word Game", Description: text, Color: colorWordGame}
	default:
		return &discordgo.MessageEmbed{Title: "🔍 Investigation Results", Description: text, Color: colorMystery}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
