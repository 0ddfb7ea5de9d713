package aichat

import (
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves free chat, the persona commands and sassy replies
type Feature struct {
	chatService service.ChatService
}

// New creates a new AI chat feature instance
func New(chatService service.ChatService) *Feature {
	return &Feature{chatService: chatService}
}

var personaChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Wizard", Value: "wizard"},
	{Name: "Detective", Value: "detective"},
	{Name: "Comedian", Value: "comedian"},
	{Name: "Therapist", Value: "therapist"},
	{Name: "Coach", Value: "coach"},
}

var genreChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Fantasy Adventure", Value: "fantasy"},
	{Name: "Sci-Fi Mystery", Value: "scifi"},
	{Name: "Detective Story", Value: "mystery"},
	{Name: "Epic Adventure", Value: "adventure"},
	{Name: "Horror Thriller", Value: "horror"},
}

var creationChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Poem", Value: "poem"},
	{Name: "Song Lyrics", Value: "lyrics"},
	{Name: "Short Story", Value: "story"},
	{Name: "Business Idea", Value: "business"},
	{Name: "Creative Writing", Value: "creative"},
}

func textOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
		MaxLength:   1500,
	}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ai",
			Description: "Chat with the AI assistant",
			Options: []*discordgo.ApplicationCommandOption{
				textOption("prompt", "Your message to the AI", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "model",
					Description: "AI model to use",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "GPT-4o", Value: "gpt-4o"},
						{Name: "GPT-4o mini", Value: "gpt-4o-mini"},
					},
				},
				textOption("system", "System prompt for AI behavior", false),
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "remember", Description: "Remember conversation context (default on)"},
			},
		},
		{Name: "clear-conversation", Description: "Clear your AI conversation memory in this channel"},
		{
			Name:        "ai-persona",
			Description: "Chat with different AI personalities",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "persona", Description: "AI personality", Required: true, Choices: personaChoices},
				textOption("message", "Your message to the AI", true),
			},
		},
		{
			Name:        "ai-story",
			Description: "Start an interactive story with AI",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "genre", Description: "Story genre", Required: true, Choices: genreChoices},
			},
		},
		{
			Name:        "ai-roast",
			Description: "Get a friendly AI roast",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "target", Description: "Member to roast"},
			},
		},
		{
			Name:        "ai-advice",
			Description: "Get supportive advice from the AI therapist",
			Options:     []*discordgo.ApplicationCommandOption{textOption("situation", "Describe your situation", true)},
		},
		{
			Name:        "ai-motivate",
			Description: "Get personalized motivation",
			Options:     []*discordgo.ApplicationCommandOption{textOption("goal", "What you want to achieve", false)},
		},
		{
			Name:        "ai-create",
			Description: "Collaborate with AI on creative projects",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "project_type", Description: "What to create", Required: true, Choices: creationChoices},
				textOption("topic", "Topic or theme", true),
			},
		},
		{
			Name:        "ai-debate",
			Description: "See both sides of a debate",
			Options:     []*discordgo.ApplicationCommandOption{textOption("topic", "Debate topic", true)},
		},
	}
}

// HandleCommand routes AI chat commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ai":
		f.handleChat(s, i)
	case "clear-conversation":
		f.handleClearConversation(s, i)
	case "ai-persona":
		f.handlePersona(s, i)
	case "ai-story":
		f.handleStory(s, i)
	case "ai-roast":
		f.handleRoast(s, i)
	case "ai-advice":
		f.handleAdvice(s, i)
	case "ai-motivate":
		f.handleMotivate(s, i)
	case "ai-create":
		f.handleCreate(s, i)
	case "ai-debate":
		f.handleDebate(s, i)
	}
}
