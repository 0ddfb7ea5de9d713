package aichat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorPersona = 0x00FF88
	colorStory   = 0xFF6B35
	colorRoast   = 0xFF4757
	colorAdvice  = 0x5F27CD
	colorCreate  = 0xF368E0

	// aiTimeout bounds one model call behind a deferred interaction
	aiTimeout = 60 * time.Second

	embedDescriptionLimit = 4096
)

func (f *Feature) handleChat(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
		log.Errorf("Failed to defer ai response: %v", err)
		return
	}

	opts := common.CommandOptions(i)
	ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
	defer cancel()

	reply, err := f.chatService.Chat(ctx, service.ChatRequest{
		UserID:    userID,
		ChannelID: channelID,
		Prompt:    opts.String("prompt", ""),
		Model:     opts.String("model", ""),
		System:    opts.String("system", ""),
		Remember:  opts.Bool("remember", true),
	})
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, "ai chat failed"), true)
		return
	}

	if err := common.FollowUpWithText(s, i, reply); err != nil {
		log.Errorf("Error sending ai follow-up: %v", err)
	}
}

func (f *Feature) handleClearConversation(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	message := "Conversation memory cleared!"
	if !f.chatService.ClearConversation(userID, channelID) {
		message = "There was no conversation to clear."
	}
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to clear-conversation command: %v", err)
	}
}

// personaReply is one themed answer rendered as an embed
type personaReply struct {
	persona string
	prompt  string
	title   string
	color   int
	footer  string
}

// respondPersona defers, asks the model and follows up with the answer
func (f *Feature) respondPersona(s *discordgo.Session, i *discordgo.InteractionCreate, req personaReply) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer %s response: %v", i.ApplicationCommandData().Name, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), aiTimeout)
	defer cancel()

	reply, err := f.chatService.Persona(ctx, req.persona, req.prompt)
	if err != nil {
		common.HandleError(s, i, common.FromAIError(err, i.ApplicationCommandData().Name+" failed"), true)
		return
	}

	embed := buildReplyEmbed(req, reply)
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error sending %s follow-up: %v", i.ApplicationCommandData().Name, err)
	}
}

func buildReplyEmbed(req personaReply, reply string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       req.title,
		Description: common.Truncate(service.FilterOutgoing(reply), embedDescriptionLimit),
		Color:       req.color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if req.footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: req.footer}
	}
	return embed
}

func (f *Feature) handlePersona(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	key := opts.String("persona", "")
	persona, ok := ai.Personas[key]
	if !ok {
		common.HandleError(s, i, common.FromAIError(service.ErrUnknownOption, "unknown persona"), false)
		return
	}

	f.respondPersona(s, i, personaReply{
		persona: key,
		prompt:  opts.String("message", ""),
		title:   fmt.Sprintf("%s AI %s", persona.Emoji, persona.Name),
		color:   colorPersona,
		footer:  "Requested by " + common.DisplayNameOf(common.InteractionUser(i)),
	})
}

func (f *Feature) handleStory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	genre := common.CommandOptions(i).String("genre", "")
	prompt, ok := ai.StoryPrompts[genre]
	if !ok {
		common.HandleError(s, i, common.FromAIError(service.ErrUnknownOption, "unknown genre"), false)
		return
	}

	f.respondPersona(s, i, personaReply{
		prompt: prompt,
		title:  fmt.Sprintf("📖 %s Story", titleCase(genre)),
		color:  colorStory,
		footer: "Reply to continue the story!",
	})
}

func (f *Feature) handleRoast(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	target := opts.User(s, "target")
	if target == nil {
		target = common.InteractionUser(i)
	}
	name := common.GetDisplayName(s, i.GuildID, target.ID)

	f.respondPersona(s, i, personaReply{
		persona: "comedian",
		prompt:  ai.RoastPrompt(name),
		title:   "🔥 AI Roast for " + name,
		color:   colorRoast,
		footer:  "All in good fun!",
	})
}

func (f *Feature) handleAdvice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respondPersona(s, i, personaReply{
		persona: "therapist",
		prompt:  ai.AdvicePrompt(common.CommandOptions(i).String("situation", "")),
		title:   "🤝 AI Advice",
		color:   colorAdvice,
		footer:  "For serious concerns please reach out to a professional.",
	})
}

func (f *Feature) handleMotivate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.respondPersona(s, i, personaReply{
		persona: "coach",
		prompt:  ai.MotivatePrompt(common.CommandOptions(i).String("goal", "")),
		title:   "💪 AI Motivation",
		color:   common.ColorGold,
		footer:  "You've got this!",
	})
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	kind := opts.String("project_type", "")
	format, ok := ai.CreationPrompts[kind]
	if !ok {
		common.HandleError(s, i, common.FromAIError(service.ErrUnknownOption, "unknown creation type"), false)
		return
	}
	topic := opts.String("topic", "")

	f.respondPersona(s, i, personaReply{
		prompt: fmt.Sprintf(format, topic),
		title:  fmt.Sprintf("🎨 %s: %s", titleCase(kind), common.Truncate(topic, 200)),
		color:  colorCreate,
		footer: "Created with AI",
	})
}

func (f *Feature) handleDebate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	topic := common.CommandOptions(i).String("topic", "")

	f.respondPersona(s, i, personaReply{
		persona: "detective",
		prompt:  ai.DebatePrompt(topic),
		title:   "⚖️ Debate: " + common.Truncate(topic, 200),
		color:   common.ColorInfo,
		footer:  "Consider both sides!",
	})
}

// OnMessage answers members who mention or reply to the bot
func (f *Feature) OnMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if s.State.User == nil || !addressedToBot(m.Message, s.State.User.ID) {
		return false
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	content := stripMentions(m.Content, s.State.User.ID)
	reply, ok := f.chatService.SassyReply(ctx, userID, common.DisplayNameOf(m.Author), content)
	if !ok {
		return true
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, service.FilterOutgoing(reply), m.Reference()); err != nil {
		log.WithError(err).Debugf("Failed to send sassy reply in %s", m.ChannelID)
	}
	return true
}

// addressedToBot reports a mention of the bot or a reply to one of its messages
func addressedToBot(m *discordgo.Message, botID string) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}
	for _, user := range m.Mentions {
		if user.ID == botID {
			return true
		}
	}
	ref := m.ReferencedMessage
	return ref != nil && ref.Author != nil && ref.Author.ID == botID
}

func stripMentions(content, botID string) string {
	content = strings.ReplaceAll(content, "<@"+botID+">", "")
	content = strings.ReplaceAll(content, "<@!"+botID+">", "")
	return strings.TrimSpace(content)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
