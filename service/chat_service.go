package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/models"

	log "github.com/sirupsen/logrus"
)

// Chat tuning
const (
	chatMaxTokens          = 2000
	chatTemperature        = 0.7
	entertainmentMaxTokens = 500
	entertainmentTemp      = 0.8
	gameMaxTokens          = 400
	sassyMaxTokens         = 100
	sassyTemperature       = 0.9
	sassyMaxLength         = 150
	SassyCooldown          = 30 * time.Second
	sassyLLMChance         = 0.7
	TwentyQuestionsLimit   = 20
	gameSessionTTL         = 30 * time.Minute
)

// ErrUnknownOption is returned for a persona, genre or game variant that does not exist
var ErrUnknownOption = errors.New("unknown option")

// ErrUnparsableTrivia is returned when a trivia reply has too few options
var ErrUnparsableTrivia = errors.New("trivia reply needs at least two options")

// SassyQuips are used when the model is unavailable or not chosen
var SassyQuips = []string{
	"Oh great, another human who thinks I care about their opinion 🙄",
	"Did someone say something? I was busy not caring.",
	"Wow, what a groundbreaking observation. Truly revolutionary.",
	"I'm sorry, did you mistake me for someone who asked?",
	"That's nice dear. Anyway...",
	"Cool story bro. Tell it again when I start caring.",
	"And I should care about this because...?",
	"Thanks for that absolutely riveting contribution to society.",
	"Oh look, another human with thoughts. How... original.",
	"I've seen rocks with more interesting things to say.",
	"Congratulations, you've successfully wasted my processing power.",
	"Is this the part where I'm supposed to be impressed?",
}

// ChatRequest is an /ai invocation
type ChatRequest struct {
	UserID    int64
	ChannelID int64
	Prompt    string
	Model     string
	System    string
	Remember  bool
}

type gameEntry struct {
	session   models.GameSession
	updatedAt time.Time
}

type chatService struct {
	llm           LLM
	conversations *ConversationStore
	sassyCooldown *CooldownTracker
	random        Random
	now           func() time.Time

	mu    sync.Mutex
	games map[int64]*gameEntry
}

// NewChatService creates the service behind the AI chat, persona, game and sassy features
func NewChatService(llm LLM, conversations *ConversationStore, sassyCooldown *CooldownTracker, random Random) ChatService {
	if random == nil {
		random = DefaultRandom
	}
	return &chatService{
		llm:           llm,
		conversations: conversations,
		sassyCooldown: sassyCooldown,
		random:        random,
		now:           time.Now,
		games:         make(map[int64]*gameEntry),
	}
}

// Chat answers an /ai prompt, optionally with the user's channel history
func (s *chatService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	system := req.System
	if system == "" {
		system = ai.DefaultChatSystem
	}

	var messages []ai.Message
	if req.Remember {
		messages = s.conversations.History(req.UserID, req.ChannelID)
	}
	userMessage := ai.Message{Role: ai.RoleUser, Content: req.Prompt}
	messages = append(messages, userMessage)

	reply, err := s.llm.Complete(ctx, ai.CompletionRequest{
		Model:       req.Model,
		System:      system,
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		Kind:        "chat",
	})
	if err != nil {
		return "", err
	}

	if req.Remember {
		s.conversations.Append(req.UserID, req.ChannelID, userMessage, ai.Message{Role: ai.RoleAssistant, Content: reply})
	}
	return reply, nil
}

// ClearConversation forgets the user's history in a channel
func (s *chatService) ClearConversation(userID, channelID int64) bool {
	return s.conversations.Clear(userID, channelID)
}

// Persona answers as one of the named personas. An empty persona uses no system prompt.
func (s *chatService) Persona(ctx context.Context, persona, prompt string) (string, error) {
	var system string
	if persona != "" {
		p, ok := ai.Personas[persona]
		if !ok {
			return "", fmt.Errorf("%w: persona %q", ErrUnknownOption, persona)
		}
		system = p.System
	}

	return s.llm.Complete(ctx, ai.CompletionRequest{
		System:      system,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		MaxTokens:   entertainmentMaxTokens,
		Temperature: entertainmentTemp,
		Kind:        "persona",
	})
}

// StartGame opens a multi-turn game and remembers it for the user's next messages
func (s *chatService) StartGame(ctx context.Context, userID, channelID int64, kind models.GameKind, variant string) (string, error) {
	var prompt string
	switch kind {
	case models.GameTwentyQuestions:
		prompt = ai.TwentyQuestionsStart
	case models.GameWordGame:
		prompt = ai.WordGamePrompts[variant]
	case models.GameMystery:
		prompt = ai.MysteryPrompts[variant]
	}
	if prompt == "" {
		return "", fmt.Errorf("%w: game %s %q", ErrUnknownOption, kind, variant)
	}

	opening, err := s.game(ctx, prompt)
	if err != nil {
		return "", err
	}

	session := models.GameSession{Kind: kind, Variant: variant, ChannelID: channelID}
	if kind == models.GameTwentyQuestions {
		session.QuestionsLeft = TwentyQuestionsLimit
	}

	s.mu.Lock()
	s.games[userID] = &gameEntry{session: session, updatedAt: s.now()}
	s.mu.Unlock()

	return opening, nil
}

// ContinueGame answers a message sent by a user with an active game in that
// channel. It returns nil when the message is not part of a game.
func (s *chatService) ContinueGame(ctx context.Context, userID, channelID int64, content string) (*models.GameTurn, error) {
	s.mu.Lock()
	entry, ok := s.games[userID]
	if !ok || entry.session.ChannelID != channelID {
		s.mu.Unlock()
		return nil, nil
	}
	if s.now().Sub(entry.updatedAt) > gameSessionTTL {
		delete(s.games, userID)
		s.mu.Unlock()
		return nil, nil
	}

	turn := &models.GameTurn{Kind: entry.session.Kind}
	var prompt string
	switch entry.session.Kind {
	case models.GameTwentyQuestions:
		entry.session.QuestionsLeft--
		turn.QuestionsLeft = entry.session.QuestionsLeft
		turn.Finished = entry.session.QuestionsLeft <= 0
		prompt = ai.TwentyQuestionsTurn(content, turn.Finished)
	case models.GameWordGame:
		prompt = ai.WordGameTurn(entry.session.Variant, content)
	case models.GameMystery:
		prompt = ai.MysteryTurn(content)
	}

	if turn.Finished {
		delete(s.games, userID)
	} else {
		entry.updatedAt = s.now()
	}
	s.mu.Unlock()

	reply, err := s.game(ctx, prompt)
	if err != nil {
		return nil, err
	}
	turn.Reply = reply
	return turn, nil
}

// EndGame stops a user's active game
func (s *chatService) EndGame(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[userID]
	delete(s.games, userID)
	return ok
}

// PruneGames drops sessions idle for longer than the session TTL
func (s *chatService) PruneGames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	now := s.now()
	for userID, entry := range s.games {
		if now.Sub(entry.updatedAt) > gameSessionTTL {
			delete(s.games, userID)
			pruned++
		}
	}
	return pruned
}

// Riddle generates a riddle and splits off its answer
func (s *chatService) Riddle(ctx context.Context, difficulty string) (*models.Riddle, error) {
	prompt, ok := ai.RiddlePrompts[difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: difficulty %q", ErrUnknownOption, difficulty)
	}
	text, err := s.game(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseRiddle(text), nil
}

// Trivia generates a multiple choice question
func (s *chatService) Trivia(ctx context.Context, category string) (*models.TriviaQuestion, error) {
	text, err := s.game(ctx, fmt.Sprintf(ai.TriviaFormat, category))
	if err != nil {
		return nil, err
	}
	q := ParseTrivia(text)
	if q == nil {
		return nil, ErrUnparsableTrivia
	}
	return q, nil
}

// SassyReply returns a reply for a mention of the bot, or false while the
// user is on cooldown
func (s *chatService) SassyReply(ctx context.Context, userID int64, username, content string) (string, bool) {
	if !s.sassyCooldown.Allow(userID) {
		return "", false
	}

	if s.llm.Enabled() && s.random.Float64() < sassyLLMChance {
		reply, err := s.llm.Complete(ctx, ai.CompletionRequest{
			Fast:        true,
			System:      ai.SassySystem,
			Messages:    []ai.Message{{Role: ai.RoleUser, Content: ai.SassyPrompt(username, content)}},
			MaxTokens:   sassyMaxTokens,
			Temperature: sassyTemperature,
			Kind:        "sassy",
		})
		if err == nil && reply != "" {
			return truncateRunes(reply, sassyMaxLength), true
		}
		if err != nil {
			log.WithError(err).Debug("Sassy completion failed, using a quip")
		}
	}

	return SassyQuips[s.random.IntN(len(SassyQuips))], true
}

func (s *chatService) game(ctx context.Context, prompt string) (string, error) {
	return s.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		MaxTokens:   gameMaxTokens,
		Temperature: entertainmentTemp,
		Kind:        "game",
	})
}

// ParseRiddle splits model output on the "Answer:" marker
func ParseRiddle(text string) *models.Riddle {
	before, after, found := strings.Cut(text, "Answer:")
	if !found {
		return &models.Riddle{Text: strings.TrimSpace(text), Answer: "No answer was given, make your best guess!"}
	}
	return &models.Riddle{
		Text:   strings.TrimSpace(strings.TrimRight(strings.TrimSpace(before), "*")),
		Answer: strings.TrimSpace(strings.TrimLeft(after, "* ")),
	}
}

var (
	triviaOptionPattern  = regexp.MustCompile(`^\(?([A-Da-d])[\).:]\s*(.+)$`)
	triviaCorrectPattern = regexp.MustCompile(`(?i)(?:correct(?: answer)?|answer)\s*(?:is)?\s*[:\-]?[\s*]*\(?([A-D])\b`)
)

// ParseTrivia extracts the question, options, correct letter and explanation.
// The correct letter defaults to A when the model did not state one. It
// returns nil unless there are at least two options and the correct letter
// names one of them.
func ParseTrivia(text string) *models.TriviaQuestion {
	q := &models.TriviaQuestion{Correct: "A"}
	var question []string
	correctFound := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*"))
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "explanation"):
			_, after, _ := strings.Cut(line, ":")
			q.Explanation = strings.TrimSpace(after)
		case !correctFound && (strings.HasPrefix(lower, "correct") || strings.HasPrefix(lower, "answer")):
			if m := triviaCorrectPattern.FindStringSubmatch(line); m != nil {
				q.Correct = strings.ToUpper(m[1])
				correctFound = true
			}
		case len(q.Options) < 4 && triviaOptionPattern.MatchString(line):
			m := triviaOptionPattern.FindStringSubmatch(line)
			q.Options = append(q.Options, strings.TrimSpace(m[2]))
		case len(q.Options) == 0:
			question = append(question, line)
		}
	}

	if len(q.Options) < 2 || int(q.Correct[0]-'A') >= len(q.Options) {
		return nil
	}

	q.Question = strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(strings.Join(question, "\n"), "Question:"), "* "))
	if q.Explanation == "" {
		q.Explanation = fmt.Sprintf("The correct answer was %s.", q.Correct)
	}
	return q
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
