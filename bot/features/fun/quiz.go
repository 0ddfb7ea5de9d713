package fun

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/whoami669/my-bot/bot/common"
	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	triviaPrefix = "trivia:"
	riddlePrefix = "riddle:"

	// TriviaAnswerWindow is how long the invoker has to pick an answer
	TriviaAnswerWindow = 15 * time.Second
	// RiddleRevealWindow is how long the reveal button stays usable
	RiddleRevealWindow = 30 * time.Second
)

var answerLetters = []string{"A", "B", "C", "D"}

var answerEmojis = map[string]string{"A": "🇦", "B": "🇧", "C": "🇨", "D": "🇩"}

// challenge is a posted trivia question or riddle waiting for its invoker
type challenge struct {
	invokerID string
	trivia    *models.TriviaQuestion
	riddle    *models.Riddle
	embed     *discordgo.MessageEmbed
	timer     *time.Timer
}

// Quiz tracks trivia questions and riddles that still accept button clicks.
// Challenges are keyed by the ID of the interaction that posted them.
type Quiz struct {
	mu      sync.Mutex
	pending map[string]*challenge

	triviaWindow time.Duration
	riddleWindow time.Duration
}

// NewQuiz creates an empty quiz board
func NewQuiz() *Quiz {
	return &Quiz{
		pending:      make(map[string]*challenge),
		triviaWindow: TriviaAnswerWindow,
		riddleWindow: RiddleRevealWindow,
	}
}

// register stores a challenge and arms its expiry
func (q *Quiz) register(key string, c *challenge, window time.Duration, onExpire func(*challenge)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	c.timer = time.AfterFunc(window, func() {
		if expired := q.take(key); expired != nil {
			onExpire(expired)
		}
	})
	q.pending[key] = c
}

// peek returns a pending challenge without resolving it
func (q *Quiz) peek(key string) *challenge {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending[key]
}

// take resolves a challenge; only the first caller gets it
func (q *Quiz) take(key string) *challenge {
	q.mu.Lock()
	defer q.mu.Unlock()

	c, ok := q.pending[key]
	if !ok {
		return nil
	}
	delete(q.pending, key)
	c.timer.Stop()
	return c
}

// Pending returns how many challenges still accept clicks
func (q *Quiz) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// messageEditor edits the message that carries a challenge
type messageEditor func(edit *discordgo.WebhookEdit) error

func editorFor(s *discordgo.Session, i *discordgo.InteractionCreate, msg *discordgo.Message) messageEditor {
	return func(edit *discordgo.WebhookEdit) error {
		if msg != nil {
			_, err := s.FollowupMessageEdit(i.Interaction, msg.ID, edit)
			return err
		}
		_, err := s.InteractionResponseEdit(i.Interaction, edit)
		return err
	}
}

// post sends a challenge as the interaction response, or as a follow-up
// when the interaction was deferred
func post(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, deferred bool) (messageEditor, error) {
	if deferred {
		msg, err := common.FollowUpWithEmbed(s, i, embed, components, false)
		if err != nil {
			return nil, err
		}
		return editorFor(s, i, msg), nil
	}
	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		return nil, err
	}
	return editorFor(s, i, nil), nil
}

// PostTrivia sends a question with one button per option
func (q *Quiz) PostTrivia(s *discordgo.Session, i *discordgo.InteractionCreate, question *models.TriviaQuestion, deferred bool) error {
	key := i.ID
	embed := triviaEmbed(question)
	buttons := triviaButtons(key, len(question.Options))

	edit, err := post(s, i, embed, buttons, deferred)
	if err != nil {
		return err
	}

	c := &challenge{invokerID: common.InteractionUserID(i), trivia: question, embed: embed}
	q.register(key, c, q.triviaWindow, func(c *challenge) {
		disabled := common.DisableComponents(triviaButtons(key, len(c.trivia.Options)))
		embeds := []*discordgo.MessageEmbed{c.embed, timeUpEmbed(c.trivia)}
		if err := edit(&discordgo.WebhookEdit{Embeds: &embeds, Components: &disabled}); err != nil {
			log.WithError(err).Debug("Failed to close expired trivia question")
		}
	})
	return nil
}

// PostRiddle sends a riddle with a button revealing its answer
func (q *Quiz) PostRiddle(s *discordgo.Session, i *discordgo.InteractionCreate, riddle *models.Riddle, title string, deferred bool) error {
	key := i.ID
	embed := riddleEmbed(riddle, title)

	edit, err := post(s, i, embed, riddleButtons(key), deferred)
	if err != nil {
		return err
	}

	c := &challenge{invokerID: common.InteractionUserID(i), riddle: riddle, embed: embed}
	q.register(key, c, q.riddleWindow, func(*challenge) {
		disabled := common.DisableComponents(riddleButtons(key))
		if err := edit(&discordgo.WebhookEdit{Components: &disabled}); err != nil {
			log.WithError(err).Debug("Failed to close expired riddle")
		}
	})
	return nil
}

// HandleComponent resolves trivia answers and riddle reveals
func (q *Quiz) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	key, choice, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	c := q.peek(key)
	if c == nil {
		common.RespondWithError(s, i, "This one has already ended.")
		return
	}
	if c.invokerID != common.InteractionUserID(i) {
		common.RespondWithError(s, i, "Only the member who started this can answer.")
		return
	}
	if c = q.take(key); c == nil {
		common.RespondWithError(s, i, "This one has already ended.")
		return
	}

	var embeds []*discordgo.MessageEmbed
	var components []discordgo.MessageComponent
	if c.trivia != nil {
		embeds = []*discordgo.MessageEmbed{c.embed, triviaResultEmbed(c.trivia, choice)}
		components = common.DisableComponents(triviaButtons(key, len(c.trivia.Options)))
	} else {
		embeds = []*discordgo.MessageEmbed{c.embed, answerEmbed(c.riddle)}
		components = common.DisableComponents(riddleButtons(key))
	}

	if err := common.UpdateComponentMessage(s, i, "", embeds, components); err != nil {
		log.Errorf("Error resolving quiz component: %v", err)
	}
}

// parseCustomID splits "trivia:<key>:<letter>" and "riddle:<key>"
func parseCustomID(customID string) (key, choice string, ok bool) {
	switch {
	case strings.HasPrefix(customID, triviaPrefix):
		key, choice, ok = strings.Cut(strings.TrimPrefix(customID, triviaPrefix), ":")
		if !ok || key == "" || answerIndex(choice) < 0 {
			return "", "", false
		}
		return key, choice, true
	case strings.HasPrefix(customID, riddlePrefix):
		key = strings.TrimPrefix(customID, riddlePrefix)
		return key, "", key != ""
	}
	return "", "", false
}

func answerIndex(letter string) int {
	for idx, l := range answerLetters {
		if l == letter {
			return idx
		}
	}
	return -1
}

// correctOption returns the text of the correct answer, or its letter when
// the option list is short
func correctOption(q *models.TriviaQuestion) string {
	idx := answerIndex(q.Correct)
	if idx >= 0 && idx < len(q.Options) {
		return fmt.Sprintf("%s) %s", q.Correct, q.Options[idx])
	}
	return q.Correct
}

func triviaEmbed(q *models.TriviaQuestion) *discordgo.MessageEmbed {
	var b strings.Builder
	for idx, option := range q.Options {
		letter := answerLetters[idx]
		fmt.Fprintf(&b, "%s %s\n", answerEmojis[letter], option)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🧠 Trivia Question",
		Description: common.Truncate(q.Question, 4096),
		Color:       common.ColorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("You have %d seconds to answer!", int(TriviaAnswerWindow.Seconds()))},
	}
	if b.Len() > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "Options", Value: common.Truncate(b.String(), common.EmbedFieldLimit)}}
	}
	return embed
}

func triviaButtons(key string, options int) []discordgo.MessageComponent {
	if options > len(answerLetters) {
		options = len(answerLetters)
	}
	row := discordgo.ActionsRow{}
	for idx := 0; idx < options; idx++ {
		letter := answerLetters[idx]
		row.Components = append(row.Components, &discordgo.Button{
			Label:    letter,
			Style:    discordgo.PrimaryButton,
			CustomID: triviaPrefix + key + ":" + letter,
			Emoji:    &discordgo.ComponentEmoji{Name: answerEmojis[letter]},
		})
	}
	return []discordgo.MessageComponent{&row}
}

func triviaResultEmbed(q *models.TriviaQuestion, choice string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{Text: common.Truncate(q.Explanation, 2048)},
	}
	if choice == q.Correct {
		embed.Title = "✅ Correct!"
		embed.Description = fmt.Sprintf("Great job! The answer is **%s**", correctOption(q))
		embed.Color = common.ColorSuccess
	} else {
		embed.Title = "❌ Incorrect"
		embed.Description = fmt.Sprintf("The correct answer is **%s**", correctOption(q))
		embed.Color = common.ColorDanger
	}
	return embed
}

func timeUpEmbed(q *models.TriviaQuestion) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏰ Time's Up!",
		Description: fmt.Sprintf("The correct answer was **%s**", correctOption(q)),
		Color:       common.ColorWarning,
	}
}

func riddleEmbed(r *models.Riddle, title string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: common.Truncate(r.Text, 4096),
		Color:       common.ColorWarning,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Think you know the answer? Press 💡 to see it!"},
	}
}

func riddleButtons(key string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{
				Label:    "Reveal answer",
				Style:    discordgo.SecondaryButton,
				CustomID: riddlePrefix + key,
				Emoji:    &discordgo.ComponentEmoji{Name: "💡"},
			},
		}},
	}
}

func answerEmbed(r *models.Riddle) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💡 Answer",
		Description: common.Truncate(r.Answer, 4096),
		Color:       common.ColorSuccess,
	}
}

// IsQuizComponent reports whether a custom ID belongs to the quiz board
func IsQuizComponent(customID string) bool {
	return strings.HasPrefix(customID, triviaPrefix) || strings.HasPrefix(customID, riddlePrefix)
}

// letterFor converts a zero-based option index
func letterFor(idx int) string {
	if idx < 0 || idx >= len(answerLetters) {
		return strconv.Itoa(idx)
	}
	return answerLetters[idx]
}
