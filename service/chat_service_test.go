package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestChatService(t *testing.T, llm LLM, random Random) *chatService {
	t.Helper()
	conversations, err := NewConversationStore(ConversationMaxMessages)
	require.NoError(t, err)
	cooldown, err := NewCooldownTracker(SassyCooldown)
	require.NoError(t, err)

	svc := NewChatService(llm, conversations, cooldown, random).(*chatService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestParseTrivia(t *testing.T) {
	text := `**Question:** Which planet is known as the Red Planet?
A) Venus
B) Mars
C) Jupiter
D) Saturn
**Correct:** B
Explanation: Iron oxide on its surface gives Mars its color.`

	q := ParseTrivia(text)

	assert.Equal(t, "Which planet is known as the Red Planet?", q.Question)
	assert.Equal(t, []string{"Venus", "Mars", "Jupiter", "Saturn"}, q.Options)
	assert.Equal(t, "B", q.Correct)
	assert.Equal(t, "Iron oxide on its surface gives Mars its color.", q.Explanation)
}

func TestParseTrivia_MissingAnswer(t *testing.T) {
	q := ParseTrivia("What is 2+2?\nA. 3\nB. 4")

	assert.Equal(t, "What is 2+2?", q.Question)
	assert.Len(t, q.Options, 2)
	assert.Equal(t, "A", q.Correct)
	assert.Equal(t, "The correct answer was A.", q.Explanation)
}

func TestParseTrivia_Rejected(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no options", "Which planet is known as the Red Planet?\nCorrect: B"},
		{"single option", "What is 2+2?\nA) 4\nCorrect: A"},
		{"answer beyond options", "What is 2+2?\nA) 3\nB) 4\nCorrect: D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseTrivia(tt.text))
		})
	}
}

func TestChatService_Trivia_Unparsable(t *testing.T) {
	ctx := context.Background()
	llm := new(MockLLM)
	svc := newTestChatService(t, llm, nil)

	llm.On("Complete", ctx, mock.Anything).Return("I can't think of a question right now.", nil)

	q, err := svc.Trivia(ctx, "science")

	assert.ErrorIs(t, err, ErrUnparsableTrivia)
	assert.Nil(t, q)
}

func TestParseRiddle(t *testing.T) {
	r := ParseRiddle("What has keys but can't open locks?\n**Answer:** A piano")
	assert.Equal(t, "What has keys but can't open locks?", r.Text)
	assert.Equal(t, "A piano", r.Answer)

	r = ParseRiddle("A riddle without an answer")
	assert.Equal(t, "A riddle without an answer", r.Text)
	assert.NotEmpty(t, r.Answer)
}

func TestConversationStore(t *testing.T) {
	store, err := NewConversationStore(4)
	require.NoError(t, err)

	for i := range 3 {
		store.Append(1, 2,
			ai.Message{Role: ai.RoleUser, Content: "q" + string(rune('0'+i))},
			ai.Message{Role: ai.RoleAssistant, Content: "a" + string(rune('0'+i))},
		)
	}

	history := store.History(1, 2)
	require.Len(t, history, 4)
	assert.Equal(t, "q1", history[0].Content)
	assert.Equal(t, "a2", history[3].Content)

	// Histories are per user and channel
	assert.Empty(t, store.History(1, 3))

	// Returned slices are copies
	history[0].Content = "changed"
	assert.Equal(t, "q1", store.History(1, 2)[0].Content)

	assert.True(t, store.Clear(1, 2))
	assert.False(t, store.Clear(1, 2))
	assert.Empty(t, store.History(1, 2))
}

func TestCooldownTracker(t *testing.T) {
	tracker, err := NewCooldownTracker(30 * time.Second)
	require.NoError(t, err)

	now := testNow
	tracker.now = func() time.Time { return now }

	assert.True(t, tracker.Allow(1))
	assert.False(t, tracker.Allow(1))
	assert.True(t, tracker.Allow(2))

	now = now.Add(31 * time.Second)
	assert.True(t, tracker.Allow(1))
}

func TestChatService_Chat_RemembersHistory(t *testing.T) {
	ctx := context.Background()
	llm := new(MockLLM)
	svc := newTestChatService(t, llm, nil)

	llm.On("Complete", ctx, mock.MatchedBy(func(req ai.CompletionRequest) bool {
		return len(req.Messages) == 1 && req.System == ai.DefaultChatSystem
	})).Return("first answer", nil).Once()
	llm.On("Complete", ctx, mock.MatchedBy(func(req ai.CompletionRequest) bool {
		return len(req.Messages) == 3 && req.Messages[1].Content == "first answer"
	})).Return("second answer", nil).Once()

	reply, err := svc.Chat(ctx, ChatRequest{UserID: 1, ChannelID: 2, Prompt: "hi", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, "first answer", reply)

	reply, err = svc.Chat(ctx, ChatRequest{UserID: 1, ChannelID: 2, Prompt: "and then?", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, "second answer", reply)

	llm.AssertExpectations(t)
}

func TestChatService_Chat_ErrorIsNotRemembered(t *testing.T) {
	ctx := context.Background()
	llm := new(MockLLM)
	svc := newTestChatService(t, llm, nil)

	llm.On("Complete", ctx, mock.Anything).Return("", ai.ErrNotConfigured)

	_, err := svc.Chat(ctx, ChatRequest{UserID: 1, ChannelID: 2, Prompt: "hi", Remember: true})

	assert.ErrorIs(t, err, ai.ErrNotConfigured)
	assert.Empty(t, svc.conversations.History(1, 2))
}

func TestChatService_Persona_Unknown(t *testing.T) {
	svc := newTestChatService(t, new(MockLLM), nil)

	_, err := svc.Persona(context.Background(), "pirate", "ahoy")

	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestChatService_TwentyQuestions(t *testing.T) {
	ctx := context.Background()
	llm := new(MockLLM)
	svc := newTestChatService(t, llm, nil)

	llm.On("Complete", ctx, mock.Anything).Return("Is it an animal?", nil)

	_, err := svc.StartGame(ctx, 1, 2, models.GameTwentyQuestions, "")
	require.NoError(t, err)

	// Messages in other channels are not part of the game
	turn, err := svc.ContinueGame(ctx, 1, 99, "yes")
	require.NoError(t, err)
	assert.Nil(t, turn)

	for i := 1; i < TwentyQuestionsLimit; i++ {
		turn, err = svc.ContinueGame(ctx, 1, 2, "no")
		require.NoError(t, err)
		require.NotNil(t, turn)
		assert.False(t, turn.Finished)
		assert.Equal(t, TwentyQuestionsLimit-i, turn.QuestionsLeft)
	}

	turn, err = svc.ContinueGame(ctx, 1, 2, "yes")
	require.NoError(t, err)
	assert.True(t, turn.Finished)
	assert.Equal(t, 0, turn.QuestionsLeft)

	turn, err = svc.ContinueGame(ctx, 1, 2, "hello?")
	require.NoError(t, err)
	assert.Nil(t, turn)
}

func TestChatService_PruneGames(t *testing.T) {
	ctx := context.Background()
	llm := new(MockLLM)
	svc := newTestChatService(t, llm, nil)

	llm.On("Complete", ctx, mock.Anything).Return("Welcome, detective.", nil)

	_, err := svc.StartGame(ctx, 1, 2, models.GameMystery, "simple")
	require.NoError(t, err)
	_, err = svc.StartGame(ctx, 3, 2, models.GameWordGame, "rhyme")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.PruneGames())

	svc.now = func() time.Time { return testNow.Add(gameSessionTTL + time.Minute) }
	assert.Equal(t, 2, svc.PruneGames())
	assert.False(t, svc.EndGame(1))
}

func TestChatService_StartGame_UnknownVariant(t *testing.T) {
	svc := newTestChatService(t, new(MockLLM), nil)

	_, err := svc.StartGame(context.Background(), 1, 2, models.GameWordGame, "crossword")

	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestChatService_SassyReply(t *testing.T) {
	ctx := context.Background()

	t.Run("model reply is truncated", func(t *testing.T) {
		llm := new(MockLLM)
		svc := newTestChatService(t, llm, &scriptedRandom{floats: []float64{0.1}})

		long := make([]rune, 300)
		for i := range long {
			long[i] = 'x'
		}
		llm.On("Enabled").Return(true)
		llm.On("Complete", ctx, mock.MatchedBy(func(req ai.CompletionRequest) bool {
			return req.Fast && req.MaxTokens == sassyMaxTokens
		})).Return(string(long), nil)

		reply, ok := svc.SassyReply(ctx, 1, "sam", "hey bot")

		assert.True(t, ok)
		assert.Len(t, []rune(reply), sassyMaxLength)
	})

	t.Run("falls back to a quip and enforces the cooldown", func(t *testing.T) {
		llm := new(MockLLM)
		svc := newTestChatService(t, llm, &scriptedRandom{floats: []float64{0.1}, ints: []int{3}})

		llm.On("Enabled").Return(true)
		llm.On("Complete", ctx, mock.Anything).Return("", errors.New("rate limited"))

		reply, ok := svc.SassyReply(ctx, 1, "sam", "hey bot")
		assert.True(t, ok)
		assert.Equal(t, SassyQuips[3], reply)

		_, ok = svc.SassyReply(ctx, 1, "sam", "hello??")
		assert.False(t, ok)
	})

	t.Run("quip when not configured", func(t *testing.T) {
		llm := new(MockLLM)
		svc := newTestChatService(t, llm, &scriptedRandom{ints: []int{0}})

		llm.On("Enabled").Return(false)

		reply, ok := svc.SassyReply(ctx, 1, "sam", "hey bot")
		assert.True(t, ok)
		assert.Equal(t, SassyQuips[0], reply)
		llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})
}
