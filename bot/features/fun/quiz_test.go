package fun

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom int

func (r fixedRandom) IntN(n int) int   { return int(r) % n }
func (r fixedRandom) Float64() float64 { return 0 }

func TestParseCustomID(t *testing.T) {
	tests := []struct {
		customID   string
		wantKey    string
		wantChoice string
		wantOK     bool
	}{
		{"trivia:123:B", "123", "B", true},
		{"trivia:123:E", "", "", false},
		{"trivia:123", "", "", false},
		{"trivia::A", "", "", false},
		{"riddle:456", "456", "", true},
		{"riddle:", "", "", false},
		{"poll:1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.customID, func(t *testing.T) {
			key, choice, ok := parseCustomID(tt.customID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantChoice, choice)
		})
	}
}

func TestTriviaResultEmbed(t *testing.T) {
	q := triviaBank[1].toQuestion()
	require.Equal(t, "B", q.Correct)

	right := triviaResultEmbed(q, "B")
	assert.Equal(t, "✅ Correct!", right.Title)
	assert.Equal(t, "Great job! The answer is **B) Mars**", right.Description)

	wrong := triviaResultEmbed(q, "D")
	assert.Equal(t, "❌ Incorrect", wrong.Title)
	assert.Equal(t, "The correct answer is **B) Mars**", wrong.Description)
}

func TestCorrectOptionFallsBackToLetter(t *testing.T) {
	q := &models.TriviaQuestion{Options: []string{"only one"}, Correct: "C"}
	assert.Equal(t, "C", correctOption(q))
}

func TestTriviaButtons(t *testing.T) {
	rows := triviaButtons("42", 6)
	require.Len(t, rows, 1)
	row := rows[0].(*discordgo.ActionsRow)
	require.Len(t, row.Components, 4)
	assert.Equal(t, "trivia:42:D", row.Components[3].(*discordgo.Button).CustomID)

	assert.True(t, IsQuizComponent("trivia:42:A"))
	assert.True(t, IsQuizComponent("riddle:42"))
	assert.False(t, IsQuizComponent("poll:42"))
}

func TestQuizTakeResolvesOnce(t *testing.T) {
	q := NewQuiz()
	var expired atomic.Int32
	q.register("k", &challenge{invokerID: "1"}, time.Hour, func(*challenge) { expired.Add(1) })

	assert.NotNil(t, q.peek("k"))
	assert.NotNil(t, q.take("k"))
	assert.Nil(t, q.take("k"))
	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, int32(0), expired.Load())
}

func TestQuizExpiry(t *testing.T) {
	q := NewQuiz()
	done := make(chan *challenge, 1)
	q.register("k", &challenge{invokerID: "1"}, 10*time.Millisecond, func(c *challenge) { done <- c })

	select {
	case c := <-done:
		assert.Equal(t, "1", c.invokerID)
	case <-time.After(2 * time.Second):
		t.Fatal("challenge did not expire")
	}
	assert.Nil(t, q.peek("k"))
}

func TestPick(t *testing.T) {
	assert.Equal(t, jokes[3], pick(fixedRandom(3), jokes))
	assert.Equal(t, "A", triviaBank[0].toQuestion().Correct)
	assert.Equal(t, "\"Don't let yesterday take up too much of today.\"", quoteEmbed(pick(fixedRandom(8), quotes)).Description)
}
