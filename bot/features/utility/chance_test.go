package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns its values in order, modulo n
type sequence struct {
	values []int
	next   int
}

func (s *sequence) IntN(n int) int {
	v := s.values[s.next%len(s.values)] % n
	s.next++
	return v
}

func (s *sequence) Float64() float64 { return 0 }

func TestRollDice(t *testing.T) {
	rolls := rollDice(&sequence{values: []int{0, 5, 2}}, 6, 3)
	assert.Equal(t, []int{1, 6, 3}, rolls)
}

func TestBuildDiceEmbed(t *testing.T) {
	single := buildDiceEmbed([]int{4})
	assert.Equal(t, "You rolled a **4**", single.Description)
	assert.Empty(t, single.Fields)

	many := buildDiceEmbed([]int{1, 6, 3})
	require.Len(t, many.Fields, 2)
	assert.Equal(t, "1 + 6 + 3", many.Fields[0].Value)
	assert.Equal(t, "10", many.Fields[1].Value)
}

func TestPollLines(t *testing.T) {
	assert.Equal(t, "1️⃣ red\n2️⃣ blue\n", pollLines([]string{"red", "blue"}))
}

func TestEightBallAnswers(t *testing.T) {
	assert.Len(t, eightBallAnswers, 20)
	assert.Len(t, pollEmojis, 10)
}
