package games

import (
	"testing"

	"github.com/whoami669/my-bot/models"
	"github.com/whoami669/my-bot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningEmbed(t *testing.T) {
	twenty := openingEmbed(models.GameTwentyQuestions, "", "I'm thinking of something.")
	assert.Equal(t, "🎯 20 Questions Game Started!", twenty.Title)
	assert.Contains(t, twenty.Description, "**Questions remaining: 20**")

	word := openingEmbed(models.GameWordGame, "rhyme", "Cat")
	assert.Equal(t, "🎵 Rhyme Game", word.Title)
	require.NotNil(t, word.Footer)
	assert.Equal(t, "Reply to participate!", word.Footer.Text)

	mystery := openingEmbed(models.GameMystery, "complex", "A body in the library.")
	assert.Equal(t, "🔍 Complex Mystery", mystery.Title)
}

func TestOpeningEmbedFiltersOutput(t *testing.T) {
	embed := openingEmbed(models.GameMystery, "simple", "HYPE TRAIN incoming")
	assert.Equal(t, service.BlockedMessage, embed.Description)
}

func TestTurnEmbed(t *testing.T) {
	last := turnEmbed(&models.GameTurn{Kind: models.GameTwentyQuestions, Reply: "Yes!", QuestionsLeft: 0, Finished: true})
	assert.Equal(t, "Yes!\n\n**Questions remaining: 0**", last.Description)
	require.NotNil(t, last.Footer)

	ongoing := turnEmbed(&models.GameTurn{Kind: models.GameTwentyQuestions, Reply: "No.", QuestionsLeft: 12})
	assert.Nil(t, ongoing.Footer)

	mystery := turnEmbed(&models.GameTurn{Kind: models.GameMystery, Reply: "The butler left early."})
	assert.Equal(t, "🔍 Investigation Results", mystery.Title)
}
