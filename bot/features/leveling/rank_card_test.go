package leveling

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCard_Progress(t *testing.T) {
	card := RankCard{Level: 2, XP: 300, LevelStartXP: 200, NextLevelXP: 450}
	earned, span := card.Progress()
	assert.Equal(t, int64(100), earned)
	assert.Equal(t, int64(250), span)
}

func TestRenderRankCard(t *testing.T) {
	data, err := RenderRankCard(RankCard{
		DisplayName:  "A member with a rather long display name",
		Rank:         4,
		Level:        3,
		XP:           500,
		LevelStartXP: 450,
		NextLevelXP:  800,
		Messages:     1234,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestBuildRankEmbed(t *testing.T) {
	embed := buildRankEmbed(RankCard{DisplayName: "Ana", Rank: 1, Level: 1, XP: 100, LevelStartXP: 50, NextLevelXP: 200, Messages: 12})
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "#1", embed.Fields[0].Value)
	assert.Equal(t, "███░░░░░░░ 50/150 XP", embed.Fields[3].Value)
}
