package moderation

import (
	"fmt"
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(id, author string, age time.Duration, now time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		Author:    &discordgo.User{ID: author},
		Timestamp: now.Add(-age),
	}
}

func TestSelectForClear(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	messages := []*discordgo.Message{
		message("1", "a", time.Minute, now),
		message("2", "b", time.Hour, now),
		message("3", "a", 2*time.Hour, now),
		message("4", "a", 15*24*time.Hour, now),
	}

	tests := []struct {
		name     string
		authorID string
		amount   int
		want     []string
	}{
		{name: "limits to amount", amount: 2, want: []string{"1", "2"}},
		{name: "skips messages outside the bulk window", amount: 10, want: []string{"1", "2", "3"}},
		{name: "filters by author", authorID: "a", amount: 10, want: []string{"1", "3"}},
		{name: "no matches", authorID: "z", amount: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectForClear(messages, tt.authorID, tt.amount, now))
		})
	}
}

func TestBuildWarningsEmbed(t *testing.T) {
	embed := buildWarningsEmbed("Ana", nil)
	assert.Equal(t, "No warnings on record.", embed.Description)
	assert.Empty(t, embed.Fields)

	var warnings []*models.Warning
	for n := 0; n < 12; n++ {
		warnings = append(warnings, &models.Warning{
			ModeratorID: 42,
			Reason:      fmt.Sprintf("reason %d", n),
			CreatedAt:   time.Unix(1700000000, 0),
		})
	}

	embed = buildWarningsEmbed("Ana", warnings)
	assert.Equal(t, "**12** warnings on record", embed.Description)
	require.Len(t, embed.Fields, maxListedWarnings)
	assert.Equal(t, "#12 · <t:1700000000:d>", embed.Fields[0].Name)
	assert.Equal(t, "reason 0\nby <@42>", embed.Fields[0].Value)
	require.NotNil(t, embed.Footer)
}

func TestBuildWarnEmbed(t *testing.T) {
	embed := buildWarnEmbed("7", &models.WarnResult{Count: 3, Reason: "spam"})
	assert.Equal(t, "<@7> has been warned.", embed.Description)
	assert.Equal(t, "3", embed.Fields[1].Value)
}
