package welcome

import (
	"testing"
	"time"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestStartedBoosting(t *testing.T) {
	since := time.Now()

	tests := []struct {
		name   string
		before *discordgo.Member
		after  *discordgo.Member
		want   bool
	}{
		{name: "starts boosting", before: &discordgo.Member{}, after: &discordgo.Member{PremiumSince: &since}, want: true},
		{name: "already boosting", before: &discordgo.Member{PremiumSince: &since}, after: &discordgo.Member{PremiumSince: &since}},
		{name: "stops boosting", before: &discordgo.Member{PremiumSince: &since}, after: &discordgo.Member{}},
		{name: "unknown previous state", after: &discordgo.Member{PremiumSince: &since}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startedBoosting(tt.before, tt.after))
		})
	}
}

func TestEventEmbeds(t *testing.T) {
	user := &discordgo.User{ID: "42", Username: "ana"}
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	arrival := buildArrivalEmbed(user, now)
	assert.Equal(t, "New Arrival 🚀", arrival.Title)
	assert.Equal(t, "Yoooo welcome in **<@42>**", arrival.Description)
	assert.Equal(t, common.ColorSuccess, arrival.Color)
	assert.Equal(t, "Joined on 2024-03-01 09:30:00 UTC", arrival.Footer.Text)

	departure := buildDepartureEmbed(user, now)
	assert.Equal(t, "**ana** went to go touch some grass", departure.Description)
	assert.Equal(t, 0xED4245, departure.Color)

	boost := buildBoostEmbed(user, 7)
	assert.Equal(t, 0x9B59B6, boost.Color)
	assert.Equal(t, "Total Boosts: 7", boost.Footer.Text)
}
