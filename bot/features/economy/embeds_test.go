package economy

import (
	"testing"
	"time"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBalanceEmbed(t *testing.T) {
	embed := buildBalanceEmbed("Ana", &models.BalanceInfo{Balance: 12500, Rank: 3})
	assert.Equal(t, "Ana: **$12,500**", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "#3", embed.Fields[0].Value)

	embed = buildBalanceEmbed("Ana", &models.BalanceInfo{
		Balance: 0,
		Stats:   &models.EconomyStats{Transactions: 2, TotalEarned: 300, TotalLost: 100},
	})
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "$300", embed.Fields[0].Value)
	assert.Equal(t, "$100", embed.Fields[1].Value)
}

func TestBuildBalanceEmbed_RecentActivity(t *testing.T) {
	at := time.Unix(1700000000, 0)
	embed := buildBalanceEmbed("Ana", &models.BalanceInfo{
		Balance: 260,
		Rank:    1,
		Recent: []*models.BalanceHistory{
			{ChangeAmount: 200, TransactionType: models.TransactionTypeWork, CreatedAt: at},
			{ChangeAmount: -40, TransactionType: models.TransactionTypeCrimeFine, CreatedAt: at},
		},
	})

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Recent Activity", embed.Fields[1].Name)
	assert.Equal(t,
		"`+$200` Work <t:1700000000:R>\n`-$40` Crime fine <t:1700000000:R>\n",
		embed.Fields[1].Value)
}

func TestBuildDailyEmbed(t *testing.T) {
	embed := buildDailyEmbed(&models.DailyResult{Reward: 130, Bonus: 30, Streak: 3, NewBalance: 530})
	assert.Equal(t, "You received **$130**", embed.Description)
	assert.Equal(t, "3 days", embed.Fields[0].Value)
	assert.Equal(t, "$30", embed.Fields[1].Value)
}
