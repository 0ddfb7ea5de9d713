package testutil

import (
	"time"

	"github.com/whoami669/my-bot/models"
)

// CreateTestBalanceHistory creates a balance history entry that moves a
// balance from before to after
func CreateTestBalanceHistory(discordID int64, before, after int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestReminder creates a reminder due at remindAt
func CreateTestReminder(discordID int64, text string, remindAt time.Time) *models.Reminder {
	return &models.Reminder{
		DiscordID: discordID,
		ChannelID: 555,
		Text:      text,
		RemindAt:  remindAt,
	}
}

// CreateTestDecision creates an AI decision with a fixed action payload
func CreateTestDecision(engine models.DecisionEngine, decisionType string, confidence float64) *models.AIDecision {
	return &models.AIDecision{
		Engine:       engine,
		DecisionType: decisionType,
		Target:       "general",
		Action:       map[string]any{"target": "general"},
		Reasoning:    "activity dropped this week",
		Confidence:   confidence,
	}
}

// CreateTestActivity creates a message activity row
func CreateTestActivity(channelID, discordID int64, at time.Time) *models.MessageActivity {
	return &models.MessageActivity{
		ChannelID:     channelID,
		DiscordID:     discordID,
		MessageLength: 42,
		CreatedAt:     at,
	}
}
