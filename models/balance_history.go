package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeDaily           TransactionType = "daily"
	TransactionTypeWork            TransactionType = "work"
	TransactionTypeCrimeWin        TransactionType = "crime_win"
	TransactionTypeCrimeFine       TransactionType = "crime_fine"
	TransactionTypeRobWin          TransactionType = "rob_win"
	TransactionTypeRobVictim       TransactionType = "rob_victim"
	TransactionTypeRobFine         TransactionType = "rob_fine"
	TransactionTypeTransferIn      TransactionType = "transfer_in"
	TransactionTypeTransferOut     TransactionType = "transfer_out"
	TransactionTypeLevelReward     TransactionType = "level_reward"
	TransactionTypeCommunityReward TransactionType = "community_reward"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	GuildID             int64           `db:"guild_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
