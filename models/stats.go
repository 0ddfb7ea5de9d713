package models

// EconomyStats summarises a member's balance history
type EconomyStats struct {
	Transactions int64
	TotalEarned  int64
	TotalLost    int64
	BiggestGain  int64
	BiggestLoss  int64
}
