package models

// BalanceInfo is what /balance shows for a member
type BalanceInfo struct {
	DiscordID int64
	Balance   int64
	Rank      int // 0 when the member has no account yet
	Stats     *EconomyStats
	Recent    []*BalanceHistory // Newest first
}

// DailyResult is the outcome of a daily claim
type DailyResult struct {
	Reward     int64
	Bonus      int64
	Streak     int
	NewBalance int64
}

// WorkResult is the outcome of a shift
type WorkResult struct {
	Job        string
	Earned     int64
	NewBalance int64
}

// CrimeResult is the outcome of a crime attempt
type CrimeResult struct {
	Crime      string
	Success    bool
	Earned     int64
	Fine       int64
	NewBalance int64
}

// RobResult is the outcome of a robbery attempt
type RobResult struct {
	Success       bool
	Stolen        int64
	StolenPercent int
	Fine          int64
	NewBalance    int64
	VictimBalance int64
}

// TransferResult is the outcome of a /give
type TransferResult struct {
	Amount           int64
	NewBalance       int64
	RecipientBalance int64
}
