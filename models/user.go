package models

import (
	"time"
)

// Account is a member's economy wallet inside one guild, together with the
// timestamps that drive the daily/work/crime/rob cooldowns
type Account struct {
	ID          int64      `db:"id"`
	GuildID     int64      `db:"guild_id"`
	DiscordID   int64      `db:"discord_id"`
	Balance     int64      `db:"balance"`
	LastDaily   *time.Time `db:"last_daily"`
	DailyStreak int        `db:"daily_streak"`
	LastWork    *time.Time `db:"last_work"`
	LastCrime   *time.Time `db:"last_crime"`
	LastRob     *time.Time `db:"last_rob"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// LeaderboardEntry is one ranked row of a balance or XP leaderboard
type LeaderboardEntry struct {
	Rank      int
	DiscordID int64
	Value     int64
}
