package models

import "time"

// UserLevel tracks message XP for a member of a guild
type UserLevel struct {
	GuildID   int64      `db:"guild_id"`
	DiscordID int64      `db:"discord_id"`
	XP        int64      `db:"xp"`
	Level     int        `db:"level"`
	Messages  int64      `db:"messages"`
	LastXPAt  *time.Time `db:"last_xp_at"`
}

// RankedLevel is a UserLevel together with its position in the guild
type RankedLevel struct {
	UserLevel
	Rank int
}

// LevelUp describes a level boundary crossed by a message
type LevelUp struct {
	OldLevel int
	NewLevel int
	Reward   int64
}
