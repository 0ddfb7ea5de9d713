package models

import "time"

// MessageActivity is one logged guild message
type MessageActivity struct {
	GuildID       int64     `db:"guild_id"`
	ChannelID     int64     `db:"channel_id"`
	DiscordID     int64     `db:"discord_id"`
	MessageLength int       `db:"message_length"`
	CreatedAt     time.Time `db:"created_at"`
}

// ChannelStats aggregates message activity for one channel over a window
type ChannelStats struct {
	ChannelID   int64
	Messages    int64
	UniqueUsers int64
	Engagement  float64
}

// DailyTrend is the message volume of one day
type DailyTrend struct {
	Day         time.Time
	Messages    int64
	ActiveUsers int64
}

// UserActivity is a member's message count over a window
type UserActivity struct {
	DiscordID int64
	Messages  int64
}

// CommunityInsights is the analytics snapshot fed to the AI engines
type CommunityInsights struct {
	GuildID         int64
	GeneratedAt     time.Time
	TotalMessages   int64
	ActiveUsers     int64
	TopChannels     []ChannelStats
	QuietChannels   []ChannelStats
	DailyTrends     []DailyTrend
	TopUsers        []UserActivity
	ChannelsTracked int
}
