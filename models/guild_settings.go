package models

// GuildSettings represents per-guild configuration settings
type GuildSettings struct {
	GuildID                int64  `db:"guild_id"`
	WelcomeChannelID       *int64 `db:"welcome_channel_id"`        // Nullable - join announcements
	LeavesChannelID        *int64 `db:"leaves_channel_id"`         // Nullable - departure announcements
	BoostsChannelID        *int64 `db:"boosts_channel_id"`         // Nullable - boost announcements
	AILogsChannelID        *int64 `db:"ai_logs_channel_id"`        // Nullable - autonomous suggestions
	CognitiveLogsChannelID *int64 `db:"cognitive_logs_channel_id"` // Nullable - cognitive reports
	LevelingEnabled        bool   `db:"leveling_enabled"`
	AutonomousEnabled      bool   `db:"autonomous_enabled"`
}
