package models

import "time"

// Reminder is a pending reminder delivered by the reminder worker
type Reminder struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	ChannelID int64     `db:"channel_id"`
	Text      string    `db:"reminder_text"`
	RemindAt  time.Time `db:"remind_at"`
	CreatedAt time.Time `db:"created_at"`
}
