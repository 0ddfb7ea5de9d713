package models

import "time"

// GeneratedContent is a stored promotional post produced for a platform
type GeneratedContent struct {
	ID            int64     `db:"id"`
	GuildID       int64     `db:"guild_id"`
	RequestedBy   int64     `db:"requested_by"`
	Platform      string    `db:"platform"`
	ContentType   string    `db:"content_type"`
	Caption       string    `db:"caption"`
	Hashtags      []string  `db:"hashtags"`
	ImagePrompt   string    `db:"image_prompt"`
	CallToAction  string    `db:"call_to_action"`
	PlatformNotes string    `db:"platform_notes"`
	ImageURL      *string   `db:"image_url"`
	CreatedAt     time.Time `db:"created_at"`
}
