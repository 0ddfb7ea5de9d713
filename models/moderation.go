package models

import "time"

// ModerationAction names an action recorded in the moderation log
type ModerationAction string

const (
	ModerationActionKick          ModerationAction = "kick"
	ModerationActionBan           ModerationAction = "ban"
	ModerationActionUnban         ModerationAction = "unban"
	ModerationActionTimeout       ModerationAction = "timeout"
	ModerationActionUntimeout     ModerationAction = "untimeout"
	ModerationActionClear         ModerationAction = "clear"
	ModerationActionWarn          ModerationAction = "warn"
	ModerationActionClearWarnings ModerationAction = "clear_warnings"
)

// Warning is a single warning issued to a member
type Warning struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	DiscordID   int64     `db:"discord_id"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

// ModerationLog is an audit row for any moderation action
type ModerationLog struct {
	ID          int64            `db:"id"`
	GuildID     int64            `db:"guild_id"`
	TargetID    int64            `db:"target_id"`
	ModeratorID int64            `db:"moderator_id"`
	Action      ModerationAction `db:"action"`
	Reason      string           `db:"reason"`
	CreatedAt   time.Time        `db:"created_at"`
}

// WarnResult is returned after a warning is stored
type WarnResult struct {
	Count              int
	Reason             string
	Escalation         ModerationAction // Empty when no threshold was hit
	EscalationDuration time.Duration
}
