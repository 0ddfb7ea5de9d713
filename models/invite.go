package models

import "time"

// InviteRecord attributes one member join to the invite that was used
type InviteRecord struct {
	ID          int64      `db:"id"`
	GuildID     int64      `db:"guild_id"`
	InviterID   int64      `db:"inviter_id"`
	InvitedID   int64      `db:"invited_id"`
	InviteCode  string     `db:"invite_code"`
	JoinedAt    time.Time  `db:"joined_at"`
	StillMember bool       `db:"still_member"`
	LeftAt      *time.Time `db:"left_at"`
}

// InviteSnapshot is the use count of one invite code at a point in time
type InviteSnapshot struct {
	Code      string
	InviterID int64
	Uses      int
}

// InviteMilestone is a reward tier reached by an inviter
type InviteMilestone struct {
	Count    int
	RoleName string
	Emoji    string
}

// InviteJoin is the result of attributing a join to an inviter
type InviteJoin struct {
	InviterID  int64
	InvitedID  int64
	InviteCode string
	Total      int
	Milestone  *InviteMilestone // Set when Total hit a reward tier exactly
}

// InviteStats is what /my-invites shows
type InviteStats struct {
	Total         int
	NextMilestone int // 0 when every milestone is reached
}
