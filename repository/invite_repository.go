package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

// InviteRepository implements the InviteRepository interface
type InviteRepository struct {
	q       Queryable
	guildID int64
}

// NewInviteRepository creates an invite repository outside a transaction
func NewInviteRepository(db *database.DB, guildID int64) *InviteRepository {
	return &InviteRepository{q: db.Pool, guildID: guildID}
}

func newInviteRepository(tx Queryable, guildID int64) *InviteRepository {
	return &InviteRepository{q: tx, guildID: guildID}
}

// Record stores an attributed join
func (r *InviteRepository) Record(ctx context.Context, record *models.InviteRecord) error {
	query := `
		INSERT INTO invite_tracking (guild_id, inviter_id, invited_id, invite_code, joined_at, still_member)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		record.InviterID,
		record.InvitedID,
		record.InviteCode,
		record.JoinedAt,
		record.StillMember,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to record invite for user %d: %w", record.InvitedID, err)
	}

	record.GuildID = r.guildID
	return nil
}

// CountActiveInvites counts invited members that are still in the guild
func (r *InviteRepository) CountActiveInvites(ctx context.Context, inviterID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invite_tracking WHERE guild_id = $1 AND inviter_id = $2 AND still_member`,
		r.guildID, inviterID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invites for user %d: %w", inviterID, err)
	}
	return count, nil
}

// MarkLeft flags every active attribution of invitedID as no longer a member
func (r *InviteRepository) MarkLeft(ctx context.Context, invitedID int64, at time.Time) error {
	query := `
		UPDATE invite_tracking
		SET still_member = FALSE, left_at = $3
		WHERE guild_id = $1 AND invited_id = $2 AND still_member
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, invitedID, at); err != nil {
		return fmt.Errorf("failed to mark user %d as left: %w", invitedID, err)
	}
	return nil
}

// GetLeaderboard returns inviters ordered by active invites
func (r *InviteRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT inviter_id, COUNT(*) AS invites
		FROM invite_tracking
		WHERE guild_id = $1 AND still_member
		GROUP BY inviter_id
		ORDER BY invites DESC, inviter_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.DiscordID, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan invite leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invite leaderboard: %w", err)
	}

	return entries, nil
}
