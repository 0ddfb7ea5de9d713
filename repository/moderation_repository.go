package repository

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

// ModerationRepository implements the ModerationRepository interface
type ModerationRepository struct {
	q       Queryable
	guildID int64
}

// NewModerationRepository creates a moderation repository outside a transaction
func NewModerationRepository(db *database.DB, guildID int64) *ModerationRepository {
	return &ModerationRepository{q: db.Pool, guildID: guildID}
}

func newModerationRepository(tx Queryable, guildID int64) *ModerationRepository {
	return &ModerationRepository{q: tx, guildID: guildID}
}

// AddWarning stores a warning and fills in its ID and timestamp
func (r *ModerationRepository) AddWarning(ctx context.Context, warning *models.Warning) error {
	query := `
		INSERT INTO warnings (guild_id, discord_id, moderator_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, warning.DiscordID, warning.ModeratorID, warning.Reason).
		Scan(&warning.ID, &warning.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add warning for user %d: %w", warning.DiscordID, err)
	}

	warning.GuildID = r.guildID
	return nil
}

func (r *ModerationRepository) CountWarnings(ctx context.Context, discordID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND discord_id = $2`,
		r.guildID, discordID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %d: %w", discordID, err)
	}
	return count, nil
}

// ListWarnings returns a member's warnings, oldest first
func (r *ModerationRepository) ListWarnings(ctx context.Context, discordID int64) ([]*models.Warning, error) {
	query := `
		SELECT id, guild_id, discord_id, moderator_id, reason, created_at
		FROM warnings
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings for user %d: %w", discordID, err)
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		var w models.Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.DiscordID, &w.ModeratorID, &w.Reason, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warnings: %w", err)
	}

	return warnings, nil
}

// ClearWarnings deletes every warning of a member and returns how many were removed
func (r *ModerationRepository) ClearWarnings(ctx context.Context, discordID int64) (int64, error) {
	result, err := r.q.Exec(ctx,
		`DELETE FROM warnings WHERE guild_id = $1 AND discord_id = $2`,
		r.guildID, discordID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings for user %d: %w", discordID, err)
	}
	return result.RowsAffected(), nil
}

// LogAction appends to the moderation audit log
func (r *ModerationRepository) LogAction(ctx context.Context, entry *models.ModerationLog) error {
	query := `
		INSERT INTO moderation_logs (guild_id, target_id, moderator_id, action, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, entry.TargetID, entry.ModeratorID, entry.Action, entry.Reason).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log %s action: %w", entry.Action, err)
	}

	entry.GuildID = r.guildID
	return nil
}
