package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"

	"github.com/jackc/pgx/v5"
)

// LevelRepository implements the LevelRepository interface
type LevelRepository struct {
	q       Queryable
	guildID int64
}

// NewLevelRepository creates a level repository outside a transaction
func NewLevelRepository(db *database.DB, guildID int64) *LevelRepository {
	return &LevelRepository{q: db.Pool, guildID: guildID}
}

func newLevelRepository(tx Queryable, guildID int64) *LevelRepository {
	return &LevelRepository{q: tx, guildID: guildID}
}

// Get returns a member's level row, or nil when they never earned XP
func (r *LevelRepository) Get(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	query := `
		SELECT guild_id, discord_id, xp, level, messages, last_xp_at
		FROM user_levels
		WHERE guild_id = $1 AND discord_id = $2
		FOR UPDATE
	`

	var level models.UserLevel
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&level.GuildID,
		&level.DiscordID,
		&level.XP,
		&level.Level,
		&level.Messages,
		&level.LastXPAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level for user %d: %w", discordID, err)
	}

	return &level, nil
}

// Upsert writes the full level row
func (r *LevelRepository) Upsert(ctx context.Context, level *models.UserLevel) error {
	query := `
		INSERT INTO user_levels (guild_id, discord_id, xp, level, messages, last_xp_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (guild_id, discord_id) DO UPDATE
		SET xp = EXCLUDED.xp,
		    level = EXCLUDED.level,
		    messages = EXCLUDED.messages,
		    last_xp_at = EXCLUDED.last_xp_at
	`

	_, err := r.q.Exec(ctx, query, r.guildID, level.DiscordID, level.XP, level.Level, level.Messages, level.LastXPAt)
	if err != nil {
		return fmt.Errorf("failed to upsert level for user %d: %w", level.DiscordID, err)
	}

	level.GuildID = r.guildID
	return nil
}

// GetTop returns the members with the most XP
func (r *LevelRepository) GetTop(ctx context.Context, limit int) ([]*models.RankedLevel, error) {
	query := `
		SELECT guild_id, discord_id, xp, level, messages, last_xp_at
		FROM user_levels
		WHERE guild_id = $1 AND xp > 0
		ORDER BY xp DESC, discord_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get level leaderboard: %w", err)
	}
	defer rows.Close()

	var levels []*models.RankedLevel
	for rows.Next() {
		ranked := &models.RankedLevel{Rank: len(levels) + 1}
		err := rows.Scan(
			&ranked.GuildID,
			&ranked.DiscordID,
			&ranked.XP,
			&ranked.Level,
			&ranked.Messages,
			&ranked.LastXPAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		levels = append(levels, ranked)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate levels: %w", err)
	}

	return levels, nil
}

// GetRank returns the 1-based XP rank, or 0 when the member has no row
func (r *LevelRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	query := `
		SELECT 1 + (
			SELECT COUNT(*)
			FROM user_levels other
			WHERE other.guild_id = l.guild_id AND other.xp > l.xp
		)
		FROM user_levels l
		WHERE l.guild_id = $1 AND l.discord_id = $2
	`

	var rank int
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get level rank for user %d: %w", discordID, err)
	}

	return rank, nil
}
