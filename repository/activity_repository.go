package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

// ActivityRepository implements the ActivityRepository interface
type ActivityRepository struct {
	q       Queryable
	guildID int64
}

// NewActivityRepository creates an activity repository outside a transaction
func NewActivityRepository(db *database.DB, guildID int64) *ActivityRepository {
	return &ActivityRepository{q: db.Pool, guildID: guildID}
}

func newActivityRepository(tx Queryable, guildID int64) *ActivityRepository {
	return &ActivityRepository{q: tx, guildID: guildID}
}

// LogMessage records one message for analytics
func (r *ActivityRepository) LogMessage(ctx context.Context, activity *models.MessageActivity) error {
	query := `
		INSERT INTO message_activity (guild_id, channel_id, discord_id, message_length, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.Exec(ctx, query, r.guildID, activity.ChannelID, activity.DiscordID, activity.MessageLength, activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log message activity in channel %d: %w", activity.ChannelID, err)
	}

	activity.GuildID = r.guildID
	return nil
}

// GetChannelStats returns message and author counts per channel since a point in time.
// Engagement is left for the caller to score.
func (r *ActivityRepository) GetChannelStats(ctx context.Context, since time.Time) ([]models.ChannelStats, error) {
	query := `
		SELECT channel_id, COUNT(*), COUNT(DISTINCT discord_id)
		FROM message_activity
		WHERE guild_id = $1 AND created_at >= $2
		GROUP BY channel_id
		ORDER BY COUNT(*) DESC, channel_id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ChannelStats
	for rows.Next() {
		var s models.ChannelStats
		if err := rows.Scan(&s.ChannelID, &s.Messages, &s.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan channel stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channel stats: %w", err)
	}

	return stats, nil
}

// GetDailyTrends returns per-day message volume, oldest day first
func (r *ActivityRepository) GetDailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COUNT(DISTINCT discord_id)
		FROM message_activity
		WHERE guild_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily trends: %w", err)
	}
	defer rows.Close()

	var trends []models.DailyTrend
	for rows.Next() {
		var t models.DailyTrend
		if err := rows.Scan(&t.Day, &t.Messages, &t.ActiveUsers); err != nil {
			return nil, fmt.Errorf("failed to scan daily trend: %w", err)
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily trends: %w", err)
	}

	return trends, nil
}

// GetTopUsers returns the members with the most messages since a point in time
func (r *ActivityRepository) GetTopUsers(ctx context.Context, since time.Time, limit int) ([]models.UserActivity, error) {
	query := `
		SELECT discord_id, COUNT(*) AS messages
		FROM message_activity
		WHERE guild_id = $1 AND created_at >= $2
		GROUP BY discord_id
		ORDER BY messages DESC, discord_id ASC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []models.UserActivity
	for rows.Next() {
		var u models.UserActivity
		if err := rows.Scan(&u.DiscordID, &u.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan user activity: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user activity: %w", err)
	}

	return users, nil
}

// GetTotals returns the message count and distinct author count since a point in time
func (r *ActivityRepository) GetTotals(ctx context.Context, since time.Time) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COUNT(DISTINCT discord_id)
		FROM message_activity
		WHERE guild_id = $1 AND created_at >= $2
	`

	var messages, users int64
	if err := r.q.QueryRow(ctx, query, r.guildID, since).Scan(&messages, &users); err != nil {
		return 0, 0, fmt.Errorf("failed to get activity totals: %w", err)
	}

	return messages, users, nil
}
