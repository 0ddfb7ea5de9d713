package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"

	"github.com/jackc/pgx/v5"
)

// ReminderRepository implements the ReminderRepository interface
type ReminderRepository struct {
	q       Queryable
	guildID int64
}

// NewReminderRepository creates a reminder repository outside a transaction
func NewReminderRepository(db *database.DB, guildID int64) *ReminderRepository {
	return &ReminderRepository{q: db.Pool, guildID: guildID}
}

func newReminderRepository(tx Queryable, guildID int64) *ReminderRepository {
	return &ReminderRepository{q: tx, guildID: guildID}
}

// Create stores a new reminder
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (guild_id, discord_id, channel_id, reminder_text, remind_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, reminder.DiscordID, reminder.ChannelID, reminder.Text, reminder.RemindAt).
		Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reminder for user %d: %w", reminder.DiscordID, err)
	}

	reminder.GuildID = r.guildID
	return nil
}

// CountPending returns how many reminders a user has queued
func (r *ReminderRepository) CountPending(ctx context.Context, discordID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM reminders WHERE guild_id = $1 AND discord_id = $2`,
		r.guildID, discordID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders for user %d: %w", discordID, err)
	}
	return count, nil
}

// GetDue returns reminders due at or before now, locking them so that
// overlapping delivery runs skip rows already being delivered
func (r *ReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	query := `
		SELECT id, guild_id, discord_id, channel_id, reminder_text, remind_at, created_at
		FROM reminders
		WHERE guild_id = $1 AND remind_at <= $2
		ORDER BY remind_at ASC
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.q.Query(ctx, query, r.guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		var rem models.Reminder
		err := rows.Scan(&rem.ID, &rem.GuildID, &rem.DiscordID, &rem.ChannelID, &rem.Text, &rem.RemindAt, &rem.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// Delete removes a reminder
func (r *ReminderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM reminders WHERE guild_id = $1 AND id = $2`, r.guildID, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder %d: %w", id, err)
	}
	return nil
}

// GetGuildsWithDueReminders lists every guild with a due reminder, ignoring the guild scope
func (r *ReminderRepository) GetGuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT guild_id FROM reminders WHERE remind_at <= $1 ORDER BY guild_id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get guilds with due reminders: %w", err)
	}

	guilds, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect guild IDs: %w", err)
	}
	return guilds, nil
}
