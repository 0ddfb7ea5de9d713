package repository

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/models"
)

const guildSettingsColumns = `guild_id, welcome_channel_id, leaves_channel_id, boosts_channel_id,
	ai_logs_channel_id, cognitive_logs_channel_id, leveling_enabled, autonomous_enabled`

// GuildSettingsRepository implements the GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q Queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

func newGuildSettingsRepository(tx Queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
func (r *GuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	// The no-op update makes RETURNING yield the existing row on conflict
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING ` + guildSettingsColumns

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.WelcomeChannelID,
		&settings.LeavesChannelID,
		&settings.BoostsChannelID,
		&settings.AILogsChannelID,
		&settings.CognitiveLogsChannelID,
		&settings.LevelingEnabled,
		&settings.AutonomousEnabled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// UpdateGuildSettings updates guild settings
func (r *GuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET welcome_channel_id = $2,
		    leaves_channel_id = $3,
		    boosts_channel_id = $4,
		    ai_logs_channel_id = $5,
		    cognitive_logs_channel_id = $6,
		    leveling_enabled = $7,
		    autonomous_enabled = $8,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.WelcomeChannelID,
		settings.LeavesChannelID,
		settings.BoostsChannelID,
		settings.AILogsChannelID,
		settings.CognitiveLogsChannelID,
		settings.LevelingEnabled,
		settings.AutonomousEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", settings.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d not found", settings.GuildID)
	}

	return nil
}
