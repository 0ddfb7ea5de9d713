package service

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/models"
)

// ChannelKind names one of the announcement channels stored in guild settings
type ChannelKind string

const (
	ChannelWelcome       ChannelKind = "welcome"
	ChannelLeaves        ChannelKind = "leaves"
	ChannelBoosts        ChannelKind = "boosts"
	ChannelAILogs        ChannelKind = "ai-logs"
	ChannelCognitiveLogs ChannelKind = "ai-cognitive-logs"
)

// ChannelKinds lists every configurable announcement channel
var ChannelKinds = []ChannelKind{ChannelWelcome, ChannelLeaves, ChannelBoosts, ChannelAILogs, ChannelCognitiveLogs}

// SettingToggle names an on/off guild feature
type SettingToggle string

const (
	ToggleLeveling   SettingToggle = "leveling"
	ToggleAutonomous SettingToggle = "autonomous"
)

// ChannelID returns the configured channel of a kind, or nil
func ChannelID(settings *models.GuildSettings, kind ChannelKind) *int64 {
	switch kind {
	case ChannelWelcome:
		return settings.WelcomeChannelID
	case ChannelLeaves:
		return settings.LeavesChannelID
	case ChannelBoosts:
		return settings.BoostsChannelID
	case ChannelAILogs:
		return settings.AILogsChannelID
	case ChannelCognitiveLogs:
		return settings.CognitiveLogsChannelID
	default:
		return nil
	}
}

// guildSettingsService implements the GuildSettingsService interface
type guildSettingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(uowFactory UnitOfWorkFactory) GuildSettingsService {
	return &guildSettingsService{
		uowFactory: uowFactory,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones if not found
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}

	// Commit in case new settings were created
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

// UpdateChannel stores the channel used for one announcement kind
func (s *guildSettingsService) UpdateChannel(ctx context.Context, guildID int64, kind ChannelKind, channelID int64) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) error {
		switch kind {
		case ChannelWelcome:
			settings.WelcomeChannelID = &channelID
		case ChannelLeaves:
			settings.LeavesChannelID = &channelID
		case ChannelBoosts:
			settings.BoostsChannelID = &channelID
		case ChannelAILogs:
			settings.AILogsChannelID = &channelID
		case ChannelCognitiveLogs:
			settings.CognitiveLogsChannelID = &channelID
		default:
			return fmt.Errorf("unknown channel kind %q", kind)
		}
		return nil
	})
}

// SetToggle switches a guild feature on or off
func (s *guildSettingsService) SetToggle(ctx context.Context, guildID int64, toggle SettingToggle, enabled bool) error {
	return s.update(ctx, guildID, func(settings *models.GuildSettings) error {
		switch toggle {
		case ToggleLeveling:
			settings.LevelingEnabled = enabled
		case ToggleAutonomous:
			settings.AutonomousEnabled = enabled
		default:
			return fmt.Errorf("unknown setting %q", toggle)
		}
		return nil
	})
}

func (s *guildSettingsService) update(ctx context.Context, guildID int64, apply func(*models.GuildSettings) error) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if err := apply(settings); err != nil {
		return err
	}

	if err := uow.GuildSettingsRepository().UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
