package service

import (
	"context"
	"testing"

	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildSettingsService_UpdateChannel(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := NewGuildSettingsService(factory)

	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).Return(&models.GuildSettings{GuildID: testGuildID}, nil)
	uow.Settings.On("UpdateGuildSettings", ctx, mock.MatchedBy(func(s *models.GuildSettings) bool {
		return s.BoostsChannelID != nil && *s.BoostsChannelID == 42
	})).Return(nil)
	uow.On("Commit").Return(nil)

	require.NoError(t, svc.UpdateChannel(ctx, testGuildID, ChannelBoosts, 42))
	uow.AssertAll(t)
}

func TestGuildSettingsService_SetToggle(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := NewGuildSettingsService(factory)

	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).
		Return(&models.GuildSettings{GuildID: testGuildID, LevelingEnabled: true, AutonomousEnabled: true}, nil)
	uow.Settings.On("UpdateGuildSettings", ctx, mock.MatchedBy(func(s *models.GuildSettings) bool {
		return !s.LevelingEnabled && s.AutonomousEnabled
	})).Return(nil)
	uow.On("Commit").Return(nil)

	require.NoError(t, svc.SetToggle(ctx, testGuildID, ToggleLeveling, false))
	uow.AssertAll(t)
}

func TestGuildSettingsService_SetToggle_Unknown(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := NewGuildSettingsService(factory)

	uow.Settings.On("GetOrCreateGuildSettings", ctx, testGuildID).Return(&models.GuildSettings{GuildID: testGuildID}, nil)

	err := svc.SetToggle(ctx, testGuildID, SettingToggle("music"), true)
	assert.Error(t, err)
	uow.Settings.AssertNotCalled(t, "UpdateGuildSettings", mock.Anything, mock.Anything)
}

func TestChannelID(t *testing.T) {
	welcome := int64(7)
	settings := &models.GuildSettings{WelcomeChannelID: &welcome}

	assert.Equal(t, &welcome, ChannelID(settings, ChannelWelcome))
	assert.Nil(t, ChannelID(settings, ChannelLeaves))
	assert.Nil(t, ChannelID(settings, ChannelKind("nope")))
}
