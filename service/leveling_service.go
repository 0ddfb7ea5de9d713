package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
)

const (
	XPPerMessageMin     int64 = 15
	XPPerMessageMax     int64 = 25
	XPCooldown                = 60 * time.Second
	xpPerLevelUnit            = 50
	LevelRewardPerLevel int64 = 100
)

// LevelForXP returns floor(sqrt(xp/50))
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(xp) / xpPerLevelUnit))
}

// XPForLevel returns the XP needed to reach a level
func XPForLevel(level int) int64 {
	return int64(level) * int64(level) * xpPerLevelUnit
}

type levelingService struct {
	uowFactory UnitOfWorkFactory
	random     Random
	now        func() time.Time
}

// NewLevelingService creates a new leveling service
func NewLevelingService(uowFactory UnitOfWorkFactory, random Random) LevelingService {
	if random == nil {
		random = DefaultRandom
	}
	return &levelingService{
		uowFactory: uowFactory,
		random:     random,
		now:        time.Now,
	}
}

// ProcessMessage counts a message and awards XP when the member is off cooldown.
// It returns a non-nil LevelUp when the award crossed a level boundary.
func (s *levelingService) ProcessMessage(ctx context.Context, guildID, channelID, discordID int64) (*models.LevelUp, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.GuildSettingsRepository().GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if !settings.LevelingEnabled {
		return nil, nil
	}

	level, err := uow.LevelRepository().Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	if level == nil {
		level = &models.UserLevel{GuildID: guildID, DiscordID: discordID}
	}

	now := s.now()
	level.Messages++

	var levelUp *models.LevelUp
	if level.LastXPAt == nil || now.Sub(*level.LastXPAt) >= XPCooldown {
		level.XP += RandomBetween(s.random, XPPerMessageMin, XPPerMessageMax)
		level.LastXPAt = &now

		oldLevel := level.Level
		level.Level = LevelForXP(level.XP)
		if level.Level > oldLevel {
			levelUp = &models.LevelUp{
				OldLevel: oldLevel,
				NewLevel: level.Level,
				Reward:   LevelRewardPerLevel * int64(level.Level),
			}
		}
	}

	if err := uow.LevelRepository().Upsert(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to save level: %w", err)
	}

	if levelUp != nil {
		account, err := lockAccount(ctx, uow, guildID, discordID)
		if err != nil {
			return nil, err
		}
		if err := applyBalanceChange(ctx, uow, account, levelUp.Reward, models.TransactionTypeLevelReward, map[string]any{
			"level": levelUp.NewLevel,
		}); err != nil {
			return nil, err
		}

		if err := uow.EventBus().Publish(events.LevelUpEvent{
			UserID:    discordID,
			GuildID:   guildID,
			ChannelID: channelID,
			OldLevel:  levelUp.OldLevel,
			NewLevel:  levelUp.NewLevel,
			Reward:    levelUp.Reward,
		}); err != nil {
			return nil, fmt.Errorf("failed to publish level up event: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return levelUp, nil
}

// GetRank returns a member's level row and rank, or nil if they never earned XP
func (s *levelingService) GetRank(ctx context.Context, guildID, discordID int64) (*models.RankedLevel, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	level, err := uow.LevelRepository().Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	if level == nil {
		return nil, nil
	}

	rank, err := uow.LevelRepository().GetRank(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level rank: %w", err)
	}

	return &models.RankedLevel{UserLevel: *level, Rank: rank}, nil
}

// GetTop returns the members with the most XP
func (s *levelingService) GetTop(ctx context.Context, guildID int64, limit int) ([]*models.RankedLevel, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	levels, err := uow.LevelRepository().GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get level leaderboard: %w", err)
	}
	return levels, nil
}
