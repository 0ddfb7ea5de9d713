package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/whoami669/my-bot/models"
)

const (
	channelStatsWindow = 24 * time.Hour
	trendWindow        = 7 * 24 * time.Hour
	insightChannels    = 5
	insightTopUsers    = 10
)

// EngagementScore weighs message volume against the number of distinct speakers
func EngagementScore(messages, uniqueUsers int64) float64 {
	return float64(messages)*0.7 + float64(uniqueUsers)*0.3
}

type analyticsService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(uowFactory UnitOfWorkFactory) AnalyticsService {
	return &analyticsService{uowFactory: uowFactory, now: time.Now}
}

// LogMessage records one guild message for analytics
func (s *analyticsService) LogMessage(ctx context.Context, guildID, channelID, discordID int64, length int) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ActivityRepository().LogMessage(ctx, &models.MessageActivity{
		GuildID:       guildID,
		ChannelID:     channelID,
		DiscordID:     discordID,
		MessageLength: length,
		CreatedAt:     s.now(),
	}); err != nil {
		return fmt.Errorf("failed to log message activity: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// BuildInsights aggregates the last day of channel activity and the last
// week of trends and active members
func (s *analyticsService) BuildInsights(ctx context.Context, guildID int64) (*models.CommunityInsights, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.now()
	repo := uow.ActivityRepository()

	channels, err := repo.GetChannelStats(ctx, now.Add(-channelStatsWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}

	trends, err := repo.GetDailyTrends(ctx, now.Add(-trendWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily trends: %w", err)
	}

	topUsers, err := repo.GetTopUsers(ctx, now.Add(-trendWindow), insightTopUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	messages, users, err := repo.GetTotals(ctx, now.Add(-trendWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to get activity totals: %w", err)
	}

	top, quiet := RankChannels(channels, insightChannels)
	return &models.CommunityInsights{
		GuildID:         guildID,
		GeneratedAt:     now,
		TotalMessages:   messages,
		ActiveUsers:     users,
		TopChannels:     top,
		QuietChannels:   quiet,
		DailyTrends:     trends,
		TopUsers:        topUsers,
		ChannelsTracked: len(channels),
	}, nil
}

// RankChannels scores every channel and returns the n most and n least
// engaged. The two lists may overlap when fewer than 2n channels are active.
func RankChannels(stats []models.ChannelStats, n int) (top, quiet []models.ChannelStats) {
	scored := make([]models.ChannelStats, len(stats))
	for i, c := range stats {
		c.Engagement = EngagementScore(c.Messages, c.UniqueUsers)
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Engagement > scored[j].Engagement
	})

	limit := min(n, len(scored))
	top = append([]models.ChannelStats(nil), scored[:limit]...)
	for i := len(scored) - 1; i >= len(scored)-limit; i-- {
		quiet = append(quiet, scored[i])
	}
	return top, quiet
}
