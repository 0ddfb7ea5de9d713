package service

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
)

// InviteMilestones award a role when an inviter reaches exactly Count active invites
var InviteMilestones = []models.InviteMilestone{
	{Count: 5, RoleName: "Recruiter", Emoji: "🎯"},
	{Count: 10, RoleName: "Growth Champion", Emoji: "🚀"},
	{Count: 25, RoleName: "Community Builder", Emoji: "🏗️"},
}

// inviteGoals are the targets shown by /my-invites
var inviteGoals = []int{5, 10, 25, 50, 100}

// MilestoneFor returns the milestone reached at exactly count invites, or nil
func MilestoneFor(count int) *models.InviteMilestone {
	for i := range InviteMilestones {
		if InviteMilestones[i].Count == count {
			m := InviteMilestones[i]
			return &m
		}
	}
	return nil
}

// NextInviteGoal returns the first goal above count, or 0 when all are reached
func NextInviteGoal(count int) int {
	for _, goal := range inviteGoals {
		if goal > count {
			return goal
		}
	}
	return 0
}

type inviteService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewInviteService creates a new invite service
func NewInviteService(uowFactory UnitOfWorkFactory) InviteService {
	return &inviteService{uowFactory: uowFactory, now: time.Now}
}

// RecordJoin stores an attributed join and reports any milestone it completed
func (s *inviteService) RecordJoin(ctx context.Context, guildID, invitedID int64, used models.InviteSnapshot) (*models.InviteJoin, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.InviteRepository()
	if err := repo.Record(ctx, &models.InviteRecord{
		GuildID:     guildID,
		InviterID:   used.InviterID,
		InvitedID:   invitedID,
		InviteCode:  used.Code,
		JoinedAt:    s.now(),
		StillMember: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to record invite: %w", err)
	}

	total, err := repo.CountActiveInvites(ctx, used.InviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invites: %w", err)
	}

	join := &models.InviteJoin{
		InviterID:  used.InviterID,
		InvitedID:  invitedID,
		InviteCode: used.Code,
		Total:      total,
		Milestone:  MilestoneFor(total),
	}

	if err := uow.EventBus().Publish(events.MemberInvitedEvent{
		GuildID:    guildID,
		InviterID:  used.InviterID,
		InvitedID:  invitedID,
		InviteCode: used.Code,
		Total:      total,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish member invited event: %w", err)
	}

	if join.Milestone != nil {
		if err := uow.EventBus().Publish(events.InviteMilestoneEvent{
			GuildID:   guildID,
			InviterID: used.InviterID,
			Count:     join.Milestone.Count,
			RoleName:  join.Milestone.RoleName,
			Emoji:     join.Milestone.Emoji,
		}); err != nil {
			return nil, fmt.Errorf("failed to publish invite milestone event: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return join, nil
}

// RecordLeave marks a departed member as no longer counting toward their inviter
func (s *inviteService) RecordLeave(ctx context.Context, guildID, invitedID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.InviteRepository().MarkLeft(ctx, invitedID, s.now()); err != nil {
		return fmt.Errorf("failed to mark invite as left: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetStats returns an inviter's active invite count and next goal
func (s *inviteService) GetStats(ctx context.Context, guildID, inviterID int64) (*models.InviteStats, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.InviteRepository().CountActiveInvites(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invites: %w", err)
	}

	return &models.InviteStats{Total: total, NextMilestone: NextInviteGoal(total)}, nil
}

// Leaderboard returns the top inviters of a guild
func (s *inviteService) Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.InviteRepository().GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite leaderboard: %w", err)
	}
	return entries, nil
}
