package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
)

// Moderation limits
const (
	MinTimeoutMinutes = 1
	MaxTimeoutMinutes = 40320 // 28 days
	MaxBanDeleteDays  = 7
	MinClearAmount    = 1
	MaxClearAmount    = 100
	defaultWarnReason = "No reason provided"
)

// ErrHierarchy is returned when the target's highest role is not below the actor's
var ErrHierarchy = errors.New("target has an equal or higher role")

// Escalation is the automatic action applied when a warning count hits a threshold
type Escalation struct {
	Threshold int
	Action    models.ModerationAction
	Duration  time.Duration // Timeouts only
}

// Escalations are checked against the exact warning count
var Escalations = []Escalation{
	{Threshold: 3, Action: models.ModerationActionTimeout, Duration: time.Hour},
	{Threshold: 5, Action: models.ModerationActionTimeout, Duration: 24 * time.Hour},
	{Threshold: 7, Action: models.ModerationActionKick},
	{Threshold: 10, Action: models.ModerationActionBan},
}

// EscalationFor returns the escalation for a warning count, or nil.
// Only exact threshold matches escalate.
func EscalationFor(count int) *Escalation {
	for i := range Escalations {
		if Escalations[i].Threshold == count {
			return &Escalations[i]
		}
	}
	return nil
}

// CanModerate reports whether an actor may act on a target given their highest
// role positions. Guild owners bypass the check.
func CanModerate(targetPosition, actorPosition int, actorIsOwner bool) bool {
	if actorIsOwner {
		return true
	}
	return targetPosition < actorPosition
}

func ValidateTimeoutMinutes(minutes int) error {
	if minutes < MinTimeoutMinutes || minutes > MaxTimeoutMinutes {
		return fmt.Errorf("timeout must be between %d and %d minutes", MinTimeoutMinutes, MaxTimeoutMinutes)
	}
	return nil
}

func ValidateBanDeleteDays(days int) error {
	if days < 0 || days > MaxBanDeleteDays {
		return fmt.Errorf("delete days must be between 0 and %d", MaxBanDeleteDays)
	}
	return nil
}

func ValidateClearAmount(amount int) error {
	if amount < MinClearAmount || amount > MaxClearAmount {
		return fmt.Errorf("amount must be between %d and %d", MinClearAmount, MaxClearAmount)
	}
	return nil
}

type moderationService struct {
	uowFactory UnitOfWorkFactory
}

// NewModerationService creates a new moderation service
func NewModerationService(uowFactory UnitOfWorkFactory) ModerationService {
	return &moderationService{uowFactory: uowFactory}
}

// Warn stores a warning and reports the escalation the caller must apply
func (s *moderationService) Warn(ctx context.Context, guildID, targetID, moderatorID int64, reason string) (*models.WarnResult, error) {
	if targetID == moderatorID {
		return nil, ErrSelfTarget
	}
	if reason == "" {
		reason = defaultWarnReason
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.ModerationRepository()
	if err := repo.AddWarning(ctx, &models.Warning{
		GuildID:     guildID,
		DiscordID:   targetID,
		ModeratorID: moderatorID,
		Reason:      reason,
	}); err != nil {
		return nil, fmt.Errorf("failed to add warning: %w", err)
	}

	count, err := repo.CountWarnings(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count warnings: %w", err)
	}

	if err := repo.LogAction(ctx, &models.ModerationLog{
		GuildID:     guildID,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Action:      models.ModerationActionWarn,
		Reason:      reason,
	}); err != nil {
		return nil, fmt.Errorf("failed to log warning: %w", err)
	}

	result := &models.WarnResult{Count: count, Reason: reason}
	event := events.WarningIssuedEvent{
		UserID:       targetID,
		GuildID:      guildID,
		ModeratorID:  moderatorID,
		WarningCount: count,
	}
	if esc := EscalationFor(count); esc != nil {
		result.Escalation = esc.Action
		result.EscalationDuration = esc.Duration
		event.Escalation = string(esc.Action)
	}

	if err := uow.EventBus().Publish(event); err != nil {
		return nil, fmt.Errorf("failed to publish warning event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// ListWarnings returns a member's warnings, newest first
func (s *moderationService) ListWarnings(ctx context.Context, guildID, targetID int64) ([]*models.Warning, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	warnings, err := uow.ModerationRepository().ListWarnings(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	return warnings, nil
}

// ClearWarnings removes every warning of a member and returns how many were removed
func (s *moderationService) ClearWarnings(ctx context.Context, guildID, targetID, moderatorID int64) (int64, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cleared, err := uow.ModerationRepository().ClearWarnings(ctx, targetID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", err)
	}

	if err := uow.ModerationRepository().LogAction(ctx, &models.ModerationLog{
		GuildID:     guildID,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Action:      models.ModerationActionClearWarnings,
		Reason:      fmt.Sprintf("%d warnings cleared", cleared),
	}); err != nil {
		return 0, fmt.Errorf("failed to log clear warnings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cleared, nil
}

// LogAction writes a moderation log entry for an action applied through Discord
func (s *moderationService) LogAction(ctx context.Context, entry *models.ModerationLog) error {
	if entry.Reason == "" {
		entry.Reason = defaultWarnReason
	}

	uow := s.uowFactory.CreateForGuild(entry.GuildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ModerationRepository().LogAction(ctx, entry); err != nil {
		return fmt.Errorf("failed to log moderation action: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
