package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whoami669/my-bot/models"

	log "github.com/sirupsen/logrus"
)

const (
	MinReminderMinutes  = 1
	MaxReminderMinutes  = 10080 // 7 days
	MaxPendingReminders = 25

	// Reminders that keep failing are dropped once this far overdue
	reminderGiveUpAfter = time.Hour
)

var ErrTooManyReminders = fmt.Errorf("you can have at most %d pending reminders", MaxPendingReminders)

// ReminderDeliverer sends a due reminder to Discord
type ReminderDeliverer func(ctx context.Context, reminder *models.Reminder) error

type reminderService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(uowFactory UnitOfWorkFactory) ReminderService {
	return &reminderService{uowFactory: uowFactory, now: time.Now}
}

// Schedule stores a reminder due in the given number of minutes
func (s *reminderService) Schedule(ctx context.Context, guildID, discordID, channelID int64, minutes int, text string) (*models.Reminder, error) {
	if minutes < MinReminderMinutes || minutes > MaxReminderMinutes {
		return nil, fmt.Errorf("time must be between %d minute and 7 days (%d minutes)", MinReminderMinutes, MaxReminderMinutes)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("reminder text cannot be empty")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pending, err := uow.ReminderRepository().CountPending(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}
	if pending >= MaxPendingReminders {
		return nil, ErrTooManyReminders
	}

	reminder := &models.Reminder{
		GuildID:   guildID,
		DiscordID: discordID,
		ChannelID: channelID,
		Text:      text,
		RemindAt:  s.now().Add(time.Duration(minutes) * time.Minute),
	}
	if err := uow.ReminderRepository().Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reminder, nil
}

// DeliverDue hands every due reminder to deliver and deletes the delivered ones.
// It returns the number of reminders delivered.
func (s *reminderService) DeliverDue(ctx context.Context, deliver ReminderDeliverer) (int, error) {
	now := s.now()

	guildIDs, err := s.guildsWithDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, guildID := range guildIDs {
		n, err := s.deliverGuild(ctx, guildID, now, deliver)
		delivered += n
		if err != nil {
			log.WithFields(log.Fields{
				"guild_id": guildID,
				"error":    err,
			}).Error("Failed to deliver reminders for guild")
		}
	}

	return delivered, nil
}

func (s *reminderService) guildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error) {
	// The guild scope is ignored by this query
	uow := s.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	guildIDs, err := uow.ReminderRepository().GetGuildsWithDueReminders(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get guilds with due reminders: %w", err)
	}
	return guildIDs, nil
}

func (s *reminderService) deliverGuild(ctx context.Context, guildID int64, now time.Time, deliver ReminderDeliverer) (int, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	due, err := uow.ReminderRepository().GetDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to get due reminders: %w", err)
	}

	delivered := 0
	for _, reminder := range due {
		if err := deliver(ctx, reminder); err != nil {
			if now.Sub(reminder.RemindAt) < reminderGiveUpAfter {
				log.WithFields(log.Fields{
					"reminder_id": reminder.ID,
					"error":       err,
				}).Warn("Failed to deliver reminder, will retry")
				continue
			}
			log.WithFields(log.Fields{
				"reminder_id": reminder.ID,
				"error":       err,
			}).Warn("Dropping undeliverable reminder")
		} else {
			delivered++
		}

		// A failed delete must not roll back the deletes of reminders already sent
		if err := uow.ReminderRepository().Delete(ctx, reminder.ID); err != nil {
			log.WithFields(log.Fields{
				"reminder_id": reminder.ID,
				"error":       err,
			}).Error("Failed to delete reminder")
		}
	}

	if err := uow.Commit(); err != nil {
		return delivered, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return delivered, nil
}
