package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/service"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface for a single guild
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	guildID          int64
	transactionalBus *events.TransactionalBus

	accountRepo        service.AccountRepository
	balanceHistoryRepo service.BalanceHistoryRepository
	guildSettingsRepo  service.GuildSettingsRepository
	levelRepo          service.LevelRepository
	moderationRepo     service.ModerationRepository
	reminderRepo       service.ReminderRepository
	inviteRepo         service.InviteRepository
	activityRepo       service.ActivityRepository
	decisionRepo       service.DecisionRepository
	contentRepo        service.ContentRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// CreateForGuild creates a unit of work whose repositories only see guildID
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		guildID:          guildID,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepository(tx, u.guildID)
	u.balanceHistoryRepo = newBalanceHistoryRepository(tx, u.guildID)
	u.guildSettingsRepo = newGuildSettingsRepository(tx)
	u.levelRepo = newLevelRepository(tx, u.guildID)
	u.moderationRepo = newModerationRepository(tx, u.guildID)
	u.reminderRepo = newReminderRepository(tx, u.guildID)
	u.inviteRepo = newInviteRepository(tx, u.guildID)
	u.activityRepo = newActivityRepository(tx, u.guildID)
	u.decisionRepo = newDecisionRepository(tx, u.guildID)
	u.contentRepo = newContentRepository(tx, u.guildID)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Subscribers only hear about state that is durable
	if err := u.transactionalBus.Flush(u.ctx); err != nil {
		log.WithError(err).WithField("guild_id", u.guildID).Error("Failed to flush events after commit")
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func notStarted() {
	panic("unit of work not started - call Begin() first")
}

// AccountRepository returns the economy account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		notStarted()
	}
	return u.accountRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		notStarted()
	}
	return u.balanceHistoryRepo
}

// GuildSettingsRepository returns the guild settings repository for this unit of work
func (u *unitOfWork) GuildSettingsRepository() service.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		notStarted()
	}
	return u.guildSettingsRepo
}

func (u *unitOfWork) LevelRepository() service.LevelRepository {
	if u.levelRepo == nil {
		notStarted()
	}
	return u.levelRepo
}

func (u *unitOfWork) ModerationRepository() service.ModerationRepository {
	if u.moderationRepo == nil {
		notStarted()
	}
	return u.moderationRepo
}

func (u *unitOfWork) ReminderRepository() service.ReminderRepository {
	if u.reminderRepo == nil {
		notStarted()
	}
	return u.reminderRepo
}

func (u *unitOfWork) InviteRepository() service.InviteRepository {
	if u.inviteRepo == nil {
		notStarted()
	}
	return u.inviteRepo
}

func (u *unitOfWork) ActivityRepository() service.ActivityRepository {
	if u.activityRepo == nil {
		notStarted()
	}
	return u.activityRepo
}

func (u *unitOfWork) DecisionRepository() service.DecisionRepository {
	if u.decisionRepo == nil {
		notStarted()
	}
	return u.decisionRepo
}

func (u *unitOfWork) ContentRepository() service.ContentRepository {
	if u.contentRepo == nil {
		notStarted()
	}
	return u.contentRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.accountRepo == nil {
		notStarted()
	}
	return u.transactionalBus
}
