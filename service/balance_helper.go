package service

import (
	"context"
	"fmt"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
)

// RecordBalanceChange records a balance history entry and emits the matching event.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed after the transaction commits
	event := events.BalanceChangeEvent{
		UserID:          history.DiscordID,
		GuildID:         history.GuildID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	if err := uow.EventBus().Publish(event); err != nil {
		return fmt.Errorf("failed to publish balance change event: %w", err)
	}

	return nil
}

// applyBalanceChange writes a new balance for an already locked account and
// records the change. A zero delta is a no-op.
func applyBalanceChange(ctx context.Context, uow UnitOfWork, account *models.Account, delta int64, txType models.TransactionType, metadata map[string]any) error {
	if delta == 0 {
		return nil
	}

	newBalance := account.Balance + delta
	if newBalance < 0 {
		return ErrInsufficientFunds
	}

	if err := uow.AccountRepository().UpdateBalance(ctx, account.DiscordID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:           account.DiscordID,
		GuildID:             account.GuildID,
		BalanceBefore:       account.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        delta,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return err
	}

	account.Balance = newBalance
	return nil
}

// lockAccount loads an account for update, creating it on first use
func lockAccount(ctx context.Context, uow UnitOfWork, guildID, discordID int64) (*models.Account, error) {
	account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %d: %w", discordID, err)
	}

	if created {
		if err := uow.EventBus().Publish(events.AccountCreatedEvent{UserID: discordID, GuildID: guildID}); err != nil {
			return nil, fmt.Errorf("failed to publish account created event: %w", err)
		}
	}

	return account, nil
}

// lockAccountPair locks two accounts in a stable order so concurrent
// transfers between the same members cannot deadlock
func lockAccountPair(ctx context.Context, uow UnitOfWork, guildID, a, b int64) (*models.Account, *models.Account, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	firstAccount, err := lockAccount(ctx, uow, guildID, first)
	if err != nil {
		return nil, nil, err
	}
	secondAccount, err := lockAccount(ctx, uow, guildID, second)
	if err != nil {
		return nil, nil, err
	}

	if first == a {
		return firstAccount, secondAccount, nil
	}
	return secondAccount, firstAccount, nil
}
