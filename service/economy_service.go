package service

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/models"
)

// BalanceRecentLimit is how many transactions /balance lists
const BalanceRecentLimit = 5

type economyService struct {
	uowFactory UnitOfWorkFactory
	random     Random
	now        func() time.Time
}

// NewEconomyService creates a new economy service
func NewEconomyService(uowFactory UnitOfWorkFactory, random Random) EconomyService {
	if random == nil {
		random = DefaultRandom
	}
	return &economyService{
		uowFactory: uowFactory,
		random:     random,
		now:        time.Now,
	}
}

// GetBalance returns a member's balance, rank and history summary
func (s *economyService) GetBalance(ctx context.Context, guildID, discordID int64) (*models.BalanceInfo, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	info := &models.BalanceInfo{DiscordID: discordID}

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return info, nil
	}
	info.Balance = account.Balance

	info.Rank, err = uow.AccountRepository().GetRank(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	info.Stats, err = uow.BalanceHistoryRepository().GetStats(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get economy stats: %w", err)
	}

	info.Recent, err = uow.BalanceHistoryRepository().GetByUser(ctx, discordID, BalanceRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}

	return info, nil
}

// ClaimDaily pays the daily reward and advances the streak
func (s *economyService) ClaimDaily(ctx context.Context, guildID, discordID int64) (*models.DailyResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, guildID, discordID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if remaining := CooldownRemaining(account.LastDaily, DailyCooldown, now); remaining > 0 {
		return nil, &CooldownError{Kind: CooldownDaily, Remaining: remaining}
	}

	streak := NextStreak(account.LastDaily, account.DailyStreak, now)
	reward := DailyReward(streak)

	if err := applyBalanceChange(ctx, uow, account, reward, models.TransactionTypeDaily, map[string]any{
		"streak": streak,
	}); err != nil {
		return nil, err
	}

	if err := uow.AccountRepository().UpdateDaily(ctx, discordID, now, streak); err != nil {
		return nil, fmt.Errorf("failed to update daily claim: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DailyResult{
		Reward:     reward,
		Bonus:      StreakBonus(streak),
		Streak:     streak,
		NewBalance: account.Balance,
	}, nil
}

// Work pays a random job within its range
func (s *economyService) Work(ctx context.Context, guildID, discordID int64) (*models.WorkResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, guildID, discordID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if remaining := CooldownRemaining(account.LastWork, WorkCooldown, now); remaining > 0 {
		return nil, &CooldownError{Kind: CooldownWork, Remaining: remaining}
	}

	job := Jobs[s.random.IntN(len(Jobs))]
	earned := RandomBetween(s.random, job.MinPay, job.MaxPay)

	if err := applyBalanceChange(ctx, uow, account, earned, models.TransactionTypeWork, map[string]any{
		"job": job.Name,
	}); err != nil {
		return nil, err
	}

	if err := uow.AccountRepository().UpdateCooldown(ctx, discordID, CooldownWork, now); err != nil {
		return nil, fmt.Errorf("failed to update work cooldown: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.WorkResult{Job: job.Name, Earned: earned, NewBalance: account.Balance}, nil
}

// Crime attempts a random crime. The cooldown applies whether or not it succeeds.
func (s *economyService) Crime(ctx context.Context, guildID, discordID int64) (*models.CrimeResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, guildID, discordID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if remaining := CooldownRemaining(account.LastCrime, CrimeCooldown, now); remaining > 0 {
		return nil, &CooldownError{Kind: CooldownCrime, Remaining: remaining}
	}

	crime := Crimes[s.random.IntN(len(Crimes))]
	result := &models.CrimeResult{Crime: crime.Name}

	if s.random.Float64() < crime.SuccessRate {
		result.Success = true
		result.Earned = RandomBetween(s.random, crime.MinReward, crime.MaxReward)
		if err := applyBalanceChange(ctx, uow, account, result.Earned, models.TransactionTypeCrimeWin, map[string]any{
			"crime": crime.Name,
		}); err != nil {
			return nil, err
		}
	} else {
		// Can't lose more than you have
		result.Fine = min(RandomBetween(s.random, CrimeFineMin, CrimeFineMax), account.Balance)
		if err := applyBalanceChange(ctx, uow, account, -result.Fine, models.TransactionTypeCrimeFine, map[string]any{
			"crime": crime.Name,
		}); err != nil {
			return nil, err
		}
	}

	if err := uow.AccountRepository().UpdateCooldown(ctx, discordID, CooldownCrime, now); err != nil {
		return nil, fmt.Errorf("failed to update crime cooldown: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.NewBalance = account.Balance
	return result, nil
}

// Rob tries to steal part of another member's wallet
func (s *economyService) Rob(ctx context.Context, guildID, robberID, victimID int64) (*models.RobResult, error) {
	if robberID == victimID {
		return nil, ErrSelfTarget
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	robber, victim, err := lockAccountPair(ctx, uow, guildID, robberID, victimID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if remaining := CooldownRemaining(robber.LastRob, RobCooldown, now); remaining > 0 {
		return nil, &CooldownError{Kind: CooldownRob, Remaining: remaining}
	}

	if victim.Balance < RobMinVictimWallet {
		return nil, ErrVictimTooPoor
	}

	result := &models.RobResult{}
	if s.random.Float64() < RobSuccessRate {
		result.Success = true
		result.StolenPercent = 1 + s.random.IntN(RobMaxStealPercent)
		result.Stolen = max(victim.Balance*int64(result.StolenPercent)/100, 1)

		if err := applyBalanceChange(ctx, uow, victim, -result.Stolen, models.TransactionTypeRobVictim, map[string]any{
			"robber_discord_id": robberID,
		}); err != nil {
			return nil, err
		}
		if err := applyBalanceChange(ctx, uow, robber, result.Stolen, models.TransactionTypeRobWin, map[string]any{
			"victim_discord_id": victimID,
			"percent":           result.StolenPercent,
		}); err != nil {
			return nil, err
		}
	} else {
		result.Fine = robber.Balance * RobFinePercent / 100
		if err := applyBalanceChange(ctx, uow, robber, -result.Fine, models.TransactionTypeRobFine, map[string]any{
			"victim_discord_id": victimID,
		}); err != nil {
			return nil, err
		}
	}

	if err := uow.AccountRepository().UpdateCooldown(ctx, robberID, CooldownRob, now); err != nil {
		return nil, fmt.Errorf("failed to update rob cooldown: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.NewBalance = robber.Balance
	result.VictimBalance = victim.Balance
	return result, nil
}

// Transfer moves coins between two members of the same guild
func (s *economyService) Transfer(ctx context.Context, guildID, fromID, toID int64, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromID == toID {
		return nil, ErrSelfTarget
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sender, recipient, err := lockAccountPair(ctx, uow, guildID, fromID, toID)
	if err != nil {
		return nil, err
	}

	if sender.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	if err := applyBalanceChange(ctx, uow, sender, -amount, models.TransactionTypeTransferOut, map[string]any{
		"recipient_discord_id": toID,
	}); err != nil {
		return nil, err
	}
	if err := applyBalanceChange(ctx, uow, recipient, amount, models.TransactionTypeTransferIn, map[string]any{
		"sender_discord_id": fromID,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:           amount,
		NewBalance:       sender.Balance,
		RecipientBalance: recipient.Balance,
	}, nil
}

// Grant credits coins outside the cooldown-gated actions, such as community rewards
func (s *economyService) Grant(ctx context.Context, guildID, discordID int64, amount int64, txType models.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := lockAccount(ctx, uow, guildID, discordID)
	if err != nil {
		return 0, err
	}

	if err := applyBalanceChange(ctx, uow, account, amount, txType, metadata); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account.Balance, nil
}

// Leaderboard returns the richest members of a guild
func (s *economyService) Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.AccountRepository().GetTopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}
