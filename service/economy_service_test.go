package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEconomyService(factory UnitOfWorkFactory, random Random) *economyService {
	svc := NewEconomyService(factory, random).(*economyService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestEconomyService_GetBalance(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestEconomyService(factory, nil)

	recent := []*models.BalanceHistory{
		{DiscordID: 123456, ChangeAmount: 200, TransactionType: models.TransactionTypeWork},
	}
	uow.Accounts.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456, Balance: 700}, nil)
	uow.Accounts.On("GetRank", ctx, int64(123456)).Return(2, nil)
	uow.History.On("GetStats", ctx, int64(123456)).Return(&models.EconomyStats{Transactions: 1, TotalEarned: 200}, nil)
	uow.History.On("GetByUser", ctx, int64(123456), BalanceRecentLimit).Return(recent, nil)

	info, err := svc.GetBalance(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.Equal(t, int64(700), info.Balance)
	assert.Equal(t, 2, info.Rank)
	assert.Equal(t, recent, info.Recent)
	uow.AssertAll(t)
}

func TestEconomyService_GetBalance_NoAccount(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestEconomyService(factory, nil)

	uow.Accounts.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)

	info, err := svc.GetBalance(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.Zero(t, info.Balance)
	assert.Empty(t, info.Recent)
	uow.History.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestEconomyService_ClaimDaily_FirstClaim(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestEconomyService(factory, nil)

	account := &models.Account{GuildID: testGuildID, DiscordID: 123456}

	uow.On("Commit").Return(nil)
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, true, nil)
	uow.Events.On("Publish", events.AccountCreatedEvent{UserID: 123456, GuildID: testGuildID}).Return(nil)
	uow.Accounts.On("UpdateBalance", ctx, int64(123456), int64(110)).Return(nil)
	uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.DiscordID == 123456 &&
			h.GuildID == testGuildID &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 110 &&
			h.TransactionType == models.TransactionTypeDaily
	})).Return(nil)
	uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	uow.Accounts.On("UpdateDaily", ctx, int64(123456), testNow, 1).Return(nil)

	result, err := svc.ClaimDaily(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.Equal(t, int64(110), result.Reward)
	assert.Equal(t, int64(10), result.Bonus)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, int64(110), result.NewBalance)
	factory.AssertExpectations(t)
	uow.AssertAll(t)
}

func TestEconomyService_ClaimDaily_ContinuesStreak(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestEconomyService(factory, nil)

	account := &models.Account{
		GuildID:     testGuildID,
		DiscordID:   123456,
		Balance:     1000,
		LastDaily:   timePtr(testNow.Add(-30 * time.Hour)),
		DailyStreak: 4,
	}

	uow.On("Commit").Return(nil)
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, false, nil)
	uow.Accounts.On("UpdateBalance", ctx, int64(123456), int64(1150)).Return(nil)
	uow.History.On("Record", ctx, mock.Anything).Return(nil)
	uow.Events.On("Publish", mock.Anything).Return(nil)
	uow.Accounts.On("UpdateDaily", ctx, int64(123456), testNow, 5).Return(nil)

	result, err := svc.ClaimDaily(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.Equal(t, 5, result.Streak)
	assert.Equal(t, int64(150), result.Reward)
	assert.Equal(t, int64(1150), result.NewBalance)
	uow.AssertAll(t)
}

func TestEconomyService_ClaimDaily_OnCooldown(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	svc := newTestEconomyService(factory, nil)

	account := &models.Account{
		GuildID:   testGuildID,
		DiscordID: 123456,
		LastDaily: timePtr(testNow.Add(-20 * time.Hour)),
	}
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, false, nil)

	result, err := svc.ClaimDaily(ctx, testGuildID, 123456)

	assert.Nil(t, result)
	var cooldownErr *CooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, CooldownDaily, cooldownErr.Kind)
	assert.Equal(t, 4*time.Hour, cooldownErr.Remaining)
	uow.AssertNotCalled(t, "Commit")
	uow.Accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestEconomyService_Work(t *testing.T) {
	tests := []struct {
		name    string
		ints    []int
		job     string
		earned  int64
		balance int64
	}{
		{name: "developer mid range", ints: []int{0, 50}, job: "Developer", earned: 200, balance: 300},
		{name: "doctor top of range", ints: []int{6, 200}, job: "Doctor", earned: 400, balance: 500},
		{name: "artist bottom of range", ints: []int{3, 0}, job: "Artist", earned: 80, balance: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			factory, uow := setupUoW(ctx)
			svc := newTestEconomyService(factory, &scriptedRandom{ints: tt.ints})

			account := &models.Account{
				GuildID:   testGuildID,
				DiscordID: 123456,
				Balance:   100,
				LastWork:  timePtr(testNow.Add(-61 * time.Minute)),
			}

			uow.On("Commit").Return(nil)
			uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, false, nil)
			uow.Accounts.On("UpdateBalance", ctx, int64(123456), tt.balance).Return(nil)
			uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
				return h.ChangeAmount == tt.earned && h.TransactionType == models.TransactionTypeWork
			})).Return(nil)
			uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
			uow.Accounts.On("UpdateCooldown", ctx, int64(123456), CooldownWork, testNow).Return(nil)

			result, err := svc.Work(ctx, testGuildID, 123456)

			require.NoError(t, err)
			assert.Equal(t, tt.job, result.Job)
			assert.Equal(t, tt.earned, result.Earned)
			assert.Equal(t, tt.balance, result.NewBalance)
			uow.AssertAll(t)
		})
	}
}

func TestEconomyService_Cooldowns(t *testing.T) {
	tests := []struct {
		name      string
		account   *models.Account
		run       func(svc *economyService, ctx context.Context) error
		kind      CooldownKind
		remaining time.Duration
	}{
		{
			name:    "work",
			account: &models.Account{DiscordID: 111, LastWork: timePtr(testNow.Add(-30 * time.Minute))},
			run: func(svc *economyService, ctx context.Context) error {
				_, err := svc.Work(ctx, testGuildID, 111)
				return err
			},
			kind:      CooldownWork,
			remaining: 30 * time.Minute,
		},
		{
			name:    "crime",
			account: &models.Account{DiscordID: 111, LastCrime: timePtr(testNow.Add(-90 * time.Minute))},
			run: func(svc *economyService, ctx context.Context) error {
				_, err := svc.Crime(ctx, testGuildID, 111)
				return err
			},
			kind:      CooldownCrime,
			remaining: 30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			factory, uow := setupUoW(ctx)
			svc := newTestEconomyService(factory, &scriptedRandom{})

			tt.account.GuildID = testGuildID
			uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(111)).Return(tt.account, false, nil)

			err := tt.run(svc, ctx)

			var cooldownErr *CooldownError
			require.ErrorAs(t, err, &cooldownErr)
			assert.Equal(t, tt.kind, cooldownErr.Kind)
			assert.Equal(t, tt.remaining, cooldownErr.Remaining)
			uow.AssertNotCalled(t, "Commit")
			uow.Accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
			uow.Accounts.AssertNotCalled(t, "UpdateCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestEconomyService_Crime_Success(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	// Hacking, successful roll, payout of 300 + 100
	random := &scriptedRandom{ints: []int{3, 100}, floats: []float64{0.2}}
	svc := newTestEconomyService(factory, random)

	account := &models.Account{GuildID: testGuildID, DiscordID: 123456, Balance: 100}

	uow.On("Commit").Return(nil)
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, false, nil)
	uow.Accounts.On("UpdateBalance", ctx, int64(123456), int64(500)).Return(nil)
	uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == 400 && h.TransactionType == models.TransactionTypeCrimeWin
	})).Return(nil)
	uow.Events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	uow.Accounts.On("UpdateCooldown", ctx, int64(123456), CooldownCrime, testNow).Return(nil)

	result, err := svc.Crime(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Hacking", result.Crime)
	assert.Equal(t, int64(400), result.Earned)
	assert.Zero(t, result.Fine)
	assert.Equal(t, int64(500), result.NewBalance)
	uow.AssertAll(t)
}

func TestEconomyService_Crime_FineCappedAtBalance(t *testing.T) {
	ctx := context.Background()
	factory, uow := setupUoW(ctx)
	// Shoplifting, failed roll, fine of 250 before the cap
	random := &scriptedRandom{ints: []int{0, 150}, floats: []float64{0.95}}
	svc := newTestEconomyService(factory, random)

	account := &models.Account{GuildID: testGuildID, DiscordID: 123456, Balance: 40}

	uow.On("Commit").Return(nil)
	uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(123456)).Return(account, false, nil)
	uow.Accounts.On("UpdateBalance", ctx, int64(123456), int64(0)).Return(nil)
	uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == -40 && h.TransactionType == models.TransactionTypeCrimeFine
	})).Return(nil)
	uow.Events.On("Publish", mock.Anything).Return(nil)
	uow.Accounts.On("UpdateCooldown", ctx, int64(123456), CooldownCrime, testNow).Return(nil)

	result, err := svc.Crime(ctx, testGuildID, 123456)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Shoplifting", result.Crime)
	assert.Equal(t, int64(40), result.Fine)
	assert.Equal(t, int64(0), result.NewBalance)
	uow.AssertAll(t)
}

func TestEconomyService_Rob(t *testing.T) {
	const robberID, victimID int64 = 111, 222

	t.Run("success steals a percentage", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		random := &scriptedRandom{ints: []int{19}, floats: []float64{0.1}}
		svc := newTestEconomyService(factory, random)

		robber := &models.Account{GuildID: testGuildID, DiscordID: robberID, Balance: 500}
		victim := &models.Account{GuildID: testGuildID, DiscordID: victimID, Balance: 1000}

		uow.On("Commit").Return(nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, robberID).Return(robber, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, victimID).Return(victim, false, nil)
		uow.Accounts.On("UpdateBalance", ctx, victimID, int64(800)).Return(nil)
		uow.Accounts.On("UpdateBalance", ctx, robberID, int64(700)).Return(nil)
		uow.History.On("Record", ctx, mock.Anything).Return(nil)
		uow.Events.On("Publish", mock.Anything).Return(nil)
		uow.Accounts.On("UpdateCooldown", ctx, robberID, CooldownRob, testNow).Return(nil)

		result, err := svc.Rob(ctx, testGuildID, robberID, victimID)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 20, result.StolenPercent)
		assert.Equal(t, int64(200), result.Stolen)
		assert.Equal(t, int64(700), result.NewBalance)
		assert.Equal(t, int64(800), result.VictimBalance)
		uow.AssertAll(t)
	})

	t.Run("failure fines the robber", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		random := &scriptedRandom{floats: []float64{0.9}}
		svc := newTestEconomyService(factory, random)

		robber := &models.Account{GuildID: testGuildID, DiscordID: robberID, Balance: 500}
		victim := &models.Account{GuildID: testGuildID, DiscordID: victimID, Balance: 1000}

		uow.On("Commit").Return(nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, robberID).Return(robber, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, victimID).Return(victim, false, nil)
		uow.Accounts.On("UpdateBalance", ctx, robberID, int64(450)).Return(nil)
		uow.History.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.TransactionType == models.TransactionTypeRobFine && h.ChangeAmount == -50
		})).Return(nil)
		uow.Events.On("Publish", mock.Anything).Return(nil)
		uow.Accounts.On("UpdateCooldown", ctx, robberID, CooldownRob, testNow).Return(nil)

		result, err := svc.Rob(ctx, testGuildID, robberID, victimID)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, int64(50), result.Fine)
		assert.Equal(t, int64(1000), result.VictimBalance)
		uow.AssertAll(t)
	})

	t.Run("poor victim does not start the cooldown", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		svc := newTestEconomyService(factory, &scriptedRandom{})

		robber := &models.Account{GuildID: testGuildID, DiscordID: robberID, Balance: 500}
		victim := &models.Account{GuildID: testGuildID, DiscordID: victimID, Balance: 99}

		uow.Accounts.On("GetOrCreateForUpdate", ctx, robberID).Return(robber, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, victimID).Return(victim, false, nil)

		_, err := svc.Rob(ctx, testGuildID, robberID, victimID)

		assert.ErrorIs(t, err, ErrVictimTooPoor)
		uow.Accounts.AssertNotCalled(t, "UpdateCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit")
	})

	t.Run("cooldown is checked before the victim", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		svc := newTestEconomyService(factory, &scriptedRandom{})

		robber := &models.Account{GuildID: testGuildID, DiscordID: robberID, Balance: 500, LastRob: timePtr(testNow.Add(-time.Hour))}
		victim := &models.Account{GuildID: testGuildID, DiscordID: victimID, Balance: 50}

		uow.Accounts.On("GetOrCreateForUpdate", ctx, robberID).Return(robber, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, victimID).Return(victim, false, nil)

		_, err := svc.Rob(ctx, testGuildID, robberID, victimID)

		var cooldownErr *CooldownError
		require.ErrorAs(t, err, &cooldownErr)
		assert.Equal(t, CooldownRob, cooldownErr.Kind)
		assert.Equal(t, 3*time.Hour, cooldownErr.Remaining)
		uow.Accounts.AssertNotCalled(t, "UpdateCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit")
	})

	t.Run("self target", func(t *testing.T) {
		factory := new(MockUnitOfWorkFactory)
		svc := newTestEconomyService(factory, nil)

		_, err := svc.Rob(context.Background(), testGuildID, robberID, robberID)

		assert.ErrorIs(t, err, ErrSelfTarget)
		factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
	})
}

func TestEconomyService_Transfer(t *testing.T) {
	t.Run("moves coins", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		svc := newTestEconomyService(factory, nil)

		sender := &models.Account{GuildID: testGuildID, DiscordID: 222, Balance: 300}
		recipient := &models.Account{GuildID: testGuildID, DiscordID: 111, Balance: 5}

		uow.On("Commit").Return(nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(111)).Return(recipient, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(222)).Return(sender, false, nil)
		uow.Accounts.On("UpdateBalance", ctx, int64(222), int64(200)).Return(nil)
		uow.Accounts.On("UpdateBalance", ctx, int64(111), int64(105)).Return(nil)
		uow.History.On("Record", ctx, mock.Anything).Return(nil)
		uow.Events.On("Publish", mock.Anything).Return(nil)

		result, err := svc.Transfer(ctx, testGuildID, 222, 111, 100)

		require.NoError(t, err)
		assert.Equal(t, int64(200), result.NewBalance)
		assert.Equal(t, int64(105), result.RecipientBalance)
		uow.AssertAll(t)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		ctx := context.Background()
		factory, uow := setupUoW(ctx)
		svc := newTestEconomyService(factory, nil)

		sender := &models.Account{GuildID: testGuildID, DiscordID: 222, Balance: 50}
		recipient := &models.Account{GuildID: testGuildID, DiscordID: 111}

		uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(111)).Return(recipient, false, nil)
		uow.Accounts.On("GetOrCreateForUpdate", ctx, int64(222)).Return(sender, false, nil)

		_, err := svc.Transfer(ctx, testGuildID, 222, 111, 100)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		uow.AssertNotCalled(t, "Commit")
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := newTestEconomyService(new(MockUnitOfWorkFactory), nil)

		_, err := svc.Transfer(context.Background(), testGuildID, 222, 111, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestEconomyService_Grant_BeginError(t *testing.T) {
	ctx := context.Background()
	uow := NewMockUnitOfWork()
	factory := new(MockUnitOfWorkFactory)
	factory.On("CreateForGuild", testGuildID).Return(uow)
	uow.On("Begin", ctx).Return(errors.New("connection refused"))

	svc := newTestEconomyService(factory, nil)
	_, err := svc.Grant(ctx, testGuildID, 123, 250, models.TransactionTypeCommunityReward, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestEconomyRules(t *testing.T) {
	t.Run("streak resets after 48 hours", func(t *testing.T) {
		assert.Equal(t, 1, NextStreak(nil, 0, testNow))
		assert.Equal(t, 4, NextStreak(timePtr(testNow.Add(-47*time.Hour)), 3, testNow))
		assert.Equal(t, 1, NextStreak(timePtr(testNow.Add(-49*time.Hour)), 3, testNow))
	})

	t.Run("daily bonus is capped", func(t *testing.T) {
		assert.Equal(t, int64(110), DailyReward(1))
		assert.Equal(t, int64(600), DailyReward(50))
		assert.Equal(t, int64(600), DailyReward(365))
	})

	t.Run("cooldown remaining", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), CooldownRemaining(nil, WorkCooldown, testNow))
		assert.Equal(t, 30*time.Minute, CooldownRemaining(timePtr(testNow.Add(-30*time.Minute)), WorkCooldown, testNow))
		assert.Equal(t, time.Duration(0), CooldownRemaining(timePtr(testNow.Add(-3*time.Hour)), WorkCooldown, testNow))
	})

	t.Run("random between is inclusive", func(t *testing.T) {
		r := &scriptedRandom{ints: []int{0, 100}}
		assert.Equal(t, int64(100), RandomBetween(r, 100, 200))
		assert.Equal(t, int64(200), RandomBetween(r, 100, 200))
	})
}
