package service

import (
	"context"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, discordID int64) (*models.Account, bool, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	args := m.Called(ctx, discordID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateDaily(ctx context.Context, discordID int64, claimedAt time.Time, streak int) error {
	args := m.Called(ctx, discordID, claimedAt, streak)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateCooldown(ctx context.Context, discordID int64, kind CooldownKind, at time.Time) error {
	args := m.Called(ctx, discordID, kind, at)
	return args.Error(0)
}

func (m *MockAccountRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockAccountRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) GetStats(ctx context.Context, discordID int64) (*models.EconomyStats, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyStats), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockLevelRepository is a mock implementation of LevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) Get(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserLevel), args.Error(1)
}

func (m *MockLevelRepository) Upsert(ctx context.Context, level *models.UserLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) GetTop(ctx context.Context, limit int) ([]*models.RankedLevel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RankedLevel), args.Error(1)
}

func (m *MockLevelRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockModerationRepository is a mock implementation of ModerationRepository
type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) AddWarning(ctx context.Context, warning *models.Warning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

func (m *MockModerationRepository) CountWarnings(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

func (m *MockModerationRepository) ListWarnings(ctx context.Context, discordID int64) ([]*models.Warning, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warning), args.Error(1)
}

func (m *MockModerationRepository) ClearWarnings(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockModerationRepository) LogAction(ctx context.Context, entry *models.ModerationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockReminderRepository is a mock implementation of ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) CountPending(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

func (m *MockReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReminderRepository) GetGuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockInviteRepository is a mock implementation of InviteRepository
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) Record(ctx context.Context, record *models.InviteRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInviteRepository) CountActiveInvites(ctx context.Context, inviterID int64) (int, error) {
	args := m.Called(ctx, inviterID)
	return args.Int(0), args.Error(1)
}

func (m *MockInviteRepository) MarkLeft(ctx context.Context, invitedID int64, at time.Time) error {
	args := m.Called(ctx, invitedID, at)
	return args.Error(0)
}

func (m *MockInviteRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) LogMessage(ctx context.Context, activity *models.MessageActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetChannelStats(ctx context.Context, since time.Time) ([]models.ChannelStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChannelStats), args.Error(1)
}

func (m *MockActivityRepository) GetDailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyTrend), args.Error(1)
}

func (m *MockActivityRepository) GetTopUsers(ctx context.Context, since time.Time, limit int) ([]models.UserActivity, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) GetTotals(ctx context.Context, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockDecisionRepository is a mock implementation of DecisionRepository
type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) Record(ctx context.Context, decision *models.AIDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockDecisionRepository) GetRecent(ctx context.Context, engine models.DecisionEngine, limit int) ([]*models.AIDecision, error) {
	args := m.Called(ctx, engine, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AIDecision), args.Error(1)
}

func (m *MockDecisionRepository) CountGuildsWithDecisions(ctx context.Context, engine models.DecisionEngine) (int, error) {
	args := m.Called(ctx, engine)
	return args.Int(0), args.Error(1)
}

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, content *models.GeneratedContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockLLM is a mock implementation of LLM
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// CompleteJSON decodes nothing itself. Tests fill out with a Run callback.
func (m *MockLLM) CompleteJSON(ctx context.Context, req ai.CompletionRequest, out any) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func (m *MockLLM) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockEconomyService is a mock of the economy surface used by other services
type MockEconomyService struct {
	mock.Mock
	EconomyService
}

func (m *MockEconomyService) Grant(ctx context.Context, guildID, discordID int64, amount int64, txType models.TransactionType, metadata map[string]any) (int64, error) {
	args := m.Called(ctx, guildID, discordID, amount, txType, metadata)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnalyticsService is a mock implementation of AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) LogMessage(ctx context.Context, guildID, channelID, discordID int64, length int) error {
	args := m.Called(ctx, guildID, channelID, discordID, length)
	return args.Error(0)
}

func (m *MockAnalyticsService) BuildInsights(ctx context.Context, guildID int64) (*models.CommunityInsights, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityInsights), args.Error(1)
}

// MockUnitOfWork mocks the transaction calls and hands out its repository mocks
type MockUnitOfWork struct {
	mock.Mock

	Accounts   *MockAccountRepository
	History    *MockBalanceHistoryRepository
	Settings   *MockGuildSettingsRepository
	Levels     *MockLevelRepository
	Moderation *MockModerationRepository
	Reminders  *MockReminderRepository
	Invites    *MockInviteRepository
	Activity   *MockActivityRepository
	Decisions  *MockDecisionRepository
	Content    *MockContentRepository
	Events     *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with a fresh mock for every repository
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Accounts:   new(MockAccountRepository),
		History:    new(MockBalanceHistoryRepository),
		Settings:   new(MockGuildSettingsRepository),
		Levels:     new(MockLevelRepository),
		Moderation: new(MockModerationRepository),
		Reminders:  new(MockReminderRepository),
		Invites:    new(MockInviteRepository),
		Activity:   new(MockActivityRepository),
		Decisions:  new(MockDecisionRepository),
		Content:    new(MockContentRepository),
		Events:     new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository               { return m.Accounts }
func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository { return m.History }
func (m *MockUnitOfWork) GuildSettingsRepository() GuildSettingsRepository   { return m.Settings }
func (m *MockUnitOfWork) LevelRepository() LevelRepository                   { return m.Levels }
func (m *MockUnitOfWork) ModerationRepository() ModerationRepository         { return m.Moderation }
func (m *MockUnitOfWork) ReminderRepository() ReminderRepository             { return m.Reminders }
func (m *MockUnitOfWork) InviteRepository() InviteRepository                 { return m.Invites }
func (m *MockUnitOfWork) ActivityRepository() ActivityRepository             { return m.Activity }
func (m *MockUnitOfWork) DecisionRepository() DecisionRepository             { return m.Decisions }
func (m *MockUnitOfWork) ContentRepository() ContentRepository               { return m.Content }
func (m *MockUnitOfWork) EventBus() EventPublisher                           { return m.Events }

// AssertAll checks the expectations of the unit of work and every repository mock
func (m *MockUnitOfWork) AssertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.Accounts.AssertExpectations(t)
	m.History.AssertExpectations(t)
	m.Settings.AssertExpectations(t)
	m.Levels.AssertExpectations(t)
	m.Moderation.AssertExpectations(t)
	m.Reminders.AssertExpectations(t)
	m.Invites.AssertExpectations(t)
	m.Activity.AssertExpectations(t)
	m.Decisions.AssertExpectations(t)
	m.Content.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}
