package service

import (
	"context"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/models"
)

// AccountRepository defines the interface for economy account data access.
// All methods are scoped to the guild the repository was created for.
type AccountRepository interface {
	// GetByDiscordID retrieves an account, returning nil when it does not exist
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// GetOrCreateForUpdate returns the account locked for the rest of the
	// transaction, creating it with a zero balance if needed
	GetOrCreateForUpdate(ctx context.Context, discordID int64) (account *models.Account, created bool, err error)

	// UpdateBalance sets a new balance
	UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error

	// UpdateDaily stores the daily claim time and streak
	UpdateDaily(ctx context.Context, discordID int64, claimedAt time.Time, streak int) error

	// UpdateCooldown stores the last use of a cooldown-gated action
	UpdateCooldown(ctx context.Context, discordID int64, kind CooldownKind, at time.Time) error

	// GetTopBalances returns the richest accounts in descending order
	GetTopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// GetRank returns the 1-based balance rank of an account
	GetRank(ctx context.Context, discordID int64) (int, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)

	// GetStats aggregates a user's balance history
	GetStats(ctx context.Context, discordID int64) (*models.EconomyStats, error)
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves guild settings or creates default ones if not found
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateGuildSettings updates guild settings
	UpdateGuildSettings(ctx context.Context, settings *models.GuildSettings) error
}

// LevelRepository defines the interface for message XP data access
type LevelRepository interface {
	// Get returns a member's level row, or nil if they never earned XP
	Get(ctx context.Context, discordID int64) (*models.UserLevel, error)

	// Upsert writes the full level row
	Upsert(ctx context.Context, level *models.UserLevel) error

	// GetTop returns the members with the most XP
	GetTop(ctx context.Context, limit int) ([]*models.RankedLevel, error)

	// GetRank returns the 1-based XP rank of a member
	GetRank(ctx context.Context, discordID int64) (int, error)
}

// ModerationRepository defines the interface for warnings and the moderation log
type ModerationRepository interface {
	AddWarning(ctx context.Context, warning *models.Warning) error
	CountWarnings(ctx context.Context, discordID int64) (int, error)
	ListWarnings(ctx context.Context, discordID int64) ([]*models.Warning, error)
	ClearWarnings(ctx context.Context, discordID int64) (int64, error)
	LogAction(ctx context.Context, entry *models.ModerationLog) error
}

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	// Create stores a new reminder
	Create(ctx context.Context, reminder *models.Reminder) error

	// CountPending returns how many reminders a user has queued
	CountPending(ctx context.Context, discordID int64) (int, error)

	// GetDue returns reminders due at or before now
	GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error)

	// Delete removes a delivered reminder
	Delete(ctx context.Context, id int64) error

	// GetGuildsWithDueReminders ignores the guild scope and lists guilds with due reminders
	GetGuildsWithDueReminders(ctx context.Context, now time.Time) ([]int64, error)
}

// InviteRepository defines the interface for invite attribution data access
type InviteRepository interface {
	// Record stores an attributed join
	Record(ctx context.Context, record *models.InviteRecord) error

	// CountActiveInvites counts invited members that are still in the guild
	CountActiveInvites(ctx context.Context, inviterID int64) (int, error)

	// MarkLeft flags every attribution of invitedID as no longer a member
	MarkLeft(ctx context.Context, invitedID int64, at time.Time) error

	// GetLeaderboard returns inviters ordered by active invites
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// ActivityRepository defines the interface for message analytics
type ActivityRepository interface {
	LogMessage(ctx context.Context, activity *models.MessageActivity) error
	GetChannelStats(ctx context.Context, since time.Time) ([]models.ChannelStats, error)
	GetDailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error)
	GetTopUsers(ctx context.Context, since time.Time, limit int) ([]models.UserActivity, error)
	GetTotals(ctx context.Context, since time.Time) (messages int64, users int64, err error)
}

// DecisionRepository defines the interface for AI decision memory
type DecisionRepository interface {
	// Record stores a decision
	Record(ctx context.Context, decision *models.AIDecision) error

	// GetRecent returns the latest decisions of an engine in this guild
	GetRecent(ctx context.Context, engine models.DecisionEngine, limit int) ([]*models.AIDecision, error)

	// CountGuildsWithDecisions ignores the guild scope and counts guilds an engine has acted in
	CountGuildsWithDecisions(ctx context.Context, engine models.DecisionEngine) (int, error)
}

// ContentRepository defines the interface for generated promotional content
type ContentRepository interface {
	Create(ctx context.Context, content *models.GeneratedContent) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// LLM is the language model surface used by the AI-backed services
type LLM interface {
	// Complete returns the text of a single chat completion
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)

	// CompleteJSON requests a JSON object and decodes it into out
	CompleteJSON(ctx context.Context, req ai.CompletionRequest, out any) error

	// GenerateImage returns the URL of a generated image
	GenerateImage(ctx context.Context, prompt string) (string, error)

	// Enabled reports whether an API key is configured
	Enabled() bool
}

// GuildSettingsService defines the interface for guild settings operations
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings or creates default ones if not found
	GetOrCreateSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpdateChannel stores the channel used for one announcement kind
	UpdateChannel(ctx context.Context, guildID int64, kind ChannelKind, channelID int64) error

	// SetToggle switches leveling or the autonomous manager on or off
	SetToggle(ctx context.Context, guildID int64, toggle SettingToggle, enabled bool) error
}

// EconomyService defines the interface for the guild currency
type EconomyService interface {
	GetBalance(ctx context.Context, guildID, discordID int64) (*models.BalanceInfo, error)
	ClaimDaily(ctx context.Context, guildID, discordID int64) (*models.DailyResult, error)
	Work(ctx context.Context, guildID, discordID int64) (*models.WorkResult, error)
	Crime(ctx context.Context, guildID, discordID int64) (*models.CrimeResult, error)
	Rob(ctx context.Context, guildID, robberID, victimID int64) (*models.RobResult, error)
	Transfer(ctx context.Context, guildID, fromID, toID int64, amount int64) (*models.TransferResult, error)

	// Grant credits coins outside the player-driven actions and returns the new balance
	Grant(ctx context.Context, guildID, discordID int64, amount int64, txType models.TransactionType, metadata map[string]any) (int64, error)

	Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)
}

// LevelingService defines the interface for message XP
type LevelingService interface {
	// ProcessMessage awards XP for a message and returns the level-up, if any
	ProcessMessage(ctx context.Context, guildID, channelID, discordID int64) (*models.LevelUp, error)

	// GetRank returns nil when the member has no XP yet
	GetRank(ctx context.Context, guildID, discordID int64) (*models.RankedLevel, error)

	GetTop(ctx context.Context, guildID int64, limit int) ([]*models.RankedLevel, error)
}

// ModerationService defines the interface for warnings and the moderation log
type ModerationService interface {
	Warn(ctx context.Context, guildID, targetID, moderatorID int64, reason string) (*models.WarnResult, error)
	ListWarnings(ctx context.Context, guildID, targetID int64) ([]*models.Warning, error)
	ClearWarnings(ctx context.Context, guildID, targetID, moderatorID int64) (int64, error)
	LogAction(ctx context.Context, entry *models.ModerationLog) error
}

// ReminderService defines the interface for scheduled reminders
type ReminderService interface {
	Schedule(ctx context.Context, guildID, discordID, channelID int64, minutes int, text string) (*models.Reminder, error)

	// DeliverDue hands every due reminder to deliver and returns how many were sent
	DeliverDue(ctx context.Context, deliver ReminderDeliverer) (int, error)
}

// InviteService defines the interface for invite attribution
type InviteService interface {
	RecordJoin(ctx context.Context, guildID, invitedID int64, used models.InviteSnapshot) (*models.InviteJoin, error)
	RecordLeave(ctx context.Context, guildID, invitedID int64) error
	GetStats(ctx context.Context, guildID, inviterID int64) (*models.InviteStats, error)
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)
}

// ChatService defines the interface for conversational AI features
type ChatService interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	ClearConversation(userID, channelID int64) bool
	Persona(ctx context.Context, persona, prompt string) (string, error)

	StartGame(ctx context.Context, userID, channelID int64, kind models.GameKind, variant string) (string, error)
	ContinueGame(ctx context.Context, userID, channelID int64, content string) (*models.GameTurn, error)
	EndGame(userID int64) bool
	PruneGames() int

	Riddle(ctx context.Context, difficulty string) (*models.Riddle, error)
	Trivia(ctx context.Context, category string) (*models.TriviaQuestion, error)

	SassyReply(ctx context.Context, userID int64, username, content string) (string, bool)
}

// AnalyticsService defines the interface for message analytics
type AnalyticsService interface {
	LogMessage(ctx context.Context, guildID, channelID, discordID int64, length int) error
	BuildInsights(ctx context.Context, guildID int64) (*models.CommunityInsights, error)
}

// AutonomousService defines the interface for the daily community manager
type AutonomousService interface {
	Threshold() float64
	Recommend(ctx context.Context, guild models.GuildSnapshot, insights *models.CommunityInsights) ([]models.Recommendation, error)
	Analyze(ctx context.Context, guildID int64, guild models.GuildSnapshot) (*models.AutonomousReport, error)
	RecordOutcomes(ctx context.Context, guildID int64, report *models.AutonomousReport, outcomes []models.DecisionOutcome) error
}

// CognitiveService defines the interface for the strategic analysis engine
type CognitiveService interface {
	Analyze(ctx context.Context, guildID int64, guild models.GuildSnapshot) (*models.CognitiveReport, error)
	RecordOutcomes(ctx context.Context, guildID int64, report *models.CognitiveReport, outcomes []models.DecisionOutcome) error
	Status(ctx context.Context, guildID int64) (*models.CognitiveStatus, error)
}

// PromotionService defines the interface for promotional content generation
type PromotionService interface {
	Generate(ctx context.Context, req models.PromotionRequest) (*models.GeneratedContent, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	GuildSettingsRepository() GuildSettingsRepository
	LevelRepository() LevelRepository
	ModerationRepository() ModerationRepository
	ReminderRepository() ReminderRepository
	InviteRepository() InviteRepository
	ActivityRepository() ActivityRepository
	DecisionRepository() DecisionRepository
	ContentRepository() ContentRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a unit of work whose repositories are scoped to guildID
	CreateForGuild(guildID int64) UnitOfWork
}
