package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/whoami669/my-bot/bot/features/aichat"
	"github.com/whoami669/my-bot/bot/features/cognitive"
	"github.com/whoami669/my-bot/bot/features/economy"
	"github.com/whoami669/my-bot/bot/features/fun"
	"github.com/whoami669/my-bot/bot/features/games"
	"github.com/whoami669/my-bot/bot/features/info"
	"github.com/whoami669/my-bot/bot/features/insights"
	"github.com/whoami669/my-bot/bot/features/invites"
	"github.com/whoami669/my-bot/bot/features/leveling"
	"github.com/whoami669/my-bot/bot/features/moderation"
	"github.com/whoami669/my-bot/bot/features/promotion"
	"github.com/whoami669/my-bot/bot/features/roles"
	"github.com/whoami669/my-bot/bot/features/serversetup"
	"github.com/whoami669/my-bot/bot/features/settings"
	"github.com/whoami669/my-bot/bot/features/utility"
	"github.com/whoami669/my-bot/bot/features/welcome"
	"github.com/whoami669/my-bot/infrastructure/observability"
	"github.com/whoami669/my-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token      string
	GuildID    string // Commands are registered globally when empty
	StatusText string
	Version    string
}

// Services bundles the domain services the features are built on
type Services struct {
	Settings   service.GuildSettingsService
	Economy    service.EconomyService
	Leveling   service.LevelingService
	Moderation service.ModerationService
	Reminders  service.ReminderService
	Invites    service.InviteService
	Chat       service.ChatService
	Analytics  service.AnalyticsService
	Autonomous service.AutonomousService
	Cognitive  service.CognitiveService
	Promotion  service.PromotionService

	InviteTracker *service.InviteTracker
	Random        service.Random

	// PruneActivity deletes message activity older than before; nil disables pruning
	PruneActivity func(ctx context.Context, before time.Time) (int64, error)
}

// commandFeature is implemented by every feature that serves slash commands
type commandFeature interface {
	Commands() []*discordgo.ApplicationCommand
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	// Core components
	config    Config
	session   *discordgo.Session
	services  Services
	metrics   *observability.MetricsProvider
	startedAt time.Time

	// Feature modules
	economy     *economy.Feature
	leveling    *leveling.Feature
	moderation  *moderation.Feature
	utility     *utility.Feature
	info        *info.Feature
	roles       *roles.Feature
	settings    *settings.Feature
	welcome     *welcome.Feature
	invites     *invites.Feature
	aiChat      *aichat.Feature
	fun         *fun.Feature
	games       *games.Feature
	insights    *insights.Feature
	cognitive   *cognitive.Feature
	promotion   *promotion.Feature
	serverSetup *serversetup.Feature

	// Slash command name to the feature that serves it
	routes   map[string]commandFeature
	commands []*discordgo.ApplicationCommand

	// Worker cleanup function
	stopWorkers func()
}

// New creates a bot with every feature, opens the gateway and registers commands.
// metrics may be nil.
func New(config Config, services Services, metrics *observability.MetricsProvider) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := newBot(dg, config, services, metrics)

	// Register handlers
	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleGuildDelete)
	dg.AddHandler(bot.handleMemberAdd)
	dg.AddHandler(bot.handleMemberRemove)
	dg.AddHandler(bot.handleMemberUpdate)
	dg.AddHandler(bot.handleInviteCreate)
	dg.AddHandler(bot.handleInviteDelete)
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopWorkers = bot.StartWorkers(context.Background())
	log.Info("Background workers started")

	return bot, nil
}

// newBot wires the features around a session without connecting it
func newBot(dg *discordgo.Session, config Config, services Services, metrics *observability.MetricsProvider) *Bot {
	if services.Random == nil {
		services.Random = service.DefaultRandom
	}

	bot := &Bot{
		config:    config,
		session:   dg,
		services:  services,
		metrics:   metrics,
		startedAt: time.Now(),
	}

	quiz := fun.NewQuiz()

	bot.economy = economy.New(services.Economy)
	bot.leveling = leveling.New(dg, services.Leveling)
	bot.moderation = moderation.New(services.Moderation)
	bot.utility = utility.New(services.Reminders, services.Random)
	bot.info = info.New(&info.Stats{
		StartedAt:    bot.startedAt,
		Version:      config.Version,
		CommandCount: func() int { return len(bot.commands) },
	})
	bot.roles = roles.New()
	bot.settings = settings.New(services.Settings)
	bot.welcome = welcome.New(services.Settings)
	bot.invites = invites.New(dg, services.Invites, services.InviteTracker)
	bot.aiChat = aichat.New(services.Chat)
	bot.fun = fun.New(services.Random, quiz)
	bot.games = games.New(services.Chat, quiz)
	bot.insights = insights.New(dg, services.Analytics, services.Autonomous, services.Settings)
	bot.cognitive = cognitive.New(dg, services.Cognitive, services.Settings)
	bot.promotion = promotion.New(services.Promotion)
	bot.serverSetup = serversetup.New()

	bot.buildRoutes([]commandFeature{
		bot.economy,
		bot.leveling,
		bot.moderation,
		bot.utility,
		bot.info,
		bot.roles,
		bot.settings,
		bot.welcome,
		bot.invites,
		bot.aiChat,
		bot.fun,
		bot.games,
		bot.insights,
		bot.cognitive,
		bot.promotion,
		bot.serverSetup,
	})

	return bot
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopWorkers != nil {
		b.stopWorkers()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}
