package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/whoami669/my-bot/ai"
	"github.com/whoami669/my-bot/bot"
	"github.com/whoami669/my-bot/config"
	"github.com/whoami669/my-bot/database"
	"github.com/whoami669/my-bot/events"
	"github.com/whoami669/my-bot/infrastructure"
	"github.com/whoami669/my-bot/infrastructure/observability"
	"github.com/whoami669/my-bot/repository"
	"github.com/whoami669/my-bot/service"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()

	logCloser, err := setupLogging(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	log.Infof("Starting communitybot %s...", Version)

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Mirror events to NATS when configured
	var natsClient *infrastructure.NATSClient
	if cfg.NATSURL != "" {
		natsClient = connectNATS(ctx, cfg.NATSURL, eventBus, metrics)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize AI client
	aiClient := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIFastModel, cfg.AIRequestsPerMinute)
	aiClient.SetObserver(metrics.RecordAIRequest)
	if !aiClient.Enabled() {
		log.Warn("OPENAI_API_KEY is not set, AI commands will answer with a notice")
	}

	// Initialize services
	log.Info("Initializing services...")
	services, err := buildServices(cfg, uowFactory, aiClient)
	if err != nil {
		return err
	}
	services.PruneActivity = func(ctx context.Context, before time.Time) (int64, error) {
		return repository.PruneActivity(ctx, db, before)
	}
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:      cfg.DiscordToken,
		GuildID:    cfg.GuildID,
		StatusText: cfg.StatusText,
		Version:    Version,
	}
	discordBot, err := bot.New(botConfig, services, metrics)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	bot.RegisterBotSubscriptions(eventBus, discordBot)
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)

		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
		if natsClient != nil {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Error("Error closing NATS connection")
			}
		}
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}

		log.Info("Closing database connection...")
		db.Close()
	}()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-done:
		log.Info("Shutdown completed")
	}

	return nil
}

// buildServices creates every domain service on top of the unit of work factory
func buildServices(cfg *config.Config, uowFactory service.UnitOfWorkFactory, llm service.LLM) (bot.Services, error) {
	conversations, err := service.NewConversationStore(service.ConversationMaxMessages)
	if err != nil {
		return bot.Services{}, err
	}
	sassyCooldown, err := service.NewCooldownTracker(service.SassyCooldown)
	if err != nil {
		return bot.Services{}, err
	}

	random := service.DefaultRandom
	economy := service.NewEconomyService(uowFactory, random)
	analytics := service.NewAnalyticsService(uowFactory)

	return bot.Services{
		Settings:   service.NewGuildSettingsService(uowFactory),
		Economy:    economy,
		Leveling:   service.NewLevelingService(uowFactory, random),
		Moderation: service.NewModerationService(uowFactory),
		Reminders:  service.NewReminderService(uowFactory),
		Invites:    service.NewInviteService(uowFactory),
		Chat:       service.NewChatService(llm, conversations, sassyCooldown, random),
		Analytics:  analytics,
		Autonomous: service.NewAutonomousService(uowFactory, llm, analytics, economy, cfg.AutonomousConfidenceThreshold),
		Cognitive:  service.NewCognitiveService(uowFactory, llm, analytics, cfg.CognitiveConfidenceThreshold),
		Promotion:  service.NewPromotionService(uowFactory, llm),

		InviteTracker: service.NewInviteTracker(),
		Random:        random,
	}, nil
}

// connectNATS attaches the event mirror. A broker outage only disables mirroring.
func connectNATS(ctx context.Context, url string, eventBus *events.Bus, metrics *observability.MetricsProvider) *infrastructure.NATSClient {
	client := infrastructure.NewNATSClient(url)
	if err := client.Connect(ctx); err != nil {
		log.WithError(err).Warn("Failed to connect to NATS, event mirroring disabled")
		return nil
	}
	if err := client.EnsureEventStream(); err != nil {
		log.WithError(err).Warn("Failed to ensure NATS event stream, event mirroring disabled")
		client.Close()
		return nil
	}

	infrastructure.NewNATSEventMirror(client, metrics).Attach(eventBus)
	log.Info("Mirroring domain events to NATS")
	return client
}
