package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/whoami669/my-bot/database"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	GuildID      string `env:"DISCORD_GUILD_ID"` // Register commands to a single guild when set
	StatusText   string `env:"BOT_STATUS_TEXT" envDefault:"Where am i? who am i? | /help"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// OpenAI configuration
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenAIModel         string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAIFastModel     string `env:"OPENAI_FAST_MODEL" envDefault:"gpt-4o-mini"`
	AIRequestsPerMinute int    `env:"AI_REQUESTS_PER_MINUTE" envDefault:"60"`

	// Autonomous manager configuration
	AutonomousConfidenceThreshold float64 `env:"AUTONOMOUS_CONFIDENCE_THRESHOLD" envDefault:"0.75"`
	CognitiveConfidenceThreshold  float64 `env:"COGNITIVE_CONFIDENCE_THRESHOLD" envDefault:"0.8"`

	// NATS configuration
	NATSURL string `env:"NATS_URL"` // Event mirroring is disabled when empty

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"`
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"communitybot"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MS" envDefault:"60000"`

	// Logging configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// AIEnabled reports whether an OpenAI key is configured
func (c *Config) AIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// load reads an optional .env file and parses the environment into a Config
func load() (*Config, error) {
	// A missing .env is normal in containers
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Environment == "test" {
		return nil
	}
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if c.AutonomousConfidenceThreshold < 0 || c.AutonomousConfidenceThreshold > 1 {
		return fmt.Errorf("AUTONOMOUS_CONFIDENCE_THRESHOLD must be between 0 and 1")
	}
	if c.CognitiveConfidenceThreshold < 0 || c.CognitiveConfidenceThreshold > 1 {
		return fmt.Errorf("COGNITIVE_CONFIDENCE_THRESHOLD must be between 0 and 1")
	}
	if c.AIRequestsPerMinute <= 0 {
		return fmt.Errorf("AI_REQUESTS_PER_MINUTE must be positive")
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:                   "test",
		DiscordToken:                  "test-token",
		OpenAIModel:                   "gpt-4o",
		OpenAIFastModel:               "gpt-4o-mini",
		AIRequestsPerMinute:           60,
		AutonomousConfidenceThreshold: 0.75,
		CognitiveConfidenceThreshold:  0.8,
		LogLevel:                      "info",
		LogFormat:                     "text",
	}
}
