package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	TicketSource TicketSourceConfig
	Model        ModelConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the extraction audit log.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TicketSourceConfig points at the upstream ticket system.
type TicketSourceConfig struct {
	Domain   string
	Email    string
	APIToken string
}

// ModelConfig selects and configures the summarization backend.
type ModelConfig struct {
	UseLocalServer bool
	LocalServerURL string
	LocalModelName string
	HostedAPIKey   string
	HostedModel    string
	MaxTokens      int
	PromptTemplate string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-intel"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		TicketSource: TicketSourceConfig{
			Domain:   os.Getenv("TICKET_SOURCE_DOMAIN"),
			Email:    os.Getenv("TICKET_SOURCE_EMAIL"),
			APIToken: os.Getenv("TICKET_SOURCE_API_TOKEN"),
		},
		Model: ModelConfig{
			UseLocalServer: getEnvAsBool("MODEL_USE_LOCAL_SERVER", false),
			LocalServerURL: getEnv("MODEL_LOCAL_SERVER_URL", "http://localhost:11434"),
			LocalModelName: getEnv("MODEL_LOCAL_NAME", "llama3"),
			HostedAPIKey:   os.Getenv("MODEL_HOSTED_API_KEY"),
			HostedModel:    getEnv("MODEL_HOSTED_NAME", "gpt-4o-mini"),
			MaxTokens:      getEnvAsInt("MODEL_MAX_TOKENS", 300),
			PromptTemplate: os.Getenv("MODEL_PROMPT_TEMPLATE"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Validate checks the settings no extraction can proceed without. Runs at
// startup so misconfiguration fails fast instead of surfacing per request.
func (c *Config) Validate() error {
	if c.TicketSource.Domain == "" {
		return apperrors.NewConfigurationInvalid("ticket source domain is required", nil)
	}
	if !strings.Contains(c.TicketSource.Domain, ".") || strings.Contains(c.TicketSource.Domain, "/") {
		return apperrors.NewConfigurationInvalid("ticket source domain must be a bare hostname",
			map[string]any{"domain": c.TicketSource.Domain})
	}
	if c.TicketSource.Email == "" || !strings.Contains(c.TicketSource.Email, "@") {
		return apperrors.NewConfigurationInvalid("ticket source email must be a valid address", nil)
	}
	if c.TicketSource.APIToken == "" {
		return apperrors.NewConfigurationInvalid("ticket source API token is required", nil)
	}

	if c.Model.UseLocalServer {
		if c.Model.LocalServerURL == "" {
			return apperrors.NewConfigurationInvalid("local model server URL is required", nil)
		}
		if c.Model.LocalModelName == "" {
			return apperrors.NewConfigurationInvalid("local model name is required", nil)
		}
	} else if c.Model.HostedAPIKey == "" {
		return apperrors.NewConfigurationInvalid("hosted model API key is required when the local server is disabled", nil)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
