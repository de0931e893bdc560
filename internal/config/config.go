package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	FeedModePostgres = "postgres"
	FeedModeLocal    = "local"
)

type Config struct {
	DBDSN       string        `envconfig:"DB_DSN" required:"true"`
	DBTimeout   time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	Environment string        `envconfig:"ENV" default:"development"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	Release     string        `envconfig:"RELEASE"`

	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// FeedMode: postgres доставляет события между экземплярами через LISTEN/NOTIFY, local только внутри процесса
	FeedMode string `envconfig:"FEED_MODE" default:"postgres"`

	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
	SentryDSN     string `envconfig:"SENTRY_DSN"`

	ReminderInterval time.Duration `envconfig:"REMINDER_INTERVAL" default:"5m"`
	ReminderLead     time.Duration `envconfig:"REMINDER_LEAD" default:"1h"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию только из переменных окружения
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.FeedMode != FeedModePostgres && c.FeedMode != FeedModeLocal {
		return fmt.Errorf("FEED_MODE must be %q or %q, got %q", FeedModePostgres, FeedModeLocal, c.FeedMode)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.ReminderInterval <= 0 || c.ReminderLead <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL and REMINDER_LEAD must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
