package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"papers-store-backend/internal/common/validation"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port           int    `env:"PORT" envDefault:"8080"`
		Origin         string `env:"ORIGIN" envDefault:"*"`
		SwaggerEnabled bool   `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"papers"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
		ConnectAttempts int           `env:"POSTGRES_CONNECT_ATTEMPTS" envDefault:"5"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken    string   `env:"BOT_TOKEN,required,notEmpty"`
		BotUsername string   `env:"BOT_USERNAME" envDefault:"your_bot"`
		APIURL      string   `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
		AdminIDs    []string `env:"ADMIN_IDS" envSeparator:","`
		// ResolveUsername replaces BotUsername with the result of getMe at startup.
		ResolveUsername bool `env:"RESOLVE_BOT_USERNAME" envDefault:"false"`
		// InitDataTTL bounds the age of auth_date; zero disables the check.
		InitDataTTL Seconds `env:"INIT_DATA_TTL" envDefault:"0"`
	}

	Payments struct {
		StreamEnabled bool   `env:"PAYMENTS_STREAM_ENABLED" envDefault:"false"`
		Stream        string `env:"PAYMENTS_STREAM" envDefault:"payments:events"`
		Group         string `env:"PAYMENTS_GROUP" envDefault:"papers_backend"`
		Consumer      string `env:"PAYMENTS_CONSUMER" envDefault:"papers_worker_1"`
	}

	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"60s"`
}

// Seconds is a duration given either as a bare number of seconds ("3600")
// or in Go duration syntax ("1h").
type Seconds time.Duration

func (s *Seconds) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return fmt.Errorf("negative duration %q", raw)
		}
		*s = Seconds(time.Duration(n) * time.Second)
		return nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("negative duration %q", raw)
	}
	*s = Seconds(d)
	return nil
}

func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in production where variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validation.ValidateBotUsername(cfg.Telegram.BotUsername); err != nil {
		return nil, fmt.Errorf("BOT_USERNAME: %w", err)
	}

	return cfg, nil
}

// DSN builds a lib/pq connection string.
func (c *Config) DSN() string {
	p := c.Postgres
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// AdminIDList returns ADMIN_IDS as numeric Telegram ids, skipping malformed entries.
func (c *Config) AdminIDList() []int64 {
	ids := make([]int64, 0, len(c.Telegram.AdminIDs))
	for _, s := range c.Telegram.AdminIDs {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
