package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"papers-store-backend/internal/common/config"
	"papers-store-backend/internal/common/logger"
)

type Client struct {
	db *sqlx.DB
}

// NewClient opens the pool and pings it, retrying with exponential backoff
// up to POSTGRES_CONNECT_ATTEMPTS times.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	attempts := cfg.Postgres.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := time.Second
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := connect(ctx, cfg)
		if err == nil {
			logger.Info().
				Str("host", cfg.Postgres.Host).
				Int("port", cfg.Postgres.Port).
				Str("database", cfg.Postgres.Database).
				Int("attempt", attempt).
				Msg("PostgreSQL client initialized")
			return &Client{db: db}, nil
		}
		lastErr = err

		logger.Warn().Err(err).Int("attempt", attempt).Msg("PostgreSQL connect failed")
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect to postgres: %w", lastErr)
}

func connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewClientFromDB wraps an existing handle, e.g. one created by sqlmock.
func NewClientFromDB(db *sqlx.DB) *Client {
	return &Client{db: db}
}

func (c *Client) GetDB() *sqlx.DB {
	return c.db
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
