package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"papers-store-backend/internal/common/cache"
	"papers-store-backend/internal/common/config"
	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/common/validation"
	accountRepo "papers-store-backend/internal/features/account/repository/postgres"
	accountService "papers-store-backend/internal/features/account/service"
	catalogRepo "papers-store-backend/internal/features/catalog/repository/postgres"
	catalogService "papers-store-backend/internal/features/catalog/service"
	invoiceService "papers-store-backend/internal/features/invoice/service"
	"papers-store-backend/internal/platform/postgres"
	"papers-store-backend/internal/platform/redis"
	"papers-store-backend/internal/platform/telegram"
	initdata "papers-store-backend/internal/utils/telegram"
	"papers-store-backend/internal/workers"
)

// @title           Papers Store API
// @version         1.0
// @description     Backend for a Telegram Mini App selling question papers for stars.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Telegram Mini App init data, JSON map or raw query string

// @tag.name catalog
// @tag.description Department, semester, year and paper browsing

// @tag.name users
// @tag.description Current user and profile

// @tag.name purchases
// @tag.description Buying papers and checking access

// @tag.name payments
// @tag.description Star top-up links

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting Papers Store Backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresClient, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	var (
		redisClient  redis.RedisClient
		streamClient redis.StreamClient
		cacheService *cache.CacheService
	)
	if cfg.Redis.Enabled {
		client, err := redis.CreateRedisClient(ctx, cfg)
		if err != nil {
			// The catalog cache is optional; serve straight from postgres.
			logger.Warn().Err(err).Msg("Redis unavailable, catalog cache disabled")
		} else {
			defer client.Close()
			redisClient = client
			streamClient = client
			cacheService = cache.NewCacheService(client)
		}
	}

	botUsername := cfg.Telegram.BotUsername
	if cfg.Telegram.ResolveUsername {
		resolveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		name, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIURL).BotUsername(resolveCtx)
		cancel()
		if err == nil {
			err = validation.ValidateBotUsername(name)
		}
		if err != nil {
			logger.Warn().Err(err).Str("fallback", botUsername).Msg("Failed to resolve bot username")
		} else {
			botUsername = name
		}
	}

	db := postgresClient.GetDB()
	deps := dependencies{
		cfg:      cfg,
		verifier: initdata.NewVerifier(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL.Duration()),
		catalog:  catalogService.NewCatalogService(catalogRepo.NewPostgresRepository(db), cacheService, cfg.CatalogCacheTTL),
		account:  accountService.NewAccountService(accountRepo.NewPostgresRepository(db)),
		invoice:  invoiceService.NewInvoiceService(botUsername),
		postgres: postgresClient,
		redis:    redisClient,
	}

	if cfg.Payments.StreamEnabled {
		if streamClient == nil {
			logger.Warn().Msg("Payment stream enabled but redis is unavailable")
		} else {
			worker := workers.NewPaymentStreamWorker(streamClient, deps.account,
				cfg.Payments.Stream, cfg.Payments.Group, cfg.Payments.Consumer)
			go worker.Start(ctx)
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Str("bot", botUsername).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
