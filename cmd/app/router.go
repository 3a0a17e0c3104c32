package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "papers-store-backend/docs"
	"papers-store-backend/internal/common/config"
	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/common/middleware"
	accountHTTP "papers-store-backend/internal/features/account/delivery/http"
	accountService "papers-store-backend/internal/features/account/service"
	catalogHTTP "papers-store-backend/internal/features/catalog/delivery/http"
	catalogService "papers-store-backend/internal/features/catalog/service"
	invoiceHTTP "papers-store-backend/internal/features/invoice/delivery/http"
	invoiceService "papers-store-backend/internal/features/invoice/service"
	"papers-store-backend/internal/platform/redis"
)

const serviceName = "papers-store-backend"

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

type dependencies struct {
	cfg      *config.Config
	verifier middleware.InitDataVerifier
	catalog  catalogService.CatalogService
	account  accountService.AccountService
	invoice  invoiceService.InvoiceService
	postgres healthChecker
	// redis is nil when caching is disabled.
	redis redis.RedisClient
}

func newRouter(deps dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Errors())

	corsConfig := cors.DefaultConfig()
	if deps.cfg.Server.Origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{deps.cfg.Server.Origin}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.InitDataHeader, middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	catalogHTTP.NewCatalogHandler(deps.catalog).RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.TelegramInitData(deps.verifier))
	{
		accountHandler := accountHTTP.NewAccountHandler(deps.account)
		accountHandler.RegisterRoutes(authed)
		accountHandler.RegisterAdminRoutes(authed, deps.cfg.AdminIDList())

		invoiceHTTP.NewInvoiceHandler(deps.invoice).RegisterRoutes(authed)
	}

	if deps.cfg.Server.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerProbes(router, deps)

	return router
}

func registerProbes(router *gin.Engine, deps dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.postgres.HealthCheck(ctx); err != nil {
			logger.Warn().Err(err).Msg("Readiness check failed: postgres")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "postgres unavailable",
			})
			return
		}

		if deps.redis != nil {
			if err := deps.redis.Ping(ctx).Err(); err != nil {
				logger.Warn().Err(err).Msg("Readiness check failed: redis")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unready",
					"error":  "redis unavailable",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
