package main

import (
	"context"
	"os"
	"time"

	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/Kariqs/puffvibe-api/initializers"
	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/middlewares"
	"github.com/Kariqs/puffvibe-api/notifications"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/Kariqs/puffvibe-api/routes"
	"github.com/Kariqs/puffvibe-api/services"
	"github.com/Kariqs/puffvibe-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	initializers.LoadEnv()
}

func main() {
	cfg := initializers.LoadConfig()
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      "stdout",
		Component:   "puffvibe-api",
		Environment: cfg.Environment,
	})
	defer log.Close()

	ctx := context.Background()

	var store repositories.Store
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("Using in-memory store, data will not survive a restart")
		store = repositories.NewMemoryStore()
	default:
		if err := initializers.ConnectToDB(cfg.DatabaseDSN); err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := initializers.SyncDatabase(initializers.DB); err != nil {
			log.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		log.Info("Database synced successfully")
		store = repositories.NewGormStore(initializers.DB)
	}

	var sink services.OrderSink
	if cfg.SimpleOrderSink == "database" && initializers.DB != nil {
		sink = repositories.NewGormSink(initializers.DB)
	} else {
		sink = repositories.NewRingSink(cfg.SimpleOrderCapacity)
	}

	var notifier notifications.Multi
	if cfg.NotifyWebhookURL != "" {
		notifier = append(notifier, notifications.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyWebhookToken))
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom != "" {
		notifier = append(notifier, notifications.NewEmailNotifier(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}))
	}

	var archiver services.ExportArchiver
	if cfg.ExportBucket != "" {
		s3Archiver, err := utils.NewS3Archiver(ctx, cfg.ExportBucket)
		if err != nil {
			log.Warn("Export archiving disabled", "error", err)
		} else {
			archiver = s3Archiver
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := initializers.ConnectToRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Rate limiting disabled", "error", err)
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	orderPolicy := services.ThresholdWaivedFee{Amount: cfg.OrderDeliveryFee, Threshold: cfg.FreeDeliveryThreshold}
	simplePolicy := services.FlatFee{Amount: cfg.SimpleOrderDeliveryFee}

	auth := services.NewAuthService(store, cfg.JWTSecret, log)
	catalog := services.NewCatalogService(store, log)
	handlers := &controllers.Handlers{
		Auth:         auth,
		Catalog:      catalog,
		Orders:       services.NewOrderService(store, orderPolicy, notifier, log),
		SimpleOrders: services.NewSimpleOrderService(sink, simplePolicy, notifier, log),
		Reports:      services.NewReportingService(store, cfg.ProfitMargin, archiver, log),
		Log:          log,
		Development:  cfg.IsDevelopment(),
	}

	if _, err := catalog.SeedDefault(ctx); err != nil {
		log.Error("Failed to seed catalog", "error", err)
	}
	if _, err := auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPhone, cfg.AdminPassword); err != nil {
		log.Error("Failed to create admin account", "error", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(middlewares.Recovery(log), middlewares.RequestLogger(log))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(server, handlers, routes.Guards{
		Auth:        middlewares.RequireAuth(auth),
		Admin:       middlewares.RequireAdmin(),
		SubmitLimit: middlewares.RateLimit(redisClient, "simple-orders", cfg.SimpleOrderRateLimit, time.Minute, log),
	})

	log.Info("Server starting", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
