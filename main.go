package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenilmodi00/ipo-allotment-tracker/config"
	"github.com/fenilmodi00/ipo-allotment-tracker/handlers"
	"github.com/fenilmodi00/ipo-allotment-tracker/jobs"
	"github.com/fenilmodi00/ipo-allotment-tracker/services"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	shared.ConfigureLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientFactory := shared.NewHTTPClientFactory(cfg.HTTPTimeout)
	defer clientFactory.CleanupAllClients()

	sheetService := services.NewSheetService(cfg.SheetCSVURL, clientFactory.CreateHTTPClient(-1))
	state := services.NewDashboardState()
	notifier := services.NewNotificationService(cfg.NotificationTTL)

	// Stream B and discovery are only built when an API key is configured
	intel, err := services.NewMarketIntelService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.WithError(err).Warn("Market intelligence unavailable, continuing with sheet data only")
		intel = services.DisabledMarketIntel{}
	}

	cacheConfig := *config.DefaultCacheConfig()
	cacheService := services.NewCacheService(cacheConfig)
	defer cacheService.Close()
	discovery := services.NewCachedDiscoveryService(intel, cacheService, cfg.DiscoveryCacheTTL)

	var intelMetrics *shared.ServiceMetrics
	if gemini, ok := intel.(*services.GeminiMarketIntelService); ok {
		intelMetrics = gemini.GetServiceMetrics()
	}

	refreshJobs := []jobs.Job{jobs.NewIPOListRefreshJob(sheetService, state, notifier)}
	if intel.Enabled() {
		refreshJobs = append(refreshJobs, jobs.NewMarketNewsRefreshJob(intel, state, notifier))
	}
	scheduler := jobs.NewRefreshScheduler(cfg.RefreshInterval, refreshJobs...)

	logrus.WithFields(logrus.Fields{
		"refresh_interval":    cfg.RefreshInterval,
		"market_intel":        intel.Enabled(),
		"discovery_cache_ttl": cfg.DiscoveryCacheTTL,
		"notification_ttl":    cfg.NotificationTTL,
	}).Info("IPO allotment tracker services initialized")

	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start refresh scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup Fiber
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	handlers.SetupRoutes(app, handlers.Handlers{
		IPO:          handlers.NewIPOHandler(state),
		Selection:    handlers.NewSelectionHandler(state),
		Market:       handlers.NewMarketHandler(state, discovery),
		Notification: handlers.NewNotificationHandler(notifier),
		Admin:        handlers.NewAdminHandler(scheduler, sheetService.GetHTTPMetrics(), intelMetrics, discovery.GetCacheStats),
	})

	go func() {
		<-ctx.Done()
		logrus.Info("Shutdown signal received")
		scheduler.Stop()
		if err := app.Shutdown(); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
