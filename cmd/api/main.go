package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rental-moderation/internal/api/http"
	"github.com/spec-kit/rental-moderation/internal/api/http/handlers"
	"github.com/spec-kit/rental-moderation/internal/auth"
	"github.com/spec-kit/rental-moderation/internal/config"
	"github.com/spec-kit/rental-moderation/internal/events"
	"github.com/spec-kit/rental-moderation/internal/observability"
	"github.com/spec-kit/rental-moderation/internal/persistence"
	"github.com/spec-kit/rental-moderation/internal/repository"
	"github.com/spec-kit/rental-moderation/internal/seed"
	"github.com/spec-kit/rental-moderation/internal/service"
	"github.com/spec-kit/rental-moderation/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.PoolHandle() != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var listingRepo repository.ListingRepository
	if pg.PoolHandle() != nil {
		listingRepo = repository.NewPostgresListingRepository(pg.PoolHandle())
	} else {
		listingRepo = repository.NewMemoryListingRepository()
	}

	listings, err := seed.Listings(cfg.Seed)
	if err != nil {
		logger.Fatal("failed to load listing fixtures", zap.Error(err))
	}
	if err := listingRepo.SeedIfEmpty(ctx, listings); err != nil {
		logger.Fatal("failed to seed listings", zap.Error(err))
	}

	admins, err := seed.Admins(cfg.Seed, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to load admin fixtures", zap.Error(err))
	}
	adminRepo := repository.NewMemoryAdminRepository(admins)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	moderationService := service.NewModerationService(service.ModerationDependencies{
		ListingRepo: listingRepo,
		Dispatcher:  dispatcher,
	})
	statsService := service.NewStatsService(listingRepo, redis.Client, cfg.Seed.StatsCacheTTL())
	authService := service.NewAuthService(*cfg, adminRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Listings:       handlers.NewListingsHandler(moderationService, statsService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
