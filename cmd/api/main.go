package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/voiceout/platform/internal/api/http"
	"github.com/voiceout/platform/internal/api/http/handlers"
	"github.com/voiceout/platform/internal/auth"
	"github.com/voiceout/platform/internal/config"
	"github.com/voiceout/platform/internal/events"
	"github.com/voiceout/platform/internal/observability"
	"github.com/voiceout/platform/internal/persistence"
	"github.com/voiceout/platform/internal/repository"
	"github.com/voiceout/platform/internal/service"
	"github.com/voiceout/platform/internal/worker"
)

type repositories struct {
	cases   repository.CaseRepository
	notes   repository.CaseNoteRepository
	history repository.CaseHistoryRepository
	users   repository.UserRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics("voiceout")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := map[string]handlers.Pinger{}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var repos repositories
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pool := pg.PoolHandle()
		repos = repositories{
			cases:   repository.NewCaseRepository(pool),
			notes:   repository.NewCaseNoteRepository(pool),
			history: repository.NewCaseHistoryRepository(pool),
			users:   repository.NewUserRepository(pool),
		}
		deps["postgres"] = pg
	} else {
		mem := repository.NewMemoryStore()
		repos = repositories{cases: mem.Cases(), notes: mem.Notes(), history: mem.History(), users: mem.Users()}
	}

	if err := repository.Seed(ctx, repos.cases, repos.users, time.Now()); err != nil {
		logger.Fatal("failed to seed demo data", zap.Error(err))
	}

	var kv persistence.KeyValueStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		kv = persistence.NewRedisKV(redis.Client, cfg.Session.TTL())
		deps["redis"] = redis
	default:
		memory := persistence.NewMemoryKV(persistence.WithTTL(cfg.Session.TTL()))
		if cfg.Session.TTL() > 0 {
			worker.NewStorageJanitor(memory, cfg.Session.SweepInterval(), logger).Start(ctx)
		}
		kv = memory
	}
	logger.Info("session store selected", zap.String("store", cfg.Session.Store))

	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, logger, cfg.Notification).RegisterHandlers()

	credentials, err := auth.NewDemoCredentials(cfg.Auth.DemoPassword, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash demo password", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(service.AuthDependencies{
		Store:       kv,
		Tokens:      tokens,
		Credentials: credentials,
		UserRepo:    repos.users,
		Metrics:     metrics,
		Logger:      logger,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:    repos.cases,
		NoteRepo:    repos.notes,
		HistoryRepo: repos.history,
		UserRepo:    repos.users,
		Dispatcher:  dispatcher,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Roles:          handlers.NewRolesHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Cases:          handlers.NewCasesHandler(caseService),
		SelfHelp:       handlers.NewSelfHelpHandler(logger),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, kv, logger),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
