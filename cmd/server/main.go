package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/stockroom/backend/api/handler"
	"github.com/stockroom/backend/internal/config"
	"github.com/stockroom/backend/internal/infrastructure/journal"
	"github.com/stockroom/backend/internal/infrastructure/monitor"
	pgInfra "github.com/stockroom/backend/internal/infrastructure/postgres"
	redisInfra "github.com/stockroom/backend/internal/infrastructure/redis"
	"github.com/stockroom/backend/internal/middleware"
	"github.com/stockroom/backend/internal/router"
	"github.com/stockroom/backend/internal/services"
	"github.com/stockroom/backend/internal/services/lifecycle"
	"github.com/stockroom/backend/pkg/httpcontext"
	"github.com/stockroom/backend/pkg/logger"
	"github.com/stockroom/backend/repository/postgres"
	redisRepo "github.com/stockroom/backend/repository/redis"
	assetUC "github.com/stockroom/backend/usecase/asset"
	"github.com/stockroom/backend/usecase/audit"
	authUC "github.com/stockroom/backend/usecase/auth"
	eventUC "github.com/stockroom/backend/usecase/event"
	reportUC "github.com/stockroom/backend/usecase/report"
	stockUC "github.com/stockroom/backend/usecase/stock"
	ticketUC "github.com/stockroom/backend/usecase/ticket"
	userUC "github.com/stockroom/backend/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "events")
	if err != nil {
		zapLogger.Fatal("failed to open event journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	assetRepo := postgres.NewAssetRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.TTL)

	reconciler := services.NewReconciler(
		journalStore,
		mon,
		eventRepo,
		zapLogger,
		services.ReconcilerConfig{
			Interval:   cfg.Journal.SyncInterval,
			BatchSize:  cfg.Journal.BatchSize,
			MaxRetries: cfg.Journal.MaxRetry,
			Retention:  time.Duration(cfg.Journal.RetentionHours) * time.Hour,
		},
	)
	reconciler.Start()
	manager.Register("reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	recorder := audit.New(eventRepo, journalStore, zapLogger)

	assetService := assetUC.New(assetRepo, eventRepo, userRepo, recorder, zapLogger)
	eventService := eventUC.New(eventRepo, zapLogger)
	authService := authUC.New(userRepo, sessionRepo, authUC.TokenConfig{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, zapLogger)
	userService := userUC.New(userRepo, zapLogger)
	stockService := stockUC.New(productRepo, stockRepo, zapLogger)
	ticketService := ticketUC.New(ticketRepo, assetRepo, zapLogger)
	reportService := reportUC.New(assetRepo, stockRepo, ticketRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authService, ctxAdapter, zapLogger, cfg.JWT.TTL),
		Asset:  apiHandler.NewAssetHandler(assetService, ctxAdapter, zapLogger),
		Event:  apiHandler.NewEventHandler(eventService, ctxAdapter, zapLogger),
		User:   apiHandler.NewUserHandler(userService, ctxAdapter, zapLogger),
		Stock:  apiHandler.NewStockHandler(stockService, ctxAdapter, zapLogger),
		Ticket: apiHandler.NewTicketHandler(ticketService, ctxAdapter, zapLogger),
		Report: apiHandler.NewReportHandler(reportService, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authService, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
