package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/personalink/internal/config"
	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/httpserver"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/ingest"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/redis"
	"github.com/MrSnakeDoc/personalink/internal/scheduler"
	"github.com/MrSnakeDoc/personalink/internal/seed"
	"github.com/MrSnakeDoc/personalink/internal/store"
	"github.com/MrSnakeDoc/personalink/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/personalink/internal/store/redis"
	"github.com/MrSnakeDoc/personalink/internal/suggest"
	"github.com/MrSnakeDoc/personalink/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	expirer     *scheduler.NewFlagExpirer
}

// backend bundles the two store roles, served by one implementation.
type backend interface {
	store.LinkStore
	store.FeedbackStore
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnectTimeout+time.Minute)
	defer cancel()

	// Initialize the store early - fail fast if unavailable
	var (
		st          backend
		redisClient *goredis.Client
	)
	switch cfg.Store {
	case config.StoreMemory:
		loggerClient.Warn("using in-memory store, links will not survive a restart")
		st = memory.New()
	default:
		client, err := redis.Connect(startCtx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		st = redisstore.NewStore(client)
		loggerClient.Info("Redis initialized successfully")
	}

	// Seed an empty store (best effort)
	if cfg.SeedFile != "" {
		loader := seed.NewLoader(cfg.SeedFile, nil, nil)
		if _, err := seed.SeedIfEmpty(startCtx, st, loader, loggerClient); err != nil {
			loggerClient.Warn("failed to seed links",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		}
	}

	ingestor := ingest.New(st, domain.NewNormalizer(nil, nil), loggerClient.With(logger.String("component", "ingest")))

	// Suggestion source is optional; without it only manual ingestion is served
	var suggester deps.Suggester
	if cfg.SuggestEndpoint != "" {
		suggester = suggest.NewAdapter(
			suggest.NewHTTPSource(cfg.SuggestEndpoint, cfg.SuggestAPIKey, cfg.SuggestModel, cfg.SuggestTimeout),
			loggerClient.With(logger.String("component", "suggest")),
			suggest.WithBatchSize(cfg.SuggestBatchSize),
			suggest.WithStrictCount(cfg.SuggestStrict),
		)
		loggerClient.Info("suggestion source configured",
			logger.String("model", cfg.SuggestModel),
			logger.Int("batch_size", cfg.SuggestBatchSize),
			logger.Bool("strict", cfg.SuggestStrict))
	} else {
		loggerClient.Info("suggestion endpoint not configured, /api/links/suggest disabled")
	}

	// Create manual expiry trigger channel
	expireTrigger := make(chan struct{}, 1)

	expirer := scheduler.NewNewFlagExpirer(
		st,
		loggerClient.With(logger.String("component", "new-flag-expirer")),
		cfg.NewFlagInterval,
		cfg.NewFlagTTL,
		expireTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AdminCIDRS,
		TrustProxy:        cfg.TrustProxy,
		StoreKind:         cfg.Store,
		Links:             st,
		Feedback:          st,
		Ingestor:          ingestor,
		Suggester:         suggester,
		Model:             cfg.SuggestModel,
		Validate:          domain.NewValidator(),
		NewID:             domain.UUIDv7,
		SuggestBurst:      cfg.SuggestBurst,
		SuggestRefillRate: cfg.SuggestRefillRate,
		ExpireTrigger:     expireTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		expirer:     expirer,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting personalink %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start new-flag expirer (runs once now, then periodically)
	if err := a.expirer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start new-flag expirer: %w", err)
	}
	a.logger.Info("new-flag expirer started",
		logger.Duration("interval", a.cfg.NewFlagInterval),
		logger.Duration("ttl", a.cfg.NewFlagTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.expirer.Stop()
		return err
	}

	a.expirer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ personalink stopped cleanly")
	return nil
}
