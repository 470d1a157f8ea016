package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/investnyou-bot/internal/apiclient"
	"github.com/aliskhannn/investnyou-bot/internal/config"
	"github.com/aliskhannn/investnyou-bot/internal/delivery/health"
	"github.com/aliskhannn/investnyou-bot/internal/delivery/telegram"
	"github.com/aliskhannn/investnyou-bot/internal/infra/postgres"
	"github.com/aliskhannn/investnyou-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/investnyou-bot/internal/infra/redis"
	"github.com/aliskhannn/investnyou-bot/internal/infra/sqlite"
	"github.com/aliskhannn/investnyou-bot/internal/logger"
	"github.com/aliskhannn/investnyou-bot/internal/service"
	"github.com/aliskhannn/investnyou-bot/internal/state"
	"github.com/aliskhannn/investnyou-bot/internal/storage"
)

// sessionStore is what every storage driver provides.
type sessionStore interface {
	state.Store
	service.SessionLister
	Ping(ctx context.Context) error
}

func main() {
	// .env is optional; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	store, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache service.QuoteCache = redis.NopCache{}
	if cfg.Redis.Addr != "" {
		qc, err := redis.NewQuoteCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.QuoteTTL)
		if err != nil {
			lg.Warn("quote cache disabled", zap.Error(err))
		} else {
			defer func() { _ = qc.Close() }()
			cache = qc
		}
	}

	api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, lg)
	if err := api.Health(ctx); err != nil {
		lg.Warn("backend is not reachable yet", zap.String("base_url", api.BaseURL()), zap.Error(err))
	}

	// Initialize storages and services.
	sessions := state.NewManager(store)
	pending := storage.NewPendingStorage()
	quizzes := storage.NewQuizStorage()
	reminderStore := storage.NewReminderStorage()

	authService := service.NewAuthService(api, sessions, store, lg)
	factsService := service.NewFactsService(api, authService, sessions, lg)
	quotes := service.NewQuotes(api, cache, lg)

	svc := telegram.Services{
		Auth:      authService,
		Progress:  service.NewProgressService(api, authService, sessions, lg),
		Learning:  service.NewLearningService(api, authService, sessions),
		Facts:     factsService,
		Quiz:      service.NewQuizService(api, authService, sessions, quizzes, lg),
		Ask:       service.NewAskService(api, authService, lg),
		Portfolio: service.NewPortfolioService(api, authService, sessions, quotes, lg),
		Market:    service.NewMarketService(api, quotes),
		Watchlist: service.NewWatchlistService(api, authService, quotes),
		Settings:  service.NewSettingsService(sessions),
		User:      service.NewUserService(api, authService, sessions),
		Reset:     service.NewResetService(sessions, lg, pending, quizzes, reminderStore),
	}

	handler := telegram.NewHandler(bot, lg, svc, sessions, pending)

	reminders := service.NewReminderService(store, factsService, reminderStore, lg)
	reminders.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := handler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		authService.Start(gctx)
		return nil
	})

	if cfg.Reminders.Enabled {
		g.Go(func() error {
			reminders.Start(gctx)
			return nil
		})
	}

	if cfg.HTTP.Addr != "" {
		srv := health.NewServer(cfg.HTTP.Addr, store, health.CheckFunc(api.Health), lg)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	<-gctx.Done()
	lg.Info("shutdown signal received")

	return g.Wait()
}

// openStore opens the configured session storage.
func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (sessionStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("using sqlite session storage", zap.String("path", cfg.Storage.SQLitePath))
		return s, func() { _ = s.Close() }, nil

	case config.StoragePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConnections,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		err = postgres.NewTransactor(pool).WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return postgres.Migrate(ctx, tx)
		})
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		lg.Info("using postgres session storage")
		return repository.NewSessionRepository(pool), pool.Close, nil
	}

	lg.Info("using in-memory session storage")
	return storage.NewSessionStorage(), func() {}, nil
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Set up or open the dashboard"},
		{Command: "dashboard", Description: "Level, streak and today's fact"},
		{Command: "fact", Description: "Fact of the day"},
		{Command: "learn", Description: "Courses and lessons"},
		{Command: "progress", Description: "XP, level and badges"},
		{Command: "ask", Description: "Ask the AI assistant"},
		{Command: "portfolio", Description: "Practice portfolio"},
		{Command: "market", Description: "Market overview"},
		{Command: "watchlist", Description: "Your watchlist"},
		{Command: "settings", Description: "Preferences"},
		{Command: "help", Description: "All commands"},
	}
}
