package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"

	payoutbot "github.com/raterhub/payoutbot"
	"github.com/raterhub/payoutbot/internal/auth"
	"github.com/raterhub/payoutbot/internal/config"
	"github.com/raterhub/payoutbot/internal/handler"
	"github.com/raterhub/payoutbot/internal/middleware"
	"github.com/raterhub/payoutbot/internal/repository"
	"github.com/raterhub/payoutbot/internal/service"
	"github.com/raterhub/payoutbot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(payoutbot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Authorization: fixed owner, delegates granted at runtime only
	registry := auth.NewRegistry(cfg.OwnerID)

	// Initialize services
	paymentRepo := repository.NewPaymentRepo(pool)
	beneficiaryRepo := repository.NewBeneficiaryRepo(pool)
	completionService := service.NewCompletionService(paymentRepo, cfg.StoreTimeout)
	resetService := service.NewResetService(beneficiaryRepo, cfg.StoreTimeout)

	// Telegram logger is wired after the bot exists; the recover middleware
	// reads it through this pointer.
	var tgLogger *telegram.TelegramLogger

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(reporterFunc(func(err error, context string) {
				if tgLogger != nil {
					tgLogger.LogError(err, context)
				}
			})),
			middleware.Logging(),
			middleware.RateLimit(cfg.RateLimitPerMinute),
			middleware.PrincipalLoader(),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:        b,
		Registry:   registry,
		Completion: completionService,
		Reset:      resetService,
		TgLogger:   tgLogger,
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "owner_id", cfg.OwnerID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

type reporterFunc func(err error, context string)

func (f reporterFunc) LogError(err error, context string) { f(err, context) }
