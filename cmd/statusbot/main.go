package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/m3rciful/statusbot/internal/bot"
	"github.com/m3rciful/statusbot/internal/config"
	"github.com/m3rciful/statusbot/internal/database"
	"github.com/m3rciful/statusbot/internal/logger"
	"github.com/m3rciful/statusbot/internal/repository"
	"github.com/m3rciful/statusbot/internal/service"
	"github.com/m3rciful/statusbot/internal/session"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("statusbot: %v", err)
	}
}

func run() error {
	// Missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() { _ = logger.Shutdown() }()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	tb, err := bot.NewTelebot(cfg)
	if err != nil {
		return err
	}

	svc := service.New(
		repository.NewUserRepo(db),
		repository.NewStatusRepo(db),
		repository.NewSubscriptionRepo(db),
		bot.NewGateway(tb),
	)
	b := bot.New(cfg, tb, svc, session.NewStore(), service.NewSwitch())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthErr := make(chan error, 1)
	go func() {
		healthErr <- bot.ServeHealth(ctx, cfg.Health.Port)
	}()

	logger.L.Info("statusbot started",
		slog.String("event", "app.start"),
	)

	if err := b.Run(ctx); err != nil {
		return err
	}
	if err := <-healthErr; err != nil {
		logger.L.Warn("health listener stopped",
			slog.String("event", "health.stop"),
			slog.String("err", err.Error()),
		)
	}
	return nil
}
