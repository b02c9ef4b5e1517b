package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"morabot/internal/bot"
	"morabot/internal/config"
	"morabot/internal/fetcher"
	"morabot/internal/scheduler"
	"morabot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	store, err := openStore(cfg, log)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	prefs := storage.NewPrefs(store)
	engine := fetcher.NewEngine(fetcher.New(http.DefaultClient), log)

	b, err := bot.New(cfg.TelegramBotToken, prefs, engine, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(prefs, engine, b, b, log, cfg.Location(), cfg.PushSchedule, cfg.Region)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "store", cfg.StoreBackend, "region", cfg.Region, "push_schedule", cfg.PushSchedule)

	go func() {
		if err := sched.Run(ctx); err != nil {
			log.Error("scheduler", "error", err)
		}
	}()

	b.Run(ctx)

	log.Info("bot stopped")
}

func openStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		store, err := storage.NewFile(cfg.StorePath)
		if err != nil {
			log.Error("open store file", "path", cfg.StorePath, "error", err)
			return nil, err
		}
		return store, nil
	default:
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				log.Error("create data directory", "path", dir, "error", err)
				return nil, err
			}
		}
		store, err := storage.NewSQLite(cfg.DatabasePath)
		if err != nil {
			log.Error("open database", "path", cfg.DatabasePath, "error", err)
			return nil, err
		}
		return store, nil
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
