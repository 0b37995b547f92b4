package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/veydras/realmd/internal/config"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/db"
	"github.com/veydras/realmd/internal/gameserver"
	"github.com/veydras/realmd/internal/ticker"
)

const DefaultConfigPath = "config/realmd.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := DefaultConfigPath
	if p := os.Getenv("REALMD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("realmd starting", "log_level", cfg.LogLevel, "port", cfg.Port)

	if err := content.Load(); err != nil {
		return fmt.Errorf("loading content tables: %w", err)
	}
	slog.Info("content tables loaded",
		"classes", len(content.Classes()),
		"items", len(content.Items()),
		"enemies", len(content.Enemies()))

	database, err := db.New(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	admins := gameserver.NewAdminList(cfg.AdminFile)
	loop := ticker.NewLoop()

	server := gameserver.NewServer(cfg, database, loop, admins)
	server.Bootstrap(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil {
			return fmt.Errorf("tick loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting websocket server", "bind", cfg.BindAddress, "port", cfg.Port)
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting autosave loop", "interval_s", cfg.AutosaveInterval)
		if err := server.RunAutosave(gctx); err != nil {
			return fmt.Errorf("autosave: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("watching admin allowlist", "path", cfg.AdminFile)
		if err := admins.Watch(gctx); err != nil {
			return fmt.Errorf("admin allowlist watcher: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
