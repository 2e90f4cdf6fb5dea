package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MichiMauch/geobattle/internal/config"
	"github.com/MichiMauch/geobattle/internal/database"
	"github.com/MichiMauch/geobattle/internal/migrations"
	"github.com/MichiMauch/geobattle/internal/notify"
	"github.com/MichiMauch/geobattle/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Redis (optional leaderboard cache) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
	}

	// --- Notifications ---
	var notifier notify.Notifier = notify.Noop{}
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewResend(cfg.ResendAPIKey, cfg.EmailFrom)
		logger.Info("challenge emails enabled", "from", cfg.EmailFrom)
	}

	// --- HTTP Server ---
	store := server.NewSQLiteStore(db)
	srv := server.New(cfg.HTTPAddr, server.Options{
		Logger:      logger,
		Store:       store,
		Identity:    server.HeaderIdentity{},
		Notifier:    notifier,
		Leaderboard: server.NewLeaderboard(store, cfg.RankingIncludeBonus, rdb, cfg.LeaderboardCacheTTL, logger),
		Sessions:    server.NewSessionRegistry(),
		Broker:      server.NewBroker(),
		DB:          db,
		Redis:       rdb,
		MaxRounds:   cfg.MaxRounds,
		BaseURL:     cfg.BaseURL,
		SPADir:      cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
