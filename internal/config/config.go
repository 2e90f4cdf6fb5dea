package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/geobattle.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR"`

	// Rounds per game session, solo and duel-response alike.
	MaxRounds int `env:"MAX_ROUNDS" envDefault:"2"`

	// When true the ranked view folds duel bonus points into each user's
	// entry; the default ranks raw submitted scores only.
	RankingIncludeBonus bool `env:"RANKING_INCLUDE_BONUS" envDefault:"false"`

	// Optional redis cache for the ranked view; empty disables caching.
	RedisURL            string        `env:"REDIS_URL"`
	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"15s"`

	// Outbound duel-challenge email; empty key disables sending.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"geobattle@example.com"`
	BaseURL      string `env:"BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("MAX_ROUNDS must be at least 1, got %d", cfg.MaxRounds)
	}
	return &cfg, nil
}
