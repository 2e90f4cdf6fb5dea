package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/MichiMauch/geobattle/internal/notify"
)

// Options bundles the collaborators of the HTTP surface.
type Options struct {
	Logger      *slog.Logger
	Store       Store
	Identity    IdentityProvider
	Notifier    notify.Notifier
	Leaderboard *Leaderboard
	Sessions    *SessionRegistry
	Broker      *Broker
	DB          *sql.DB
	Redis       *redis.Client // nil when caching is disabled
	MaxRounds   int
	BaseURL     string
	SPADir      string
}

func addRoutes(r chi.Router, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoBattle API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(opts.Logger, opts.DB, opts.Redis))

	// Everything under /api acts on behalf of a verified user.
	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware(opts.Identity))

		r.Post("/game/start", handleGameStart(opts.Store, opts.Sessions, opts.MaxRounds))
		r.Post("/game/guess", handleGameGuess(opts.Sessions))
		r.Post("/game/next", handleGameNext(opts.Sessions))

		r.Post("/duel/challenge", handleDuelChallenge(opts.Logger, opts.Store, opts.Broker, opts.Notifier, opts.BaseURL))
		r.Get("/duel/duels", handleDuelList(opts.Logger, opts.Store))
		r.Post("/duel/complete", handleDuelComplete(opts.Logger, opts.Store, opts.Broker, opts.Leaderboard))
		r.Get("/duel/events", handleEvents(opts.Broker))

		r.Post("/highscore", handleRecordScore(opts.Logger, opts.Store, opts.Leaderboard))
		r.Get("/highscore", handleHighscores(opts.Logger, opts.Leaderboard))
		r.Get("/highscore/rank", handleMyRank(opts.Logger, opts.Leaderboard))
	})

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			opts.Logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
