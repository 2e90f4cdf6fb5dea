package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

type RecordScoreRequest struct {
	Score *int `json:"score"`
}

type RecordScoreResponse struct {
	Success bool `json:"success"`
}

func handleRecordScore(logger *slog.Logger, store Store, lb *Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req RecordScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Score == nil || *req.Score < 0 {
			writeError(w, http.StatusBadRequest, "score must be a non-negative integer")
			return
		}

		if err := store.RecordScore(r.Context(), user.ID, user.Name, *req.Score); err != nil {
			logger.Error("recording score", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		lb.Invalidate(r.Context())

		writeJSON(w, http.StatusOK, RecordScoreResponse{Success: true})
	}
}

// HighscoreEntry mirrors the domain entry with JSON field names.
type HighscoreEntry struct {
	UserName string `json:"userName"`
	Score    int    `json:"score"`
}

type HighscoresResponse struct {
	Highscores []HighscoreEntry `json:"highscores"`
}

func handleHighscores(logger *slog.Logger, lb *Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := lb.Ranked(r.Context())
		if err != nil {
			logger.Error("listing highscores", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := HighscoresResponse{Highscores: make([]HighscoreEntry, 0, len(entries))}
		for _, e := range entries {
			resp.Highscores = append(resp.Highscores, HighscoreEntry{UserName: e.UserName, Score: e.Score})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type RankResponse struct {
	Rank int `json:"rank"`
}

// handleMyRank ranks the caller's candidate score against the stored
// population, whether or not it has been persisted yet.
func handleMyRank(logger *slog.Logger, lb *Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		score, err := strconv.Atoi(r.URL.Query().Get("score"))
		if err != nil || score < 0 {
			writeError(w, http.StatusBadRequest, "score must be a non-negative integer")
			return
		}

		entries, err := lb.Ranked(r.Context())
		if err != nil {
			logger.Error("listing highscores", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rank, ok := geobattle.Rank(entries, user.Name, score)
		if !ok {
			writeError(w, http.StatusNotFound, "rank not found")
			return
		}
		writeJSON(w, http.StatusOK, RankResponse{Rank: rank})
	}
}
