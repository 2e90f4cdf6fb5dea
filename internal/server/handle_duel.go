package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MichiMauch/geobattle/internal/notify"
)

type ChallengeRequest struct {
	OpponentUserID   string `json:"opponentUserId"`
	OpponentUserName string `json:"opponentUserName"`
	Score            *int   `json:"score"`
}

type ChallengeResponse struct {
	DuelID int64 `json:"duelId"`
}

func handleDuelChallenge(logger *slog.Logger, store Store, broker *Broker, notifier notify.Notifier, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req ChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.OpponentUserID = strings.TrimSpace(req.OpponentUserID)
		if req.OpponentUserID == "" {
			writeError(w, http.StatusBadRequest, "opponentUserId is required")
			return
		}
		if req.Score == nil || *req.Score < 0 {
			writeError(w, http.StatusBadRequest, "score must be a non-negative integer")
			return
		}
		opponentName := strings.TrimSpace(req.OpponentUserName)
		if opponentName == "" {
			opponentName = "unknown"
		}

		duelID, err := store.CreateDuel(r.Context(), NewDuel{
			ChallengerUserID:   user.ID,
			ChallengerUserName: user.Name,
			ChallengerScore:    *req.Score,
			OpponentUserID:     req.OpponentUserID,
			OpponentUserName:   opponentName,
		})
		if err != nil {
			logger.Error("creating duel", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(req.OpponentUserID, DuelEvent{
			Type:               "duel_created",
			DuelID:             duelID,
			ChallengerUserName: user.Name,
			ChallengerScore:    *req.Score,
		})

		// Best-effort: the duel is already committed, a failed email must
		// not fail the request.
		err = notifier.DuelCreated(r.Context(), notify.Challenge{
			DuelID:          duelID,
			ChallengerName:  user.Name,
			ChallengerScore: *req.Score,
			OpponentEmail:   req.OpponentUserID,
			GameURL:         baseURL,
		})
		if err != nil {
			logger.Warn("sending challenge notification", "duel_id", duelID, "error", err)
		}

		writeJSON(w, http.StatusOK, ChallengeResponse{DuelID: duelID})
	}
}

type OpenDuelsResponse struct {
	Duels []OpenDuel `json:"duels"`
}

func handleDuelList(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		duels, err := store.ListOpenDuels(r.Context(), user.ID)
		if err != nil {
			logger.Error("listing open duels", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if duels == nil {
			duels = []OpenDuel{}
		}

		writeJSON(w, http.StatusOK, OpenDuelsResponse{Duels: duels})
	}
}

type CompleteDuelRequest struct {
	DuelID        int64 `json:"duelId"`
	OpponentScore *int  `json:"opponentScore"`
}

type CompleteDuelResponse struct {
	Winner      string `json:"winner"`
	BonusPoints int    `json:"bonusPoints"`
}

func handleDuelComplete(logger *slog.Logger, store Store, broker *Broker, lb *Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req CompleteDuelRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.DuelID <= 0 {
			writeError(w, http.StatusBadRequest, "duelId is required")
			return
		}
		if req.OpponentScore == nil || *req.OpponentScore < 0 {
			writeError(w, http.StatusBadRequest, "opponentScore must be a non-negative integer")
			return
		}

		outcome, err := store.CompleteDuel(r.Context(), req.DuelID, user, *req.OpponentScore)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "duel not found")
			return
		case errors.Is(err, ErrDuelCompleted):
			writeError(w, http.StatusConflict, "duel already completed")
			return
		case err != nil:
			logger.Error("completing duel", "duel_id", req.DuelID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// The bonus rows just written may feed the ranked view.
		lb.Invalidate(r.Context())

		broker.Publish(outcome.ChallengerUserID, DuelEvent{
			Type:        "duel_completed",
			DuelID:      req.DuelID,
			Winner:      string(outcome.Winner),
			BonusPoints: outcome.BonusPoints,
		})

		writeJSON(w, http.StatusOK, CompleteDuelResponse{
			Winner:      string(outcome.Winner),
			BonusPoints: outcome.BonusPoints,
		})
	}
}
