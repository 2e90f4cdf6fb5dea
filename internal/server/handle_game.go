package server

import (
	"errors"
	"net/http"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

// CityInfo is a city as exposed to the client.
type CityInfo struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func cityInfo(c geobattle.City) CityInfo {
	return CityInfo{Name: c.Name, Lat: c.Lat, Lng: c.Lng}
}

type StartGameRequest struct {
	DuelID *int64 `json:"duelId,omitempty"`
}

type StartGameResponse struct {
	SessionID string   `json:"sessionId"`
	Round     int      `json:"round"`
	MaxRounds int      `json:"maxRounds"`
	City      CityInfo `json:"city"`
}

func handleGameStart(store Store, games *SessionRegistry, maxRounds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// A duel-response session must point at a real, still-open duel.
		if req.DuelID != nil {
			duel, err := store.GetDuel(r.Context(), *req.DuelID)
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "duel not found")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if duel.Status != geobattle.DuelPending {
				writeError(w, http.StatusConflict, "duel already completed")
				return
			}
		}

		id, s := games.Start(maxRounds, req.DuelID)

		writeJSON(w, http.StatusOK, StartGameResponse{
			SessionID: id,
			Round:     s.Round,
			MaxRounds: s.MaxRounds,
			City:      cityInfo(s.CurrentCity()),
		})
	}
}

type GuessRequest struct {
	SessionID string  `json:"sessionId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

type GuessResponse struct {
	Round      int      `json:"round"`
	City       CityInfo `json:"city"`
	DistanceKm float64  `json:"distanceKm"`
	Score      int      `json:"score"`
	TotalScore int      `json:"totalScore"`
	LastRound  bool     `json:"lastRound"`
}

func handleGameGuess(games *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required")
			return
		}
		if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
			writeError(w, http.StatusBadRequest, "guess coordinates out of range")
			return
		}

		var resp GuessResponse
		err := games.With(req.SessionID, func(s *geobattle.GameSession) error {
			result, err := s.Guess(req.Lat, req.Lng)
			if err != nil {
				return err
			}
			resp = GuessResponse{
				Round:      s.Round,
				City:       cityInfo(result.City),
				DistanceKm: result.DistanceKm,
				Score:      result.Score,
				TotalScore: s.Score,
				LastRound:  s.Round == s.MaxRounds,
			}
			return nil
		})
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case errors.Is(err, geobattle.ErrRoundResolved), errors.Is(err, geobattle.ErrSessionDone):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type NextRoundRequest struct {
	SessionID string `json:"sessionId"`
}

type NextRoundResponse struct {
	Complete   bool      `json:"complete"`
	Round      int       `json:"round,omitempty"`
	City       *CityInfo `json:"city,omitempty"`
	FinalScore int       `json:"finalScore,omitempty"`
	DuelID     *int64    `json:"duelId,omitempty"`
}

func handleGameNext(games *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NextRoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		var resp NextRoundResponse
		err := games.With(req.SessionID, func(s *geobattle.GameSession) error {
			city, done, err := s.NextRound()
			if err != nil {
				return err
			}
			if done {
				// Session is over: the final score is the client's cue to
				// record a highscore or complete the duel it was playing.
				resp = NextRoundResponse{
					Complete:   true,
					FinalScore: s.Score,
					DuelID:     s.DuelID,
				}
				return nil
			}
			c := cityInfo(city)
			resp = NextRoundResponse{
				Round: s.Round,
				City:  &c,
			}
			return nil
		})
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case errors.Is(err, geobattle.ErrAwaitingGuess), errors.Is(err, geobattle.ErrSessionDone):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if resp.Complete {
			games.Remove(req.SessionID)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
