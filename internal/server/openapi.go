package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps check names to their status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoBattle API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoBattle geography-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a game session")
	postStart.SetDescription("Starts a solo or duel-response session and returns the first city.")
	postStart.AddReqStructure(StartGameRequest{})
	postStart.AddRespStructure(StartGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/game/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Resolves the current round: distance, round score and running total.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// POST /api/game/next
	postNext, _ := r.NewOperationContext(http.MethodPost, "/api/game/next")
	postNext.SetSummary("Advance to the next round")
	postNext.SetDescription("Draws the next city, or completes the session after the last round.")
	postNext.AddReqStructure(NextRoundRequest{})
	postNext.AddRespStructure(NextRoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNext.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postNext)

	// POST /api/duel/challenge
	postChallenge, _ := r.NewOperationContext(http.MethodPost, "/api/duel/challenge")
	postChallenge.SetSummary("Create a duel")
	postChallenge.SetDescription("Challenges an opponent with the caller's score as the target to beat.")
	postChallenge.AddReqStructure(ChallengeRequest{})
	postChallenge.AddRespStructure(ChallengeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postChallenge)

	// GET /api/duel/duels
	getDuels, _ := r.NewOperationContext(http.MethodGet, "/api/duel/duels")
	getDuels.SetSummary("List open duels")
	getDuels.SetDescription("Pending duels where the caller is the opponent, newest first.")
	getDuels.AddRespStructure(OpenDuelsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getDuels.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getDuels)

	// POST /api/duel/complete
	postComplete, _ := r.NewOperationContext(http.MethodPost, "/api/duel/complete")
	postComplete.SetSummary("Complete a duel")
	postComplete.SetDescription("Submits the opponent's final score, decides the winner and awards bonus points. Completing the same duel twice returns 409.")
	postComplete.AddReqStructure(CompleteDuelRequest{})
	postComplete.AddRespStructure(CompleteDuelResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postComplete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postComplete)

	// GET /api/duel/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/duel/events")
	getEvents.SetSummary("Duel notification stream")
	getEvents.SetDescription("Server-Sent Events stream of duel_created and duel_completed events for the caller.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/highscore
	postScore, _ := r.NewOperationContext(http.MethodPost, "/api/highscore")
	postScore.SetSummary("Record a score")
	postScore.SetDescription("Appends one raw game score for the caller.")
	postScore.AddReqStructure(RecordScoreRequest{})
	postScore.AddRespStructure(RecordScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postScore)

	// GET /api/highscore
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/highscore")
	getScores.SetSummary("Ranked highscores")
	getScores.SetDescription("All highscore entries sorted by score descending.")
	getScores.AddRespStructure(HighscoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getScores)

	// GET /api/highscore/rank
	getRank, _ := r.NewOperationContext(http.MethodGet, "/api/highscore/rank")
	getRank.SetSummary("Rank of a candidate score")
	getRank.SetDescription("1-based position of the caller's score within the ranking, persisted or not.")
	getRank.AddRespStructure(RankResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRank.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getRank)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
