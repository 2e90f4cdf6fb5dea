package geobattle

import "errors"

// SessionState is the round-engine state of a game session.
type SessionState string

const (
	StateAwaitingGuess SessionState = "awaiting_guess"
	StateResultShown   SessionState = "result_shown"
	StateComplete      SessionState = "complete"
)

var (
	// ErrRoundResolved is returned when a guess arrives for a round that
	// already has one.
	ErrRoundResolved = errors.New("round already resolved")
	// ErrAwaitingGuess is returned when the session is advanced before the
	// current round has a guess.
	ErrAwaitingGuess = errors.New("round still awaiting a guess")
	// ErrSessionDone is returned for any action on a completed session.
	ErrSessionDone = errors.New("session is complete")
)

// RoundResult is one guess-and-reveal cycle against a single city.
type RoundResult struct {
	City       City
	GuessLat   float64
	GuessLng   float64
	Guessed    bool
	DistanceKm float64
	Score      int
}

// GameSession is the in-progress sequence of rounds of a single player,
// solo or in response to a duel. It is a plain owned value: every
// transition goes through its methods, and nothing else mutates it.
type GameSession struct {
	Rounds    []RoundResult
	Round     int // 1-based index of the current round
	MaxRounds int
	Score     int // cumulative across resolved rounds
	State     SessionState
	DuelID    *int64 // set when playing in response to a duel
}

// NewSession starts a session on round 1 with a freshly drawn city.
func NewSession(maxRounds int, duelID *int64) *GameSession {
	return &GameSession{
		Rounds:    []RoundResult{{City: RandomCity()}},
		Round:     1,
		MaxRounds: maxRounds,
		State:     StateAwaitingGuess,
		DuelID:    duelID,
	}
}

// CurrentCity returns the city of the round in play.
func (s *GameSession) CurrentCity() City {
	return s.Rounds[len(s.Rounds)-1].City
}

// Guess resolves the current round: it computes distance and score for the
// guessed location and adds the score to the running total. A second guess
// in the same round is rejected without mutating anything.
func (s *GameSession) Guess(lat, lng float64) (RoundResult, error) {
	switch s.State {
	case StateComplete:
		return RoundResult{}, ErrSessionDone
	case StateResultShown:
		return RoundResult{}, ErrRoundResolved
	}

	r := &s.Rounds[len(s.Rounds)-1]
	r.GuessLat = lat
	r.GuessLng = lng
	r.Guessed = true
	r.DistanceKm = Distance(r.City.Lat, r.City.Lng, lat, lng)
	r.Score = Score(r.DistanceKm)

	s.Score += r.Score
	s.State = StateResultShown
	return *r, nil
}

// NextRound advances past a resolved round. On the last round it marks the
// session complete and reports done=true; otherwise it draws a new city
// and returns it.
func (s *GameSession) NextRound() (City, bool, error) {
	switch s.State {
	case StateComplete:
		return City{}, false, ErrSessionDone
	case StateAwaitingGuess:
		return City{}, false, ErrAwaitingGuess
	}

	if s.Round >= s.MaxRounds {
		s.State = StateComplete
		return City{}, true, nil
	}

	s.Round++
	s.State = StateAwaitingGuess
	s.Rounds = append(s.Rounds, RoundResult{City: RandomCity()})
	return s.CurrentCity(), false, nil
}

// Complete reports whether all rounds have been played.
func (s *GameSession) Complete() bool {
	return s.State == StateComplete
}
