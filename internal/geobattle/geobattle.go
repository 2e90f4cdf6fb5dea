// Package geobattle defines the core domain types and game rules.
// It has zero external dependencies — everything here is pure Go.
package geobattle

import "time"

// City is an entry of the fixed reference set a round is played against.
type City struct {
	Name string
	Lat  float64
	Lng  float64
}

// Winner identifies which side of a duel won.
type Winner string

const (
	WinnerChallenger Winner = "challenger"
	WinnerOpponent   Winner = "opponent"
	WinnerDraw       Winner = "draw"
)

type DuelStatus string

const (
	DuelPending   DuelStatus = "pending"
	DuelCompleted DuelStatus = "completed"
)

// Duel is an asynchronous challenge: the challenger fixes a score at
// creation, the opponent later plays a game and tries to beat it.
type Duel struct {
	ID                 int64
	ChallengerUserID   string
	ChallengerUserName string
	ChallengerScore    int
	OpponentUserID     string
	OpponentUserName   string
	OpponentScore      *int
	Status             DuelStatus
	Winner             *Winner
	CreatedAt          time.Time
}

// BonusAward is one row of the append-only bonus ledger. Awards are
// credited on duel completion and never updated or deleted.
type BonusAward struct {
	UserID   string
	UserName string
	DuelID   int64
	Points   int
}

// HighscoreEntry is one row of the ranked view.
type HighscoreEntry struct {
	UserName string
	Score    int
}

// DecideWinner compares the two final scores by strict comparison.
func DecideWinner(challengerScore, opponentScore int) Winner {
	switch {
	case opponentScore > challengerScore:
		return WinnerOpponent
	case challengerScore > opponentScore:
		return WinnerChallenger
	default:
		return WinnerDraw
	}
}

// BonusPoints returns the bonus credited per participant for an outcome:
// 10 for a decided duel (winner only), 5 on a draw (both sides).
func BonusPoints(w Winner) int {
	if w == WinnerDraw {
		return 5
	}
	return 10
}
