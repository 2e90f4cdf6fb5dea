package server

import (
	"context"
	"errors"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuelCompleted is returned when a completion call hits a duel whose
	// status already left 'pending'. The first completion wins; repeats
	// must never re-award bonus points.
	ErrDuelCompleted = errors.New("duel already completed")
)

// NewDuel carries the fields of a challenge at creation time.
type NewDuel struct {
	ChallengerUserID   string
	ChallengerUserName string
	ChallengerScore    int
	OpponentUserID     string
	OpponentUserName   string
}

// OpenDuel is one pending challenge as shown to the opponent.
type OpenDuel struct {
	ID                 int64  `json:"id"`
	ChallengerUserName string `json:"challengerUserName"`
	ChallengerScore    int    `json:"challengerScore"`
}

// DuelOutcome is the result of a successful completion.
type DuelOutcome struct {
	Winner             geobattle.Winner
	BonusPoints        int
	ChallengerUserID   string
	ChallengerUserName string
}

type Store interface {
	CreateDuel(ctx context.Context, d NewDuel) (int64, error)
	GetDuel(ctx context.Context, id int64) (geobattle.Duel, error)
	ListOpenDuels(ctx context.Context, userID string) ([]OpenDuel, error)

	// CompleteDuel transitions the duel from pending to completed and
	// writes the bonus ledger rows in the same transaction. The opponent
	// identity is the acting caller; opponentScore is their final game
	// score. Returns ErrNotFound for unknown ids and ErrDuelCompleted if
	// the transition already happened.
	CompleteDuel(ctx context.Context, duelID int64, opponent User, opponentScore int) (DuelOutcome, error)

	ListBonusAwards(ctx context.Context, duelID int64) ([]geobattle.BonusAward, error)

	RecordScore(ctx context.Context, userID, userName string, score int) error
	ListHighscores(ctx context.Context, includeBonus bool) ([]geobattle.HighscoreEntry, error)
}
