package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateDuel(ctx context.Context, d NewDuel) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO duels (challenger_user_id, challenger_user_name, challenger_score, opponent_user_id, opponent_user_name)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, d.ChallengerUserID, d.ChallengerUserName, d.ChallengerScore, d.OpponentUserID, d.OpponentUserName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting duel: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) GetDuel(ctx context.Context, id int64) (geobattle.Duel, error) {
	var d geobattle.Duel
	var opponentScore sql.NullInt64
	var winner sql.NullString
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, challenger_user_id, challenger_user_name, challenger_score,
		       opponent_user_id, opponent_user_name, opponent_score, status, winner, created_at
		FROM duels
		WHERE id = ?
	`, id).Scan(
		&d.ID, &d.ChallengerUserID, &d.ChallengerUserName, &d.ChallengerScore,
		&d.OpponentUserID, &d.OpponentUserName, &opponentScore, &d.Status, &winner, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return geobattle.Duel{}, ErrNotFound
	}
	if err != nil {
		return geobattle.Duel{}, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if opponentScore.Valid {
		v := int(opponentScore.Int64)
		d.OpponentScore = &v
	}
	if winner.Valid {
		w := geobattle.Winner(winner.String)
		d.Winner = &w
	}
	return d, nil
}

func (s *SQLiteStore) ListOpenDuels(ctx context.Context, userID string) ([]OpenDuel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, challenger_user_name, challenger_score
		FROM duels
		WHERE opponent_user_id = ? AND status = 'pending'
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duels []OpenDuel
	for rows.Next() {
		var d OpenDuel
		if err := rows.Scan(&d.ID, &d.ChallengerUserName, &d.ChallengerScore); err != nil {
			return nil, err
		}
		duels = append(duels, d)
	}
	return duels, rows.Err()
}

func (s *SQLiteStore) CompleteDuel(ctx context.Context, duelID int64, opponent User, opponentScore int) (DuelOutcome, error) {
	var out DuelOutcome
	var challengerScore int
	var status string

	// challenger_score is immutable once the duel exists, so it can be read
	// outside the transaction.
	err := s.db.QueryRowContext(ctx, `
		SELECT challenger_user_id, challenger_user_name, challenger_score, status
		FROM duels
		WHERE id = ?
	`, duelID).Scan(&out.ChallengerUserID, &out.ChallengerUserName, &challengerScore, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, err
	}
	if status != string(geobattle.DuelPending) {
		return out, ErrDuelCompleted
	}

	winner := geobattle.DecideWinner(challengerScore, opponentScore)
	bonus := geobattle.BonusPoints(winner)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	defer tx.Rollback()

	// The conditional update is the serialization point: exactly one caller
	// ever sees a row transition here.
	res, err := tx.ExecContext(ctx, `
		UPDATE duels
		SET opponent_score = ?, status = 'completed', winner = ?
		WHERE id = ? AND status = 'pending'
	`, opponentScore, string(winner), duelID)
	if err != nil {
		return out, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return out, err
	} else if n == 0 {
		return out, ErrDuelCompleted
	}

	switch winner {
	case geobattle.WinnerOpponent:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO duel_scores (user_id, user_name, duel_id, points)
			VALUES (?, ?, ?, ?)
		`, opponent.ID, opponent.Name, duelID, bonus)
	case geobattle.WinnerChallenger:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO duel_scores (user_id, user_name, duel_id, points)
			VALUES (?, ?, ?, ?)
		`, out.ChallengerUserID, out.ChallengerUserName, duelID, bonus)
	default:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO duel_scores (user_id, user_name, duel_id, points)
			VALUES (?, ?, ?, ?), (?, ?, ?, ?)
		`, opponent.ID, opponent.Name, duelID, bonus,
			out.ChallengerUserID, out.ChallengerUserName, duelID, bonus)
	}
	if err != nil {
		return out, fmt.Errorf("inserting bonus awards: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return out, err
	}

	out.Winner = winner
	out.BonusPoints = bonus
	return out, nil
}

func (s *SQLiteStore) ListBonusAwards(ctx context.Context, duelID int64) ([]geobattle.BonusAward, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_name, duel_id, points
		FROM duel_scores
		WHERE duel_id = ?
		ORDER BY id
	`, duelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []geobattle.BonusAward
	for rows.Next() {
		var a geobattle.BonusAward
		if err := rows.Scan(&a.UserID, &a.UserName, &a.DuelID, &a.Points); err != nil {
			return nil, err
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

func (s *SQLiteStore) RecordScore(ctx context.Context, userID, userName string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (user_id, user_name, score)
		VALUES (?, ?, ?)
	`, userID, userName, score)
	return err
}

func (s *SQLiteStore) ListHighscores(ctx context.Context, includeBonus bool) ([]geobattle.HighscoreEntry, error) {
	query := `
		SELECT user_name, score
		FROM scores
		ORDER BY score DESC, id ASC
	`
	if includeBonus {
		// One row per user: best raw score plus all bonus points earned
		// from duels. Ties keep first-submission order.
		query = `
			SELECT s.user_name, MAX(s.score) + COALESCE(b.points, 0) AS total
			FROM scores s
			LEFT JOIN (
				SELECT user_id, SUM(points) AS points
				FROM duel_scores
				GROUP BY user_id
			) b ON b.user_id = s.user_id
			GROUP BY s.user_id
			ORDER BY total DESC, MIN(s.id) ASC
		`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []geobattle.HighscoreEntry
	for rows.Next() {
		var e geobattle.HighscoreEntry
		if err := rows.Scan(&e.UserName, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
