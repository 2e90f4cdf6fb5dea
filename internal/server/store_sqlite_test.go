package server

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

func intPtr(v int) *int { return &v }

func TestCreateAndGetDuel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID:   "a@x",
		ChallengerUserName: "Alice",
		ChallengerScore:    800,
		OpponentUserID:     "b@x",
		OpponentUserName:   "Bob",
	})
	if err != nil {
		t.Fatalf("creating duel: %v", err)
	}

	d, err := store.GetDuel(ctx, id)
	if err != nil {
		t.Fatalf("getting duel: %v", err)
	}
	if d.Status != geobattle.DuelPending {
		t.Errorf("status = %q, want pending", d.Status)
	}
	if d.ChallengerScore != 800 {
		t.Errorf("challenger score = %d, want 800", d.ChallengerScore)
	}
	if d.OpponentScore != nil || d.Winner != nil {
		t.Errorf("fresh duel has opponent score %v / winner %v", d.OpponentScore, d.Winner)
	}
	if d.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	if _, err := store.GetDuel(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing duel err = %v, want ErrNotFound", err)
	}
}

func TestListOpenDuels(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 800,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})
	if err != nil {
		t.Fatalf("creating duel: %v", err)
	}
	second, err := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "c@x", ChallengerUserName: "Carol", ChallengerScore: 600,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})
	if err != nil {
		t.Fatalf("creating duel: %v", err)
	}
	// A duel for someone else must not show up.
	if _, err := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 700,
		OpponentUserID: "d@x", OpponentUserName: "Dave",
	}); err != nil {
		t.Fatalf("creating duel: %v", err)
	}

	duels, err := store.ListOpenDuels(ctx, "b@x")
	if err != nil {
		t.Fatalf("listing open duels: %v", err)
	}
	if len(duels) != 2 {
		t.Fatalf("open duels = %d, want 2", len(duels))
	}
	// Most recent first.
	if duels[0].ID != second || duels[1].ID != first {
		t.Errorf("order = [%d, %d], want [%d, %d]", duels[0].ID, duels[1].ID, second, first)
	}
	if duels[0].ChallengerUserName != "Carol" || duels[0].ChallengerScore != 600 {
		t.Errorf("entry = %+v", duels[0])
	}

	// Completion removes the duel from the open list.
	if _, err := store.CompleteDuel(ctx, first, User{ID: "b@x", Name: "Bob"}, 900); err != nil {
		t.Fatalf("completing duel: %v", err)
	}
	duels, err = store.ListOpenDuels(ctx, "b@x")
	if err != nil {
		t.Fatalf("listing open duels: %v", err)
	}
	if len(duels) != 1 || duels[0].ID != second {
		t.Errorf("after completion open duels = %+v, want only %d", duels, second)
	}
}

func TestCompleteDuelOpponentWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 800,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})

	out, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 950)
	if err != nil {
		t.Fatalf("completing duel: %v", err)
	}
	if out.Winner != geobattle.WinnerOpponent {
		t.Errorf("winner = %q, want opponent", out.Winner)
	}
	if out.BonusPoints != 10 {
		t.Errorf("bonus = %d, want 10", out.BonusPoints)
	}

	d, _ := store.GetDuel(ctx, id)
	if d.Status != geobattle.DuelCompleted {
		t.Errorf("status = %q, want completed", d.Status)
	}
	if d.OpponentScore == nil || *d.OpponentScore != 950 {
		t.Errorf("opponent score = %v, want 950", d.OpponentScore)
	}
	if d.Winner == nil || *d.Winner != geobattle.WinnerOpponent {
		t.Errorf("winner = %v, want opponent", d.Winner)
	}

	awards, err := store.ListBonusAwards(ctx, id)
	if err != nil {
		t.Fatalf("listing awards: %v", err)
	}
	if len(awards) != 1 {
		t.Fatalf("awards = %d, want 1", len(awards))
	}
	if awards[0].UserID != "b@x" || awards[0].Points != 10 {
		t.Errorf("award = %+v, want b@x with 10 points", awards[0])
	}
}

func TestCompleteDuelChallengerWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 800,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})

	out, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 400)
	if err != nil {
		t.Fatalf("completing duel: %v", err)
	}
	if out.Winner != geobattle.WinnerChallenger || out.BonusPoints != 10 {
		t.Errorf("outcome = %+v", out)
	}

	awards, _ := store.ListBonusAwards(ctx, id)
	if len(awards) != 1 {
		t.Fatalf("awards = %d, want 1", len(awards))
	}
	if awards[0].UserID != "a@x" || awards[0].UserName != "Alice" || awards[0].Points != 10 {
		t.Errorf("award = %+v, want Alice with 10 points", awards[0])
	}
}

func TestCompleteDuelDraw(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 500,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})

	out, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 500)
	if err != nil {
		t.Fatalf("completing duel: %v", err)
	}
	if out.Winner != geobattle.WinnerDraw || out.BonusPoints != 5 {
		t.Errorf("outcome = %+v, want draw with 5 points", out)
	}

	awards, _ := store.ListBonusAwards(ctx, id)
	if len(awards) != 2 {
		t.Fatalf("awards = %d, want 2", len(awards))
	}
	byUser := map[string]int{}
	for _, a := range awards {
		byUser[a.UserID] = a.Points
	}
	if byUser["a@x"] != 5 || byUser["b@x"] != 5 {
		t.Errorf("awards = %v, want 5 points each for a@x and b@x", byUser)
	}
}

func TestCompleteDuelTwice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 800,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})

	if _, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 950); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	_, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 999)
	if !errors.Is(err, ErrDuelCompleted) {
		t.Fatalf("second completion err = %v, want ErrDuelCompleted", err)
	}

	// Still exactly one transition and one award set.
	d, _ := store.GetDuel(ctx, id)
	if d.OpponentScore == nil || *d.OpponentScore != 950 {
		t.Errorf("opponent score = %v, want the first submission 950", d.OpponentScore)
	}
	awards, _ := store.ListBonusAwards(ctx, id)
	if len(awards) != 1 {
		t.Errorf("awards = %d, want 1", len(awards))
	}
}

func TestCompleteDuelConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 800,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 950)
		}()
	}
	wg.Wait()

	var won, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrDuelCompleted):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("successful completions = %d, want exactly 1", won)
	}
	if rejected != callers-1 {
		t.Errorf("rejected completions = %d, want %d", rejected, callers-1)
	}

	awards, _ := store.ListBonusAwards(ctx, id)
	if len(awards) != 1 {
		t.Errorf("awards = %d, want exactly 1 despite %d concurrent callers", len(awards), callers)
	}
}

func TestCompleteDuelNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CompleteDuel(context.Background(), 12345, User{ID: "b@x", Name: "Bob"}, 100)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHighscoreOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserts := []struct {
		user  string
		score int
	}{
		{"Uma", 300}, {"Vic", 900}, {"Wes", 900}, {"Xia", 100}, {"Yan", 500},
	}
	for _, in := range inserts {
		if err := store.RecordScore(ctx, in.user+"@x", in.user, in.score); err != nil {
			t.Fatalf("recording score: %v", err)
		}
	}

	entries, err := store.ListHighscores(ctx, false)
	if err != nil {
		t.Fatalf("listing highscores: %v", err)
	}

	wantScores := []int{900, 900, 500, 300, 100}
	wantNames := []string{"Vic", "Wes", "Yan", "Uma", "Xia"}
	if len(entries) != len(wantScores) {
		t.Fatalf("entries = %d, want %d", len(entries), len(wantScores))
	}
	for i := range entries {
		if entries[i].Score != wantScores[i] || entries[i].UserName != wantNames[i] {
			t.Errorf("entry %d = %+v, want %s/%d", i, entries[i], wantNames[i], wantScores[i])
		}
	}
}

func TestHighscoreWithBonus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Bob's best raw score is 700; he also wins a duel worth 10 points.
	if err := store.RecordScore(ctx, "a@x", "Alice", 800); err != nil {
		t.Fatalf("recording score: %v", err)
	}
	if err := store.RecordScore(ctx, "b@x", "Bob", 700); err != nil {
		t.Fatalf("recording score: %v", err)
	}
	if err := store.RecordScore(ctx, "b@x", "Bob", 200); err != nil {
		t.Fatalf("recording score: %v", err)
	}

	id, _ := store.CreateDuel(ctx, NewDuel{
		ChallengerUserID: "a@x", ChallengerUserName: "Alice", ChallengerScore: 600,
		OpponentUserID: "b@x", OpponentUserName: "Bob",
	})
	if _, err := store.CompleteDuel(ctx, id, User{ID: "b@x", Name: "Bob"}, 650); err != nil {
		t.Fatalf("completing duel: %v", err)
	}

	entries, err := store.ListHighscores(ctx, true)
	if err != nil {
		t.Fatalf("listing highscores with bonus: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want one per user", len(entries))
	}
	// Alice 800+0, Bob 700+10.
	if entries[0].UserName != "Alice" || entries[0].Score != 800 {
		t.Errorf("first = %+v, want Alice/800", entries[0])
	}
	if entries[1].UserName != "Bob" || entries[1].Score != 710 {
		t.Errorf("second = %+v, want Bob/710", entries[1])
	}
}
