package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

// memoryCache is an in-process rankedCache for tests.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return raw, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Del(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestLeaderboardCachesRankedView(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cache := newMemoryCache()
	lb := NewLeaderboard(store, false, nil, time.Minute, testLogger())
	lb.cache = cache

	if err := store.RecordScore(ctx, "a@x", "Alice", 800); err != nil {
		t.Fatalf("recording score: %v", err)
	}

	entries, err := lb.Ranked(ctx)
	if err != nil {
		t.Fatalf("ranked: %v", err)
	}
	if len(entries) != 1 || entries[0].UserName != "Alice" {
		t.Fatalf("entries = %+v, want Alice", entries)
	}
	if len(cache.data) != 1 {
		t.Fatal("ranked view not written to the cache")
	}

	// A store write that bypasses invalidation stays invisible: the cached
	// view is served until it is dropped.
	if err := store.RecordScore(ctx, "b@x", "Bob", 900); err != nil {
		t.Fatalf("recording score: %v", err)
	}
	entries, err = lb.Ranked(ctx)
	if err != nil {
		t.Fatalf("ranked: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want the cached single entry", entries)
	}

	lb.Invalidate(ctx)
	entries, err = lb.Ranked(ctx)
	if err != nil {
		t.Fatalf("ranked after invalidation: %v", err)
	}
	if len(entries) != 2 || entries[0].UserName != "Bob" {
		t.Fatalf("entries = %+v, want Bob first after invalidation", entries)
	}
}

func TestDuelCompletionInvalidatesCachedRanking(t *testing.T) {
	store := newTestStore(t)
	cache := newMemoryCache()
	logger := testLogger()

	// Bonus-inclusive ranking with a warm cache in front of it.
	r := newTestRouterWithOptions(t, store, func(o *Options) {
		lb := NewLeaderboard(store, true, nil, time.Minute, logger)
		lb.cache = cache
		o.Leaderboard = lb
	})

	doJSON(t, r, http.MethodPost, "/api/highscore", RecordScoreRequest{Score: intPtr(700)}, bob)

	// Prime the cache.
	w := doJSON(t, r, http.MethodGet, "/api/highscore", nil, bob)
	got := decode[HighscoresResponse](t, w)
	if len(got.Highscores) != 1 || got.Highscores[0].Score != 700 {
		t.Fatalf("entries = %+v, want Bob/700", got.Highscores)
	}
	if len(cache.data) != 1 {
		t.Fatal("ranked view not cached")
	}

	// Bob wins a duel worth 10 bonus points.
	w = doJSON(t, r, http.MethodPost, "/api/duel/challenge", ChallengeRequest{
		OpponentUserID: "b@x", OpponentUserName: "Bob", Score: intPtr(600),
	}, alice)
	duelID := decode[ChallengeResponse](t, w).DuelID
	w = doJSON(t, r, http.MethodPost, "/api/duel/complete", CompleteDuelRequest{
		DuelID: duelID, OpponentScore: intPtr(650),
	}, bob)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d: %s", w.Code, w.Body.String())
	}

	// The completion must drop the cached view so the bonus shows up at
	// once, not after the cache TTL.
	w = doJSON(t, r, http.MethodGet, "/api/highscore", nil, bob)
	got = decode[HighscoresResponse](t, w)
	if len(got.Highscores) != 1 {
		t.Fatalf("entries = %d, want 1", len(got.Highscores))
	}
	if e := got.Highscores[0]; e.UserName != "Bob" || e.Score != 710 {
		t.Errorf("entry = %+v, want Bob/710 right after completion", e)
	}
}
