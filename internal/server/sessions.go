package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MichiMauch/geobattle/internal/geobattle"
)

// Sessions with no request for this long are considered abandoned (the
// player closed the tab mid-round) and reaped on the next Start.
const sessionTTL = time.Hour

type sessionEntry struct {
	game       *geobattle.GameSession
	lastActive time.Time
}

// SessionRegistry owns the active in-memory game sessions, keyed by an
// opaque id handed to the client. Sessions are discarded on completion or
// after sitting idle past the TTL; the store only ever sees their final
// score.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		ttl:      sessionTTL,
	}
}

// Start creates a new session and returns its id. Creation doubles as the
// sweep point for abandoned sessions, so the registry never grows past the
// set of sessions touched within one TTL.
func (g *SessionRegistry) Start(maxRounds int, duelID *int64) (string, *geobattle.GameSession) {
	id := uuid.NewString()
	s := geobattle.NewSession(maxRounds, duelID)
	now := time.Now()

	g.mu.Lock()
	for old, e := range g.sessions {
		if now.Sub(e.lastActive) > g.ttl {
			delete(g.sessions, old)
		}
	}
	g.sessions[id] = &sessionEntry{game: s, lastActive: now}
	g.mu.Unlock()
	return id, s
}

// With runs fn against the session under the registry lock and refreshes
// its activity timestamp. Session transitions are single-threaded per
// player by construction; the lock only guards against a misbehaving
// client double-sending. An idle session past the TTL reads as gone.
func (g *SessionRegistry) With(id string, fn func(*geobattle.GameSession) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if time.Since(e.lastActive) > g.ttl {
		delete(g.sessions, id)
		return ErrNotFound
	}
	e.lastActive = time.Now()
	return fn(e.game)
}

// Remove drops a session from the registry.
func (g *SessionRegistry) Remove(id string) {
	g.mu.Lock()
	delete(g.sessions, id)
	g.mu.Unlock()
}
