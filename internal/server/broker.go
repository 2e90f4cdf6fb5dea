package server

import (
	"encoding/json"
	"sync"
)

// DuelEvent is the payload published to a user's notification stream.
type DuelEvent struct {
	Type               string `json:"type"` // "duel_created" or "duel_completed"
	DuelID             int64  `json:"duelId"`
	ChallengerUserName string `json:"challengerUserName,omitempty"`
	ChallengerScore    int    `json:"challengerScore,omitempty"`
	Winner             string `json:"winner,omitempty"`
	BonusPoints        int    `json:"bonusPoints,omitempty"`
}

// Broker is an in-process pub/sub for SSE duel notifications, keyed by
// user id.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given user.
func (b *Broker) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan []byte]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the user's subscribers.
func (b *Broker) Unsubscribe(userID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[userID], ch)
	if len(b.subs[userID]) == 0 {
		delete(b.subs, userID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given user.
func (b *Broker) Publish(userID string, event DuelEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[userID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
