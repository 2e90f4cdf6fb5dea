// Package notify sends outbound duel notifications. Delivery is
// best-effort: callers log failures and move on, a lost email never rolls
// back the duel that triggered it.
package notify

import "context"

// Challenge describes a freshly created duel for the notification email.
type Challenge struct {
	DuelID          int64
	ChallengerName  string
	ChallengerScore int
	OpponentEmail   string
	GameURL         string
}

type Notifier interface {
	DuelCreated(ctx context.Context, c Challenge) error
}

// Noop discards all notifications. Used when no API key is configured and
// in tests.
type Noop struct{}

func (Noop) DuelCreated(context.Context, Challenge) error { return nil }
