package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendAPIURL = "https://api.resend.com"

// Resend sends challenge emails through the Resend HTTP API.
type Resend struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendAPIURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (r *Resend) DuelCreated(ctx context.Context, c Challenge) error {
	email := resendEmail{
		From:    r.from,
		To:      []string{c.OpponentEmail},
		Subject: "You have been challenged to a GeoBattle duel!",
		HTML: fmt.Sprintf(
			`<h1>You have a new challenge!</h1>
<p><strong>%s</strong> has challenged you to a GeoBattle duel!</p>
<p>Their score: <strong>%d</strong></p>
<p>Can you beat it?</p>
<a href="%s">Play now!</a>`,
			c.ChallengerName, c.ChallengerScore, c.GameURL,
		),
	}

	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
