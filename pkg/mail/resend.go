package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Resend sends login codes through the Resend HTTP API.
type Resend struct {
	site     string
	from     string
	apiKey   string
	endpoint string
	client   *http.Client
}

var _ Mailer = (*Resend)(nil)

// NewResend returns a Resend mailer. A nil client uses a client with a ten
// second timeout.
func NewResend(site, from, apiKey, endpoint string, client *http.Client) *Resend {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resend{
		site:     site,
		from:     from,
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   client,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// SendCode implements Mailer. Any non-2xx answer is an error carrying the
// status and the start of the response body.
func (r *Resend) SendCode(ctx context.Context, to, code string, ttl time.Duration) error {
	if r.apiKey == "" {
		return fmt.Errorf("resend: missing api key")
	}

	body, err := Body(Message{Email: to, SiteName: r.site, Code: code, TTL: ttl})
	if err != nil {
		return err
	}

	payload, err := json.Marshal(resendRequest{
		From:    r.from,
		To:      []string{to},
		Subject: Subject,
		Text:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	return nil
}
