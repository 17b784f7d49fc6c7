// Package notify delivers digest text to a Discord channel via webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/config"
)

// MaxMessageLength is Discord's hard cap on message content.
const MaxMessageLength = 2000

var webhookPrefixes = []string{
	"https://discord.com/api/webhooks/",
	"https://discordapp.com/api/webhooks/",
}

// Webhook sends messages to a Discord webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook validates the webhook configuration and returns a notifier.
// A URL that does not look like a Discord webhook gets a warning, not an
// error, so self-hosted compatible endpoints still work.
func NewWebhook(cfg config.DiscordConfig) (*Webhook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	recognized := false
	for _, prefix := range webhookPrefixes {
		if strings.HasPrefix(cfg.WebhookURL, prefix) {
			recognized = true
			break
		}
	}
	if !recognized {
		log.Printf("[notify] DISCORD_WEBHOOK_URL does not look like a Discord webhook URL "+
			"(expected %s{id}/{token})", webhookPrefixes[0])
	}

	return &Webhook{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Send posts one message to the webhook. Non-2xx responses are errors and
// include the response body for debugging.
func (w *Webhook) Send(ctx context.Context, content string) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
