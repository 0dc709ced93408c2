package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"research-orchestrator/internal/infra/notifier"
)

// WebhookSink delivers messages by POSTing a JSON envelope to a per-recipient
// webhook URL template. Retry and rate-limit behavior is grounded on the
// teacher's SlackNotifier (internal/infra/notifier/slack.go): one retry on a
// 5xx/network error, no retry on 4xx, a token bucket ahead of every call.
type WebhookSink struct {
	urlTemplate string // recipient is substituted for "%s"
	httpClient  *http.Client
	rateLimiter *notifier.RateLimiter
}

// NewWebhookSink builds a WebhookSink. urlTemplate must contain exactly one
// "%s" verb where the recipient identifier (phone number or group sink ID)
// is substituted.
func NewWebhookSink(urlTemplate string) *WebhookSink {
	return &WebhookSink{
		urlTemplate: urlTemplate,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: notifier.NewRateLimiter(2.0, 2),
	}
}

func (w *WebhookSink) Name() string { return "webhook" }

type webhookPayload struct {
	Text string `json:"text"`
}

func (w *WebhookSink) Send(ctx context.Context, recipient, message string) error {
	if err := w.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("webhook sink: rate limiter: %w", err)
	}

	url := fmt.Sprintf(w.urlTemplate, recipient)
	body, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return fmt.Errorf("webhook sink: marshal: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook sink: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.httpClient.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("webhook sink: request failed, retrying", slog.String("recipient", recipient), slog.Any("error", err), slog.Int("attempt", attempt))
			continue
		}
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		statusErr := notifier.ClassifyStatus(resp.StatusCode, string(respBody))
		if statusErr == nil {
			return nil
		}
		if !notifier.IsRetryable(statusErr) {
			return fmt.Errorf("webhook sink: %w", statusErr)
		}
		lastErr = statusErr
		slog.Warn("webhook sink: server error, retrying", slog.String("recipient", recipient), slog.Int("status", resp.StatusCode), slog.Int("attempt", attempt))
	}
	return fmt.Errorf("webhook sink: failed after 2 attempts: %w", lastErr)
}
