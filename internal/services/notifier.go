package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"afdian-bridge/pkg/logging"
)

// WebhookSender delivers order notifications to http(s) destinations as
// signed JSON POSTs.
type WebhookSender struct {
	httpClient  *http.Client
	secret      string
	retryDelays []time.Duration
}

// NewWebhookSender creates a webhook sender. secret may be empty to disable
// payload signing.
func NewWebhookSender(secret string) *WebhookSender {
	return &WebhookSender{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // 10 second timeout
		},
		secret:      secret,
		retryDelays: []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second},
	}
}

// notificationPayload is the body POSTed to subscriber endpoints.
type notificationPayload struct {
	Event     string `json:"event"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Send delivers with retry. Retry schedule: 1s, 5s, 30s.
func (wn *WebhookSender) Send(ctx context.Context, destination, message string) error {
	payload := notificationPayload{
		Event:     "order.created",
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	var lastErr error
	for attempt := 0; attempt <= len(wn.retryDelays); attempt++ {
		lastErr = wn.send(ctx, destination, payload)
		if lastErr == nil {
			if attempt > 0 {
				logging.Infof("Webhook notification sent - url: %s, attempt: %d", destination, attempt+1)
			}
			return nil
		}

		if attempt == len(wn.retryDelays) {
			break
		}
		select {
		case <-time.After(wn.retryDelays[attempt]):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("webhook notification failed after %d attempts: %w", len(wn.retryDelays)+1, lastErr)
}

// send issues a single signed request
func (wn *WebhookSender) send(ctx context.Context, destination string, payload notificationPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", destination, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Afdian-Bridge/1.0")

	if wn.secret != "" {
		req.Header.Set("X-Afdian-Bridge-Signature", wn.signature(jsonData))
	}

	resp, err := wn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// signature generates an HMAC-SHA256 signature over the payload
func (wn *WebhookSender) signature(payload []byte) string {
	h := hmac.New(sha256.New, []byte(wn.secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// DestinationRouter picks a delivery backend by destination shape: URLs go to
// the webhook sender, addresses containing "@" go to the email sender.
type DestinationRouter struct {
	Webhook Sender
	Email   Sender
}

// Send implements Sender
func (r *DestinationRouter) Send(ctx context.Context, destination, message string) error {
	switch {
	case strings.Contains(destination, "://"):
		if r.Webhook == nil {
			return fmt.Errorf("no webhook sender configured for destination %s", destination)
		}
		return r.Webhook.Send(ctx, destination, message)
	case strings.Contains(destination, "@"):
		if r.Email == nil {
			return fmt.Errorf("no email sender configured for destination %s", destination)
		}
		return r.Email.Send(ctx, destination, message)
	default:
		return fmt.Errorf("unrecognized destination: %s", destination)
	}
}
