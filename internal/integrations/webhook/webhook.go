package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/bank-insights/internal/config"
	"github.com/Dan9191/bank-insights/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the request body.
	SignatureHeader = "X-Signature"

	// EventOverdraftRisk is emitted by the overdraft sweep.
	EventOverdraftRisk = "overdraft_risk"

	defaultTimeout = 6 * time.Second
)

// EventUser identifies the user an event is about
type EventUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Event is the envelope posted to the webhook
type Event struct {
	ID        string         `json:"id"`
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Payload   any            `json:"payload"`
	Meta      map[string]any `json:"meta"`
	User      *EventUser     `json:"user,omitempty"`
}

// Notifier delivers events to an n8n-style webhook
type Notifier struct {
	url    string
	token  string
	secret string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewNotifier creates a notifier from config. An empty N8N_WEBHOOK_URL disables delivery.
func NewNotifier(cfg *config.Config, log *logrus.Logger) *Notifier {
	return &Notifier{
		url:    cfg.WebhookURL,
		token:  cfg.WebhookToken,
		secret: cfg.HMACSecret,
		client: &http.Client{Timeout: defaultTimeout},
		log:    log,
		now:    time.Now,
	}
}

// Enabled reports whether a webhook URL is configured
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Send posts one event and reports whether it was accepted with a 2xx status.
// Failures are logged and never retried.
func (n *Notifier) Send(ctx context.Context, eventType string, payload any, user *EventUser, meta map[string]any) bool {
	if !n.Enabled() {
		return false
	}

	body, err := json.Marshal(n.envelope(eventType, payload, user, meta))
	if err != nil {
		n.log.Errorf("Failed to encode %s event: %v", eventType, err)
		return false
	}

	if err := n.post(ctx, body); err != nil {
		n.log.WithFields(logrus.Fields{"event": eventType}).Errorf("Webhook delivery failed: %v", err)
		return false
	}

	n.log.WithFields(logrus.Fields{"event": eventType}).Info("Webhook delivered")
	return true
}

func (n *Notifier) envelope(eventType string, payload any, user *EventUser, meta map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return Event{
		ID:        uuid.NewString(),
		Event:     eventType,
		Timestamp: n.now().UTC().Format(time.RFC3339),
		Payload:   payload,
		Meta:      meta,
		User:      user,
	}
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	if n.secret != "" {
		req.Header.Set(SignatureHeader, utils.SignPayload(body, n.secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
