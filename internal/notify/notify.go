// Package notify provides notification channels for flagged catalysts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"biotrial-analyzer/internal/config"
	"biotrial-analyzer/internal/models"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	SendRiskAlert(ctx context.Context, record models.CatalystRecord, assessment *models.RiskAssessment) error
	SendScanSummary(ctx context.Context, summary *ScanSummary) error
}

// Channel defines one notification transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, title, message string) error
	IsEnabled() bool
}

// ScanSummary describes one scan run over upcoming catalysts.
type ScanSummary struct {
	ScanDate time.Time
	Total    int
	HighRisk []RiskLine
	Errors   int
}

// RiskLine is one high-risk catalyst in a scan summary.
type RiskLine struct {
	Ticker    string
	EventDate time.Time
	Score     int
	Verdict   models.Verdict
}

// MultiNotifier fans a notification out to all enabled channels.
type MultiNotifier struct {
	channels []Channel
}

// NewMultiNotifier creates a notifier from the configured channels.
func NewMultiNotifier(cfg config.NotificationConfig) (*MultiNotifier, error) {
	var channels []Channel

	if cfg.Webhook.Enabled {
		channels = append(channels, NewWebhookChannel(cfg.Webhook))
	}
	if cfg.Telegram.Enabled {
		tg, err := NewTelegramChannel(cfg.Telegram)
		if err != nil {
			return nil, fmt.Errorf("initializing telegram channel: %w", err)
		}
		channels = append(channels, tg)
	}

	return &MultiNotifier{channels: channels}, nil
}

// SendRiskAlert notifies about one flagged catalyst.
func (m *MultiNotifier) SendRiskAlert(ctx context.Context, record models.CatalystRecord, assessment *models.RiskAssessment) error {
	title := fmt.Sprintf("%s: %d red flag(s) — %s", record.Ticker, assessment.Score, assessment.Verdict)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) — %s\n", record.Ticker, record.EventDate.Format("2006-01-02"), record.Event)
	for _, hit := range assessment.Flags {
		fmt.Fprintf(&b, "- %s\n", hit.Reason)
	}

	return m.send(ctx, title, b.String())
}

// SendScanSummary notifies about a completed scan.
func (m *MultiNotifier) SendScanSummary(ctx context.Context, summary *ScanSummary) error {
	title := fmt.Sprintf("Catalyst scan %s: %d upcoming, %d high risk",
		summary.ScanDate.Format("2006-01-02"), summary.Total, len(summary.HighRisk))

	var b strings.Builder
	for _, line := range summary.HighRisk {
		fmt.Fprintf(&b, "%s %s score=%d %s\n",
			line.Ticker, line.EventDate.Format("2006-01-02"), line.Score, line.Verdict)
	}
	if summary.Errors > 0 {
		fmt.Fprintf(&b, "%d record(s) could not be assessed\n", summary.Errors)
	}

	return m.send(ctx, title, b.String())
}

func (m *MultiNotifier) send(ctx context.Context, title, message string) error {
	var firstErr error
	for _, ch := range m.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, title, message); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("channel %s: %w", ch.Name(), err)
		}
	}
	return firstErr
}

// WebhookChannel posts notifications as JSON to a configured URL.
type WebhookChannel struct {
	cfg    config.WebhookConfig
	client *http.Client
}

// NewWebhookChannel creates a new webhook channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the channel name.
func (w *WebhookChannel) Name() string { return "webhook" }

// IsEnabled reports whether the channel is configured.
func (w *WebhookChannel) IsEnabled() bool { return w.cfg.Enabled && w.cfg.URL != "" }

// Send posts the notification payload.
func (w *WebhookChannel) Send(ctx context.Context, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"title":   title,
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
