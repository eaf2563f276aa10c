package alerting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goslack "github.com/slack-go/slack"

	"github.com/closermetrix/engine/pkg/config"
)

// Dispatcher routes alerts by severity. Nil-safe like the teacher's
// *slack.Service: a Dispatcher built from a disabled SlackConfig still
// logs every alert, it simply never calls the Slack API.
type Dispatcher struct {
	api       *goslack.Client
	channel   string
	minSlack  Severity
	logger    *slog.Logger

	mu     sync.Mutex
	digest []Alert // medium-severity alerts awaiting the daily digest
}

// NewDispatcher builds a Dispatcher from SlackConfig. When cfg.Enabled is
// false, the returned Dispatcher still works — it only ever logs.
func NewDispatcher(cfg *config.SlackConfig, webhookToken string) *Dispatcher {
	d := &Dispatcher{
		minSlack: Severity(cfg.MinSeverity),
		logger:   slog.Default().With("component", "alerting"),
	}
	if cfg.Enabled && webhookToken != "" && cfg.Channel != "" {
		d.api = goslack.New(webhookToken)
		d.channel = cfg.Channel
	}
	if d.minSlack == "" {
		d.minSlack = SeverityMedium
	}
	return d
}

// Dispatch routes an alert. Critical/high go to Slack synchronously (and
// are logged regardless of delivery outcome); medium is appended to the
// in-memory digest; low is logged only. Delivery failures never
// propagate — alert dispatch is itself fail-open (§7 "audit-log write
// failure logged only, never rethrown" sets the pattern this follows).
func (d *Dispatcher) Dispatch(ctx context.Context, a Alert) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	logAttrs := []any{
		"severity", a.Severity,
		"title", a.Title,
		"details", a.Details,
		"tenant_id", a.TenantID,
		"action", a.Action,
	}
	if a.Err != nil {
		logAttrs = append(logAttrs, "error", a.Err)
	}

	switch a.Severity {
	case SeverityCritical, SeverityHigh:
		d.logger.Error("alert", logAttrs...)
		d.postSlack(ctx, a)
	case SeverityMedium:
		d.logger.Warn("alert", logAttrs...)
		d.mu.Lock()
		d.digest = append(d.digest, a)
		d.mu.Unlock()
	default:
		d.logger.Info("alert", logAttrs...)
	}
}

func (d *Dispatcher) postSlack(ctx context.Context, a Alert) {
	if d.api == nil || !atLeast(a.Severity, d.minSlack) {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	text := fmt.Sprintf(":rotating_light: *%s* [%s]\n%s", a.Title, a.Severity, a.Details)
	if a.TenantID != "" {
		text += fmt.Sprintf("\ntenant: %s", a.TenantID)
	}
	if a.Action != "" {
		text += fmt.Sprintf("\nsuggested action: %s", a.Action)
	}

	block := goslack.NewSectionBlock(
		goslack.NewTextBlockObject(goslack.MarkdownType, text, false, false),
		nil, nil,
	)
	if _, _, err := d.api.PostMessageContext(ctx, d.channel, goslack.MsgOptionBlocks(block)); err != nil {
		d.logger.Error("failed to deliver slack alert", "error", err, "title", a.Title)
	}
}

// DrainDigest returns and clears the accumulated medium-severity alerts.
// No periodic job in the engine calls it, so the digest is drained only
// when a caller does so explicitly.
func (d *Dispatcher) DrainDigest() []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.digest
	d.digest = nil
	return out
}
