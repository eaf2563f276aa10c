// Package audit implements the append-only audit trail (§3, §7): entries
// are never updated or deleted, and a failed write is logged, never
// rethrown to the caller whose operation triggered it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Writer appends AuditEntry rows via warehouse.Gateway. It satisfies
// statemachine.AuditWriter.
type Writer struct {
	gw     warehouse.Gateway
	logger *slog.Logger
}

// NewWriter builds a Writer over the given gateway.
func NewWriter(gw warehouse.Gateway) *Writer {
	return &Writer{gw: gw, logger: slog.Default().With("component", "audit")}
}

// Record appends entry, assigning an id and timestamp if absent. A write
// failure is logged and also returned; statemachine.Machine discards that
// error (§7 Propagation), so the audit trail is best-effort from the
// state-changing caller's perspective, since refusing to apply an
// otherwise-valid state change because the audit write failed would be
// worse than a missing audit row.
func (w *Writer) Record(ctx context.Context, entry models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := w.gw.AppendAudit(ctx, &entry); err != nil {
		w.logger.Error("failed to write audit entry",
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err)
		return err
	}
	return nil
}
