package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
)

// AuditWriter is the narrow interface the state machine needs to append
// audit entries. pkg/audit.Writer satisfies this.
type AuditWriter interface {
	Record(ctx context.Context, entry models.AuditEntry) error
}

// Machine validates and applies attendance transitions, writing an audit
// entry for every attempt — state_change on success, error on rejection
// (§4.3, §7). It never persists the Call itself; callers own the
// warehouse write so they can batch the attendance change with whatever
// other fields the triggering event updates.
type Machine struct {
	audit AuditWriter
}

// New creates a Machine backed by the given audit writer.
func New(audit AuditWriter) *Machine {
	return &Machine{audit: audit}
}

// Transition attempts to move call from its current attendance to `to`
// via `trigger`. On success it mutates call.Attendance in place and
// returns nil; the caller is responsible for persisting the call. On
// rejection the call is left unchanged and apperrors.ErrInvalidTransition
// is returned. Both outcomes write an audit entry; audit write failures
// are logged by the audit writer itself and never fail the transition
// (§7 Propagation: "audit-log write failure (logged only, never
// rethrown)").
func (m *Machine) Transition(ctx context.Context, call *models.Call, to models.Attendance, trigger Trigger, source models.TriggerSource) error {
	from := call.Attendance

	if IsTerminal(from) {
		m.recordError(ctx, call, from, to, trigger, source, "state is terminal")
		return apperrors.ErrInvalidTransition
	}

	if !IsValid(from, to, trigger) {
		m.recordError(ctx, call, from, to, trigger, source, "no such transition in table")
		return apperrors.ErrInvalidTransition
	}

	call.Attendance = to
	_ = m.audit.Record(ctx, models.AuditEntry{
		Timestamp:     time.Now(),
		TenantID:      call.TenantID,
		EntityType:    models.EntityCall,
		EntityID:      call.ID,
		Action:        models.ActionStateChange,
		Field:         "attendance",
		OldValue:      string(from),
		NewValue:      string(to),
		TriggerSource: source,
		Metadata:      map[string]string{"trigger": string(trigger)},
	})
	return nil
}

func (m *Machine) recordError(ctx context.Context, call *models.Call, from, to models.Attendance, trigger Trigger, source models.TriggerSource, reason string) {
	_ = m.audit.Record(ctx, models.AuditEntry{
		Timestamp:     time.Now(),
		TenantID:      call.TenantID,
		EntityType:    models.EntityCall,
		EntityID:      call.ID,
		Action:        models.ActionError,
		Field:         "attendance",
		OldValue:      string(from),
		NewValue:      string(to),
		TriggerSource: source,
		Metadata: map[string]string{
			"trigger": string(trigger),
			"reason":  reason,
		},
	})
}

// CheckOutcomeInvariant verifies invariant (b) of §3: call outcome is set
// if and only if attendance is a terminal-conversational state. Used by
// callers after mutating a call and by tests asserting §8 property 3.
func CheckOutcomeInvariant(call *models.Call) error {
	hasOutcome := call.CallOutcome != ""
	wantOutcome := models.IsTerminalConversational(call.Attendance)
	if hasOutcome != wantOutcome {
		return fmt.Errorf("%w: attendance=%q outcome=%q", apperrors.ErrOutcomeInvariant, call.Attendance, call.CallOutcome)
	}
	return nil
}
