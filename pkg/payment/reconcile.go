// Package payment implements the payment-reconciliation pipeline of
// §4.7: a payment-provider webhook lands on a (tenant, prospect email,
// amount, type) tuple with no call id attached, and this package finds
// the call it belongs to and applies the right aggregate/attendance
// update for full payments, additional payments against an
// already-closed deal, and refunds/chargebacks.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/closermetrix/engine/pkg/alerting"
	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Type is the normalized payment type carried on the webhook payload.
type Type string

// The five payment types §4.7 recognizes.
const (
	TypeFull        Type = "full"
	TypeDeposit     Type = "deposit"
	TypePaymentPlan Type = "payment_plan"
	TypeRefund      Type = "refund"
	TypeChargeback  Type = "chargeback"
)

// IsReversal reports whether t reduces cash collected rather than adding
// to it.
func (t Type) IsReversal() bool {
	return t == TypeRefund || t == TypeChargeback
}

// planLabel is the payment_plan column value a Closed-Won transition
// derives from the payment type (§4.7 step 6).
func (t Type) planLabel() string {
	switch t {
	case TypeFull:
		return "Full"
	case TypeDeposit:
		return "Deposit"
	case TypePaymentPlan:
		return "Payment Plan"
	default:
		return ""
	}
}

// Outcome is the result action the caller (API handler) reports back to
// the payment provider, matching the closed `action` enum of §6.2:
// {new_close, additional_payment, refund, payment_recorded}.
type Outcome string

// Outcomes, one per §4.7 branch.
const (
	OutcomeRecorded          Outcome = "payment_recorded"
	OutcomeAdditionalPayment Outcome = "additional_payment"
	OutcomeRefund            Outcome = "refund"
	OutcomeNewClose          Outcome = "new_close"
)

// Input is the normalized payment-webhook payload, already validated by
// the API layer (tenant id resolved from the webhook secret, amount
// parsed and non-zero).
type Input struct {
	TenantID      string
	ProspectEmail string
	ProspectName  string // optional; fills the prospect's display name only if currently empty
	Amount        float64
	PaymentDate   time.Time // optional; defaults to now
	Type          Type
	Product       string // optional
	Notes         string // optional; recorded as "notes" in the audit entry's metadata
}

// Result reports what the reconciliation did, for both the HTTP response
// and tests.
type Result struct {
	Outcome  Outcome
	Call     *models.Call
	Prospect *models.Prospect
}

// Reconciler runs §4.7 against the warehouse.
type Reconciler struct {
	gw      warehouse.Gateway
	machine *statemachine.Machine
	alerts  *alerting.Dispatcher
	logger  *slog.Logger
}

// New builds a Reconciler.
func New(gw warehouse.Gateway, machine *statemachine.Machine, alerts *alerting.Dispatcher) *Reconciler {
	return &Reconciler{
		gw:      gw,
		machine: machine,
		alerts:  alerts,
		logger:  slog.Default().With("component", "payment-reconciler"),
	}
}

// Reconcile applies a single payment event end to end: §4.7 steps 1-6.
func (r *Reconciler) Reconcile(ctx context.Context, in Input) (*Result, error) {
	amount := in.Amount
	if amount < 0 {
		amount = -amount
	}
	if amount == 0 {
		return nil, apperrors.NewValidationError("amount", "must be non-zero")
	}
	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	extra := map[string]string{}
	if in.Notes != "" {
		extra["notes"] = in.Notes
	}

	prospect, err := r.gw.FindOrCreateProspect(ctx, in.TenantID, in.ProspectEmail, in.ProspectName)
	if err != nil {
		return nil, fmt.Errorf("payment: find or create prospect: %w", err)
	}
	if prospect.Name == "" && in.ProspectName != "" {
		prospect.Name = in.ProspectName
	}

	reversal := in.Type.IsReversal()
	if reversal {
		prospect.TotalCashCollected -= amount
		prospect.TotalRevenue -= amount
	} else {
		prospect.TotalCashCollected += amount
		prospect.TotalRevenue += amount
	}
	prospect.PaymentCount++
	prospect.LastPaymentAt = &paymentDate
	prospect.UpdatedAt = time.Now()
	if err := r.gw.UpdateProspect(ctx, prospect); err != nil {
		return nil, fmt.Errorf("payment: update prospect aggregates: %w", err)
	}

	call, err := r.gw.FindMostRecentConversationalCallByProspect(ctx, in.TenantID, in.ProspectEmail)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("payment: locate matching call: %w", err)
		}
		extra["note"] = "no_matching_call"
		r.audit(ctx, in.TenantID, prospect.ID, models.EntityProspect, in.Type, extra)
		return &Result{Outcome: OutcomeRecorded, Prospect: prospect}, nil
	}

	var outcome Outcome
	switch {
	case call.Attendance == models.AttendanceClosedWon && !reversal:
		outcome = r.applyAdditionalPayment(call, in, amount)
	case reversal:
		outcome = r.applyReversal(ctx, call, in, amount)
	default:
		outcome = r.applyClosedWon(ctx, call, in, amount, paymentDate)
	}

	if err := r.gw.UpdateCall(ctx, call); err != nil {
		return nil, fmt.Errorf("payment: persist call update: %w", err)
	}
	r.audit(ctx, in.TenantID, call.ID, models.EntityCall, in.Type, extra)

	return &Result{Outcome: outcome, Call: call, Prospect: prospect}, nil
}

// applyAdditionalPayment implements §4.7 step 4: a payment against a
// deal already marked Closed-Won never touches attendance, it only adds
// to the call's collected cash.
func (r *Reconciler) applyAdditionalPayment(call *models.Call, in Input, amount float64) Outcome {
	call.CashCollected += amount
	if in.Product != "" {
		call.Product = in.Product
	}
	call.UpdatedAt = time.Now()
	return OutcomeAdditionalPayment
}

// applyReversal implements §4.7 step 5: cash collected is floored at
// zero, and a Closed-Won deal whose cash collected reaches exactly zero
// reverts to Lost. Chargebacks always raise a high-severity alert —
// refunds are routine, chargebacks mean a dispute with the payment
// processor.
func (r *Reconciler) applyReversal(ctx context.Context, call *models.Call, in Input, amount float64) Outcome {
	wasClosedWon := call.Attendance == models.AttendanceClosedWon

	newCash := call.CashCollected - amount
	if newCash < 0 {
		newCash = 0
	}
	call.CashCollected = newCash

	if newCash == 0 && wasClosedWon {
		call.Attendance = models.AttendanceLost
		call.CallOutcome = string(models.AttendanceLost)
		call.LostReason = fmt.Sprintf("%s of $%.2f", in.Type, amount)
	}
	call.UpdatedAt = time.Now()

	if in.Type == TypeChargeback {
		r.alerts.Dispatch(ctx, alerting.Alert{
			Severity: alerting.SeverityHigh,
			Title:    "Chargeback received",
			Details:  fmt.Sprintf("call_id=%s prospect=%s amount=%.2f", call.ID, in.ProspectEmail, amount),
			TenantID: in.TenantID,
		})
	}
	return OutcomeRefund
}

// applyClosedWon implements §4.7 step 6: every other matched attendance
// closes the deal. The state machine trigger depends on whether the
// prospect already put down a deposit; if the table rejects the
// transition outright (a direct Show→Closed-Won payment with no prior
// ai_outcome step), the same field updates are applied as a direct write
// and the fallback is logged rather than failing the payment.
func (r *Reconciler) applyClosedWon(ctx context.Context, call *models.Call, in Input, amount float64, paymentDate time.Time) Outcome {
	trigger := statemachine.TriggerPaymentReceived
	if call.Attendance == models.AttendanceDeposit {
		trigger = statemachine.TriggerPaymentReceivedFull
	}

	applyFields := func() {
		call.CallOutcome = string(models.AttendanceClosedWon)
		call.ProcessingState = models.ProcessingComplete
		call.CashCollected += amount
		call.RevenueGenerated = amount
		dateClosed := paymentDate
		call.DateClosed = &dateClosed
		call.PaymentPlan = in.Type.planLabel()
		call.UpdatedAt = time.Now()
	}

	if err := r.machine.Transition(ctx, call, models.AttendanceClosedWon, trigger, models.TriggerPaymentWebhook); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			r.logger.Error("payment: unexpected transition error", "call_id", call.ID, "error", err)
		}
		r.logger.Warn("payment: state machine rejected transition, applying direct write", "call_id", call.ID, "from", call.Attendance, "trigger", trigger)
		call.Attendance = models.AttendanceClosedWon
	}
	applyFields()
	return OutcomeNewClose
}

func (r *Reconciler) audit(ctx context.Context, tenantID, entityID string, entityType models.EntityType, paymentType Type, extra map[string]string) {
	metadata := map[string]string{"trigger_detail": string(paymentType)}
	for k, v := range extra {
		metadata[k] = v
	}
	entry := &models.AuditEntry{
		Timestamp:     time.Now(),
		TenantID:      tenantID,
		EntityType:    entityType,
		EntityID:      entityID,
		Action:        models.ActionPaymentReceived,
		TriggerSource: models.TriggerPaymentWebhook,
		Metadata:      metadata,
	}
	if err := r.gw.AppendAudit(ctx, entry); err != nil {
		r.logger.Error("payment: failed to append audit entry", "entity_id", entityID, "error", err)
	}
}
