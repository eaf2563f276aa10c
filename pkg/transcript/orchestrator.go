package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/alerting"
	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// AIPipeline is the narrow seam the transcript orchestrator needs into
// the AI scoring pipeline: run it synchronously against a Show call and
// report whether it succeeded (§4.4 step 7). A failure must not revert
// the Show transition; the orchestrator only needs to know whether to
// leave processing_state at queued-turned-processing or mark it error.
type AIPipeline interface {
	Process(ctx context.Context, tenantID, callID, transcriptText string) error
}

// MatchResult is the outcome of the transcript orchestrator's per-call
// pipeline, mirroring the needs_polling / unidentified / applied outcomes
// named in §4.4.
type MatchResult string

// Orchestrator outcomes.
const (
	ResultApplied      MatchResult = "applied"
	ResultNeedsPolling MatchResult = "needs_polling"
	ResultUnidentified MatchResult = "unidentified"
)

// Hint carries the (call id, tenant id) pair the polling sweeper supplies
// to disambiguate closer/call resolution (§4.4 step 3-4, §4.6 Phase 1.5).
type Hint struct {
	CallID   string
	TenantID string
}

// OverbookDetector is the narrow seam into the calendar orchestrator's
// overbook detection (§4.3 "Overbook detection"): run it once a call
// commits to Show, so a closer double-booked across two meetings gets the
// other call marked Overbooked. Implemented by
// *calendar.Orchestrator.HandleShowTransition.
type OverbookDetector interface {
	HandleShowTransition(ctx context.Context, call *models.Call)
}

// Orchestrator runs the transcript ingestion pipeline of §4.4: normalize,
// resolve tenant and closer, match or create a call, evaluate Show vs
// Ghosted, and on Show synchronously invoke the AI pipeline.
type Orchestrator struct {
	gw          warehouse.AdminGateway
	registry    *Registry
	machine     *statemachine.Machine
	ai          AIPipeline
	alerts      *alerting.Dispatcher
	overbook    OverbookDetector
	matchWindow time.Duration
	logger      *slog.Logger
}

// New builds an Orchestrator. overbook may be nil, in which case no
// overbook detection runs on Show (every production caller supplies the
// calendar orchestrator).
func New(gw warehouse.AdminGateway, registry *Registry, machine *statemachine.Machine, ai AIPipeline, alerts *alerting.Dispatcher, overbook OverbookDetector, thresholds *config.Thresholds) *Orchestrator {
	return &Orchestrator{
		gw:          gw,
		registry:    registry,
		machine:     machine,
		ai:          ai,
		alerts:      alerts,
		overbook:    overbook,
		matchWindow: thresholds.TranscriptMatchWindow,
		logger:      slog.Default().With("component", "transcript-orchestrator"),
	}
}

// HandleWebhook runs the full pipeline for a single raw webhook payload
// delivered under providerKey. hint is the zero Hint for a genuine
// webhook delivery; the polling sweeper supplies a populated Hint.
func (o *Orchestrator) HandleWebhook(ctx context.Context, providerKey string, raw map[string]any, hint Hint) (MatchResult, error) {
	adapter, ok := o.registry.Get(providerKey)
	if !ok {
		return "", fmt.Errorf("transcript: no adapter registered for provider %q", providerKey)
	}

	t, err := adapter.Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("transcript: normalize: %w", err)
	}
	if t.Absent() {
		return ResultNeedsPolling, nil
	}
	return o.Handle(ctx, t, hint)
}

// Handle runs steps 3-7 of §4.4 against an already-normalized transcript.
// Exported separately from HandleWebhook so the sweeper's pull-based
// catch-up (§4.6 Phase 1.5), which fetches and normalizes via the
// adapter's ListMeetingsSince/FetchTranscript itself, can drive the same
// resolution/match/evaluate pipeline.
func (o *Orchestrator) Handle(ctx context.Context, t *CanonicalTranscript, hint Hint) (MatchResult, error) {
	closer, tenant, err := o.resolveCloser(ctx, t.CloserEmail, hint)
	if err != nil {
		o.alerts.Dispatch(ctx, alerting.Alert{
			Severity: alerting.SeverityHigh,
			Title:    "Transcript matched no closer",
			Details:  fmt.Sprintf("provider=%s meeting=%s closer_email=%s", t.ProviderKey, t.ProviderMeetingID, t.CloserEmail),
			Err:      err,
		})
		return ResultUnidentified, nil
	}

	call, err := o.matchCall(ctx, tenant.ID, closer, t, hint)
	if err != nil {
		return "", fmt.Errorf("transcript: match call: %w", err)
	}
	if call == nil {
		call, err = o.createCall(ctx, tenant.ID, closer, t)
		if err != nil {
			return "", fmt.Errorf("transcript: create call: %w", err)
		}
	}

	if err := o.evaluate(ctx, call, t); err != nil {
		return "", fmt.Errorf("transcript: evaluate: %w", err)
	}
	return ResultApplied, nil
}

// resolveCloser implements §4.4 step 3: any-tenant lookup by default, or
// tenant-scoped lookup when a hint disambiguates.
func (o *Orchestrator) resolveCloser(ctx context.Context, closerEmail string, hint Hint) (*models.Closer, *models.Tenant, error) {
	if hint.TenantID != "" {
		closer, err := o.gw.GetCloserByWorkEmail(ctx, hint.TenantID, closerEmail)
		if err != nil {
			return nil, nil, fmt.Errorf("closer not found in hinted tenant: %w", err)
		}
		tenant, err := o.gw.GetTenant(ctx, hint.TenantID)
		if err != nil {
			return nil, nil, fmt.Errorf("hinted tenant not found: %w", err)
		}
		return closer, tenant, nil
	}

	closer, err := o.gw.GetCloserByWorkEmailAnyTenant(ctx, closerEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no closer for email %q", apperrors.ErrAmbiguous, closerEmail)
	}
	tenant, err := o.gw.GetTenant(ctx, closer.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("tenant for matched closer not found: %w", err)
	}
	return closer, tenant, nil
}

// matchCall implements §4.4 step 4: a call-id hint whose call is still
// pre-outcome is used directly; otherwise the two-tier matcher runs.
func (o *Orchestrator) matchCall(ctx context.Context, tenantID string, closer *models.Closer, t *CanonicalTranscript, hint Hint) (*models.Call, error) {
	if hint.CallID != "" {
		call, err := o.gw.GetCall(ctx, tenantID, hint.CallID)
		if err == nil && models.IsPreOutcome(call.Attendance) {
			return call, nil
		}
		// Hinted call missing or already past pre-outcome: fall through
		// to the ordinary matcher rather than fail the whole delivery.
	}

	near := t.ScheduledStart
	if near.IsZero() {
		near = t.RecordingStart
	}

	if t.ProspectEmail != "" {
		call, err := o.gw.FindPreOutcomeCallByCloserAndProspect(ctx, tenantID, closer.WorkEmail, t.ProspectEmail, near, o.matchWindow)
		if err == nil {
			return call, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	call, err := o.gw.FindPreOutcomeCallByCloserAndTime(ctx, tenantID, closer.WorkEmail, near, o.matchWindow)
	if err == nil {
		return call, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

// createCall implements §4.4 step 5: a synthetic call ingested purely
// from the transcript, with no calendar event behind it.
func (o *Orchestrator) createCall(ctx context.Context, tenantID string, closer *models.Closer, t *CanonicalTranscript) (*models.Call, error) {
	prospectEmail := t.ProspectEmail
	if prospectEmail == "" {
		prospectEmail = models.UnknownProspectEmail
	}

	callType, err := o.determineCallType(ctx, tenantID, prospectEmail)
	if err != nil {
		return nil, err
	}

	start := t.ScheduledStart
	if start.IsZero() {
		start = t.RecordingStart
	}
	end := t.RecordingEnd
	if end.IsZero() {
		end = start
	}

	now := time.Now()
	call := &models.Call{
		ID:              uuid.NewString(),
		TenantID:        tenantID,
		CloserID:        closer.ID,
		ExternalEventID: fmt.Sprintf("transcript_%s", t.ProviderMeetingID),
		ProspectEmail:   prospectEmail,
		ProspectName:    t.ProspectName,
		ScheduledStart:  start,
		ScheduledEnd:    end,
		Timezone:           "UTC",
		Attendance:         models.AttendanceUnset,
		CallType:           callType,
		TranscriptProvider: t.ProviderKey,
		ProcessingState:    models.ProcessingPending,
		IngestionSource:    models.SourceTranscript,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := o.gw.CreateCall(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

func (o *Orchestrator) determineCallType(ctx context.Context, tenantID, prospectEmail string) (models.CallType, error) {
	if prospectEmail == models.UnknownProspectEmail || prospectEmail == "" {
		return models.CallTypeFirstCall, nil
	}
	prior, err := o.gw.ListCallsByProspectEmail(ctx, tenantID, prospectEmail)
	if err != nil {
		return "", err
	}
	for _, c := range prior {
		if models.CountsAsPriorCall(c.Attendance) {
			return models.CallTypeFollowUp, nil
		}
	}
	return models.CallTypeFirstCall, nil
}

// evaluate implements §4.4 steps 6-7: the Show/Ghosted boundary, a merged
// update of transcript fields, and a synchronous AI pipeline invocation
// on Show.
func (o *Orchestrator) evaluate(ctx context.Context, call *models.Call, t *CanonicalTranscript) error {
	show := IsShow(t)

	if call.ProspectEmail == models.UnknownProspectEmail && t.ProspectEmail != "" {
		call.ProspectEmail = t.ProspectEmail
		call.ProspectName = t.ProspectName
	}
	call.TranscriptProvider = t.ProviderKey
	call.TranscriptLink = t.TranscriptURL
	if call.TranscriptLink == "" {
		call.TranscriptLink = t.ShareURL
	}
	call.RecordingLink = t.ShareURL
	call.DurationMinutes = t.DurationMinutes
	call.UpdatedAt = time.Now()

	if show {
		if err := o.machine.Transition(ctx, call, models.AttendanceShow, statemachine.TriggerTranscriptValid, models.TriggerTranscriptWebhook); err != nil {
			if !errors.Is(err, apperrors.ErrInvalidTransition) {
				return err
			}
			// Already past pre-outcome (a re-delivery): persist the
			// refreshed transcript metadata but leave attendance alone.
			return o.gw.UpdateCall(ctx, call)
		}
		call.ProcessingState = models.ProcessingQueued
	} else {
		if err := o.machine.Transition(ctx, call, models.AttendanceGhosted, statemachine.TriggerTranscriptEmpty, models.TriggerTranscriptWebhook); err != nil {
			if !errors.Is(err, apperrors.ErrInvalidTransition) {
				return err
			}
			return o.gw.UpdateCall(ctx, call)
		}
		call.ProcessingState = models.ProcessingComplete
	}

	if err := o.gw.UpdateCall(ctx, call); err != nil {
		return err
	}

	if show && o.overbook != nil {
		o.overbook.HandleShowTransition(ctx, call)
	}

	if !show || t.Text == "" {
		return nil
	}

	// Step 7: synchronous AI invocation. Failure marks processing state
	// error but never reverts the Show transition already persisted above.
	if err := o.ai.Process(ctx, call.TenantID, call.ID, t.Text); err != nil {
		o.logger.Error("AI pipeline failed for Show call", "call_id", call.ID, "error", err)
		call.ProcessingState = models.ProcessingError
		call.UpdatedAt = time.Now()
		if uerr := o.gw.UpdateCall(ctx, call); uerr != nil {
			o.logger.Error("failed to persist AI failure processing state", "call_id", call.ID, "error", uerr)
		}
	}
	return nil
}
