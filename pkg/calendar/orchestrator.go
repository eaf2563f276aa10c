package calendar

import (
	"context"
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

// Orchestrator runs the calendar notification pipeline of §4.2-§4.3: one
// push notification in, zero or more Call writes and state-machine
// transitions out.
type Orchestrator struct {
	gw          warehouse.AdminGateway
	registry    *Registry
	providerKey string
	machine     *statemachine.Machine
	dedup       *DedupFilter
	alerts      *alerting.Dispatcher
	titleCfg    *config.TitleParsing
	logger      *slog.Logger
}

// New builds an Orchestrator. providerKey selects which registered
// Adapter fetches and normalizes events for every tenant (a single
// calendar vendor integration, per §4.8's "exactly one active
// subscription" per closer).
func New(gw warehouse.AdminGateway, registry *Registry, providerKey string, machine *statemachine.Machine, dedup *DedupFilter, alerts *alerting.Dispatcher, titleCfg *config.TitleParsing) *Orchestrator {
	return &Orchestrator{
		gw:          gw,
		registry:    registry,
		providerKey: providerKey,
		machine:     machine,
		dedup:       dedup,
		alerts:      alerts,
		titleCfg:    titleCfg,
		logger:      slog.Default().With("component", "calendar-orchestrator"),
	}
}

// HandleNotification runs the full per-notification pipeline of §4.2
// steps 2-5 for tenantID, the tenant identified by the push channel's
// token. Step 1 (receiving the headers-only push) happens in the HTTP
// handler, which extracts tenantID from the channel token and calls this.
func (o *Orchestrator) HandleNotification(ctx context.Context, tenantID string) error {
	tenant, err := o.gw.GetTenant(ctx, tenantID)
	if err != nil {
		o.logger.Info("tenant not found for calendar notification, discarding", "tenant_id", tenantID)
		return nil
	}

	adapter, ok := o.registry.Get(o.providerKey)
	if !ok {
		return fmt.Errorf("calendar: no adapter registered for provider %q", o.providerKey)
	}

	closers, err := o.gw.ListActiveClosers(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("calendar: list active closers: %w", err)
	}

	since := time.Now().Add(-5 * time.Minute)
	byEventID := make(map[string]*CanonicalCalendarEvent)
	for _, closer := range closers {
		raws, err := adapter.ListChangedEvents(ctx, closer.WorkEmail, since)
		if err != nil {
			o.logger.Warn("failed to list changed events for closer", "closer_id", closer.ID, "error", err)
			continue
		}
		for _, raw := range raws {
			event, err := adapter.Normalize(raw)
			if err != nil {
				o.logger.Warn("failed to normalize calendar event", "error", err)
				continue
			}
			// Deduplicate the fetched batch by event id (§4.2 step 4): the
			// copy fetched last (from the later closer in the loop) is kept;
			// the copies' update times are not compared.
			byEventID[event.EventID] = event
		}
	}

	for _, event := range byEventID {
		if err := o.processEvent(ctx, tenant, event); err != nil {
			o.logger.Error("failed to process calendar event", "event_id", event.EventID, "error", err)
		}
	}
	return nil
}

// processEvent runs the single-event pipeline of §4.2 steps a-e.
func (o *Orchestrator) processEvent(ctx context.Context, tenant *models.Tenant, event *CanonicalCalendarEvent) error {
	// (a) in-memory recency filter
	seen, err := o.dedup.SeenRecently(ctx, event)
	if err != nil {
		o.logger.Warn("dedup filter error, proceeding without dedup", "error", err)
	} else if seen {
		return nil
	}

	// (b) cancellation bypass / (c) filter phrases
	if !event.IsCancelled() {
		if !tenant.MatchesFilter(event.Title) {
			return nil
		}
	}

	// (d) closer resolution: organizer first, then each non-organizer attendee.
	closer, err := o.gw.GetCloserByWorkEmail(ctx, tenant.ID, event.OrganizerEmail)
	if err != nil {
		closer = nil
		for _, a := range event.Attendees {
			if a.IsOrganizer {
				continue
			}
			if c, err2 := o.gw.GetCloserByWorkEmail(ctx, tenant.ID, a.Email); err2 == nil {
				closer = c
				break
			}
		}
	}
	if closer == nil {
		o.alerts.Dispatch(ctx, alerting.Alert{
			Severity: alerting.SeverityMedium,
			Title:    "Calendar event matched no closer",
			Details:  fmt.Sprintf("event %s organizer=%s", event.EventID, event.OrganizerEmail),
			TenantID: tenant.ID,
		})
		return nil
	}

	// (e) hand off to the state machine.
	return o.dispatch(ctx, tenant, closer, event)
}

// dispatch implements the calendar event dispatch rules of §4.3.
func (o *Orchestrator) dispatch(ctx context.Context, tenant *models.Tenant, closer *models.Closer, event *CanonicalCalendarEvent) error {
	existing, err := o.gw.GetCallByExternalEventID(ctx, tenant.ID, event.EventID)
	hasExisting := err == nil

	if !hasExisting {
		if event.IsCancelled() {
			return nil
		}
		return o.createCall(ctx, tenant, closer, event)
	}

	if event.IsCancelled() || event.AnyAttendeeDeclined() {
		if models.IsTerminalConversational(existing.Attendance) {
			return nil
		}
		trigger := statemachine.TriggerCalendarCancel
		if err := o.machine.Transition(ctx, existing, models.AttendanceCanceled, trigger, models.TriggerCalendarWebhook); err != nil {
			return nil // invalid transition already audited as an error by the machine
		}
		existing.UpdatedAt = time.Now()
		return o.gw.UpdateCall(ctx, existing)
	}

	if existing.Attendance == models.AttendanceShow && existing.CallOutcome != "" {
		return o.createCall(ctx, tenant, closer, event)
	}

	if models.IsPreOutcome(existing.Attendance) {
		prospect := ExtractProspect(event, closer, tenant, o.titleCfg)
		startChanged := !existing.ScheduledStart.Equal(event.Start)
		identityChanged := prospect.Email != models.UnknownProspectEmail &&
			!equalFoldEmail(prospect.Email, existing.ProspectEmail)
		if !startChanged && !identityChanged {
			return nil // duplicate
		}
		return o.updateCall(ctx, tenant, closer, event, existing, identityChanged)
	}

	if (existing.Attendance == models.AttendanceCanceled || existing.Attendance == models.AttendanceRescheduled) && !event.IsCancelled() {
		return o.createCall(ctx, tenant, closer, event)
	}

	if existing.Attendance == models.AttendanceGhosted || existing.Attendance == models.AttendanceNoRecording {
		if !existing.ScheduledStart.Equal(event.Start) {
			return o.createCall(ctx, tenant, closer, event)
		}
		return nil
	}

	return nil
}

func equalFoldEmail(a, b string) bool {
	return models.NormalizeEmail(a) == models.NormalizeEmail(b)
}

func (o *Orchestrator) createCall(ctx context.Context, tenant *models.Tenant, closer *models.Closer, event *CanonicalCalendarEvent) error {
	prospect := ExtractProspect(event, closer, tenant, o.titleCfg)
	callType, err := o.determineCallType(ctx, tenant.ID, prospect.Email)
	if err != nil {
		return fmt.Errorf("calendar: determine call type: %w", err)
	}

	now := time.Now()
	call := &models.Call{
		ID:              uuid.NewString(),
		TenantID:        tenant.ID,
		CloserID:        closer.ID,
		ExternalEventID: event.EventID,
		ProspectEmail:   prospect.Email,
		ProspectName:    prospect.Name,
		ScheduledStart:  event.Start,
		ScheduledEnd:    event.End,
		Timezone:        event.OriginalTimezone,
		Attendance:      models.AttendanceUnset,
		CallType:        callType,
		ProcessingState: models.ProcessingPending,
		IngestionSource: models.SourceCalendar,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := o.gw.CreateCall(ctx, call); err != nil {
		return fmt.Errorf("calendar: create call: %w", err)
	}
	return nil
}

func (o *Orchestrator) updateCall(ctx context.Context, tenant *models.Tenant, closer *models.Closer, event *CanonicalCalendarEvent, existing *models.Call, identityChanged bool) error {
	existing.ScheduledStart = event.Start
	existing.ScheduledEnd = event.End
	existing.Timezone = event.OriginalTimezone
	existing.CloserID = closer.ID

	if identityChanged {
		prospect := ExtractProspect(event, closer, tenant, o.titleCfg)
		existing.ProspectEmail = prospect.Email
		existing.ProspectName = prospect.Name
		callType, err := o.determineCallType(ctx, tenant.ID, prospect.Email)
		if err != nil {
			return fmt.Errorf("calendar: determine call type on update: %w", err)
		}
		existing.CallType = callType
	}
	existing.UpdatedAt = time.Now()
	return o.gw.UpdateCall(ctx, existing)
}

// determineCallType implements §4.3's call type determination: any prior
// call for (prospect email, tenant) whose attendance counts as a prior
// call makes this one a Follow Up; none, or an unknown prospect email,
// makes it a First Call.
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

// HandleShowTransition runs overbook detection after a call reaches Show
// (§4.3 "Overbook detection"). Failure of the overbook query must not
// fail the Show transition, so every error here is logged, not returned.
func (o *Orchestrator) HandleShowTransition(ctx context.Context, call *models.Call) {
	others, err := o.gw.ListOverlappingPreOutcomeCalls(ctx, call.TenantID, call.CloserID, call.ScheduledStart, call.End(), call.ID)
	if err != nil {
		o.logger.Warn("overbook detection query failed, Show transition unaffected", "call_id", call.ID, "error", err)
		return
	}
	for _, other := range others {
		if err := o.machine.Transition(ctx, other, models.AttendanceOverbooked, statemachine.TriggerDoubleBooked, models.TriggerSystem); err != nil {
			if err != apperrors.ErrInvalidTransition {
				o.logger.Warn("failed to mark overlapping call overbooked", "call_id", other.ID, "error", err)
			}
			continue
		}
		other.UpdatedAt = time.Now()
		if err := o.gw.UpdateCall(ctx, other); err != nil {
			o.logger.Warn("failed to persist overbooked call", "call_id", other.ID, "error", err)
		}
	}
}
