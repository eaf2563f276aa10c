// Package sweeper implements the periodic three-phase timeout sweep of
// §4.6: pending calls whose scheduled time has passed move to Waiting
// for Outcome, active closers on a pull-capable transcript provider are
// polled for meetings the orchestrator hasn't seen yet, and calls that
// have waited too long for a transcript are ghosted. It is structured
// as a single jittered-interval poll loop, the same shape as the
// teacher's queue.Worker poll loop, scoped to every active tenant per
// tick rather than one claimed row per poll.
package sweeper

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/closermetrix/engine/pkg/alerting"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/transcript"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Sweeper runs the timeout sweep in a loop that sleeps a jittered poll
// interval between passes, until Stop is called.
type Sweeper struct {
	gw           warehouse.AdminGateway
	machine      *statemachine.Machine
	registry     *transcript.Registry
	orchestrator *transcript.Orchestrator
	alerts       *alerting.Dispatcher
	cfg          *config.SweeperConfig
	thresholds   *config.Thresholds

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	logger *slog.Logger
}

// New builds a Sweeper.
func New(gw warehouse.AdminGateway, machine *statemachine.Machine, registry *transcript.Registry, orchestrator *transcript.Orchestrator, alerts *alerting.Dispatcher, cfg *config.SweeperConfig, thresholds *config.Thresholds) *Sweeper {
	return &Sweeper{
		gw:           gw,
		machine:      machine,
		registry:     registry,
		orchestrator: orchestrator,
		alerts:       alerts,
		cfg:          cfg,
		thresholds:   thresholds,
		stopCh:       make(chan struct{}),
		logger:       slog.Default().With("component", "sweeper"),
	}
}

// Start begins the sweep loop in a goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop signals the loop to stop and waits, bounded by the configured
// graceful shutdown timeout, for the in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.cfg.GracefulShutdownTimeout):
		s.logger.Warn("sweeper did not stop within graceful shutdown timeout")
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()
	s.logger.Info("sweeper started")

	for {
		select {
		case <-s.stopCh:
			s.logger.Info("sweeper shutting down")
			return
		case <-ctx.Done():
			return
		default:
			s.sweepOnce(ctx)
			s.sleep(s.pollInterval())
		}
	}
}

func (s *Sweeper) sleep(d time.Duration) {
	select {
	case <-s.stopCh:
	case <-time.After(d):
	}
}

func (s *Sweeper) pollInterval() time.Duration {
	base := s.cfg.PollInterval
	jitter := s.cfg.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

// sweepOnce runs all three phases across every active tenant. Per-tenant
// and per-closer failures are logged and never abort the remaining work
// (§4.6: "Failures per closer are non-fatal and logged").
func (s *Sweeper) sweepOnce(ctx context.Context) {
	tenants, err := s.gw.ListActiveTenants(ctx)
	if err != nil {
		s.logger.Error("failed to list active tenants", "error", err)
		return
	}

	now := time.Now()
	for _, tenant := range tenants {
		s.phasePendingToWaiting(ctx, tenant.ID, now)
		s.phasePullCatchup(ctx, tenant)
		s.phaseWaitingToGhosted(ctx, tenant.ID, now)
	}
}

// phasePendingToWaiting implements §4.6 Phase 1.
func (s *Sweeper) phasePendingToWaiting(ctx context.Context, tenantID string, now time.Time) {
	calls, err := s.gw.ListPendingPastEnd(ctx, tenantID, now)
	if err != nil {
		s.logger.Error("phase 1: list pending past end failed", "tenant_id", tenantID, "error", err)
		return
	}
	for _, call := range calls {
		if err := s.machine.Transition(ctx, call, models.AttendanceWaiting, statemachine.TriggerAppointmentTimePassed, models.TriggerTimeout); err != nil {
			s.logger.Warn("phase 1: transition to waiting rejected", "call_id", call.ID, "error", err)
			continue
		}
		call.UpdatedAt = now
		if err := s.gw.UpdateCall(ctx, call); err != nil {
			s.logger.Error("phase 1: persist waiting transition failed", "call_id", call.ID, "error", err)
		}
	}
}

// phaseWaitingToGhosted implements §4.6 Phase 2.
func (s *Sweeper) phaseWaitingToGhosted(ctx context.Context, tenantID string, now time.Time) {
	cutoff := now.Add(-s.thresholds.WaitingTimeout)
	calls, err := s.gw.ListWaitingOlderThan(ctx, tenantID, cutoff)
	if err != nil {
		s.logger.Error("phase 2: list waiting older than failed", "tenant_id", tenantID, "error", err)
		return
	}
	for _, call := range calls {
		if err := s.machine.Transition(ctx, call, models.AttendanceGhosted, statemachine.TriggerTranscriptTimeout, models.TriggerTimeout); err != nil {
			s.logger.Warn("phase 2: transition to ghosted rejected", "call_id", call.ID, "error", err)
			continue
		}
		call.ProcessingState = models.ProcessingComplete
		call.UpdatedAt = now
		if err := s.gw.UpdateCall(ctx, call); err != nil {
			s.logger.Error("phase 2: persist ghosted transition failed", "call_id", call.ID, "error", err)
		}
	}
}

// phasePullCatchup implements §4.6 Phase 1.5: for each active closer on a
// pull-capable transcript provider, list meetings since the configured
// lookback window and dispatch each through the transcript orchestrator
// with call-id/tenant-id hints unset — the orchestrator's own two-tier
// matcher locates the Waiting call (§4.4, §4.6).
func (s *Sweeper) phasePullCatchup(ctx context.Context, tenant *models.Tenant) {
	closers, err := s.gw.ListActiveClosers(ctx, tenant.ID)
	if err != nil {
		s.logger.Error("phase 1.5: list active closers failed", "tenant_id", tenant.ID, "error", err)
		return
	}

	since := time.Now().Add(-s.thresholds.PullLookback)
	for _, closer := range closers {
		s.pullCloser(ctx, tenant.ID, closer, since)
	}
}

func (s *Sweeper) pullCloser(ctx context.Context, tenantID string, closer *models.Closer, since time.Time) {
	if closer.TranscriptProvider == "" || closer.TranscriptProviderCredential == "" {
		return
	}
	adapter, ok := s.registry.Get(closer.TranscriptProvider)
	if !ok || !adapter.SupportsPull() {
		return
	}

	meetings, err := adapter.ListMeetingsSince(ctx, closer.TranscriptProviderCredential, since)
	if err != nil {
		s.logger.Warn("phase 1.5: list meetings failed", "closer_id", closer.ID, "provider", closer.TranscriptProvider, "error", err)
		return
	}

	for _, meeting := range meetings {
		t, err := adapter.FetchTranscript(ctx, closer.TranscriptProviderCredential, meeting.ProviderMeetingID)
		if err != nil {
			s.logger.Warn("phase 1.5: fetch transcript failed", "closer_id", closer.ID, "meeting_id", meeting.ProviderMeetingID, "error", err)
			continue
		}
		if t == nil || t.Absent() {
			continue
		}

		call, merr := s.gw.FindPreOutcomeCallByCloserAndTime(ctx, tenantID, closer.WorkEmail, meeting.CreatedAt, s.thresholds.TranscriptMatchWindow)
		hint := transcript.Hint{TenantID: tenantID}
		if merr == nil {
			hint.CallID = call.ID
		}

		if _, err := s.orchestrator.Handle(ctx, t, hint); err != nil {
			s.logger.Warn("phase 1.5: orchestrator handle failed", "closer_id", closer.ID, "meeting_id", meeting.ProviderMeetingID, "error", err)
			s.alerts.Dispatch(ctx, alerting.Alert{
				Severity: alerting.SeverityMedium,
				Title:    "Pull-based transcript catch-up failed",
				Details:  "closer_id=" + closer.ID + " meeting_id=" + meeting.ProviderMeetingID,
				Err:      err,
			})
		}
	}
}
