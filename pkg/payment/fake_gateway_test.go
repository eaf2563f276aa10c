package payment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// fakeGateway is a minimal in-memory warehouse.Gateway exercising the
// reconciliation pipeline without a database, mirroring the fakes used
// in pkg/ai and pkg/sweeper. FindOrCreateProspect and
// FindMostRecentConversationalCallByProspect are real rather than
// stubbed since the reconciliation logic depends on both being
// idempotent and attendance-filtered.
type fakeGateway struct {
	mu        sync.Mutex
	tenants   map[string]*models.Tenant
	closers   map[string]*models.Closer
	calls     map[string]*models.Call
	prospects map[string]*models.Prospect
	audit     []models.AuditEntry
}

var _ warehouse.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tenants:   map[string]*models.Tenant{},
		closers:   map[string]*models.Closer{},
		calls:     map[string]*models.Call{},
		prospects: map[string]*models.Prospect{},
	}
}

func (g *fakeGateway) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.tenants[tenantID]; ok {
		return t, nil
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) GetCloser(ctx context.Context, tenantID, closerID string) (*models.Closer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.closers[closerID]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) GetCloserByWorkEmail(ctx context.Context, tenantID, workEmail string) (*models.Closer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.closers {
		if c.TenantID == tenantID && strings.EqualFold(c.WorkEmail, workEmail) {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) GetCloserByWebhookID(ctx context.Context, tenantID, webhookID string) (*models.Closer, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) ListActiveClosers(ctx context.Context, tenantID string) ([]*models.Closer, error) {
	return nil, nil
}

func (g *fakeGateway) CreateCall(ctx context.Context, call *models.Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	cp := *call
	g.calls[call.ID] = &cp
	return nil
}

func (g *fakeGateway) UpdateCall(ctx context.Context, call *models.Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.calls[call.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *call
	g.calls[call.ID] = &cp
	return nil
}

func (g *fakeGateway) GetCall(ctx context.Context, tenantID, callID string) (*models.Call, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[callID]; ok && c.TenantID == tenantID {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) GetCallByExternalEventID(ctx context.Context, tenantID, externalEventID string) (*models.Call, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) ListOverlappingPreOutcomeCalls(ctx context.Context, tenantID, closerID string, start, end time.Time, excludeCallID string) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) ListCallsByProspectEmail(ctx context.Context, tenantID, prospectEmail string) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) FindPreOutcomeCallByCloserAndProspect(ctx context.Context, tenantID, closerWorkEmail, prospectEmail string, near time.Time, window time.Duration) (*models.Call, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) FindPreOutcomeCallByCloserAndTime(ctx context.Context, tenantID, closerWorkEmail string, near time.Time, window time.Duration) (*models.Call, error) {
	return nil, apperrors.ErrNotFound
}

// conversational mirrors PostgresGateway's attendance IN (...) filter for
// FindMostRecentConversationalCallByProspect.
var conversational = map[models.Attendance]bool{
	models.AttendanceShow:         true,
	models.AttendanceFollowUp:     true,
	models.AttendanceLost:         true,
	models.AttendanceClosedWon:    true,
	models.AttendanceDeposit:      true,
	models.AttendanceDisqualified: true,
	models.AttendanceNotPitched:   true,
}

func (g *fakeGateway) FindMostRecentConversationalCallByProspect(ctx context.Context, tenantID, prospectEmail string) (*models.Call, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var best *models.Call
	for _, c := range g.calls {
		if c.TenantID != tenantID || !strings.EqualFold(c.ProspectEmail, prospectEmail) {
			continue
		}
		if !conversational[c.Attendance] {
			continue
		}
		if best == nil || c.ScheduledStart.After(best.ScheduledStart) {
			best = c
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (g *fakeGateway) ListPendingPastEnd(ctx context.Context, tenantID string, asOf time.Time) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) ListWaitingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) CreateObjection(ctx context.Context, obj *models.Objection) error { return nil }

func (g *fakeGateway) ListObjectionsByCall(ctx context.Context, tenantID, callID string) ([]*models.Objection, error) {
	return nil, nil
}

// FindOrCreateProspect mirrors the real gateway's idempotent
// find-or-create on (tenant, normalized email).
func (g *fakeGateway) FindOrCreateProspect(ctx context.Context, tenantID, email, name string) (*models.Prospect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	normalized := models.NormalizeEmail(email)
	key := tenantID + "|" + normalized
	if p, ok := g.prospects[key]; ok {
		cp := *p
		return &cp, nil
	}
	now := time.Now()
	p := &models.Prospect{
		ID: uuid.NewString(), TenantID: tenantID, Email: normalized, Name: name,
		Status: models.ProspectStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	g.prospects[key] = p
	cp := *p
	return &cp, nil
}

func (g *fakeGateway) UpdateProspect(ctx context.Context, prospect *models.Prospect) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := prospect.TenantID + "|" + models.NormalizeEmail(prospect.Email)
	if _, ok := g.prospects[key]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *prospect
	g.prospects[key] = &cp
	return nil
}

func (g *fakeGateway) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.audit = append(g.audit, *entry)
	return nil
}

func (g *fakeGateway) AppendCost(ctx context.Context, entry *models.CostEntry) error { return nil }

func (g *fakeGateway) GetAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	return nil, apperrors.ErrNotFound
}

type auditWriter struct{ gw *fakeGateway }

func (w *auditWriter) Record(ctx context.Context, entry models.AuditEntry) error {
	return w.gw.AppendAudit(ctx, &entry)
}
