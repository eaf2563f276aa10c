package ai

import (
	"context"
	"sync"
	"time"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// fakeGateway is a minimal in-memory warehouse.Gateway sufficient to
// exercise the AI pipeline without a database. It mirrors the fake used
// in pkg/transcript's orchestrator tests.
type fakeGateway struct {
	mu         sync.Mutex
	tenants    map[string]*models.Tenant
	closers    map[string]*models.Closer
	calls      map[string]*models.Call
	objections []*models.Objection
	costs      []*models.CostEntry
	audit      []models.AuditEntry
}

var _ warehouse.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tenants: map[string]*models.Tenant{},
		closers: map[string]*models.Closer{},
		calls:   map[string]*models.Call{},
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
	g.calls[call.ID] = call
	return nil
}

func (g *fakeGateway) UpdateCall(ctx context.Context, call *models.Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.calls[call.ID]; !ok {
		return apperrors.ErrNotFound
	}
	g.calls[call.ID] = call
	return nil
}

func (g *fakeGateway) GetCall(ctx context.Context, tenantID, callID string) (*models.Call, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[callID]; ok && c.TenantID == tenantID {
		return c, nil
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

func (g *fakeGateway) FindMostRecentConversationalCallByProspect(ctx context.Context, tenantID, prospectEmail string) (*models.Call, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) ListPendingPastEnd(ctx context.Context, tenantID string, asOf time.Time) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) ListWaitingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*models.Call, error) {
	return nil, nil
}

func (g *fakeGateway) CreateObjection(ctx context.Context, obj *models.Objection) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objections = append(g.objections, obj)
	return nil
}

func (g *fakeGateway) ListObjectionsByCall(ctx context.Context, tenantID, callID string) ([]*models.Objection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*models.Objection
	for _, o := range g.objections {
		if o.TenantID == tenantID && o.CallID == callID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (g *fakeGateway) FindOrCreateProspect(ctx context.Context, tenantID, email, name string) (*models.Prospect, error) {
	return &models.Prospect{TenantID: tenantID, Email: email, Name: name}, nil
}

func (g *fakeGateway) UpdateProspect(ctx context.Context, prospect *models.Prospect) error {
	return nil
}

func (g *fakeGateway) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.audit = append(g.audit, *entry)
	return nil
}

func (g *fakeGateway) AppendCost(ctx context.Context, entry *models.CostEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.costs = append(g.costs, entry)
	return nil
}

func (g *fakeGateway) GetAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	return nil, apperrors.ErrNotFound
}

// auditWriter adapts fakeGateway to statemachine.AuditWriter directly,
// mirroring pkg/audit.Writer's own Record-over-AppendAudit shape without
// depending on pkg/audit from this test package.
type auditWriter struct{ gw *fakeGateway }

func (w *auditWriter) Record(ctx context.Context, entry models.AuditEntry) error {
	return w.gw.AppendAudit(ctx, &entry)
}
