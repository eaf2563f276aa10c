package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// fakeGateway is a minimal in-memory warehouse.AdminGateway, matching the
// fakes used across pkg/payment, pkg/sweeper, pkg/tenantlifecycle.
type fakeGateway struct {
	mu       sync.Mutex
	tenants  map[string]*models.Tenant
	closers  map[string]*models.Closer
	calls    map[string]*models.Call
	prospect map[string]*models.Prospect
	audit    []models.AuditEntry
	healthy  bool
}

var _ warehouse.AdminGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tenants:  map[string]*models.Tenant{},
		closers:  map[string]*models.Closer{},
		calls:    map[string]*models.Call{},
		prospect: map[string]*models.Prospect{},
		healthy:  true,
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
	g.calls[call.ID] = call
	return nil
}
func (g *fakeGateway) UpdateCall(ctx context.Context, call *models.Call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
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

func (g *fakeGateway) CreateObjection(ctx context.Context, obj *models.Objection) error { return nil }
func (g *fakeGateway) ListObjectionsByCall(ctx context.Context, tenantID, callID string) ([]*models.Objection, error) {
	return nil, nil
}

func (g *fakeGateway) FindOrCreateProspect(ctx context.Context, tenantID, email, name string) (*models.Prospect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := tenantID + "|" + strings.ToLower(email)
	if p, ok := g.prospect[key]; ok {
		return p, nil
	}
	p := &models.Prospect{ID: key, TenantID: tenantID, Email: strings.ToLower(email), Name: name}
	g.prospect[key] = p
	return p, nil
}
func (g *fakeGateway) UpdateProspect(ctx context.Context, prospect *models.Prospect) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prospect[prospect.ID] = prospect
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

func (g *fakeGateway) Health(ctx context.Context) warehouse.HealthStatus {
	return warehouse.HealthStatus{Healthy: g.healthy}
}

func (g *fakeGateway) ListActiveTenants(ctx context.Context) ([]*models.Tenant, error) {
	return nil, nil
}

func (g *fakeGateway) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tenants[tenant.ID] = tenant
	return nil
}
func (g *fakeGateway) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tenants[tenant.ID] = tenant
	return nil
}

func (g *fakeGateway) CreateCloser(ctx context.Context, closer *models.Closer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closers[closer.ID] = closer
	return nil
}
func (g *fakeGateway) UpdateCloser(ctx context.Context, closer *models.Closer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closers[closer.ID] = closer
	return nil
}
func (g *fakeGateway) GetCloserByWorkEmailAnyTenant(ctx context.Context, workEmail string) (*models.Closer, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) CreateAccessToken(ctx context.Context, token *models.AccessToken) error {
	return nil
}
func (g *fakeGateway) RevokeAccessToken(ctx context.Context, tokenID string) error { return nil }
