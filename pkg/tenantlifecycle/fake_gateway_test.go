package tenantlifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// fakeGateway is a minimal in-memory warehouse.AdminGateway, mirroring the
// fake used in pkg/sweeper's tests.
type fakeGateway struct {
	mu      sync.Mutex
	tenants map[string]*models.Tenant
	closers map[string]*models.Closer
}

var _ warehouse.AdminGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tenants: map[string]*models.Tenant{},
		closers: map[string]*models.Closer{},
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
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.closers {
		if c.TenantID == tenantID && c.ProviderWebhookID == webhookID {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) ListActiveClosers(ctx context.Context, tenantID string) ([]*models.Closer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*models.Closer
	for _, c := range g.closers {
		if c.TenantID == tenantID && c.Status == models.CloserActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *fakeGateway) CreateCall(ctx context.Context, call *models.Call) error { return nil }
func (g *fakeGateway) UpdateCall(ctx context.Context, call *models.Call) error { return nil }
func (g *fakeGateway) GetCall(ctx context.Context, tenantID, callID string) (*models.Call, error) {
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
	return nil, apperrors.ErrNotFound
}
func (g *fakeGateway) UpdateProspect(ctx context.Context, prospect *models.Prospect) error { return nil }

func (g *fakeGateway) AppendAudit(ctx context.Context, entry *models.AuditEntry) error { return nil }
func (g *fakeGateway) AppendCost(ctx context.Context, entry *models.CostEntry) error   { return nil }

func (g *fakeGateway) GetAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) Health(ctx context.Context) warehouse.HealthStatus {
	return warehouse.HealthStatus{Healthy: true}
}

func (g *fakeGateway) ListActiveTenants(ctx context.Context) ([]*models.Tenant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*models.Tenant
	for _, t := range g.tenants {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
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
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.closers {
		if strings.EqualFold(c.WorkEmail, workEmail) {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (g *fakeGateway) CreateAccessToken(ctx context.Context, token *models.AccessToken) error { return nil }
func (g *fakeGateway) RevokeAccessToken(ctx context.Context, tokenID string) error             { return nil }
