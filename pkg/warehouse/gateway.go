package warehouse

import (
	"context"
	"time"

	"github.com/closermetrix/engine/pkg/models"
)

// Gateway is the sole access point to persistent storage for everything
// that is scoped to a single tenant (§4.1). Every method's first domain
// argument is a tenant id; no method may be used to cross a tenant
// boundary. Writes are immediately consistent with reads on the same
// connection pool, so a handler can insert a Call and update it again in
// the same request without a cache or eventual-consistency window.
type Gateway interface {
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)

	GetCloser(ctx context.Context, tenantID, closerID string) (*models.Closer, error)
	GetCloserByWorkEmail(ctx context.Context, tenantID, workEmail string) (*models.Closer, error)
	GetCloserByWebhookID(ctx context.Context, tenantID, webhookID string) (*models.Closer, error)
	ListActiveClosers(ctx context.Context, tenantID string) ([]*models.Closer, error)

	CreateCall(ctx context.Context, call *models.Call) error
	UpdateCall(ctx context.Context, call *models.Call) error
	GetCall(ctx context.Context, tenantID, callID string) (*models.Call, error)
	GetCallByExternalEventID(ctx context.Context, tenantID, externalEventID string) (*models.Call, error)
	ListOverlappingPreOutcomeCalls(ctx context.Context, tenantID, closerID string, start, end time.Time, excludeCallID string) ([]*models.Call, error)
	ListCallsByProspectEmail(ctx context.Context, tenantID, prospectEmail string) ([]*models.Call, error)
	FindPreOutcomeCallByCloserAndProspect(ctx context.Context, tenantID, closerWorkEmail, prospectEmail string, near time.Time, window time.Duration) (*models.Call, error)
	FindPreOutcomeCallByCloserAndTime(ctx context.Context, tenantID, closerWorkEmail string, near time.Time, window time.Duration) (*models.Call, error)
	FindMostRecentConversationalCallByProspect(ctx context.Context, tenantID, prospectEmail string) (*models.Call, error)
	ListPendingPastEnd(ctx context.Context, tenantID string, asOf time.Time) ([]*models.Call, error)
	ListWaitingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*models.Call, error)

	CreateObjection(ctx context.Context, obj *models.Objection) error
	ListObjectionsByCall(ctx context.Context, tenantID, callID string) ([]*models.Objection, error)

	FindOrCreateProspect(ctx context.Context, tenantID, email, name string) (*models.Prospect, error)
	UpdateProspect(ctx context.Context, prospect *models.Prospect) error

	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	AppendCost(ctx context.Context, entry *models.CostEntry) error

	GetAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error)
}

// AdminGateway exposes the small set of cross-tenant reads the engine
// needs outside request scope: the health probe, the timeout sweeper's
// tenant enumeration, and tenant/closer provisioning (§4.1, §4.9).
type AdminGateway interface {
	Gateway

	Health(ctx context.Context) HealthStatus

	ListActiveTenants(ctx context.Context) ([]*models.Tenant, error)
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error

	CreateCloser(ctx context.Context, closer *models.Closer) error
	UpdateCloser(ctx context.Context, closer *models.Closer) error
	GetCloserByWorkEmailAnyTenant(ctx context.Context, workEmail string) (*models.Closer, error)

	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
	RevokeAccessToken(ctx context.Context, tokenID string) error
}
