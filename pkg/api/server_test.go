package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closermetrix/engine/pkg/alerting"
	"github.com/closermetrix/engine/pkg/audit"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/payment"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/tenantlifecycle"
)

func newTestServer(gw *fakeGateway) *Server {
	machine := statemachine.New(audit.NewWriter(gw))
	alerts := alerting.NewDispatcher(config.DefaultSlackConfig(), "")
	reconciler := payment.New(gw, machine, alerts)
	tenants := tenantlifecycle.New(gw, nil, nil, "https://engine.example.com")

	return NewServer(
		config.DefaultServerConfig(),
		config.DefaultAuthConfig(),
		gw,
		nil, // calendar orchestrator: not exercised by these handler tests beyond the header short-circuits
		nil, // transcript orchestrator: only reached from the detached goroutine, not asserted on here
		reconciler,
		tenants,
	)
}

func TestHealthHandler_ReportsGatewayStatus(t *testing.T) {
	gw := newFakeGateway()
	s := newTestServer(gw)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHealthHandler_ReportsUnhealthyGateway(t *testing.T) {
	gw := newFakeGateway()
	gw.healthy = false
	s := newTestServer(gw)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCalendarWebhook_SyncStateAcksWithoutProcessing(t *testing.T) {
	gw := newFakeGateway()
	s := newTestServer(gw)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendar", nil)
	req.Header.Set(headerChannelToken, "tenant-1")
	req.Header.Set(headerResourceState, "sync")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalendarWebhook_MissingTokenAcksWithoutProcessing(t *testing.T) {
	gw := newFakeGateway()
	s := newTestServer(gw)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/calendar", nil)
	req.Header.Set(headerResourceState, "exists")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPaymentWebhook_RejectsMissingBearerToken(t *testing.T) {
	gw := newFakeGateway()
	gw.tenants["t1"] = &models.Tenant{ID: "t1", WebhookSecret: "sekrit"}
	s := newTestServer(gw)

	body, _ := json.Marshal(paymentWebhookRequest{ProspectEmail: "a@b.com", Amount: 100, Type: "full"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment/t1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentWebhook_RejectsWrongBearerToken(t *testing.T) {
	gw := newFakeGateway()
	gw.tenants["t1"] = &models.Tenant{ID: "t1", WebhookSecret: "sekrit"}
	s := newTestServer(gw)

	body, _ := json.Marshal(paymentWebhookRequest{ProspectEmail: "a@b.com", Amount: 100, Type: "full"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment/t1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentWebhook_RejectsUnknownTenant(t *testing.T) {
	gw := newFakeGateway()
	s := newTestServer(gw)

	body, _ := json.Marshal(paymentWebhookRequest{ProspectEmail: "a@b.com", Amount: 100, Type: "full"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment/unknown-tenant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentWebhook_AppliesReconciliationWithValidSecret(t *testing.T) {
	gw := newFakeGateway()
	gw.tenants["t1"] = &models.Tenant{ID: "t1", WebhookSecret: "sekrit"}
	s := newTestServer(gw)

	body, _ := json.Marshal(paymentWebhookRequest{ProspectEmail: "new@ex.com", Amount: 500, Type: "full"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment/t1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer sekrit")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp paymentWebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(payment.OutcomeRecorded), resp.Action)
	assert.Equal(t, 500.0, resp.Total)
}

func TestAdminEndpoints_RejectMissingAdminKey(t *testing.T) {
	t.Setenv("ENGINE_ADMIN_KEY", "admin-secret")
	gw := newFakeGateway()
	s := newTestServer(gw)

	body, _ := json.Marshal(createTenantRequest{Name: "Acme", Timezone: "UTC"})
	req := httptest.NewRequest(http.MethodPost, "/admin/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEndpoints_RejectWrongAdminKey(t *testing.T) {
	t.Setenv("ENGINE_ADMIN_KEY", "admin-secret")
	gw := newFakeGateway()
	s := newTestServer(gw)

	body, _ := json.Marshal(createTenantRequest{Name: "Acme", Timezone: "UTC"})
	req := httptest.NewRequest(http.MethodPost, "/admin/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEndpoints_CreateTenantWithValidAdminKey(t *testing.T) {
	t.Setenv("ENGINE_ADMIN_KEY", "admin-secret")
	gw := newFakeGateway()
	s := newTestServer(gw)

	body, _ := json.Marshal(createTenantRequest{Name: "Acme", Timezone: "UTC"})
	req := httptest.NewRequest(http.MethodPost, "/admin/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp tenantProvisionedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Tenant.Name)
	assert.NotEmpty(t, resp.Tenant.WebhookSecret)
}

func TestAdminEndpoints_CreateAndDeactivateCloser(t *testing.T) {
	t.Setenv("ENGINE_ADMIN_KEY", "admin-secret")
	gw := newFakeGateway()
	gw.tenants["t1"] = &models.Tenant{ID: "t1", Name: "Acme", WebhookSecret: "sekrit"}
	s := newTestServer(gw)

	body, _ := json.Marshal(createCloserRequest{Name: "Jo Closer", WorkEmail: "jo@acme.com"})
	req := httptest.NewRequest(http.MethodPost, "/admin/tenants/t1/closers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Closer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.CloserActive, created.Status)

	deactivateReq := httptest.NewRequest(http.MethodPost, "/admin/tenants/t1/closers/"+created.ID+"/deactivate", nil)
	deactivateReq.Header.Set("Authorization", "Bearer admin-secret")
	deactivateRec := httptest.NewRecorder()
	s.engine.ServeHTTP(deactivateRec, deactivateReq)
	require.Equal(t, http.StatusOK, deactivateRec.Code)

	var deactivated models.Closer
	require.NoError(t, json.Unmarshal(deactivateRec.Body.Bytes(), &deactivated))
	assert.Equal(t, models.CloserInactive, deactivated.Status)
}
