package api

import "github.com/closermetrix/engine/pkg/models"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  bool   `json:"database_connected"`
	OpenConns int    `json:"open_connections"`
}

// paymentWebhookResponse is returned by POST /webhooks/payment, carrying
// the closed `action` enum of §6.2.
type paymentWebhookResponse struct {
	Action   string  `json:"action"`
	CallID   string  `json:"call_id,omitempty"`
	Prospect string  `json:"prospect_email"`
	Total    float64 `json:"total_cash_collected"`
}

// tenantProvisionedResponse is returned by POST /admin/tenants.
type tenantProvisionedResponse struct {
	Tenant                *models.Tenant    `json:"tenant"`
	PaymentWebhookURL     string            `json:"payment_webhook_url"`
	TranscriptWebhookURLs map[string]string `json:"transcript_webhook_urls"`
	Instructions          string            `json:"instructions"`
}

// errorResponse is the uniform JSON error envelope every handler returns
// on failure.
type errorResponse struct {
	Error string `json:"error"`
}
