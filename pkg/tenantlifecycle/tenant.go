// Package tenantlifecycle implements §4.9: tenant provisioning, closer
// onboarding with best-effort provider-webhook auto-registration, and
// closer deactivation.
package tenantlifecycle

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/pushchannel"
	"github.com/closermetrix/engine/pkg/transcript"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Manager provisions tenants and closers and retires closers, against the
// admin-scoped warehouse gateway.
type Manager struct {
	gw            warehouse.AdminGateway
	transcriptReg *transcript.Registry
	pushchannels  *pushchannel.Registry
	baseURL       string
	logger        *slog.Logger
}

// New builds a Manager. baseURL is the externally reachable origin used to
// construct the webhook URLs returned from tenant creation (no trailing
// slash expected; one is stripped if present).
func New(gw warehouse.AdminGateway, transcriptReg *transcript.Registry, pushchannels *pushchannel.Registry, baseURL string) *Manager {
	return &Manager{
		gw:            gw,
		transcriptReg: transcriptReg,
		pushchannels:  pushchannels,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        slog.Default().With("component", "tenant-lifecycle"),
	}
}

// TenantInput is the caller-supplied payload for creating a tenant.
type TenantInput struct {
	Name                      string
	PlanTier                  models.PlanTier
	Timezone                  string
	FilterPhrases             []string
	PromptFragments           map[string]string
	DefaultTranscriptProvider string
}

// TenantProvisioned is returned from CreateTenant: the persisted tenant
// plus the webhook URLs and setup instructions an operator needs to wire
// the tenant's calendar/payment/transcript integrations.
type TenantProvisioned struct {
	Tenant            *models.Tenant
	PaymentWebhookURL string
	TranscriptWebhookURLs map[string]string // keyed by provider key, e.g. "fathom"
	Instructions      string
}

// CreateTenant implements §4.9 paragraph 1: allocate identity, generate an
// opaque webhook secret, record defaults, and return the webhook URLs and
// setup instructions.
func (m *Manager) CreateTenant(ctx context.Context, in TenantInput) (*TenantProvisioned, error) {
	if in.Name == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	if in.Timezone == "" {
		return nil, apperrors.NewValidationError("timezone", "must not be empty")
	}
	if in.PlanTier == "" {
		in.PlanTier = models.PlanBasic
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("tenantlifecycle: generate webhook secret: %w", err)
	}

	now := time.Now()
	tenant := &models.Tenant{
		ID:                        uuid.NewString(),
		Name:                      in.Name,
		PlanTier:                  in.PlanTier,
		Timezone:                  in.Timezone,
		Active:                    true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
		FilterPhrases:             in.FilterPhrases,
		PromptFragments:           in.PromptFragments,
		DefaultTranscriptProvider: in.DefaultTranscriptProvider,
		WebhookSecret:             secret,
	}
	if len(tenant.FilterPhrases) == 0 {
		tenant.FilterPhrases = []string{models.FilterWildcard}
	}

	if err := m.gw.CreateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("tenantlifecycle: create tenant: %w", err)
	}

	transcriptURLs := make(map[string]string)
	if m.transcriptReg != nil {
		for _, key := range []string{"fathom", "zoom", "gong"} {
			if _, ok := m.transcriptReg.Get(key); ok {
				transcriptURLs[key] = fmt.Sprintf("%s/webhooks/transcript/%s", m.baseURL, key)
			}
		}
	}

	paymentWebhookURL := fmt.Sprintf("%s/webhooks/payment/%s", m.baseURL, tenant.ID)
	return &TenantProvisioned{
		Tenant:                tenant,
		PaymentWebhookURL:     paymentWebhookURL,
		TranscriptWebhookURLs: transcriptURLs,
		Instructions: fmt.Sprintf(
			"Configure the payment processor to POST to %s with bearer secret %s. "+
				"Configure each closer's calendar to grant this tenant's service account "+
				"view access, then onboard closers individually to register their "+
				"transcript-provider webhooks.",
			paymentWebhookURL, tenant.WebhookSecret,
		),
	}, nil
}

// generateSecret returns a 32-byte random value hex-encoded, used as a
// tenant's opaque webhook secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
