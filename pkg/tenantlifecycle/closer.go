package tenantlifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
)

// CloserInput is the caller-supplied payload for onboarding a closer.
type CloserInput struct {
	TenantID                     string
	Name                         string
	WorkEmail                    string
	TranscriptProvider           string
	TranscriptProviderCredential string // optional; required to auto-register a webhook
}

// CreateCloser implements §4.9 paragraph 2: create the closer, and if a
// Fathom (or any Tier-1) credential was supplied, attempt to auto-register
// a provider webhook. Registration failure never fails closer creation —
// it leaves WebhookRegistrationError set as the "clear status indicator".
func (m *Manager) CreateCloser(ctx context.Context, in CloserInput) (*models.Closer, error) {
	if in.TenantID == "" || in.Name == "" || in.WorkEmail == "" {
		return nil, apperrors.NewValidationError("closer", "tenant_id, name, and work_email are required")
	}
	if _, err := m.gw.GetTenant(ctx, in.TenantID); err != nil {
		return nil, fmt.Errorf("tenantlifecycle: resolve tenant: %w", err)
	}
	if existing, err := m.gw.GetCloserByWorkEmail(ctx, in.TenantID, in.WorkEmail); err == nil && existing != nil {
		return nil, fmt.Errorf("tenantlifecycle: create closer: %w: work email %q already in use for this tenant", apperrors.ErrAlreadyExists, in.WorkEmail)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("tenantlifecycle: check existing closer: %w", err)
	}

	now := time.Now()
	closer := &models.Closer{
		ID:                           uuid.NewString(),
		TenantID:                     in.TenantID,
		Name:                         in.Name,
		WorkEmail:                    in.WorkEmail,
		Status:                       models.CloserActive,
		TranscriptProvider:           in.TranscriptProvider,
		TranscriptProviderCredential: in.TranscriptProviderCredential,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}

	if in.TranscriptProviderCredential != "" && m.transcriptReg != nil {
		if adapter, ok := m.transcriptReg.Get(in.TranscriptProvider); ok {
			callbackURL := fmt.Sprintf("%s/webhooks/transcript/%s", m.baseURL, in.TranscriptProvider)
			webhookID, webhookSecret, err := adapter.RegisterWebhook(ctx, in.TranscriptProviderCredential, callbackURL)
			if err != nil {
				m.logger.Warn("tenantlifecycle: provider webhook registration failed, closer still created", "closer_id", closer.ID, "provider", in.TranscriptProvider, "error", err)
				closer.WebhookRegistrationError = err.Error()
			} else {
				closer.ProviderWebhookID = webhookID
				closer.ProviderWebhookSecret = webhookSecret
			}
		}
	}

	if err := m.gw.CreateCloser(ctx, closer); err != nil {
		return nil, fmt.Errorf("tenantlifecycle: create closer: %w", err)
	}
	return closer, nil
}

// DeactivateCloser implements §4.9 paragraph 2's last sentence: delete the
// provider webhook (non-fatal on failure), stop the push subscription, and
// set status=inactive. History stays in place and queryable; nothing is
// deleted from the warehouse.
func (m *Manager) DeactivateCloser(ctx context.Context, tenantID, closerID string) (*models.Closer, error) {
	closer, err := m.gw.GetCloser(ctx, tenantID, closerID)
	if err != nil {
		return nil, fmt.Errorf("tenantlifecycle: resolve closer: %w", err)
	}

	if closer.ProviderWebhookID != "" && m.transcriptReg != nil {
		if adapter, ok := m.transcriptReg.Get(closer.TranscriptProvider); ok {
			if err := adapter.DeregisterWebhook(ctx, closer.TranscriptProviderCredential, closer.ProviderWebhookID); err != nil {
				m.logger.Warn("tenantlifecycle: provider webhook deregistration failed, deactivating anyway", "closer_id", closer.ID, "error", err)
			}
		}
	}

	if m.pushchannels != nil {
		if err := m.pushchannels.Stop(ctx, tenantID, closerID); err != nil {
			m.logger.Warn("tenantlifecycle: push subscription stop failed, deactivating anyway", "closer_id", closer.ID, "error", err)
		}
	}

	closer.Status = models.CloserInactive
	closer.ProviderWebhookID = ""
	closer.ProviderWebhookSecret = ""
	closer.UpdatedAt = time.Now()
	if err := m.gw.UpdateCloser(ctx, closer); err != nil {
		return nil, fmt.Errorf("tenantlifecycle: persist deactivation: %w", err)
	}
	return closer, nil
}
