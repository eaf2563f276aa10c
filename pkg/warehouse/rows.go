package warehouse

import (
	"time"

	"github.com/closermetrix/engine/pkg/models"
)

// tenantRow mirrors models.Tenant with its two JSONB columns wrapped so
// sqlx can scan/marshal them directly; every other table maps onto its
// models type with no wrapper because every remaining column is a
// primitive or time.Time.
type tenantRow struct {
	ID                        string          `db:"id"`
	Name                      string          `db:"name"`
	PlanTier                  string          `db:"plan_tier"`
	Timezone                  string          `db:"timezone"`
	Active                    bool            `db:"active"`
	FilterPhrases             jsonStringSlice `db:"filter_phrases"`
	PromptFragments           jsonStringMap   `db:"prompt_fragments"`
	DefaultTranscriptProvider string          `db:"default_transcript_provider"`
	WebhookSecret             string          `db:"webhook_secret"`
	CreatedAt                 time.Time       `db:"created_at"`
	UpdatedAt                 time.Time       `db:"updated_at"`
}

func (r *tenantRow) toModel() *models.Tenant {
	return &models.Tenant{
		ID:                        r.ID,
		Name:                      r.Name,
		PlanTier:                  models.PlanTier(r.PlanTier),
		Timezone:                  r.Timezone,
		Active:                    r.Active,
		FilterPhrases:             []string(r.FilterPhrases),
		PromptFragments:           map[string]string(r.PromptFragments),
		DefaultTranscriptProvider: r.DefaultTranscriptProvider,
		WebhookSecret:             r.WebhookSecret,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}
}

func tenantRowFromModel(t *models.Tenant) *tenantRow {
	return &tenantRow{
		ID:                        t.ID,
		Name:                      t.Name,
		PlanTier:                  string(t.PlanTier),
		Timezone:                  t.Timezone,
		Active:                    t.Active,
		FilterPhrases:             jsonStringSlice(t.FilterPhrases),
		PromptFragments:           jsonStringMap(t.PromptFragments),
		DefaultTranscriptProvider: t.DefaultTranscriptProvider,
		WebhookSecret:             t.WebhookSecret,
		CreatedAt:                 t.CreatedAt,
		UpdatedAt:                 t.UpdatedAt,
	}
}

// auditRow wraps AuditEntry.Metadata.
type auditRow struct {
	ID            string        `db:"id"`
	Timestamp     time.Time     `db:"timestamp"`
	TenantID      string        `db:"tenant_id"`
	EntityType    string        `db:"entity_type"`
	EntityID      string        `db:"entity_id"`
	Action        string        `db:"action"`
	Field         string        `db:"field"`
	OldValue      string        `db:"old_value"`
	NewValue      string        `db:"new_value"`
	TriggerSource string        `db:"trigger_source"`
	Metadata      jsonStringMap `db:"metadata"`
}

func (r *auditRow) toModel() *models.AuditEntry {
	return &models.AuditEntry{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		TenantID:      r.TenantID,
		EntityType:    models.EntityType(r.EntityType),
		EntityID:      r.EntityID,
		Action:        models.AuditAction(r.Action),
		Field:         r.Field,
		OldValue:      r.OldValue,
		NewValue:      r.NewValue,
		TriggerSource: models.TriggerSource(r.TriggerSource),
		Metadata:      map[string]string(r.Metadata),
	}
}

func auditRowFromModel(a *models.AuditEntry) *auditRow {
	return &auditRow{
		ID:            a.ID,
		Timestamp:     a.Timestamp,
		TenantID:      a.TenantID,
		EntityType:    string(a.EntityType),
		EntityID:      a.EntityID,
		Action:        string(a.Action),
		Field:         a.Field,
		OldValue:      a.OldValue,
		NewValue:      a.NewValue,
		TriggerSource: string(a.TriggerSource),
		Metadata:      jsonStringMap(a.Metadata),
	}
}

// accessTokenRow wraps AccessToken.TenantIDs.
type accessTokenRow struct {
	ID        string          `db:"id"`
	Scope     string          `db:"scope"`
	TenantIDs jsonStringSlice `db:"tenant_ids"`
	CreatedAt time.Time       `db:"created_at"`
	RevokedAt *time.Time      `db:"revoked_at"`
}

func (r *accessTokenRow) toModel() *models.AccessToken {
	return &models.AccessToken{
		ID:        r.ID,
		Scope:     models.TokenScope(r.Scope),
		TenantIDs: []string(r.TenantIDs),
		CreatedAt: r.CreatedAt,
		RevokedAt: r.RevokedAt,
	}
}
