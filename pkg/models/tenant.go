// Package models holds the plain domain types shared across the engine.
// None of these types are persistence-aware; pkg/warehouse maps them to
// and from SQL rows.
package models

import (
	"strings"
	"time"
)

// PlanTier is the subscription tier of a Tenant.
type PlanTier string

// Plan tiers, closed set.
const (
	PlanBasic     PlanTier = "basic"
	PlanInsight   PlanTier = "insight"
	PlanExecutive PlanTier = "executive"
)

// FilterWildcard matches any calendar event title.
const FilterWildcard = "*"

// Tenant is a customer organization. Every persisted row in the system
// belongs to exactly one Tenant.
type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PlanTier  PlanTier  `db:"plan_tier" json:"plan_tier"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// FilterPhrases is an ordered, case-insensitive substring list; a single
	// "*" entry means accept all calendar events regardless of title.
	FilterPhrases []string `db:"filter_phrases" json:"filter_phrases"`

	// PromptFragments holds free-form, per-section prompt text keyed by
	// section name (tenant_context, offer, script, disqualification,
	// common_objections, additional_context, discovery_scoring,
	// pitch_scoring, close_scoring, objection_scoring).
	PromptFragments map[string]string `db:"prompt_fragments" json:"prompt_fragments"`

	DefaultTranscriptProvider string `db:"default_transcript_provider" json:"default_transcript_provider"`
	WebhookSecret             string `db:"webhook_secret" json:"-"`
}

// MatchesFilter reports whether title passes the tenant's filter phrases.
// Matching is case-insensitive substring matching; "*" accepts everything.
func (t *Tenant) MatchesFilter(title string) bool {
	if len(t.FilterPhrases) == 0 {
		return false
	}
	lower := strings.ToLower(title)
	for _, phrase := range t.FilterPhrases {
		if phrase == FilterWildcard {
			return true
		}
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
