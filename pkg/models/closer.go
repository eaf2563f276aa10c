package models

import "time"

// CloserStatus is the lifecycle status of a Closer.
type CloserStatus string

// Closer statuses.
const (
	CloserActive   CloserStatus = "active"
	CloserInactive CloserStatus = "inactive"
)

// Closer is an individual salesperson belonging to exactly one Tenant.
// A person working for multiple tenants is modeled as multiple Closer rows
// with distinct WorkEmail values.
type Closer struct {
	ID       string       `db:"id" json:"id"`
	TenantID string       `db:"tenant_id" json:"tenant_id"`
	Name     string       `db:"name" json:"name"`
	WorkEmail string      `db:"work_email" json:"work_email"`
	Status   CloserStatus `db:"status" json:"status"`

	TranscriptProvider           string `db:"transcript_provider" json:"transcript_provider"`
	TranscriptProviderCredential string `db:"transcript_provider_credential" json:"-"`
	ProviderWebhookID            string `db:"provider_webhook_id" json:"provider_webhook_id"`
	ProviderWebhookSecret        string `db:"provider_webhook_secret" json:"-"`

	// WebhookRegistrationError holds the error from the most recent
	// failed attempt to register this closer's provider webhook. It is
	// never fatal to closer creation; a non-empty value is the "clear
	// status indicator" callers poll to retry registration out of band.
	WebhookRegistrationError string `db:"webhook_registration_error" json:"webhook_registration_error,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FirstName returns the first whitespace-delimited token of the closer's
// display name, used by title-parsing heuristics in the calendar
// orchestrator ("w/ Tyler" compound stripping, ambiguous single-word
// residual detection).
func (c *Closer) FirstName() string {
	for i, r := range c.Name {
		if r == ' ' {
			return c.Name[:i]
		}
	}
	return c.Name
}
