package models

import "time"

// ObjectionType is one of the 13 closed objection-taxonomy members (§6.1).
type ObjectionType string

// The closed objection taxonomy.
const (
	ObjectionFinancial      ObjectionType = "Financial"
	ObjectionSpousePartner  ObjectionType = "Spouse/Partner"
	ObjectionThinkAboutIt   ObjectionType = "Think About It"
	ObjectionTiming         ObjectionType = "Timing"
	ObjectionTrustCred      ObjectionType = "Trust/Credibility"
	ObjectionAlreadyTried   ObjectionType = "Already Tried"
	ObjectionDIY            ObjectionType = "DIY"
	ObjectionNotReady       ObjectionType = "Not Ready"
	ObjectionCompetitor     ObjectionType = "Competitor"
	ObjectionAuthority      ObjectionType = "Authority"
	ObjectionValue          ObjectionType = "Value"
	ObjectionCommitment     ObjectionType = "Commitment"
	ObjectionOther          ObjectionType = "Other"
)

// Objection is a single prospect objection surfaced by AI analysis of a Call.
type Objection struct {
	ID       string `db:"id" json:"id"`
	TenantID string `db:"tenant_id" json:"tenant_id"`
	CloserID string `db:"closer_id" json:"closer_id"`
	CallID   string `db:"call_id" json:"call_id"`

	Type           ObjectionType `db:"objection_type" json:"objection_type"`
	ProspectPhrase string        `db:"prospect_phrase" json:"prospect_phrase"`
	OffsetSeconds  int           `db:"offset_seconds" json:"offset_seconds"`

	Resolved       bool   `db:"resolved" json:"resolved"`
	ResolverText   string `db:"resolver_text" json:"resolver_text,omitempty"`
	ResolverOffset int    `db:"resolver_offset_seconds" json:"resolver_offset_seconds,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
