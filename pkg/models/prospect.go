package models

import "time"

// ProspectStatus is a coarse aggregate status for a Prospect.
type ProspectStatus string

// Prospect statuses.
const (
	ProspectStatusActive ProspectStatus = "active"
	ProspectStatusWon    ProspectStatus = "won"
	ProspectStatusLost   ProspectStatus = "lost"
)

// Prospect is the aggregate keyed on (tenant, prospect email), maintained
// by the payment pipeline and, optionally, the call pipeline.
type Prospect struct {
	ID       string `db:"id" json:"id"`
	TenantID string `db:"tenant_id" json:"tenant_id"`
	Email    string `db:"email" json:"email"`
	Name     string `db:"name" json:"name"`

	CallCount int `db:"call_count" json:"call_count"`
	ShowCount int `db:"show_count" json:"show_count"`

	TotalCashCollected float64    `db:"total_cash_collected" json:"total_cash_collected"`
	TotalRevenue       float64    `db:"total_revenue" json:"total_revenue"`
	PaymentCount       int        `db:"payment_count" json:"payment_count"`
	LastPaymentAt      *time.Time `db:"last_payment_at" json:"last_payment_at,omitempty"`

	Status ProspectStatus `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizeEmail enforces the engine-wide case policy for prospect email
// equality: lower-cased, trimmed exact-string match (§8, §9 Open Question —
// the source leaves this undocumented; this engine picks lowercase and
// applies it everywhere a prospect email is compared or stored).
func NormalizeEmail(email string) string {
	return toLowerTrim(email)
}
