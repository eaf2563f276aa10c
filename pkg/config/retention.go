package config

import "time"

// RetentionConfig holds retention periods for append-only audit entries
// and cost entries. The values are loaded, merged and validated only; the
// engine runs no housekeeping pass over the audit and cost-tracking
// tables, so both grow without bound. The warehouse schema never deletes
// a Call, Prospect, or Closer row (§6.4 additive-only philosophy).
type RetentionConfig struct {
	// AuditRetentionDays is how many days of audit_log rows are kept.
	AuditRetentionDays int `yaml:"audit_retention_days"`

	// CostRetentionDays is how many days of cost_tracking rows are kept.
	CostRetentionDays int `yaml:"cost_retention_days"`

	// SweepInterval is a retention-sweep period; no retention sweep reads it.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		AuditRetentionDays: 400,
		CostRetentionDays:  400,
		SweepInterval:      24 * time.Hour,
	}
}
