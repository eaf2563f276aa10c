// Package alerting dispatches operational alerts raised by ambiguity,
// external degradation, or taxonomy violations (§7 Visibility). It is
// adapted from the teacher's pkg/slack notification service: a nil-safe
// Service wrapping a thin API client, fail-open on delivery error, but
// generalized from session-lifecycle messages to the four alert
// severities this engine defines.
package alerting

import "time"

// Severity is one of the four alert severities (§7).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// rank orders severities for the MinSeverity filter (config.SlackConfig),
// highest first.
var rank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// atLeast reports whether s is at least as severe as min.
func atLeast(s, min Severity) bool {
	return rank[s] >= rank[min]
}

// Alert is a single operational notification (§7): critical/high route
// to a synchronous channel, medium batches into a digest, low is
// log-only.
type Alert struct {
	Severity  Severity
	Title     string
	Details   string
	TenantID  string // optional; "" for alerts not scoped to a tenant
	Err       error  // optional underlying error
	Action    string // suggested remediation
	Timestamp time.Time
}
