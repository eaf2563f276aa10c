package models

import "time"

// CostEntry is an append-only record of a single AI invocation's cost.
type CostEntry struct {
	ID        string    `db:"id" json:"id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	CallID    string    `db:"call_id" json:"call_id"`
	Model     string    `db:"model" json:"model"`

	InputTokens  int `db:"input_tokens" json:"input_tokens"`
	OutputTokens int `db:"output_tokens" json:"output_tokens"`

	InputCostUSD  float64 `db:"input_cost_usd" json:"input_cost_usd"`
	OutputCostUSD float64 `db:"output_cost_usd" json:"output_cost_usd"`
	TotalCostUSD  float64 `db:"total_cost_usd" json:"total_cost_usd"`

	ProcessingDurationMS int64 `db:"processing_duration_ms" json:"processing_duration_ms"`
}
