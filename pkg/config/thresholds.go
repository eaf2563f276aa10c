package config

import "time"

// Thresholds bundles every tunable numeric/duration constant the core
// depends on, loaded from YAML with compiled-in defaults (§6.1, §4.6,
// §4.4, §4.5).
type Thresholds struct {
	// CalendarDedupWindow is loaded and validated but not read: the
	// calendar dedup filter remembers a notification fingerprint for its
	// own fixed 60 seconds (§4.2 step a).
	CalendarDedupWindow time.Duration `yaml:"calendar_dedup_window"`

	// CalendarFetchLookback is loaded and validated but not read: the
	// calendar orchestrator fetches changed events from a fixed 5 minutes
	// back after a push notification (§4.2 step 3).
	CalendarFetchLookback time.Duration `yaml:"calendar_fetch_lookback"`

	// TranscriptMatchWindow bounds the ±window used to match a transcript
	// to a scheduled call by start time (§4.4 step 4).
	TranscriptMatchWindow time.Duration `yaml:"transcript_match_window"`

	// GhostMinChars is loaded and validated but not read: transcript.IsShow
	// uses its own fixed minimum flattened-transcript length of 50 for a
	// Show (§4.4, §8 boundary: exactly 50 → Show, 49 → Ghosted).
	GhostMinChars int `yaml:"ghost_min_chars"`

	// GhostMinSpeakers is loaded and validated but not read:
	// transcript.IsShow uses its own fixed minimum of 2 distinct speakers.
	GhostMinSpeakers int `yaml:"ghost_min_speakers"`

	// SweepInterval is loaded and validated but not read: the timeout
	// sweeper's poll period comes from SweeperConfig.PollInterval (§4.6).
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// WaitingTimeout is how long a call may sit in Waiting for Outcome
	// before the sweeper ghosts it (§4.6 Phase 2, default 120m).
	WaitingTimeout time.Duration `yaml:"waiting_timeout"`

	// PullLookback bounds the sweeper's Phase 1.5 per-closer listing
	// window (§4.6, §9 Open Question, default 6h).
	PullLookback time.Duration `yaml:"pull_lookback"`

	// PushChannelRenewLookahead is how far ahead of expiry a push channel
	// is renewed by the periodic renewal job (§4.8, default 24h).
	PushChannelRenewLookahead time.Duration `yaml:"push_channel_renew_lookahead"`

	// ScoreMin/ScoreMax bound the seven AI scoring dimensions (§6.1).
	ScoreMin int `yaml:"score_min"`
	ScoreMax int `yaml:"score_max"`

	// ScoreNeutralDefault is substituted for a missing numeric score
	// during response validation (§4.5).
	ScoreNeutralDefault int `yaml:"score_neutral_default"`
}

// DefaultThresholds returns the compiled-in values used absent YAML
// overrides.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		CalendarDedupWindow:       60 * time.Second,
		CalendarFetchLookback:     5 * time.Minute,
		TranscriptMatchWindow:     30 * time.Minute,
		GhostMinChars:             50,
		GhostMinSpeakers:          2,
		SweepInterval:             5 * time.Minute,
		WaitingTimeout:            120 * time.Minute,
		PullLookback:              6 * time.Hour,
		PushChannelRenewLookahead: 24 * time.Hour,
		ScoreMin:                 1,
		ScoreMax:                 10,
		ScoreNeutralDefault:      5,
	}
}

// AIPricing is the per-million-token rate table used to compute Cost
// Entries (§3, §8 property 7).
type AIPricing struct {
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	RateInPerM     float64 `yaml:"rate_in_per_million"`
	RateOutPerM    float64 `yaml:"rate_out_per_million"`
}

// DefaultAIPricing returns the compiled-in model/rate configuration.
func DefaultAIPricing() *AIPricing {
	return &AIPricing{
		Model:       "claude-sonnet-4-5",
		MaxTokens:   4096,
		RateInPerM:  3.0,
		RateOutPerM: 15.0,
	}
}

// InputCost computes the input-token cost for a given token count.
func (p *AIPricing) InputCost(tokens int) float64 {
	return float64(tokens) * p.RateInPerM / 1_000_000
}

// OutputCost computes the output-token cost for a given token count.
func (p *AIPricing) OutputCost(tokens int) float64 {
	return float64(tokens) * p.RateOutPerM / 1_000_000
}
