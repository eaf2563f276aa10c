package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates configuration comprehensively with clear error
// messages, combining go-playground/validator/v10 struct-tag checks
// (required fields) with hand-written checks — numeric ranges, ordering
// invariants between related thresholds, taxonomy completeness.
type Validator struct {
	cfg *Config
	vd  *validator.Validate
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg, vd: validator.New()}
}

// ValidateAll performs comprehensive validation, fail-fast: it stops at
// the first error so a deployment sees exactly one problem to fix at a
// time instead of a wall of unrelated messages.
func (v *Validator) ValidateAll() error {
	if err := v.validateStructTags(); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	if err := v.validateTaxonomy(); err != nil {
		return fmt.Errorf("taxonomy validation failed: %w", err)
	}
	if err := v.validateThresholds(); err != nil {
		return fmt.Errorf("thresholds validation failed: %w", err)
	}
	if err := v.validateAIPricing(); err != nil {
		return fmt.Errorf("ai_pricing validation failed: %w", err)
	}
	if err := v.validateSweeper(); err != nil {
		return fmt.Errorf("sweeper validation failed: %w", err)
	}
	if err := v.validateRetention(); err != nil {
		return fmt.Errorf("retention validation failed: %w", err)
	}
	return nil
}

// validateStructTags runs go-playground/validator/v10 over every section
// that carries `validate:"..."` tags (ServerConfig.Addr required, and so
// on). Sections with no tags are skipped implicitly — validator.Struct
// treats an all-untagged struct as trivially valid.
func (v *Validator) validateStructTags() error {
	for _, section := range []any{v.cfg.Server, v.cfg.Database, v.cfg.Redis, v.cfg.Auth, v.cfg.Slack} {
		if err := v.vd.Struct(section); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateTaxonomy() error {
	t := v.cfg.Taxonomy
	if t == nil {
		return fmt.Errorf("taxonomy is nil")
	}
	if len(t.Outcomes) == 0 {
		return fmt.Errorf("%w: outcomes", ErrMissingRequiredField)
	}
	if len(t.Objections) == 0 {
		return fmt.Errorf("%w: objections", ErrMissingRequiredField)
	}
	if len(t.Dimensions) == 0 {
		return fmt.Errorf("%w: dimensions", ErrMissingRequiredField)
	}
	seen := make(map[string]bool, len(t.Outcomes))
	for _, o := range t.Outcomes {
		if o.Value == "" {
			return fmt.Errorf("%w: outcome with empty value", ErrInvalidValue)
		}
		if seen[o.Value] {
			return fmt.Errorf("%w: duplicate outcome %q", ErrInvalidValue, o.Value)
		}
		seen[o.Value] = true
	}
	return nil
}

func (v *Validator) validateThresholds() error {
	t := v.cfg.Thresholds
	if t == nil {
		return fmt.Errorf("thresholds is nil")
	}
	if t.CalendarDedupWindow <= 0 {
		return fmt.Errorf("%w: calendar_dedup_window must be positive", ErrInvalidValue)
	}
	if t.TranscriptMatchWindow <= 0 {
		return fmt.Errorf("%w: transcript_match_window must be positive", ErrInvalidValue)
	}
	if t.GhostMinChars < 0 {
		return fmt.Errorf("%w: ghost_min_chars must be non-negative", ErrInvalidValue)
	}
	if t.GhostMinSpeakers < 1 {
		return fmt.Errorf("%w: ghost_min_speakers must be at least 1", ErrInvalidValue)
	}
	if t.SweepInterval <= 0 {
		return fmt.Errorf("%w: sweep_interval must be positive", ErrInvalidValue)
	}
	if t.WaitingTimeout <= 0 {
		return fmt.Errorf("%w: waiting_timeout must be positive", ErrInvalidValue)
	}
	if t.ScoreMin >= t.ScoreMax {
		return fmt.Errorf("%w: score_min must be less than score_max, got min=%d max=%d", ErrInvalidValue, t.ScoreMin, t.ScoreMax)
	}
	if t.ScoreNeutralDefault < t.ScoreMin || t.ScoreNeutralDefault > t.ScoreMax {
		return fmt.Errorf("%w: score_neutral_default %d out of [%d, %d]", ErrInvalidValue, t.ScoreNeutralDefault, t.ScoreMin, t.ScoreMax)
	}
	return nil
}

func (v *Validator) validateAIPricing() error {
	p := v.cfg.AIPricing
	if p == nil {
		return fmt.Errorf("ai_pricing is nil")
	}
	if p.Model == "" {
		return fmt.Errorf("%w: model", ErrMissingRequiredField)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidValue)
	}
	if p.RateInPerM < 0 || p.RateOutPerM < 0 {
		return fmt.Errorf("%w: token rates must be non-negative", ErrInvalidValue)
	}
	return nil
}

func (v *Validator) validateSweeper() error {
	s := v.cfg.Sweeper
	if s == nil {
		return fmt.Errorf("sweeper is nil")
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidValue)
	}
	if s.PollIntervalJitter < 0 {
		return fmt.Errorf("%w: poll_interval_jitter must be non-negative", ErrInvalidValue)
	}
	if s.PollIntervalJitter >= s.PollInterval {
		return fmt.Errorf("%w: poll_interval_jitter must be less than poll_interval", ErrInvalidValue)
	}
	return nil
}

func (v *Validator) validateRetention() error {
	r := v.cfg.Retention
	if r == nil {
		return fmt.Errorf("retention is nil")
	}
	if r.AuditRetentionDays < 1 {
		return fmt.Errorf("%w: audit_retention_days must be at least 1", ErrInvalidValue)
	}
	if r.CostRetentionDays < 1 {
		return fmt.Errorf("%w: cost_retention_days must be at least 1", ErrInvalidValue)
	}
	return nil
}
