package config

// TitleParsing bundles the data tables the calendar orchestrator's
// prospect-extraction fallback (§4.3 step 2) uses to strip a calendar
// event title down to a residual prospect name. Kept as configuration,
// not inline string literals in pkg/calendar, per Design Note "State as
// data, not code" applied to parsing as well as transitions.
type TitleParsing struct {
	// ProviderPrefixes are stripped from the start of a title, case-insensitive.
	ProviderPrefixes []string `yaml:"provider_prefixes"`

	// FillerWords are removed as whole words anywhere in the residual
	// title. "&" is intentionally never included — it connects couple
	// names ("John & Jane").
	FillerWords []string `yaml:"filler_words"`

	// CompoundStripPrefixes are phrases like "w/" / "with" stripped when
	// followed by exactly the closer's first name and not a further
	// letter-word (negative lookahead for a surname).
	CompoundStripPrefixes []string `yaml:"compound_strip_prefixes"`
}

// DefaultTitleParsing returns the compiled-in parsing tables.
func DefaultTitleParsing() *TitleParsing {
	return &TitleParsing{
		ProviderPrefixes: []string{
			"RE:", "FWD:", "FW:", "CANCELED:", "CANCELLED:", "CONFIRMED:", "UPDATED:", "DECLINED:",
		},
		FillerWords: []string{
			"call", "meeting", "session", "chat", "with", "and", "vs", "for", "w/",
			"booked", "scheduled", "follow-up", "followup", "rescheduled", "consult",
			"demo", "intro", "at", "assigned", "to",
		},
		CompoundStripPrefixes: []string{"w/", "with"},
	}
}

// DefaultFilterPhrases are case-insensitive substrings naming
// internal/administrative calendar events. They populate
// Config.FilterPhrases, which nothing in the calendar pipeline reads:
// calendar filtering at §4.2 step 4 uses each tenant's own
// Tenant.FilterPhrases.
func DefaultFilterPhrases() []string {
	return []string{
		"internal", "team meeting", "standup", "1:1", "one on one", "do not book",
		"blocked", "hold", "out of office", "ooo", "interview", "training",
	}
}

// AlertMaskingDefaults holds alert payload masking settings. Nothing reads
// it: pkg/alerting hands alert messages to Slack without masking.
type AlertMaskingDefaults struct {
	Enabled      bool   `yaml:"enabled"`
	PatternGroup string `yaml:"pattern_group"`
}
