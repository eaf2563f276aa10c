package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
)

// rawObjection mirrors the objection shape named in the output schema of
// §4.5's prompt assembly.
type rawObjection struct {
	Type                  string `json:"type"`
	ProspectPhrase        string `json:"prospect_phrase"`
	OffsetSeconds         int    `json:"offset_seconds"`
	Resolved              bool   `json:"resolved"`
	ResolverText          string `json:"resolver_text"`
	ResolverOffsetSeconds int    `json:"resolver_offset_seconds"`
}

// rawResponse is the unvalidated shape the model's JSON unmarshals into.
type rawResponse struct {
	CallOutcome            string         `json:"call_outcome"`
	ScoreDiscovery         *int           `json:"score_discovery"`
	ScorePitch             *int           `json:"score_pitch"`
	ScoreCloseAttempt      *int           `json:"score_close_attempt"`
	ScoreObjectionHandling *int           `json:"score_objection_handling"`
	ScoreOverall           *int           `json:"score_overall"`
	ScoreScriptAdherence   *int           `json:"score_script_adherence"`
	ScoreProspectFit       *int           `json:"score_prospect_fit"`
	ProspectTemperature    string         `json:"prospect_temperature"`
	AIGoals                string         `json:"ai_goals"`
	AIPains                string         `json:"ai_pains"`
	AISituation            string         `json:"ai_situation"`
	AISummary              string         `json:"ai_summary"`
	AIFeedback             string         `json:"ai_feedback"`
	Objections             []rawObjection `json:"objections"`
}

// ValidatedObjection is one taxonomy-matched, call-bound objection ready
// to persist.
type ValidatedObjection struct {
	Type                  models.ObjectionType
	ProspectPhrase        string
	OffsetSeconds         int
	Resolved              bool
	ResolverText          string
	ResolverOffsetSeconds int
}

// ValidatedResponse is the fully validated, clamp-adjusted AI output
// ready to apply to a Call (§4.5 Response validation / Persistence).
type ValidatedResponse struct {
	CallOutcome            models.Attendance
	ScoreDiscovery         int
	ScorePitch             int
	ScoreCloseAttempt      int
	ScoreObjectionHandling int
	ScoreOverall           int
	ScoreScriptAdherence   int
	ScoreProspectFit       int
	ProspectTemperature    string
	AIGoals                string
	AIPains                string
	AISituation            string
	AISummary              string
	AIFeedback             string
	Objections             []ValidatedObjection
}

// stripCodeFence removes a ```json ... ``` or ``` ... ``` wrapper if the
// model disregarded the "JSON only" instruction and wrapped its answer
// in a markdown fence (§4.5 Response validation).
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		first := strings.TrimSpace(s[:nl])
		if first == "" || strings.EqualFold(first, "json") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseResponse validates a raw model completion against tax and clamps
// scores to thresholds' configured range. A completely unparseable
// payload returns apperrors.ErrTaxonomyViolation wrapping the JSON error,
// signaling the caller to mark the call's processing state error while
// leaving attendance at Show (§4.5: "Completely unparseable → the call's
// processing state becomes error; the call's attendance remains Show;
// no objections are written.").
func ParseResponse(raw string, tax *config.Taxonomy, thresholds *config.Thresholds) (*ValidatedResponse, error) {
	cleaned := stripCodeFence(raw)

	var rr rawResponse
	if err := json.Unmarshal([]byte(cleaned), &rr); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTaxonomyViolation, err)
	}

	outcome, err := matchOutcome(rr.CallOutcome, tax)
	if err != nil {
		return nil, err
	}

	vr := &ValidatedResponse{
		CallOutcome:            outcome,
		ScoreDiscovery:         clampScore(rr.ScoreDiscovery, thresholds),
		ScorePitch:             clampScore(rr.ScorePitch, thresholds),
		ScoreCloseAttempt:      clampScore(rr.ScoreCloseAttempt, thresholds),
		ScoreObjectionHandling: clampScore(rr.ScoreObjectionHandling, thresholds),
		ScoreOverall:           clampScore(rr.ScoreOverall, thresholds),
		ScoreScriptAdherence:   clampScore(rr.ScoreScriptAdherence, thresholds),
		ScoreProspectFit:       clampScore(rr.ScoreProspectFit, thresholds),
		ProspectTemperature:    rr.ProspectTemperature,
		AIGoals:                rr.AIGoals,
		AIPains:                rr.AIPains,
		AISituation:            rr.AISituation,
		AISummary:              rr.AISummary,
		AIFeedback:             rr.AIFeedback,
	}

	for _, o := range rr.Objections {
		objType := matchObjection(o.Type, tax)
		vr.Objections = append(vr.Objections, ValidatedObjection{
			Type:                  objType,
			ProspectPhrase:        o.ProspectPhrase,
			OffsetSeconds:         o.OffsetSeconds,
			Resolved:              o.Resolved,
			ResolverText:          o.ResolverText,
			ResolverOffsetSeconds: o.ResolverOffsetSeconds,
		})
	}

	return vr, nil
}

// matchOutcome validates call_outcome against the outcome taxonomy,
// case-insensitively. An outcome that cannot be mapped at all fails the
// whole response (§7 Taxonomy violation: "if the outcome cannot be
// mapped at all, processing state = error").
func matchOutcome(value string, tax *config.Taxonomy) (models.Attendance, error) {
	trimmed := strings.TrimSpace(value)
	for _, o := range tax.Outcomes {
		if strings.EqualFold(o.Value, trimmed) {
			return models.Attendance(o.Value), nil
		}
	}
	return "", fmt.Errorf("%w: call_outcome %q not in closed taxonomy", apperrors.ErrTaxonomyViolation, value)
}

// matchObjection performs the fuzzy-but-not-lossy label-or-key match of
// §4.5: case-insensitive exact match first, then a loose substring match
// against either the canonical value or a slugified key form (e.g.
// "think about it" / "think_about_it" both match "Think About It").
// No match at all falls back to Other rather than dropping the row,
// since the taxonomy-violation policy for objections is "fuzzy match,
// fallback to Other" rather than the outcome's hard failure (§7).
func matchObjection(value string, tax *config.Taxonomy) models.ObjectionType {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return models.ObjectionOther
	}

	for _, o := range tax.Objections {
		if strings.EqualFold(string(o.Value), trimmed) {
			return o.Value
		}
	}

	normalized := normalizeLabel(trimmed)
	for _, o := range tax.Objections {
		if normalizeLabel(string(o.Value)) == normalized {
			return o.Value
		}
	}

	for _, o := range tax.Objections {
		canon := normalizeLabel(string(o.Value))
		if canon != "" && (strings.Contains(normalized, canon) || strings.Contains(canon, normalized)) {
			return o.Value
		}
	}

	return models.ObjectionOther
}

func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "/", " ")
	return strings.Join(strings.Fields(s), " ")
}

// clampScore defaults a missing score to thresholds.ScoreNeutralDefault
// and clamps any present value to [ScoreMin, ScoreMax] (§4.5, §6.1).
func clampScore(v *int, thresholds *config.Thresholds) int {
	if v == nil {
		return thresholds.ScoreNeutralDefault
	}
	score := *v
	if score < thresholds.ScoreMin {
		return thresholds.ScoreMin
	}
	if score > thresholds.ScoreMax {
		return thresholds.ScoreMax
	}
	return score
}
