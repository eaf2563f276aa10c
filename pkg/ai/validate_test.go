package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
)

func TestParseResponse_ValidPayload(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	raw := `{
		"call_outcome": "Closed - Won",
		"score_discovery": 8,
		"score_pitch": 7,
		"score_close_attempt": 9,
		"score_objection_handling": 6,
		"score_overall": 8,
		"score_script_adherence": 7,
		"score_prospect_fit": 9,
		"prospect_temperature": "hot",
		"ai_summary": "Closed on the call.",
		"objections": [
			{"type": "financial", "prospect_phrase": "too expensive", "offset_seconds": 120, "resolved": true}
		]
	}`

	v, err := ParseResponse(raw, tax, thresholds)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceClosedWon, v.CallOutcome)
	assert.Equal(t, 8, v.ScoreDiscovery)
	assert.Equal(t, "hot", v.ProspectTemperature)
	require.Len(t, v.Objections, 1)
	assert.Equal(t, models.ObjectionFinancial, v.Objections[0].Type)
}

func TestParseResponse_StripsCodeFence(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	raw := "```json\n{\"call_outcome\": \"Lost\"}\n```"

	v, err := ParseResponse(raw, tax, thresholds)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLost, v.CallOutcome)
}

func TestParseResponse_UnparseableJSON(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	_, err := ParseResponse("not json at all", tax, thresholds)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTaxonomyViolation)
}

func TestParseResponse_UnknownOutcomeFails(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	_, err := ParseResponse(`{"call_outcome": "Maybe Later"}`, tax, thresholds)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTaxonomyViolation)
}

func TestParseResponse_MissingScoresDefaultToNeutral(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	v, err := ParseResponse(`{"call_outcome": "Follow Up"}`, tax, thresholds)
	require.NoError(t, err)
	assert.Equal(t, thresholds.ScoreNeutralDefault, v.ScoreDiscovery)
	assert.Equal(t, thresholds.ScoreNeutralDefault, v.ScoreOverall)
}

func TestParseResponse_ClampsOutOfRangeScores(t *testing.T) {
	tax := config.DefaultTaxonomy()
	thresholds := config.DefaultThresholds()

	v, err := ParseResponse(`{"call_outcome": "Lost", "score_discovery": 99, "score_pitch": -5}`, tax, thresholds)
	require.NoError(t, err)
	assert.Equal(t, thresholds.ScoreMax, v.ScoreDiscovery)
	assert.Equal(t, thresholds.ScoreMin, v.ScorePitch)
}

func TestMatchObjection_FuzzyFallsBackToOther(t *testing.T) {
	tax := config.DefaultTaxonomy()

	assert.Equal(t, models.ObjectionThinkAboutIt, matchObjection("think_about_it", tax))
	assert.Equal(t, models.ObjectionSpousePartner, matchObjection("Spouse/Partner", tax))
	assert.Equal(t, models.ObjectionOther, matchObjection("something totally unrecognized", tax))
	assert.Equal(t, models.ObjectionOther, matchObjection("", tax))
}
