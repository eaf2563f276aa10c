package config

import "github.com/closermetrix/engine/pkg/models"

// OutcomeDef describes one member of the closed call-outcome taxonomy
// (§6.1), used both to render AI instructions and to validate AI output.
type OutcomeDef struct {
	Value       string `yaml:"value"`
	Description string `yaml:"description"`
}

// ObjectionDef describes one member of the 13-entry objection taxonomy.
type ObjectionDef struct {
	Value       models.ObjectionType `yaml:"value"`
	Description string               `yaml:"description"`
}

// ScoreLevel describes one 1-10 band of a scoring dimension.
type ScoreLevel struct {
	Min         int    `yaml:"min"`
	Max         int    `yaml:"max"`
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
}

// ScoreDimension is one of the seven rubric dimensions (§6.1).
type ScoreDimension struct {
	Key    string       `yaml:"key"`
	Name   string       `yaml:"name"`
	Levels []ScoreLevel `yaml:"levels"`
}

// Taxonomy bundles the closed taxonomies the AI pipeline needs to build a
// prompt and validate a response. It is loaded from YAML and never
// hard-coded in the pipeline itself (§4.5).
type Taxonomy struct {
	Outcomes    []OutcomeDef     `yaml:"outcomes"`
	Objections  []ObjectionDef   `yaml:"objections"`
	Dimensions  []ScoreDimension `yaml:"dimensions"`
}

// OutcomeValues returns the flat list of valid outcome strings.
func (t *Taxonomy) OutcomeValues() []string {
	out := make([]string, len(t.Outcomes))
	for i, o := range t.Outcomes {
		out[i] = o.Value
	}
	return out
}

// ObjectionValues returns the flat list of valid objection type values.
func (t *Taxonomy) ObjectionValues() []models.ObjectionType {
	out := make([]models.ObjectionType, len(t.Objections))
	for i, o := range t.Objections {
		out[i] = o.Value
	}
	return out
}

// DefaultTaxonomy is the compiled-in taxonomy used when the deployment
// does not override it via YAML (GetBuiltinConfig equivalent from the
// teacher's config package).
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Outcomes: []OutcomeDef{
			{Value: string(models.AttendanceClosedWon), Description: "The prospect paid in full or signed up for the full program today."},
			{Value: string(models.AttendanceDeposit), Description: "The prospect paid a deposit or partial payment, with the balance expected later."},
			{Value: string(models.AttendanceFollowUp), Description: "The call happened but a decision was deferred to a future call."},
			{Value: string(models.AttendanceLost), Description: "The prospect explicitly declined to move forward."},
			{Value: string(models.AttendanceDisqualified), Description: "The prospect does not meet the offer's qualification criteria."},
			{Value: string(models.AttendanceNotPitched), Description: "The call happened but the closer never reached the pitch (discovery only, technical issue, etc.)."},
		},
		Objections: []ObjectionDef{
			{Value: models.ObjectionFinancial, Description: "The prospect cannot afford the offer as priced."},
			{Value: models.ObjectionSpousePartner, Description: "The prospect needs to consult a spouse or partner before deciding."},
			{Value: models.ObjectionThinkAboutIt, Description: "The prospect wants time to think it over without a concrete reason."},
			{Value: models.ObjectionTiming, Description: "The prospect says now is not the right time."},
			{Value: models.ObjectionTrustCred, Description: "The prospect doubts the closer, the company, or the offer's legitimacy."},
			{Value: models.ObjectionAlreadyTried, Description: "The prospect has tried something similar before and it didn't work."},
			{Value: models.ObjectionDIY, Description: "The prospect believes they can do it themselves without paying."},
			{Value: models.ObjectionNotReady, Description: "The prospect does not feel personally ready to commit."},
			{Value: models.ObjectionCompetitor, Description: "The prospect is considering or already working with a competitor."},
			{Value: models.ObjectionAuthority, Description: "The prospect needs approval from someone not on the call."},
			{Value: models.ObjectionValue, Description: "The prospect does not see enough value relative to the price."},
			{Value: models.ObjectionCommitment, Description: "The prospect is hesitant to commit to the required effort or duration."},
			{Value: models.ObjectionOther, Description: "An objection that does not fit any other category."},
		},
		Dimensions: []ScoreDimension{
			scoreDimension("discovery", "Discovery"),
			scoreDimension("pitch", "Pitch"),
			scoreDimension("close_attempt", "Close Attempt"),
			scoreDimension("objection_handling", "Objection Handling"),
			scoreDimension("overall", "Overall"),
			scoreDimension("script_adherence", "Script Adherence"),
			scoreDimension("prospect_fit", "Prospect Fit"),
		},
	}
}

func scoreDimension(key, name string) ScoreDimension {
	return ScoreDimension{
		Key:  key,
		Name: name,
		Levels: []ScoreLevel{
			{Min: 1, Max: 3, Label: "Poor"},
			{Min: 4, Max: 5, Label: "Below Average"},
			{Min: 6, Max: 7, Label: "Average"},
			{Min: 8, Max: 9, Label: "Good"},
			{Min: 10, Max: 10, Label: "Exceptional"},
		},
	}
}
