package ai

import (
	"fmt"
	"strings"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
)

// tenantSections lists the optional per-tenant prompt fragments in the
// fixed order they appear in the assembled system prompt when present
// (§4.5 prompt assembly item v). Keys match models.Tenant.PromptFragments.
var tenantSections = []struct {
	key     string
	heading string
}{
	{"tenant_context", "Business Context"},
	{"offer", "Offer"},
	{"script", "Call Script"},
	{"discovery_scoring", "Discovery Scoring Guidance"},
	{"pitch_scoring", "Pitch Scoring Guidance"},
	{"close_scoring", "Close Attempt Scoring Guidance"},
	{"objection_scoring", "Objection Handling Scoring Guidance"},
	{"disqualification", "Disqualification Criteria"},
	{"common_objections", "Commonly Seen Objections"},
	{"additional_context", "Additional Context"},
}

// BuildSystemPrompt assembles the system prompt dynamically from the
// closed taxonomies and the tenant's configured sections (§4.5). Nothing
// about the taxonomy, scoring rubric, or tenant content is hard-coded
// here; every section is rendered from tax or tenant and omitted when the
// tenant left it empty.
func BuildSystemPrompt(tax *config.Taxonomy, tenant *models.Tenant) string {
	var b strings.Builder

	b.WriteString("You are a sales call analyst. Analyze the following closed sales call transcript ")
	b.WriteString("and produce a structured evaluation as strict JSON.\n\n")

	b.WriteString("## Call Outcomes\n")
	for _, o := range tax.Outcomes {
		fmt.Fprintf(&b, "- %s: %s\n", o.Value, o.Description)
	}

	b.WriteString("\n## Objection Types\n")
	for _, o := range tax.Objections {
		fmt.Fprintf(&b, "- %s: %s\n", o.Value, o.Description)
	}

	b.WriteString("\n## Scoring Rubric\n")
	for _, d := range tax.Dimensions {
		fmt.Fprintf(&b, "### %s\n", d.Name)
		for _, l := range d.Levels {
			if l.Min == l.Max {
				fmt.Fprintf(&b, "- %d: %s\n", l.Min, l.Label)
			} else {
				fmt.Fprintf(&b, "- %d-%d: %s\n", l.Min, l.Max, l.Label)
			}
		}
	}

	if tenant != nil {
		for _, s := range tenantSections {
			if v := strings.TrimSpace(tenant.PromptFragments[s.key]); v != "" {
				fmt.Fprintf(&b, "\n## %s\n%s\n", s.heading, v)
			}
		}
	}

	b.WriteString("\n## Output Schema\n")
	b.WriteString("Respond with a single JSON object and nothing else, matching exactly:\n")
	b.WriteString("{\n")
	b.WriteString("  \"call_outcome\": <one of the Call Outcomes values above>,\n")
	for _, d := range tax.Dimensions {
		fmt.Fprintf(&b, "  \"score_%s\": <integer 1-10>,\n", d.Key)
	}
	b.WriteString("  \"prospect_temperature\": <string, one of \"hot\", \"warm\", \"cold\">,\n")
	b.WriteString("  \"ai_goals\": <string>,\n")
	b.WriteString("  \"ai_pains\": <string>,\n")
	b.WriteString("  \"ai_situation\": <string>,\n")
	b.WriteString("  \"ai_summary\": <string>,\n")
	b.WriteString("  \"ai_feedback\": <string>,\n")
	b.WriteString("  \"objections\": [\n")
	b.WriteString("    {\"type\": <one of the Objection Types values above>, \"prospect_phrase\": <string>, \"offset_seconds\": <integer>, \"resolved\": <boolean>, \"resolver_text\": <string, omit if unresolved>, \"resolver_offset_seconds\": <integer, omit if unresolved>}\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n")

	return b.String()
}

// BuildUserMessage assembles the user message: call metadata (type,
// closer name, duration) followed by the flattened transcript text
// (§4.5).
func BuildUserMessage(call *models.Call, closerName, transcriptText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Call type: %s\n", call.CallType)
	fmt.Fprintf(&b, "Closer: %s\n", closerName)
	fmt.Fprintf(&b, "Duration (minutes): %d\n", call.DurationMinutes)
	if call.ProspectName != "" {
		fmt.Fprintf(&b, "Prospect: %s\n", call.ProspectName)
	}
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcriptText)
	return b.String()
}
