package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
)

func TestExtractProspect_ScenarioOne_TitleFallbackFillsAttendeeName(t *testing.T) {
	closer := &models.Closer{Name: "Sarah Jones", WorkEmail: "sarah@x.com"}
	tenant := &models.Tenant{FilterPhrases: []string{"strategy"}}
	event := &CanonicalCalendarEvent{
		Title:          "Strategy Call with John Smith",
		OrganizerEmail: "sarah@x.com",
		Attendees: []Attendee{
			{Email: "sarah@x.com", IsOrganizer: true},
			{Email: "john@ex.com"},
		},
	}

	got := ExtractProspect(event, closer, tenant, config.DefaultTitleParsing())

	assert.Equal(t, "john@ex.com", got.Email)
	assert.Equal(t, "John Smith", got.Name)
}

func TestExtractProspect_AmbiguousSingleWordEqualsCloserFirstName(t *testing.T) {
	closer := &models.Closer{Name: "Sarah Jones", WorkEmail: "sarah@x.com"}
	tenant := &models.Tenant{FilterPhrases: []string{"strategy"}}
	event := &CanonicalCalendarEvent{
		Title:          "Strategy Sarah Demo",
		OrganizerEmail: "sarah@x.com",
		Attendees: []Attendee{
			{Email: "sarah@x.com", IsOrganizer: true},
		},
	}

	got := ExtractProspect(event, closer, tenant, config.DefaultTitleParsing())

	// The only residual word after stripping is the closer's own first
	// name, not a prospect name: tier 2 must refuse it rather than
	// misreport the closer as the prospect (§4.3).
	assert.Equal(t, models.UnknownProspectEmail, got.Email)
	assert.Equal(t, "", got.Name)
}

func TestExtractProspect_NoAttendeeEmailOrTitleResidue_FallsThroughToUnknown(t *testing.T) {
	closer := &models.Closer{Name: "Sarah Jones", WorkEmail: "sarah@x.com"}
	tenant := &models.Tenant{FilterPhrases: []string{"internal", "hold", "do not book"}}
	event := &CanonicalCalendarEvent{
		Title:          "Internal: Hold - Do Not Book",
		OrganizerEmail: "sarah@x.com",
		Attendees: []Attendee{
			{Email: "sarah@x.com", IsOrganizer: true},
		},
	}

	got := ExtractProspect(event, closer, tenant, config.DefaultTitleParsing())

	assert.Equal(t, models.UnknownProspectEmail, got.Email)
	assert.Equal(t, "", got.Name)
}

func TestExtractProspect_BracketFallback_WhenTitleResidueIsntNameLike(t *testing.T) {
	closer := &models.Closer{Name: "Sarah Jones", WorkEmail: "sarah@x.com"}
	tenant := &models.Tenant{FilterPhrases: []string{"*"}}
	event := &CanonicalCalendarEvent{
		Title:          "Q2 Planning Sync [Jane Doe]",
		OrganizerEmail: "sarah@x.com",
		Attendees: []Attendee{
			{Email: "sarah@x.com", IsOrganizer: true},
		},
	}

	got := ExtractProspect(event, closer, tenant, config.DefaultTitleParsing())

	assert.Equal(t, models.UnknownProspectEmail, got.Email)
	assert.Equal(t, "Jane Doe", got.Name)
}
