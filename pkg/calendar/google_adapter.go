package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// GoogleAdapter implements Adapter for Google Calendar v3 event
// resources. Normalize is complete; ListChangedEvents, CreateWatch and
// StopWatch are not connected to the Google REST API and always return
// an error. It is the Tier-1 calendar provider; other providers register
// their own Adapter the same way.
type GoogleAdapter struct {
	httpClient *http.Client
	baseURL    string // overridable in tests
}

// NewGoogleAdapter builds a GoogleAdapter. httpClient is expected to
// already carry OAuth credentials (e.g. via golang.org/x/oauth2), which
// is out of scope here — the adapter only shapes requests/responses.
func NewGoogleAdapter(httpClient *http.Client) *GoogleAdapter {
	return &GoogleAdapter{
		httpClient: httpClient,
		baseURL:    "https://www.googleapis.com/calendar/v3",
	}
}

func (a *GoogleAdapter) ProviderKey() string { return "google" }

// Normalize converts one raw Google Calendar event resource into
// canonical form (§4.2).
func (a *GoogleAdapter) Normalize(raw map[string]any) (*CanonicalCalendarEvent, error) {
	event := &CanonicalCalendarEvent{
		EventID: stringField(raw, "id"),
		Title:   stringField(raw, "summary"),
		Status:  stringField(raw, "status"),
	}

	switch event.Status {
	case "cancelled":
		event.EventType = EventCancelled
	case "confirmed":
		if updated, ok := raw["updated"]; ok && updated != "" {
			event.EventType = EventUpdated
		} else {
			event.EventType = EventConfirmed
		}
	default:
		event.EventType = EventConfirmed
	}

	start, tz, err := parseGoogleDateTime(raw, "start")
	if err != nil {
		return nil, fmt.Errorf("calendar: parse start: %w", err)
	}
	end, _, err := parseGoogleDateTime(raw, "end")
	if err != nil {
		return nil, fmt.Errorf("calendar: parse end: %w", err)
	}
	event.Start = start
	event.End = end
	event.OriginalTimezone = tz

	if organizer, ok := raw["organizer"].(map[string]any); ok {
		event.OrganizerEmail = stringField(organizer, "email")
	}

	if rawAttendees, ok := raw["attendees"].([]any); ok {
		for _, ra := range rawAttendees {
			am, ok := ra.(map[string]any)
			if !ok {
				continue
			}
			event.Attendees = append(event.Attendees, Attendee{
				Email:          stringField(am, "email"),
				Name:           stringField(am, "displayName"),
				IsOrganizer:    boolField(am, "organizer"),
				ResponseStatus: stringField(am, "responseStatus"),
			})
		}
	}
	event.deriveDeclined()

	return event, nil
}

// ListChangedEvents has no HTTP transport wired in: it always returns an
// error and lists no events.
func (a *GoogleAdapter) ListChangedEvents(ctx context.Context, calendarID string, since time.Time) ([]map[string]any, error) {
	return nil, fmt.Errorf("calendar: google ListChangedEvents not wired to a live transport in this environment")
}

// CreateWatch has no HTTP transport wired in: it always returns an error
// and registers no channel.
func (a *GoogleAdapter) CreateWatch(ctx context.Context, calendarID string) (string, string, time.Time, error) {
	return "", "", time.Time{}, fmt.Errorf("calendar: google CreateWatch not wired to a live transport in this environment")
}

// StopWatch has no HTTP transport wired in: it always returns an error
// and stops no channel.
func (a *GoogleAdapter) StopWatch(ctx context.Context, channelID, resourceID string) error {
	return fmt.Errorf("calendar: google StopWatch not wired to a live transport in this environment")
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// parseGoogleDateTime reads Google's {dateTime, timeZone} or {date}
// sub-object for the given field ("start" or "end").
func parseGoogleDateTime(raw map[string]any, field string) (time.Time, string, error) {
	sub, ok := raw[field].(map[string]any)
	if !ok {
		return time.Time{}, "", fmt.Errorf("missing %s", field)
	}
	if dt := stringField(sub, "dateTime"); dt != "" {
		t, err := time.Parse(time.RFC3339, dt)
		if err != nil {
			return time.Time{}, "", err
		}
		return t, stringField(sub, "timeZone"), nil
	}
	if d := stringField(sub, "date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return time.Time{}, "", err
		}
		return t, "UTC", nil
	}
	return time.Time{}, "", fmt.Errorf("%s has neither dateTime nor date", field)
}
