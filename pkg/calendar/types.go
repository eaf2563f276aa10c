// Package calendar implements the calendar adapter/orchestrator pipeline
// that turns provider push notifications into state-machine transitions
// on Call records (§4.2, §4.3).
package calendar

import "time"

// EventType classifies a calendar event notification.
type EventType string

const (
	EventConfirmed EventType = "confirmed"
	EventCancelled EventType = "cancelled"
	EventUpdated   EventType = "updated"
)

// Attendee is a single calendar event participant.
type Attendee struct {
	Email          string
	Name           string
	IsOrganizer    bool
	ResponseStatus string // e.g. "accepted", "declined", "tentative", "needsAction"
}

// Declined reports whether this attendee declined the event.
func (a Attendee) Declined() bool { return a.ResponseStatus == "declined" }

// CanonicalCalendarEvent is the provider-agnostic shape every
// calendar.Adapter normalizes raw provider payloads into (§4.2).
type CanonicalCalendarEvent struct {
	EventID          string
	EventType        EventType
	Title            string
	Start            time.Time
	End              time.Time
	OriginalTimezone string
	OrganizerEmail   string
	Attendees        []Attendee
	Status           string // raw provider status string, e.g. "confirmed", "cancelled"

	// DeclinedAttendees is derived from Attendees at normalization time.
	DeclinedAttendees []Attendee
}

// IsCancelled reports whether the event should be treated as cancelled
// regardless of title (§4.2b: "providers often strip titles from
// cancelled events").
func (e *CanonicalCalendarEvent) IsCancelled() bool {
	return e.EventType == EventCancelled || e.Status == "cancelled"
}

// AnyAttendeeDeclined reports whether at least one attendee declined.
func (e *CanonicalCalendarEvent) AnyAttendeeDeclined() bool {
	return len(e.DeclinedAttendees) > 0
}

// deriveDeclined populates DeclinedAttendees from Attendees. Adapters
// call this after filling in Attendees.
func (e *CanonicalCalendarEvent) deriveDeclined() {
	for _, a := range e.Attendees {
		if a.Declined() {
			e.DeclinedAttendees = append(e.DeclinedAttendees, a)
		}
	}
}
