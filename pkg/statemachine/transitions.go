// Package statemachine implements the call lifecycle transition table and
// validator described in spec §4.3. The table is data, not branches
// (Design Note "State as data, not code"): adding a state or trigger is a
// matter of appending to the table slice below.
package statemachine

import "github.com/closermetrix/engine/pkg/models"

// Trigger names the event that causes a transition.
type Trigger string

// The closed set of triggers recognized by the engine.
const (
	TriggerCalendarCancel        Trigger = "calendar_cancel"
	TriggerCalendarMoved         Trigger = "calendar_moved"
	TriggerTranscriptValid       Trigger = "transcript_valid"
	TriggerTranscriptEmpty       Trigger = "transcript_empty"
	TriggerTranscriptTimeout     Trigger = "transcript_timeout"
	TriggerAppointmentTimePassed Trigger = "appointment_time_passed"
	TriggerSystemFailure         Trigger = "system_failure"
	TriggerDoubleBooked          Trigger = "double_booked"
	TriggerAIOutcome             Trigger = "ai_outcome"
	TriggerPaymentReceived       Trigger = "payment_received"
	TriggerPaymentReceivedFull   Trigger = "payment_received_full"
	TriggerNewCallScheduled      Trigger = "new_call_scheduled"
	TriggerReprocess             Trigger = "reprocess"
)

// Transition is a single (from, to, trigger) triple permitted by §4.3.
type Transition struct {
	From    models.Attendance
	To      models.Attendance
	Trigger Trigger
}

// table is the full transition table from spec §4.3, flattened from its
// "From | Allowed transitions" rows into individual triples.
var table = []Transition{
	// unset, Scheduled -> ...
	{models.AttendanceUnset, models.AttendanceCanceled, TriggerCalendarCancel},
	{models.AttendanceScheduled, models.AttendanceCanceled, TriggerCalendarCancel},
	{models.AttendanceUnset, models.AttendanceRescheduled, TriggerCalendarMoved},
	{models.AttendanceScheduled, models.AttendanceRescheduled, TriggerCalendarMoved},
	{models.AttendanceUnset, models.AttendanceShow, TriggerTranscriptValid},
	{models.AttendanceScheduled, models.AttendanceShow, TriggerTranscriptValid},
	{models.AttendanceUnset, models.AttendanceGhosted, TriggerTranscriptEmpty},
	{models.AttendanceScheduled, models.AttendanceGhosted, TriggerTranscriptEmpty},
	{models.AttendanceScheduled, models.AttendanceGhosted, TriggerTranscriptTimeout}, // Scheduled only
	{models.AttendanceUnset, models.AttendanceWaiting, TriggerAppointmentTimePassed},
	{models.AttendanceScheduled, models.AttendanceWaiting, TriggerAppointmentTimePassed},
	{models.AttendanceUnset, models.AttendanceNoRecording, TriggerSystemFailure},
	{models.AttendanceScheduled, models.AttendanceNoRecording, TriggerSystemFailure},
	{models.AttendanceUnset, models.AttendanceOverbooked, TriggerDoubleBooked},
	{models.AttendanceScheduled, models.AttendanceOverbooked, TriggerDoubleBooked},

	// Waiting for Outcome -> ...
	{models.AttendanceWaiting, models.AttendanceCanceled, TriggerCalendarCancel},
	{models.AttendanceWaiting, models.AttendanceShow, TriggerTranscriptValid},
	{models.AttendanceWaiting, models.AttendanceGhosted, TriggerTranscriptTimeout},
	{models.AttendanceWaiting, models.AttendanceGhosted, TriggerTranscriptEmpty},
	{models.AttendanceWaiting, models.AttendanceNoRecording, TriggerSystemFailure},
	{models.AttendanceWaiting, models.AttendanceOverbooked, TriggerDoubleBooked},

	// No Recording -> ...
	{models.AttendanceNoRecording, models.AttendanceShow, TriggerTranscriptValid},
	{models.AttendanceNoRecording, models.AttendanceGhosted, TriggerTranscriptEmpty},

	// Ghosted - No Show -> ...
	{models.AttendanceGhosted, models.AttendanceShow, TriggerReprocess},
	{models.AttendanceGhosted, models.AttendanceOverbooked, TriggerDoubleBooked},

	// Show -> ai_outcome outcomes
	{models.AttendanceShow, models.AttendanceClosedWon, TriggerAIOutcome},
	{models.AttendanceShow, models.AttendanceDeposit, TriggerAIOutcome},
	{models.AttendanceShow, models.AttendanceFollowUp, TriggerAIOutcome},
	{models.AttendanceShow, models.AttendanceLost, TriggerAIOutcome},
	{models.AttendanceShow, models.AttendanceDisqualified, TriggerAIOutcome},
	{models.AttendanceShow, models.AttendanceNotPitched, TriggerAIOutcome},

	// Follow Up, Not Pitched -> Closed-Won (payment); cross via new_call_scheduled
	{models.AttendanceFollowUp, models.AttendanceClosedWon, TriggerPaymentReceived},
	{models.AttendanceNotPitched, models.AttendanceClosedWon, TriggerPaymentReceived},
	{models.AttendanceFollowUp, models.AttendanceNotPitched, TriggerNewCallScheduled},
	{models.AttendanceNotPitched, models.AttendanceFollowUp, TriggerNewCallScheduled},

	// Lost -> ...
	{models.AttendanceLost, models.AttendanceClosedWon, TriggerPaymentReceived},
	{models.AttendanceLost, models.AttendanceFollowUp, TriggerNewCallScheduled},

	// Deposit -> Closed-Won (payment_full)
	{models.AttendanceDeposit, models.AttendanceClosedWon, TriggerPaymentReceivedFull},

	// Rescheduled -> Canceled
	{models.AttendanceRescheduled, models.AttendanceCanceled, TriggerCalendarCancel},

	// Overbooked -> Show, Canceled
	{models.AttendanceOverbooked, models.AttendanceShow, TriggerReprocess},
	{models.AttendanceOverbooked, models.AttendanceCanceled, TriggerCalendarCancel},

	// Canceled, Closed-Won: terminal (no rows).
}

type tripleKey struct {
	from    models.Attendance
	to      models.Attendance
	trigger Trigger
}

var validTriples = func() map[tripleKey]bool {
	m := make(map[tripleKey]bool, len(table))
	for _, t := range table {
		m[tripleKey{t.From, t.To, t.Trigger}] = true
	}
	return m
}()

// IsValid reports whether (from, to, trigger) is a permitted transition.
func IsValid(from, to models.Attendance, trigger Trigger) bool {
	return validTriples[tripleKey{from, to, trigger}]
}

// IsTerminal reports whether a state accepts no further transitions.
func IsTerminal(a models.Attendance) bool {
	return a == models.AttendanceCanceled || a == models.AttendanceClosedWon
}
