package models

import "time"

// Attendance is the state-machine value stored on a Call.
type Attendance string

// The full attendance enumeration, §4.3 and §6.1.
const (
	AttendanceUnset       Attendance = ""
	AttendanceScheduled   Attendance = "Scheduled"
	AttendanceWaiting     Attendance = "Waiting for Outcome"
	AttendanceShow        Attendance = "Show"
	AttendanceGhosted     Attendance = "Ghosted - No Show"
	AttendanceNoRecording Attendance = "No Recording"
	AttendanceCanceled    Attendance = "Canceled"
	AttendanceRescheduled Attendance = "Rescheduled"
	AttendanceOverbooked  Attendance = "Overbooked"
	AttendanceClosedWon   Attendance = "Closed - Won"
	AttendanceDeposit     Attendance = "Deposit"
	AttendanceFollowUp    Attendance = "Follow Up"
	AttendanceLost        Attendance = "Lost"
	AttendanceDisqualified Attendance = "Disqualified"
	AttendanceNotPitched  Attendance = "Not Pitched"
)

// terminalConversational is the set of attendance values that carry a
// non-null call outcome (§3 invariant (b), GLOSSARY).
var terminalConversational = map[Attendance]bool{
	AttendanceShow:         true,
	AttendanceClosedWon:    true,
	AttendanceDeposit:      true,
	AttendanceFollowUp:     true,
	AttendanceLost:         true,
	AttendanceDisqualified: true,
	AttendanceNotPitched:   true,
}

// IsTerminalConversational reports whether a is a terminal-conversational
// state, i.e. a state that carries a call outcome.
func IsTerminalConversational(a Attendance) bool { return terminalConversational[a] }

// preOutcome is the set of states a calendar update may mutate in place.
var preOutcome = map[Attendance]bool{
	AttendanceUnset:     true,
	AttendanceScheduled: true,
	AttendanceWaiting:   true,
}

// IsPreOutcome reports whether a is a pre-outcome state (§4.3 dispatch
// rules, GLOSSARY).
func IsPreOutcome(a Attendance) bool { return preOutcome[a] }

// priorCallAttendance is the set of attendance values that count as "a
// prior call happened" for call-type determination (§4.3).
var priorCallAttendance = map[Attendance]bool{
	AttendanceShow:         true,
	AttendanceFollowUp:     true,
	AttendanceLost:         true,
	AttendanceClosedWon:    true,
	AttendanceDeposit:      true,
	AttendanceDisqualified: true,
	AttendanceNotPitched:   true,
}

// CountsAsPriorCall reports whether a counts toward call-type
// determination and payment call matching (§4.3, §4.7).
func CountsAsPriorCall(a Attendance) bool { return priorCallAttendance[a] }

// CallType classifies a Call at creation time.
type CallType string

// Call types, §6.1.
const (
	CallTypeFirstCall              CallType = "First Call"
	CallTypeFollowUp               CallType = "Follow Up"
	CallTypeRescheduledFirstCall   CallType = "Rescheduled First Call"
	CallTypeRescheduledFollowUp    CallType = "Rescheduled Follow Up"
)

// ProcessingState tracks the AI pipeline's progress on a Call.
type ProcessingState string

// Processing states.
const (
	ProcessingPending    ProcessingState = "pending"
	ProcessingQueued     ProcessingState = "queued"
	ProcessingProcessing ProcessingState = "processing"
	ProcessingComplete   ProcessingState = "complete"
	ProcessingError      ProcessingState = "error"
)

// IngestionSource records which pipeline first created the Call.
type IngestionSource string

// Ingestion sources.
const (
	SourceCalendar   IngestionSource = "calendar"
	SourceTranscript IngestionSource = "transcript"
)

// UnknownProspectEmail is the sentinel prospect email used until the
// prospect's real email is known (§3).
const UnknownProspectEmail = "unknown"

// Call is the central entity: a scheduled or held meeting.
type Call struct {
	ID              string `db:"id" json:"id"`
	TenantID        string `db:"tenant_id" json:"tenant_id"`
	CloserID        string `db:"closer_id" json:"closer_id"`
	ExternalEventID string `db:"external_event_id" json:"external_event_id"`

	ProspectEmail string `db:"prospect_email" json:"prospect_email"`
	ProspectName  string `db:"prospect_name" json:"prospect_name"`

	ScheduledStart time.Time `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time `db:"scheduled_end" json:"scheduled_end"`
	Timezone       string    `db:"timezone" json:"timezone"`

	Attendance  Attendance `db:"attendance" json:"attendance"`
	CallOutcome string     `db:"call_outcome" json:"call_outcome"`
	CallType    CallType   `db:"call_type" json:"call_type"`

	TranscriptProvider string `db:"transcript_provider" json:"transcript_provider"`
	RecordingLink      string `db:"recording_link" json:"recording_link"`
	TranscriptLink     string `db:"transcript_link" json:"transcript_link"`
	CallLink           string `db:"call_link" json:"call_link"`
	DurationMinutes    int    `db:"duration_minutes" json:"duration_minutes"`

	ScoreDiscovery         int `db:"score_discovery" json:"score_discovery"`
	ScorePitch             int `db:"score_pitch" json:"score_pitch"`
	ScoreCloseAttempt      int `db:"score_close_attempt" json:"score_close_attempt"`
	ScoreObjectionHandling int `db:"score_objection_handling" json:"score_objection_handling"`
	ScoreOverall           int `db:"score_overall" json:"score_overall"`
	ScoreScriptAdherence   int `db:"score_script_adherence" json:"score_script_adherence"`
	ScoreProspectFit       int `db:"score_prospect_fit" json:"score_prospect_fit"`

	ProspectTemperature string `db:"prospect_temperature" json:"prospect_temperature"`
	AIGoals             string `db:"ai_goals" json:"ai_goals"`
	AIPains             string `db:"ai_pains" json:"ai_pains"`
	AISituation         string `db:"ai_situation" json:"ai_situation"`
	AISummary           string `db:"ai_summary" json:"ai_summary"`
	AIFeedback          string `db:"ai_feedback" json:"ai_feedback"`

	RevenueGenerated float64 `db:"revenue_generated" json:"revenue_generated"`
	CashCollected    float64 `db:"cash_collected" json:"cash_collected"`
	DateClosed       *time.Time `db:"date_closed" json:"date_closed,omitempty"`
	PaymentPlan      string  `db:"payment_plan" json:"payment_plan"`
	Product          string  `db:"product" json:"product,omitempty"`
	LostReason       string  `db:"lost_reason" json:"lost_reason,omitempty"`

	ProcessingState ProcessingState `db:"processing_state" json:"processing_state"`
	IngestionSource IngestionSource `db:"ingestion_source" json:"ingestion_source"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasTranscript reports whether the call already has a non-empty
// transcript link, used by invariant (d) in §3.
func (c *Call) HasTranscript() bool { return c.TranscriptLink != "" }

// End returns the effective end time used for overlap/timeout
// computations, falling back to start when end is zero.
func (c *Call) End() time.Time {
	if c.ScheduledEnd.IsZero() {
		return c.ScheduledStart
	}
	return c.ScheduledEnd
}

// Overlaps reports whether the [start,end) windows of two calls overlap,
// inclusive of the start boundary and exclusive of the end boundary
// (§8 boundary behaviors): a call ending at T and another starting at T
// do not overlap.
func (c *Call) Overlaps(other *Call) bool {
	return c.ScheduledStart.Before(other.End()) && other.ScheduledStart.Before(c.End())
}
