package transcript

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// FathomAdapter implements Adapter for Fathom's webhook payload. Normalize
// is complete; ListMeetingsSince, FetchTranscript, RegisterWebhook and
// DeregisterWebhook are not connected to Fathom's REST API and always
// return an error. Fathom is the Tier-1 transcript provider named in
// §4.6 Phase 1.5 and §4.9 webhook auto-registration.
type FathomAdapter struct {
	httpClient *http.Client
	baseURL    string
}

// NewFathomAdapter builds a FathomAdapter. httpClient is expected to
// attach the per-closer API credential as configured by the caller.
func NewFathomAdapter(httpClient *http.Client) *FathomAdapter {
	return &FathomAdapter{httpClient: httpClient, baseURL: "https://api.fathom.ai/external/v1"}
}

func (a *FathomAdapter) ProviderKey() string { return "fathom" }

func (a *FathomAdapter) SupportsPull() bool { return true }

// Normalize converts a Fathom webhook payload into canonical form. Fathom
// sends a "meeting.created" event with metadata before the transcript is
// ready, then a "transcript.ready" event with the full payload; the
// absence of a "transcript" field signals needs_polling (§4.4 step 2).
func (a *FathomAdapter) Normalize(raw map[string]any) (*CanonicalTranscript, error) {
	meeting, _ := raw["meeting"].(map[string]any)
	if meeting == nil {
		return nil, fmt.Errorf("transcript: fathom payload missing meeting object")
	}

	t := &CanonicalTranscript{
		ProviderKey:       a.ProviderKey(),
		ProviderMeetingID: stringAt(meeting, "id"),
		CloserEmail:       stringAt(meeting, "host_email"),
		Title:             stringAt(meeting, "title"),
		ShareURL:          stringAt(meeting, "share_url"),
		Summary:           stringAt(raw, "summary"),
		Raw:               raw,
	}

	if start, err := time.Parse(time.RFC3339, stringAt(meeting, "scheduled_start_time")); err == nil {
		t.ScheduledStart = start
	}
	if rs, err := time.Parse(time.RFC3339, stringAt(meeting, "recording_start_time")); err == nil {
		t.RecordingStart = rs
	}
	if re, err := time.Parse(time.RFC3339, stringAt(meeting, "recording_end_time")); err == nil {
		t.RecordingEnd = re
	}
	if !t.RecordingStart.IsZero() && !t.RecordingEnd.IsZero() {
		t.DurationMinutes = int(t.RecordingEnd.Sub(t.RecordingStart).Minutes())
	}

	if invitees, ok := meeting["invitees"].([]any); ok {
		for _, raw := range invitees {
			inv, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			email := stringAt(inv, "email")
			if email == "" || strings.EqualFold(email, t.CloserEmail) {
				continue
			}
			t.ProspectEmail = email
			t.ProspectName = stringAt(inv, "name")
			break
		}
	}

	utterances, ok := raw["transcript"].([]any)
	if !ok {
		// Metadata-only payload: needs_polling (§4.4 step 2).
		return t, nil
	}

	t.Text, t.SpeakerCount, t.Speakers = flattenUtterances(utterances)
	return t, nil
}

// ListMeetingsSince has no HTTP transport wired in: it always returns an
// error and lists no meetings, so the sweeper's pull pass (§4.6 Phase
// 1.5) finds nothing for Fathom closers.
func (a *FathomAdapter) ListMeetingsSince(ctx context.Context, credential string, since time.Time) ([]Meeting, error) {
	return nil, fmt.Errorf("transcript: fathom ListMeetingsSince not wired to a live transport in this environment")
}

// FetchTranscript has no HTTP transport wired in: it always returns an
// error and fetches no transcript.
func (a *FathomAdapter) FetchTranscript(ctx context.Context, credential, meetingID string) (*CanonicalTranscript, error) {
	return nil, fmt.Errorf("transcript: fathom FetchTranscript not wired to a live transport in this environment")
}

// RegisterWebhook has no HTTP transport wired in: it always returns an
// error and registers no webhook (§4.9). Failure is non-fatal to closer
// creation; the caller treats it as best-effort.
func (a *FathomAdapter) RegisterWebhook(ctx context.Context, credential, callbackURL string) (string, string, error) {
	return "", "", fmt.Errorf("transcript: fathom RegisterWebhook not wired to a live transport in this environment")
}

// DeregisterWebhook has no HTTP transport wired in: it always returns an
// error and removes no webhook.
func (a *FathomAdapter) DeregisterWebhook(ctx context.Context, credential, webhookID string) error {
	return fmt.Errorf("transcript: fathom DeregisterWebhook not wired to a live transport in this environment")
}

func stringAt(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// flattenUtterances renders each utterance as "HH:MM:SS - Speaker: text"
// joined by newlines (§4.4 "flattened transcript text"), and tallies
// per-speaker utterance/word counts.
func flattenUtterances(utterances []any) (string, int, []SpeakerStats) {
	var lines []string
	counts := make(map[string]*SpeakerStats)
	var order []string

	for _, raw := range utterances {
		u, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		speaker := stringAt(u, "speaker")
		text := stringAt(u, "text")
		offset := stringAt(u, "timestamp")

		lines = append(lines, fmt.Sprintf("%s - %s: %s", offset, speaker, text))

		stats, ok := counts[speaker]
		if !ok {
			stats = &SpeakerStats{Speaker: speaker}
			counts[speaker] = stats
			order = append(order, speaker)
		}
		stats.UtteranceCount++
		stats.WordCount += len(strings.Fields(text))
	}

	sort.Strings(order)
	out := make([]SpeakerStats, 0, len(order))
	for _, s := range order {
		out = append(out, *counts[s])
	}

	return strings.Join(lines, "\n"), len(counts), out
}
