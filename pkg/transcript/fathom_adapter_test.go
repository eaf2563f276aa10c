package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFathomAdapter_Normalize_MetadataOnly(t *testing.T) {
	a := NewFathomAdapter(nil)
	raw := map[string]any{
		"meeting": map[string]any{
			"id":                    "m-1",
			"host_email":            "sarah@x.com",
			"title":                 "Strategy Call",
			"scheduled_start_time":  "2026-02-20T20:00:00Z",
			"invitees": []any{
				map[string]any{"email": "john@ex.com", "name": "John Smith"},
			},
		},
	}

	tr, err := a.Normalize(raw)
	require.NoError(t, err)
	assert.True(t, tr.Absent(), "no transcript field means needs_polling")
	assert.Equal(t, "john@ex.com", tr.ProspectEmail)
	assert.Equal(t, "John Smith", tr.ProspectName)
	assert.Equal(t, "m-1", tr.ProviderMeetingID)
}

func TestFathomAdapter_Normalize_FullTranscript(t *testing.T) {
	a := NewFathomAdapter(nil)
	raw := map[string]any{
		"meeting": map[string]any{
			"id":                   "m-2",
			"host_email":           "sarah@x.com",
			"recording_start_time": "2026-02-20T20:02:00Z",
			"recording_end_time":   "2026-02-20T20:50:00Z",
		},
		"transcript": []any{
			map[string]any{"timestamp": "00:00:01", "speaker": "Sarah", "text": "hey there how are you"},
			map[string]any{"timestamp": "00:00:05", "speaker": "John", "text": "good thanks"},
		},
	}

	tr, err := a.Normalize(raw)
	require.NoError(t, err)
	assert.False(t, tr.Absent())
	assert.Equal(t, 2, tr.SpeakerCount)
	assert.Equal(t, 48, tr.DurationMinutes)
	assert.Contains(t, tr.Text, "Sarah: hey there how are you")
	assert.Contains(t, tr.Text, "John: good thanks")

	var names []string
	for _, s := range tr.Speakers {
		names = append(names, s.Speaker)
	}
	assert.ElementsMatch(t, []string{"Sarah", "John"}, names)
}

func TestFathomAdapter_Normalize_MissingMeeting(t *testing.T) {
	a := NewFathomAdapter(nil)
	_, err := a.Normalize(map[string]any{})
	assert.Error(t, err)
}

func TestFathomAdapter_ProviderKey(t *testing.T) {
	assert.Equal(t, "fathom", NewFathomAdapter(nil).ProviderKey())
	assert.True(t, NewFathomAdapter(nil).SupportsPull())
}
