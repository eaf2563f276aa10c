package transcript

// minTextLength and minSpeakers are the Show/Ghosted evaluation
// boundaries of §4.4: length is a strict less-than check (a 50-char
// transcript with 2+ speakers is Show; 49 chars is Ghosted), and speaker
// count likewise (exactly 2 distinct speakers is sufficient).
const (
	minTextLength = 50
	minSpeakers   = 2
)

// IsShow implements the §4.4 evaluation rule: a transcript counts as a
// Show exactly when its text is non-empty, at least minTextLength
// characters, and carries at least minSpeakers distinct speakers. The AI
// pipeline is responsible for all finer-grained outcome classification;
// this only distinguishes "a conversation happened" from "it didn't".
func IsShow(t *CanonicalTranscript) bool {
	if t.Absent() {
		return false
	}
	if len(t.Text) < minTextLength {
		return false
	}
	if t.SpeakerCount < minSpeakers {
		return false
	}
	return true
}
