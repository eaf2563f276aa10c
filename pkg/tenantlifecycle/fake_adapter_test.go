package tenantlifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/closermetrix/engine/pkg/transcript"
)

// fakeTranscriptAdapter is a minimal transcript.Adapter exercising only
// the webhook registration lifecycle this package drives.
type fakeTranscriptAdapter struct {
	key           string
	failRegister  bool
	failDeregister bool
	deregistered  []string
}

func (a *fakeTranscriptAdapter) ProviderKey() string { return a.key }
func (a *fakeTranscriptAdapter) Normalize(raw map[string]any) (*transcript.CanonicalTranscript, error) {
	return nil, nil
}
func (a *fakeTranscriptAdapter) SupportsPull() bool { return false }
func (a *fakeTranscriptAdapter) ListMeetingsSince(ctx context.Context, credential string, since time.Time) ([]transcript.Meeting, error) {
	return nil, nil
}
func (a *fakeTranscriptAdapter) FetchTranscript(ctx context.Context, credential, meetingID string) (*transcript.CanonicalTranscript, error) {
	return nil, nil
}
func (a *fakeTranscriptAdapter) RegisterWebhook(ctx context.Context, credential, callbackURL string) (string, string, error) {
	if a.failRegister {
		return "", "", errors.New("provider unavailable")
	}
	return "wh-" + credential, "secret-" + credential, nil
}
func (a *fakeTranscriptAdapter) DeregisterWebhook(ctx context.Context, credential, webhookID string) error {
	if a.failDeregister {
		return errors.New("webhook already gone")
	}
	a.deregistered = append(a.deregistered, webhookID)
	return nil
}
