package transcript

import (
	"context"
	"time"
)

// Meeting is a minimal listing-API result used by the pull-based catch-up
// phase of the sweeper (§4.6 Phase 1.5).
type Meeting struct {
	ProviderMeetingID string
	CreatedAt         time.Time
}

// Adapter normalizes one provider's webhook payload and, for Tier-1
// providers, exposes the listing/polling API used for catch-up (§4.4,
// §6.3). Returning a nil transcript with a nil error signals "needs_polling"
// (§4.4 step 2).
type Adapter interface {
	ProviderKey() string

	// Normalize converts a raw webhook payload into canonical form. A nil
	// *CanonicalTranscript with a nil error means the payload carried
	// metadata only; the caller should return needs_polling.
	Normalize(raw map[string]any) (*CanonicalTranscript, error)

	// SupportsPull reports whether this provider exposes a listing API for
	// sweeper catch-up (only Fathom does, per §4.6 Phase 1.5).
	SupportsPull() bool

	// ListMeetingsSince lists meetings created since `since` for the given
	// provider credential, used by the sweeper's pull-based catch-up.
	ListMeetingsSince(ctx context.Context, credential string, since time.Time) ([]Meeting, error)

	// FetchTranscript pulls and normalizes the full transcript for a
	// meeting discovered via ListMeetingsSince.
	FetchTranscript(ctx context.Context, credential, meetingID string) (*CanonicalTranscript, error)

	// RegisterWebhook registers a provider-side webhook for a closer,
	// returning the provider's webhook id and secret (§4.9).
	RegisterWebhook(ctx context.Context, credential, callbackURL string) (webhookID, webhookSecret string, err error)

	// DeregisterWebhook removes a previously registered webhook (§4.9).
	DeregisterWebhook(ctx context.Context, credential, webhookID string) error
}

// NewRegistry builds a provider-keyed adapter registry, mirroring
// calendar.Registry.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.ProviderKey()] = a
	}
	return r
}

// Registry resolves a provider key to its Adapter.
type Registry struct {
	adapters map[string]Adapter
}

// Get returns the adapter registered under key, or false if none.
func (r *Registry) Get(key string) (Adapter, bool) {
	a, ok := r.adapters[key]
	return a, ok
}
