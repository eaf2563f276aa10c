package calendar

import (
	"context"
	"time"
)

// Adapter normalizes a single provider's raw event payload and exposes
// the provider operations the orchestrator and push-channel lifecycle
// need (§4.2, §6.3, §4.8).
type Adapter interface {
	// ProviderKey identifies this adapter in the registry, e.g. "google".
	ProviderKey() string

	// Normalize converts one raw provider event into canonical form.
	Normalize(raw map[string]any) (*CanonicalCalendarEvent, error)

	// ListChangedEvents lists events changed since `since` on the given
	// calendar (identified by the closer's work email, the conventional
	// calendar id for most providers), including deleted events.
	ListChangedEvents(ctx context.Context, calendarID string, since time.Time) ([]map[string]any, error)

	// CreateWatch registers a push-notification channel for a calendar,
	// returning the provider's channel id, resource id, and expiry.
	CreateWatch(ctx context.Context, calendarID string) (channelID, resourceID string, expiresAt time.Time, err error)

	// StopWatch deletes a push-notification channel. Not-found/expired is
	// treated as success by the caller (§4.8).
	StopWatch(ctx context.Context, channelID, resourceID string) error
}

// NewRegistry builds an adapter registry from the given adapters, keyed
// by each adapter's ProviderKey, mirroring the teacher's
// config.MCPServerRegistry / config.AgentRegistry map-keyed registration
// pattern.
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
