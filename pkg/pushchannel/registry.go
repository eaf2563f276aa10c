// Package pushchannel implements the push-channel lifecycle of §4.8:
// each active closer with a sharable calendar holds exactly one active
// push-notification subscription, tracked in a registry keyed on
// (tenant, closer) and backed by the same cache.Store abstraction the
// calendar dedup filter uses.
package pushchannel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/cache"
	"github.com/closermetrix/engine/pkg/calendar"
)

const keyPrefix = "pushchannel:"

// Subscription is one active push-notification channel.
type Subscription struct {
	TenantID   string    `json:"tenant_id"`
	CloserID   string    `json:"closer_id"`
	Provider   string    `json:"provider"`
	CalendarID string    `json:"calendar_id"`
	ChannelID  string    `json:"channel_id"`
	ResourceID string    `json:"resource_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Registry manages the create/stop/renew lifecycle against a cache.Store
// and the calendar adapter registry that actually talks to the
// provider's watch API.
type Registry struct {
	store    cache.Store
	adapters *calendar.Registry
	logger   *slog.Logger
}

// New builds a Registry.
func New(store cache.Store, adapters *calendar.Registry) *Registry {
	return &Registry{
		store:    store,
		adapters: adapters,
		logger:   slog.Default().With("component", "pushchannel-registry"),
	}
}

func subscriptionKey(tenantID, closerID string) string {
	return keyPrefix + tenantID + ":" + closerID
}

// Create registers a new subscription for (tenantID, closerID) against
// calendarID on the given provider, replacing any existing registry
// entry for that closer (it does not stop a prior provider-side channel
// itself — callers that need that do it via Renew).
func (r *Registry) Create(ctx context.Context, tenantID, closerID, provider, calendarID string) (*Subscription, error) {
	adapter, ok := r.adapters.Get(provider)
	if !ok {
		return nil, fmt.Errorf("pushchannel: no calendar adapter registered for provider %q", provider)
	}

	channelID, resourceID, expiresAt, err := adapter.CreateWatch(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("pushchannel: create watch: %w", err)
	}

	sub := &Subscription{
		TenantID:   tenantID,
		CloserID:   closerID,
		Provider:   provider,
		CalendarID: calendarID,
		ChannelID:  channelID,
		ResourceID: resourceID,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}
	if err := r.put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Stop deletes the subscription registered for (tenantID, closerID).
// A subscription already absent from the registry, or one whose
// provider-side StopWatch call fails because the channel is already
// expired or gone, is treated as success (§4.8).
func (r *Registry) Stop(ctx context.Context, tenantID, closerID string) error {
	sub, ok, err := r.get(ctx, tenantID, closerID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if adapter, ok := r.adapters.Get(sub.Provider); ok {
		if err := adapter.StopWatch(ctx, sub.ChannelID, sub.ResourceID); err != nil {
			r.logger.Warn("pushchannel: provider stop-watch failed, treating as already gone", "tenant_id", tenantID, "closer_id", closerID, "error", err)
		}
	}
	return r.store.Delete(ctx, subscriptionKey(tenantID, closerID))
}

// Renew stops the current subscription (if any) and creates a
// replacement against the same provider/calendar (§4.8). Renewing a
// closer with no prior subscription fails — the caller must Create one
// first so the provider/calendar pair is known.
func (r *Registry) Renew(ctx context.Context, tenantID, closerID string) (*Subscription, error) {
	sub, ok, err := r.get(ctx, tenantID, closerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("pushchannel: renew: %w: no existing subscription for closer %q", apperrors.ErrNotFound, closerID)
	}

	if err := r.Stop(ctx, tenantID, closerID); err != nil {
		return nil, fmt.Errorf("pushchannel: renew: stop: %w", err)
	}
	return r.Create(ctx, tenantID, closerID, sub.Provider, sub.CalendarID)
}

// RenewExpiring renews every registered subscription whose expiry falls
// within lookahead of now, the body of the periodic renewal job (§4.8).
// Per-subscription failures are logged and never abort the sweep over
// the rest of the registry.
func (r *Registry) RenewExpiring(ctx context.Context, lookahead time.Duration) {
	keys, err := r.store.Keys(ctx, keyPrefix)
	if err != nil {
		r.logger.Error("pushchannel: list registered channels failed", "error", err)
		return
	}

	cutoff := time.Now().Add(lookahead)
	for _, key := range keys {
		data, ok, err := r.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var sub Subscription
		if err := json.Unmarshal(data, &sub); err != nil {
			r.logger.Error("pushchannel: corrupt registry entry", "key", key, "error", err)
			continue
		}
		if sub.ExpiresAt.After(cutoff) {
			continue
		}
		if _, err := r.Renew(ctx, sub.TenantID, sub.CloserID); err != nil {
			r.logger.Warn("pushchannel: renewal failed", "tenant_id", sub.TenantID, "closer_id", sub.CloserID, "error", err)
		}
	}
}

func (r *Registry) get(ctx context.Context, tenantID, closerID string) (*Subscription, bool, error) {
	data, ok, err := r.store.Get(ctx, subscriptionKey(tenantID, closerID))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var sub Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, false, fmt.Errorf("pushchannel: decode registry entry: %w", err)
	}
	return &sub, true, nil
}

func (r *Registry) put(ctx context.Context, sub *Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("pushchannel: encode registry entry: %w", err)
	}
	var ttl time.Duration
	if !sub.ExpiresAt.IsZero() {
		ttl = time.Until(sub.ExpiresAt)
	}
	return r.store.Set(ctx, subscriptionKey(sub.TenantID, sub.CloserID), data, ttl)
}

// Get returns the currently registered subscription for (tenantID,
// closerID), if any — exposed for the tenant/closer lifecycle and
// admin inspection.
func (r *Registry) Get(ctx context.Context, tenantID, closerID string) (*Subscription, bool, error) {
	return r.get(ctx, tenantID, closerID)
}
