package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/closermetrix/engine/pkg/cache"
)

// dedupTTL is the in-memory recency window (§4.2a, §8 invariant 4).
const dedupTTL = 60 * time.Second

// DedupFilter implements the single-event pipeline's step (a): an
// in-memory recency filter keyed on a fingerprint of the parts of an
// event that matter for duplicate-notification detection.
type DedupFilter struct {
	store cache.Store
}

// NewDedupFilter wraps a cache.Store (in-memory by default, Redis when
// configured for multi-instance deployments).
func NewDedupFilter(store cache.Store) *DedupFilter {
	return &DedupFilter{store: store}
}

// Fingerprint computes the dedup key for an event: event id, organizer
// email, sorted attendee emails, status, and start time (§4.2a).
func Fingerprint(e *CanonicalCalendarEvent) string {
	emails := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		emails = append(emails, strings.ToLower(a.Email))
	}
	sort.Strings(emails)

	h := sha256.New()
	h.Write([]byte(e.EventID))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(e.OrganizerEmail)))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(emails, ",")))
	h.Write([]byte{0})
	h.Write([]byte(e.Status))
	h.Write([]byte{0})
	h.Write([]byte(e.Start.UTC().Format(time.RFC3339)))
	return "calendar:dedup:" + hex.EncodeToString(h.Sum(nil))
}

// SeenRecently reports whether this exact fingerprint was already
// recorded within the last 60 seconds, marking it as seen if not. At
// most one caller of a concurrent pair sees false (§8 invariant 4).
func (d *DedupFilter) SeenRecently(ctx context.Context, e *CanonicalCalendarEvent) (bool, error) {
	fp := Fingerprint(e)
	isNew, err := d.store.SetNX(ctx, fp, []byte{1}, dedupTTL)
	if err != nil {
		return false, err
	}
	return !isNew, nil
}
