// Package cache tracks the latest audit state per subject. A pending entry
// doubles as the claim that a deep audit is owed, so repeated previews can
// coalesce onto one job.
package cache

import (
	"context"
	"time"

	"dossier/internal/domain"
)

const (
	DefaultTTL        = 24 * time.Hour
	DefaultPendingTTL = 15 * time.Minute
)

// Entry is what the cache remembers about a subject.
type Entry struct {
	State     domain.AuditState `json:"state"`
	Dossier   *domain.Dossier   `json:"dossier,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Pending reports whether a deep audit is queued or running.
func (e Entry) Pending() bool {
	return e.State.Pending()
}

// Cache lookups report absence with ok=false rather than an error.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Reserve stores e only when no live entry exists and reports whether
	// it did.
	Reserve(ctx context.Context, key string, e Entry) (bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Invalidate(ctx context.Context, key string) error
}

// TTL picks the lifetime of an entry from its state. Pending entries expire
// sooner so a lost worker cannot wedge a subject.
type TTL struct {
	Complete time.Duration
	Pending  time.Duration
}

func (t TTL) withDefaults() TTL {
	if t.Complete <= 0 {
		t.Complete = DefaultTTL
	}
	if t.Pending <= 0 {
		t.Pending = DefaultPendingTTL
	}
	return t
}

func (t TTL) For(e Entry) time.Duration {
	if e.Pending() {
		return t.Pending
	}
	return t.Complete
}
