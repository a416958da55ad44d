// Package store persists dossiers across audit runs. Every implementation
// serializes Update per key so concurrent phases never lose a merge.
package store

import (
	"context"
	"errors"
	"strings"

	"dossier/internal/domain"
)

// ErrEmptyKey is returned for a blank subject id.
var ErrEmptyKey = errors.New("dossier key is required")

// UpdateFunc receives the current dossier (nil when none exists) and returns
// the one to persist. Returning nil leaves the stored value untouched.
type UpdateFunc func(current *domain.Dossier) (*domain.Dossier, error)

// Store is keyed by subject id. Get returns sentinel.ErrNotFound when nothing
// has been persisted yet.
type Store interface {
	Get(ctx context.Context, key string) (*domain.Dossier, error)
	Put(ctx context.Context, key string, d *domain.Dossier) error
	Update(ctx context.Context, key string, fn UpdateFunc) (*domain.Dossier, error)
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
