package store

import (
	"context"
	"fmt"
	"sync"

	"dossier/internal/domain"
	"dossier/pkg/platform/sentinel"
)

// MemoryStore keeps dossiers in process. Values are cloned on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	dossiers map[string]*domain.Dossier

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		dossiers: make(map[string]*domain.Dossier),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dossiers[key]
	if !ok {
		return nil, fmt.Errorf("dossier %s: %w", key, sentinel.ErrNotFound)
	}
	return d.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, d *domain.Dossier) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("dossier %s: nil value", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dossiers[key] = d.Clone()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) (*domain.Dossier, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current := s.dossiers[key].Clone()
	s.mu.RUnlock()

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}
	if err := s.Put(ctx, key, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

func (s *MemoryStore) keyLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}
