package org

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/ids"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	byExtern map[string]*Mapping
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byExtern: make(map[string]*Mapping)}
}

func (s *MemoryStore) Resolve(_ context.Context, externalID string) (string, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return "", ErrNoContext
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byExtern[externalID]
	if !ok {
		return "", ErrNotFound
	}
	return m.OrganizationID, nil
}

func (s *MemoryStore) Create(_ context.Context, m *Mapping) error {
	if m.OrganizationID == "" {
		m.OrganizationID = ids.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	clone := *m
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byExtern[m.ExternalID] = &clone
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]*Mapping, 0, len(s.byExtern))
	for _, m := range s.byExtern {
		clone := *m
		res = append(res, &clone)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}
