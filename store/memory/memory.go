// Package memory keeps snapshots in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jemygraw/deepresearch/store"
)

// Store is an in-memory store.SnapshotStore. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*store.Snapshot
}

// New creates an empty store.
func New() *Store {
	return &Store{snapshots: make(map[string]*store.Snapshot)}
}

// Save stores a copy of snapshot.
func (s *Store) Save(ctx context.Context, snapshot *store.Snapshot) error {
	if snapshot == nil || snapshot.ID == "" {
		return fmt.Errorf("memory: snapshot ID is required")
	}
	cp := *snapshot
	s.mu.Lock()
	s.snapshots[cp.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Load retrieves a snapshot by ID.
func (s *Store) Load(ctx context.Context, snapshotID string) (*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[snapshotID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrSnapshotNotFound, snapshotID)
	}
	cp := *snapshot
	return &cp, nil
}

// List returns the snapshots of a thread, oldest first.
func (s *Store) List(ctx context.Context, threadID string) ([]*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*store.Snapshot
	for _, snapshot := range s.snapshots {
		if snapshot.ThreadID == threadID {
			cp := *snapshot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Version < out[j].Version
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, snapshotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[snapshotID]; !ok {
		return fmt.Errorf("%w: %s", store.ErrSnapshotNotFound, snapshotID)
	}
	delete(s.snapshots, snapshotID)
	return nil
}

// Clear removes every snapshot of a thread.
func (s *Store) Clear(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, snapshot := range s.snapshots {
		if snapshot.ThreadID == threadID {
			delete(s.snapshots, id)
		}
	}
	return nil
}
