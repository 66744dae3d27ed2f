// Package store persists the history of research threads.
//
// A Snapshot is the workflow state captured after one round-trip with the user (plan,
// feedback or report). Backends live in the subpackages: memory, sqlite, redis and postgres.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned by Load and Delete for an unknown snapshot ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Stages of a research thread.
const (
	StagePlan     = "plan"
	StageFeedback = "feedback"
	StageReport   = "report"
)

// Snapshot is a saved research state.
type Snapshot struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Stage     string         `json:"stage"`
	State     any            `json:"state"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Version   int            `json:"version"`
}

// New creates a snapshot with a fresh ID and the current time.
func New(threadID, stage string, state any, version int) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Stage:     stage,
		State:     state,
		Metadata:  map[string]any{},
		Timestamp: time.Now().UTC(),
		Version:   version,
	}
}

// SnapshotStore persists snapshots.
type SnapshotStore interface {
	// Save stores a snapshot, replacing one with the same ID.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load retrieves a snapshot by ID.
	Load(ctx context.Context, snapshotID string) (*Snapshot, error)

	// List returns the snapshots of a thread, oldest first.
	List(ctx context.Context, threadID string) ([]*Snapshot, error)

	// Delete removes a snapshot.
	Delete(ctx context.Context, snapshotID string) error

	// Clear removes every snapshot of a thread.
	Clear(ctx context.Context, threadID string) error
}
