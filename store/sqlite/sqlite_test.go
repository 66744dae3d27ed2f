package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jemygraw/deepresearch/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	plan := &store.Snapshot{
		ID:        "snap-plan",
		ThreadID:  "thread-1",
		Stage:     store.StagePlan,
		State:     map[string]any{"topic": "fusion energy"},
		Metadata:  map[string]any{"events": float64(2)},
		Timestamp: base,
		Version:   1,
	}
	report := &store.Snapshot{
		ID:        "snap-report",
		ThreadID:  "thread-1",
		Stage:     store.StageReport,
		State:     map[string]any{"final_report": "# Fusion"},
		Timestamp: base.Add(time.Minute),
		Version:   2,
	}
	require.NoError(t, s.Save(ctx, report))
	require.NoError(t, s.Save(ctx, plan))

	loaded, err := s.Load(ctx, "snap-plan")
	require.NoError(t, err)
	assert.Equal(t, "thread-1", loaded.ThreadID)
	assert.Equal(t, store.StagePlan, loaded.Stage)
	assert.Equal(t, "fusion energy", loaded.State.(map[string]any)["topic"])
	assert.Equal(t, float64(2), loaded.Metadata["events"])

	list, err := s.List(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "snap-plan", list[0].ID)
	assert.Equal(t, "snap-report", list[1].ID)

	require.NoError(t, s.Delete(ctx, "snap-plan"))
	_, err = s.Load(ctx, "snap-plan")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "snap-plan"), store.ErrSnapshotNotFound)

	require.NoError(t, s.Clear(ctx, "thread-1"))
	list, err = s.List(ctx, "thread-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := store.New("thread-2", store.StagePlan, "v1", 1)
	require.NoError(t, s.Save(ctx, snap))

	snap.Stage = store.StageFeedback
	snap.State = "v2"
	snap.Version = 2
	require.NoError(t, s.Save(ctx, snap))

	loaded, err := s.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StageFeedback, loaded.Stage)
	assert.Equal(t, "v2", loaded.State)
	assert.Equal(t, 2, loaded.Version)
}

func TestNew_CustomTable(t *testing.T) {
	s, err := New(Options{Path: filepath.Join(t.TempDir(), "h.db"), TableName: "research_history"})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "research_history", s.tableName)
	require.NoError(t, s.Save(context.Background(), store.New("t", store.StagePlan, nil, 1)))
}
