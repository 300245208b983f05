package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	content := json.RawMessage(`{"id":"wf1","name":"Sample"}`)

	meta, err := store.Save("wf1", "Sample", TriggerManual, "test snapshot", content)
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)

	full, err := store.Get("wf1", meta.ID)
	require.NoError(t, err)
	require.NotNil(t, full)
	assert.JSONEq(t, string(content), string(full.Content))
	assert.Equal(t, TriggerManual, full.Trigger)
}

func TestGetReturnsNilForMissingSnapshot(t *testing.T) {
	store := New(t.TempDir())
	full, err := store.Get("wf1", "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, full)
}

func TestListReturnsNewestFirst(t *testing.T) {
	store := New(t.TempDir())
	first, err := store.Save("wf1", "Sample", TriggerManual, "first", json.RawMessage(`{}`))
	require.NoError(t, err)
	second, err := store.Save("wf1", "Sample", TriggerManual, "second", json.RawMessage(`{}`))
	require.NoError(t, err)

	list, err := store.List("wf1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestListRespectsLimit(t *testing.T) {
	store := New(t.TempDir())
	for i := 0; i < 5; i++ {
		_, err := store.Save("wf1", "Sample", TriggerManual, "snap", json.RawMessage(`{}`))
		require.NoError(t, err)
	}
	list, err := store.List("wf1", 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// TestSaveCapsAtTwentyAndPrunesOldestFiles is the ring-cap invariant:
// the 21st snapshot for one workflow must evict the oldest, both from
// the index and from disk.
func TestSaveCapsAtTwentyAndPrunesOldestFiles(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	var metas []Meta
	for i := 0; i < maxSnapshotsPerWorkflow+1; i++ {
		m, err := store.Save("wf1", "Sample", TriggerManual, "snap", json.RawMessage(`{}`))
		require.NoError(t, err)
		metas = append(metas, m)
	}

	list, err := store.List("wf1", 0)
	require.NoError(t, err)
	assert.Len(t, list, maxSnapshotsPerWorkflow)

	oldest := metas[0]
	for _, m := range list {
		assert.NotEqual(t, oldest.ID, m.ID, "the oldest snapshot must have been pruned from the index")
	}

	_, err = os.Stat(filepath.Join(root, "wf1", oldest.ID+".json"))
	assert.True(t, os.IsNotExist(err), "the oldest snapshot's file must be removed from disk too")
}

func TestSnapshotsAreIsolatedPerWorkflow(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Save("wf1", "A", TriggerManual, "a", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = store.Save("wf2", "B", TriggerManual, "b", json.RawMessage(`{}`))
	require.NoError(t, err)

	listA, err := store.List("wf1", 0)
	require.NoError(t, err)
	listB, err := store.List("wf2", 0)
	require.NoError(t, err)
	assert.Len(t, listA, 1)
	assert.Len(t, listB, 1)
}

func TestListOnUnknownWorkflowReturnsEmptyNotError(t *testing.T) {
	store := New(t.TempDir())
	list, err := store.List("never-seen", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
