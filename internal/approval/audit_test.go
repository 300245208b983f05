package approval

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogAppendsOneLinePerEntry(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)

	wfID := "wf1"
	log.Append(AuditEntry{Timestamp: time.Now(), Tool: "delete_workflow", WorkflowID: &wfID, Summary: "delete wf1", Approved: true})
	log.Append(AuditEntry{Timestamp: time.Now(), Tool: "activate_workflow", WorkflowID: &wfID, Summary: "activate wf1", Approved: true})

	f, err := os.Open(filepath.Join(root, "audit.log"))
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first AuditEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "delete_workflow", first.Tool)
	assert.True(t, first.Approved)
}

func TestAuditLogRecordsUnapprovedPendingAttempt(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)
	log.Append(AuditEntry{Timestamp: time.Now(), Tool: "delete_workflow", Summary: "pending delete", Approved: false})

	data, err := os.ReadFile(filepath.Join(root, "audit.log"))
	require.NoError(t, err)
	var entry AuditEntry
	require.NoError(t, json.Unmarshal(data[:len(data)-1], &entry))
	assert.False(t, entry.Approved)
	assert.Nil(t, entry.WorkflowID)
}

// TestAuditLogSwallowsDirectoryCreateFailure verifies that a write
// failure never panics or returns an error — the caller has no way to
// observe a failed audit write, by design.
func TestAuditLogSwallowsDirectoryCreateFailure(t *testing.T) {
	root := t.TempDir()
	blocked := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	log := NewAuditLog(blocked)
	assert.NotPanics(t, func() {
		log.Append(AuditEntry{Timestamp: time.Now(), Tool: "noop", Summary: "x", Approved: true})
	})
}
