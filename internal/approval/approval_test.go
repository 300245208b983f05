package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateDisabledByDefaultWhenConstructedSo(t *testing.T) {
	g := New(false)
	assert.False(t, g.Enabled())
}

func TestSetEnabledToggles(t *testing.T) {
	g := New(false)
	g.SetEnabled(true)
	assert.True(t, g.Enabled())
}

// TestRequestApprovalThenConsumeIsTwoPhaseCommit is the approval gate's
// core contract: a token issued by RequestApproval must be accepted
// exactly once by Consume for the same tool.
func TestRequestApprovalThenConsumeIsTwoPhaseCommit(t *testing.T) {
	g := New(true)
	token := g.RequestApproval("delete_workflow", "delete workflow wf1")
	require.NotEmpty(t, token)

	assert.True(t, g.Consume("delete_workflow", token))
	assert.False(t, g.Consume("delete_workflow", token), "a token must not be usable twice")
}

func TestConsumeRejectsWrongTool(t *testing.T) {
	g := New(true)
	token := g.RequestApproval("delete_workflow", "delete workflow wf1")
	assert.False(t, g.Consume("update_workflow_full", token))
}

func TestConsumeRejectsUnknownToken(t *testing.T) {
	g := New(true)
	assert.False(t, g.Consume("delete_workflow", "not-a-real-token"))
}

// TestExpiredTokenIsRejected covers the ten-minute TTL: an entry older
// than pendingTTL must be purged and rejected even though it was never
// consumed.
func TestExpiredTokenIsRejected(t *testing.T) {
	g := New(true)
	token := g.RequestApproval("delete_workflow", "delete workflow wf1")

	g.mu.Lock()
	p := g.pending[token]
	p.CreatedAt = time.Now().Add(-pendingTTL - time.Minute)
	g.pending[token] = p
	g.mu.Unlock()

	assert.False(t, g.Consume("delete_workflow", token))
}

func TestTokensAreUniqueAndTimeSortable(t *testing.T) {
	g := New(true)
	a := g.RequestApproval("tool", "a")
	b := g.RequestApproval("tool", "b")
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a, b, "ulid tokens minted in sequence from a monotonic source must sort non-decreasing")
}
