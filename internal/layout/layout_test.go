package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

func TestAssignLinearChainIncreasesXMonotonically(t *testing.T) {
	names := []string{"A", "B", "C"}
	conns := []codec.LiteConnection{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	}
	pos := Assign(names, conns)
	require.Len(t, pos, 3)
	assert.Less(t, pos["A"].X, pos["B"].X)
	assert.Less(t, pos["B"].X, pos["C"].X)
}

func TestAssignDisconnectedNodeDefaultsToLayerZero(t *testing.T) {
	names := []string{"A", "B", "Island"}
	conns := []codec.LiteConnection{{Source: "A", Target: "B"}}
	pos := Assign(names, conns)
	assert.Equal(t, pos["A"].X, pos["Island"].X, "a disconnected node has no predecessors, so its layer is 0 like any root")
}

func TestAssignBranchingNodeFansOutSymmetrically(t *testing.T) {
	names := []string{"If", "True", "False"}
	conns := []codec.LiteConnection{
		{Source: "If", Target: "True", OutputIndex: 0},
		{Source: "If", Target: "False", OutputIndex: 1},
	}
	pos := Assign(names, conns)
	mid := (pos["True"].Y + pos["False"].Y) / 2
	assert.InDelta(t, pos["If"].Y, mid, 0.001, "branch children must straddle the router's own lane symmetrically")
	assert.NotEqual(t, pos["True"].Y, pos["False"].Y)
}

func TestAssignConvergenceNodeTakesMeanLane(t *testing.T) {
	names := []string{"If", "True", "False", "Merge"}
	conns := []codec.LiteConnection{
		{Source: "If", Target: "True", OutputIndex: 0},
		{Source: "If", Target: "False", OutputIndex: 1},
		{Source: "True", Target: "Merge"},
		{Source: "False", Target: "Merge"},
	}
	pos := Assign(names, conns)
	mean := (pos["True"].Y + pos["False"].Y) / 2
	assert.InDelta(t, mean, pos["Merge"].Y, 0.001)
}

func TestAssignConvergenceLanePropagatesForwardThroughSingleParentChain(t *testing.T) {
	names := []string{"A", "B", "Merge", "After"}
	conns := []codec.LiteConnection{
		{Source: "A", Target: "Merge"},
		{Source: "B", Target: "Merge"},
		{Source: "Merge", Target: "After"},
	}
	pos := Assign(names, conns)
	assert.Equal(t, pos["Merge"].Y, pos["After"].Y, "a single-parent successor of a convergence node inherits its resolved lane")
}

// TestAssignTerminatesOnCyclicInput is the liveness invariant: layer
// assignment must not hang on a cycle, and every node still gets a
// position.
func TestAssignTerminatesOnCyclicInput(t *testing.T) {
	names := []string{"A", "B", "C"}
	conns := []codec.LiteConnection{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "A"},
	}
	pos := Assign(names, conns)
	assert.Len(t, pos, 3)
}

func TestAssignDisjointRootsStackTwoLanesApart(t *testing.T) {
	names := []string{"A", "B"}
	var conns []codec.LiteConnection
	pos := Assign(names, conns)
	assert.Equal(t, 2*yStep, pos["B"].Y-pos["A"].Y)
}
