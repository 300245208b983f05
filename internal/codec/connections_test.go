package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressConnectionsOmitsDefaults(t *testing.T) {
	raw := RawConnections{
		"A": {
			"main": [][]RawConnectionTarget{
				{{Node: "B", Type: "main", Index: 0}},
			},
		},
	}
	out := CompressConnections(raw)
	require.Len(t, out, 1)
	assert.Equal(t, LiteConnection{Source: "A", Target: "B"}, out[0])
}

func TestCompressConnectionsKeepsNonDefaults(t *testing.T) {
	raw := RawConnections{
		"Router": {
			"main": [][]RawConnectionTarget{
				{},
				{{Node: "Merge", Type: "main", Index: 1}},
			},
		},
	}
	out := CompressConnections(raw)
	require.Len(t, out, 1)
	assert.Equal(t, "Router", out[0].Source)
	assert.Equal(t, "Merge", out[0].Target)
	assert.Equal(t, 1, out[0].OutputIndex)
	assert.Equal(t, 1, out[0].InputIndex)
}

// TestMergeConvergenceGetsDistinctInputPorts is scenario A: two
// implicit branches feeding the same merge must land on ports 0 and 1,
// not both collide on 0.
func TestMergeConvergenceGetsDistinctInputPorts(t *testing.T) {
	conns := []LiteConnection{
		{Source: "IF", Target: "Merge", OutputIndex: 0},
		{Source: "IF", Target: "Merge", OutputIndex: 1},
	}
	raw := ReconstructConnections(conns)

	targets0 := raw["IF"]["main"][0]
	targets1 := raw["IF"]["main"][1]
	require.Len(t, targets0, 1)
	require.Len(t, targets1, 1)
	assert.Equal(t, 0, targets0[0].Index)
	assert.Equal(t, 1, targets1[0].Index)
}

func TestReconstructConnectionsHonorsExplicitInputIndex(t *testing.T) {
	conns := []LiteConnection{
		{Source: "A", Target: "Merge", InputIndex: 1},
		{Source: "B", Target: "Merge"}, // implicit, must not collide with the reserved slot 1
	}
	raw := ReconstructConnections(conns)

	var gotA, gotB int
	for _, t2 := range raw["A"]["main"][0] {
		gotA = t2.Index
	}
	for _, t2 := range raw["B"]["main"][0] {
		gotB = t2.Index
	}
	assert.Equal(t, 1, gotA)
	assert.Equal(t, 0, gotB)
}

func TestConnectionCompressReconstructRoundTrip(t *testing.T) {
	raw := RawConnections{
		"Trigger": {
			"main": [][]RawConnectionTarget{
				{{Node: "If", Type: "main", Index: 0}},
			},
		},
		"If": {
			"main": [][]RawConnectionTarget{
				{{Node: "Merge", Type: "main", Index: 0}},
				{{Node: "Merge", Type: "main", Index: 1}},
			},
		},
	}
	lite := CompressConnections(raw)
	back := ReconstructConnections(lite)
	assert.Equal(t, raw, back)
}
