package focus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGhostIndexSkipsNodesWithNoRuns(t *testing.T) {
	run := &RunData{}
	idx := BuildGhostIndex(run)
	assert.Empty(t, idx)
}

func TestBuildGhostIndexMarksErroredRunWithNoKeys(t *testing.T) {
	errMsg := json.RawMessage(`{"message":"boom"}`)
	run := &RunData{}
	run.ResultData.RunData = map[string][]NodeRun{
		"Failing": {{Error: &errMsg}},
	}
	idx := BuildGhostIndex(run)
	g, ok := idx["Failing"]
	require.True(t, ok)
	assert.True(t, g.Error)
	assert.Nil(t, g.Branches)
}

func TestBuildGhostIndexTracksBranchesSeparately(t *testing.T) {
	run := &RunData{}
	nr := NodeRun{}
	nr.Data.Main = [][]ItemResult{
		{{JSON: map[string]interface{}{"trueField": 1}}},
		{{JSON: map[string]interface{}{"falseField": 2}}},
	}
	run.ResultData.RunData = map[string][]NodeRun{"If": {nr}}

	idx := BuildGhostIndex(run)
	g := idx["If"]
	assert.Equal(t, []string{"trueField"}, g.Branches[0])
	assert.Equal(t, []string{"falseField"}, g.Branches[1])
}

func TestBuildGhostIndexOnlyConsultsLastAttempt(t *testing.T) {
	run := &RunData{}
	first := NodeRun{}
	first.Data.Main = [][]ItemResult{{{JSON: map[string]interface{}{"stale": 1}}}}
	second := NodeRun{}
	second.Data.Main = [][]ItemResult{{{JSON: map[string]interface{}{"fresh": 1}}}}
	run.ResultData.RunData = map[string][]NodeRun{"Node": {first, second}}

	idx := BuildGhostIndex(run)
	assert.Equal(t, []string{"fresh"}, idx["Node"].Branches[0])
}

func TestCapKeysAddsSentinelWhenTruncated(t *testing.T) {
	keys := make([]string, 25)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	capped := capKeys(keys)
	require.Len(t, capped, maxGhostKeys+1)
	assert.Equal(t, "...+5 more", capped[maxGhostKeys])
}

func TestCapKeysNoSentinelWhenUnderCap(t *testing.T) {
	keys := []string{"a", "b", "c"}
	assert.Equal(t, keys, capKeys(keys))
}

func TestGhostHintForTriggerNodeHasNoHint(t *testing.T) {
	hint := GhostHintFor("Trigger", nil, map[string]NodeGhost{})
	assert.Nil(t, hint)
}

func TestGhostHintForUsesOutputIndexOfTheIncomingEdge(t *testing.T) {
	ghosts := map[string]NodeGhost{
		"If": {Branches: map[int][]string{0: {"trueField"}, 1: {"falseField"}}},
	}
	hint := GhostHintFor("FalseBranchConsumer", []UpstreamEdge{{Source: "If", OutputIndex: 1}}, ghosts)
	assert.Equal(t, []string{"falseField"}, hint)
}

func TestGhostHintForSkipsErroredSources(t *testing.T) {
	ghosts := map[string]NodeGhost{"Up": {Error: true}}
	hint := GhostHintFor("Down", []UpstreamEdge{{Source: "Up"}}, ghosts)
	assert.Empty(t, hint)
}

func TestGhostHintForUnionsMultipleUpstreamSources(t *testing.T) {
	ghosts := map[string]NodeGhost{
		"A": {Branches: map[int][]string{0: {"x"}}},
		"B": {Branches: map[int][]string{0: {"y"}}},
	}
	hint := GhostHintFor("Merge", []UpstreamEdge{{Source: "A"}, {Source: "B"}}, ghosts)
	assert.Equal(t, []string{"x", "y"}, hint)
}
