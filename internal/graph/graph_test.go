package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

func ifMergeConns() []codec.LiteConnection {
	return []codec.LiteConnection{
		{Source: "Trigger", Target: "If"},
		{Source: "If", Target: "True", OutputIndex: 0},
		{Source: "If", Target: "False", OutputIndex: 1},
		{Source: "True", Target: "Merge", InputIndex: 0},
		{Source: "False", Target: "Merge", InputIndex: 1},
		{Source: "Merge", Target: "Notify"},
	}
}

func TestBFSForwardVisitsEachNodeOnce(t *testing.T) {
	g := Build(ifMergeConns())
	reached := g.BFSForward([]string{"Trigger"}, 0, nil)
	for _, n := range []string{"Trigger", "If", "True", "False", "Merge", "Notify"} {
		assert.True(t, reached[n], "%s should be reachable", n)
	}
}

func TestBFSForwardRespectsMaxDepth(t *testing.T) {
	g := Build(ifMergeConns())
	reached := g.BFSForward([]string{"Trigger"}, 1, nil)
	assert.True(t, reached["Trigger"])
	assert.True(t, reached["If"])
	assert.False(t, reached["True"], "depth-1 cap must not reach two hops away")
}

func TestBFSForwardExcludesSet(t *testing.T) {
	g := Build(ifMergeConns())
	reached := g.BFSForward([]string{"Trigger"}, 0, map[string]bool{"If": true})
	assert.False(t, reached["If"])
	assert.False(t, reached["True"], "nodes only reachable through an excluded node must not appear")
}

func TestFollowBranchIncludesRouterAndOnlyThatOutput(t *testing.T) {
	g := Build(ifMergeConns())
	branch := g.FollowBranch("If", 0)
	assert.True(t, branch["If"])
	assert.True(t, branch["True"])
	assert.False(t, branch["False"], "output index 1 must not leak into output index 0's branch")
	assert.True(t, branch["Merge"], "BFS continues past the branch target through all downstream outputs")
}

func TestRangeIncludesConvergenceNode(t *testing.T) {
	g := Build(ifMergeConns())
	between := g.Range("Trigger", "Notify")
	for _, n := range []string{"Trigger", "If", "True", "False", "Merge", "Notify"} {
		assert.True(t, between[n], "%s must be in the range", n)
	}
}

func TestRangeWithNoIntersectionKeepsOnlyEndpoints(t *testing.T) {
	conns := []codec.LiteConnection{
		{Source: "A", Target: "B"},
		{Source: "C", Target: "D"},
	}
	g := Build(conns)
	between := g.Range("A", "D")
	assert.Equal(t, map[string]bool{"A": true, "D": true}, between)
}

func TestClassifyDownstreamPrecedenceOverUpstream(t *testing.T) {
	// With only "True" focused, Merge is reachable forward and Trigger/If
	// backward. A second focused set of {Trigger, Merge} then makes "If"
	// reachable both ways (forward from Trigger, backward from Merge).
	conns := ifMergeConns()
	g := Build(conns)
	focused := map[string]bool{"True": true}
	names := []string{"Trigger", "If", "True", "False", "Merge", "Notify"}
	zones := g.Classify(names, focused)

	assert.Equal(t, ZoneFocused, zones["True"])
	assert.Equal(t, ZoneUpstream, zones["Trigger"])
	assert.Equal(t, ZoneUpstream, zones["If"])
	assert.Equal(t, ZoneDownstream, zones["Merge"], "merge is forward-reachable from True, so downstream wins")
	assert.Equal(t, ZoneDownstream, zones["Notify"])
	assert.Equal(t, ZoneParallel, zones["False"], "False is neither forward nor backward reachable from True")

	both := g.Classify(names, map[string]bool{"Trigger": true, "Merge": true})
	assert.Equal(t, ZoneDownstream, both["If"], "If is reachable both ways, so downstream wins")
}

func TestSegmentsLabelsTwoOutputRouterAsTrueFalse(t *testing.T) {
	g := Build(ifMergeConns())
	segs := g.Segments()
	byLabel := map[string]Segment{}
	for _, s := range segs {
		byLabel[s.Label] = s
	}
	_, hasTrue := byLabel["If: true branch"]
	_, hasFalse := byLabel["If: false branch"]
	assert.True(t, hasTrue)
	assert.True(t, hasFalse)
}

func TestSegmentsLabelsMultiOutputRouterByIndex(t *testing.T) {
	conns := []codec.LiteConnection{
		{Source: "Switch", Target: "A", OutputIndex: 0},
		{Source: "Switch", Target: "B", OutputIndex: 1},
		{Source: "Switch", Target: "C", OutputIndex: 2},
	}
	g := Build(conns)
	segs := g.Segments()
	labels := map[string]bool{}
	for _, s := range segs {
		labels[s.Label] = true
	}
	assert.True(t, labels["Switch: output 0"])
	assert.True(t, labels["Switch: output 1"])
	assert.True(t, labels["Switch: output 2"])
}

func TestSegmentsOmitsEmptyBranches(t *testing.T) {
	conns := []codec.LiteConnection{
		{Source: "Switch", Target: "A", OutputIndex: 0},
		// output index 2 referenced with no index-1 branch populated
		{Source: "Switch", Target: "C", OutputIndex: 2},
	}
	g := Build(conns)
	segs := g.Segments()
	for _, s := range segs {
		assert.NotEqual(t, 1, s.OutputIndex, "output index 1 has no members and must be omitted")
	}
}

func TestBoundariesEntryAndExit(t *testing.T) {
	focused := map[string]bool{"If": true, "True": true}
	conns := ifMergeConns()
	boundaries := Boundaries(conns, focused)

	var entries, exits []Boundary
	for _, b := range boundaries {
		if b.Direction == "entry" {
			entries = append(entries, b)
		} else {
			exits = append(exits, b)
		}
	}
	assert.Len(t, entries, 1, "Trigger -> If crosses into the focused set")
	assert.Equal(t, "Trigger", entries[0].Source)
	assert.Equal(t, "If", entries[0].Target)

	assert.Len(t, exits, 2, "If -> False and True -> Merge cross out of the focused set")
	assert.Equal(t, "If", exits[0].Source)
	assert.Equal(t, "False", exits[0].Target)
	assert.Equal(t, "True", exits[1].Source)
	assert.Equal(t, "Merge", exits[1].Target)
}

func TestBoundariesSkipsFullyInsideOrOutsideConnections(t *testing.T) {
	focused := map[string]bool{"If": true, "True": true, "False": true}
	conns := ifMergeConns()
	boundaries := Boundaries(conns, focused)
	for _, b := range boundaries {
		assert.NotEqual(t, "If", b.Source, "If -> True/False are both inside the focused set")
	}
}
