package focus

import (
	"fmt"
	"sort"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/graph"
)

// ResolveSelection turns a Selection into a concrete focused-name set,
// validating against the three selection shapes named in the spec:
// explicit names, {router, outputIndex[, maxDepth]}, and {from, to}.
func ResolveSelection(sel Selection, allNames []string, g *graph.Graph) (map[string]bool, error) {
	known := map[string]bool{}
	for _, n := range allNames {
		known[n] = true
	}

	switch {
	case len(sel.Names) > 0:
		focused := map[string]bool{}
		for _, n := range sel.Names {
			if !known[n] {
				return nil, &SelectionError{Reason: fmt.Sprintf("unknown node %q", n)}
			}
			focused[n] = true
		}
		return focused, nil

	case sel.Router != "":
		if !known[sel.Router] {
			return nil, &SelectionError{Reason: fmt.Sprintf("unknown router node %q", sel.Router)}
		}
		branch := g.FollowBranch(sel.Router, sel.OutputIndex)
		if len(branch) <= 1 {
			return nil, &SelectionError{Reason: fmt.Sprintf("branch %q output %d has no members", sel.Router, sel.OutputIndex)}
		}
		if sel.MaxDepth > 0 {
			branch = limitDepth(g, sel.Router, sel.OutputIndex, branch, sel.MaxDepth)
		}
		if sel.UpstreamLevels > 0 {
			up := g.BFSBackward([]string{sel.Router}, sel.UpstreamLevels, nil)
			for n := range up {
				branch[n] = true
			}
		}
		return branch, nil

	case sel.From != "" && sel.To != "":
		if !known[sel.From] {
			return nil, &SelectionError{Reason: fmt.Sprintf("unknown node %q", sel.From)}
		}
		if !known[sel.To] {
			return nil, &SelectionError{Reason: fmt.Sprintf("unknown node %q", sel.To)}
		}
		rng := g.Range(sel.From, sel.To)
		if len(rng) == 0 {
			return nil, &SelectionError{Reason: fmt.Sprintf("no path from %q to %q", sel.From, sel.To)}
		}
		return rng, nil

	default:
		return nil, &SelectionError{Reason: "no focus selection provided"}
	}
}

// limitDepth re-runs a forward BFS from the branch's immediate members
// capped at maxDepth hops, intersected with the original branch so the
// router and the immediate branch entries are preserved regardless.
func limitDepth(g *graph.Graph, router string, outputIndex int, branch map[string]bool, maxDepth int) map[string]bool {
	var starts []string
	for _, e := range g.Forward[router] {
		if e.OutputIndex == outputIndex {
			starts = append(starts, e.Node)
		}
	}
	reached := g.BFSForward(starts, maxDepth, nil)
	out := map[string]bool{router: true}
	for n := range reached {
		if branch[n] {
			out[n] = true
		}
	}
	for _, s := range starts {
		if branch[s] {
			out[s] = true
		}
	}
	return out
}

// BuildFocus assembles the focused view: zone classification, full
// lite detail for the focused set, dormant records for everyone else,
// boundary crossings, and per-zone counts. When run is non-nil, ghost
// hints are attached to focused nodes; output hints are attached to
// upstream dormant nodes whether or not run is given.
func BuildFocus(raw *codec.RawWorkflow, focusedNames map[string]bool, run *RunData) (*FocusedView, error) {
	lite, err := codec.Compress(raw)
	if err != nil {
		return nil, err
	}

	allNames := nodeNames(lite.Nodes)
	byName := indexByName(lite.Nodes)
	g := graph.Build(lite.Connections)
	zones := g.Classify(allNames, focusedNames)

	var ghosts map[string]NodeGhost
	if run != nil {
		ghosts = BuildGhostIndex(run)
	}

	var focusedNodes []codec.LiteNode
	for _, name := range allNames {
		if !focusedNames[name] {
			continue
		}
		n := byName[name]
		if ghosts != nil {
			incoming := upstreamEdges(g, name)
			if hint := GhostHintFor(name, incoming, ghosts); len(hint) > 0 {
				n.InputHint = hint
			}
		}
		focusedNodes = append(focusedNodes, n)
	}

	var innerConns []codec.LiteConnection
	for _, c := range lite.Connections {
		if focusedNames[c.Source] && focusedNames[c.Target] {
			innerConns = append(innerConns, c)
		}
	}

	var dormant []DormantNode
	counts := ZoneCounts{}
	for _, name := range allNames {
		zone := zones[name]
		switch zone {
		case graph.ZoneFocused:
			counts.Focused++
			continue
		case graph.ZoneUpstream:
			counts.Upstream++
		case graph.ZoneDownstream:
			counts.Downstream++
		case graph.ZoneParallel:
			counts.Parallel++
		}

		n := byName[name]
		d := DormantNode{
			Name:    n.Name,
			Type:    n.Type,
			ID:      n.ID,
			Zone:    string(zone),
			Summary: Summarize(n),
		}
		switch zone {
		case graph.ZoneUpstream:
			d.OutputsTo = sortedFocusedTargets(g.Forward[name], focusedNames)
			d.OutputHint = outputHint(n)
		case graph.ZoneDownstream:
			d.InputsFrom = sortedFocusedTargets(g.Reverse[name], focusedNames)
		}
		dormant = append(dormant, d)
	}

	var boundaries []BoundaryView
	for _, b := range graph.Boundaries(lite.Connections, focusedNames) {
		boundaries = append(boundaries, BoundaryView{
			Source:      b.Source,
			Target:      b.Target,
			Direction:   b.Direction,
			OutputIndex: b.OutputIndex,
			InputIndex:  b.InputIndex,
			Type:        b.Kind,
		})
	}

	return &FocusedView{
		ID:          lite.ID,
		Name:        lite.Name,
		TotalNodes:  len(lite.Nodes),
		Focused:     focusedNodes,
		Connections: innerConns,
		Dormant:     dormant,
		Boundaries:  boundaries,
		ZoneCounts:  counts,
	}, nil
}

func upstreamEdges(g *graph.Graph, name string) []UpstreamEdge {
	edges := g.Reverse[name]
	out := make([]UpstreamEdge, len(edges))
	for i, e := range edges {
		out[i] = UpstreamEdge{Source: e.Node, OutputIndex: e.OutputIndex}
	}
	return out
}

// sortedFocusedTargets returns the distinct, focused-only node names
// among edges: outputsTo/inputsFrom only ever name focused targets or
// sources, per the dormant-node annotation contract.
func sortedFocusedTargets(edges []graph.Edge, focused map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range edges {
		if !focused[e.Node] || seen[e.Node] {
			continue
		}
		seen[e.Node] = true
		out = append(out, e.Node)
	}
	sort.Strings(out)
	return out
}
