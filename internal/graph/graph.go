// Package graph builds adjacency structures over lite connections and
// answers the reachability, branch, range, zone, segment, and boundary
// questions the focus engine and auto-layout depend on.
package graph

import (
	"strconv"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

// Edge is one adjacency entry, carrying enough of the original
// connection to reconstruct branch semantics.
type Edge struct {
	Node        string
	OutputIndex int
	InputIndex  int
	Kind        string
}

// Graph is a pair of adjacency maps built from a connection list.
type Graph struct {
	Forward map[string][]Edge // source -> targets
	Reverse map[string][]Edge // target -> sources
}

// Build constructs forward and reverse adjacency from lite connections.
func Build(conns []codec.LiteConnection) *Graph {
	g := &Graph{Forward: map[string][]Edge{}, Reverse: map[string][]Edge{}}
	for _, c := range conns {
		kind := c.Type
		if kind == "" {
			kind = "main"
		}
		g.Forward[c.Source] = append(g.Forward[c.Source], Edge{Node: c.Target, OutputIndex: c.OutputIndex, InputIndex: c.InputIndex, Kind: kind})
		g.Reverse[c.Target] = append(g.Reverse[c.Target], Edge{Node: c.Source, OutputIndex: c.OutputIndex, InputIndex: c.InputIndex, Kind: kind})
	}
	return g
}

// BFSForward visits every node reachable forward from starts, up to
// maxDepth hops (0 = unlimited), excluding names in exclude. Queue
// order is FIFO; each node is visited at most once. Starts are
// included in the returned set as depth-0 entries unless they are
// excluded; the returned set never contains excluded names.
func (g *Graph) BFSForward(starts []string, maxDepth int, exclude map[string]bool) map[string]bool {
	return g.bfs(g.Forward, starts, maxDepth, exclude)
}

// BFSBackward is BFSForward over the reverse adjacency.
func (g *Graph) BFSBackward(starts []string, maxDepth int, exclude map[string]bool) map[string]bool {
	return g.bfs(g.Reverse, starts, maxDepth, exclude)
}

type queueItem struct {
	name  string
	depth int
}

func (g *Graph) bfs(adj map[string][]Edge, starts []string, maxDepth int, exclude map[string]bool) map[string]bool {
	visited := map[string]bool{}
	var queue []queueItem
	for _, s := range starts {
		if exclude != nil && exclude[s] {
			continue
		}
		if !visited[s] {
			visited[s] = true
			queue = append(queue, queueItem{s, 0})
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}
		for _, e := range adj[cur.name] {
			if exclude != nil && exclude[e.Node] {
				continue
			}
			if visited[e.Node] {
				continue
			}
			visited[e.Node] = true
			queue = append(queue, queueItem{e.Node, cur.depth + 1})
		}
	}
	return visited
}

// FollowBranch collects the immediate targets of a specific output
// index on a branching source, then BFS-forwards from those targets
// following all outputs of downstream nodes. The branching source
// itself is always included in the result.
func (g *Graph) FollowBranch(router string, outputIndex int) map[string]bool {
	result := map[string]bool{router: true}
	var immediate []string
	for _, e := range g.Forward[router] {
		if e.OutputIndex == outputIndex {
			immediate = append(immediate, e.Node)
		}
	}
	reached := g.BFSForward(immediate, 0, nil)
	for n := range reached {
		result[n] = true
	}
	for _, n := range immediate {
		result[n] = true
	}
	return result
}

// Range returns the nodes "between" start and end: the intersection of
// nodes forward-reachable from start and backward-reachable from end.
// Both endpoints are always included. If the intersection (other than
// the endpoints) is empty and start != end, the result still carries
// just the two endpoints.
func (g *Graph) Range(start, end string) map[string]bool {
	fwd := g.BFSForward([]string{start}, 0, nil)
	fwd[start] = true
	back := g.BFSBackward([]string{end}, 0, nil)
	back[end] = true

	result := map[string]bool{}
	for n := range fwd {
		if back[n] {
			result[n] = true
		}
	}
	result[start] = true
	result[end] = true
	return result
}

// Zone classifies every node outside the focused set.
type Zone string

const (
	ZoneFocused    Zone = "focused"
	ZoneUpstream   Zone = "upstream"
	ZoneDownstream Zone = "downstream"
	ZoneParallel   Zone = "parallel"
)

// Classify assigns a zone to every name in allNames given the focused
// set. Downstream takes precedence over upstream for nodes reachable
// both ways (convergence nodes), so post-merge paths are shown as
// downstream.
func (g *Graph) Classify(allNames []string, focused map[string]bool) map[string]Zone {
	var focusedList []string
	for n := range focused {
		focusedList = append(focusedList, n)
	}
	downstreamReach := g.BFSForward(focusedList, 0, nil)
	upstreamReach := g.BFSBackward(focusedList, 0, nil)

	zones := make(map[string]Zone, len(allNames))
	for _, n := range allNames {
		switch {
		case focused[n]:
			zones[n] = ZoneFocused
		case downstreamReach[n]:
			zones[n] = ZoneDownstream
		case upstreamReach[n]:
			zones[n] = ZoneUpstream
		default:
			zones[n] = ZoneParallel
		}
	}
	return zones
}

// Segment is one branch of a router, labeled for display.
type Segment struct {
	Router      string
	OutputIndex int
	Label       string
	Members     map[string]bool
}

// Segments returns one segment per output index (0..max) for every
// router (a source with any connection whose output index >= 1).
// Segments with no members are omitted.
func (g *Graph) Segments() []Segment {
	routers := map[string]int{} // router -> max output index seen
	for source, edges := range g.Forward {
		for _, e := range edges {
			if e.OutputIndex >= 1 && e.OutputIndex > routers[source] {
				routers[source] = e.OutputIndex
			}
		}
	}
	var out []Segment
	for router, maxIdx := range routers {
		for i := 0; i <= maxIdx; i++ {
			branch := g.FollowBranch(router, i)
			delete(branch, router)
			if len(branch) == 0 {
				continue
			}
			out = append(out, Segment{
				Router:      router,
				OutputIndex: i,
				Label:       segmentLabel(router, i, maxIdx),
				Members:     branch,
			})
		}
	}
	return out
}

func segmentLabel(router string, index, maxIndex int) string {
	if maxIndex == 1 {
		if index == 0 {
			return router + ": true branch"
		}
		return router + ": false branch"
	}
	return router + ": output " + strconv.Itoa(index)
}

// Boundary is one connection crossing the focused set's border.
type Boundary struct {
	Source      string
	Target      string
	Direction   string // "entry" or "exit"
	OutputIndex int
	InputIndex  int
	Kind        string
}

// Boundaries emits one entry per connection crossing the focused set:
// entry when source is outside and target inside, exit in the
// opposite case.
func Boundaries(conns []codec.LiteConnection, focused map[string]bool) []Boundary {
	var out []Boundary
	for _, c := range conns {
		srcIn := focused[c.Source]
		tgtIn := focused[c.Target]
		if srcIn == tgtIn {
			continue
		}
		b := Boundary{Source: c.Source, Target: c.Target, OutputIndex: c.OutputIndex, InputIndex: c.InputIndex, Kind: c.Type}
		if tgtIn {
			b.Direction = "entry"
		} else {
			b.Direction = "exit"
		}
		out = append(out, b)
	}
	return out
}
