// Package layout assigns 2-D coordinates to a new workflow's nodes so
// the engine's editor displays them readably: X from BFS layering, Y
// from DFS lane fan-out, then pixel-ified.
package layout

import (
	"sort"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/graph"
)

const (
	xBase, xStep = 240.0, 250.0
	yBase, yStep = 300.0, 200.0
)

// Position is a node's assigned coordinate.
type Position struct {
	X float64
	Y float64
}

// Assign computes a position for every node name given the workflow's
// connections.
func Assign(names []string, conns []codec.LiteConnection) map[string]Position {
	g := graph.Build(conns)
	layers := assignLayers(names, g)
	lanes := assignLanes(names, g, layers)

	pos := make(map[string]Position, len(names))
	for _, n := range names {
		pos[n] = Position{
			X: xBase + float64(layers[n])*xStep,
			Y: yBase + float64(lanes[n])*yStep,
		}
	}
	return pos
}

// assignLayers runs BFS from every node with empty incoming adjacency.
// A node's layer is the max over predecessors of (predecessor layer +
// 1); a node is re-queued whenever its layer increases. The whole pass
// is bounded by a hard iteration cap proportional to N^2 to guarantee
// termination on cyclic input. Disconnected nodes default to layer 0.
func assignLayers(names []string, g *graph.Graph) map[string]int {
	layer := make(map[string]int, len(names))
	for _, n := range names {
		layer[n] = 0
	}

	var roots []string
	for _, n := range names {
		if len(g.Reverse[n]) == 0 {
			roots = append(roots, n)
		}
	}

	queue := append([]string{}, roots...)
	iterationCap := len(names)*len(names) + len(names) + 16
	iterations := 0
	for len(queue) > 0 && iterations < iterationCap {
		iterations++
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.Forward[n] {
			candidate := layer[n] + 1
			if candidate > layer[e.Node] {
				layer[e.Node] = candidate
				queue = append(queue, e.Node)
			}
		}
	}
	return layer
}

// assignLanes runs DFS from each root, each disconnected root starting
// two lanes below the previous root's maximum. At a branching node,
// children are distributed symmetrically around the parent's lane
// (offset = index - (count-1)/2). Non-branching nodes propagate their
// parent's lane. After the initial DFS, convergence nodes (in-degree >
// 1) take the mean of their incoming nodes' lanes, propagated forward
// through any single-parent chain.
func assignLanes(names []string, g *graph.Graph, layer map[string]int) map[string]float64 {
	lane := make(map[string]float64, len(names))
	visited := make(map[string]bool, len(names))

	var roots []string
	for _, n := range names {
		if len(g.Reverse[n]) == 0 {
			roots = append(roots, n)
		}
	}
	sort.Strings(roots)

	nextRootLane := 0.0
	for _, r := range roots {
		if visited[r] {
			continue
		}
		maxLane := dfsLane(g, r, nextRootLane, lane, visited)
		nextRootLane = maxLane + 2
	}
	// Disconnected nodes unreached by any root DFS (shouldn't normally
	// happen since every node with no incoming edge is a root, but a
	// cyclic subgraph with no entry point needs a fallback).
	for _, n := range names {
		if !visited[n] {
			visited[n] = true
			lane[n] = nextRootLane
			nextRootLane += 2
		}
	}

	resolveConvergence(names, g, lane)
	return lane
}

func dfsLane(g *graph.Graph, start string, startLane float64, lane map[string]float64, visited map[string]bool) float64 {
	lane[start] = startLane
	visited[start] = true
	maxLane := startLane

	edges := append([]graph.Edge{}, g.Forward[start]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].OutputIndex < edges[j].OutputIndex })

	// Group children by output index to detect branching.
	byOutput := map[int][]string{}
	var outputOrder []int
	for _, e := range edges {
		if visited[e.Node] {
			continue
		}
		if _, ok := byOutput[e.OutputIndex]; !ok {
			outputOrder = append(outputOrder, e.OutputIndex)
		}
		byOutput[e.OutputIndex] = append(byOutput[e.OutputIndex], e.Node)
	}

	distinctOutputs := len(outputOrder)
	if distinctOutputs <= 1 {
		for _, children := range byOutput {
			for _, c := range children {
				if visited[c] {
					continue
				}
				childMax := dfsLane(g, c, startLane, lane, visited)
				if childMax > maxLane {
					maxLane = childMax
				}
			}
		}
		return maxLane
	}

	sort.Ints(outputOrder)
	count := float64(distinctOutputs)
	for i, outIdx := range outputOrder {
		offset := float64(i) - (count-1)/2
		childLane := startLane + offset
		for _, c := range byOutput[outIdx] {
			if visited[c] {
				continue
			}
			childMax := dfsLane(g, c, childLane, lane, visited)
			if childMax > maxLane {
				maxLane = childMax
			}
		}
	}
	return maxLane
}

// resolveConvergence recomputes the lane of every in-degree>1 node as
// the mean of its incoming nodes' lanes, then propagates that forward
// through any chain of single-parent successors.
func resolveConvergence(names []string, g *graph.Graph, lane map[string]float64) {
	for _, n := range names {
		preds := g.Reverse[n]
		if len(preds) <= 1 {
			continue
		}
		sum := 0.0
		for _, p := range preds {
			sum += lane[p.Node]
		}
		newLane := sum / float64(len(preds))
		lane[n] = newLane
		propagateForward(g, n, newLane, lane, map[string]bool{n: true})
	}
}

func propagateForward(g *graph.Graph, from string, laneVal float64, lane map[string]float64, visited map[string]bool) {
	for _, e := range g.Forward[from] {
		if visited[e.Node] {
			continue
		}
		if len(g.Reverse[e.Node]) != 1 {
			continue
		}
		visited[e.Node] = true
		lane[e.Node] = laneVal
		propagateForward(g, e.Node, laneVal, lane, visited)
	}
}
