package focus

import (
	"encoding/json"
	"sort"
	"strconv"
)

const maxGhostKeys = 20

// RunData is the engine's execution-trace shape, restricted to the
// fields the hint builder needs: resultData.runData[nodeName] is a
// list of run attempts; only the last is consulted.
type RunData struct {
	ResultData struct {
		RunData map[string][]NodeRun `json:"runData"`
	} `json:"resultData"`
}

// NodeRun is one execution attempt for a node.
type NodeRun struct {
	Error *json.RawMessage `json:"error,omitempty"`
	Data  struct {
		Main [][]ItemResult `json:"main"`
	} `json:"data"`
}

// ItemResult is one output item; only its JSON field names matter here.
type ItemResult struct {
	JSON map[string]interface{} `json:"json"`
}

// NodeGhost is the per-node ghost-payload record: either an error flag
// with no keys, or a set of output branches each carrying the key
// union for that branch's output index.
type NodeGhost struct {
	Error    bool
	Branches map[int][]string // outputIndex -> keys (capped, sentinel-suffixed)
}

// BuildGhostIndex walks a run-data trace and produces one NodeGhost per
// node that actually ran. Nodes absent from runData are absent here.
func BuildGhostIndex(run *RunData) map[string]NodeGhost {
	out := map[string]NodeGhost{}
	if run == nil {
		return out
	}
	for name, attempts := range run.ResultData.RunData {
		if len(attempts) == 0 {
			continue
		}
		last := attempts[len(attempts)-1]
		if last.Error != nil {
			out[name] = NodeGhost{Error: true}
			continue
		}
		branches := map[int][]string{}
		for outputIdx, items := range last.Data.Main {
			keys := unionKeys(items)
			if keys != nil {
				branches[outputIdx] = keys
			}
		}
		if len(branches) > 0 {
			out[name] = NodeGhost{Branches: branches}
		}
	}
	return out
}

func unionKeys(items []ItemResult) []string {
	seen := map[string]bool{}
	for _, it := range items {
		for k := range it.JSON {
			seen[k] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return capKeys(keys)
}

func capKeys(keys []string) []string {
	if len(keys) <= maxGhostKeys {
		return keys
	}
	extra := len(keys) - maxGhostKeys
	capped := append([]string{}, keys[:maxGhostKeys]...)
	capped = append(capped, sentinel(extra))
	return capped
}

func sentinel(extra int) string {
	return "...+" + strconv.Itoa(extra) + " more"
}

// GhostHintFor computes the hint for a focused node: the union of its
// upstream edges' output keys at the relevant output index. Trigger
// nodes (no incoming edges) receive no hint.
func GhostHintFor(nodeName string, incoming []UpstreamEdge, ghosts map[string]NodeGhost) []string {
	if len(incoming) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var keys []string
	for _, e := range incoming {
		g, ok := ghosts[e.Source]
		if !ok {
			continue
		}
		if g.Error {
			continue
		}
		for _, k := range g.Branches[e.OutputIndex] {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// UpstreamEdge is the minimal shape GhostHintFor needs to look up a
// source node's ghost branch.
type UpstreamEdge struct {
	Source      string
	OutputIndex int
}
