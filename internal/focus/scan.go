package focus

import (
	"encoding/json"
	"sort"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/graph"
)

const (
	tokenEstimateThreshold = 8000
	nodeCountThreshold     = 30
)

// BuildScan assembles the full-workflow scan view: one summary line per
// node, compressed connections, output counts, detected branch
// segments, and a token estimate driving focusRecommended.
func BuildScan(raw *codec.RawWorkflow) (*ScanResult, error) {
	lite, err := codec.Compress(raw)
	if err != nil {
		return nil, err
	}

	order := codec.TopoSort(nodeNames(lite.Nodes), lite.Connections)
	byName := indexByName(lite.Nodes)

	g := graph.Build(lite.Connections)
	outputCounts := map[string]int{}
	for _, c := range lite.Connections {
		if c.OutputIndex+1 > outputCounts[c.Source] {
			outputCounts[c.Source] = c.OutputIndex + 1
		}
	}

	var nodes []ScanNode
	estimate := 0
	for _, name := range order {
		n, ok := byName[name]
		if !ok {
			continue
		}
		sn := ScanNode{
			Name:        n.Name,
			Type:        n.Type,
			ID:          n.ID,
			Disabled:    n.Disabled,
			Summary:     Summarize(n),
			OutputCount: outputCounts[n.Name],
		}
		nodes = append(nodes, sn)
		estimate += 20 + serializedLen(n.Parameters)/4
	}

	var segments []ScanSegment
	for _, seg := range g.Segments() {
		segments = append(segments, ScanSegment{
			Router:      seg.Router,
			OutputIndex: seg.OutputIndex,
			Label:       seg.Label,
			Members:     sortedSetKeys(seg.Members),
		})
	}

	focusRecommended := estimate > tokenEstimateThreshold || len(lite.Nodes) > nodeCountThreshold

	return &ScanResult{
		ID:               lite.ID,
		Name:             lite.Name,
		Active:           lite.Active,
		NodeCount:        len(lite.Nodes),
		Nodes:            nodes,
		Connections:      lite.Connections,
		Segments:         segments,
		EstimatedTokens:  estimate,
		FocusRecommended: focusRecommended,
	}, nil
}

func serializedLen(params map[string]interface{}) int {
	if len(params) == 0 {
		return 0
	}
	b, err := json.Marshal(params)
	if err != nil {
		return 0
	}
	return len(b)
}

func nodeNames(nodes []codec.LiteNode) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func indexByName(nodes []codec.LiteNode) map[string]codec.LiteNode {
	m := make(map[string]codec.LiteNode, len(nodes))
	for _, n := range nodes {
		m[n.Name] = n
	}
	return m
}

func sortedSetKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
