// Package focus generates scan views, focused views, dormant
// summaries, and execution-trace ("ghost payload") hints for a
// workflow.
package focus

import "github.com/LunkiBR/n8n-mcp-lite/internal/codec"

// ScanNode is a one-line summary of a node for the full-workflow scan
// view.
type ScanNode struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	ID          string `json:"id"`
	Disabled    bool   `json:"disabled,omitempty"`
	Summary     string `json:"summary,omitempty"`
	OutputCount int    `json:"outputCount,omitempty"`
}

// ScanSegment mirrors a graph.Segment for the scan view.
type ScanSegment struct {
	Router      string   `json:"router"`
	OutputIndex int      `json:"outputIndex"`
	Label       string   `json:"label"`
	Members     []string `json:"members"`
}

// ScanResult is the output of scan_workflow.
type ScanResult struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Active            bool             `json:"active"`
	NodeCount         int              `json:"nodeCount"`
	Nodes             []ScanNode       `json:"nodes"`
	Connections       []codec.LiteConnection `json:"connections"`
	Segments          []ScanSegment    `json:"segments"`
	EstimatedTokens   int              `json:"estimatedTokens"`
	FocusRecommended  bool             `json:"focusRecommended"`
}

// DormantNode is a non-focused node emitted with zone + relationship
// annotations.
type DormantNode struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Zone        string   `json:"zone"`
	Summary     string   `json:"summary,omitempty"`
	OutputsTo   []string `json:"outputsTo,omitempty"`
	InputsFrom  []string `json:"inputsFrom,omitempty"`
	OutputHint  string   `json:"outputHint,omitempty"`
}

// BoundaryView is a boundary crossing as emitted to the client.
type BoundaryView struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Direction   string `json:"direction"`
	OutputIndex int    `json:"outputIndex,omitempty"`
	InputIndex  int    `json:"inputIndex,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ZoneCounts tallies nodes per zone.
type ZoneCounts struct {
	Focused    int `json:"focused"`
	Upstream   int `json:"upstream"`
	Downstream int `json:"downstream"`
	Parallel   int `json:"parallel"`
}

// FocusedView is the output of focus_workflow / expand_focus.
type FocusedView struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	TotalNodes  int                    `json:"totalNodes"`
	Focused     []codec.LiteNode       `json:"focused"`
	Connections []codec.LiteConnection `json:"connections"`
	Dormant     []DormantNode          `json:"dormant"`
	Boundaries  []BoundaryView         `json:"boundaries"`
	ZoneCounts  ZoneCounts             `json:"zoneCounts"`
}

// Selection describes how the caller chose the focused set.
type Selection struct {
	Names          []string // explicit node names
	Router         string   // {router, outputIndex} form
	OutputIndex    int
	MaxDepth       int
	UpstreamLevels int
	From, To       string // {from, to} range form
}

// SelectionError names an invalid focus selection.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string { return e.Reason }
