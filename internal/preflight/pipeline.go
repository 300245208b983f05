package preflight

import (
	"fmt"
	"time"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
)

// Pipeline orchestrates the expression, config, security, and
// structural validators against a virtual workflow state.
type Pipeline struct {
	idx *knowledge.Index
}

// New builds a pipeline backed by the given knowledge index.
func New(idx *knowledge.Index) *Pipeline {
	return &Pipeline{idx: idx}
}

// Run executes every phase and returns a pass/fail verdict. The
// pipeline passes iff the error list is empty; warnings never block.
//
// Preflight layer 7 (property-location hints) is intentionally
// disabled: without a schema exhaustive enough to list every legal
// top-level parameter per node type, a location-hint check flags
// correctly-placed parameters as misplaced on virtually every real
// workflow. Re-enable only once the embedded schema is complete.
func (p *Pipeline) Run(nodes []codec.LiteNode, conns []codec.LiteConnection) Verdict {
	start := time.Now()
	var errs, warns []Issue

	checkNodeConfigs(nodes, p.idx, &errs, &warns)
	checkExpressions(nodes, &errs, &warns)
	scanCredentialExposure(nodes, &warns)
	checkStructure(nodes, conns, p.idx, &errs, &warns)
	checkDuplicateNames(nodes, &errs)

	v := Verdict{
		Pass:     len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
		Duration: time.Since(start),
	}
	if v.Pass {
		v.Summary = fmt.Sprintf("passed with %d warning(s)", len(warns))
	} else {
		v.Summary = fmt.Sprintf("blocked: %d error(s), %d warning(s)", len(errs), len(warns))
	}
	return v
}
