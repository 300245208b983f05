package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

//go:embed data/knowledge.json
var dataFS embed.FS

// rawData is the on-disk shape of the embedded knowledge file.
type rawData struct {
	Nodes          []NodeSchema        `json:"nodes"`
	Patterns       []Pattern           `json:"patterns"`
	PayloadSchemas []PayloadSchema     `json:"payloadSchemas"`
	Quirks         []Quirk             `json:"quirks"`
	Expressions    []ExpressionRecipe  `json:"expressions"`
}

// Index is the read-only, process-wide knowledge base, built once at
// startup and safely shared across requests (no mutation after Load).
type Index struct {
	nodesByFullType map[string]*NodeSchema
	nodesByShort    map[string]*NodeSchema
	nodesByDisplay  map[string]*NodeSchema // lowercased display name
	allNodes        []*NodeSchema
	patterns        []Pattern
	payloadSchemas  []PayloadSchema
	quirks          []Quirk
	expressions     []ExpressionRecipe
}

// Load reads and indexes the embedded knowledge file.
func Load() (*Index, error) {
	raw, err := dataFS.ReadFile("data/knowledge.json")
	if err != nil {
		return nil, err
	}
	var rd rawData
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, err
	}
	if err := validatePayloadSchemas(rd.PayloadSchemas); err != nil {
		return nil, fmt.Errorf("embedded knowledge base failed schema validation: %w", err)
	}

	idx := &Index{
		nodesByFullType: map[string]*NodeSchema{},
		nodesByShort:    map[string]*NodeSchema{},
		nodesByDisplay:  map[string]*NodeSchema{},
		patterns:        rd.Patterns,
		payloadSchemas:  rd.PayloadSchemas,
		quirks:          rd.Quirks,
		expressions:     rd.Expressions,
	}
	for i := range rd.Nodes {
		n := &rd.Nodes[i]
		idx.nodesByFullType[n.FullType] = n
		idx.nodesByShort[n.ShortType] = n
		idx.nodesByDisplay[strings.ToLower(n.DisplayName)] = n
		idx.allNodes = append(idx.allNodes, n)
	}
	return idx, nil
}

// GetNode resolves a query string as: exact full type; compact-prefix
// form; display name (case-insensitive); the query with each
// recognised prefix re-prepended. Returns nil when unresolvable.
func (idx *Index) GetNode(query string) *NodeSchema {
	if n, ok := idx.nodesByFullType[query]; ok {
		return n
	}
	if n, ok := idx.nodesByShort[query]; ok {
		return n
	}
	if n, ok := idx.nodesByDisplay[strings.ToLower(query)]; ok {
		return n
	}
	compact := codec.CompressType(query)
	if n, ok := idx.nodesByShort[compact]; ok {
		return n
	}
	full := codec.RestoreType(query)
	if n, ok := idx.nodesByFullType[full]; ok {
		return n
	}
	return nil
}

// SearchMode selects whether every token must match (AND) or at least
// one (OR).
type SearchMode string

const (
	ModeAND   SearchMode = "AND"
	ModeOR    SearchMode = "OR"
	ModeFuzzy SearchMode = "FUZZY" // scoring add-on, not a distinct match rule
)

// SearchResult pairs a node with its match score.
type SearchResult struct {
	Node  *NodeSchema
	Score int
}

// SearchNodes scores each node per query token: exact type match 100,
// exact display-name 90, prefix-match 70, contains-in-display 50,
// contains-in-type 40, contains-in-search-tokens 20. In fuzzy mode, an
// additional 15/12 is awarded for one-character deletions / adjacent
// swaps. AND requires every token to match; OR requires at least one.
// source restricts to "core" or "langchain".
func (idx *Index) SearchNodes(query string, mode SearchMode, limit int, source string) []SearchResult {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}
	fuzzy := mode == ModeFuzzy
	requireAll := mode == ModeAND

	var results []SearchResult
	for _, n := range idx.allNodes {
		if source != "" && n.Source != source {
			continue
		}
		total := 0
		matchedTokens := 0
		for _, tok := range tokens {
			score := scoreToken(n, tok, fuzzy)
			if score > 0 {
				matchedTokens++
			}
			total += score
		}
		if requireAll && matchedTokens < len(tokens) {
			continue
		}
		if !requireAll && matchedTokens == 0 {
			continue
		}
		if total > 0 {
			results = append(results, SearchResult{Node: n, Score: total})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func scoreToken(n *NodeSchema, tok string, fuzzy bool) int {
	shortLower := strings.ToLower(n.ShortType)
	fullLower := strings.ToLower(n.FullType)
	displayLower := strings.ToLower(n.DisplayName)

	switch {
	case fullLower == tok || shortLower == tok:
		return 100
	case displayLower == tok:
		return 90
	case strings.HasPrefix(shortLower, tok) || strings.HasPrefix(fullLower, tok):
		return 70
	case strings.Contains(displayLower, tok):
		return 50
	case strings.Contains(fullLower, tok) || strings.Contains(shortLower, tok):
		return 40
	}
	for _, st := range n.SearchTokens {
		if strings.Contains(strings.ToLower(st), tok) {
			return 20
		}
	}
	if fuzzy {
		if oneCharDeletionMatch(shortLower, tok) || oneCharDeletionMatch(displayLower, tok) {
			return 15
		}
		if adjacentSwapMatch(shortLower, tok) || adjacentSwapMatch(displayLower, tok) {
			return 12
		}
	}
	return 0
}

// oneCharDeletionMatch reports whether deleting one character from s
// (or from tok) makes them equal.
func oneCharDeletionMatch(s, tok string) bool {
	return isOneDeletionAway(s, tok) || isOneDeletionAway(tok, s)
}

func isOneDeletionAway(longer, shorter string) bool {
	if len(longer) != len(shorter)+1 {
		return false
	}
	i, j := 0, 0
	skipped := false
	for i < len(longer) && j < len(shorter) {
		if longer[i] == shorter[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		i++
	}
	return true
}

// adjacentSwapMatch reports whether swapping one adjacent character
// pair in tok produces s (or vice versa, same length required).
func adjacentSwapMatch(s, tok string) bool {
	if len(s) != len(tok) || len(tok) < 2 {
		return false
	}
	for i := 0; i < len(tok)-1; i++ {
		swapped := []byte(tok)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		if string(swapped) == s {
			return true
		}
	}
	return false
}

// SearchPatterns is a keyword filter over the embedded pattern recipes.
func (idx *Index) SearchPatterns(query string) []Pattern {
	q := strings.ToLower(query)
	var out []Pattern
	for _, p := range idx.patterns {
		if containsKeyword(p.Name, p.Description, p.Keywords, q) {
			out = append(out, p)
		}
	}
	return out
}

// GetPattern returns the named pattern, or nil.
func (idx *Index) GetPattern(name string) *Pattern {
	for i := range idx.patterns {
		if idx.patterns[i].Name == name {
			return &idx.patterns[i]
		}
	}
	return nil
}

// GetPayloadSchema returns the payload schema for a trigger source, or nil.
func (idx *Index) GetPayloadSchema(source string) *PayloadSchema {
	for i := range idx.payloadSchemas {
		if idx.payloadSchemas[i].Source == source {
			return &idx.payloadSchemas[i]
		}
	}
	return nil
}

// GetQuirks returns quirks documented for a node type.
func (idx *Index) GetQuirks(nodeType string) []Quirk {
	var out []Quirk
	for _, q := range idx.quirks {
		if q.NodeType == nodeType {
			out = append(out, q)
		}
	}
	return out
}

// SearchExpressions is a keyword filter over the expression cookbook.
func (idx *Index) SearchExpressions(query string) []ExpressionRecipe {
	q := strings.ToLower(query)
	var out []ExpressionRecipe
	for _, e := range idx.expressions {
		if containsKeyword(e.Name, e.Expression, e.Keywords, q) {
			out = append(out, e)
		}
	}
	return out
}

// ListProviders returns the distinct node sources known to the index
// ("core", "langchain").
func (idx *Index) ListProviders() []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range idx.allNodes {
		if !seen[n.Source] {
			seen[n.Source] = true
			out = append(out, n.Source)
		}
	}
	sort.Strings(out)
	return out
}

// validatePayloadSchemas sanity-checks that every embedded payload
// schema is itself a well-formed JSON Schema document, so a malformed
// entry fails fast at startup instead of surfacing as a confusing
// downstream error when an agent asks for it.
func validatePayloadSchemas(schemas []PayloadSchema) error {
	for _, p := range schemas {
		loader := gojsonschema.NewStringLoader(p.SchemaJSON)
		if _, err := gojsonschema.NewSchema(loader); err != nil {
			return fmt.Errorf("payload schema %q: %w", p.Source, err)
		}
	}
	return nil
}

func containsKeyword(name, description string, keywords []string, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(description), q) {
		return true
	}
	for _, k := range keywords {
		if strings.Contains(strings.ToLower(k), q) {
			return true
		}
	}
	return false
}
