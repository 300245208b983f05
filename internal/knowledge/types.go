// Package knowledge is an in-memory index over the embedded node
// knowledge base: node schemas, pattern recipes, payload schemas, an
// expression cookbook, and documented quirks.
package knowledge

// PropertySchema describes one configurable property on a node type.
type PropertySchema struct {
	Name        string              `json:"name"`
	DisplayName string              `json:"displayName"`
	Type        string              `json:"type"` // string, number, boolean, options, json, ...
	Required    bool                `json:"required"`
	Options     []string            `json:"options,omitempty"`
	Show        map[string][]string `json:"show,omitempty"` // other-property -> permitted values
}

// ResourceOperations pairs a resource name with its legal operations.
type ResourceOperations struct {
	Resource   string   `json:"resource"`
	Operations []string `json:"operations"`
}

// NodeSchema is the embedded record for one node type.
type NodeSchema struct {
	FullType    string               `json:"fullType"`
	ShortType   string               `json:"shortType"`
	DisplayName string               `json:"displayName"`
	Source      string               `json:"source"` // "core" or "langchain"
	Description string               `json:"description,omitempty"`
	Properties  []PropertySchema     `json:"properties,omitempty"`
	Resources   []ResourceOperations `json:"resources,omitempty"`
	SearchTokens []string            `json:"searchTokens,omitempty"`
	IsTrigger   bool                 `json:"isTrigger,omitempty"`
}

// Pattern is a recipe: a small, named combination of nodes solving a
// common problem.
type Pattern struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	NodeTypes   []string `json:"nodeTypes"`
	Keywords    []string `json:"keywords,omitempty"`
}

// PayloadSchema documents the shape of a webhook payload for a given
// trigger source.
type PayloadSchema struct {
	Source      string `json:"source"`
	Description string `json:"description"`
	SchemaJSON  string `json:"schemaJson"`
}

// Quirk documents a surprising, non-obvious behavior of a node type.
type Quirk struct {
	NodeType    string `json:"nodeType"`
	Description string `json:"description"`
}

// ExpressionRecipe is one cookbook entry for the expression language.
type ExpressionRecipe struct {
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Keywords   []string `json:"keywords,omitempty"`
}
