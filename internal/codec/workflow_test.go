package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw() *RawWorkflow {
	return &RawWorkflow{
		ID:     "wf1",
		Name:   "Sample",
		Active: true,
		Nodes: []RawNode{
			{ID: "n1", Name: "Webhook", Type: "n8n-nodes-base.webhook", TypeVersion: 1, Parameters: map[string]interface{}{"path": "hook"}},
			{ID: "n2", Name: "HTTP", Type: "n8n-nodes-base.httpRequest", TypeVersion: 4, Parameters: map[string]interface{}{"url": "https://example.com"},
				Credentials: map[string]RawCredential{"httpBasicAuth": {ID: "cred-1", Name: "My Cred"}}},
		},
		Connections: RawConnections{
			"Webhook": {"main": [][]RawConnectionTarget{{{Node: "HTTP", Type: "main", Index: 0}}}},
		},
	}
}

func TestCompressProducesTopologicallySortedNodes(t *testing.T) {
	lite, err := Compress(sampleRaw())
	require.NoError(t, err)
	require.Len(t, lite.Nodes, 2)
	assert.Equal(t, "Webhook", lite.Nodes[0].Name)
	assert.Equal(t, "HTTP", lite.Nodes[1].Name)
	assert.Equal(t, "httpRequest", lite.Nodes[1].Type)
}

func TestCompressDropsDefaultTypeVersion(t *testing.T) {
	lite, err := Compress(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, float64(0), lite.Nodes[0].TypeVersion, "typeVersion 1 is the default and must be omitted")
	assert.Equal(t, float64(4), lite.Nodes[1].TypeVersion)
}

func TestCompressReducesCredentialsToNameOnly(t *testing.T) {
	lite, err := Compress(sampleRaw())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"httpBasicAuth": "My Cred"}, lite.Nodes[1].Credentials)
}

func TestCompressRejectsNilWorkflow(t *testing.T) {
	_, err := Compress(nil)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "workflow", ce.Field)
}

func TestCompressRejectsUnnamedNode(t *testing.T) {
	raw := sampleRaw()
	raw.Nodes[0].Name = ""
	_, err := Compress(raw)
	require.Error(t, err)
}

func TestReconstructRestoresCredentialIDFromOriginal(t *testing.T) {
	original := sampleRaw()
	lite, err := Compress(original)
	require.NoError(t, err)

	back, err := Reconstruct(lite, original)
	require.NoError(t, err)

	var http *RawNode
	for i := range back.Nodes {
		if back.Nodes[i].Name == "HTTP" {
			http = &back.Nodes[i]
		}
	}
	require.NotNil(t, http)
	assert.Equal(t, "cred-1", http.Credentials["httpBasicAuth"].ID)
	assert.Equal(t, "My Cred", http.Credentials["httpBasicAuth"].Name)
}

func TestReconstructEmitsEmptyCredentialIDWhenUnknown(t *testing.T) {
	lite := &LiteWorkflow{
		Name: "Scratch",
		Nodes: []LiteNode{
			{Name: "HTTP", Type: "httpRequest", Credentials: map[string]string{"httpBasicAuth": "Unknown Cred"}},
		},
	}
	back, err := Reconstruct(lite, nil)
	require.NoError(t, err)
	assert.Equal(t, "", back.Nodes[0].Credentials["httpBasicAuth"].ID)
}

func TestReconstructRejectsDuplicateNodeNames(t *testing.T) {
	lite := &LiteWorkflow{
		Name: "Scratch",
		Nodes: []LiteNode{
			{Name: "Dup", Type: "set"},
			{Name: "Dup", Type: "set"},
		},
	}
	_, err := Reconstruct(lite, nil)
	require.Error(t, err)
}

// TestTypeVersionFallbackOrder covers the documented precedence:
// explicit lite value, then the original node's version, then the
// per-type minimum stable version, then 1.
func TestTypeVersionFallbackOrder(t *testing.T) {
	t.Run("explicit lite value wins", func(t *testing.T) {
		got := resolveTypeVersion(LiteNode{Name: "n", Type: "set", TypeVersion: 5}, RawNode{Name: "n", TypeVersion: 2}, "n8n-nodes-base.set")
		assert.Equal(t, float64(5), got)
	})
	t.Run("falls back to original node version", func(t *testing.T) {
		got := resolveTypeVersion(LiteNode{Name: "n", Type: "set"}, RawNode{Name: "n", TypeVersion: 2}, "n8n-nodes-base.set")
		assert.Equal(t, float64(2), got)
	})
	t.Run("falls back to minimum stable version for known type", func(t *testing.T) {
		got := resolveTypeVersion(LiteNode{Name: "n", Type: "set"}, RawNode{}, "n8n-nodes-base.set")
		assert.Equal(t, float64(3), got)
	})
	t.Run("falls back to 1 for unknown type with no prior node", func(t *testing.T) {
		got := resolveTypeVersion(LiteNode{Name: "n", Type: "customNode"}, RawNode{}, "some.customNode")
		assert.Equal(t, float64(1), got)
	})
}

func TestWorkflowRoundTripPreservesShape(t *testing.T) {
	original := sampleRaw()
	lite, err := Compress(original)
	require.NoError(t, err)
	back, err := Reconstruct(lite, original)
	require.NoError(t, err)

	assert.Equal(t, original.ID, back.ID)
	assert.Equal(t, original.Name, back.Name)
	assert.Equal(t, original.Active, back.Active)
	assert.Len(t, back.Nodes, len(original.Nodes))
	assert.Equal(t, original.Connections, back.Connections)
}
