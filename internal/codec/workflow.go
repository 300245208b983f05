package codec

import "fmt"

// Compress converts a raw workflow into its lite projection.
func Compress(raw *RawWorkflow) (*LiteWorkflow, error) {
	if raw == nil {
		return nil, &CodecError{Field: "workflow"}
	}
	if raw.Nodes == nil {
		return nil, &CodecError{Field: "nodes"}
	}

	names := make([]string, 0, len(raw.Nodes))
	byName := make(map[string]RawNode, len(raw.Nodes))
	for _, n := range raw.Nodes {
		if n.Name == "" {
			return nil, &CodecError{Field: "nodes[].name"}
		}
		names = append(names, n.Name)
		byName[n.Name] = n
	}

	liteConns := CompressConnections(raw.Connections)
	order := TopoSort(names, liteConns)

	liteNodes := make([]LiteNode, 0, len(order))
	for _, name := range order {
		n := byName[name]
		ln := LiteNode{
			ID:         n.ID,
			Name:       n.Name,
			Type:       CompressType(n.Type),
			Parameters: CleanParameters(n.Parameters),
			Disabled:   n.Disabled,
			OnError:    normalizeOnError(n.OnError),
			Notes:      n.Notes,
		}
		if n.TypeVersion != 0 && n.TypeVersion != 1 {
			ln.TypeVersion = n.TypeVersion
		}
		if len(n.Credentials) > 0 {
			ln.Credentials = map[string]string{}
			for slot, cred := range n.Credentials {
				ln.Credentials[slot] = cred.Name
			}
		}
		liteNodes = append(liteNodes, ln)
	}

	lw := &LiteWorkflow{
		ID:       raw.ID,
		Name:     raw.Name,
		Active:   raw.Active,
		Nodes:    liteNodes,
		Connections: liteConns,
		Settings: nonDefaultSettings(raw.Settings),
	}
	for _, t := range raw.Tags {
		lw.Tags = append(lw.Tags, t.Name)
	}
	return lw, nil
}

// normalizeOnError returns "" for the engine's default error mode so
// it is omitted from the lite form.
func normalizeOnError(mode string) string {
	if mode == "" || mode == "stopWorkflow" {
		return ""
	}
	return mode
}

func nonDefaultSettings(s map[string]interface{}) map[string]interface{} {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Reconstruct rebuilds a raw workflow from its lite form. original, if
// non-nil, is the raw workflow most recently fetched for this
// workflow; it is used to recover omitted typeVersions, credential
// IDs, and any bloat fields to pass through unchanged on an update.
func Reconstruct(lite *LiteWorkflow, original *RawWorkflow) (*RawWorkflow, error) {
	if lite == nil {
		return nil, &CodecError{Field: "workflow"}
	}

	originalByName := map[string]RawNode{}
	if original != nil {
		for _, n := range original.Nodes {
			originalByName[n.Name] = n
		}
	}

	seenNames := map[string]bool{}
	nodes := make([]RawNode, 0, len(lite.Nodes))
	for _, ln := range lite.Nodes {
		if ln.Name == "" {
			return nil, &CodecError{Field: "nodes[].name"}
		}
		if seenNames[ln.Name] {
			return nil, &CodecError{Field: fmt.Sprintf("nodes[name=%s]", ln.Name)}
		}
		seenNames[ln.Name] = true

		fullType := RestoreType(ln.Type)
		rn := RawNode{
			ID:         ln.ID,
			Name:       ln.Name,
			Type:       fullType,
			Parameters: RestoreParameters(ln.Parameters),
			Disabled:   ln.Disabled,
			OnError:    ln.OnError,
			Notes:      ln.Notes,
		}
		rn.TypeVersion = resolveTypeVersion(ln, originalByName[ln.Name], fullType)

		if len(ln.Credentials) > 0 {
			rn.Credentials = map[string]RawCredential{}
			origCreds := originalByName[ln.Name].Credentials
			for slot, name := range ln.Credentials {
				id := ""
				if origCreds != nil {
					if origCred, ok := origCreds[slot]; ok && origCred.Name == name {
						id = origCred.ID
					}
				}
				rn.Credentials[slot] = RawCredential{ID: id, Name: name}
			}
		}
		nodes = append(nodes, rn)
	}

	raw := &RawWorkflow{
		ID:          lite.ID,
		Name:        lite.Name,
		Active:      lite.Active,
		Nodes:       nodes,
		Connections: ReconstructConnections(lite.Connections),
		Settings:    lite.Settings,
	}
	for _, tag := range lite.Tags {
		raw.Tags = append(raw.Tags, RawTag{Name: tag})
	}
	if original != nil {
		raw.VersionID = original.VersionID
		raw.CreatedAt = original.CreatedAt
		raw.StaticData = original.StaticData
		raw.Meta = original.Meta
		raw.PinData = original.PinData
		for i, tag := range raw.Tags {
			for _, ot := range original.Tags {
				if ot.Name == tag.Name {
					raw.Tags[i].ID = ot.ID
				}
			}
		}
	}
	return raw, nil
}

// resolveTypeVersion implements the ordered fallback: explicit lite
// value; the original raw node's version if updating; the minimum
// stable version for the type; finally 1.
func resolveTypeVersion(ln LiteNode, original RawNode, fullType string) float64 {
	if ln.TypeVersion != 0 {
		return ln.TypeVersion
	}
	if original.Name == ln.Name && original.TypeVersion != 0 {
		return original.TypeVersion
	}
	if v, ok := MinTypeVersions[ln.Type]; ok {
		return v
	}
	_ = fullType
	return 1
}
