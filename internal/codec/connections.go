package codec

import "sort"

// CompressConnections emits one LiteConnection per
// {source, output-kind, output-index, target} quadruple found in the
// raw three-level connection map.
func CompressConnections(raw RawConnections) []LiteConnection {
	var out []LiteConnection
	sources := sortedKeys(raw)
	for _, source := range sources {
		kinds := raw[source]
		kindNames := sortedStringKeys(kinds)
		for _, kind := range kindNames {
			outputs := kinds[kind]
			for outIdx, targets := range outputs {
				for _, t := range targets {
					lc := LiteConnection{
						Source: source,
						Target: t.Node,
					}
					if kind != defaultOutputKind {
						lc.Type = kind
					}
					if outIdx != 0 {
						lc.OutputIndex = outIdx
					}
					if t.Index != 0 {
						lc.InputIndex = t.Index
					}
					out = append(out, lc)
				}
			}
		}
	}
	return out
}

// ReconstructConnections groups lite connections back into the raw
// three-level map.
//
// Contract for input-index assignment: for each (target, output-kind)
// pair, a connection with a non-zero InputIndex reserves that slot
// explicitly. A connection with InputIndex == 0 is implicit — the lite
// form omits "inputIndex" whenever it is 0, so 0 can never be
// distinguished from "not specified" on the wire — and is assigned the
// next free slot starting from that pair's high-water mark. This is
// why a convergence node (e.g. a merge) fed by two implicit branches
// lands on ports 0 and 1 rather than both colliding on 0, which would
// prevent it from ever firing.
func ReconstructConnections(conns []LiteConnection) RawConnections {
	raw := RawConnections{}
	reserved := map[string]map[int]bool{}
	highWater := map[string]int{}

	pairKey := func(target, kind string) string { return target + "\x00" + kind }

	for _, c := range conns {
		kind := normalizeKind(c.Type)
		if c.InputIndex != 0 {
			pk := pairKey(c.Target, kind)
			if reserved[pk] == nil {
				reserved[pk] = map[int]bool{}
			}
			reserved[pk][c.InputIndex] = true
		}
	}

	assignIndex := func(target, kind string, idx int) int {
		if idx != 0 {
			return idx
		}
		pk := pairKey(target, kind)
		if reserved[pk] == nil {
			reserved[pk] = map[int]bool{}
		}
		next := highWater[pk]
		for reserved[pk][next] {
			next++
		}
		reserved[pk][next] = true
		highWater[pk] = next + 1
		return next
	}

	for _, c := range conns {
		kind := normalizeKind(c.Type)
		inputIdx := assignIndex(c.Target, kind, c.InputIndex)

		if raw[c.Source] == nil {
			raw[c.Source] = map[string][][]RawConnectionTarget{}
		}
		outputs := raw[c.Source][kind]
		for len(outputs) <= c.OutputIndex {
			outputs = append(outputs, nil)
		}
		outputs[c.OutputIndex] = append(outputs[c.OutputIndex], RawConnectionTarget{
			Node:  c.Target,
			Type:  kind,
			Index: inputIdx,
		})
		raw[c.Source][kind] = outputs
	}

	return raw
}

func normalizeKind(kind string) string {
	if kind == "" {
		return defaultOutputKind
	}
	return kind
}

func sortedKeys(m RawConnections) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string][][]RawConnectionTarget) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
