package codec

import "strings"

const (
	basePrefix    = "n8n-nodes-base."
	langchainFull = "@n8n/n8n-nodes-langchain."
	langchainSig  = "langchain:"
)

// CompressType strips a recognized prefix from a full node type,
// leaving anything already qualified (contains a dot, or already
// starts with the langchain shorthand) untouched.
func CompressType(full string) string {
	if strings.HasPrefix(full, basePrefix) {
		return strings.TrimPrefix(full, basePrefix)
	}
	if strings.HasPrefix(full, langchainFull) {
		return langchainSig + strings.TrimPrefix(full, langchainFull)
	}
	return full
}

// RestoreType re-prepends the recognized prefix to a compact type. A
// type that already looks fully qualified is returned unchanged.
func RestoreType(short string) string {
	if strings.HasPrefix(short, langchainSig) {
		return langchainFull + strings.TrimPrefix(short, langchainSig)
	}
	if looksFullyQualified(short) {
		return short
	}
	return basePrefix + short
}

func looksFullyQualified(short string) bool {
	return strings.Contains(short, ".") || strings.HasPrefix(short, "@")
}
