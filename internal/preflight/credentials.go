package preflight

import (
	"fmt"
	"regexp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)secret\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)token\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{10,}`),
	regexp.MustCompile(`sk-[A-Za-z0-9]{16,}`),
	regexp.MustCompile(`gh[po]_[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`xox[bp]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`AKIA[0-9A-Z]{12,}`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
	regexp.MustCompile(`(?i)(postgres|mysql|mongodb)://[^:\s]+:[^@\s]+@`),
}

// scanCredentialExposure runs phase 3 over every string value of
// length > 8, skipping expression values.
func scanCredentialExposure(nodes []codec.LiteNode, warns *[]Issue) {
	for _, n := range nodes {
		walkStrings(n.Parameters, fmt.Sprintf("nodes[name=%s].parameters", n.Name), 0, map[uintptr]bool{}, func(path, s string) {
			if len(s) <= 8 || isExpressionValue(s) {
				return
			}
			for _, pat := range credentialPatterns {
				if pat.MatchString(s) {
					*warns = append(*warns, Issue{
						Code:    "credential_exposure",
						Path:    path,
						Message: "value appears to contain a hardcoded credential",
						Hint:    "move this value into the credential manager instead of a literal parameter",
					})
					return
				}
			}
		})
	}
}
