package approval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LunkiBR/n8n-mcp-lite/internal/logging"
)

// AuditEntry is one append-only audit-log line.
type AuditEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	Tool       string      `json:"tool"`
	WorkflowID *string     `json:"workflowId"`
	Summary    string      `json:"summary"`
	Approved   bool        `json:"approved"`
	Result     interface{} `json:"result"`
}

// AuditLog appends one JSON object per line to a file. Write failures
// are logged and swallowed: an audit-log failure must never block a
// mutation.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

// NewAuditLog builds a log writer rooted at root/audit.log.
func NewAuditLog(root string) *AuditLog {
	return &AuditLog{path: filepath.Join(root, "audit.log")}
}

// Append writes one entry. Errors are logged, never returned, per the
// propagation policy: snapshot and audit-log failures are swallowed
// with a logged warning.
func (a *AuditLog) Append(entry AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		logging.Warn("audit log directory create failed", "error", err)
		return
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logging.Warn("audit log open failed", "error", err)
		return
	}
	defer f.Close()

	line, err := json.Marshal(entry)
	if err != nil {
		logging.Warn("audit log encode failed", "error", err)
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		logging.Warn("audit log write failed", "error", err)
	}
}
