// Package approval implements the optional two-phase commit gate and
// the append-only audit log. Token storage is in-memory only;
// restarts drop any pending operation (see DESIGN.md's note on this
// open question).
package approval

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const pendingTTL = 10 * time.Minute

// Pending is one outstanding two-phase-commit token.
type Pending struct {
	Token     string
	ToolName  string
	Summary   string
	CreatedAt time.Time
}

func (p Pending) expired(now time.Time) bool {
	return now.Sub(p.CreatedAt) > pendingTTL
}

// Gate holds the approval-enabled flag and the in-memory pending table.
// All access is serialized by the single MCP dispatch loop, so no
// locking would strictly be required; the mutex here guards against a
// future transport that dispatches concurrently and costs nothing on
// the current single-threaded path.
type Gate struct {
	mu      sync.Mutex
	enabled bool
	pending map[string]Pending

	entropy *ulid.MonotonicEntropy
}

// New builds a gate with the given initial enabled state.
func New(enabled bool) *Gate {
	return &Gate{
		enabled: enabled,
		pending: map[string]Pending{},
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Enabled reports whether the approval gate is currently on.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// SetEnabled toggles the gate at runtime.
func (g *Gate) SetEnabled(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enabled = enabled
}

// RequestApproval records a new pending operation and returns its
// token. Purges expired entries lazily as a side effect.
func (g *Gate) RequestApproval(toolName, summary string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.purgeExpired(time.Now())

	token := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
	g.pending[token] = Pending{Token: token, ToolName: toolName, Summary: summary, CreatedAt: time.Now()}
	return token
}

// Consume validates and removes a pending token for the given tool.
// Returns false for an unknown, expired, or tool-mismatched token.
func (g *Gate) Consume(toolName, token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	g.purgeExpired(now)

	p, ok := g.pending[token]
	if !ok || p.ToolName != toolName || p.expired(now) {
		return false
	}
	delete(g.pending, token)
	return true
}

func (g *Gate) purgeExpired(now time.Time) {
	for t, p := range g.pending {
		if p.expired(now) {
			delete(g.pending, t)
		}
	}
}

