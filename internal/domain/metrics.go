package domain

import (
	"sort"
	"sync"
)

// FileOperation records the most recent file-affecting operation on one path
// within a turn. ContentHash is empty when the file no longer exists.
type FileOperation struct {
	Kind         ToolKind
	LinesAdded   uint64
	LinesRemoved uint64
	ContentHash  string
}

// NewFileOperation returns a FileOperation for the given tool kind. The
// With* setters return the modified value so call sites can chain them.
func NewFileOperation(kind ToolKind) FileOperation {
	return FileOperation{Kind: kind}
}

func (op FileOperation) WithLinesAdded(n uint64) FileOperation {
	op.LinesAdded = n
	return op
}

func (op FileOperation) WithLinesRemoved(n uint64) FileOperation {
	op.LinesRemoved = n
	return op
}

func (op FileOperation) WithContentHash(hash string) FileOperation {
	op.ContentHash = hash
	return op
}

// Metrics is the per-turn ledger of file operations, keyed by path. It is
// safe for concurrent use: each Insert is atomic and visible to subsequent
// reads, with no ordering guarantee between concurrently completing tools.
//
// Insert replaces the prior entry for a path (last write wins for counts and
// hash). Callers pass freshly computed per-operation counts; the ledger does
// not sum history.
type Metrics struct {
	mu  sync.Mutex
	ops map[string]FileOperation
}

// NewMetrics returns an empty ledger.
func NewMetrics() *Metrics {
	return &Metrics{ops: make(map[string]FileOperation)}
}

// Insert records op for path, replacing any prior entry.
func (m *Metrics) Insert(path string, op FileOperation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ops == nil {
		m.ops = make(map[string]FileOperation)
	}
	m.ops[path] = op
}

// Get returns the recorded operation for path.
func (m *Metrics) Get(path string) (FileOperation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.ops[path]
	return op, ok
}

// Len returns the number of tracked paths.
func (m *Metrics) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ops)
}

// Paths returns the tracked paths in sorted order.
func (m *Metrics) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.ops))
	for p := range m.ops {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
