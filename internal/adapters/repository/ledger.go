package repository

import (
	"context"
	"sync"

	"github.com/zikuli/precision/internal/domain/model"
)

const defaultCapacityHint = 1024

// InMemoryLedger implements Ledger as an RWMutex-guarded slice. Appends are
// linearizable; snapshots copy under the read lock so no reader ever sees a
// torn state. The ledger grows unbounded within a run, which is acceptable
// for a test harness.
type InMemoryLedger struct {
	mu           sync.RWMutex
	reports      []model.ClickReport
	capacityHint int
}

// Option applies a configuration option to the InMemoryLedger.
type Option func(*InMemoryLedger)

// WithCapacityHint pre-sizes the backing slice for runs with a known
// approximate click volume.
func WithCapacityHint(n int) Option {
	return func(l *InMemoryLedger) {
		if n > 0 {
			l.capacityHint = n
		}
	}
}

// NewInMemoryLedger creates an empty ledger.
func NewInMemoryLedger(_ context.Context, opts ...Option) *InMemoryLedger {
	l := &InMemoryLedger{capacityHint: defaultCapacityHint}
	for _, opt := range opts {
		opt(l)
	}
	l.reports = make([]model.ClickReport, 0, l.capacityHint)
	return l
}

// Append records one report at the tail of the ledger.
func (l *InMemoryLedger) Append(_ context.Context, report model.ClickReport) {
	l.mu.Lock()
	l.reports = append(l.reports, report)
	l.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the ledger contents in append
// order.
func (l *InMemoryLedger) Snapshot(_ context.Context) []model.ClickReport {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ClickReport, len(l.reports))
	copy(out, l.reports)
	return out
}

// Clear atomically empties the ledger. The backing array is released so a
// long run that clears between phases does not pin the old entries.
func (l *InMemoryLedger) Clear(_ context.Context) {
	l.mu.Lock()
	l.reports = make([]model.ClickReport, 0, l.capacityHint)
	l.mu.Unlock()
}

// Len reports the current entry count.
func (l *InMemoryLedger) Len(_ context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.reports)
}
