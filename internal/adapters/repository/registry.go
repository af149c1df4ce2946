package repository

import (
	"context"
	"sync"

	"github.com/zikuli/precision/internal/domain/model"
)

// InMemoryRegistry implements Registry with a single RWMutex-guarded batch.
// The lock is held only across the swap or the copy, never across I/O.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	batch []model.Target
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry(_ context.Context) *InMemoryRegistry {
	return &InMemoryRegistry{}
}

// SetTargets atomically replaces the whole batch. The input is copied so the
// caller cannot mutate registered state afterwards. An empty batch is valid.
func (r *InMemoryRegistry) SetTargets(_ context.Context, batch []model.Target) {
	next := make([]model.Target, len(batch))
	copy(next, batch)

	r.mu.Lock()
	r.batch = next
	r.mu.Unlock()
}

// Targets returns an isolated snapshot of the current batch, empty (non-nil)
// when nothing has been registered yet.
func (r *InMemoryRegistry) Targets(_ context.Context) []model.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Target, len(r.batch))
	copy(out, r.batch)
	return out
}

// Count returns the number of targets in the current batch.
func (r *InMemoryRegistry) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.batch)
}
