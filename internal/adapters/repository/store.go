// Package repository holds the in-memory stores for expected targets and
// observed clicks. Both stores are safe for concurrent use; every mutation
// and snapshot is atomic with respect to the others.
package repository

import (
	"context"

	"github.com/zikuli/precision/internal/domain/model"
)

// Registry provides access to the current batch of expected targets.
// A batch is only ever replaced wholesale; there is no incremental edit.
type Registry interface {
	// SetTargets atomically replaces the entire batch.
	SetTargets(ctx context.Context, batch []model.Target)

	// Targets returns a snapshot of the current batch. Later registry
	// mutations do not affect the returned slice.
	Targets(ctx context.Context) []model.Target
}

// Ledger is the append-only record of click reports for the current run.
type Ledger interface {
	// Append records a report in arrival order. Arrival order across
	// concurrent callers is the order appends complete.
	Append(ctx context.Context, report model.ClickReport)

	// Snapshot returns a copy reflecting a single consistent point in
	// time. Entries are never mutated after append.
	Snapshot(ctx context.Context) []model.ClickReport

	// Clear atomically empties the ledger. An append racing a clear is
	// either fully visible afterwards or fully absent.
	Clear(ctx context.Context)

	// Len reports the current number of entries.
	Len(ctx context.Context) int
}
