// Package scheduler runs the batch video search over pending keyword tags and
// curriculum topics.
//
// Each run claims a bounded batch of PENDING items through an atomic
// compare-and-set in the repository, searches the external video source for
// each item sequentially, persists the results, and moves every claimed item
// to a terminal status. A failure on one item never aborts the batch. A
// Postgres advisory lock keeps concurrent runs of the same variant from
// interleaving; the claim CAS remains the correctness backstop if the lock is
// unavailable.
package scheduler

import (
	"context"
	"time"
)

// Advisory lock keys, one per batch variant.
const (
	tagBatchLockKey   int64 = 4001
	topicBatchLockKey int64 = 4002
)

// AdvisoryLocker acquires session-scoped Postgres advisory locks.
// *database.DB satisfies this interface.
type AdvisoryLocker interface {
	AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) error
}

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	// Kind identifies the batch variant ("tag" or "topic").
	Kind string

	// Claimed is the number of items claimed for this run.
	Claimed int

	// Completed is the number of items that reached COMPLETED.
	Completed int

	// Failed is the number of items that reached FAILED.
	Failed int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
