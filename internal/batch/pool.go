package batch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/result"
	"github.com/bassista/go_core/internal/store"
)

// DefaultWorkers is used when a Pool is created with a non-positive count.
const DefaultWorkers = 4

// WriteJob is one document write in a WriteAll batch.
type WriteJob struct {
	Path   string
	Value  any
	Pretty bool
}

// Pool fans document reads and writes out to a fixed set of workers.
// Per-item failures are collected, never aborting the rest of the batch;
// cancelling ctx stops dispatch of items not yet started.
type Pool struct {
	workers int
	store   *store.Store
	log     *logrus.Entry
}

// NewPool creates a Pool with the given worker count over st.
func NewPool(workers int, st *store.Store, log *logrus.Entry) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{workers: workers, store: st, log: log}
}

// ReadAll reads every path concurrently. The Result data is a []result.Result
// in input order, one per path; the outer Result fails only on invalid input.
func (p *Pool) ReadAll(ctx context.Context, paths []string) result.Result {
	if len(paths) == 0 {
		return result.Failf(result.KindInvalidArgument, "batch.ReadAll", "paths list is empty")
	}

	results := make([]result.Result, len(paths))
	dispatched := p.run(ctx, len(paths), func(i int) {
		results[i] = p.store.ReadDocument(paths[i])
	})
	for i := dispatched; i < len(paths); i++ {
		results[i] = result.Failf(result.KindIOFailure, "batch.ReadAll",
			"batch cancelled before %s was read", paths[i])
	}
	p.log.Debugf("batch read of %d document(s) finished", len(paths))
	return result.Ok(results)
}

// WriteAll writes every job concurrently. The Result data is a
// []result.Result in input order, one per job.
func (p *Pool) WriteAll(ctx context.Context, jobs []WriteJob) result.Result {
	if len(jobs) == 0 {
		return result.Failf(result.KindInvalidArgument, "batch.WriteAll", "jobs list is empty")
	}

	results := make([]result.Result, len(jobs))
	dispatched := p.run(ctx, len(jobs), func(i int) {
		job := jobs[i]
		results[i] = p.store.WriteDocument(job.Path, job.Value, store.WriteOptions{Pretty: job.Pretty})
	})
	for i := dispatched; i < len(jobs); i++ {
		results[i] = result.Failf(result.KindIOFailure, "batch.WriteAll",
			"batch cancelled before %s was written", jobs[i].Path)
	}
	p.log.Debugf("batch write of %d document(s) finished", len(jobs))
	return result.Ok(results)
}

// run feeds indexes 0..n-1 to the workers and returns how many were
// dispatched. Each index is owned by exactly one worker, so the per-index
// result writes need no locking. Items past the returned count were never
// started; the caller fills their Results.
func (p *Pool) run(ctx context.Context, n int, work func(i int)) int {
	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				work(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			p.log.Warnf("batch cancelled after dispatching %d of %d item(s)", i, n)
			close(indexes)
			wg.Wait()
			return i
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return n
}
