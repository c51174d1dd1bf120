package probe

import (
	"context"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrently open sockets so a large sweep cannot
// exhaust file descriptors or ephemeral ports.
const DefaultWorkers = 50

// Sink receives every Result exactly once. The pool feeds it from a single
// collector goroutine, so implementations need no internal locking.
type Sink interface {
	Ingest(Result)
}

// Pool is a fixed-size worker pool dispatching probe tasks. The task slice is
// immutable and consumed through an atomic cursor: every task is claimed by
// exactly one worker, which either probes it or, once the run context is done,
// resolves it to Cancelled. RunAll is therefore a barrier that always
// terminates with one Result per Task.
type Pool struct {
	Workers int
	Verbose bool

	// probeFn is the dispatch function, replaceable in tests.
	probeFn func(context.Context, Task) Result
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{Workers: workers, probeFn: Do}
}

// RunAll probes every task and returns once the sink has seen one Result per
// task. Completion order is unordered; deterministic ranking happens in the
// aggregator afterwards.
func (p *Pool) RunAll(ctx context.Context, tasks []Task, sink Sink) {
	if len(tasks) == 0 {
		return
	}

	probeFn := p.probeFn
	if probeFn == nil {
		probeFn = Do
	}
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make(chan Result, workers)
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for r := range results {
			sink.Ingest(r)
		}
	}()

	var cursor atomic.Int64
	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := cursor.Add(1) - 1
				if i >= int64(len(tasks)) {
					return nil
				}
				t := tasks[i]
				if ctx.Err() != nil {
					// Stop dispatching: unstarted tasks resolve to
					// Cancelled so the barrier still holds.
					results <- cancelledResult(t)
					continue
				}
				if p.Verbose {
					log.Printf("probing %s (%s)", t.Addr, t.Method)
				}
				results <- probeFn(ctx, t)
			}
		})
	}
	_ = g.Wait()
	close(results)
	<-collectorDone
}
