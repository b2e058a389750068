package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

const maxPoolWorkers = 128

// Pool bounds the concurrency of filter passes. Run is a structured
// parallel-for: the calling goroutine always works the task list itself, so
// a busy pool never leaves the caller idle, and every pass completes before
// Run returns.
type Pool struct {
	workers int
	closed  atomic.Bool
}

// NewPool validates the configured worker count and returns the pool handle.
// workers == 0 sizes the pool from the CPU count, capped at 128; negative
// counts are a configuration error.
func NewPool(workers int) (*Pool, error) {
	if workers < 0 {
		return nil, fmt.Errorf("pool: invalid worker count %d", workers)
	}
	if workers == 0 {
		workers = runtime.NumCPU()
		if workers > maxPoolWorkers {
			workers = maxPoolWorkers
		}
	}
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}, nil
}

// Workers returns the bounded worker count.
func (p *Pool) Workers() int { return p.workers }

// Run executes every task and returns once all have completed. Task 0 runs
// on the calling goroutine; remaining tasks are claimed by up to workers-1
// helpers and by the caller once its own chunk is done. Tasks must touch
// only disjoint state.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if len(tasks) == 1 || p.workers == 1 || p.closed.Load() {
		for _, task := range tasks {
			task()
		}
		return
	}

	var next atomic.Int64
	next.Store(1) // task 0 belongs to the caller

	claim := func() {
		for {
			idx := int(next.Add(1)) - 1
			if idx >= len(tasks) {
				return
			}
			tasks[idx]()
		}
	}

	helpers := p.workers - 1
	if helpers > len(tasks)-1 {
		helpers = len(tasks) - 1
	}

	var wg sync.WaitGroup
	for i := 0; i < helpers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim()
		}()
	}

	tasks[0]()
	claim()
	wg.Wait()
}

// Close marks the pool as shut down. Later passes run serially on the
// caller; nothing queued survives a Run, so there is no backlog to drain.
func (p *Pool) Close() {
	p.closed.Store(true)
}
