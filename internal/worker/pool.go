// Package worker provides the bounded concurrency substrate for evidence
// gathering: a fixed number of workers draining a job queue under a
// caller-owned context.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work. Execute must honor ctx cancellation and must
// always return a Result; jobs never report by side channel.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs jobs with at most `workers` concurrent executions. The
// caller's context is the cancellation token: once it is done, queued
// jobs are converted to Cancelled results instead of being executed, so
// every submitted job still yields exactly one result. Results are
// collected on a single goroutine; workers never share mutable state.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	collected []Result
	collectWg sync.WaitGroup

	// cancelled builds the placeholder result for jobs that never ran.
	// Nil means unexecuted jobs are dropped on cancellation.
	cancelled func(Job, error) Result
}

// NewPool creates a pool. The cancelled func (optional) converts an
// unexecuted job into its failure result when the context ends early.
func NewPool(workers int, cancelled func(Job, error) Result) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:   workers,
		jobs:      make(chan Job, workers*2),
		results:   make(chan Result, workers*2),
		cancelled: cancelled,
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}

	p.collectWg.Add(1)
	go func() {
		defer p.collectWg.Done()
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		select {
		case <-ctx.Done():
			if p.cancelled != nil {
				p.results <- p.cancelled(job, ctx.Err())
			}
		default:
			p.results <- job.Execute(ctx)
		}
	}
}

// Submit enqueues a job. Must not be called after Wait.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Wait closes the queue, waits for workers and the collector, and returns
// all results. With a cancelled func set, len(results) equals the number
// of submitted jobs regardless of cancellation.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.collectWg.Wait()
	return p.collected
}
