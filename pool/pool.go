// ABOUTME: Fixed-size worker pool for evaluating batches of orderings in parallel
// ABOUTME: Provides a context-aware submit-and-wait pattern with bounded queueing

// Package pool runs submitted tasks on a fixed number of goroutines.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
	once     sync.Once
}

// NewWorkerPool starts workers goroutines (NumCPU when workers <= 0).
// The bufferSize bounds how many tasks may queue before Submit blocks,
// which keeps a fast producer from running ahead of the workers.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if bufferSize < 0 {
		bufferSize = 0
	}

	p := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.taskChan {
				task()
				p.taskWg.Done()
			}
		}()
	}

	return p
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool, blocking while the queue is full.
// Returns ctx.Err() without queueing the task if ctx is done first.
func (p *WorkerPool) Submit(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.taskWg.Add(1)

	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		p.taskWg.Done()
		return ctx.Err()
	}
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close waits for queued tasks, then shuts down the workers. Safe to call more than once.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		close(p.taskChan)
		p.workerWg.Wait()
	})
}
