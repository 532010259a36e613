// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

// Package scheduler provides a scope-based worker pool for parallel array
// loads. A scope owns a fixed set of worker goroutines for its lifetime:
// the scope body submits any number of unit-of-work tasks, and the scope
// does not return until every submitted task has completed. Compared with
// per-call goroutine spawning this keeps the spawn and channel overhead
// out of the load path, and it gives the loader a place to hang the
// first-failure contract: one failed task stops dispatch of the tasks
// behind it and is returned from the scope.
//
// Usage:
//
//	err := scheduler.With(nil, func(s *scheduler.Scheduler) error {
//	    for w := range s.NumWorkers() {
//	        s.Schedule(func() error { return fillChunk(w) })
//	    }
//	    return nil
//	})
//
// A scope passes through four states: idle while being set up, running
// while the body submits work, draining once the body has returned, and
// finally done or failed. Tasks may submit follow-up tasks to the same
// scope; they extend the draining phase.
package scheduler

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Scheduler is a bounded pool of workers tied to one scope. It must only
// be used inside the body passed to With.
type Scheduler struct {
	numWorkers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func() error
	pending int // queued + running tasks
	closed  bool
	err     error // first failure observed
}

// NumWorkersFor returns the pool size implied by a worker identity list:
// max(1, len(workerIDs)), or GOMAXPROCS for an empty list.
func NumWorkersFor(workerIDs []int) int {
	if len(workerIDs) == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return max(1, len(workerIDs))
}

// With creates a scheduler whose pool has NumWorkersFor(workerIDs)
// workers, runs body with it, then blocks until every task submitted by
// body (or by tasks themselves) has completed. Workers are torn down
// before With returns.
//
// If any task fails, the first failure is recorded, tasks that have not
// started yet are skipped, tasks already running are left to settle, and
// the failure is returned. A panic inside a task or inside body is
// captured the same way. With only returns body's error when no task
// failed first.
func With(workerIDs []int, body func(*Scheduler) error) error {
	s := &Scheduler{numWorkers: NumWorkersFor(workerIDs)}
	s.cond = sync.NewCond(&s.mu)

	var wg sync.WaitGroup
	for range s.numWorkers {
		wg.Go(s.worker)
	}

	bodyErr := s.protect(body)
	if bodyErr != nil {
		// Body failures suppress dispatch of queued tasks too.
		s.record(bodyErr)
	}

	s.mu.Lock()
	for s.pending > 0 {
		s.cond.Wait()
	}
	s.closed = true
	s.cond.Broadcast()
	err := s.err
	s.mu.Unlock()
	wg.Wait()

	if err != nil {
		return err
	}
	return bodyErr
}

// NumWorkers returns the pool size. Loaders use it to size work chunks.
func (s *Scheduler) NumWorkers() int { return s.numWorkers }

// Schedule submits a task for execution on a worker goroutine. It never
// blocks: the queue is unbounded, so tasks may safely submit follow-up
// tasks to their own scope. After a failure has been recorded the task is
// dropped.
func (s *Scheduler) Schedule(task func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil || s.closed {
		return
	}
	s.pending++
	s.queue = append(s.queue, task)
	s.cond.Broadcast()
}

// worker runs queued tasks until the scope closes.
func (s *Scheduler) worker() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		skip := s.err != nil
		s.mu.Unlock()

		if !skip {
			if err := s.protect(func(*Scheduler) error { return task() }); err != nil {
				s.record(err)
			}
		}

		s.mu.Lock()
		s.pending--
		if s.pending == 0 {
			s.cond.Broadcast()
		}
		s.mu.Unlock()
	}
}

// protect runs fn with the scheduler, converting a panic into an error
// that carries its stack.
func (s *Scheduler) protect(fn func(*Scheduler) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = errors.WithStack(perr)
			} else {
				err = errors.Errorf("massiv/scheduler: task panicked: %v", r)
			}
		}
	}()
	return fn(s)
}

// record stores the first failure observed by the scope.
func (s *Scheduler) record(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}
