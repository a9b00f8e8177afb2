// Package tasks provides the console's only asynchronous primitive: a named,
// cancellable delayed task. It replaces the fire-and-forget timers of the UI
// (toast auto-dismissal, simulated backup latency) with something tests can
// cancel and await deterministically.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one scheduled callback. Done is closed once the task has either
// fired or been cancelled; Fired reports which of the two happened.
type Task struct {
	name string

	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	fired bool
}

// Done returns a channel closed when the task has fired or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel stops the task if it has not fired yet. Safe to call repeatedly.
func (t *Task) Cancel() {
	t.cancel()
}

// Fired reports whether the callback actually ran.
func (t *Task) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Scheduler runs named delayed tasks. Scheduling a task under a name that is
// already pending cancels the pending one first, so a superseding action never
// races its predecessor's callback.
type Scheduler struct {
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*Task
}

// NewScheduler creates a scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:  logger.Named("scheduler"),
		pending: make(map[string]*Task),
	}
}

// Schedule runs fn after delay unless the task is cancelled or ctx ends
// first. The returned task can be awaited via Done.
func (s *Scheduler) Schedule(ctx context.Context, name string, delay time.Duration, fn func()) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if prev, ok := s.pending[name]; ok {
		prev.cancel()
	}
	s.pending[name] = t
	s.mu.Unlock()

	go func() {
		defer close(t.done)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			t.mu.Lock()
			t.fired = true
			t.mu.Unlock()
			fn()
		case <-taskCtx.Done():
			s.logger.Debug("task cancelled", zap.String("task", name))
		}

		s.mu.Lock()
		if s.pending[name] == t {
			delete(s.pending, name)
		}
		s.mu.Unlock()
	}()

	return t
}

// Stop cancels every pending task. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	tasks := make([]*Task, 0, len(s.pending))
	for _, t := range s.pending {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
		<-t.Done()
	}
}

// Pending reports whether a task with the given name is still scheduled.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[name]
	return ok
}
