// Package notify runs deferred tasks on a small worker pool. The ledger
// store hands it notification dispatches so they never block a mutation
// and run only after the state update has settled.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is a unit of deferred work.
type Task interface {
	// Execute runs the task; the context is cancelled on shutdown.
	Execute(ctx context.Context) error

	// Description identifies the task in logs.
	Description() string
}

type taskFunc struct {
	desc string
	fn   func(ctx context.Context) error
}

func (t taskFunc) Execute(ctx context.Context) error { return t.fn(ctx) }
func (t taskFunc) Description() string               { return t.desc }

// TaskFunc wraps a function as a Task.
func TaskFunc(description string, fn func(ctx context.Context) error) Task {
	return taskFunc{desc: description, fn: fn}
}

// Dispatcher owns the worker goroutines. Each submitted task waits out a
// fixed delay before executing; task failures are logged, never surfaced.
type Dispatcher struct {
	delay   time.Duration
	timeout time.Duration
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a dispatcher with the given worker count, pre-execution
// delay and queue size, and starts its workers.
func New(workers int, delay time.Duration, queueSize int, log zerolog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		delay:   delay,
		timeout: 30 * time.Second,
		tasks:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return

		case task, ok := <-d.tasks:
			if !ok {
				return
			}
			if d.delay > 0 {
				select {
				case <-time.After(d.delay):
				case <-d.ctx.Done():
					return
				}
			}
			d.run(task)
		}
	}
}

func (d *Dispatcher) run(task Task) {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	if err := task.Execute(ctx); err != nil {
		d.log.Warn().Err(err).Str("task", task.Description()).Msg("deferred task failed")
		return
	}
	d.log.Debug().Str("task", task.Description()).Msg("deferred task done")
}

// Submit queues a task. It never blocks: a full queue drops the task
// with an error so the caller can log it.
func (d *Dispatcher) Submit(task Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("dispatcher is shut down, dropping %s", task.Description())
	}

	select {
	case d.tasks <- task:
		return nil
	default:
		return fmt.Errorf("dispatch queue full, dropping %s", task.Description())
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones, up to the
// timeout. Queued tasks still waiting are abandoned after the timeout.
func (d *Dispatcher) Shutdown(timeout time.Duration) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.tasks)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		d.cancel()
		<-done
	}
	d.cancel()
}
