package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSubmitExecutesTask(t *testing.T) {
	d := New(1, 0, 4, zerolog.Nop())
	defer d.Shutdown(time.Second)

	done := make(chan struct{})
	task := TaskFunc("test task", func(context.Context) error {
		close(done)
		return nil
	})

	if err := d.Submit(task); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never executed")
	}
}

func TestDelayBeforeExecution(t *testing.T) {
	delay := 50 * time.Millisecond
	d := New(1, delay, 4, zerolog.Nop())
	defer d.Shutdown(time.Second)

	start := time.Now()
	done := make(chan time.Time, 1)
	if err := d.Submit(TaskFunc("delayed", func(context.Context) error {
		done <- time.Now()
		return nil
	})); err != nil {
		t.Fatal(err)
	}

	select {
	case executed := <-done:
		if elapsed := executed.Sub(start); elapsed < delay {
			t.Errorf("task ran after %v, want at least %v", elapsed, delay)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task never executed")
	}
}

func TestFailedTaskDoesNotStopWorker(t *testing.T) {
	d := New(1, 0, 4, zerolog.Nop())
	defer d.Shutdown(time.Second)

	if err := d.Submit(TaskFunc("failing", func(context.Context) error {
		return errors.New("boom")
	})); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	if err := d.Submit(TaskFunc("following", func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker stopped after a failed task")
	}
}

func TestSubmitFullQueue(t *testing.T) {
	d := New(1, 0, 1, zerolog.Nop())
	defer d.Shutdown(time.Second)

	// Block the only worker, then fill the queue.
	blocker := make(chan struct{})
	_ = d.Submit(TaskFunc("blocker", func(context.Context) error {
		<-blocker
		return nil
	}))

	// The worker may or may not have picked up the blocker yet; keep
	// submitting until the queue rejects.
	rejected := false
	for i := 0; i < 10; i++ {
		if err := d.Submit(TaskFunc("filler", func(context.Context) error { return nil })); err != nil {
			rejected = true
			break
		}
	}
	close(blocker)

	if !rejected {
		t.Error("Submit never rejected on a full queue")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	d := New(1, 0, 4, zerolog.Nop())
	d.Shutdown(time.Second)

	if err := d.Submit(TaskFunc("late", func(context.Context) error { return nil })); err == nil {
		t.Error("Submit after Shutdown should fail")
	}

	// Shutdown is idempotent.
	d.Shutdown(time.Second)
}

func TestShutdownWaitsForInflightTasks(t *testing.T) {
	d := New(2, 0, 4, zerolog.Nop())

	var completed atomic.Int32
	for i := 0; i < 3; i++ {
		if err := d.Submit(TaskFunc("counted", func(context.Context) error {
			time.Sleep(20 * time.Millisecond)
			completed.Add(1)
			return nil
		})); err != nil {
			t.Fatal(err)
		}
	}

	d.Shutdown(5 * time.Second)

	if got := completed.Load(); got != 3 {
		t.Errorf("completed = %d, want 3 (queued tasks drained before shutdown)", got)
	}
}
