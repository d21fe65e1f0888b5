package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

const window = 20 * time.Millisecond

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCoalescer(t *testing.T) {
	t.Parallel()

	t.Run("collapses a burst into one run", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := New(window, func(context.Context) error {
			calls.Add(1)
			return nil
		})
		defer c.Stop()

		for range 10 {
			c.Trigger()
		}

		waitFor(t, func() bool { return c.Runs() == 1 })
		time.Sleep(3 * window)
		if calls.Load() != 1 {
			t.Errorf("expected 1 run, got %d", calls.Load())
		}
	})

	t.Run("queues exactly one follow-up during a run", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{}, 4)
		release := make(chan struct{})
		var calls atomic.Int32
		var active atomic.Int32
		var overlap atomic.Bool

		c := New(window, func(context.Context) error {
			if active.Add(1) > 1 {
				overlap.Store(true)
			}
			defer active.Add(-1)
			if calls.Add(1) == 1 {
				started <- struct{}{}
				<-release
			}
			return nil
		})
		defer c.Stop()

		c.Trigger()
		<-started
		for range 5 {
			c.Trigger()
		}
		close(release)

		waitFor(t, func() bool { return c.Runs() == 2 })
		time.Sleep(3 * window)
		if calls.Load() != 2 {
			t.Errorf("expected 2 runs, got %d", calls.Load())
		}
		if overlap.Load() {
			t.Error("runs overlapped")
		}
	})

	t.Run("run errors do not stop later runs", func(t *testing.T) {
		t.Parallel()

		c := New(window, func(context.Context) error {
			return errors.New("render failed")
		})
		defer c.Stop()

		c.Trigger()
		waitFor(t, func() bool { return c.Runs() == 1 })
		c.Trigger()
		waitFor(t, func() bool { return c.Runs() == 2 })
	})

	t.Run("stop disarms and waits", func(t *testing.T) {
		t.Parallel()

		var finished atomic.Bool
		started := make(chan struct{})
		c := New(window, func(context.Context) error {
			close(started)
			time.Sleep(2 * window)
			finished.Store(true)
			return nil
		})

		c.Trigger()
		<-started
		c.Stop()
		if !finished.Load() {
			t.Error("expected Stop to wait for the in-flight run")
		}

		c.Trigger()
		time.Sleep(3 * window)
		if c.Runs() != 1 {
			t.Errorf("expected triggers after Stop to be ignored, got %d runs", c.Runs())
		}
	})

	t.Run("stop before firing cancels the run", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := New(window, func(context.Context) error {
			calls.Add(1)
			return nil
		})
		c.Trigger()
		c.Stop()
		time.Sleep(3 * window)
		if calls.Load() != 0 {
			t.Errorf("expected no run, got %d", calls.Load())
		}
	})
}
