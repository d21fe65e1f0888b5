package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunFunc is the work executed once per quiet window.
type RunFunc func(ctx context.Context) error

// Coalescer is a timer-based single-slot queue. Triggers within the window
// re-arm one timer; when it fires the run function executes once. A trigger
// during a run queues exactly one follow-up run. At most one run executes
// at a time.
type Coalescer struct {
	window time.Duration
	run    RunFunc
	logger *slog.Logger

	ctx context.Context

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	running bool
	pending bool
	stopped bool
	runs    int
	idle    *sync.Cond
}

// Option configures a Coalescer.
type Option func(*Coalescer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coalescer) {
		c.logger = logger
	}
}

// WithContext sets the context passed to the run function.
func WithContext(ctx context.Context) Option {
	return func(c *Coalescer) {
		c.ctx = ctx
	}
}

// New creates a Coalescer calling run after window of quiet.
func New(window time.Duration, run RunFunc, opts ...Option) *Coalescer {
	c := &Coalescer{
		window: window,
		run:    run,
		ctx:    context.Background(),
	}
	c.idle = sync.NewCond(&c.mu)

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Trigger records a change. It never blocks.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if c.running {
		c.pending = true
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.window, func() { c.fire(gen) })
}

// fire runs the work and any follow-up queued meanwhile. A timer that was
// re-armed after it expired carries a stale generation and does nothing.
func (c *Coalescer) fire(gen uint64) {
	c.mu.Lock()
	if c.stopped || c.running || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.running = true
	c.mu.Unlock()

	for {
		if err := c.run(c.ctx); err != nil {
			c.logger.Warn("scheduled run failed", "error", err)
		}

		c.mu.Lock()
		c.runs++
		if c.pending && !c.stopped {
			c.pending = false
			c.mu.Unlock()
			continue
		}
		c.pending = false
		c.running = false
		c.idle.Broadcast()
		c.mu.Unlock()
		return
	}
}

// Runs returns the number of completed runs.
func (c *Coalescer) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// Stop disarms the timer, drops a queued follow-up and waits for an
// in-flight run to return. Later triggers are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	for c.running {
		c.idle.Wait()
	}
	c.mu.Unlock()
}
