// Package sdksim holds the pieces shared by the in-process network SDK simulators the harness
// drives the adapters against: where vendor callbacks run, and what the simulated network does.
package sdksim

import (
	"sync"
	"time"

	"github.com/alitto/pond"
	"github.com/benbjohnson/clock"
)

// Dispatcher decides which goroutine a simulated vendor callback runs on.
type Dispatcher interface {
	// Dispatch schedules fn. It returns false if fn was rejected.
	Dispatch(fn func()) bool
}

// Inline runs callbacks synchronously on the caller's goroutine.
type Inline struct{}

func (Inline) Dispatch(fn func()) bool {
	fn()
	return true
}

// PoolDispatcher runs callbacks on a bounded worker pool after a fixed latency, the way a
// network SDK fires callbacks from its own background threads.
type PoolDispatcher struct {
	pool    *pond.WorkerPool
	clock   clock.Clock
	latency time.Duration
}

func NewPoolDispatcher(workers, capacity int, latency time.Duration, clk clock.Clock) *PoolDispatcher {
	if clk == nil {
		clk = clock.New()
	}
	return &PoolDispatcher{
		pool:    pond.New(workers, capacity),
		clock:   clk,
		latency: latency,
	}
}

func (d *PoolDispatcher) Dispatch(fn func()) bool {
	return d.pool.TrySubmit(func() {
		if d.latency > 0 {
			d.clock.Sleep(d.latency)
		}
		fn()
	})
}

// Stop waits for queued callbacks to run and rejects new ones.
func (d *PoolDispatcher) Stop() {
	d.pool.StopAndWait()
}

// Pending returns the number of callbacks queued but not yet started.
func (d *PoolDispatcher) Pending() uint64 {
	return d.pool.WaitingTasks()
}

// Manual queues callbacks until RunPending is called, so tests decide when the simulated
// network answers.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

func (m *Manual) Dispatch(fn func()) bool {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
	return true
}

// RunPending runs queued callbacks in FIFO order, including callbacks they queue, and returns
// how many ran.
func (m *Manual) RunPending() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
		n++
	}
}

// RunNext runs the oldest queued callback. It reports whether there was one.
func (m *Manual) RunNext() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()
	fn()
	return true
}

func (m *Manual) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
