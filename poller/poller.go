// Package poller runs a readiness check on a fixed interval for networks whose SDK has no
// "ad ready" callback. The task ends on the first successful check, on timeout, or on Stop.
package poller

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/prebid/mediation-adapters/metrics"
)

// Check reports whether the awaited condition holds.
type Check func() bool

type Options struct {
	Interval time.Duration
	// Timeout bounds the whole task. Zero polls until ready or stopped.
	Timeout time.Duration
	Clock   clock.Clock
	// OnReady fires once, after the first check returning true.
	OnReady func()
	// OnTimeout fires once if Timeout elapses first.
	OnTimeout func()
	Network   string
	Metrics   metrics.MetricsEngine
}

// Task is a cancellable periodic check. A Task runs once; build a new one to poll again.
type Task struct {
	check     Check
	interval  time.Duration
	timeout   time.Duration
	clock     clock.Clock
	onReady   func()
	onTimeout func()
	network   string
	metrics   metrics.MetricsEngine

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func New(check Check, opts Options) *Task {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Task{
		check:     check,
		interval:  interval,
		timeout:   opts.Timeout,
		clock:     clk,
		onReady:   opts.OnReady,
		onTimeout: opts.OnTimeout,
		network:   opts.Network,
		metrics:   metrics.OrNil(opts.Metrics),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start schedules the check. The first check runs one interval after Start. Calling Start
// more than once has no effect.
func (t *Task) Start() {
	t.startOnce.Do(func() {
		ticker := t.clock.Ticker(t.interval)
		var deadline *clock.Timer
		if t.timeout > 0 {
			deadline = t.clock.Timer(t.timeout)
		}
		go t.run(ticker, deadline)
	})
}

// Stop cancels the task without firing any callback. It is safe to call more than once and
// from any goroutine, including from OnReady and OnTimeout.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Done is closed once the task has finished for any reason.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) run(ticker *clock.Ticker, timer *clock.Timer) {
	defer close(t.done)
	defer ticker.Stop()
	var deadline <-chan time.Time
	if timer != nil {
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ticker.C:
			if t.stopped() {
				t.metrics.RecordPoll(t.network, metrics.PollCancelled)
				return
			}
			if t.check() {
				t.metrics.RecordPoll(t.network, metrics.PollReady)
				if t.onReady != nil {
					t.onReady()
				}
				return
			}
		case <-deadline:
			t.metrics.RecordPoll(t.network, metrics.PollTimeout)
			if t.onTimeout != nil {
				t.onTimeout()
			}
			return
		case <-t.stop:
			t.metrics.RecordPoll(t.network, metrics.PollCancelled)
			return
		}
	}
}

func (t *Task) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
