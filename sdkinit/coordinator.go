// Package sdkinit serializes network SDK initialization. Every adapter instance for a network
// shares one Coordinator, so concurrent load requests never start the vendor's initialize call
// twice; requests that arrive while initialization is in flight wait on a waiting list.
package sdkinit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/initcache"
	"github.com/prebid/mediation-adapters/logger"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prebid/mediation-adapters/waitlist"
)

type State int

const (
	NotInitialized State = iota
	Initializing
	Initialized
	// Failed means the last attempt failed. The next Ensure starts a new attempt.
	Failed
)

func (s State) String() string {
	switch s {
	case NotInitialized:
		return "not_initialized"
	case Initializing:
		return "initializing"
	case Initialized:
		return "initialized"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Starter invokes the vendor's asynchronous initialize call. It must call done exactly once;
// calls after the attempt timed out or was reset are ignored.
type Starter func(ctx context.Context, params map[string]string, done func(error))

// ReadyFunc is told once whether the SDK is usable. A nil error means initialized.
type ReadyFunc func(err error)

type Options struct {
	Network string
	Starter Starter
	// Timeout bounds one attempt. Zero disables the timeout.
	Timeout time.Duration
	Clock   clock.Clock
	// Cache remembers the last successful params. Optional.
	Cache   initcache.Store
	Metrics metrics.MetricsEngine
}

// Coordinator guards one network SDK's process wide initialization state.
type Coordinator struct {
	network string
	starter Starter
	timeout time.Duration
	clock   clock.Clock
	cache   initcache.Store
	metrics metrics.MetricsEngine
	log     logger.Logger

	mu        sync.Mutex
	state     State
	attempt   uint64
	startedAt time.Time
	timer     *clock.Timer
	params    map[string]string
	lastErr   error
	waiting   waitlist.List[ReadyFunc]
	// replay holds the callbacks of a finished attempt until they run. Cancel reaches them here.
	replay waitlist.List[func()]
}

func New(opts Options) *Coordinator {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Coordinator{
		network: opts.Network,
		starter: opts.Starter,
		timeout: opts.Timeout,
		clock:   clk,
		cache:   opts.Cache,
		metrics: metrics.OrNil(opts.Metrics),
		log:     logger.Prefixed(opts.Network),
	}
}

// Ensure calls ready once the SDK is initialized, starting initialization if nobody has.
// id names the request for Cancel. ready runs synchronously when the SDK is already
// initialized, otherwise on whichever goroutine completes the attempt.
func (c *Coordinator) Ensure(ctx context.Context, id string, params map[string]string, ready ReadyFunc) {
	if err := ctx.Err(); err != nil {
		ready(err)
		return
	}

	c.mu.Lock()
	switch c.state {
	case Initialized:
		c.mu.Unlock()
		ready(nil)
		return
	case Initializing:
		c.waiting.Add(id, ready)
		pending := c.waiting.Len()
		c.mu.Unlock()
		c.metrics.RecordPendingRequests(c.network, pending)
		c.log.Debugf("initialization in flight, queued %q (%d pending)", id, pending)
		return
	}

	merged := params
	if c.cache != nil {
		if cached, ok := c.cache.Get(c.network); ok {
			merged = initcache.Merge(params, cached)
		}
	}

	c.state = Initializing
	c.attempt++
	attempt := c.attempt
	c.startedAt = c.clock.Now()
	c.params = merged
	c.waiting.Add(id, ready)
	if c.timeout > 0 {
		c.timer = c.clock.AfterFunc(c.timeout, func() {
			c.complete(attempt, &errortypes.Timeout{
				Message: fmt.Sprintf("%s sdk initialization timed out after %s", c.network, c.timeout),
			})
		})
	}
	c.mu.Unlock()

	c.metrics.RecordPendingRequests(c.network, 1)
	c.log.Infof("initializing sdk")
	c.starter(ctx, merged, func(err error) {
		c.complete(attempt, err)
	})
}

func (c *Coordinator) complete(attempt uint64, err error) {
	c.mu.Lock()
	if attempt != c.attempt || c.state != Initializing {
		c.mu.Unlock()
		c.log.Debugf("ignoring completion of stale initialization attempt %d", attempt)
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	elapsed := c.clock.Since(c.startedAt)
	params := c.params

	var outcome metrics.InitOutcome
	if err == nil {
		c.state = Initialized
		c.lastErr = nil
		outcome = metrics.InitSuccess
	} else {
		c.state = Failed
		c.lastErr = err
		outcome = metrics.InitFailure
		if errortypes.ReadCode(err) == errortypes.NetworkTimeout {
			outcome = metrics.InitTimeout
		}
	}
	// Callbacks move to the replay list and are popped one at a time, so a Cancel issued by an
	// earlier callback still stops a later one.
	queue := func(e waitlist.Entry[ReadyFunc]) {
		ready := e.Payload
		c.replay.Add(e.ID, func() { ready(err) })
	}
	var queued int
	if err == nil {
		queued = c.waiting.Flush(queue)
	} else {
		queued = c.waiting.Discard(queue)
	}
	c.mu.Unlock()

	c.metrics.RecordInit(c.network, outcome)
	c.metrics.RecordInitTime(c.network, elapsed)
	c.metrics.RecordPendingRequests(c.network, 0)

	if err == nil {
		if c.cache != nil {
			c.cache.Put(c.network, params)
		}
		c.log.Infof("sdk initialized, replaying %d queued requests", queued)
	} else {
		c.log.Warnf("sdk initialization failed, dropping %d queued requests: %v", queued, err)
	}
	c.drain()
}

func (c *Coordinator) drain() {
	for {
		c.mu.Lock()
		e, ok := c.replay.Pop()
		c.mu.Unlock()
		if !ok {
			return
		}
		e.Payload()
	}
}

// Cancel forgets the queued requests made under id. Their ReadyFunc is never called, even when
// the attempt already finished and its queued requests are being replayed.
func (c *Coordinator) Cancel(id string) int {
	c.mu.Lock()
	removed := c.waiting.Remove(id) + c.replay.Remove(id)
	pending := c.waiting.Len()
	c.mu.Unlock()
	if removed > 0 {
		c.metrics.RecordPendingRequests(c.network, pending)
	}
	return removed
}

// Reset returns the coordinator to NotInitialized. An attempt in flight is abandoned and its
// queued requests are told the SDK was torn down.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.attempt++
	c.state = NotInitialized
	c.lastErr = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	var queued []ReadyFunc
	c.waiting.Discard(func(e waitlist.Entry[ReadyFunc]) { queued = append(queued, e.Payload) })
	c.mu.Unlock()

	if len(queued) > 0 {
		c.metrics.RecordPendingRequests(c.network, 0)
	}
	err := &errortypes.InvalidState{Message: c.network + " sdk was torn down during initialization"}
	for _, ready := range queued {
		ready(err)
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last failed attempt, if the coordinator is in Failed.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Pending returns the number of requests waiting on initialization.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting.Len()
}

func (c *Coordinator) Network() string {
	return c.network
}
