// Package eventrouter demultiplexes a network SDK's single global callback sink across the many
// ad placements (or instances, zones, locations) in flight at once.
//
// Each network adapter instance registers itself under its placement identifier before issuing
// a load call; the SDK's global callback hands the router (identifier, event) and the router
// forwards the event to whichever listener currently owns the identifier.
package eventrouter

import (
	"sort"
	"sync"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/logger"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/metrics"
)

// Options configure a Router.
type Options struct {
	// Network labels logs and metrics.
	Network string
	// Executor delivers listener calls. Defaults to mainthread.Immediate.
	Executor mainthread.Executor
	// NotifyDisplaced sends LoadFailed(RequestSuperseded) to a listener replaced by a newer
	// registration for the same identifier.
	NotifyDisplaced bool
	Metrics         metrics.MetricsEngine
}

// Router is a placement-keyed listener registry. It is safe for concurrent use.
type Router struct {
	network         string
	executor        mainthread.Executor
	notifyDisplaced bool
	metrics         metrics.MetricsEngine
	log             logger.Logger

	mu      sync.RWMutex
	entries map[string]*Registration
}

// Registration is the handle returned by Register. It identifies one (identifier, listener)
// pairing, so releasing it never removes a newer pairing for the same identifier.
type Registration struct {
	router   *Router
	id       string
	listener mediation.Listener
}

// ID returns the identifier the registration was made under.
func (r *Registration) ID() string {
	return r.id
}

// Release removes the registration if it is still the current one for its identifier.
// It reports whether anything was removed.
func (r *Registration) Release() bool {
	if r == nil {
		return false
	}
	return r.router.release(r)
}

// Active reports whether the registration still owns its identifier.
func (r *Registration) Active() bool {
	if r == nil {
		return false
	}
	r.router.mu.RLock()
	defer r.router.mu.RUnlock()
	return r.router.entries[r.id] == r
}

func New(opts Options) *Router {
	executor := opts.Executor
	if executor == nil {
		executor = mainthread.Immediate{}
	}
	return &Router{
		network:         opts.Network,
		executor:        executor,
		notifyDisplaced: opts.NotifyDisplaced,
		metrics:         metrics.OrNil(opts.Metrics),
		log:             logger.Prefixed(opts.Network),
		entries:         make(map[string]*Registration),
	}
}

// Register stores listener under id, replacing whatever was registered before.
func (r *Router) Register(id string, listener mediation.Listener) *Registration {
	reg := &Registration{router: r, id: id, listener: listener}

	r.mu.Lock()
	prev, replaced := r.entries[id]
	r.entries[id] = reg
	r.mu.Unlock()

	if replaced {
		r.metrics.RecordDisplaced(r.network)
		r.log.Warnf("listener for %q replaced by a newer request", id)
		if r.notifyDisplaced {
			displaced := prev.listener
			r.executor.Post(func() {
				events.Deliver(displaced, events.NewLoadFailed(errortypes.RequestSuperseded))
			})
		}
	}
	return reg
}

// RegisterIfAbsent stores listener under id unless another listener owns it. It reports
// whether the registration was made; callers use it where the SDK allows one request per
// identifier at a time.
func (r *Router) RegisterIfAbsent(id string, listener mediation.Listener) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.entries[id]; busy {
		return nil, false
	}
	reg := &Registration{router: r, id: id, listener: listener}
	r.entries[id] = reg
	return reg, true
}

// Unregister removes whatever listener is registered under id.
func (r *Router) Unregister(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *Router) release(reg *Registration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[reg.id] != reg {
		return false
	}
	delete(r.entries, reg.id)
	return true
}

// Lookup returns the listener currently registered under id.
func (r *Router) Lookup(id string) (mediation.Listener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return reg.listener, true
}

// Dispatch forwards e to the listener registered under id. Events for an identifier nobody
// owns belong to an adapter that was already torn down and are dropped.
//
// The listener is resolved when the executor runs the delivery, so an identifier unregistered
// in between drops the event as well.
func (r *Router) Dispatch(id string, e events.Event) {
	posted := r.executor.Post(func() {
		r.mu.RLock()
		reg, ok := r.entries[id]
		r.mu.RUnlock()

		r.metrics.RecordDispatch(metrics.DispatchLabels{
			Network:   r.network,
			Kind:      e.Kind,
			Delivered: ok,
		})
		if !ok {
			r.log.Debugf("dropping %s for unregistered %q", e, id)
			return
		}
		events.Deliver(reg.listener, e)
	})
	if !posted {
		r.metrics.RecordDispatch(metrics.DispatchLabels{Network: r.network, Kind: e.Kind, Delivered: false})
		r.log.Debugf("executor stopped, dropping %s for %q", e, id)
	}
}

// Len returns the number of registered identifiers.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the registered identifiers, sorted.
func (r *Router) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Network returns the network label the router was built with.
func (r *Router) Network() string {
	return r.network
}
