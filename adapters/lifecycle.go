package adapters

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gofrs/uuid"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/logger"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/metrics"
)

type LifecycleOptions struct {
	Network  string
	Executor mainthread.Executor
	Clock    clock.Clock
	Metrics  metrics.MetricsEngine
}

// Lifecycle is the state machine every network adapter embeds. Vendor callbacks are mapped to
// events and fed to Handle (directly, or through an eventrouter.Router the Lifecycle is
// registered with), and Lifecycle forwards them to whichever mediator listener is entitled to
// them in the current state.
//
// Lifecycle implements mediation.Listener so it can be registered with a Router as is.
type Lifecycle struct {
	network  string
	executor mainthread.Executor
	clock    clock.Clock
	metrics  metrics.MetricsEngine
	log      logger.Logger

	mu          sync.Mutex
	state       State
	requestID   string
	format      mediation.AdFormat
	load        mediation.LoadListener
	interaction mediation.InteractionListener
	reg         *eventrouter.Registration
	cleanup     []func()
	loadStart   time.Time
	// expired is set when a loaded fullscreen ad becomes unusable before Show.
	expired errortypes.ErrorCode
}

var _ mediation.Listener = (*Lifecycle)(nil)

func NewLifecycle(opts LifecycleOptions) *Lifecycle {
	executor := opts.Executor
	if executor == nil {
		executor = mainthread.Immediate{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Lifecycle{
		network:  opts.Network,
		executor: executor,
		clock:    clk,
		metrics:  metrics.OrNil(opts.Metrics),
		log:      logger.Prefixed(opts.Network),
	}
}

// BeginLoad moves Idle to Loading and remembers listener. When listener also implements
// mediation.InteractionListener it receives the interaction events of banners, which are never
// passed through Show. It returns the request ID.
func (l *Lifecycle) BeginLoad(data mediation.AdData, listener mediation.LoadListener) (string, error) {
	if listener == nil {
		return "", &errortypes.Internal{Message: "load listener is required"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.transition(Loading); err != nil {
		return "", err
	}
	l.requestID = uuid.Must(uuid.NewV4()).String()
	l.format = data.Format
	l.load = listener
	if interaction, ok := listener.(mediation.InteractionListener); ok {
		l.interaction = interaction
	}
	l.loadStart = l.clock.Now()
	return l.requestID, nil
}

// Reject fails a load that never reached the network, typically on bad server params. The
// listener is not called: err is returned to the mediator instead.
func (l *Lifecycle) Reject(err error) error {
	l.mu.Lock()
	if l.state == Idle || l.state == Loading {
		l.state = Failed
	}
	format := l.format
	l.mu.Unlock()

	code := errortypes.ReadCode(err)
	l.metrics.RecordLoad(metrics.LoadLabels{
		Network: l.network,
		Format:  string(format),
		Outcome: metrics.LoadFailure,
		Code:    code,
	})
	l.log.Warnf("rejecting load: %v", err)
	l.release()
	return err
}

// Attach ties a router registration to this lifecycle. It is released on the first terminal
// event or on Destroy. Attaching after the lifecycle ended releases reg at once.
func (l *Lifecycle) Attach(reg *eventrouter.Registration) {
	l.mu.Lock()
	if l.state.IsTerminal() {
		l.mu.Unlock()
		reg.Release()
		return
	}
	l.reg = reg
	l.mu.Unlock()
}

// AttachIfLoading calls register and attaches the registration it returns, provided the
// lifecycle is still Loading. It holds the lifecycle's lock throughout, so a destroyed or failed
// adapter never displaces a live listener from the router. It reports whether register ran;
// callers skip the vendor load when it did not.
func (l *Lifecycle) AttachIfLoading(register func() *eventrouter.Registration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Loading {
		return false
	}
	l.reg = register()
	return true
}

// OnRelease registers fn to run once, when the lifecycle reaches a terminal state.
func (l *Lifecycle) OnRelease(fn func()) {
	l.mu.Lock()
	if l.state.IsTerminal() {
		l.mu.Unlock()
		fn()
		return
	}
	l.cleanup = append(l.cleanup, fn)
	l.mu.Unlock()
}

// BeginShow moves Loaded to Showing. Events of the show go to listener.
func (l *Lifecycle) BeginShow(listener mediation.InteractionListener) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Loaded && !l.format.Fullscreen() {
		return &errortypes.InvalidState{Message: fmt.Sprintf("%s ads are not presented with Show", l.format)}
	}
	if l.state == Loaded && l.expired != errortypes.Unspecified {
		l.metrics.RecordShow(l.network, metrics.ShowFailure)
		return &errortypes.NetworkFailure{
			Message:   fmt.Sprintf("%s ad can no longer be shown: %s", l.network, l.expired),
			ErrorCode: l.expired,
		}
	}
	if err := l.transition(Showing); err != nil {
		return err
	}
	l.interaction = listener
	return nil
}

// Post hands e to the executor, which calls Handle. Vendor callbacks arriving on SDK threads
// use Post; a Router already delivers on the executor.
func (l *Lifecycle) Post(e events.Event) {
	if !l.executor.Post(func() { l.Handle(e) }) {
		l.log.Debugf("executor stopped, dropping %s", e)
	}
}

// Handle applies e to the state machine and forwards it to the entitled listener. Events that
// do not fit the current state are dropped.
func (l *Lifecycle) Handle(e events.Event) {
	l.mu.Lock()
	deliver, terminal := l.apply(e)
	state := l.state
	l.mu.Unlock()

	if terminal {
		l.release()
	}
	if deliver == nil {
		l.log.Debugf("dropping %s in state %s", e, state)
		return
	}
	deliver()
}

// apply must be called with mu held.
func (l *Lifecycle) apply(e events.Event) (deliver func(), terminal bool) {
	banner := !l.format.Fullscreen()
	interactive := l.state == Showing || (l.state == Loaded && banner)

	switch e.Kind {
	case events.Loaded:
		if l.state != Loading {
			return nil, false
		}
		l.state = Loaded
		l.recordLoad(metrics.LoadSuccess, errortypes.Unspecified)
		listener := l.load
		return listener.OnAdLoaded, false

	case events.LoadFailed, events.Error:
		switch {
		case l.state == Loading:
			l.state = Failed
			l.recordLoad(metrics.LoadFailure, e.Code)
			listener, code := l.load, e.Code
			return func() { listener.OnAdLoadFailed(code) }, true
		case l.state == Showing:
			l.state = Closed
			l.metrics.RecordShow(l.network, metrics.ShowFailure)
			return l.interactionCall(func(il mediation.InteractionListener) { il.OnAdFailed(e.Code) }), true
		case l.state == Loaded && banner:
			return l.interactionCall(func(il mediation.InteractionListener) { il.OnAdFailed(e.Code) }), false
		case l.state == Loaded:
			l.expired = e.Code
			l.log.Infof("loaded ad became unusable: %s", e.Code)
			return nil, false
		}
		return nil, false

	case events.Shown:
		if !interactive {
			return nil, false
		}
		if l.state == Showing {
			l.metrics.RecordShow(l.network, metrics.ShowSuccess)
		}
		return l.interactionCall(mediation.InteractionListener.OnAdShown), false

	case events.Clicked:
		if !interactive {
			return nil, false
		}
		return l.interactionCall(mediation.InteractionListener.OnAdClicked), false

	case events.Impression:
		if !interactive {
			return nil, false
		}
		return l.interactionCall(mediation.InteractionListener.OnAdImpression), false

	case events.Rewarded:
		if l.state != Showing || l.format != mediation.FormatRewarded {
			return nil, false
		}
		reward := e.Reward
		return l.interactionCall(func(il mediation.InteractionListener) { il.OnAdComplete(reward) }), false

	case events.Dismissed:
		if !interactive {
			return nil, false
		}
		if l.state == Showing {
			l.state = Closed
			return l.interactionCall(mediation.InteractionListener.OnAdDismissed), true
		}
		return l.interactionCall(mediation.InteractionListener.OnAdDismissed), false
	}
	return nil, false
}

func (l *Lifecycle) interactionCall(call func(mediation.InteractionListener)) func() {
	listener := l.interaction
	if listener == nil {
		return nil
	}
	return func() { call(listener) }
}

func (l *Lifecycle) recordLoad(outcome metrics.LoadOutcome, code errortypes.ErrorCode) {
	l.metrics.RecordLoad(metrics.LoadLabels{
		Network: l.network,
		Format:  string(l.format),
		Outcome: outcome,
		Code:    code,
	})
	l.metrics.RecordLoadTime(l.network, l.clock.Since(l.loadStart))
}

// Destroy moves any state to Destroyed and releases the router registration and every
// OnRelease hook. It reports whether anything changed.
func (l *Lifecycle) Destroy() bool {
	l.mu.Lock()
	if l.state == Destroyed {
		l.mu.Unlock()
		return false
	}
	l.state = Destroyed
	l.mu.Unlock()

	l.release()
	return true
}

func (l *Lifecycle) release() {
	l.mu.Lock()
	reg := l.reg
	cleanup := l.cleanup
	l.reg = nil
	l.cleanup = nil
	l.mu.Unlock()

	reg.Release()
	for _, fn := range cleanup {
		fn()
	}
}

// transition must be called with mu held.
func (l *Lifecycle) transition(to State) error {
	if !CanTransition(l.state, to) {
		return &errortypes.InvalidState{
			Message: fmt.Sprintf("%s adapter cannot move from %s to %s", l.network, l.state, to),
		}
	}
	l.state = to
	return nil
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) RequestID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requestID
}

func (l *Lifecycle) Format() mediation.AdFormat {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.format
}

func (l *Lifecycle) OnAdLoaded() { l.Handle(events.NewLoaded()) }

func (l *Lifecycle) OnAdLoadFailed(code errortypes.ErrorCode) {
	l.Handle(events.NewLoadFailed(code))
}

func (l *Lifecycle) OnAdShown()      { l.Handle(events.NewShown()) }
func (l *Lifecycle) OnAdClicked()    { l.Handle(events.NewClicked()) }
func (l *Lifecycle) OnAdImpression() { l.Handle(events.NewImpression()) }
func (l *Lifecycle) OnAdDismissed()  { l.Handle(events.NewDismissed()) }

func (l *Lifecycle) OnAdFailed(code errortypes.ErrorCode) {
	l.Handle(events.NewError(code))
}

func (l *Lifecycle) OnAdComplete(reward mediation.Reward) {
	l.Handle(events.NewRewarded(reward.Amount, reward.Label))
}
