// Package mediationtest provides listener doubles for adapter and router tests.
package mediationtest

import (
	"fmt"
	"sync"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
)

// Recorder implements mediation.Listener and records every call as a short string such as
// "loaded", "load_failed:NETWORK_NO_FILL" or "complete:coins:10". It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

var _ mediation.Listener = (*Recorder)(nil)

func (r *Recorder) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *Recorder) OnAdLoaded() { r.record("loaded") }

func (r *Recorder) OnAdLoadFailed(code errortypes.ErrorCode) {
	r.record("load_failed:" + code.String())
}

func (r *Recorder) OnAdShown()      { r.record("shown") }
func (r *Recorder) OnAdClicked()    { r.record("clicked") }
func (r *Recorder) OnAdImpression() { r.record("impression") }
func (r *Recorder) OnAdDismissed()  { r.record("dismissed") }

func (r *Recorder) OnAdFailed(code errortypes.ErrorCode) {
	r.record("failed:" + code.String())
}

func (r *Recorder) OnAdComplete(reward mediation.Reward) {
	r.record(fmt.Sprintf("complete:%s:%d", reward.Label, reward.Amount))
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many times call was recorded.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
