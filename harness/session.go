package harness

import (
	"sync"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
)

// outcome is the terminal answer to a load or a show. ok is false when the answer is an error.
type outcome struct {
	ok   bool
	code errortypes.ErrorCode
}

// session is the mediator side of one ad: it turns listener calls arriving on any goroutine into
// one load outcome and one show outcome.
type session struct {
	loaded chan outcome
	closed chan outcome

	mu          sync.Mutex
	impressions int
	clicks      int
	rewards     int
}

var _ mediation.Listener = (*session)(nil)

func newSession() *session {
	return &session{
		loaded: make(chan outcome, 1),
		closed: make(chan outcome, 1),
	}
}

func offer(ch chan outcome, o outcome) {
	select {
	case ch <- o:
	default:
	}
}

func (s *session) OnAdLoaded() { offer(s.loaded, outcome{ok: true}) }

func (s *session) OnAdLoadFailed(code errortypes.ErrorCode) {
	offer(s.loaded, outcome{code: code})
}

func (s *session) OnAdShown() {}

func (s *session) OnAdFailed(code errortypes.ErrorCode) {
	offer(s.closed, outcome{code: code})
}

func (s *session) OnAdClicked() {
	s.mu.Lock()
	s.clicks++
	s.mu.Unlock()
}

func (s *session) OnAdImpression() {
	s.mu.Lock()
	s.impressions++
	s.mu.Unlock()
}

func (s *session) OnAdDismissed() { offer(s.closed, outcome{ok: true}) }

func (s *session) OnAdComplete(mediation.Reward) {
	s.mu.Lock()
	s.rewards++
	s.mu.Unlock()
}

func (s *session) counts() (impressions, clicks, rewards int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.impressions, s.clicks, s.rewards
}
