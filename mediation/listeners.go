package mediation

import "github.com/prebid/mediation-adapters/errortypes"

// Split combines independent load and interaction listeners into a Listener. Either half may be
// nil; calls to a nil half are dropped.
func Split(load LoadListener, interaction InteractionListener) Listener {
	return splitListener{load: load, interaction: interaction}
}

type splitListener struct {
	load        LoadListener
	interaction InteractionListener
}

func (s splitListener) OnAdLoaded() {
	if s.load != nil {
		s.load.OnAdLoaded()
	}
}

func (s splitListener) OnAdLoadFailed(code errortypes.ErrorCode) {
	if s.load != nil {
		s.load.OnAdLoadFailed(code)
	}
}

func (s splitListener) OnAdShown() {
	if s.interaction != nil {
		s.interaction.OnAdShown()
	}
}

func (s splitListener) OnAdFailed(code errortypes.ErrorCode) {
	if s.interaction != nil {
		s.interaction.OnAdFailed(code)
	}
}

func (s splitListener) OnAdClicked() {
	if s.interaction != nil {
		s.interaction.OnAdClicked()
	}
}

func (s splitListener) OnAdImpression() {
	if s.interaction != nil {
		s.interaction.OnAdImpression()
	}
}

func (s splitListener) OnAdDismissed() {
	if s.interaction != nil {
		s.interaction.OnAdDismissed()
	}
}

func (s splitListener) OnAdComplete(reward Reward) {
	if s.interaction != nil {
		s.interaction.OnAdComplete(reward)
	}
}
