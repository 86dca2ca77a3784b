// Package events defines the single internal event variant every vendor callback is mapped into
// before it reaches a mediator listener.
package events

import (
	"fmt"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
)

// Kind tags an Event.
type Kind int

const (
	Loaded Kind = iota
	LoadFailed
	Shown
	Clicked
	Impression
	Dismissed
	Rewarded
	Error
)

var kindNames = [...]string{
	Loaded:     "loaded",
	LoadFailed: "load_failed",
	Shown:      "shown",
	Clicked:    "clicked",
	Impression: "impression",
	Dismissed:  "dismissed",
	Rewarded:   "rewarded",
	Error:      "error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsTerminal reports whether no further events are expected for the ad after this one.
func (k Kind) IsTerminal() bool {
	return k == LoadFailed || k == Dismissed
}

// Kinds lists every Kind, in declaration order.
func Kinds() []Kind {
	return []Kind{Loaded, LoadFailed, Shown, Clicked, Impression, Dismissed, Rewarded, Error}
}

// Event is one ad lifecycle event. Code is set for LoadFailed and Error; Reward for Rewarded.
type Event struct {
	Kind   Kind
	Code   errortypes.ErrorCode
	Reward mediation.Reward
}

func (e Event) String() string {
	switch e.Kind {
	case LoadFailed, Error:
		return e.Kind.String() + "(" + e.Code.String() + ")"
	case Rewarded:
		return fmt.Sprintf("%s(%d %s)", e.Kind, e.Reward.Amount, e.Reward.Label)
	default:
		return e.Kind.String()
	}
}

func NewLoaded() Event     { return Event{Kind: Loaded} }
func NewShown() Event      { return Event{Kind: Shown} }
func NewClicked() Event    { return Event{Kind: Clicked} }
func NewImpression() Event { return Event{Kind: Impression} }
func NewDismissed() Event  { return Event{Kind: Dismissed} }

func NewLoadFailed(code errortypes.ErrorCode) Event {
	return Event{Kind: LoadFailed, Code: code}
}

func NewError(code errortypes.ErrorCode) Event {
	return Event{Kind: Error, Code: code}
}

func NewRewarded(amount int, label string) Event {
	return Event{Kind: Rewarded, Reward: mediation.Reward{Label: label, Amount: amount}}
}

// Deliver invokes exactly the listener method matching e.
func Deliver(l mediation.Listener, e Event) {
	switch e.Kind {
	case Loaded:
		l.OnAdLoaded()
	case LoadFailed:
		l.OnAdLoadFailed(e.Code)
	case Shown:
		l.OnAdShown()
	case Clicked:
		l.OnAdClicked()
	case Impression:
		l.OnAdImpression()
	case Dismissed:
		l.OnAdDismissed()
	case Rewarded:
		l.OnAdComplete(e.Reward)
	case Error:
		l.OnAdFailed(e.Code)
	}
}
