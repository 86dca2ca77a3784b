package adapters

import "fmt"

// State is where an adapter instance is in its ad lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
	Showing
	Closed
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Showing:
		return "showing"
	case Closed:
		return "closed"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// IsTerminal reports whether no further ad events are accepted in s.
func (s State) IsTerminal() bool {
	return s == Failed || s == Closed || s == Destroyed
}

var transitions = map[State][]State{
	Idle:    {Loading},
	Loading: {Loaded, Failed},
	Loaded:  {Showing},
	Showing: {Closed},
}

// CanTransition reports whether an adapter may move from one state to another. Any state but
// Destroyed may move to Destroyed.
func CanTransition(from, to State) bool {
	if to == Destroyed {
		return from != Destroyed
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
