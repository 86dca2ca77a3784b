package sdksim

import (
	"fmt"
	"math/rand"
	"sync"
)

// Outcome is what a simulated network does with one ad request.
type Outcome int

const (
	Fill Outcome = iota
	NoFill
	Timeout
	NetworkError
	ConfigError
	// Expire fills the request, then expires the ad before it is shown.
	Expire
	// ShowError fills the request, then fails when the ad is shown.
	ShowError
)

func (o Outcome) String() string {
	switch o {
	case Fill:
		return "fill"
	case NoFill:
		return "no_fill"
	case Timeout:
		return "timeout"
	case NetworkError:
		return "network_error"
	case ConfigError:
		return "config_error"
	case Expire:
		return "expire"
	case ShowError:
		return "show_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Behavior scripts a simulated network. Scripted outcomes are consumed first, in order;
// after that each request fills with probability FillRate. It is safe for concurrent use.
type Behavior struct {
	mu        sync.Mutex
	rng       *rand.Rand
	fillRate  float64
	clickRate float64
	script    []Outcome
	always    *Outcome
	initErr   bool
}

func NewBehavior(fillRate float64, seed int64) *Behavior {
	return &Behavior{
		rng:       rand.New(rand.NewSource(seed)),
		fillRate:  fillRate,
		clickRate: 0.1,
	}
}

// Always returns a Behavior that answers every request with o and never clicks.
func Always(o Outcome) *Behavior {
	b := NewBehavior(0, 1)
	b.clickRate = 0
	b.always = &o
	return b
}

// Script queues outcomes for the next requests.
func (b *Behavior) Script(outcomes ...Outcome) *Behavior {
	b.mu.Lock()
	b.script = append(b.script, outcomes...)
	b.mu.Unlock()
	return b
}

// FailInit makes the simulated SDK reject initialization.
func (b *Behavior) FailInit(fail bool) *Behavior {
	b.mu.Lock()
	b.initErr = fail
	b.mu.Unlock()
	return b
}

// SetClickRate sets the probability that a shown ad is clicked.
func (b *Behavior) SetClickRate(rate float64) *Behavior {
	b.mu.Lock()
	b.clickRate = rate
	b.mu.Unlock()
	return b
}

// Next returns the outcome of the next ad request.
func (b *Behavior) Next() Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.script) > 0 {
		o := b.script[0]
		b.script = b.script[1:]
		return o
	}
	if b.always != nil {
		return *b.always
	}
	if b.rng.Float64() < b.fillRate {
		return Fill
	}
	return NoFill
}

// InitFails reports whether initialization should fail.
func (b *Behavior) InitFails() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initErr
}

// Clicks reports whether the ad being shown gets clicked.
func (b *Behavior) Clicks() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64() < b.clickRate
}
