package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
)

// State is the position of a Breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen rejects calls until the cool-down has passed.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}

	return "unknown"
}

// Breaker stops calling an upstream that keeps failing.
//
// MaxFailures consecutive failures open it. Once Timeout has passed since it
// opened, up to HalfOpenLimit probes run at a time; HalfOpenLimit successful
// probes close it and a failed probe opens it again.
type Breaker struct {
	cfg config.CircuitBreakerConfig

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time

	now      func() time.Time
	onChange func(from, to State)
}

// NewBreaker creates a closed breaker. onChange, if set, runs after every
// state change and outside the breaker's lock.
func NewBreaker(cfg config.CircuitBreakerConfig, onChange func(from, to State)) *Breaker {
	return &Breaker{cfg: cfg, now: time.Now, onChange: onChange}
}

// Acquire asks to make a call. It returns ErrCircuitOpen when the call must
// not be made. Every nil return must be paired with one Release.
func (b *Breaker) Acquire() error {
	b.mu.Lock()

	var from State
	changed := false

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		from, changed = b.moveTo(StateHalfOpen)
		b.probes = 1
	case StateHalfOpen:
		if b.probes >= b.cfg.HalfOpenLimit {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.probes++
	}

	b.mu.Unlock()

	if changed {
		b.notify(from, StateHalfOpen)
	}

	return nil
}

// Release reports the outcome of a call allowed by Acquire.
func (b *Breaker) Release(ok bool) {
	b.mu.Lock()

	var (
		from, to State
		changed  bool
	)

	switch b.state {
	case StateClosed:
		if ok {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.cfg.MaxFailures {
			to = StateOpen
			from, changed = b.moveTo(to)
		}
	case StateHalfOpen:
		b.probes = max(b.probes-1, 0)
		if !ok {
			to = StateOpen
			from, changed = b.moveTo(to)
			break
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenLimit {
			to = StateClosed
			from, changed = b.moveTo(to)
		}
	}

	b.mu.Unlock()

	if changed {
		b.notify(from, to)
	}
}

// State returns the current state without moving it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// moveTo changes state and resets the counters. The lock must be held.
func (b *Breaker) moveTo(to State) (State, bool) {
	from := b.state
	if from == to {
		return from, false
	}

	b.state = to
	b.failures = 0
	b.successes = 0
	b.probes = 0
	if to == StateOpen {
		b.openedAt = b.now()
	}

	return from, true
}

func (b *Breaker) notify(from, to State) {
	if b.onChange != nil {
		b.onChange(from, to)
	}
}
