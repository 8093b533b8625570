package focus

import (
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a fake that advances on demand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules on the wall clock.
var SystemClock Clock = systemClock{}

// Ticker calls a function every period. At most one timer is outstanding:
// Start cancels the previous schedule before arming the next, and a firing that
// raced with Stop or Start is dropped.
type Ticker struct {
	clock Clock

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	period time.Duration
}

// NewTicker returns a stopped ticker on clock c.
func NewTicker(c Clock) *Ticker {
	if c == nil {
		c = SystemClock
	}
	return &Ticker{clock: c}
}

// Start (re)arms the ticker. fn runs without the ticker lock held.
func (t *Ticker) Start(period time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.period = period
	t.armLocked(t.gen, fn)
}

func (t *Ticker) armLocked(gen uint64, fn func()) {
	t.timer = t.clock.AfterFunc(t.period, func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.armLocked(gen, fn)
		t.mu.Unlock()
		fn()
	})
}

// Stop cancels the schedule. It is safe to call on a stopped ticker.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Running reports whether a schedule is armed.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Period returns the period of the current (or last) schedule.
func (t *Ticker) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}
