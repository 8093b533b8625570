// Package focustest provides deterministic stand-ins for the clock and layout
// provider consumed by package focus.
package focustest

import (
	"sort"
	"sync"
	"time"

	"github.com/marcus/truefocus/pkg/focus"
)

// Clock is a manually advanced focus.Clock. Callbacks run synchronously inside
// Advance, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	c   *Clock
	at  time.Duration
	seq int
	f   func()
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// AfterFunc schedules f to run once d has elapsed on the fake clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) focus.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.seq++
	c.timers = append(c.timers, t)
	return t
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	for i, x := range t.c.timers {
		if x == t {
			t.c.timers = append(t.c.timers[:i], t.c.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including timers scheduled by callbacks during the advance.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].at != c.timers[j].at {
				return c.timers[i].at < c.timers[j].at
			}
			return c.timers[i].seq < c.timers[j].seq
		})
		if len(c.timers) == 0 || c.timers[0].at > target {
			break
		}
		next := c.timers[0]
		c.timers = c.timers[1:]
		c.now = next.at

		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Now returns the elapsed fake time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of outstanding timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Layout is a focus.LayoutProvider backed by a map of boxes.
type Layout struct {
	mu    sync.Mutex
	boxes map[string]focus.Box
	reads int
}

// NewLayout returns an empty layout; every lookup is unavailable until Set.
func NewLayout() *Layout {
	return &Layout{boxes: make(map[string]focus.Box)}
}

// Set records the box for id.
func (l *Layout) Set(id string, b focus.Box) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.boxes[id] = b
}

// Remove makes id unavailable.
func (l *Layout) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.boxes, id)
}

// Bounds implements focus.LayoutProvider.
func (l *Layout) Bounds(id string) (focus.Box, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	b, ok := l.boxes[id]
	return b, ok
}

// Reads returns how many lookups have been made.
func (l *Layout) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

// Row lays out items left to right inside a container at (originX, originY),
// each width cells wide with gap cells between them, and returns the layout.
func Row(originX, originY float64, n int, width, gap float64) *Layout {
	l := NewLayout()
	l.Set(focus.ContainerID, focus.Box{Left: originX, Top: originY, Width: float64(n)*(width+gap) + gap, Height: 3})
	for i := 0; i < n; i++ {
		l.Set(focus.ItemID(i), focus.Box{
			Left:   originX + gap + float64(i)*(width+gap),
			Top:    originY + 1,
			Width:  width,
			Height: 1,
		})
	}
	return l
}
