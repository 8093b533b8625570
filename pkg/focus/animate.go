package focus

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// PolicyKind selects the transition curve.
type PolicyKind int

const (
	PolicySpring PolicyKind = iota
	PolicyTween
)

// Policy describes how the overlay travels to a new target.
type Policy struct {
	Kind PolicyKind

	// Tween
	Duration time.Duration

	// Spring
	Stiffness float64
	Damping   float64
	Mass      float64
}

// Snappy spring with a slight overshoot (damping ratio 0.75).
const (
	springStiffness = 400
	springDamping   = 30
	springMass      = 1
)

// SpringPolicy is the Group transition.
func SpringPolicy() Policy {
	return Policy{Kind: PolicySpring, Stiffness: springStiffness, Damping: springDamping, Mass: springMass}
}

// TweenPolicy is a fixed-duration ease-in-out transition.
func TweenPolicy(d time.Duration) Policy {
	return Policy{Kind: PolicyTween, Duration: d}
}

// PolicyFor returns the transition for mode m. Sequences tween over the same
// duration as the word blur so border and text move in lockstep.
func PolicyFor(m Mode, duration time.Duration) Policy {
	switch m.(type) {
	case Group:
		return SpringPolicy()
	default:
		return TweenPolicy(duration)
	}
}

func (p Policy) mass() float64 {
	if p.Mass <= 0 {
		return 1
	}
	return p.Mass
}

func (p Policy) angularFrequency() float64 {
	return math.Sqrt(p.Stiffness / p.mass())
}

func (p Policy) dampingRatio() float64 {
	if p.Stiffness <= 0 {
		return 1
	}
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.mass()))
}

// Frame is one sample of the overlay and per-item visual state.
type Frame struct {
	X, Y          float64
	Width, Height float64
	Opacity       float64
	// Levels holds one value per item: 0 is in focus, 1 is fully blurred/dimmed.
	Levels []float64
}

// Rect returns the frame's rectangle.
func (f Frame) Rect() Rect {
	return Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

const settleEpsilon = 0.005

type channel struct {
	pos, vel float64
	from, to float64
	elapsed  time.Duration
}

func (c *channel) retarget(to float64) {
	if to == c.to {
		return
	}
	c.from = c.pos
	c.to = to
	c.elapsed = 0
}

func (c *channel) snap(v float64) {
	c.pos, c.vel, c.from, c.to, c.elapsed = v, 0, v, v, 0
}

func (c *channel) settled() bool {
	return c.pos == c.to && c.vel == 0
}

// Animator moves a set of values toward their targets under one Policy.
type Animator struct {
	policy   Policy
	spring   harmonica.Spring
	springDT float64

	rect    [4]channel // x, y, width, height
	opacity channel
	levels  []channel
}

// NewAnimator returns an animator at rest at the origin with opacity 0.
func NewAnimator(p Policy) *Animator {
	return &Animator{policy: p}
}

// Policy returns the active transition policy.
func (a *Animator) Policy() Policy { return a.policy }

// SetPolicy switches the transition curve. In-flight values continue from
// where they are.
func (a *Animator) SetPolicy(p Policy) {
	if p == a.policy {
		return
	}
	a.policy = p
	a.springDT = 0
	a.each(func(c *channel) {
		c.from, c.vel, c.elapsed = c.pos, 0, 0
	})
}

// SetTarget points every channel at a new destination. Newly added levels start
// at their target.
func (a *Animator) SetTarget(r Rect, opacity float64, levels []float64) {
	vals := [4]float64{r.X, r.Y, r.Width, r.Height}
	for i := range a.rect {
		a.rect[i].retarget(vals[i])
	}
	a.opacity.retarget(opacity)

	if len(levels) != len(a.levels) {
		next := make([]channel, len(levels))
		copy(next, a.levels)
		for i := len(a.levels); i < len(levels); i++ {
			next[i].snap(levels[i])
		}
		a.levels = next
	}
	for i, v := range levels {
		a.levels[i].retarget(v)
	}
}

// SnapRect places the rectangle at r without animating.
func (a *Animator) SnapRect(r Rect) {
	vals := [4]float64{r.X, r.Y, r.Width, r.Height}
	for i := range a.rect {
		a.rect[i].snap(vals[i])
	}
}

// Step advances every channel by dt and returns the new frame.
func (a *Animator) Step(dt time.Duration) Frame {
	if dt > 0 {
		a.each(func(c *channel) { a.advance(c, dt) })
	}
	return a.Frame()
}

// Animating reports whether any channel has not reached its target.
func (a *Animator) Animating() bool {
	moving := false
	a.each(func(c *channel) {
		if !c.settled() {
			moving = true
		}
	})
	return moving
}

// Frame returns the current sample.
func (a *Animator) Frame() Frame {
	f := Frame{
		X:       a.rect[0].pos,
		Y:       a.rect[1].pos,
		Width:   a.rect[2].pos,
		Height:  a.rect[3].pos,
		Opacity: a.opacity.pos,
		Levels:  make([]float64, len(a.levels)),
	}
	for i := range a.levels {
		f.Levels[i] = a.levels[i].pos
	}
	return f
}

func (a *Animator) each(fn func(*channel)) {
	for i := range a.rect {
		fn(&a.rect[i])
	}
	fn(&a.opacity)
	for i := range a.levels {
		fn(&a.levels[i])
	}
}

func (a *Animator) advance(c *channel, dt time.Duration) {
	if c.settled() {
		return
	}
	switch a.policy.Kind {
	case PolicySpring:
		secs := dt.Seconds()
		if secs != a.springDT {
			a.spring = harmonica.NewSpring(secs, a.policy.angularFrequency(), a.policy.dampingRatio())
			a.springDT = secs
		}
		c.pos, c.vel = a.spring.Update(c.pos, c.vel, c.to)
		if math.Abs(c.pos-c.to) < settleEpsilon && math.Abs(c.vel) < settleEpsilon {
			c.pos, c.vel = c.to, 0
		}
	default:
		c.elapsed += dt
		if a.policy.Duration <= 0 || c.elapsed >= a.policy.Duration {
			c.pos, c.vel = c.to, 0
			return
		}
		t := float64(c.elapsed) / float64(a.policy.Duration)
		c.pos = c.from + (c.to-c.from)*easeInOut(t)
	}
}

// easeInOut is the cubic ease-in-out curve on [0, 1].
func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
