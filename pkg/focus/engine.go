package focus

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Engine owns the focus state, cycle ticker, resolved rectangle and overlay
// animation of one mounted highlight. All methods are safe for concurrent use;
// transitions are applied one at a time in the order they arrive.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	mode    Mode
	items   []Item
	state   State
	hovered bool

	rect    Rect
	hasRect bool
	dirty   bool

	layout  LayoutProvider
	clock   Clock
	ticker  *Ticker
	tickGen uint64
	anim    *Animator

	log      *slog.Logger
	onChange func(State)
	closed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock sets the clock driving the cycle ticker.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLayout sets the layout provider used by Resolve.
func WithLayout(l LayoutProvider) Option {
	return func(e *Engine) { e.layout = l }
}

// WithOnChange registers a callback invoked, outside the engine lock, after
// every state change. Ticks arrive on the clock's goroutine.
func WithOnChange(fn func(State)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// New mounts an engine for cfg. Call Close to release its ticker.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		log:   slog.New(slog.DiscardHandler),
		clock: SystemClock,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ticker = NewTicker(e.clock)
	e.anim = NewAnimator(SpringPolicy())

	e.mu.Lock()
	e.applyLocked(cfg, true)
	e.mu.Unlock()
	return e
}

// Configure applies an externally supplied configuration. A switch between
// Group and Sequence resets focus; a resize clamps it; changes to the item
// count or timings re-arm the ticker.
func (e *Engine) Configure(cfg Config) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	before := e.state
	e.applyLocked(cfg, false)
	after := e.state
	e.mu.Unlock()

	if before != after {
		e.notify(after)
	}
}

func (e *Engine) applyLocked(cfg Config, initial bool) {
	cfg = cfg.normalized()
	mode, items := SelectMode(cfg)

	prevCfg, prevMode, prevItems := e.cfg, e.mode, e.items
	e.cfg, e.items = cfg, items

	switched := initial || !sameVariant(prevMode, mode)
	switch {
	case switched:
		e.state = InitialState(mode)
		e.hovered = false
		e.dirty = true
		e.log.Info("focus mode selected", "mode", mode.String(), "items", len(items))
	case !slices.Equal(prevItems, items):
		e.state = e.state.Clamp(len(items))
		if _, ok := mode.(Sequence); ok && e.state.Active == None {
			e.state = InitialState(mode)
		}
		e.dirty = true
		e.log.Info("focus items changed", "mode", mode.String(), "items", len(items), "active", e.state.Active)
	}
	e.mode = mode
	e.anim.SetPolicy(PolicyFor(mode, cfg.AnimationDuration))

	if cycles(mode) {
		rearm := switched || !cycles(prevMode) ||
			len(prevItems) != len(items) ||
			prevCfg.AnimationDuration != cfg.AnimationDuration ||
			prevCfg.PauseBetweenAnimations != cfg.PauseBetweenAnimations
		if rearm {
			e.rearmLocked()
		}
	} else {
		e.stopTickerLocked()
	}
	e.retargetLocked()
}

func (e *Engine) rearmLocked() {
	e.tickGen++
	gen := e.tickGen
	period := e.cfg.Period()
	e.ticker.Start(period, func() { e.tick(gen) })
	e.log.Info("focus cycle armed", "period", period, "items", len(e.items))
}

func (e *Engine) stopTickerLocked() {
	if e.ticker.Running() {
		e.log.Info("focus cycle stopped")
	}
	e.tickGen++
	e.ticker.Stop()
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.tickGen {
		e.mu.Unlock()
		return
	}
	changed := e.dispatchLocked(Tick())
	st := e.state
	e.mu.Unlock()

	if changed {
		e.notify(st)
	}
}

// Dispatch applies one input event and reports whether the state changed.
func (e *Engine) Dispatch(ev Event) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	changed := e.dispatchLocked(ev)
	st := e.state
	e.mu.Unlock()

	if changed {
		e.notify(st)
	}
	return changed
}

// Enter reports the pointer entering item i.
func (e *Engine) Enter(i int) bool { return e.Dispatch(Enter(i)) }

// Leave reports the pointer leaving.
func (e *Engine) Leave() bool { return e.Dispatch(Leave()) }

func (e *Engine) dispatchLocked(ev Event) bool {
	prev := e.state
	prevHovered := e.hovered
	switch ev.Kind {
	case EventEnter:
		if ev.Index.Valid(len(e.items)) {
			e.hovered = true
		}
	case EventLeave:
		e.hovered = false
	}

	e.state = Transition(prev, ev, e.mode, len(e.items))
	if e.state.Active != prev.Active {
		e.dirty = true
	}
	if e.state != prev || e.hovered != prevHovered {
		e.retargetLocked()
	}
	if e.state != prev {
		e.log.Debug("focus transition", "event", ev.Kind.String(), "index", ev.Index,
			"from", prev.Active, "to", e.state.Active, "mode", e.mode.String())
		return true
	}
	return false
}

// Resolve reads the active item's bounding box from the layout provider and
// updates the overlay target. Call it after the surface has committed the
// layout for the current state. It reports whether the rectangle changed; when
// nothing is active or the layout is unavailable the previous rectangle stays.
func (e *Engine) Resolve() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	if e.state.Active == None {
		e.dirty = false
		return false
	}
	r, ok := ResolveRect(e.layout, e.state.Active, e.rect)
	if !ok {
		return false
	}
	e.dirty = false

	changed := r != e.rect || !e.hasRect
	if !e.hasRect {
		e.anim.SnapRect(r)
		e.hasRect = true
	}
	e.rect = r
	if changed {
		e.retargetLocked()
	}
	return changed
}

// retargetLocked points the animator at the current rect, opacity and levels.
func (e *Engine) retargetLocked() {
	n := len(e.items)
	active := e.state.Active

	opacity := 0.0
	if active != None {
		opacity = 1
		if _, ok := e.mode.(Group); ok && !e.hovered {
			opacity = 0
		}
	}

	levels := make([]float64, n)
	switch e.mode.(type) {
	case Group:
		if active != None {
			for i := range levels {
				if Index(i) != active {
					levels[i] = 1
				}
			}
		}
	case Sequence:
		for i := range levels {
			if Index(i) != active {
				levels[i] = 1
			}
		}
	}
	e.anim.SetTarget(e.rect, opacity, levels)
}

// Step advances the overlay animation by dt.
func (e *Engine) Step(dt time.Duration) Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.anim.Step(dt)
}

// Frame returns the current animation sample without advancing it.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.anim.Frame()
}

// Animating reports whether the overlay is moving or a resolve is pending.
func (e *Engine) Animating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.anim.Animating() || e.dirty
}

// NeedsResolve reports whether focus or items changed since the last
// successful Resolve.
func (e *Engine) NeedsResolve() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// BlurStrength maps the mode's per-item level to a 0..1 effect strength: the
// configured blur for sequences, a fixed dim for groups.
func (e *Engine) BlurStrength() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BlurStrength(e.cfg.BlurAmount)
}

// BlurStrength converts a blur amount to a 0..1 strength. Eight or more units
// blur a word completely.
func BlurStrength(amount float64) float64 {
	s := amount / 8
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// State returns the current focus state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Items returns a copy of the current items.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// Config returns the applied configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.Items = slices.Clone(e.cfg.Items)
	return cfg
}

// Rect returns the last resolved rectangle.
func (e *Engine) Rect() Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rect
}

// Cycling reports whether the ticker is armed.
func (e *Engine) Cycling() bool {
	return e.ticker.Running()
}

// Close stops the ticker. Further events and ticks are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.tickGen++
	e.ticker.Stop()
	e.log.Info("focus engine closed")
}

func (e *Engine) notify(st State) {
	if e.onChange != nil {
		e.onChange(st)
	}
}
