// Package spotlight renders a focus engine in the terminal with bubbletea.
package spotlight

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/truefocus/pkg/focus"
	"github.com/marcus/truefocus/pkg/spotlight/mouse"
)

// Adjustment steps for the duration and pause keys.
const (
	durationStep = 100 * time.Millisecond
	pauseStep    = 250 * time.Millisecond
)

// maxFrameGap caps the dt fed to the animator after an idle spell.
const maxFrameGap = 250 * time.Millisecond

// Options configures a Model.
type Options struct {
	Focus  focus.Config
	Title  string
	FPS    int
	Logger *slog.Logger
	// Dark selects the dark palette and help style.
	Dark bool
	// Clock drives the cycle ticker; nil uses the system clock.
	Clock focus.Clock
}

// ConfigMsg delivers a reloaded configuration to a running program.
type ConfigMsg struct {
	Focus focus.Config
	Title string
	Err   error
}

type stateMsg focus.State

type frameMsg time.Time

// session owns what must not be copied with the model value.
type session struct {
	engine  *focus.Engine
	changes chan focus.State
	done    chan struct{}
	once    sync.Once
}

func (s *session) close() {
	s.once.Do(func() {
		s.engine.Close()
		close(s.done)
	})
}

// Model is the bubbletea model for one highlight.
type Model struct {
	sess   *session
	engine *focus.Engine
	mouse  *mouse.Handler
	zones  *zone.Manager
	layout *screenLayout
	log    *slog.Logger

	keys      keyMap
	help      help.Model
	filter    textinput.Model
	filtering bool
	allItems  []string

	palette palette
	dark    bool
	title   string
	fps     int
	status  string
	err     error

	showHelp bool
	helpView string

	width, height int
	framing       bool
	lastFrame     time.Time
	inContainer   bool
}

// New returns a model for opts. Call Close when the program has exited.
func New(opts Options) Model {
	return newModel(opts, zone.New())
}

func newModel(opts Options, zones *zone.Manager) Model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}

	handler := mouse.NewHandler()
	layout := newScreenLayout(zones, handler.HitMap)
	sess := &session{
		changes: make(chan focus.State, 16),
		done:    make(chan struct{}),
	}
	engineOpts := []focus.Option{
		focus.WithLogger(log),
		focus.WithLayout(layout),
		focus.WithOnChange(func(st focus.State) {
			select {
			case sess.changes <- st:
			default:
			}
		}),
	}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, focus.WithClock(opts.Clock))
	}
	sess.engine = focus.New(opts.Focus, engineOpts...)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter items"
	ti.CharLimit = 64

	return Model{
		sess:     sess,
		engine:   sess.engine,
		mouse:    handler,
		zones:    zones,
		layout:   layout,
		log:      log,
		keys:     newKeyMap(),
		help:     help.New(),
		filter:   ti,
		allItems: slices.Clone(opts.Focus.Items),
		palette:  newPalette(opts.Focus, opts.Dark),
		dark:     opts.Dark,
		title:    opts.Title,
		fps:      fps,
		framing:  true,
	}
}

// Engine returns the model's focus engine.
func (m Model) Engine() *focus.Engine {
	return m.engine
}

// Close stops the engine and releases the change listener. Safe to call more
// than once.
func (m Model) Close() {
	m.sess.close()
	if m.zones != nil {
		m.zones.Close()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.frame())
}

// listen waits for the next engine change.
func (m Model) listen() tea.Cmd {
	changes, done := m.sess.changes, m.sess.done
	return func() tea.Msg {
		select {
		case st := <-changes:
			return stateMsg(st)
		case <-done:
			return nil
		}
	}
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// ensureFrame restarts the frame loop if it went idle.
func (m *Model) ensureFrame() tea.Cmd {
	if m.framing {
		return nil
	}
	m.framing = true
	m.lastFrame = time.Time{}
	return m.frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.filter.Width = max(msg.Width-8, 10)
		if m.showHelp {
			m.helpView = renderHelp(m.width, m.glamourStyle())
		}
		return m, m.ensureFrame()

	case frameMsg:
		return m.step(time.Time(msg))

	case stateMsg:
		return m, tea.Batch(m.listen(), m.ensureFrame())

	case ConfigMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.log.Warn("config reload rejected", "err", msg.Err)
			return m, nil
		}
		m.err = nil
		m.applyConfig(msg.Focus)
		if msg.Title != "" {
			m.title = msg.Title
		}
		m.log.Info("config reloaded", "mode", m.engine.Mode().String())
		return m, m.ensureFrame()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.ensureFrame()

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// step resolves geometry committed by the previous View, then advances the
// animation.
func (m Model) step(now time.Time) (tea.Model, tea.Cmd) {
	dt := time.Second / time.Duration(m.fps)
	if !m.lastFrame.IsZero() {
		if gap := now.Sub(m.lastFrame); gap > 0 && gap < maxFrameGap {
			dt = gap
		}
	}
	m.lastFrame = now

	m.engine.Resolve()
	m.engine.Step(dt)
	if m.engine.Animating() {
		return m, m.frame()
	}
	m.framing = false
	m.lastFrame = time.Time{}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.sess.close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Leave):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = renderHelp(m.width, m.glamourStyle())
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.move(1)
	case key.Matches(msg, m.keys.Prev):
		m.move(-1)
	case key.Matches(msg, m.keys.Leave):
		m.engine.Leave()
	case key.Matches(msg, m.keys.Manual):
		cfg := m.engine.Config()
		cfg.Manual = !cfg.Manual
		m.engine.Configure(cfg)
		m.status = "mode " + m.engine.Mode().String()
	case key.Matches(msg, m.keys.Slower):
		m.adjust(durationStep, 0)
	case key.Matches(msg, m.keys.Faster):
		m.adjust(-durationStep, 0)
	case key.Matches(msg, m.keys.LongerPause):
		m.adjust(0, pauseStep)
	case key.Matches(msg, m.keys.ShorterPause):
		m.adjust(0, -pauseStep)
	case key.Matches(msg, m.keys.Filter):
		if _, ok := m.engine.Mode().(focus.Group); !ok {
			m.status = "filter works on group items"
			return m, nil
		}
		m.filtering = true
		return m, m.filter.Focus()
	}
	return m, m.ensureFrame()
}

// move focuses the item delta steps from the active (or last) one. In
// auto-cycling mode the engine ignores it.
func (m *Model) move(delta int) {
	n := len(m.engine.Items())
	if n == 0 {
		return
	}
	if cycles(m.engine.Mode()) {
		m.status = "auto mode: press m for manual"
		return
	}
	st := m.engine.State()
	cur := st.Active
	if cur == focus.None {
		cur = st.Last
	}
	var next int
	switch {
	case cur == focus.None && delta < 0:
		next = n - 1
	case cur == focus.None:
		next = 0
	default:
		next = ((int(cur)+delta)%n + n) % n
	}
	m.engine.Enter(next)
}

func (m *Model) adjust(duration, pause time.Duration) {
	cfg := m.engine.Config()
	cfg.AnimationDuration = max(cfg.AnimationDuration+duration, 0)
	cfg.PauseBetweenAnimations = max(cfg.PauseBetweenAnimations+pause, 0)
	m.engine.Configure(cfg)
	m.status = fmt.Sprintf("duration %s · pause %s", cfg.AnimationDuration, cfg.PauseBetweenAnimations)
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, m.ensureFrame()
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, tea.Batch(cmd, m.ensureFrame())
}

// applyFilter narrows the group to the items fuzzily matching the filter, in
// their original order. A query with no matches leaves the group unchanged.
func (m *Model) applyFilter() {
	items := m.allItems
	if q := strings.TrimSpace(m.filter.Value()); q != "" {
		matches := fuzzy.Find(q, m.allItems)
		if len(matches) == 0 {
			m.status = "no matches"
			return
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
		items = make([]string, len(matches))
		for i, match := range matches {
			items[i] = match.Str
		}
	}
	m.status = fmt.Sprintf("%d of %d items", len(items), len(m.allItems))
	active := ""
	if st := m.engine.State(); st.Active != focus.None {
		if cur := m.engine.Items(); int(st.Active) < len(cur) {
			active = cur[st.Active].Text
		}
	}
	cfg := m.engine.Config()
	cfg.Items = slices.Clone(items)
	m.engine.Configure(cfg)

	// Focus follows the active item, not its old position.
	if active != "" {
		if i := slices.Index(items, active); i >= 0 {
			m.engine.Enter(i)
		} else {
			m.engine.Leave()
		}
	}
	m.log.Debug("group filtered", "query", m.filter.Value(), "items", len(items))
}

func (m *Model) applyConfig(cfg focus.Config) {
	m.allItems = slices.Clone(cfg.Items)
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.palette = newPalette(cfg, m.dark)
	m.engine.Configure(cfg)
}

// handleMouse maps pointer motion onto Enter and Leave. Group focus is only
// released when the pointer leaves the container; manual sequences release
// per item.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	_, group := m.engine.Mode().(focus.Group)

	c, ok := m.layout.container()
	if !ok || !contains(c, msg.X, msg.Y) {
		if msg.Action != tea.MouseActionMotion {
			return
		}
		prev := m.mouse.Leave()
		if (group && m.inContainer) || (!group && prev != nil) {
			m.engine.Leave()
		}
		m.inContainer = false
		return
	}
	m.inContainer = true

	local := msg
	local.X, local.Y = msg.X-int(c.Left), msg.Y-int(c.Top)
	act := m.mouse.HandleMouse(local)
	switch act.Type {
	case mouse.ActionHover:
		if !act.Changed {
			return
		}
		if !group && act.Prev != nil {
			m.engine.Leave()
		}
		if i, ok := itemIndex(act.Region); ok {
			m.engine.Enter(i)
		}
	case mouse.ActionClick:
		if i, ok := itemIndex(act.Region); ok {
			m.engine.Enter(i)
		}
	case mouse.ActionDoubleClick:
		if !group {
			cfg := m.engine.Config()
			cfg.Manual = !cfg.Manual
			m.engine.Configure(cfg)
			m.status = "mode " + m.engine.Mode().String()
		}
	case mouse.ActionScrollDown, mouse.ActionScrollRight:
		m.move(1)
	case mouse.ActionScrollUp, mouse.ActionScrollLeft:
		m.move(-1)
	}
}

func contains(b focus.Box, x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= b.Left && fx < b.Left+b.Width && fy >= b.Top && fy < b.Top+b.Height
}

func itemIndex(r *mouse.Region) (int, bool) {
	if r == nil {
		return 0, false
	}
	i, ok := r.Data.(int)
	return i, ok
}

func cycles(m focus.Mode) bool {
	s, ok := m.(focus.Sequence)
	return ok && !s.Manual
}

func (m Model) glamourStyle() string {
	if m.dark {
		return "dark"
	}
	return "light"
}
