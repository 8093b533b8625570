package spotlight

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/truefocus/pkg/focus"
	"github.com/marcus/truefocus/pkg/focus/focustest"
)

func newTestModel(t *testing.T, cfg focus.Config) Model {
	t.Helper()
	cfg.ContainerStyle = "rounded"
	m := newModel(Options{Focus: cfg, Dark: true, Clock: focustest.NewClock()}, nil)
	t.Cleanup(m.Close)
	_ = m.View()
	return m
}

func groupConfig(items ...string) focus.Config {
	cfg := focus.DefaultConfig()
	cfg.Items = items
	return cfg
}

func sequenceConfig(sentence string, manual bool) focus.Config {
	cfg := focus.DefaultConfig()
	cfg.Sentence = sentence
	cfg.Manual = manual
	return cfg
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	_ = nm.View()
	return nm
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// itemCell returns a cell inside item i as recorded by the last View.
func itemCell(t *testing.T, m Model, i int) (int, int) {
	t.Helper()
	r, ok := m.mouse.HitMap.Lookup(focus.ItemID(i))
	if !ok {
		t.Fatalf("item %d not in hit map", i)
	}
	return r.X + 1, r.Y
}

func TestFlow(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		cells, w, h := flow([]int{4, 5}, []int{1, 1}, 0, 2, 1)
		if cells[1].X != 6 || cells[1].Y != 0 {
			t.Errorf("second cell: got %+v", cells[1])
		}
		if w != 11 || h != 1 {
			t.Errorf("size: got %dx%d, want 11x1", w, h)
		}
	})

	t.Run("wraps at max width", func(t *testing.T) {
		cells, w, h := flow([]int{4, 4, 4}, []int{3, 1, 1}, 10, 2, 1)
		if cells[1].Y != 0 || cells[2].Y != 4 || cells[2].X != 0 {
			t.Errorf("cells: got %+v", cells)
		}
		if w != 10 || h != 5 {
			t.Errorf("size: got %dx%d, want 10x5", w, h)
		}
	})

	t.Run("empty", func(t *testing.T) {
		cells, w, h := flow(nil, nil, 10, 2, 1)
		if len(cells) != 0 || w != 0 || h != 0 {
			t.Errorf("got %v %d %d", cells, w, h)
		}
	})
}

func TestDrawOverlay(t *testing.T) {
	p := newPalette(focus.DefaultConfig(), true)
	base := blank(8, 3)

	got := ansi.Strip(drawOverlay(base, focus.Frame{X: 2, Y: 1, Width: 3, Height: 1, Opacity: 1}, p, 8, 3))
	want := strings.Join([]string{
		" ┏───┓  ",
		" │   │  ",
		" ┗───┛  ",
	}, "\n")
	if got != want {
		t.Errorf("overlay:\ngot\n%s\nwant\n%s", got, want)
	}

	if out := drawOverlay(base, focus.Frame{X: 2, Y: 1, Width: 3, Height: 1, Opacity: 0.01}, p, 8, 3); out != base {
		t.Error("faded overlay should not be drawn")
	}
	if out := drawOverlay(base, focus.Frame{Opacity: 1}, p, 8, 3); out != base {
		t.Error("empty rect should not be drawn")
	}
}

func TestOverlayAtClips(t *testing.T) {
	base := blank(4, 2)
	if got := overlayAt(base, "xy", -1, 0, 4, 2); got != base {
		t.Errorf("negative x: got %q", got)
	}
	if got := overlayAt(base, "xy", 0, 5, 4, 2); got != base {
		t.Errorf("row past end: got %q", got)
	}
	if got := overlayAt(base, "xy", 1, 1, 4, 2); got != "    \n xy " {
		t.Errorf("got %q", got)
	}
}

func TestNewStylesOffsets(t *testing.T) {
	tests := []struct {
		container string
		x, y      int
	}{
		{"plain", 2, 1},
		{"rounded", 3, 2},
		{"double", 3, 2},
		{"unknown", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.container, func(t *testing.T) {
			x, y := NewStyles(tt.container, "plain", focus.Group{}).contentOffset()
			if x != tt.x || y != tt.y {
				t.Errorf("got (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	cfg := focus.DefaultConfig()
	cfg.BorderColor = "not-a-colour"
	p := newPalette(cfg, true)
	if p.border.Hex() != "#00ff00" {
		t.Errorf("border fallback: got %s", p.border.Hex())
	}
	if p.itemColor(0) == p.itemColor(1) {
		t.Error("full blur should change the colour")
	}
	if p.itemColor(1) != p.itemColor(3) {
		t.Error("blur amount should clamp at 1")
	}
	light := newPalette(cfg, false)
	if light.text != p.background {
		t.Error("light palette should swap text and background")
	}
}

func TestScreenLayoutStatic(t *testing.T) {
	m := newTestModel(t, sequenceConfig("True Focus", true))

	c, ok := m.layout.Bounds(focus.ContainerID)
	if !ok || c.Left != 0 || c.Width == 0 {
		t.Fatalf("container: got %+v %v", c, ok)
	}
	b, ok := m.layout.Bounds(focus.ItemID(1))
	if !ok {
		t.Fatal("item-1 should be available after View")
	}
	// rounded border + padding, then "True" and a two-cell gap
	if b.Left != 3+4+2 || b.Top != 2 || b.Width != 5 || b.Height != 1 {
		t.Errorf("item-1: got %+v", b)
	}
	if _, ok := m.layout.Bounds(focus.ItemID(5)); ok {
		t.Error("unknown item should be unavailable")
	}
}

func TestFrameResolvesAfterView(t *testing.T) {
	m := newTestModel(t, sequenceConfig("True Focus", false))
	m = update(t, m, frameMsg(time.Now()))

	want := focus.Rect{X: 3, Y: 2, Width: 4, Height: 1}
	if got := m.engine.Rect(); got != want {
		t.Errorf("rect: got %+v, want %+v", got, want)
	}
	if m.engine.NeedsResolve() {
		t.Error("resolve should be complete")
	}
}

func TestGroupHover(t *testing.T) {
	m := newTestModel(t, groupConfig("alpha", "beta", "gamma"))
	if got := m.engine.State().Active; got != focus.None {
		t.Fatalf("initial active: got %v, want none", got)
	}

	x, y := itemCell(t, m, 1)
	m = update(t, m, motion(x, y))
	if got := m.engine.State().Active; got != 1 {
		t.Errorf("hover item 1: got %v, want 1", got)
	}

	// The gap between items is still inside the container.
	r, _ := m.mouse.HitMap.Lookup(focus.ItemID(1))
	m = update(t, m, motion(r.X+r.W, r.Y))
	if got := m.engine.State().Active; got != 1 {
		t.Errorf("gap: got %v, want 1", got)
	}

	m = update(t, m, motion(500, 500))
	if got := m.engine.State().Active; got != focus.None {
		t.Errorf("leave container: got %v, want none", got)
	}
	if got := m.engine.State().Last; got != 1 {
		t.Errorf("last: got %v, want 1", got)
	}
}

func TestManualSequenceHover(t *testing.T) {
	m := newTestModel(t, sequenceConfig("one two three", true))
	if got := m.engine.State().Active; got != 0 {
		t.Fatalf("initial active: got %v, want 0", got)
	}

	x, y := itemCell(t, m, 2)
	m = update(t, m, motion(x, y))
	if got := m.engine.State().Active; got != 2 {
		t.Errorf("hover word 2: got %v, want 2", got)
	}

	r, _ := m.mouse.HitMap.Lookup(focus.ItemID(2))
	m = update(t, m, motion(r.X+r.W, r.Y))
	if got := m.engine.State().Active; got != 2 {
		t.Errorf("off word keeps last: got %v, want 2", got)
	}

	m = update(t, m, motion(500, 500))
	if got := m.engine.State().Active; got != 2 {
		t.Errorf("outside: got %v, want 2", got)
	}
}

func TestAutoSequenceIgnoresPointer(t *testing.T) {
	m := newTestModel(t, sequenceConfig("one two three", false))
	x, y := itemCell(t, m, 2)
	m = update(t, m, motion(x, y))
	if got := m.engine.State().Active; got != 0 {
		t.Errorf("auto mode: got %v, want 0", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.engine.State().Active; got != 0 {
		t.Errorf("auto mode key: got %v, want 0", got)
	}
	if !strings.Contains(m.status, "press m") {
		t.Errorf("status: got %q", m.status)
	}
}

func TestKeys(t *testing.T) {
	m := newTestModel(t, groupConfig("a", "b", "c"))

	steps := []struct {
		msg  tea.KeyMsg
		want focus.Index
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 0},
		{tea.KeyMsg{Type: tea.KeyTab}, 1},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, 2},
		{tea.KeyMsg{Type: tea.KeyEsc}, focus.None},
		{tea.KeyMsg{Type: tea.KeyLeft}, 1},
	}
	for i, s := range steps {
		m = update(t, m, s.msg)
		if got := m.engine.State().Active; got != s.want {
			t.Errorf("step %d (%s): got %v, want %v", i, s.msg, got, s.want)
		}
	}
}

func TestTimingKeys(t *testing.T) {
	m := newTestModel(t, sequenceConfig("a b", false))

	m = update(t, m, runes("+"))
	m = update(t, m, runes("]"))
	cfg := m.engine.Config()
	if cfg.AnimationDuration != 600*time.Millisecond {
		t.Errorf("duration: got %v, want 600ms", cfg.AnimationDuration)
	}
	if cfg.PauseBetweenAnimations != 1250*time.Millisecond {
		t.Errorf("pause: got %v, want 1.25s", cfg.PauseBetweenAnimations)
	}

	for range 10 {
		m = update(t, m, runes("-"))
	}
	if got := m.engine.Config().AnimationDuration; got != 0 {
		t.Errorf("duration floor: got %v, want 0", got)
	}

	m = update(t, m, runes("m"))
	if got := m.engine.Mode(); got != (focus.Sequence{Manual: true}) {
		t.Errorf("mode after m: got %v", got)
	}
	if m.engine.Cycling() {
		t.Error("manual mode must not cycle")
	}
}

func TestFilter(t *testing.T) {
	m := newTestModel(t, groupConfig("alpha", "beta", "gamma"))

	m = update(t, m, runes("/"))
	if !m.filtering {
		t.Fatal("slash should open the filter")
	}
	m = update(t, m, runes("g"))
	m = update(t, m, runes("a"))
	items := m.engine.Items()
	if len(items) != 1 || items[0].Text != "gamma" {
		t.Errorf("filtered: got %v", items)
	}

	m = update(t, m, runes("zzz"))
	if got := len(m.engine.Items()); got != 1 {
		t.Errorf("no matches keeps the group: got %d items", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering {
		t.Error("esc should close the filter")
	}
	if got := len(m.engine.Items()); got != 3 {
		t.Errorf("esc restores items: got %d, want 3", got)
	}
}

func TestFilterKeepsActiveItem(t *testing.T) {
	m := newTestModel(t, groupConfig("alpha", "beta", "gamma"))

	m.engine.Enter(2)
	m = update(t, m, runes("/"))
	m = update(t, m, runes("g"))
	m = update(t, m, runes("a"))
	if got := m.engine.State().Active; got != 0 {
		t.Errorf("gamma should stay active at its new index: got %v", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.engine.State().Active; got != 2 {
		t.Errorf("gamma should be active again at index 2: got %v", got)
	}

	m.engine.Enter(0)
	m = update(t, m, runes("/"))
	m = update(t, m, runes("g"))
	m = update(t, m, runes("a"))
	if got := m.engine.State().Active; got != focus.None {
		t.Errorf("alpha filtered out, want no active item: got %v", got)
	}
}

func TestFilterNeedsGroup(t *testing.T) {
	m := newTestModel(t, sequenceConfig("a b", true))
	m = update(t, m, runes("/"))
	if m.filtering {
		t.Error("filter should stay closed in sequence mode")
	}
}

func TestConfigMsg(t *testing.T) {
	m := newTestModel(t, sequenceConfig("a b", false))

	m = update(t, m, ConfigMsg{Err: errors.New("bad colour")})
	if !strings.Contains(ansi.Strip(m.View()), "bad colour") {
		t.Error("rejected reload should be shown")
	}

	cfg := groupConfig("x", "y")
	m = update(t, m, ConfigMsg{Focus: cfg, Title: "Reloaded"})
	if _, ok := m.engine.Mode().(focus.Group); !ok {
		t.Errorf("mode: got %v, want group", m.engine.Mode())
	}
	if m.engine.Cycling() {
		t.Error("group must not cycle")
	}
	if m.err != nil {
		t.Errorf("err should clear, got %v", m.err)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Reloaded") {
		t.Error("title should update")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, sequenceConfig("a b", true))
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, runes("?"))
	if !m.showHelp || m.helpView == "" {
		t.Fatal("? should open help")
	}
	if !strings.Contains(ansi.Strip(m.View()), "sequence/manual") {
		t.Error("help should describe the modes")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestQuitClosesEngine(t *testing.T) {
	m := newTestModel(t, sequenceConfig("a b c", false))
	if !m.engine.Cycling() {
		t.Fatal("auto sequence should cycle")
	}
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.engine.Cycling() {
		t.Error("quit should stop the cycle")
	}
	if msg := m.listen()(); msg != nil {
		t.Errorf("listen after close: got %v, want nil", msg)
	}
}

func TestSnapshot(t *testing.T) {
	t.Run("sequence frames the first word", func(t *testing.T) {
		cfg := sequenceConfig("True Focus", false)
		cfg.ContainerStyle = "rounded"
		out := ansi.Strip(Snapshot(Options{Focus: cfg, Dark: true, Clock: focustest.NewClock()}, 80))
		for _, want := range []string{"True", "Focus", glyphTopLeft, glyphBottomRight} {
			if !strings.Contains(out, want) {
				t.Errorf("snapshot missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("group without hover has no frame", func(t *testing.T) {
		out := ansi.Strip(Snapshot(Options{Focus: groupConfig("one", "two"), Dark: true}, 80))
		if strings.Contains(out, glyphTopLeft) {
			t.Errorf("group snapshot should not frame anything:\n%s", out)
		}
		if !strings.Contains(out, "two") {
			t.Errorf("snapshot missing items:\n%s", out)
		}
	})
}
