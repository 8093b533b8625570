package spotlight

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/truefocus/pkg/focus"
)

func (m Model) View() string {
	if m.showHelp {
		view := m.helpView + "\n" + MutedText.Render("? or esc to close · q to quit")
		return m.scan(view)
	}

	sections := []string{m.header(), m.renderContainer()}
	if m.filtering {
		sections = append(sections, m.filter.View())
	}
	sections = append(sections, m.footer())
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		view = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
	}
	return m.scan(view)
}

func (m Model) scan(view string) string {
	if m.zones == nil {
		return view
	}
	return m.zones.Scan(view)
}

func (m Model) header() string {
	title := m.title
	if title == "" {
		title = "truefocus"
	}
	return TitleStyle.Render(title) + MutedText.Render(" · "+m.engine.Mode().String())
}

func (m Model) footer() string {
	cfg := m.engine.Config()
	line := fmt.Sprintf("duration %s · pause %s", cfg.AnimationDuration, cfg.PauseBetweenAnimations)
	if cycles(m.engine.Mode()) {
		line += fmt.Sprintf(" · every %s", cfg.Period().Round(time.Millisecond))
	}
	if m.status != "" {
		line += " · " + m.status
	}
	lines := []string{StatusStyle.Render(line)}
	if m.err != nil {
		lines = append(lines, ErrorText.Render(m.err.Error()))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// renderContainer lays out the items, records their cell rectangles, and
// draws the overlay at the engine's current animation frame. Geometry recorded
// here is what the next Resolve reads.
func (m Model) renderContainer() string {
	items := m.engine.Items()
	frame := m.engine.Frame()
	mode := m.engine.Mode()
	strength := m.engine.BlurStrength()
	cfg := m.engine.Config()
	styles := NewStyles(cfg.ContainerStyle, cfg.ItemStyle, mode)

	blocks := make([]string, len(items))
	widths := make([]int, len(items))
	heights := make([]int, len(items))
	for i, it := range items {
		level := 0.0
		if i < len(frame.Levels) {
			level = frame.Levels[i]
		}
		c := m.palette.itemColor(level * strength)
		blocks[i] = styles.Item.Foreground(c).BorderForeground(c).Render(it.Text)
		widths[i] = lipgloss.Width(blocks[i])
		heights[i] = lipgloss.Height(blocks[i])
	}

	maxWidth := 0
	if m.width > 0 {
		maxWidth = max(m.width-styles.Container.GetHorizontalFrameSize()-2, 10)
	}
	cells, w, h := flow(widths, heights, maxWidth, styles.ItemGap, styles.RowGap)
	content := blank(w, h)
	for i, c := range cells {
		content = overlayAt(content, blocks[i], c.X, c.Y, w, h)
	}
	box := styles.Container.Render(content)
	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)

	offX, offY := styles.contentOffset()
	m.mouse.Clear()
	for i, c := range cells {
		m.mouse.HitMap.AddRect(focus.ItemID(i), offX+c.X, offY+c.Y, c.W, c.H, i)
	}
	m.layout.setSize(boxW, boxH)

	box = drawOverlay(box, frame, m.palette, boxW, boxH)
	if m.zones == nil {
		return box
	}
	return m.zones.Mark(m.layout.containerID, box)
}

// Snapshot renders one settled frame of opts at width without starting a
// program or a cycle.
func Snapshot(opts Options, width int) string {
	m := newModel(opts, nil)
	defer m.Close()
	m.width = width
	m.help.Width = width

	// The first View records geometry; after resolving, settle the animation
	// and render again.
	_ = m.View()
	m.engine.Resolve()
	dt := time.Second / time.Duration(m.fps)
	for i := 0; i < 10*m.fps && m.engine.Animating(); i++ {
		m.engine.Step(dt)
	}
	return m.View()
}
