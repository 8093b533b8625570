package spotlight

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/truefocus/pkg/focus"
)

// minOpacity is the overlay opacity below which nothing is drawn.
const minOpacity = 0.05

// Corner glyphs for the brackets and the thin frame between them.
const (
	glyphTopLeft     = "┏"
	glyphTopRight    = "┓"
	glyphBottomLeft  = "┗"
	glyphBottomRight = "┛"
	glyphHorizontal  = "─"
	glyphVertical    = "│"
)

// overlayAt composites overlay on top of base with its top-left cell at (x, y).
// Both are line-based grids; cells outside base are dropped.
func overlayAt(base, overlay string, x, y, width, height int) string {
	if x < 0 {
		return base
	}
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		overlayLine := padRight(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			if gap := width - pos - ansi.StringWidth(right); gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}
		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines splits on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// blank returns a width x height grid of spaces.
func blank(width, height int) string {
	if height <= 0 {
		return ""
	}
	row := strings.Repeat(" ", max(width, 0))
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// cellRect rounds an animated frame to whole cells.
func cellRect(f focus.Frame) focus.Rect {
	return focus.Rect{
		X:      math.Round(f.X),
		Y:      math.Round(f.Y),
		Width:  math.Round(f.Width),
		Height: math.Round(f.Height),
	}
}

// drawOverlay frames the animated rectangle on base, a width x height grid in
// the same coordinate space as the frame. The frame sits one cell outside the
// rectangle; the brackets mark its corners in the glow colour.
func drawOverlay(base string, f focus.Frame, p palette, width, height int) string {
	if f.Opacity < minOpacity {
		return base
	}
	r := cellRect(f)
	if r.Width <= 0 || r.Height <= 0 {
		return base
	}
	borderColor, glowColor := p.overlayColors(f.Opacity)
	line := lipgloss.NewStyle().Foreground(borderColor)
	glow := lipgloss.NewStyle().Foreground(glowColor).Bold(true)

	x, y := int(r.X), int(r.Y)
	w, h := int(r.Width), int(r.Height)

	horizontal := line.Render(strings.Repeat(glyphHorizontal, w))
	base = overlayAt(base, horizontal, x, y-1, width, height)
	base = overlayAt(base, horizontal, x, y+h, width, height)
	edge := line.Render(glyphVertical)
	for row := y; row < y+h; row++ {
		base = overlayAt(base, edge, x-1, row, width, height)
		base = overlayAt(base, edge, x+w, row, width, height)
	}

	// Brackets returns outer corner points; the right and bottom ones sit
	// just past the last cell.
	corners := focus.Brackets(r, 1)
	glyphs := [4]string{glyphTopLeft, glyphTopRight, glyphBottomLeft, glyphBottomRight}
	for c, pt := range corners {
		cx, cy := int(pt.X), int(pt.Y)
		switch focus.Corner(c) {
		case focus.TopRight:
			cx--
		case focus.BottomLeft:
			cy--
		case focus.BottomRight:
			cx--
			cy--
		}
		base = overlayAt(base, glow.Render(glyphs[c]), cx, cy, width, height)
	}
	return base
}
