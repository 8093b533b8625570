package spotlight

import (
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/truefocus/pkg/focus"
	"github.com/marcus/truefocus/pkg/spotlight/mouse"
)

// screenLayout answers focus.LayoutProvider queries from what the last View
// produced. Item rectangles come from the hit map, relative to the container
// box; the container's screen position comes from its bubblezone zone. With no
// zone manager the container is assumed to sit at the origin.
type screenLayout struct {
	zones       *zone.Manager
	containerID string
	hits        *mouse.HitMap

	width, height int
}

func newScreenLayout(zones *zone.Manager, hits *mouse.HitMap) *screenLayout {
	l := &screenLayout{zones: zones, hits: hits, containerID: focus.ContainerID}
	if zones != nil {
		l.containerID = zones.NewPrefix() + focus.ContainerID
	}
	return l
}

// setSize records the rendered container box size.
func (l *screenLayout) setSize(w, h int) {
	l.width, l.height = w, h
}

// container returns the container box in screen cells.
func (l *screenLayout) container() (focus.Box, bool) {
	if l.zones == nil {
		if l.width == 0 || l.height == 0 {
			return focus.Box{}, false
		}
		return focus.Box{Width: float64(l.width), Height: float64(l.height)}, true
	}
	z := l.zones.Get(l.containerID)
	if z == nil || z.IsZero() {
		return focus.Box{}, false
	}
	return focus.Box{
		Left:   float64(z.StartX),
		Top:    float64(z.StartY),
		Width:  float64(z.EndX - z.StartX + 1),
		Height: float64(z.EndY - z.StartY + 1),
	}, true
}

// Bounds implements focus.LayoutProvider.
func (l *screenLayout) Bounds(id string) (focus.Box, bool) {
	c, ok := l.container()
	if !ok {
		return focus.Box{}, false
	}
	if id == focus.ContainerID {
		return c, true
	}
	r, ok := l.hits.Lookup(id)
	if !ok {
		return focus.Box{}, false
	}
	return focus.Box{
		Left:   c.Left + float64(r.X),
		Top:    c.Top + float64(r.Y),
		Width:  float64(r.W),
		Height: float64(r.H),
	}, true
}

// cell is an item's placement inside the container content.
type cell struct {
	X, Y, W, H int
}

// flow places blocks of the given sizes left to right, wrapping to a new row
// when the next block would pass maxWidth. A maxWidth of zero never wraps. It
// returns each block's position and the overall size.
func flow(widths, heights []int, maxWidth, gap, rowGap int) (cells []cell, width, height int) {
	cells = make([]cell, len(widths))
	x, y, rowH := 0, 0, 0
	for i, w := range widths {
		h := heights[i]
		if x > 0 && maxWidth > 0 && x+w > maxWidth {
			y += rowH + rowGap
			x, rowH = 0, 0
		}
		cells[i] = cell{X: x, Y: y, W: w, H: h}
		width = max(width, x+w)
		rowH = max(rowH, h)
		x += w + gap
	}
	if len(widths) > 0 {
		height = y + rowH
	}
	return cells, width, height
}
