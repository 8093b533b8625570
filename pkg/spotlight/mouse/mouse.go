// Package mouse maps terminal mouse events onto rectangular regions recorded
// while a view is rendered.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the longest gap between two clicks on the same
// region that still counts as a double click.
const DoubleClickThreshold = 400 * time.Millisecond

// Rect is a cell rectangle. W and H are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit target.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame. Regions added later are
// drawn on top and win hit tests.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect records a region.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			return &m.regions[i]
		}
	}
	return nil
}

// Lookup returns the last region registered under id.
func (m *HitMap) Lookup(id string) (Rect, bool) {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].ID == id {
			return m.regions[i].Rect, true
		}
	}
	return Rect{}, false
}

// Regions returns the recorded regions in insertion order.
func (m *HitMap) Regions() []Region {
	return m.regions
}

// Clear drops every region.
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "double-click"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionScrollLeft:
		return "scroll-left"
	case ActionScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// Action is the result of handling one mouse event. For hover actions,
// Changed reports that the pointer moved onto a different region (or off
// every region) and Prev holds the region it left.
type Action struct {
	Type    ActionType
	Region  *Region
	Prev    *Region
	Changed bool
	X, Y    int
}

// ClickResult describes a click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks hover and click state across events.
type Handler struct {
	HitMap *HitMap

	hovered    *Region
	lastClick  time.Time
	lastRegion string

	now func() time.Time
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleClick hit-tests a click and detects double clicks on the same region.
// A double click resets detection so a third click starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := h.now()
	res := ClickResult{Region: region}
	if region == nil {
		h.lastRegion = ""
		return res
	}
	if region.ID == h.lastRegion && now.Sub(h.lastClick) <= DoubleClickThreshold {
		res.IsDoubleClick = true
		h.lastRegion = ""
		h.lastClick = time.Time{}
		return res
	}
	h.lastRegion = region.ID
	h.lastClick = now
	return res
}

// Hovered returns the region under the pointer as of the last motion event.
func (h *Handler) Hovered() *Region {
	return h.hovered
}

// HandleMouse classifies msg. Coordinates are used as given; translate them
// into the hit map's space before calling.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	act := Action{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			act.Type = ActionScrollUp
			if msg.Shift {
				act.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			act.Type = ActionScrollDown
			if msg.Shift {
				act.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			act.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			act.Type = ActionScrollRight
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			act.Type = ActionClick
			if res.IsDoubleClick {
				act.Type = ActionDoubleClick
			}
			act.Region = res.Region
		}
	case tea.MouseActionMotion:
		act.Type = ActionHover
		act.Region = h.HitMap.Test(msg.X, msg.Y)
		act.Prev = h.hovered
		act.Changed = regionID(act.Region) != regionID(h.hovered)
		h.hovered = copyRegion(act.Region)
	}
	return act
}

// Leave forgets the hovered region, e.g. when the pointer leaves the window.
// It returns the region that was hovered.
func (h *Handler) Leave() *Region {
	prev := h.hovered
	h.hovered = nil
	return prev
}

// Clear drops the hit map's regions. Hover state survives so that the next
// motion event can report a change against the previous frame.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

func regionID(r *Region) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// copyRegion detaches r from the hit map's backing array, which Clear reuses.
func copyRegion(r *Region) *Region {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
