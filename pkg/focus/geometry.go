package focus

import "strconv"

// Box is an axis-aligned bounding box in the layout provider's coordinate space.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

// Rect is a rectangle relative to the container's top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// LayoutProvider reports the current bounding box of the container or an item.
// ok is false when the target has not been laid out yet.
type LayoutProvider interface {
	Bounds(id string) (box Box, ok bool)
}

// ContainerID names the container in a LayoutProvider.
const ContainerID = "container"

// ItemID names item i in a LayoutProvider.
func ItemID(i int) string {
	return "item-" + strconv.Itoa(i)
}

// ResolveRect derives the rectangle of item active relative to the container.
// It returns prev and false when active is None or either box is unavailable.
func ResolveRect(layout LayoutProvider, active Index, prev Rect) (Rect, bool) {
	if active == None || layout == nil {
		return prev, false
	}
	c, ok := layout.Bounds(ContainerID)
	if !ok {
		return prev, false
	}
	b, ok := layout.Bounds(ItemID(int(active)))
	if !ok {
		return prev, false
	}
	return Rect{
		X:      b.Left - c.Left,
		Y:      b.Top - c.Top,
		Width:  b.Width,
		Height: b.Height,
	}, true
}

// Point is a position in container space.
type Point struct {
	X, Y float64
}

// Corner indexes the result of Brackets.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Brackets returns the corners of r pushed outward by offset on both axes.
// The corner decorations have no state of their own; they follow the rect.
func Brackets(r Rect, offset float64) [4]Point {
	left := r.X - offset
	top := r.Y - offset
	right := r.X + r.Width + offset
	bottom := r.Y + r.Height + offset
	return [4]Point{
		TopLeft:     {X: left, Y: top},
		TopRight:    {X: right, Y: top},
		BottomLeft:  {X: left, Y: bottom},
		BottomRight: {X: right, Y: bottom},
	}
}
