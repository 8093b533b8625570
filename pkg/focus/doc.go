// Package focus implements the focus highlight engine: it tracks which item of a
// collection is active and drives an overlay toward that item's rectangle.
//
// An engine runs in one of two modes:
//
//   - Group: a caller-supplied collection of content blocks. Hovering an item
//     focuses it; leaving the container hides the overlay.
//   - Sequence: the words of a sentence. In automatic mode a ticker advances the
//     active word every AnimationDuration+PauseBetweenAnimations; in manual mode
//     hovering a word focuses it and leaving reverts to the last hovered word.
//
// The engine never lays items out itself. The rendering surface supplies a
// LayoutProvider and calls Resolve after it has committed a frame, then Step to
// advance the overlay animation:
//
//	e := focus.New(cfg, focus.WithLayout(layout), focus.WithOnChange(notify))
//	defer e.Close()
//
//	// after each paint:
//	e.Resolve()
//	frame := e.Step(dt)
//
// Pointer input is modelled as Events consumed by the pure Transition function,
// so focus policy can be tested without a rendering surface.
package focus
