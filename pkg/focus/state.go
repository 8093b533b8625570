package focus

import "fmt"

// Index identifies an item, or None.
type Index int

// None means no item is active.
const None Index = -1

// Valid reports whether i addresses an item in a collection of n.
func (i Index) Valid(n int) bool {
	return i >= 0 && int(i) < n
}

func (i Index) String() string {
	if i == None {
		return "none"
	}
	return fmt.Sprintf("%d", int(i))
}

// State is the focus state of one engine.
type State struct {
	Active Index
	Last   Index // most recent hover-enter; used by manual sequences on leave
}

// InitialState returns the state a freshly selected mode starts in.
func InitialState(m Mode) State {
	switch m.(type) {
	case Sequence:
		return State{Active: 0, Last: 0}
	default:
		return State{Active: None, Last: None}
	}
}

// Clamp resets any index that no longer addresses one of n items to None.
func (s State) Clamp(n int) State {
	if !s.Active.Valid(n) {
		s.Active = None
	}
	if !s.Last.Valid(n) {
		s.Last = None
	}
	return s
}

// EventKind is the kind of input an engine reacts to.
type EventKind int

const (
	EventEnter EventKind = iota // pointer entered an item
	EventLeave                  // pointer left (container in Group, item in Sequence)
	EventTick                   // ticker fired
)

func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventLeave:
		return "leave"
	case EventTick:
		return "tick"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single input. Index is only meaningful for EventEnter.
type Event struct {
	Kind  EventKind
	Index Index
}

// Enter returns a pointer-enter event for item i.
func Enter(i int) Event { return Event{Kind: EventEnter, Index: Index(i)} }

// Leave returns a pointer-leave event.
func Leave() Event { return Event{Kind: EventLeave, Index: None} }

// Tick returns a ticker event.
func Tick() Event { return Event{Kind: EventTick, Index: None} }

// Transition applies ev to s under mode m with n items. It is pure; events a
// mode does not react to return s unchanged.
func Transition(s State, ev Event, m Mode, n int) State {
	switch m := m.(type) {
	case Group:
		switch ev.Kind {
		case EventEnter:
			if ev.Index.Valid(n) {
				s.Active, s.Last = ev.Index, ev.Index
			}
		case EventLeave:
			s.Active = None
		}
	case Sequence:
		if !m.Manual {
			if ev.Kind == EventTick && n > 0 {
				if s.Active.Valid(n) {
					s.Active = Index((int(s.Active) + 1) % n)
				} else {
					s.Active = 0
				}
			}
			return s.Clamp(n)
		}
		switch ev.Kind {
		case EventEnter:
			if ev.Index.Valid(n) {
				s.Active, s.Last = ev.Index, ev.Index
			}
		case EventLeave:
			s.Active = s.Last
		}
	}
	return s.Clamp(n)
}
