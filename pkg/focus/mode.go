package focus

import "strings"

// Mode is either Group or Sequence. The set is closed; switch on the concrete type.
type Mode interface {
	isMode()
	String() string
}

// Group focuses one of a fixed collection of content blocks.
type Group struct{}

// Sequence focuses the words of a sentence. Manual disables automatic cycling.
type Sequence struct {
	Manual bool
}

func (Group) isMode()    {}
func (Sequence) isMode() {}

func (Group) String() string { return "group" }

func (s Sequence) String() string {
	if s.Manual {
		return "sequence/manual"
	}
	return "sequence/auto"
}

// Item is one focusable unit: a word or a content block.
type Item struct {
	Index int
	Text  string
}

// Tokenize splits sentence on sep. An empty split yields the whole sentence as
// the only token, so a sequence always has at least one item.
func Tokenize(sentence, sep string) []string {
	words := strings.Split(sentence, sep)
	if len(words) == 0 {
		return []string{sentence}
	}
	return words
}

// SelectMode classifies cfg. A non-empty Items collection selects Group and the
// sentence is never tokenized; otherwise the sentence is split into a Sequence.
func SelectMode(cfg Config) (Mode, []Item) {
	if len(cfg.Items) > 0 {
		return Group{}, newItems(cfg.Items)
	}
	return Sequence{Manual: cfg.Manual}, newItems(Tokenize(cfg.Sentence, cfg.Separator))
}

func newItems(texts []string) []Item {
	items := make([]Item, len(texts))
	for i, t := range texts {
		items[i] = Item{Index: i, Text: t}
	}
	return items
}

// cycles reports whether the mode is driven by the ticker.
func cycles(m Mode) bool {
	s, ok := m.(Sequence)
	return ok && !s.Manual
}

// sameVariant reports whether a and b are the same variant, ignoring Manual.
func sameVariant(a, b Mode) bool {
	switch a.(type) {
	case Group:
		_, ok := b.(Group)
		return ok
	case Sequence:
		_, ok := b.(Sequence)
		return ok
	}
	return false
}
