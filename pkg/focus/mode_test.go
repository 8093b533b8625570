package focus

import (
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		sentence, sep string
		want          []string
	}{
		{"True Focus", " ", []string{"True", "Focus"}},
		{"a,b,,c", ",", []string{"a", "b", "", "c"}},
		{"single", " ", []string{"single"}},
		{"", " ", []string{""}},
		{"", "", []string{""}},
		{"abc", "", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.sentence, tt.sep)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q, %q) = %q, want %q", tt.sentence, tt.sep, got, tt.want)
		}
	}
}

func TestSelectMode(t *testing.T) {
	t.Run("items select group and skip tokenizing", func(t *testing.T) {
		cfg := Config{Sentence: "ignored words here", Separator: " ", Items: []string{"one", "two"}, Manual: true}
		m, items := SelectMode(cfg)
		if _, ok := m.(Group); !ok {
			t.Fatalf("mode = %s, want group", m)
		}
		if len(items) != 2 || items[1].Text != "two" || items[1].Index != 1 {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("no items select sequence", func(t *testing.T) {
		m, items := SelectMode(Config{Sentence: "True Focus", Separator: " ", Manual: true})
		seq, ok := m.(Sequence)
		if !ok || !seq.Manual {
			t.Fatalf("mode = %s, want sequence/manual", m)
		}
		if len(items) != 2 || items[0].Text != "True" {
			t.Errorf("items = %+v", items)
		}
	})
}

func TestSameVariant(t *testing.T) {
	if !sameVariant(Sequence{}, Sequence{Manual: true}) {
		t.Error("manual toggle should keep the variant")
	}
	if sameVariant(Group{}, Sequence{}) {
		t.Error("group and sequence are different variants")
	}
	if sameVariant(nil, Group{}) {
		t.Error("nil is not a variant")
	}
}
