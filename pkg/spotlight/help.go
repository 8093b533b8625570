package spotlight

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# truefocus

A highlight frame follows the active item.

## Modes

- **sequence/auto**: the words of a sentence take turns; the frame moves every
  *duration + pause*.
- **sequence/manual**: point at a word to focus it. Moving off a word keeps the
  last one focused.
- **group**: point at a block to focus it. Leaving the whole container hides
  the frame.

## Keys

| Key | Action |
|-----|--------|
| ← → / tab | move focus (group, manual) |
| esc | leave |
| m | toggle manual and auto |
| + - | animation duration |
| ] [ | pause between moves |
| / | filter group items |
| ? | close this help |
| q | quit |

Config changes on disk are applied while running.
`

// renderHelp renders the help screen at width with the named glamour style.
// On failure the raw markdown is returned.
func renderHelp(width int, style string) string {
	const gutter = 2
	wrap := width - gutter
	if wrap < 20 {
		wrap = 20
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
