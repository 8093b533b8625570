package spotlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/truefocus/pkg/focus"
)

// Colors used by the chrome around the highlight.
var (
	Primary      = lipgloss.Color("212")
	Muted        = lipgloss.Color("241")
	BorderNormal = lipgloss.Color("240")
	ErrorColor   = lipgloss.Color("196")
)

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	MutedText   = lipgloss.NewStyle().Foreground(Muted)
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ErrorText   = lipgloss.NewStyle().Foreground(ErrorColor)
)

// Styles is the resolved look of the container and its items for one mode.
type Styles struct {
	Container lipgloss.Style
	Item      lipgloss.Style
	ItemGap   int
	RowGap    int
}

// NewStyles builds styles from the container and item hook names. Unknown
// names fall back to plain. Group items get horizontal padding so that cards
// read as blocks; sentence words stay tight.
func NewStyles(container, item string, mode focus.Mode) Styles {
	s := Styles{ItemGap: 2, RowGap: 1}

	// The overlay is drawn one cell outside the active item, so the container
	// always keeps at least one cell of padding.
	s.Container = lipgloss.NewStyle().Padding(1, 2)
	switch container {
	case "rounded":
		s.Container = s.Container.Border(lipgloss.RoundedBorder()).BorderForeground(BorderNormal)
	case "double":
		s.Container = s.Container.Border(lipgloss.DoubleBorder()).BorderForeground(BorderNormal)
	}

	_, group := mode.(focus.Group)
	s.Item = lipgloss.NewStyle()
	if group {
		s.Item = s.Item.Padding(0, 1)
	}
	switch item {
	case "card":
		s.Item = s.Item.Border(lipgloss.RoundedBorder()).Padding(0, 1)
	case "bold":
		s.Item = s.Item.Bold(true)
	}
	return s
}

// contentOffset is where the container's content starts inside its box.
func (s Styles) contentOffset() (x, y int) {
	c := s.Container
	return c.GetBorderLeftSize() + c.GetPaddingLeft(), c.GetBorderTopSize() + c.GetPaddingTop()
}
