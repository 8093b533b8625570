package spotlight

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/marcus/truefocus/pkg/focus"
)

// Fallbacks when a configured colour does not parse.
var (
	defaultText       = colorful.Color{R: 0.92, G: 0.92, B: 0.92}
	defaultBackground = colorful.Color{R: 0.07, G: 0.07, B: 0.07}
)

// palette holds parsed colours for one configuration.
type palette struct {
	text       colorful.Color
	background colorful.Color
	border     colorful.Color
	glow       colorful.Color
}

func newPalette(cfg focus.Config, dark bool) palette {
	p := palette{
		text:       defaultText,
		background: defaultBackground,
		border:     mustHex(cfg.BorderColor, mustHex(focus.DefaultBorderColor, colorful.Color{G: 1})),
		glow:       mustHex(cfg.GlowColor, mustHex(focus.DefaultGlowColor, colorful.Color{G: 0.7})),
	}
	if !dark {
		p.text, p.background = p.background, p.text
	}
	return p
}

func mustHex(s string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// blend mixes from toward to by t in Lab space and returns a terminal colour.
func blend(from, to colorful.Color, t float64) lipgloss.Color {
	return lipgloss.Color(from.BlendLab(to, clamp01(t)).Clamped().Hex())
}

// itemColor is the foreground of an item blurred by amount (0 sharp, 1 gone).
func (p palette) itemColor(amount float64) lipgloss.Color {
	return blend(p.text, p.background, amount)
}

// overlayColors fades the border and glow in from the background.
func (p palette) overlayColors(opacity float64) (border, glow lipgloss.Color) {
	return blend(p.background, p.border, opacity), blend(p.background, p.glow, opacity)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
