package focus

import "time"

// Defaults for a zero-configuration engine.
const (
	DefaultSentence    = "True Focus"
	DefaultSeparator   = " "
	DefaultBlurAmount  = 5.0
	DefaultBorderColor = "#00ff00"
	DefaultGlowColor   = "#00b33c"
	DefaultAnimation   = 500 * time.Millisecond
	DefaultPause       = time.Second
	DefaultStyleHook   = "plain"
)

const minCyclePeriod = 50 * time.Millisecond

// Config configures an engine. Items, when non-empty, selects Group mode and
// Sentence/Separator are ignored.
type Config struct {
	Sentence  string
	Separator string
	Items     []string

	Manual     bool
	BlurAmount float64 // cells of blur strength; see the rendering surface

	BorderColor string
	GlowColor   string

	AnimationDuration      time.Duration
	PauseBetweenAnimations time.Duration

	// Style hooks, interpreted by the rendering surface.
	ContainerStyle string
	ItemStyle      string
}

// DefaultConfig returns the configuration used when nothing is supplied.
func DefaultConfig() Config {
	return Config{
		Sentence:               DefaultSentence,
		Separator:              DefaultSeparator,
		BlurAmount:             DefaultBlurAmount,
		BorderColor:            DefaultBorderColor,
		GlowColor:              DefaultGlowColor,
		AnimationDuration:      DefaultAnimation,
		PauseBetweenAnimations: DefaultPause,
		ContainerStyle:         DefaultStyleHook,
		ItemStyle:              DefaultStyleHook,
	}
}

// Period is the interval between automatic advances.
func (c Config) Period() time.Duration {
	p := c.AnimationDuration + c.PauseBetweenAnimations
	if p < minCyclePeriod {
		return minCyclePeriod
	}
	return p
}

// normalized clamps values the engine cannot honour.
func (c Config) normalized() Config {
	if c.AnimationDuration < 0 {
		c.AnimationDuration = 0
	}
	if c.PauseBetweenAnimations < 0 {
		c.PauseBetweenAnimations = 0
	}
	if c.BlurAmount < 0 {
		c.BlurAmount = 0
	}
	c.Items = append([]string(nil), c.Items...)
	return c
}
