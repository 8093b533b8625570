package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/marcus/truefocus/pkg/focus"
)

// EnvPrefix prefixes every environment override, e.g. TRUEFOCUS_FOCUS_MANUAL.
const EnvPrefix = "TRUEFOCUS"

// EnvConfigPath names the variable that points at an explicit config file.
const EnvConfigPath = "TRUEFOCUS_CONFIG"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Style hook names understood by the rendering surface.
var (
	ContainerStyles = []string{"plain", "rounded", "double"}
	ItemStyles      = []string{"plain", "card", "bold"}
)

// Config holds application configuration.
type Config struct {
	Focus FocusConfig `mapstructure:"focus"`
	UI    UIConfig    `mapstructure:"ui"`
	Log   LogConfig   `mapstructure:"log"`
}

// FocusConfig mirrors focus.Config with file/env friendly names.
type FocusConfig struct {
	Sentence               string        `mapstructure:"sentence"`
	Separator              string        `mapstructure:"separator"`
	Items                  []string      `mapstructure:"items"`
	Manual                 bool          `mapstructure:"manual"`
	BlurAmount             float64       `mapstructure:"blur_amount"`
	BorderColor            string        `mapstructure:"border_color"`
	GlowColor              string        `mapstructure:"glow_color"`
	AnimationDuration      time.Duration `mapstructure:"animation_duration"`
	PauseBetweenAnimations time.Duration `mapstructure:"pause_between_animations"`
	ContainerStyle         string        `mapstructure:"container_style"`
	ItemStyle              string        `mapstructure:"item_style"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title string `mapstructure:"title"`
	FPS   int    `mapstructure:"fps"`
}

// LogConfig selects where structured logs go. An empty File discards them.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// flagKeys maps command flags to config keys.
var flagKeys = map[string]string{
	"sentence":        "focus.sentence",
	"separator":       "focus.separator",
	"manual":          "focus.manual",
	"blur":            "focus.blur_amount",
	"border-color":    "focus.border_color",
	"glow-color":      "focus.glow_color",
	"duration":        "focus.animation_duration",
	"pause":           "focus.pause_between_animations",
	"container-style": "focus.container_style",
	"item-style":      "focus.item_style",
	"title":           "ui.title",
	"fps":             "ui.fps",
	"log-file":        "log.file",
	"log-level":       "log.level",
}

// DefaultPath returns $TRUEFOCUS_CONFIG, or ~/.config/truefocus/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".truefocus", "config.toml")
	}
	return filepath.Join(home, ".config", "truefocus", "config.toml")
}

func newViper(path string) *viper.Viper {
	d := focus.DefaultConfig()
	v := viper.New()

	v.SetDefault("focus.sentence", d.Sentence)
	v.SetDefault("focus.separator", d.Separator)
	v.SetDefault("focus.items", []string{})
	v.SetDefault("focus.manual", d.Manual)
	v.SetDefault("focus.blur_amount", d.BlurAmount)
	v.SetDefault("focus.border_color", d.BorderColor)
	v.SetDefault("focus.glow_color", d.GlowColor)
	v.SetDefault("focus.animation_duration", d.AnimationDuration)
	v.SetDefault("focus.pause_between_animations", d.PauseBetweenAnimations)
	v.SetDefault("focus.container_style", "rounded")
	v.SetDefault("focus.item_style", d.ItemStyle)
	v.SetDefault("ui.title", "")
	v.SetDefault("ui.fps", 60)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetConfigFile(path)
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configuration: defaults, then the TOML file at path (a missing file
// is not an error), then TRUEFOCUS_* environment variables, then any changed
// flags in flags. An empty path means DefaultPath().
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper(path)
	bindEnv(v)
	if err := bindFlags(v, flags); err != nil {
		return Config{}, err
	}
	if err := readInConfig(v); err != nil {
		return Config{}, err
	}
	return decode(v)
}

// LoadFile returns defaults overlaid with the file at path only. Environment
// and flag overrides are ignored, so saving the result never persists them.
func LoadFile(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper(path)
	if err := readInConfig(v); err != nil {
		return Config{}, err
	}
	return decode(v)
}

func readInConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Watch re-reads the config file whenever it changes on disk and hands the
// result to onChange. Flags bound at startup keep precedence. Watching a file
// that does not exist yet is a no-op.
func Watch(path string, flags *pflag.FlagSet, onChange func(Config, error)) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config: %w", err)
	}
	v := newViper(path)
	bindEnv(v)
	if err := bindFlags(v, flags); err != nil {
		return err
	}
	if err := readInConfig(v); err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err == nil {
			err = cfg.Validate()
		}
		onChange(cfg, err)
	})
	v.WatchConfig()
	return nil
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("focus.sentence", cfg.Focus.Sentence)
	v.Set("focus.separator", cfg.Focus.Separator)
	items := cfg.Focus.Items
	if items == nil {
		items = []string{}
	}
	v.Set("focus.items", items)
	v.Set("focus.manual", cfg.Focus.Manual)
	v.Set("focus.blur_amount", cfg.Focus.BlurAmount)
	v.Set("focus.border_color", cfg.Focus.BorderColor)
	v.Set("focus.glow_color", cfg.Focus.GlowColor)
	v.Set("focus.animation_duration", cfg.Focus.AnimationDuration.String())
	v.Set("focus.pause_between_animations", cfg.Focus.PauseBetweenAnimations.String())
	v.Set("focus.container_style", cfg.Focus.ContainerStyle)
	v.Set("focus.item_style", cfg.Focus.ItemStyle)
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.fps", cfg.UI.FPS)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports every problem with c, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	f := c.Focus
	if f.AnimationDuration < 0 {
		invalid("focus.animation_duration must not be negative (got %s)", f.AnimationDuration)
	}
	if f.PauseBetweenAnimations < 0 {
		invalid("focus.pause_between_animations must not be negative (got %s)", f.PauseBetweenAnimations)
	}
	if f.BlurAmount < 0 {
		invalid("focus.blur_amount must not be negative (got %g)", f.BlurAmount)
	}
	if _, err := colorful.Hex(f.BorderColor); err != nil {
		invalid("focus.border_color %q is not a #rrggbb colour", f.BorderColor)
	}
	if _, err := colorful.Hex(f.GlowColor); err != nil {
		invalid("focus.glow_color %q is not a #rrggbb colour", f.GlowColor)
	}
	if !slices.Contains(ContainerStyles, f.ContainerStyle) {
		invalid("focus.container_style %q is not one of %s", f.ContainerStyle, strings.Join(ContainerStyles, ", "))
	}
	if !slices.Contains(ItemStyles, f.ItemStyle) {
		invalid("focus.item_style %q is not one of %s", f.ItemStyle, strings.Join(ItemStyles, ", "))
	}
	if c.UI.FPS < 1 || c.UI.FPS > 240 {
		invalid("ui.fps must be between 1 and 240 (got %d)", c.UI.FPS)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		invalid("log.level %q: %v", c.Log.Level, err)
	}
	return errors.Join(errs...)
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// ToFocus converts the focus section to an engine configuration.
func (c Config) ToFocus() focus.Config {
	f := c.Focus
	return focus.Config{
		Sentence:               f.Sentence,
		Separator:              f.Separator,
		Items:                  slices.Clone(f.Items),
		Manual:                 f.Manual,
		BlurAmount:             f.BlurAmount,
		BorderColor:            f.BorderColor,
		GlowColor:              f.GlowColor,
		AnimationDuration:      f.AnimationDuration,
		PauseBetweenAnimations: f.PauseBetweenAnimations,
		ContainerStyle:         f.ContainerStyle,
		ItemStyle:              f.ItemStyle,
	}
}
