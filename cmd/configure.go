package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/marcus/truefocus/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the config file interactively",
	Long: `Edit the config file interactively and save it as TOML.

A running truefocus picks the saved changes up immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}

		v := newFormValues(cfg)
		form := newConfigureForm(&v)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled, nothing saved")
				return nil
			}
			return err
		}

		if err := v.apply(&cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "SAVED %s\n", path)
		return nil
	},
}

// formValues holds the form fields as text.
type formValues struct {
	Sentence       string
	Separator      string
	Items          string
	Manual         bool
	Blur           string
	BorderColor    string
	GlowColor      string
	Duration       string
	Pause          string
	ContainerStyle string
	ItemStyle      string
	Title          string
}

func newFormValues(c config.Config) formValues {
	f := c.Focus
	return formValues{
		Sentence:       f.Sentence,
		Separator:      f.Separator,
		Items:          strings.Join(f.Items, "\n"),
		Manual:         f.Manual,
		Blur:           strconv.FormatFloat(f.BlurAmount, 'g', -1, 64),
		BorderColor:    f.BorderColor,
		GlowColor:      f.GlowColor,
		Duration:       f.AnimationDuration.String(),
		Pause:          f.PauseBetweenAnimations.String(),
		ContainerStyle: f.ContainerStyle,
		ItemStyle:      f.ItemStyle,
		Title:          c.UI.Title,
	}
}

// apply parses v into c.
func (v formValues) apply(c *config.Config) error {
	blur, err := parseBlur(v.Blur)
	if err != nil {
		return err
	}
	duration, err := parseDuration(v.Duration)
	if err != nil {
		return err
	}
	pause, err := parseDuration(v.Pause)
	if err != nil {
		return err
	}

	var items []string
	for _, line := range strings.Split(v.Items, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}

	c.Focus.Sentence = v.Sentence
	c.Focus.Separator = v.Separator
	c.Focus.Items = items
	c.Focus.Manual = v.Manual
	c.Focus.BlurAmount = blur
	c.Focus.BorderColor = v.BorderColor
	c.Focus.GlowColor = v.GlowColor
	c.Focus.AnimationDuration = duration
	c.Focus.PauseBetweenAnimations = pause
	c.Focus.ContainerStyle = v.ContainerStyle
	c.Focus.ItemStyle = v.ItemStyle
	c.UI.Title = v.Title
	return nil
}

func parseBlur(s string) (float64, error) {
	b, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("blur %q: %w", s, err)
	}
	if b < 0 {
		return 0, errors.New("blur must not be negative")
	}
	return b, nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, errors.New("duration must not be negative")
	}
	return d, nil
}

func validateColor(s string) error {
	if _, err := colorful.Hex(s); err != nil {
		return errors.New("use #rrggbb")
	}
	return nil
}

func newConfigureForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sentence").Description("Words highlighted in sequence mode").Value(&v.Sentence),
			huh.NewInput().Title("Separator").Value(&v.Separator),
			huh.NewConfirm().Title("Manual").Description("Follow the pointer instead of cycling").Value(&v.Manual),
			huh.NewText().Title("Group items").Description("One per line; any item switches to group mode").Value(&v.Items),
		),
		huh.NewGroup(
			huh.NewInput().Title("Animation duration").Value(&v.Duration).
				Validate(func(s string) error { _, err := parseDuration(s); return err }),
			huh.NewInput().Title("Pause between moves").Value(&v.Pause).
				Validate(func(s string) error { _, err := parseDuration(s); return err }),
			huh.NewInput().Title("Blur amount").Value(&v.Blur).
				Validate(func(s string) error { _, err := parseBlur(s); return err }),
		),
		huh.NewGroup(
			huh.NewInput().Title("Border colour").Value(&v.BorderColor).Validate(validateColor),
			huh.NewInput().Title("Glow colour").Value(&v.GlowColor).Validate(validateColor),
			huh.NewSelect[string]().Title("Container style").
				Options(huh.NewOptions(config.ContainerStyles...)...).Value(&v.ContainerStyle),
			huh.NewSelect[string]().Title("Item style").
				Options(huh.NewOptions(config.ItemStyles...)...).Value(&v.ItemStyle),
			huh.NewInput().Title("Title").Value(&v.Title),
		),
	)
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
