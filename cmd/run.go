package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/marcus/truefocus/internal/config"
	"github.com/marcus/truefocus/pkg/focus"
	"github.com/marcus/truefocus/pkg/spotlight"
)

// defaultSnapshotWidth is used when stdout is not a terminal.
const defaultSnapshotWidth = 80

// addDisplayFlags registers the flags shared by every highlight command.
func addDisplayFlags(fs *pflag.FlagSet) {
	fs.Float64("blur", focus.DefaultBlurAmount, "blur applied to unfocused words")
	fs.String("border-color", focus.DefaultBorderColor, "highlight frame colour (#rrggbb)")
	fs.String("glow-color", focus.DefaultGlowColor, "corner bracket colour (#rrggbb)")
	fs.Duration("duration", focus.DefaultAnimation, "animation duration")
	fs.Duration("pause", focus.DefaultPause, "pause between automatic moves")
	fs.String("container-style", "rounded", "container style: plain, rounded, double")
	fs.String("item-style", focus.DefaultStyleHook, "item style: plain, card, bold")
	fs.String("title", "", "title shown above the highlight")
	fs.Int("fps", 60, "animation frames per second")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger opens the JSON log file named by c, or discards logs when none is
// set. The returned close func is never nil.
func newLogger(c config.LogConfig) (*slog.Logger, func() error, error) {
	nop := func() error { return nil }
	if c.File == "" {
		return slog.New(slog.DiscardHandler), nop, nil
	}
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, nop, err
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nop, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}

// run shows the highlight for cfg. override pins whatever the command line
// decided (sentence or items) so live config reloads cannot undo it.
func run(cmd *cobra.Command, cfg config.Config, override func(*focus.Config)) error {
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	fc := cfg.ToFocus()
	override(&fc)
	opts := spotlight.Options{
		Focus:  fc,
		Title:  cfg.UI.Title,
		FPS:    cfg.UI.FPS,
		Logger: log,
		Dark:   true,
	}

	out := cmd.OutOrStdout()
	fd, tty := terminalFd(out)
	if snapshot || !tty {
		width := defaultSnapshotWidth
		if tty {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				width = w
			}
		}
		log.Info("rendering snapshot", "width", width)
		_, err := fmt.Fprintln(out, spotlight.Snapshot(opts, width))
		return err
	}

	opts.Dark = lipgloss.HasDarkBackground()
	return runProgram(cmd.Context(), cmd.Flags(), opts, override, log)
}

func runProgram(parent context.Context, flags *pflag.FlagSet, opts spotlight.Options,
	override func(*focus.Config), log *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := spotlight.New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	reloads := make(chan spotlight.ConfigMsg, 1)
	err := config.Watch(configPath, flags, func(c config.Config, err error) {
		msg := spotlight.ConfigMsg{Err: err}
		if err == nil {
			msg.Focus = c.ToFocus()
			override(&msg.Focus)
			msg.Title = c.UI.Title
		}
		select {
		case reloads <- msg:
		default:
			log.Warn("config reload dropped, previous one still pending")
		}
	})
	if err != nil {
		log.Warn("config watch disabled", "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && parent.Err() == nil {
			// interrupted by signal
			return nil
		}
		return err
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case msg := <-reloads:
				p.Send(msg)
			}
		}
	})
	return g.Wait()
}

// terminalFd reports whether w is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
