package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/marcus/truefocus/pkg/focus"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("setup: write failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Focus.Sentence != focus.DefaultSentence {
			t.Errorf("Sentence: got %q, want %q", cfg.Focus.Sentence, focus.DefaultSentence)
		}
		if cfg.Focus.Separator != " " {
			t.Errorf("Separator: got %q, want single space", cfg.Focus.Separator)
		}
		if cfg.Focus.BlurAmount != 5 {
			t.Errorf("BlurAmount: got %v, want 5", cfg.Focus.BlurAmount)
		}
		if cfg.Focus.AnimationDuration != 500*time.Millisecond {
			t.Errorf("AnimationDuration: got %v, want 500ms", cfg.Focus.AnimationDuration)
		}
		if cfg.Focus.PauseBetweenAnimations != time.Second {
			t.Errorf("PauseBetweenAnimations: got %v, want 1s", cfg.Focus.PauseBetweenAnimations)
		}
		if cfg.Focus.Manual {
			t.Error("Manual: got true, want false")
		}
		if len(cfg.Focus.Items) != 0 {
			t.Errorf("Items: got %v, want empty", cfg.Focus.Items)
		}
		if cfg.UI.FPS != 60 {
			t.Errorf("FPS: got %d, want 60", cfg.UI.FPS)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("existing file", func(t *testing.T) {
		path := writeConfig(t, `
[focus]
sentence = "Build Ship Repeat"
manual = true
blur_amount = 2.5
animation_duration = "750ms"
pause_between_animations = "2s"
items = ["one", "two"]

[ui]
title = "Launch"
`)
		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Focus.Sentence != "Build Ship Repeat" {
			t.Errorf("Sentence: got %q", cfg.Focus.Sentence)
		}
		if !cfg.Focus.Manual {
			t.Error("Manual: got false, want true")
		}
		if cfg.Focus.BlurAmount != 2.5 {
			t.Errorf("BlurAmount: got %v, want 2.5", cfg.Focus.BlurAmount)
		}
		if cfg.Focus.AnimationDuration != 750*time.Millisecond {
			t.Errorf("AnimationDuration: got %v, want 750ms", cfg.Focus.AnimationDuration)
		}
		if cfg.Focus.PauseBetweenAnimations != 2*time.Second {
			t.Errorf("PauseBetweenAnimations: got %v, want 2s", cfg.Focus.PauseBetweenAnimations)
		}
		if !slices.Equal(cfg.Focus.Items, []string{"one", "two"}) {
			t.Errorf("Items: got %v", cfg.Focus.Items)
		}
		if cfg.UI.Title != "Launch" {
			t.Errorf("Title: got %q, want Launch", cfg.UI.Title)
		}
	})

	t.Run("invalid TOML returns error", func(t *testing.T) {
		path := writeConfig(t, "[focus\nsentence = ")
		if _, err := Load(path, nil); err == nil {
			t.Fatal("Load should fail for invalid TOML")
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConfig(t, "[focus]\nsentence = \"from file\"\n")
		t.Setenv("TRUEFOCUS_FOCUS_SENTENCE", "from env")
		t.Setenv("TRUEFOCUS_FOCUS_MANUAL", "true")

		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Focus.Sentence != "from env" {
			t.Errorf("Sentence: got %q, want env value", cfg.Focus.Sentence)
		}
		if !cfg.Focus.Manual {
			t.Error("Manual: got false, want true from env")
		}
	})

	t.Run("changed flags override env and file", func(t *testing.T) {
		path := writeConfig(t, "[focus]\nanimation_duration = \"2s\"\n")
		t.Setenv("TRUEFOCUS_FOCUS_BLUR_AMOUNT", "9")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Duration("duration", focus.DefaultAnimation, "")
		flags.Float64("blur", focus.DefaultBlurAmount, "")
		flags.Bool("manual", false, "")
		if err := flags.Parse([]string{"--duration=300ms", "--blur=1"}); err != nil {
			t.Fatalf("setup: parse failed: %v", err)
		}

		cfg, err := Load(path, flags)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Focus.AnimationDuration != 300*time.Millisecond {
			t.Errorf("AnimationDuration: got %v, want 300ms", cfg.Focus.AnimationDuration)
		}
		if cfg.Focus.BlurAmount != 1 {
			t.Errorf("BlurAmount: got %v, want 1", cfg.Focus.BlurAmount)
		}
		if cfg.Focus.Manual {
			t.Error("unchanged flag must not override the default")
		}
	})

	t.Run("TRUEFOCUS_CONFIG selects the file", func(t *testing.T) {
		path := writeConfig(t, "[ui]\ntitle = \"via env path\"\n")
		t.Setenv(EnvConfigPath, path)

		cfg, err := Load("", nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.UI.Title != "via env path" {
			t.Errorf("Title: got %q", cfg.UI.Title)
		}
	})
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	path := writeConfig(t, "[focus]\nsentence = \"from file\"\n")
	t.Setenv("TRUEFOCUS_FOCUS_SENTENCE", "from env")
	t.Setenv("TRUEFOCUS_FOCUS_BLUR_AMOUNT", "9")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Focus.Sentence != "from file" {
		t.Errorf("Sentence: got %q, want file value", cfg.Focus.Sentence)
	}
	if cfg.Focus.BlurAmount != focus.DefaultBlurAmount {
		t.Errorf("BlurAmount: got %v, want default %v", cfg.Focus.BlurAmount, focus.DefaultBlurAmount)
	}
}

func TestSave(t *testing.T) {
	t.Run("creates directories and round-trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")

		cfg, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		cfg.Focus.Items = []string{"alpha", "beta"}
		cfg.Focus.AnimationDuration = 250 * time.Millisecond
		cfg.Focus.GlowColor = "#123456"
		cfg.UI.Title = "saved"

		if err := Save(path, cfg); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}

		loaded, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !slices.Equal(loaded.Focus.Items, cfg.Focus.Items) {
			t.Errorf("Items: got %v, want %v", loaded.Focus.Items, cfg.Focus.Items)
		}
		if loaded.Focus.AnimationDuration != cfg.Focus.AnimationDuration {
			t.Errorf("AnimationDuration: got %v, want %v", loaded.Focus.AnimationDuration, cfg.Focus.AnimationDuration)
		}
		if loaded.Focus.GlowColor != "#123456" {
			t.Errorf("GlowColor: got %q", loaded.Focus.GlowColor)
		}
		if loaded.UI.Title != "saved" {
			t.Errorf("Title: got %q", loaded.UI.Title)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		base, _ := Load(path, nil)

		first := base
		first.Focus.Sentence = "first"
		if err := Save(path, first); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		second := base
		second.Focus.Sentence = "second"
		if err := Save(path, second); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		loaded, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Focus.Sentence != "second" {
			t.Errorf("Sentence: got %q, want %q", loaded.Focus.Sentence, "second")
		}
	})
}

type reload struct {
	cfg Config
	err error
}

// rewrite replaces path atomically so the watcher sees one complete file.
func rewrite(t *testing.T, path, body string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
}

// waitReload returns the first reload accepted by match, failing after a
// bounded wait.
func waitReload(t *testing.T, reloads <-chan reload, match func(reload) bool) reload {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reloads:
			if match(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
			return reload{}
		}
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "[focus]\nsentence = \"first\"\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Duration("duration", focus.DefaultAnimation, "")
	if err := flags.Parse([]string{"--duration=300ms"}); err != nil {
		t.Fatalf("setup: parse failed: %v", err)
	}

	reloads := make(chan reload, 16)
	err := Watch(path, flags, func(cfg Config, err error) {
		reloads <- reload{cfg, err}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	rewrite(t, path, "[focus]\nsentence = \"second\"\nanimation_duration = \"2s\"\n")
	r := waitReload(t, reloads, func(r reload) bool {
		return r.err == nil && r.cfg.Focus.Sentence == "second"
	})
	if r.cfg.Focus.AnimationDuration != 300*time.Millisecond {
		t.Errorf("AnimationDuration: got %v, want flag value 300ms", r.cfg.Focus.AnimationDuration)
	}

	rewrite(t, path, "[focus]\nsentence = \"third\"\nblur_amount = -2\n")
	r = waitReload(t, reloads, func(r reload) bool { return r.err != nil })
	if !errors.Is(r.err, ErrInvalidConfig) {
		t.Errorf("invalid reload: got %v, want ErrInvalidConfig", r.err)
	}
}

func TestWatchMissingFile(t *testing.T) {
	called := false
	err := Watch(filepath.Join(t.TempDir(), "absent.toml"), nil, func(Config, error) { called = true })
	if err != nil {
		t.Fatalf("Watch on a missing file should be a no-op: %v", err)
	}
	if called {
		t.Error("onChange should not run")
	}
}

func TestValidate(t *testing.T) {
	base, err := Load(filepath.Join(t.TempDir(), "none.toml"), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative duration", func(c *Config) { c.Focus.AnimationDuration = -time.Second }},
		{"negative pause", func(c *Config) { c.Focus.PauseBetweenAnimations = -time.Millisecond }},
		{"negative blur", func(c *Config) { c.Focus.BlurAmount = -1 }},
		{"bad border colour", func(c *Config) { c.Focus.BorderColor = "green" }},
		{"bad glow colour", func(c *Config) { c.Focus.GlowColor = "#12" }},
		{"unknown container style", func(c *Config) { c.Focus.ContainerStyle = "fancy" }},
		{"unknown item style", func(c *Config) { c.Focus.ItemStyle = "neon" }},
		{"fps too high", func(c *Config) { c.UI.FPS = 1000 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestToFocus(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "none.toml"), nil)
	cfg.Focus.Items = []string{"x"}
	fc := cfg.ToFocus()

	if fc.AnimationDuration != cfg.Focus.AnimationDuration || fc.BlurAmount != cfg.Focus.BlurAmount {
		t.Errorf("ToFocus lost timing/blur: %+v", fc)
	}
	fc.Items[0] = "mutated"
	if cfg.Focus.Items[0] != "x" {
		t.Error("ToFocus must copy Items")
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "error"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Error("ParseLevel should reject unknown levels")
	}
}
