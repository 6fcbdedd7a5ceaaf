// Package config loads the desktop settings from a TOML file layered over
// built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window    Window            `toml:"window"`
	Scripts   Scripts           `toml:"scripts"`
	Images    Images            `toml:"images"`
	HTTP      HTTP              `toml:"http"`
	Log       Log               `toml:"log"`
	Theme     Theme             `toml:"theme"`
	Shortcuts map[string]string `toml:"shortcuts"` // slot -> absolute script path
}

type Window struct {
	Title      string     `toml:"title"`
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	VSync      bool       `toml:"vsync"`
	ClearColor [4]float32 `toml:"clear_color"`
	FontSize   float32    `toml:"font_size"`
	FontFile   string     `toml:"font_file"` // empty uses the embedded face
}

type Scripts struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
	Watch     bool   `toml:"watch"`
	// MaxConcurrentRuns caps simultaneously evaluating runs; 0 is unbounded.
	MaxConcurrentRuns int `toml:"max_concurrent_runs"`
	// MaxCallStack is the deepest recursion a script may reach before its
	// evaluation is aborted.
	MaxCallStack int `toml:"max_call_stack"`
}

type Images struct {
	// MaxCached evicts the oldest handle beyond this many; 0 never evicts.
	MaxCached int `toml:"max_cached"`
}

type HTTP struct {
	Timeout Duration `toml:"timeout"`
}

type Log struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

type Theme struct {
	Accent     [4]float32 `toml:"accent"`
	Background [4]float32 `toml:"background"`
	// BackgroundMode is "solid", "vertical", "horizontal", "fourway" or
	// "image"; anything else paints Background.
	BackgroundMode string `toml:"background_mode"`
	// Gradient holds the corner colours top-left, top-right, bottom-right,
	// bottom-left. Vertical reads corners 0 and 2, horizontal 0 and 1.
	Gradient [4][4]float32 `toml:"gradient"`
	// BackgroundImage is a file path or http(s) URL for the image mode.
	BackgroundImage string `toml:"background_image"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func Default() Config {
	return Config{
		Window: Window{
			Title:      "Buddy",
			Width:      1280,
			Height:     720,
			VSync:      true,
			ClearColor: [4]float32{0.1, 0.1, 0.12, 1},
			FontSize:   16,
		},
		Scripts: Scripts{
			Dir:          filepath.Join("~", "Buddy", "Scripts"),
			Extension:    ".js",
			Watch:        true,
			MaxCallStack: 10000,
		},
		HTTP: HTTP{Timeout: Duration{30 * time.Second}},
		Log:  Log{Level: "info", Pretty: true},
		Theme: Theme{
			Accent:         [4]float32{0.26, 0.59, 0.98, 1},
			Background:     [4]float32{0.1, 0.1, 0.12, 1},
			BackgroundMode: "vertical",
			Gradient: [4][4]float32{
				{0.16, 0.18, 0.26, 1}, {0.16, 0.18, 0.26, 1},
				{0.05, 0.05, 0.07, 1}, {0.05, 0.05, 0.07, 1},
			},
		},
		Shortcuts: map[string]string{},
	}
}

// DefaultPath is config.toml under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "buddy", "config.toml"), nil
}

// Load overlays the file at path on Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("decode config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Shortcuts == nil {
		cfg.Shortcuts = map[string]string{}
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, p[1:]), nil
}

// ScriptsDir resolves the configured scripts directory to an absolute path.
func (c Config) ScriptsDir() (string, error) {
	dir, err := ExpandHome(c.Scripts.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}
