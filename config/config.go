// Package config loads the TOML configuration shared by the command line
// tools.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Scene   SceneConfig   `toml:"scene"`
	Sim     SimConfig     `toml:"sim"`
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
}

type SceneConfig struct {
	Name      string   `toml:"name"`      // embedded or scenes/ name
	Path      string   `toml:"path"`      // explicit file, wins over Name
	WatchDirs []string `toml:"watch_dirs"` // hot reload, viewer only
}

type SimConfig struct {
	Ticks    int           `toml:"ticks"`
	TickRate time.Duration `toml:"tick_rate"`
	Backend  string        `toml:"backend"` // "sparse" or "arche"
}

type WindowConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Title  string  `toml:"title"`
	Zoom   float32 `toml:"zoom"` // pixels per world unit
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// DT returns the tick length in seconds.
func (s SimConfig) DT() float64 {
	return s.TickRate.Seconds()
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Sim.Backend {
	case "sparse", "arche":
	default:
		return fmt.Errorf("sim.backend %q: want sparse or arche", c.Sim.Backend)
	}
	if c.Sim.Ticks < 0 {
		return fmt.Errorf("sim.ticks must not be negative")
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Scene.Name == "" && c.Scene.Path == "" {
		return fmt.Errorf("scene.name or scene.path is required")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Scene: SceneConfig{
			Name:      "humanoid",
			WatchDirs: []string{"scenes", "scenes/scripts"},
		},
		Sim: SimConfig{
			Ticks:    600,
			TickRate: time.Second / 60,
			Backend:  "sparse",
		},
		Window: WindowConfig{
			Width:  960,
			Height: 720,
			Title:  "sceneview",
			Zoom:   60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
