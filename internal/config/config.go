// Package config loads LocalSketch settings from a TOML file.
//
// Every field has a default, so an empty or missing file yields the stock
// 450×300 white surface with a 4px pencil and a 20px eraser:
//
//	[canvas]
//	width = 450
//	height = 300
//	background = "#ffffff"
//
//	[tools]
//	default_color = "#000000"
//	pencil_width = 4
//	eraser_width = 20
//	text_color = "#000000"
//	font_size = 20
//	image_size = 100
//	image_placement = "persistent" # or "ephemeral"
//
//	[server]
//	addr = ":8888"
//	mdns = true
//
//	[log]
//	level = "info"
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"LocalSketch/internal/errors"
	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

type Config struct {
	Canvas Canvas `toml:"canvas"`
	Tools  Tools  `toml:"tools"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type Tools struct {
	DefaultColor   string  `toml:"default_color"`
	PencilWidth    float32 `toml:"pencil_width"`
	EraserWidth    float32 `toml:"eraser_width"`
	TextColor      string  `toml:"text_color"`
	FontSize       float64 `toml:"font_size"`
	ImageSize      float32 `toml:"image_size"`
	ImagePlacement string  `toml:"image_placement"`
	ImageAnchorX   float32 `toml:"image_anchor_x"`
	ImageAnchorY   float32 `toml:"image_anchor_y"`
}

type Server struct {
	Addr string `toml:"addr"`
	MDNS bool   `toml:"mdns"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 450, Height: 300, Background: "#ffffff"},
		Tools: Tools{
			DefaultColor:   "#000000",
			PencilWidth:    4,
			EraserWidth:    20,
			TextColor:      "#000000",
			FontSize:       20,
			ImageSize:      100,
			ImagePlacement: "persistent",
			ImageAnchorX:   50,
			ImageAnchorY:   50,
		},
		Server: Server{Addr: ":8888", MDNS: true},
		Log:    Log{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks sizes, colors, placement and the log level.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Tools.PencilWidth <= 0 || c.Tools.EraserWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tool widths must be positive")
	}
	if c.Tools.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %v", c.Tools.FontSize)
	}
	if c.Tools.ImageSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "image_size must be positive, got %v", c.Tools.ImageSize)
	}
	for name, v := range map[string]string{
		"canvas.background":   c.Canvas.Background,
		"tools.default_color": c.Tools.DefaultColor,
		"tools.text_color":    c.Tools.TextColor,
	} {
		if _, err := state.ParseColor(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	if _, err := surface.ParsePlacement(c.Tools.ImagePlacement); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tools.image_placement")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// SurfaceOptions maps a validated config to surface options.
func (c Config) SurfaceOptions(logger *log.Logger) surface.Options {
	bg, _ := state.ParseColor(c.Canvas.Background)
	fg, _ := state.ParseColor(c.Tools.DefaultColor)
	text, _ := state.ParseColor(c.Tools.TextColor)
	placement, _ := surface.ParsePlacement(c.Tools.ImagePlacement)
	return surface.Options{
		Width:        c.Canvas.Width,
		Height:       c.Canvas.Height,
		Background:   bg,
		DefaultColor: fg,
		PencilWidth:  c.Tools.PencilWidth,
		EraserWidth:  c.Tools.EraserWidth,
		TextColor:    text,
		FontSize:     c.Tools.FontSize,
		ImageSize:    c.Tools.ImageSize,
		Placement:    placement,
		ImageAnchor:  state.Point{X: c.Tools.ImageAnchorX, Y: c.Tools.ImageAnchorY},
		Logger:       logger,
	}
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
