package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/overlaycue/internal/timeline"
)

type Config struct {
	ScheduleFile    string           `yaml:"schedule_file"` // empty: built-in schedule
	ContentDir      string           `yaml:"content_dir"`   // empty: embedded content
	DefaultLanguage string           `yaml:"default_language"`
	Viewport        ViewportConfig   `yaml:"viewport"`
	Server          ServerConfig     `yaml:"server"`
	Log             LogConfig        `yaml:"log"`
	Render          RenderConfig     `yaml:"render"`
	Storyboard      StoryboardConfig `yaml:"storyboard"`
	Preview         PreviewConfig    `yaml:"preview"`
}

// ViewportConfig owns the compact/standard classification boundary
type ViewportConfig struct {
	Breakpoint int `yaml:"breakpoint"` // px; narrower viewports are compact
}

type ServerConfig struct {
	Addr          string   `yaml:"addr"`
	AllowedOrigin []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"` // empty: stdout only
}

type RenderConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	FontFile     string  `yaml:"font_file"`
	FontSize     int     `yaml:"font_size"`
	FontColor    string  `yaml:"font_color"`
	BoxOpacity   float64 `yaml:"box_opacity"`
	VideoEncoder string  `yaml:"video_encoder"` // "auto" picks the best available h264 encoder
	Quality      int     `yaml:"quality"`
	Workers      int     `yaml:"workers"`
	ShowStats    bool    `yaml:"show_stats"`
	Debug        bool    `yaml:"debug"` // burn a running timestamp
}

type StoryboardConfig struct {
	Columns   int     `yaml:"columns"`
	Step      float64 `yaml:"step"` // seconds between cells
	CellWidth int     `yaml:"cell_width"`
	AssetURL  string  `yaml:"asset_url"` // encoded as QR code in the header
}

type PreviewConfig struct {
	TickMillis int     `yaml:"tick_ms"`
	SeekStep   float64 `yaml:"seek_step"`
}

// OverlayParams carries everything a filter generator needs for one render
type OverlayParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	Viewport      timeline.Viewport
	FontFile      string
	FontSize      int
	FontColor     string
	BoxOpacity    float64
	Debug         bool
}

// Defaults returns the configuration used when no file is present
func Defaults() *Config {
	return &Config{
		DefaultLanguage: string(timeline.English),
		Viewport:        ViewportConfig{Breakpoint: 768},
		Server:          ServerConfig{Addr: ":8080"},
		Log:             LogConfig{Level: "INFO"},
		Render: RenderConfig{
			Width:        1280,
			Height:       720,
			FPS:          30,
			FontSize:     36,
			FontColor:    "white",
			BoxOpacity:   0.35,
			VideoEncoder: "libx264",
			Quality:      23,
			Workers:      4,
		},
		Storyboard: StoryboardConfig{Columns: 6, Step: 1, CellWidth: 240},
		Preview:    PreviewConfig{TickMillis: 100, SeekStep: 5},
	}
}

// Load reads the YAML config at path over the defaults. A missing file is
// not an error. Environment overrides (optionally from .env) apply last.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OVERLAYCUE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("OVERLAYCUE_LANG"); v != "" {
		c.DefaultLanguage = v
	}
	if v := os.Getenv("OVERLAYCUE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("OVERLAYCUE_SCHEDULE"); v != "" {
		c.ScheduleFile = v
	}
	if v := os.Getenv("OVERLAYCUE_CONTENT_DIR"); v != "" {
		c.ContentDir = v
	}
}

// Validate rejects settings no component can work with
func (c *Config) Validate() error {
	var errs []string
	if _, err := timeline.ParseLanguage(c.DefaultLanguage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Viewport.Breakpoint <= 0 {
		errs = append(errs, "viewport.breakpoint must be positive")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, "render width and height must be positive")
	}
	if c.Render.FPS <= 0 {
		errs = append(errs, "render.fps must be positive")
	}
	if c.Storyboard.Columns <= 0 || c.Storyboard.Step <= 0 {
		errs = append(errs, "storyboard columns and step must be positive")
	}
	if c.Preview.TickMillis <= 0 {
		errs = append(errs, "preview.tick_ms must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Language returns the validated default language
func (c *Config) Language() timeline.Language {
	lang, err := timeline.ParseLanguage(c.DefaultLanguage)
	if err != nil {
		return timeline.English
	}
	return lang
}

// Classify maps a viewport width in pixels to a viewport class
func (v ViewportConfig) Classify(widthPx int) timeline.Viewport {
	if widthPx < v.Breakpoint {
		return timeline.Compact
	}
	return timeline.Standard
}

// Params derives render parameters for one viewport
func (c *Config) Params(vp timeline.Viewport, duration float64) OverlayParams {
	return OverlayParams{
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		FPS:        c.Render.FPS,
		Duration:   duration,
		Viewport:   vp,
		FontFile:   c.Render.FontFile,
		FontSize:   c.Render.FontSize,
		FontColor:  c.Render.FontColor,
		BoxOpacity: c.Render.BoxOpacity,
		Debug:      c.Render.Debug,
	}
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
