package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gogpu/shaderkit/backend"
	"github.com/gogpu/shaderkit/render"
)

// Config holds all shaderkit tool configuration.
type Config struct {
	Assets  AssetsConfig  `mapstructure:"assets"`
	Backend BackendConfig `mapstructure:"backend"`
	Render  RenderConfig  `mapstructure:"render"`
	Shader  ShaderConfig  `mapstructure:"shader"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Log     LogConfig     `mapstructure:"log"`
}

type AssetsConfig struct {
	// Root is the folder absolute asset paths resolve against.
	Root string `mapstructure:"root"`
}

type BackendConfig struct {
	// Name selects a registered backend. Empty picks the default.
	Name string `mapstructure:"name"`
}

type RenderConfig struct {
	Width        uint32 `mapstructure:"width"`
	Height       uint32 `mapstructure:"height"`
	Antialiasing string `mapstructure:"antialiasing"`
}

type ShaderConfig struct {
	StrictImports     bool `mapstructure:"strict_imports"`
	StrictParse       bool `mapstructure:"strict_parse"`
	CaptureSuccessLog bool `mapstructure:"capture_success_log"`
}

type WatchConfig struct {
	// Debounce coalesces bursts of file events before reloading.
	Debounce time.Duration `mapstructure:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"assets.root":                "assets",
	"backend.name":               backend.BackendNative,
	"render.width":               1280,
	"render.height":              720,
	"render.antialiasing":        "none",
	"shader.strict_imports":      false,
	"shader.strict_parse":        false,
	"shader.capture_success_log": false,
	"watch.debounce":             100 * time.Millisecond,
	"log.level":                  "info",
	"log.format":                 "text",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("SHADERKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return &cfg
}

// Load reads configuration from file and environment. An empty path uses
// the defaults and the environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}
	return &cfg, nil
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Assets.Root != "" {
		if fi, err := os.Stat(c.Assets.Root); err != nil || !fi.IsDir() {
			warnings = append(warnings, fmt.Sprintf("assets root %q is not a directory", c.Assets.Root))
		}
	}
	if c.Backend.Name != "" && !backend.IsRegistered(c.Backend.Name) {
		warnings = append(warnings, fmt.Sprintf("backend %q is not registered; available: %s",
			c.Backend.Name, strings.Join(backend.Available(), ", ")))
	}
	if c.Render.Width == 0 || c.Render.Height == 0 {
		warnings = append(warnings, fmt.Sprintf("render size %dx%d has a zero dimension", c.Render.Width, c.Render.Height))
	}
	if _, err := c.AA(); err != nil {
		warnings = append(warnings, fmt.Sprintf("render antialiasing: %v", err))
	}
	if c.Watch.Debounce < 0 {
		warnings = append(warnings, fmt.Sprintf("watch debounce %s is negative", c.Watch.Debounce))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		warnings = append(warnings, err.Error())
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		warnings = append(warnings, fmt.Sprintf("log format %q is not text or json", c.Log.Format))
	}

	return warnings
}

// AA parses the configured antialiasing mode. An empty value is NoAA.
func (c *Config) AA() (render.AntialiasingMode, error) {
	if c.Render.Antialiasing == "" {
		return render.NoAA{}, nil
	}
	return render.ParseAntialiasing(c.Render.Antialiasing)
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger builds a slog logger writing to w in the configured format.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q is not text or json", c.Format)
	}
}
