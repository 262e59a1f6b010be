package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"soldak-mdm/internal/viewmatrix"
)

// Output formats understood by the batch converter.
const (
	FormatWebP = "webp"
	FormatGLB  = "glb"
)

// Config holds paths, render settings and server settings.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`

	// Render settings
	RenderSize  int      `json:"render_size" yaml:"render_size"`
	Supersample int      `json:"supersample" yaml:"supersample"`
	Yaw         *float64 `json:"yaw" yaml:"yaw"` // nil selects viewmatrix.DefaultCamera
	Pitch       *float64 `json:"pitch" yaml:"pitch"`
	YUp         bool     `json:"y_up" yaml:"y_up"`
	Perspective bool     `json:"perspective" yaml:"perspective"`

	// Batch settings
	Formats []string `json:"formats" yaml:"formats"`
	Workers int      `json:"workers" yaml:"workers"`

	// Server
	Listen string `json:"listen" yaml:"listen"`
}

// Load reads a JSON or YAML (.yaml, .yml) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir   string
	OutputDir  string
	TextureDir string
	Formats    string // comma separated
	Workers    int
	Size       int
	Listen     string
}

// Resolve applies flag overrides, then fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Formats != "" {
		c.Formats = splitList(flags.Formats)
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Listen != "" {
		c.Listen = flags.Listen
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "mdm-out")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.TextureDir == "" {
		c.TextureDir = c.InputDir
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Yaw == nil {
		yaw := viewmatrix.DefaultCamera.Yaw
		c.Yaw = &yaw
	}
	if c.Pitch == nil {
		pitch := viewmatrix.DefaultCamera.Pitch
		c.Pitch = &pitch
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{FormatWebP, FormatGLB}
	}
	for i, f := range c.Formats {
		c.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Listen == "" {
		c.Listen = "localhost:8000"
	}
}

// Camera returns the preview camera described by the config.
func (c *Config) Camera() viewmatrix.Camera {
	return viewmatrix.Camera{
		Yaw:         deref(c.Yaw, viewmatrix.DefaultCamera.Yaw),
		Pitch:       deref(c.Pitch, viewmatrix.DefaultCamera.Pitch),
		ZUp:         !c.YUp,
		Perspective: c.Perspective,
	}
}

// Wants reports whether format is enabled.
func (c *Config) Wants(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Validate rejects unknown output formats.
func (c *Config) Validate() error {
	for _, f := range c.Formats {
		if f != FormatWebP && f != FormatGLB {
			return fmt.Errorf("config: unknown format %q", f)
		}
	}
	return nil
}

func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
