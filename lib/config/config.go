package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fosdem/trianglix/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

const (
	DefaultTitle       = "trianglix"
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultAPIVersion  = "2.0"
	DefaultClearColour = "#ffffffff"
	DefaultTexture     = "leaves"
)

type Config struct {
	Window *WindowCfg
	Scene  *SceneCfg
	Api    *ApiCfg
}

type WindowCfg struct {
	Title      string
	Width      int
	Height     int
	APIVersion string `yaml:"api_version"`
	Vsync      *bool
	Resizable  bool
}

type SceneCfg struct {
	ClearColour       string  `yaml:"clear_colour"`
	UseConstantColour *bool   `yaml:"use_constant_colour"`
	ConstantColour    string  `yaml:"constant_colour"`
	Texture           string  `yaml:"texture"`
	AssetDir          CfgPath `yaml:"asset_dir"`
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default returns the configuration used when no config file is given:
// a vsynced GLES 2.0 window drawing the bundled "leaves" texture on white.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", filename, err)
	}
	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window == nil {
		c.Window = &WindowCfg{}
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width == 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.APIVersion == "" {
		c.Window.APIVersion = DefaultAPIVersion
	}
	if c.Window.Vsync == nil {
		vsync := true
		c.Window.Vsync = &vsync
	}

	if c.Scene == nil {
		c.Scene = &SceneCfg{}
	}
	if c.Scene.ClearColour == "" {
		c.Scene.ClearColour = DefaultClearColour
	}
	if c.Scene.UseConstantColour == nil {
		use := true
		c.Scene.UseConstantColour = &use
	}
	if c.Scene.ConstantColour == "" {
		c.Scene.ConstantColour = "#ffffffff"
	}
	if c.Scene.Texture == "" {
		c.Scene.Texture = DefaultTexture
	}
}

func (c *Config) Validate() error {
	if c.Window == nil {
		return fmt.Errorf("window section is missing")
	}
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	if c.Scene == nil {
		return fmt.Errorf("scene section is missing")
	}
	if err := c.Scene.Validate(); err != nil {
		return fmt.Errorf("scene is invalid: %w", err)
	}
	if c.Api != nil {
		if err := c.Api.Validate(); err != nil {
			return fmt.Errorf("api is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %s (%dx%d, OpenGL ES %s, vsync %v)\n",
		c.Window.Title, c.Window.Width, c.Window.Height, c.Window.APIVersion, *c.Window.Vsync))

	b.WriteString("\nScene:\n")
	b.WriteString(fmt.Sprintf("  texture %s\n", c.Scene.Texture))
	if c.Scene.AssetDir != "" {
		b.WriteString(fmt.Sprintf("  assets from %s\n", c.Scene.AssetDir))
	}
	b.WriteString(fmt.Sprintf("  clear colour %s\n", c.Scene.ClearColour))
	if *c.Scene.UseConstantColour {
		b.WriteString(fmt.Sprintf("  constant colour %s\n", c.Scene.ConstantColour))
	}

	b.WriteString("\nApi:\n")
	if c.Api == nil {
		b.WriteString("  disabled\n")
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", c.Api.Bind))
	}

	return b.String()
}

// Version returns the requested context version as major and minor numbers.
func (w *WindowCfg) Version() (major int, minor int, err error) {
	majorStr, minorStr, ok := strings.Cut(w.APIVersion, ".")
	if !ok {
		return 0, 0, fmt.Errorf("api_version %q should look like <major>.<minor>", w.APIVersion)
	}
	major, err = strconv.Atoi(majorStr)
	if err != nil {
		return 0, 0, fmt.Errorf("api_version %q has an invalid major version: %w", w.APIVersion, err)
	}
	minor, err = strconv.Atoi(minorStr)
	if err != nil {
		return 0, 0, fmt.Errorf("api_version %q has an invalid minor version: %w", w.APIVersion, err)
	}
	return major, minor, nil
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height)
	}
	major, _, err := w.Version()
	if err != nil {
		return err
	}
	// the renderer only uses the ES 2.0 subset, which 3.x contexts also provide
	if major != 2 && major != 3 {
		return fmt.Errorf("OpenGL ES %s is not supported, use 2.x or 3.x", w.APIVersion)
	}
	return nil
}

func (s *SceneCfg) Validate() error {
	if !utils.ColourValidate(s.ClearColour) {
		return fmt.Errorf("clear_colour %s is not a valid RGBA hex colour", s.ClearColour)
	}
	if !utils.ColourValidate(s.ConstantColour) {
		return fmt.Errorf("constant_colour %s is not a valid RGBA hex colour", s.ConstantColour)
	}
	if s.Texture == "" {
		return fmt.Errorf("texture must be specified")
	}
	if strings.ContainsAny(s.Texture, `/\`) {
		return fmt.Errorf("texture %s must be a logical asset name, not a path", s.Texture)
	}
	return nil
}

func (a *ApiCfg) Validate() error {
	if a.Bind == "" {
		return fmt.Errorf("bind address must be specified")
	}
	return nil
}
