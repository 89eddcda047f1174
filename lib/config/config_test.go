package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "trianglix.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %s", err)
	}
	if cfg.Scene.Texture != "leaves" {
		t.Errorf("default texture = %q", cfg.Scene.Texture)
	}
	if cfg.Scene.ClearColour != "#ffffffff" {
		t.Errorf("default clear colour = %q", cfg.Scene.ClearColour)
	}
	major, minor, err := cfg.Window.Version()
	if err != nil || major != 2 || minor != 0 {
		t.Errorf("default version = %d.%d (%v)", major, minor, err)
	}
	if !*cfg.Window.Vsync {
		t.Error("vsync should default to on")
	}
	if cfg.Api != nil {
		t.Error("api should be disabled by default")
	}
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
window:
  title: leaves
  width: 640
  height: 480
  api_version: "3.0"
  vsync: false
scene:
  clear_colour: "#000000ff"
  texture: bark
  asset_dir: assets
api:
  bind: ":8000"
  enable_profiler: true
`)

	cfg, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Window.Title != "leaves" || cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if *cfg.Window.Vsync {
		t.Error("vsync should be off")
	}
	if cfg.Scene.Texture != "bark" {
		t.Errorf("texture = %q", cfg.Scene.Texture)
	}
	want := filepath.Join(filepath.Dir(path), "assets")
	if string(cfg.Scene.AssetDir) != want {
		t.Errorf("asset_dir = %q, want %q", cfg.Scene.AssetDir, want)
	}
	if cfg.Scene.ConstantColour != "#ffffffff" {
		t.Errorf("constant colour default not applied: %q", cfg.Scene.ConstantColour)
	}
	if cfg.Api == nil || cfg.Api.Bind != ":8000" || !cfg.Api.EnableProfiler {
		t.Errorf("unexpected api %+v", cfg.Api)
	}
}

func TestParseAbsoluteAssetDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "textures")
	path := writeConfig(t, "scene:\n  asset_dir: "+abs+"\n")

	cfg, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(cfg.Scene.AssetDir) != abs {
		t.Errorf("asset_dir = %q, want %q", cfg.Scene.AssetDir, abs)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"bad colour":      "scene:\n  clear_colour: white\n",
		"bad constant":    "scene:\n  constant_colour: \"#fff\"\n",
		"texture path":    "scene:\n  texture: ../leaves\n",
		"bad version":     "window:\n  api_version: two\n",
		"desktop version": "window:\n  api_version: \"4.1\"\n",
		"negative size":   "window:\n  width: -1\n",
		"api no bind":     "api:\n  enable_profiler: true\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(writeConfig(t, content)); err == nil {
				t.Errorf("expected %q to be rejected", content)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %s", err)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	for _, want := range []string{"trianglix", "texture leaves", "disabled"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q missing from %q", want, s)
		}
	}
}
