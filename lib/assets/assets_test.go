package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fosdem/trianglix/lib/config"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestResolve(t *testing.T) {
	fsys := fstest.MapFS{
		"leaves.png":  {Data: []byte("x")},
		"bark.jpeg":   {Data: []byte("x")},
		"grass":       {Data: []byte("x")},
		"moss.png":    {Mode: fs.ModeDir},
		"moss.png/xx": {Data: []byte("x")},
	}
	cases := map[string]string{
		"leaves": "leaves.png",
		"bark":   "bark.jpeg",
		"grass":  "grass",
	}
	for name, want := range cases {
		got, err := Resolve(fsys, name)
		if err != nil {
			t.Errorf("Resolve(%q): %s", name, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}

	for _, name := range []string{"moss", "stone", "../leaves"} {
		if _, err := Resolve(fsys, name); !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrAssetNotFound", name, err)
		}
	}
}

func TestDecode(t *testing.T) {
	fsys := fstest.MapFS{
		"leaves.png": {Data: encodePNG(t, 4, 2, color.NRGBA{G: 255, A: 255})},
		"broken.png": {Data: []byte("not a png")},
	}

	img, err := Decode(fsys, "leaves")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	_, err = Decode(fsys, "broken")
	if err == nil || errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestBundledLeaves(t *testing.T) {
	img, err := Load(&config.SceneCfg{}, "leaves")
	if err != nil {
		t.Fatalf("bundled leaves could not be loaded: %s", err)
	}
	if img.Bounds().Empty() {
		t.Error("bundled leaves is empty")
	}
}

func TestLoadPrefersAssetDir(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "leaves.png"), encodePNG(t, 3, 5, color.White), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	img, err := Load(&config.SceneCfg{AssetDir: config.CfgPath(dir)}, "leaves")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("asset dir was not preferred, got bounds %v", img.Bounds())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(&config.SceneCfg{AssetDir: config.CfgPath(t.TempDir())}, "stone")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}
