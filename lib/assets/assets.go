// Package assets resolves images by logical name, the way a platform image
// catalogue does: "leaves" finds leaves.png, leaves.jpg or leaves.jpeg.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"github.com/fosdem/trianglix/lib/config"
	tlog "github.com/fosdem/trianglix/lib/log"
)

//go:embed bundle/*
var bundle embed.FS

// Bundle holds the images shipped inside the binary.
var Bundle, _ = fs.Sub(bundle, "bundle")

var ErrAssetNotFound = errors.New("asset not found")

var extensions = []string{"", ".png", ".jpg", ".jpeg"}

// Resolve returns the file name in fsys that provides the named asset.
func Resolve(fsys fs.FS, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%q is not a valid asset name: %w", name, ErrAssetNotFound)
	}
	for _, ext := range extensions {
		candidate := name + ext
		info, err := fs.Stat(fsys, candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("could not look up %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrAssetNotFound)
}

// Decode resolves and decodes the named image from fsys.
func Decode(fsys fs.FS, name string) (image.Image, error) {
	filename, err := Resolve(fsys, name)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer func(f fs.File) {
		_ = f.Close()
	}(f)

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", filename, err)
	}
	tlog.Module("assets").Debug("decoded asset",
		"name", name, "file", filename, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

// Load decodes the named image, looking in the configured asset directory
// before the bundled images.
func Load(cfg *config.SceneCfg, name string) (image.Image, error) {
	var searchPath []fs.FS
	if cfg.AssetDir != "" {
		searchPath = append(searchPath, os.DirFS(string(cfg.AssetDir)))
	}
	searchPath = append(searchPath, Bundle)
	return loadFrom(searchPath, name)
}

func loadFrom(searchPath []fs.FS, name string) (image.Image, error) {
	for _, fsys := range searchPath {
		img, err := Decode(fsys, name)
		if errors.Is(err, ErrAssetNotFound) {
			continue
		}
		return img, err
	}
	return nil, fmt.Errorf("unable to load image %s: %w", name, ErrAssetNotFound)
}
