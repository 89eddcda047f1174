package utils

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
)

var colourRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// ColourValidate reports whether c is an #rrggbbaa hex colour.
func ColourValidate(c string) bool {
	return colourRegexp.MatchString(c)
}

// ColourParse turns an #rrggbbaa hex colour into normalised RGBA components,
// as expected by glClearColor and vec4 uniforms.
func ColourParse(s string) (mgl32.Vec4, error) {
	if !ColourValidate(s) {
		return mgl32.Vec4{}, fmt.Errorf("%q is not a valid RGBA hex colour", s)
	}
	var r, g, b, a uint8
	_, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
	if err != nil {
		return mgl32.Vec4{}, fmt.Errorf("could not parse colour %q: %w", s, err)
	}
	return mgl32.Vec4{
		float32(r) / 255,
		float32(g) / 255,
		float32(b) / 255,
		float32(a) / 255,
	}, nil
}
