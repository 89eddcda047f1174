package rendering

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/fosdem/trianglix/lib/metrics"
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// Texture is a 2D RGBA texture uploaded from an image.
type Texture struct {
	dev Device

	Name   uint32
	Target uint32
	Width  int
	Height int

	released bool
}

// NewTexture uploads img as an RGBA texture. Rows are uploaded top row
// first, so texture coordinate (0,0) samples the image's top-left corner.
func NewTexture(dev Device, img image.Image) (*Texture, error) {
	rgba := toNRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot make a texture from an empty %dx%d image", w, h)
	}

	t := &Texture{
		dev:    dev,
		Target: gl.TEXTURE_2D,
		Width:  w,
		Height: h,
	}
	t.Name = dev.GenTexture()
	if t.Name == 0 {
		return nil, fmt.Errorf("could not allocate texture")
	}

	dev.ActiveTexture(gl.TEXTURE0)
	dev.BindTexture(t.Target, t.Name)
	dev.TexParameteri(t.Target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	dev.TexParameteri(t.Target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// GLES 2 only samples non-power-of-two textures with edge clamping
	dev.TexParameteri(t.Target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	dev.TexParameteri(t.Target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	dev.TexImage2D(t.Target, int32(w), int32(h), gl.RGBA, rgba.Pix)
	metrics.BytesUploaded.WithLabelValues(metrics.KindTexture).Add(float64(len(rgba.Pix)))

	return t, nil
}

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.dev.DeleteTexture(t.Name)
	t.released = true
}

// toNRGBA returns img as a tightly packed NRGBA image with its origin at 0,0.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, img, b.Min, draw.Src)
	return n
}
