package rendering

import (
	"errors"
	"fmt"

	"github.com/fosdem/trianglix/lib/metrics"
	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/mathgl/mgl32"
)

type FrameState int

const (
	Idle FrameState = iota
	Rendering
)

func (s FrameState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

var ErrReentrantFrame = errors.New("frame requested while another frame is rendering")

// Renderer draws the vertex buffer with the base effect once per frame.
type Renderer struct {
	dev    Device
	effect *BaseEffect
	buffer *VertexAttribArrayBuffer

	clearColour mgl32.Vec4
	state       FrameState
}

func NewRenderer(dev Device, effect *BaseEffect, buffer *VertexAttribArrayBuffer, clearColour mgl32.Vec4) *Renderer {
	return &Renderer{
		dev:         dev,
		effect:      effect,
		buffer:      buffer,
		clearColour: clearColour,
	}
}

// Start sets the state shared by all frames.
func (r *Renderer) Start() {
	r.dev.ClearColor(r.clearColour)
}

func (r *Renderer) State() FrameState {
	return r.state
}

// RenderFrame clears the frame buffer and draws the triangle. It is the
// per-refresh callback and runs to completion.
func (r *Renderer) RenderFrame() error {
	if r.state != Idle {
		return ErrReentrantFrame
	}
	r.state = Rendering
	defer func() { r.state = Idle }()

	err := r.effect.PrepareToDraw()
	if err != nil {
		return err
	}

	r.dev.Clear(gl.COLOR_BUFFER_BIT)

	r.buffer.PrepareToDraw(AttribPosition, PositionComponents, PositionOffset, true)
	r.buffer.PrepareToDraw(AttribTexCoord0, TexCoordComponents, TexCoordOffset, true)

	r.buffer.DrawArrays(gl.TRIANGLES, 0, r.buffer.Count())

	metrics.FramesRendered.Inc()
	return nil
}
