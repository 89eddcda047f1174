package rendering

import (
	"errors"
	"fmt"

	"github.com/fosdem/trianglix/lib/metrics"
	gl "github.com/go-gl/gl/v3.1/gles2"
)

var ErrBufferAllocation = errors.New("could not allocate vertex buffer")

// VertexAttribArrayBuffer owns one GL array buffer of interleaved vertices
// and feeds its fields to attribute streams.
type VertexAttribArrayBuffer struct {
	dev Device

	name     uint32
	stride   int32
	count    int32
	size     int
	released bool
}

// NewVertexAttribArrayBuffer allocates a buffer of len(vertices)*stride bytes
// and uploads vertices into it. usage is a GL usage hint such as
// gl.STATIC_DRAW.
func NewVertexAttribArrayBuffer(dev Device, stride int, vertices []Vertex, usage uint32) (*VertexAttribArrayBuffer, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrBufferAllocation)
	}
	if stride != VertexStride {
		return nil, fmt.Errorf("%w: stride %d does not match the %d byte vertex record", ErrBufferAllocation, stride, VertexStride)
	}

	b := &VertexAttribArrayBuffer{
		dev:    dev,
		stride: int32(stride),
		count:  int32(len(vertices)),
	}

	data := vertexBytes(vertices)
	b.size = len(data)

	b.name = dev.GenBuffer()
	if b.name == 0 {
		return nil, fmt.Errorf("%w: glGenBuffers returned no name", ErrBufferAllocation)
	}
	dev.BindBuffer(gl.ARRAY_BUFFER, b.name)
	dev.BufferData(gl.ARRAY_BUFFER, data, usage)

	metrics.BytesUploaded.WithLabelValues(metrics.KindVertexBuffer).Add(float64(b.size))
	return b, nil
}

// PrepareToDraw points the attribute stream attrib at the field starting
// offset bytes into each vertex record.
func (b *VertexAttribArrayBuffer) PrepareToDraw(attrib uint32, components int32, offset uintptr, enable bool) {
	b.dev.BindBuffer(gl.ARRAY_BUFFER, b.name)
	if enable {
		b.dev.EnableVertexAttribArray(attrib)
	}
	b.dev.VertexAttribPointer(attrib, components, gl.FLOAT, false, b.stride, offset)
}

// DrawArrays draws count vertices starting at first using mode.
func (b *VertexAttribArrayBuffer) DrawArrays(mode uint32, first int32, count int32) {
	b.dev.DrawArrays(mode, first, count)
	metrics.DrawCalls.WithLabelValues(modeName(mode)).Inc()
	metrics.VerticesDrawn.Add(float64(count))
}

func (b *VertexAttribArrayBuffer) Name() uint32 {
	return b.name
}

// Size is the number of bytes uploaded.
func (b *VertexAttribArrayBuffer) Size() int {
	return b.size
}

// Count is the number of vertices in the buffer.
func (b *VertexAttribArrayBuffer) Count() int32 {
	return b.count
}

func (b *VertexAttribArrayBuffer) Release() {
	if b.released {
		return
	}
	b.dev.DeleteBuffer(b.name)
	b.released = true
}

func modeName(mode uint32) string {
	switch mode {
	case gl.TRIANGLES:
		return "triangles"
	case gl.TRIANGLE_STRIP:
		return "triangle_strip"
	case gl.TRIANGLE_FAN:
		return "triangle_fan"
	case gl.LINES:
		return "lines"
	case gl.POINTS:
		return "points"
	default:
		return "other"
	}
}
