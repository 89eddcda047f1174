package rendering

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one interleaved record of the vertex buffer.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Layout of Vertex as seen by VertexAttribPointer. These follow the struct
// declaration, so reordering the fields keeps the attribute streams right.
var (
	VertexStride   = int(unsafe.Sizeof(Vertex{}))
	PositionOffset = unsafe.Offsetof(Vertex{}.Position)
	TexCoordOffset = unsafe.Offsetof(Vertex{}.TexCoord)
)

const (
	PositionComponents = int32(len(mgl32.Vec3{}))
	TexCoordComponents = int32(len(mgl32.Vec2{}))
)

// TriangleVertices is the geometry drawn every frame.
var TriangleVertices = [3]Vertex{
	{Position: mgl32.Vec3{-0.5, -0.5, 0}, TexCoord: mgl32.Vec2{0, 0}},
	{Position: mgl32.Vec3{0.5, -0.5, 0}, TexCoord: mgl32.Vec2{1, 0}},
	{Position: mgl32.Vec3{-0.5, 0.5, 0}, TexCoord: mgl32.Vec2{0, 1}},
}

// vertexBytes views vertices as the raw bytes handed to glBufferData.
func vertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexStride)
}
