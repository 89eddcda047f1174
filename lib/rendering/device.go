package rendering

import (
	"github.com/fosdem/trianglix/lib/rendering/shaders"
	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/mathgl/mgl32"
)

// Device is the subset of OpenGL ES 2.0 the renderer uses. All calls must
// be made on the thread that owns the current context.
type Device interface {
	ClearColor(c mgl32.Vec4)
	Clear(mask uint32)

	GenBuffer() uint32
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	DeleteBuffer(buffer uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	DrawArrays(mode uint32, first int32, count int32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target uint32, texture uint32)
	TexParameteri(target uint32, pname uint32, param int32)
	TexImage2D(target uint32, width int32, height int32, format uint32, pixels []byte)
	DeleteTexture(texture uint32)

	BuildProgram(vertexSource string, fragmentSource string, attribs []shaders.AttribBinding) (uint32, error)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform4f(location int32, v mgl32.Vec4)
	DeleteProgram(program uint32)
}

type glesDevice struct{}

// NewGLESDevice returns a Device backed by the go-gl GLES 2 bindings.
// gl.Init must have succeeded on a current context before it is used.
func NewGLESDevice() Device {
	return glesDevice{}
}

func (glesDevice) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (glesDevice) Clear(mask uint32) {
	gl.Clear(mask)
}

func (glesDevice) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (glesDevice) BindBuffer(target uint32, buffer uint32) {
	gl.BindBuffer(target, buffer)
}

func (glesDevice) BufferData(target uint32, data []byte, usage uint32) {
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (glesDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (glesDevice) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (glesDevice) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(int(offset)))
}

func (glesDevice) DrawArrays(mode uint32, first int32, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (glesDevice) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (glesDevice) ActiveTexture(unit uint32) {
	gl.ActiveTexture(unit)
}

func (glesDevice) BindTexture(target uint32, texture uint32) {
	gl.BindTexture(target, texture)
}

func (glesDevice) TexParameteri(target uint32, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (glesDevice) TexImage2D(target uint32, width int32, height int32, format uint32, pixels []byte) {
	gl.TexImage2D(
		target,
		0,
		int32(format),
		width,
		height,
		0,
		format,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pixels),
	)
}

func (glesDevice) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (glesDevice) BuildProgram(vertexSource string, fragmentSource string, attribs []shaders.AttribBinding) (uint32, error) {
	return shaders.NewProgram(vertexSource, fragmentSource, attribs)
}

func (glesDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (glesDevice) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (glesDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (glesDevice) Uniform4f(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (glesDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}
