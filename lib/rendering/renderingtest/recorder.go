// Package renderingtest provides a rendering.Device that records the GL
// calls made through it instead of talking to a driver.
package renderingtest

import (
	"fmt"
	"slices"

	"github.com/fosdem/trianglix/lib/rendering/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Recorder implements rendering.Device.
type Recorder struct {
	Calls []Call

	// BuildError is returned by BuildProgram when set.
	BuildError error
	// FailAllocation makes GenBuffer and GenTexture return 0.
	FailAllocation bool
	// OnCall runs after each call is recorded.
	OnCall func(c Call)

	// Sources holds the last shader sources passed to BuildProgram.
	VertexSource   string
	FragmentSource string
	Attribs        []shaders.AttribBinding

	// Uploads maps buffer and texture names to the bytes uploaded to them.
	BufferUploads  map[uint32][]byte
	TextureUploads map[uint32][]byte

	nextName uint32
	bound    map[uint32]uint32
}

func NewRecorder() *Recorder {
	return &Recorder{
		BufferUploads:  make(map[uint32][]byte),
		TextureUploads: make(map[uint32][]byte),
		bound:          make(map[uint32]uint32),
	}
}

func (r *Recorder) record(name string, args ...any) {
	c := Call{Name: name, Args: args}
	r.Calls = append(r.Calls, c)
	if r.OnCall != nil {
		r.OnCall(c)
	}
}

func (r *Recorder) genName() uint32 {
	if r.FailAllocation {
		return 0
	}
	r.nextName++
	return r.nextName
}

// Names returns the names of all recorded calls in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how often the named call was made.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Find returns the recorded calls with the given name.
func (r *Recorder) Find(name string) []Call {
	var found []Call
	for _, c := range r.Calls {
		if c.Name == name {
			found = append(found, c)
		}
	}
	return found
}

// Index returns the position of the first call with the given name at or
// after from, or -1.
func (r *Recorder) Index(name string, from int) int {
	if from >= len(r.Calls) {
		return -1
	}
	i := slices.IndexFunc(r.Calls[from:], func(c Call) bool { return c.Name == name })
	if i < 0 {
		return -1
	}
	return from + i
}

// Reset forgets the recorded calls but keeps the uploaded data.
func (r *Recorder) Reset() {
	r.Calls = nil
}

func (r *Recorder) ClearColor(c mgl32.Vec4) {
	r.record("ClearColor", c)
}

func (r *Recorder) Clear(mask uint32) {
	r.record("Clear", mask)
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.genName()
	r.record("GenBuffer", id)
	return id
}

func (r *Recorder) BindBuffer(target uint32, buffer uint32) {
	r.bound[target] = buffer
	r.record("BindBuffer", target, buffer)
}

func (r *Recorder) BufferData(target uint32, data []byte, usage uint32) {
	r.BufferUploads[r.bound[target]] = slices.Clone(data)
	r.record("BufferData", target, len(data), usage)
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer", buffer)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) DrawArrays(mode uint32, first int32, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) GenTexture() uint32 {
	id := r.genName()
	r.record("GenTexture", id)
	return id
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
}

func (r *Recorder) BindTexture(target uint32, texture uint32) {
	r.bound[target] = texture
	r.record("BindTexture", target, texture)
}

func (r *Recorder) TexParameteri(target uint32, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) TexImage2D(target uint32, width int32, height int32, format uint32, pixels []byte) {
	r.TextureUploads[r.bound[target]] = slices.Clone(pixels)
	r.record("TexImage2D", target, width, height, format)
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture", texture)
}

func (r *Recorder) BuildProgram(vertexSource string, fragmentSource string, attribs []shaders.AttribBinding) (uint32, error) {
	r.VertexSource = vertexSource
	r.FragmentSource = fragmentSource
	r.Attribs = slices.Clone(attribs)
	if r.BuildError != nil {
		r.record("BuildProgram", uint32(0))
		return 0, r.BuildError
	}
	id := r.genName()
	r.record("BuildProgram", id)
	return id, nil
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	loc := int32(len(r.Find("GetUniformLocation")))
	r.record("GetUniformLocation", program, name, loc)
	return loc
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", location, v)
}

func (r *Recorder) Uniform4f(location int32, v mgl32.Vec4) {
	r.record("Uniform4f", location, v)
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
}
