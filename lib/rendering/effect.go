package rendering

import (
	"fmt"

	"github.com/fosdem/trianglix/lib/rendering/shaders"
	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute locations bound into the base effect program.
const (
	AttribPosition  uint32 = 0
	AttribTexCoord0 uint32 = 1
)

// BaseEffect is a fixed shader program with a constant colour and one
// texture, set up once and bound before every draw.
type BaseEffect struct {
	dev Device

	Program          uint32
	UseConstantColor bool
	ConstantColor    mgl32.Vec4
	Texture2D0       *Texture

	constantColorUniform int32
	textureUniform       int32
	released             bool
}

// NewBaseEffect builds the effect program. The texture stage is always
// compiled in; PrepareToDraw needs Texture2D0 to be set.
func NewBaseEffect(dev Device, useConstantColor bool, constantColor mgl32.Vec4) (*BaseEffect, error) {
	shaderer, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not get shaders: %w", err)
	}
	vert, frag, err := shaderer.Sources(&shaders.ShaderData{
		UseConstantColor: useConstantColor,
		UseTexture:       true,
	})
	if err != nil {
		return nil, err
	}

	program, err := dev.BuildProgram(vert, frag, []shaders.AttribBinding{
		{Name: "position", Location: AttribPosition},
		{Name: "texCoord0", Location: AttribTexCoord0},
	})
	if err != nil {
		return nil, fmt.Errorf("could not init shader: %w", err)
	}

	e := &BaseEffect{
		dev:              dev,
		Program:          program,
		UseConstantColor: useConstantColor,
		ConstantColor:    constantColor,
		textureUniform:   dev.GetUniformLocation(program, "texture0"),
	}
	if useConstantColor {
		e.constantColorUniform = dev.GetUniformLocation(program, "constantColor")
	}
	return e, nil
}

// PrepareToDraw makes the effect's program and texture current.
func (e *BaseEffect) PrepareToDraw() error {
	if e.Texture2D0 == nil {
		return fmt.Errorf("base effect has no texture")
	}
	e.dev.UseProgram(e.Program)
	if e.UseConstantColor {
		e.dev.Uniform4f(e.constantColorUniform, e.ConstantColor)
	}
	e.dev.ActiveTexture(gl.TEXTURE0)
	e.dev.BindTexture(e.Texture2D0.Target, e.Texture2D0.Name)
	e.dev.Uniform1i(e.textureUniform, 0)
	return nil
}

func (e *BaseEffect) Release() {
	if e.released {
		return
	}
	e.dev.DeleteProgram(e.Program)
	e.released = true
}
