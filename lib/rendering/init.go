package rendering

import (
	"fmt"

	tlog "github.com/fosdem/trianglix/lib/log"
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// GLInfo describes the driver behind the current context.
type GLInfo struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string
}

// Init loads the GLES 2 entry points for the current context.
func Init() (GLInfo, error) {
	err := gl.Init()
	if err != nil {
		return GLInfo{}, fmt.Errorf("could not initialise OpenGL ES bindings: %w", err)
	}

	info := GLInfo{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	tlog.Module("rendering").Info(fmt.Sprintf("OpenGL version %s / %s / %s", info.Vendor, info.Renderer, info.Version),
		"glsl", info.GLSL)

	return info, nil
}

// Viewport resizes the drawable area of the current context.
func Viewport(width int, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
