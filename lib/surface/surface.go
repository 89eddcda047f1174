// Package surface owns the window and the OpenGL ES context drawn into it.
package surface

import (
	"fmt"

	"github.com/fosdem/trianglix/lib/config"
	tlog "github.com/fosdem/trianglix/lib/log"
	"github.com/fosdem/trianglix/lib/rendering"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ContextCreationError is returned when no usable context could be made
// current. Rendering cannot start after it.
type ContextCreationError struct {
	APIVersion string
	Op         string
	Err        error
}

func (e *ContextCreationError) Error() string {
	return fmt.Sprintf("could not create OpenGL ES %s context: %s: %s", e.APIVersion, e.Op, e.Err)
}

func (e *ContextCreationError) Unwrap() error {
	return e.Err
}

// Surface is a window whose context is current on the calling thread.
// All methods must be called from the thread that called Initialize.
type Surface struct {
	Window *glfw.Window
	GLInfo rendering.GLInfo

	torndown bool
}

// Initialize creates a window with an OpenGL ES context of the configured
// version and makes it current.
func Initialize(cfg *config.WindowCfg) (*Surface, error) {
	major, minor, err := cfg.Version()
	if err != nil {
		return nil, &ContextCreationError{APIVersion: cfg.APIVersion, Op: "parse version", Err: err}
	}
	fail := func(op string, err error) (*Surface, error) {
		return nil, &ContextCreationError{APIVersion: cfg.APIVersion, Op: op, Err: err}
	}

	logger := tlog.Module("surface")
	logger.Debug("Initializing window")
	if err := glfw.Init(); err != nil {
		return fail("initialize glfw", err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fail("create window", err)
	}

	window.MakeContextCurrent()
	if *cfg.Vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	info, err := rendering.Init()
	if err != nil {
		glfw.DetachCurrentContext()
		window.Destroy()
		glfw.Terminate()
		return fail("load entry points", err)
	}

	s := &Surface{Window: window, GLInfo: info}

	fbWidth, fbHeight := window.GetFramebufferSize()
	rendering.Viewport(fbWidth, fbHeight)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		logger.Debug("framebuffer resized", "width", width, "height", height)
		rendering.Viewport(width, height)
	})

	logger.Info(fmt.Sprintf("window %s is %dx%d", cfg.Title, fbWidth, fbHeight))
	return s, nil
}

func (s *Surface) SwapBuffers() {
	s.Window.SwapBuffers()
}

func (s *Surface) PollEvents() {
	glfw.PollEvents()
}

func (s *Surface) ShouldClose() bool {
	return s.Window.ShouldClose()
}

// Teardown makes the context current one last time, releases it and
// destroys the window. It is safe to call more than once.
func (s *Surface) Teardown() {
	if s.torndown {
		return
	}
	s.torndown = true

	s.Window.MakeContextCurrent()
	glfw.DetachCurrentContext()
	s.Window.Destroy()
	glfw.Terminate()
	tlog.Module("surface").Debug("context released")
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
