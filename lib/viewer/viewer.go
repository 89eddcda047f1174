// Package viewer runs the renderer: it acquires the context and GPU
// resources in order, draws once per refresh and releases everything on
// the way out.
package viewer

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/fosdem/trianglix/lib/api"
	"github.com/fosdem/trianglix/lib/assets"
	"github.com/fosdem/trianglix/lib/config"
	tlog "github.com/fosdem/trianglix/lib/log"
	"github.com/fosdem/trianglix/lib/metrics"
	"github.com/fosdem/trianglix/lib/rendering"
	"github.com/fosdem/trianglix/lib/stats"
	"github.com/fosdem/trianglix/lib/surface"
	"github.com/fosdem/trianglix/lib/utils"
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// InitializationError means the renderer could not be set up and no frame
// was drawn.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("could not initialise %s: %s", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// Surface is the part of surface.Surface the frame loop needs.
type Surface interface {
	SwapBuffers()
	PollEvents()
	ShouldClose() bool
	Teardown()
}

// openSurface creates the context; tests replace it.
var openSurface = func(cfg *config.WindowCfg) (Surface, rendering.Device, rendering.GLInfo, error) {
	s, err := surface.Initialize(cfg)
	if err != nil {
		return nil, nil, rendering.GLInfo{}, err
	}
	return s, rendering.NewGLESDevice(), s.GLInfo, nil
}

// Scene is the GPU state drawn every frame.
type Scene struct {
	Effect   *rendering.BaseEffect
	Texture  *rendering.Texture
	Buffer   *rendering.VertexAttribArrayBuffer
	Renderer *rendering.Renderer
}

// NewScene builds the effect, uploads the triangle and the texture.
// Whatever was created before a failure is released again.
func NewScene(dev rendering.Device, cfg *config.SceneCfg, img image.Image) (scene *Scene, err error) {
	clearColour, err := utils.ColourParse(cfg.ClearColour)
	if err != nil {
		return nil, err
	}
	constantColour, err := utils.ColourParse(cfg.ConstantColour)
	if err != nil {
		return nil, err
	}

	s := &Scene{}
	defer func() {
		if err != nil {
			s.Release()
		}
	}()

	s.Effect, err = rendering.NewBaseEffect(dev, *cfg.UseConstantColour, constantColour)
	if err != nil {
		return nil, fmt.Errorf("could not build base effect: %w", err)
	}

	s.Buffer, err = rendering.NewVertexAttribArrayBuffer(dev, rendering.VertexStride, rendering.TriangleVertices[:], gl.STATIC_DRAW)
	if err != nil {
		return nil, err
	}

	s.Texture, err = rendering.NewTexture(dev, img)
	if err != nil {
		return nil, fmt.Errorf("could not upload texture %s: %w", cfg.Texture, err)
	}
	s.Effect.Texture2D0 = s.Texture

	s.Renderer = rendering.NewRenderer(dev, s.Effect, s.Buffer, clearColour)
	return s, nil
}

// Release frees the scene's GPU resources in reverse order of creation.
func (s *Scene) Release() {
	if s.Texture != nil {
		s.Texture.Release()
	}
	if s.Buffer != nil {
		s.Buffer.Release()
	}
	if s.Effect != nil {
		s.Effect.Release()
	}
}

// Run sets everything up and renders until the window is closed, ctx is
// cancelled or the api asks for shutdown. It must be called on the main,
// locked OS thread.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := tlog.Module("viewer")

	// the texture is resolved before any context exists so that a missing
	// asset never gets as far as a frame
	img, err := assets.Load(cfg.Scene, cfg.Scene.Texture)
	if err != nil {
		return &InitializationError{Stage: "texture", Err: err}
	}

	surf, dev, info, err := openSurface(cfg.Window)
	if err != nil {
		return &InitializationError{Stage: "context", Err: err}
	}
	defer surf.Teardown()

	scene, err := NewScene(dev, cfg.Scene, img)
	if err != nil {
		return &InitializationError{Stage: "scene", Err: err}
	}
	defer scene.Release()

	st := stats.New()
	st.SetGLInfo(info.Vendor, info.Version)

	var shutdown atomic.Bool
	theApi := api.ServeInBackground(cfg.Api, st, func() { shutdown.Store(true) })
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := theApi.Shutdown(shutdownCtx); err != nil {
			logger.Warn("could not stop web server", "err", err)
		}
	}()

	logger.Info("rendering", "texture", cfg.Scene.Texture)
	return loop(ctx, surf, scene.Renderer, st, &shutdown)
}

func loop(ctx context.Context, surf Surface, r *rendering.Renderer, st *stats.Stats, shutdown *atomic.Bool) error {
	r.Start()

	var deltaTimer utils.DeltaTimer
	for !surf.ShouldClose() && !shutdown.Load() {
		if ctx.Err() != nil {
			tlog.Module("viewer").Info("interrupted, shutting down")
			return nil
		}

		dt := deltaTimer.Next()
		err := r.RenderFrame()
		if err != nil {
			return fmt.Errorf("could not render frame: %w", err)
		}
		// blocks until the next vertical blank when vsync is on
		surf.SwapBuffers()

		if dt > 0 {
			metrics.FrameInterval.Observe(dt.Seconds())
		}
		st.Update()
		surf.PollEvents()
	}
	return nil
}
