package viewer

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/fosdem/trianglix/lib/assets"
	"github.com/fosdem/trianglix/lib/config"
	"github.com/fosdem/trianglix/lib/rendering"
	"github.com/fosdem/trianglix/lib/rendering/renderingtest"
	"github.com/fosdem/trianglix/lib/stats"
	"github.com/fosdem/trianglix/lib/surface"
	gl "github.com/go-gl/gl/v3.1/gles2"
)

// fakeSurface closes after a fixed number of swaps and logs its calls
// into the same recorder as the device.
type fakeSurface struct {
	rec       *renderingtest.Recorder
	closeAt   int
	swaps     int
	teardowns int
}

func (s *fakeSurface) SwapBuffers() {
	s.swaps++
	s.rec.Calls = append(s.rec.Calls, renderingtest.Call{Name: "SwapBuffers"})
}

func (s *fakeSurface) PollEvents() {}

func (s *fakeSurface) ShouldClose() bool {
	return s.swaps >= s.closeAt
}

func (s *fakeSurface) Teardown() {
	s.teardowns++
	s.rec.Calls = append(s.rec.Calls, renderingtest.Call{Name: "Teardown"})
}

func useFakeSurface(t *testing.T, closeAt int) (*fakeSurface, *renderingtest.Recorder, *int) {
	t.Helper()
	rec := renderingtest.NewRecorder()
	surf := &fakeSurface{rec: rec, closeAt: closeAt}
	opened := 0

	orig := openSurface
	openSurface = func(cfg *config.WindowCfg) (Surface, rendering.Device, rendering.GLInfo, error) {
		opened++
		return surf, rec, rendering.GLInfo{Vendor: "fake", Version: "OpenGL ES 2.0 fake"}, nil
	}
	t.Cleanup(func() { openSurface = orig })
	return surf, rec, &opened
}

func TestRunDrawsEveryFrame(t *testing.T) {
	surf, rec, opened := useFakeSurface(t, 4)

	err := Run(context.Background(), config.Default())
	if err != nil {
		t.Fatal(err)
	}

	if *opened != 1 {
		t.Errorf("surface opened %d times", *opened)
	}
	if surf.swaps != 4 {
		t.Errorf("%d frames presented, want 4", surf.swaps)
	}
	if n := rec.Count("BufferData"); n != 1 {
		t.Errorf("vertex data uploaded %d times, want once", n)
	}

	draws := rec.Find("DrawArrays")
	if len(draws) != 4 {
		t.Fatalf("%d draw calls for 4 frames", len(draws))
	}
	for _, d := range draws {
		if d.Args[0] != uint32(gl.TRIANGLES) || d.Args[1] != int32(0) || d.Args[2] != int32(3) {
			t.Errorf("unexpected draw %v", d)
		}
	}

	// each frame draws once, then presents
	pos := 0
	for frame := range 4 {
		clr := rec.Index("Clear", pos)
		draw := rec.Index("DrawArrays", pos)
		swap := rec.Index("SwapBuffers", pos)
		if !(clr < draw && draw < swap) {
			t.Fatalf("frame %d out of order: %v", frame, rec.Names())
		}
		pos = swap + 1
	}
}

func TestRunReleasesBeforeTeardown(t *testing.T) {
	surf, rec, _ := useFakeSurface(t, 1)

	if err := Run(context.Background(), config.Default()); err != nil {
		t.Fatal(err)
	}

	if surf.teardowns != 1 {
		t.Fatalf("teardown called %d times", surf.teardowns)
	}
	teardown := rec.Index("Teardown", 0)
	for _, name := range []string{"DeleteTexture", "DeleteBuffer", "DeleteProgram"} {
		i := rec.Index(name, 0)
		if i < 0 {
			t.Errorf("%s never called", name)
			continue
		}
		if i > teardown {
			t.Errorf("%s called after the context was torn down", name)
		}
		if rec.Count(name) != 1 {
			t.Errorf("%s called %d times", name, rec.Count(name))
		}
	}
}

func TestRunMissingTexture(t *testing.T) {
	surf, rec, opened := useFakeSurface(t, 1)
	cfg := config.Default()
	cfg.Scene.Texture = "stone"
	cfg.Scene.AssetDir = config.CfgPath(t.TempDir())

	err := Run(context.Background(), cfg)

	var ie *InitializationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected an InitializationError, got %v", err)
	}
	if ie.Stage != "texture" {
		t.Errorf("stage = %q", ie.Stage)
	}
	if !errors.Is(err, assets.ErrAssetNotFound) {
		t.Errorf("error does not wrap ErrAssetNotFound: %s", err)
	}
	if *opened != 0 || len(rec.Calls) != 0 || surf.swaps != 0 {
		t.Errorf("work was done before failing: opened=%d calls=%v", *opened, rec.Names())
	}
}

func TestRunContextFailure(t *testing.T) {
	cause := &surface.ContextCreationError{APIVersion: "2.0", Op: "create window", Err: errors.New("no display")}
	orig := openSurface
	openSurface = func(cfg *config.WindowCfg) (Surface, rendering.Device, rendering.GLInfo, error) {
		return nil, nil, rendering.GLInfo{}, cause
	}
	t.Cleanup(func() { openSurface = orig })

	err := Run(context.Background(), config.Default())

	var ie *InitializationError
	if !errors.As(err, &ie) || ie.Stage != "context" {
		t.Fatalf("expected a context InitializationError, got %v", err)
	}
	var cce *surface.ContextCreationError
	if !errors.As(err, &cce) {
		t.Errorf("ContextCreationError lost: %v", err)
	}
}

func TestRunShaderFailure(t *testing.T) {
	surf, rec, _ := useFakeSurface(t, 1)
	rec.BuildError = errors.New("link failed")

	err := Run(context.Background(), config.Default())

	var ie *InitializationError
	if !errors.As(err, &ie) || ie.Stage != "scene" {
		t.Fatalf("expected a scene InitializationError, got %v", err)
	}
	if rec.Count("DrawArrays") != 0 || surf.swaps != 0 {
		t.Error("frames rendered after a failed setup")
	}
	if surf.teardowns != 1 {
		t.Errorf("teardown called %d times", surf.teardowns)
	}
}

func TestNewSceneReleasesOnFailure(t *testing.T) {
	rec := renderingtest.NewRecorder()
	cfg := config.Default().Scene

	// an empty image makes the texture, the last step, fail
	_, err := NewScene(rec, cfg, image.NewNRGBA(image.Rectangle{}))
	if err == nil {
		t.Fatal("expected an error")
	}
	if rec.Count("DeleteBuffer") != 1 || rec.Count("DeleteProgram") != 1 {
		t.Errorf("partial scene not released: %v", rec.Names())
	}
}

func TestLoopStops(t *testing.T) {
	rec := renderingtest.NewRecorder()
	scene, err := NewScene(rec, config.Default().Scene, image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	surf := &fakeSurface{rec: rec, closeAt: 1000}

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var shutdown atomic.Bool
		if err := loop(ctx, surf, scene.Renderer, stats.New(), &shutdown); err != nil {
			t.Fatal(err)
		}
		if surf.swaps != 0 {
			t.Errorf("%d frames rendered after cancellation", surf.swaps)
		}
	})

	t.Run("shutdown", func(t *testing.T) {
		var shutdown atomic.Bool
		st := stats.New()
		rec.OnCall = func(c renderingtest.Call) {
			if c.Name == "DrawArrays" && rec.Count("DrawArrays") == 2 {
				shutdown.Store(true)
			}
		}
		defer func() { rec.OnCall = nil }()

		if err := loop(context.Background(), surf, scene.Renderer, st, &shutdown); err != nil {
			t.Fatal(err)
		}
		if frames := st.Snapshot().Frames; frames != 2 {
			t.Errorf("%d frames rendered, want 2", frames)
		}
	})
}

func TestInitializationError(t *testing.T) {
	err := &InitializationError{Stage: "texture", Err: assets.ErrAssetNotFound}
	if err.Error() != "could not initialise texture: asset not found" {
		t.Errorf("message = %q", err.Error())
	}
}
