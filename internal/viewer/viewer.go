// Package viewer runs the interactive terrain viewer loop.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-mesh/internal/config"
	"github.com/Faultbox/terrain-mesh/internal/controls"
	"github.com/Faultbox/terrain-mesh/internal/engine/camera"
	"github.com/Faultbox/terrain-mesh/internal/engine/capture"
	"github.com/Faultbox/terrain-mesh/internal/engine/input"
	"github.com/Faultbox/terrain-mesh/internal/engine/renderer"
	"github.com/Faultbox/terrain-mesh/internal/engine/scene"
	"github.com/Faultbox/terrain-mesh/internal/engine/window"
	"github.com/Faultbox/terrain-mesh/internal/logger"
	"github.com/Faultbox/terrain-mesh/internal/pipeline"
	"github.com/Faultbox/terrain-mesh/pkg/math"
)

const title = "Terrain Mesh"

// Initial camera placement.
var (
	cameraEye    = math.Vec3{X: 140, Y: 70, Z: 100}
	cameraTarget = math.Vec3{}
)

var keyActions = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_UP:       controls.ActionRaise,
	sdl.SCANCODE_DOWN:     controls.ActionLower,
	sdl.SCANCODE_G:        controls.ActionGenerate,
	sdl.SCANCODE_RETURN:   controls.ActionGenerate,
	sdl.SCANCODE_KP_ENTER: controls.ActionGenerate,
	sdl.SCANCODE_TAB:      controls.ActionToggleStyle,
	sdl.SCANCODE_W:        controls.ActionToggleStyle,
	sdl.SCANCODE_A:        controls.ActionToggleAuto,
	sdl.SCANCODE_F:        controls.ActionFitCamera,
	sdl.SCANCODE_F12:      controls.ActionCapture,
	sdl.SCANCODE_ESCAPE:   controls.ActionQuit,
}

// Viewer is the interactive terrain viewer.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	terrain  *scene.TerrainRenderer
	input    *input.Input
	camera   *camera.OrbitCamera
	controls *controls.Controller
	capturer *capture.Capturer

	captureRequested bool
}

// New opens the window and prepares the GL state. Nothing is generated
// until Run.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("image", cfg.Terrain.ImagePath),
	)

	v := &Viewer{cfg: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, the GL context must exist
	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: cfg.Graphics.Background,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	material := scene.DefaultMaterial()
	material.Color = cfg.Graphics.BaseColor
	v.terrain, err = scene.NewTerrainRenderer(material)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create terrain renderer: %w", err)
	}

	v.input = input.New()
	v.capturer = capture.New(cfg.Graphics.CaptureDir, "terrain")
	v.camera = camera.NewOrbitCamera()
	v.camera.LookFrom(cameraEye, cameraTarget)

	gen := pipeline.New(cfg.Params(), cfg.Style(), pipeline.WithDisplay(v.terrain))
	v.controls = controls.New(gen, cfg.Terrain.AutoGenerate)

	logger.Info("viewer initialized")
	return v, nil
}

// Run generates the initial terrain and runs the loop until the window closes.
func (v *Viewer) Run() error {
	v.running = true

	if _, err := v.controls.Apply(controls.ActionGenerate); err != nil {
		// Keep the window open; the user can fix the file and regenerate.
		logger.Warn("initial terrain generation failed", zap.Error(err))
	}
	v.updateTitle()

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		v.handleInput(v.input.Poll())
		if !v.running {
			break
		}

		v.render()
		if v.captureRequested {
			v.captureRequested = false
			v.capture()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleInput(f *input.Frame) {
	if f.Quit {
		v.running = false
		return
	}
	if f.Resized {
		v.renderer.Resize(v.window.Size())
	}
	if f.DragX != 0 || f.DragY != 0 {
		v.camera.HandleDrag(f.DragX, f.DragY)
	}
	if f.Wheel != 0 {
		v.camera.HandleZoom(f.Wheel)
	}

	for _, key := range f.Keys {
		action, ok := keyActions[key]
		if !ok {
			continue
		}
		switch action {
		case controls.ActionQuit:
			v.running = false
			return
		case controls.ActionFitCamera:
			b := v.terrain.Bounds
			v.camera.FitToBounds(b.Min, b.Max)
		case controls.ActionCapture:
			v.captureRequested = true
		default:
			if _, err := v.controls.Apply(action); err != nil {
				logger.Warn("action failed", zap.Stringer("action", action), zap.Error(err))
			}
			v.updateTitle()
		}
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()

	proj := math.Perspective(float32(gomath.Pi/4), v.renderer.Aspect(), 0.1, 10000)
	v.terrain.Render(proj.Mul(v.camera.ViewMatrix()))
}

func (v *Viewer) capture() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.capturer.Save(pixels, w, h)
	if err != nil {
		logger.Warn("capture failed", zap.Error(err))
		return
	}
	logger.Info("frame captured", zap.String("path", path))
}

func (v *Viewer) updateTitle() {
	v.window.SetTitle(title + " - " + v.controls.Status())
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.terrain != nil {
		v.terrain.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
