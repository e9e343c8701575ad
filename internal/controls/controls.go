// Package controls maps viewer actions onto terrain regeneration.
package controls

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-mesh/internal/config"
	"github.com/Faultbox/terrain-mesh/internal/engine/terrain"
	"github.com/Faultbox/terrain-mesh/internal/logger"
	"github.com/Faultbox/terrain-mesh/internal/pipeline"
)

// HeightStep is how far one raise or lower action moves the max image height.
const HeightStep = 5.0

// Action is a user request coming from the viewer.
type Action int

const (
	ActionNone Action = iota
	ActionRaise
	ActionLower
	ActionGenerate
	ActionToggleStyle
	ActionToggleAuto
	ActionFitCamera
	ActionCapture
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRaise:
		return "raise"
	case ActionLower:
		return "lower"
	case ActionGenerate:
		return "generate"
	case ActionToggleStyle:
		return "toggle-style"
	case ActionToggleAuto:
		return "toggle-auto"
	case ActionFitCamera:
		return "fit-camera"
	case ActionCapture:
		return "capture"
	case ActionQuit:
		return "quit"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Controller applies actions to a generator. Camera, capture and quit
// actions are left to the caller.
type Controller struct {
	gen  *pipeline.Generator
	auto bool
	log  *zap.Logger
}

// New creates a controller. With auto set, every parameter change triggers
// a full regeneration.
func New(gen *pipeline.Generator, auto bool) *Controller {
	return &Controller{gen: gen, auto: auto, log: logger.Named("controls")}
}

// Auto reports whether parameter changes regenerate immediately.
func (c *Controller) Auto() bool { return c.auto }

// Generator returns the controlled generator.
func (c *Controller) Generator() *pipeline.Generator { return c.gen }

// Apply performs a. It returns the mesh displayed afterwards, which is the
// previous one when nothing was regenerated or the regeneration failed.
func (c *Controller) Apply(a Action) (*terrain.Mesh, error) {
	switch a {
	case ActionRaise:
		return c.adjustHeight(HeightStep)
	case ActionLower:
		return c.adjustHeight(-HeightStep)
	case ActionGenerate:
		return c.gen.Regenerate(pipeline.Trigger{Recalculate: true})
	case ActionToggleStyle:
		if err := c.gen.SetStyle(c.gen.Style().Toggle()); err != nil {
			return c.gen.Current(), err
		}
		mesh, err := c.gen.Regenerate(pipeline.Trigger{})
		if errors.Is(err, pipeline.ErrNotBuilt) {
			// The style sticks and applies to the next full build.
			return nil, nil
		}
		return mesh, err
	case ActionToggleAuto:
		c.auto = !c.auto
		c.log.Info("auto generate", zap.Bool("enabled", c.auto))
	}
	return c.gen.Current(), nil
}

// adjustHeight moves the max image height by delta within
// [0, config.MaxImageHeightLimit].
func (c *Controller) adjustHeight(delta float32) (*terrain.Mesh, error) {
	p := c.gen.Params()
	p.Load.MaxImageHeight = clamp(p.Load.MaxImageHeight+delta, 0, config.MaxImageHeightLimit)
	if !c.gen.SetParams(p) {
		return c.gen.Current(), nil
	}
	c.log.Debug("max image height changed", zap.Float32("max_height", p.Load.MaxImageHeight))
	if !c.auto {
		return c.gen.Current(), nil
	}
	return c.gen.Regenerate(pipeline.Trigger{Recalculate: true})
}

// Status summarizes the parameters and displayed mesh in one line.
func (c *Controller) Status() string {
	p := c.gen.Params()
	auto := "manual"
	if c.auto {
		auto = "auto"
	}
	tris := 0
	if m := c.gen.Current(); m != nil {
		tris = m.TriangleCount()
	}
	return fmt.Sprintf("%s | height %g | %s | %s | %d triangles",
		p.ImagePath, p.Load.MaxImageHeight, c.gen.Style(), auto, tris)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
