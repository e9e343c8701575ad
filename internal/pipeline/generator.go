// Package pipeline regenerates terrain meshes on request and hands them to a
// display.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-mesh/internal/engine/terrain"
	"github.com/Faultbox/terrain-mesh/internal/heightmap"
	"github.com/Faultbox/terrain-mesh/internal/logger"
)

// DefaultImagePath is the heightmap read when none is configured.
const DefaultImagePath = "terrain.png"

// ErrNotBuilt is returned by a style-only regeneration before any full one succeeded.
var ErrNotBuilt = errors.New("pipeline: no terrain has been built yet")

// Params are the inputs of a full regeneration.
type Params struct {
	ImagePath      string
	Load           terrain.LoadOptions
	ErrorThreshold float32 // forwarded to the Simplifier, not interpreted here
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		ImagePath:      DefaultImagePath,
		Load:           terrain.DefaultLoadOptions(),
		ErrorThreshold: 0.05,
	}
}

// Trigger requests a regeneration. Recalculate selects a full rebuild;
// otherwise only the displayed style is swapped.
type Trigger struct {
	Recalculate bool
}

// Display receives the mesh to show, replacing whatever it showed before.
type Display interface {
	DisplayTerrain(mesh *terrain.Mesh)
}

// Simplifier reduces a full-resolution mesh, driven by an error threshold.
type Simplifier interface {
	Simplify(mesh *terrain.Mesh, errorThreshold float32) (*terrain.Mesh, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithDisplay publishes every regenerated mesh to d.
func WithDisplay(d Display) Option {
	return func(g *Generator) { g.display = d }
}

// WithSimplifier runs s on the geometry of every full regeneration.
func WithSimplifier(s Simplifier) Option {
	return func(g *Generator) { g.simplifier = s }
}

// withLoader replaces the raster loader in tests.
func withLoader(load func(string) (*heightmap.Raster, error)) Option {
	return func(g *Generator) { g.load = load }
}

// Generator owns the built mesh instances and the selected style.
// It is not safe for concurrent use; callers serialize triggers.
type Generator struct {
	params     Params
	style      terrain.Style
	display    Display
	simplifier Simplifier
	load       func(string) (*heightmap.Raster, error)

	// instances is indexed by terrain.Style.
	instances [2]*terrain.Mesh
	current   *terrain.Mesh
}

// New creates a generator. Nothing is built until the first Regenerate.
func New(params Params, style terrain.Style, opts ...Option) *Generator {
	if !style.Valid() {
		style = terrain.DefaultStyle
	}
	g := &Generator{
		params: params,
		style:  style,
		load:   heightmap.Load,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Params returns the current parameters.
func (g *Generator) Params() Params { return g.params }

// Style returns the selected style.
func (g *Generator) Style() terrain.Style { return g.style }

// Current returns the mesh last handed to the display, or nil.
func (g *Generator) Current() *terrain.Mesh { return g.current }

// SetParams stores new parameters and reports whether they require a full
// regeneration. It does not regenerate.
func (g *Generator) SetParams(p Params) bool {
	changed := p != g.params
	g.params = p
	return changed
}

// SetStyle selects a style. A style change alone never needs a rebuild.
func (g *Generator) SetStyle(s terrain.Style) error {
	if !s.Valid() {
		return fmt.Errorf("pipeline: invalid style %d", int(s))
	}
	g.style = s
	return nil
}

// Regenerate runs a full or style-only regeneration and returns the mesh now
// displayed. On failure the previous mesh stays displayed and is returned
// alongside the error.
func (g *Generator) Regenerate(t Trigger) (*terrain.Mesh, error) {
	if t.Recalculate {
		if err := g.rebuild(); err != nil {
			logger.Error("terrain regeneration failed",
				zap.String("image", g.params.ImagePath),
				zap.Error(err))
			return g.current, err
		}
	}

	mesh := g.instances[g.style]
	if mesh == nil {
		return nil, ErrNotBuilt
	}

	g.current = mesh
	if g.display != nil {
		g.display.DisplayTerrain(mesh)
	}
	logger.Debug("terrain displayed",
		zap.Stringer("style", g.style),
		zap.Bool("recalculated", t.Recalculate))
	return mesh, nil
}

// rebuild decodes the raster and replaces both instances. The instances are
// only swapped once every step succeeded.
func (g *Generator) rebuild() error {
	start := time.Now()

	if err := g.params.Load.Validate(); err != nil {
		return err
	}

	r, err := g.load(g.params.ImagePath)
	if err != nil {
		return err
	}

	mesh, err := terrain.BuildFromRaster(r, g.params.Load)
	if err != nil {
		return fmt.Errorf("building mesh from %s: %w", g.params.ImagePath, err)
	}

	if g.simplifier != nil {
		simplified, err := g.simplifier.Simplify(mesh, g.params.ErrorThreshold)
		if err != nil {
			return fmt.Errorf("simplifying mesh: %w", err)
		}
		mesh = simplified
	}

	g.instances[terrain.StyleShaded] = mesh.WithStyle(terrain.StyleShaded)
	g.instances[terrain.StyleWireframe] = mesh.WithStyle(terrain.StyleWireframe)

	logger.Info("terrain rebuilt",
		zap.String("image", g.params.ImagePath),
		zap.Int("width", r.Width()),
		zap.Int("height", r.Height()),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Float32("max_height", g.params.Load.MaxImageHeight),
		zap.Duration("took", time.Since(start)))
	return nil
}
