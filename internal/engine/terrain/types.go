// Package terrain builds renderable triangle meshes from sampled heightmaps.
package terrain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidOptions reports load options outside their allowed range.
	ErrInvalidOptions = errors.New("terrain: invalid load options")
	// ErrInvariantViolation reports an internally inconsistent mesh build.
	ErrInvariantViolation = errors.New("terrain: invariant violation")
)

// LoadOptions scale a normalized heightmap into world units.
type LoadOptions struct {
	MaxImageHeight  float32 // world height of a full-scale sample
	PixelSideLength float32 // horizontal spacing between corners
}

// DefaultLoadOptions returns the options used when nothing is configured.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		MaxImageHeight:  20.0,
		PixelSideLength: 1.0,
	}
}

// Validate checks that both scales are finite, the height is non-negative
// and the spacing is positive. A zero height is valid and yields a flat plane.
func (o LoadOptions) Validate() error {
	if !finite(o.MaxImageHeight) || o.MaxImageHeight < 0 {
		return fmt.Errorf("%w: max image height %v", ErrInvalidOptions, o.MaxImageHeight)
	}
	if !finite(o.PixelSideLength) || o.PixelSideLength <= 0 {
		return fmt.Errorf("%w: pixel side length %v", ErrInvalidOptions, o.PixelSideLength)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Style selects how a terrain mesh is presented. It never changes geometry.
type Style int

const (
	StyleShaded Style = iota
	StyleWireframe
)

// DefaultStyle is the style shown when none is configured.
const DefaultStyle = StyleWireframe

// String returns the lowercase style name.
func (s Style) String() string {
	switch s {
	case StyleShaded:
		return "shaded"
	case StyleWireframe:
		return "wireframe"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Toggle returns the other style.
func (s Style) Toggle() Style {
	if s == StyleShaded {
		return StyleWireframe
	}
	return StyleShaded
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	return s == StyleShaded || s == StyleWireframe
}

// ParseStyle parses a style name, ignoring case.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shaded":
		return StyleShaded, nil
	case "wireframe":
		return StyleWireframe, nil
	}
	return 0, fmt.Errorf("terrain: unknown mesh style %q", name)
}

// Mesh holds terrain geometry ready for GPU upload.
// Positions, UVs and Normals are parallel arrays indexed by corner.
type Mesh struct {
	Positions [][3]float32
	UVs       [][2]float32
	Normals   [][3]float32
	Indices   []uint32 // triangle list
	Bounds    Bounds
	Style     Style

	CellsX int // raster width the mesh was built from
	CellsZ int // raster height the mesh was built from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// WithStyle returns a mesh with the same geometry presented in style s.
// The vertex and index arrays are shared, not copied.
func (m *Mesh) WithStyle(s Style) *Mesh {
	out := *m
	out.Style = s
	return &out
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// InterleavedStride is the number of floats per vertex returned by Interleave.
const InterleavedStride = 8

// Interleave packs position, normal and UV per vertex for a single vertex
// buffer. Missing normals are written as +Y.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Positions)*InterleavedStride)
	for i, p := range m.Positions {
		n := [3]float32{0, 1, 0}
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		var uv [2]float32
		if i < len(m.UVs) {
			uv = m.UVs[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
