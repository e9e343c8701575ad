// Package camera provides an orbit camera for inspecting terrain.
package camera

import (
	gomath "math"

	"github.com/Faultbox/terrain-mesh/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates around Center
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y, zero looks down -Z

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with default limits.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		Pitch:           0.5,
		MinDistance:     1.0,
		MaxDistance:     5000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	offset := math.Vec3{
		X: float32(cp * gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: float32(cp * gomath.Cos(float64(c.Yaw))),
	}
	return c.Center.Add(offset.Scale(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// LookFrom places the camera at eye, orbiting center.
func (c *OrbitCamera) LookFrom(eye, center math.Vec3) {
	d := eye.Sub(center)
	c.Center = center
	c.Distance = clampf(d.Length(), c.MinDistance, c.MaxDistance)
	if d.Length() == 0 {
		return
	}
	c.Pitch = clampf(float32(gomath.Asin(float64(d.Y/d.Length()))), c.MinPitch, c.MaxPitch)
	c.Yaw = float32(gomath.Atan2(float64(d.X), float64(d.Z)))
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = clampf(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clampf(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see all of it.
func (c *OrbitCamera) FitToBounds(lo, hi [3]float32) {
	c.Center = math.Vec3{
		X: (lo[0] + hi[0]) / 2,
		Y: (lo[1] + hi[1]) / 2,
		Z: (lo[2] + hi[2]) / 2,
	}
	size := math.FromArray(hi).Sub(math.FromArray(lo)).Length()
	c.Distance = clampf(size, c.MinDistance, c.MaxDistance)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
