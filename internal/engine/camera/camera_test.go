package camera

import (
	"testing"

	"github.com/Faultbox/terrain-mesh/pkg/math"
)

func near(a, b math.Vec3) bool {
	return a.Sub(b).Length() < 1e-3
}

func TestLookFromRoundTrip(t *testing.T) {
	c := NewOrbitCamera()
	eye := math.Vec3{X: 140, Y: 70, Z: 100}
	c.LookFrom(eye, math.Vec3{})

	if got := c.Position(); !near(got, eye) {
		t.Errorf("Position() = %v, want %v", got, eye)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", c.MaxPitch, c.Pitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("expected pitch clamped to %v, got %v", c.MinPitch, c.Pitch)
	}
}

func TestHandleZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 200; i++ {
		c.HandleZoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", c.MinDistance, c.Distance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds([3]float32{0, 0, 0}, [3]float32{300, 40, 400})

	want := math.Vec3{X: 150, Y: 20, Z: 200}
	if !near(c.Center, want) {
		t.Errorf("Center = %v, want %v", c.Center, want)
	}
	if c.Distance < 500 {
		t.Errorf("expected distance to cover the diagonal, got %v", c.Distance)
	}
}
