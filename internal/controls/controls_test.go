package controls

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrain-mesh/internal/config"
	"github.com/Faultbox/terrain-mesh/internal/engine/terrain"
	"github.com/Faultbox/terrain-mesh/internal/heightmap"
	"github.com/Faultbox/terrain-mesh/internal/pipeline"
)

type countingDisplay struct {
	calls int
	last  *terrain.Mesh
}

func (d *countingDisplay) DisplayTerrain(m *terrain.Mesh) {
	d.calls++
	d.last = m
}

func writeFlatPNG(t *testing.T) string {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetGray16(x, y, color.Gray16{Y: heightmap.MaxSample})
		}
	}
	path := filepath.Join(t.TempDir(), "flat.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newController(t *testing.T, height float32, auto bool) (*Controller, *countingDisplay) {
	t.Helper()
	p := pipeline.DefaultParams()
	p.ImagePath = writeFlatPNG(t)
	p.Load.MaxImageHeight = height
	d := &countingDisplay{}
	gen := pipeline.New(p, terrain.StyleShaded, pipeline.WithDisplay(d))
	return New(gen, auto), d
}

func topHeight(m *terrain.Mesh) float32 {
	return m.Positions[0][1]
}

func TestRaiseRegeneratesWhenAuto(t *testing.T) {
	c, d := newController(t, 20, true)

	mesh, err := c.Apply(ActionRaise)
	require.NoError(t, err)
	require.NotNil(t, mesh)
	assert.Equal(t, float32(25), topHeight(mesh))
	assert.Equal(t, 1, d.calls)

	mesh, err = c.Apply(ActionLower)
	require.NoError(t, err)
	assert.Equal(t, float32(20), topHeight(mesh))
	assert.Equal(t, 2, d.calls)
}

func TestRaiseWaitsForGenerateWhenManual(t *testing.T) {
	c, d := newController(t, 20, false)

	mesh, err := c.Apply(ActionRaise)
	require.NoError(t, err)
	assert.Nil(t, mesh)
	assert.Equal(t, 0, d.calls)
	assert.Equal(t, float32(25), c.Generator().Params().Load.MaxImageHeight)

	mesh, err = c.Apply(ActionGenerate)
	require.NoError(t, err)
	assert.Equal(t, float32(25), topHeight(mesh))
	assert.Equal(t, 1, d.calls)
}

func TestHeightIsClamped(t *testing.T) {
	c, d := newController(t, config.MaxImageHeightLimit-2, true)

	mesh, err := c.Apply(ActionRaise)
	require.NoError(t, err)
	assert.Equal(t, float32(config.MaxImageHeightLimit), topHeight(mesh))

	// Already at the limit: nothing changes, nothing is rebuilt.
	_, err = c.Apply(ActionRaise)
	require.NoError(t, err)
	assert.Equal(t, 1, d.calls)

	c2, _ := newController(t, 3, true)
	mesh, err = c2.Apply(ActionLower)
	require.NoError(t, err)
	assert.Equal(t, float32(0), topHeight(mesh))
}

func TestToggleStyleSwapsInstance(t *testing.T) {
	c, d := newController(t, 10, true)
	built, err := c.Apply(ActionGenerate)
	require.NoError(t, err)
	require.Equal(t, terrain.StyleShaded, built.Style)

	mesh, err := c.Apply(ActionToggleStyle)
	require.NoError(t, err)
	assert.Equal(t, terrain.StyleWireframe, mesh.Style)
	assert.Same(t, &built.Positions[0], &mesh.Positions[0])
	assert.Equal(t, 2, d.calls)
}

func TestToggleStyleBeforeBuild(t *testing.T) {
	c, d := newController(t, 10, true)

	mesh, err := c.Apply(ActionToggleStyle)
	require.NoError(t, err)
	assert.Nil(t, mesh)
	assert.Equal(t, 0, d.calls)
	assert.Equal(t, terrain.StyleWireframe, c.Generator().Style())

	mesh, err = c.Apply(ActionGenerate)
	require.NoError(t, err)
	assert.Equal(t, terrain.StyleWireframe, mesh.Style)
}

func TestToggleAuto(t *testing.T) {
	c, _ := newController(t, 10, true)
	_, err := c.Apply(ActionToggleAuto)
	require.NoError(t, err)
	assert.False(t, c.Auto())
}

func TestStatus(t *testing.T) {
	c, _ := newController(t, 10, false)
	assert.Contains(t, c.Status(), "height 10 | shaded | manual | 0 triangles")

	_, err := c.Apply(ActionGenerate)
	require.NoError(t, err)
	assert.Contains(t, c.Status(), "8 triangles")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "toggle-style", ActionToggleStyle.String())
	assert.Equal(t, "Action(42)", Action(42).String())
}
