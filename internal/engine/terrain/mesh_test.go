package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrain-mesh/internal/heightmap"
)

func raster(t *testing.T, w, h int, samples []uint16) *heightmap.Raster {
	t.Helper()
	r, err := heightmap.NewRaster(w, h, samples)
	require.NoError(t, err)
	return r
}

// rampRaster returns a w x h raster with distinct, uneven samples.
func rampRaster(t *testing.T, w, h int) *heightmap.Raster {
	t.Helper()
	samples := make([]uint16, w*h)
	for i := range samples {
		samples[i] = uint16((i*7919 + (i%3)*1237) % heightmap.MaxSample)
	}
	return raster(t, w, h, samples)
}

func TestBuildMeshCounts(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {2, 2}, {3, 1}, {1, 4}, {5, 3}, {16, 9}}

	for _, sz := range sizes {
		r := rampRaster(t, sz.w, sz.h)
		mesh, err := BuildFromRaster(r, DefaultLoadOptions())
		require.NoError(t, err)

		corners := (sz.w + 1) * (sz.h + 1)
		assert.Len(t, mesh.Indices, 6*sz.w*sz.h, "%dx%d indices", sz.w, sz.h)
		assert.Len(t, mesh.Positions, corners)
		assert.Len(t, mesh.UVs, corners)
		assert.Len(t, mesh.Normals, corners)
		assert.Equal(t, 2*sz.w*sz.h, mesh.TriangleCount())
		assert.Equal(t, corners, mesh.VertexCount())

		for _, idx := range mesh.Indices {
			assert.Less(t, int(idx), corners)
		}
	}
}

func TestBuildMeshAllMaxSamples(t *testing.T) {
	r := raster(t, 2, 2, []uint16{65535, 65535, 65535, 65535})
	mesh, err := BuildFromRaster(r, LoadOptions{MaxImageHeight: 10, PixelSideLength: 1})
	require.NoError(t, err)

	require.Len(t, mesh.Positions, 9)
	require.Len(t, mesh.Indices, 24)
	assert.Equal(t, 8, mesh.TriangleCount())

	for i, p := range mesh.Positions {
		assert.Equal(t, float32(10), p[1], "vertex %d height", i)
	}
	assert.Equal(t, [3]float32{0, 10, 0}, mesh.Positions[0])
	assert.Equal(t, [3]float32{2, 10, 2}, mesh.Positions[2*3+2])

	// A flat surface has straight-up normals everywhere.
	for i, n := range mesh.Normals {
		assert.InDelta(t, 0, n[0], 1e-6, "normal %d", i)
		assert.InDelta(t, 1, n[1], 1e-6, "normal %d", i)
		assert.InDelta(t, 0, n[2], 1e-6, "normal %d", i)
	}
}

func TestBuildMeshTriangleOrder(t *testing.T) {
	r := raster(t, 2, 1, []uint16{0, 0})
	mesh, err := BuildFromRaster(r, DefaultLoadOptions())
	require.NoError(t, err)

	// gw = 3; cell (0,0): a=0 b=1 c=3 d=4, cell (0,1): a=1 b=2 c=4 d=5.
	want := []uint32{
		0, 4, 1, 0, 3, 4,
		1, 5, 2, 1, 4, 5,
	}
	assert.Equal(t, want, mesh.Indices)
}

func TestBuildMeshPositionsAndUVs(t *testing.T) {
	r := raster(t, 2, 1, []uint16{65535, 0})
	opts := LoadOptions{MaxImageHeight: 4, PixelSideLength: 2.5}
	mesh, err := BuildFromRaster(r, opts)
	require.NoError(t, err)

	gw := 3
	for cy := 0; cy <= 1; cy++ {
		for cx := 0; cx <= 2; cx++ {
			i := cy*gw + cx
			assert.Equal(t, float32(cx)*2.5, mesh.Positions[i][0])
			assert.Equal(t, float32(cy)*2.5, mesh.Positions[i][2])
			assert.Equal(t, r.CornerHeight(cx, cy)*4, mesh.Positions[i][1])
			assert.Equal(t, [2]float32{float32(cx) / 2, float32(cy)}, mesh.UVs[i])
		}
	}

	assert.Equal(t, [3]float32{0, 0, 0}, mesh.Bounds.Min)
	assert.Equal(t, [3]float32{5, 4, 2.5}, mesh.Bounds.Max)
}

func TestBuildMeshHeightScaling(t *testing.T) {
	r := rampRaster(t, 4, 3)
	base, err := BuildFromRaster(r, LoadOptions{MaxImageHeight: 5, PixelSideLength: 1})
	require.NoError(t, err)
	scaled, err := BuildFromRaster(r, LoadOptions{MaxImageHeight: 15, PixelSideLength: 1})
	require.NoError(t, err)

	for i := range base.Positions {
		assert.InDelta(t, base.Positions[i][1]*3, scaled.Positions[i][1], 1e-4)
		assert.Equal(t, base.Positions[i][0], scaled.Positions[i][0])
		assert.Equal(t, base.Positions[i][2], scaled.Positions[i][2])
	}
	assert.Equal(t, base.UVs, scaled.UVs)
	assert.Equal(t, base.Indices, scaled.Indices)
}

func TestBuildMeshSpacingScaling(t *testing.T) {
	r := rampRaster(t, 3, 3)
	base, err := BuildFromRaster(r, LoadOptions{MaxImageHeight: 8, PixelSideLength: 1})
	require.NoError(t, err)
	scaled, err := BuildFromRaster(r, LoadOptions{MaxImageHeight: 8, PixelSideLength: 4})
	require.NoError(t, err)

	for i := range base.Positions {
		assert.Equal(t, base.Positions[i][0]*4, scaled.Positions[i][0])
		assert.Equal(t, base.Positions[i][2]*4, scaled.Positions[i][2])
		assert.Equal(t, base.Positions[i][1], scaled.Positions[i][1])
	}
}

func TestBuildMeshZeroHeightIsFlat(t *testing.T) {
	mesh, err := BuildFromRaster(rampRaster(t, 3, 2), LoadOptions{MaxImageHeight: 0, PixelSideLength: 1})
	require.NoError(t, err)
	for _, p := range mesh.Positions {
		assert.Equal(t, float32(0), p[1])
	}
}

func TestBuildMeshRejectsInvalidOptions(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name string
		opts LoadOptions
	}{
		{"negative height", LoadOptions{MaxImageHeight: -1, PixelSideLength: 1}},
		{"nan height", LoadOptions{MaxImageHeight: nan, PixelSideLength: 1}},
		{"zero spacing", LoadOptions{MaxImageHeight: 1, PixelSideLength: 0}},
		{"infinite spacing", LoadOptions{MaxImageHeight: 1, PixelSideLength: inf}},
	}
	grid := rampRaster(t, 2, 2).CornerGrid()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := BuildMesh(grid, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
			assert.Nil(t, mesh)
		})
	}
}

func TestSmoothNormalsUnitLength(t *testing.T) {
	mesh, err := BuildFromRaster(rampRaster(t, 7, 5), LoadOptions{MaxImageHeight: 100, PixelSideLength: 0.5})
	require.NoError(t, err)

	for i, n := range mesh.Normals {
		l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		assert.InDelta(t, 1.0, l, 1e-4, "normal %d", i)
		assert.Greater(t, n[1], float32(0), "normal %d should face up", i)
	}
}

func TestSmoothNormalsAreaWeighted(t *testing.T) {
	// Two triangles share vertex 0: a large horizontal one and a small tilted one.
	positions := [][3]float32{
		{0, 0, 0},
		{0, 0, 4}, {4, 0, 0},
		{0, 1, 0}, {1, 0, 0},
	}
	indices := []uint32{
		0, 1, 2, // normal (0, 16, 0)
		0, 3, 4, // normal (0, 0, -1)
	}

	normals := ComputeSmoothNormals(positions, indices)

	// Sum then normalize: (0, 16, -1) / |.|, not the mean of unit normals.
	l := float32(math.Sqrt(16*16 + 1))
	assert.InDelta(t, 0, normals[0][0], 1e-6)
	assert.InDelta(t, 16/l, normals[0][1], 1e-6)
	assert.InDelta(t, -1/l, normals[0][2], 1e-6)
}

func TestSmoothNormalsUnreferencedVertex(t *testing.T) {
	normals := ComputeSmoothNormals([][3]float32{{0, 0, 0}, {1, 1, 1}}, nil)
	assert.Equal(t, [][3]float32{{0, 1, 0}, {0, 1, 0}}, normals)
}

func TestWithStyleSharesGeometry(t *testing.T) {
	mesh, err := BuildFromRaster(rampRaster(t, 2, 2), DefaultLoadOptions())
	require.NoError(t, err)

	shaded := mesh.WithStyle(StyleShaded)
	wire := mesh.WithStyle(StyleWireframe)

	assert.Equal(t, StyleShaded, shaded.Style)
	assert.Equal(t, StyleWireframe, wire.Style)
	assert.Equal(t, shaded.Positions, wire.Positions)
	assert.Equal(t, shaded.UVs, wire.UVs)
	assert.Equal(t, shaded.Indices, wire.Indices)
	assert.Equal(t, shaded.Normals, wire.Normals)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"shaded", StyleShaded, false},
		{"Wireframe", StyleWireframe, false},
		{" SHADED ", StyleShaded, false},
		{"points", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseStyle(got.String())))
		})
	}
}

func TestStyleToggle(t *testing.T) {
	assert.Equal(t, StyleWireframe, StyleShaded.Toggle())
	assert.Equal(t, StyleShaded, StyleWireframe.Toggle())
	assert.False(t, Style(7).Valid())
	assert.Equal(t, "Style(7)", Style(7).String())
}

func must(s Style, err error) Style {
	if err != nil {
		panic(err)
	}
	return s
}

func TestInterleave(t *testing.T) {
	mesh, err := BuildFromRaster(raster(t, 1, 1, []uint16{65535}), LoadOptions{MaxImageHeight: 2, PixelSideLength: 3})
	require.NoError(t, err)

	v := mesh.Interleave()
	require.Len(t, v, 4*InterleavedStride)

	// Last corner (1,1): position (3, 2, 3), flat normal, uv (1, 1).
	last := v[3*InterleavedStride:]
	assert.Equal(t, []float32{3, 2, 3}, last[0:3])
	assert.InDeltaSlice(t, []float32{0, 1, 0}, last[3:6], 1e-6)
	assert.Equal(t, []float32{1, 1}, last[6:8])
}
