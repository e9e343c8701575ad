package terrain

import (
	"fmt"

	"github.com/Faultbox/terrain-mesh/internal/heightmap"
)

// BuildFromRaster samples the raster corners, builds the mesh and derives
// smooth normals.
func BuildFromRaster(r *heightmap.Raster, opts LoadOptions) (*Mesh, error) {
	mesh, err := BuildMesh(r.CornerGrid(), opts)
	if err != nil {
		return nil, err
	}
	mesh.ComputeSmoothNormals()
	return mesh, nil
}

// BuildMesh lays out one vertex per grid corner and two triangles per cell.
// Normals are left empty; see ComputeSmoothNormals.
func BuildMesh(grid *heightmap.CornerGrid, opts LoadOptions) (*Mesh, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cellsX := grid.CellsX()
	cellsZ := grid.CellsZ()
	gw := grid.Columns()
	vertexCount := gw * grid.Rows()

	positions := make([][3]float32, vertexCount)
	uvs := make([][2]float32, vertexCount)

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	i := 0
	for cy := 0; cy < grid.Rows(); cy++ {
		for cx := 0; cx < gw; cx++ {
			p := [3]float32{
				float32(cx) * opts.PixelSideLength,
				grid.At(cx, cy) * opts.MaxImageHeight,
				float32(cy) * opts.PixelSideLength,
			}
			positions[i] = p
			uvs[i] = [2]float32{
				float32(cx) / float32(cellsX),
				float32(cy) / float32(cellsZ),
			}
			updateBounds(&bounds, p)
			i++
		}
	}

	indices := make([]uint32, 0, 6*cellsX*cellsZ)
	stride := uint32(gw)
	for cy := uint32(0); cy < uint32(cellsZ); cy++ {
		for cx := uint32(0); cx < uint32(cellsX); cx++ {
			a := cy*stride + cx
			b := a + 1
			c := a + stride
			d := c + 1

			// Every cell is split along the a-d diagonal.
			indices = append(indices,
				a, d, b,
				a, c, d,
			)
		}
	}

	if want := 2 * 3 * cellsX * cellsZ; len(indices) != want {
		return nil, fmt.Errorf("%w: %d indices for %dx%d cells, want %d",
			ErrInvariantViolation, len(indices), cellsX, cellsZ, want)
	}

	return &Mesh{
		Positions: positions,
		UVs:       uvs,
		Indices:   indices,
		Bounds:    bounds,
		Style:     DefaultStyle,
		CellsX:    cellsX,
		CellsZ:    cellsZ,
	}, nil
}

func updateBounds(b *Bounds, p [3]float32) {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] {
			b.Min[axis] = p[axis]
		}
		if p[axis] > b.Max[axis] {
			b.Max[axis] = p[axis]
		}
	}
}
