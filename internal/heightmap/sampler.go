package heightmap

// CornerHeight returns the normalized height of corner (cx, cy).
// Corners sit between cells, so the value is the mean of the up to four cells
// touching the corner. Valid corners are in [0, Width()] x [0, Height()].
func (r *Raster) CornerHeight(cx, cy int) float32 {
	var sum float32
	cnt := 0

	for _, dy := range [2]int{-1, 0} {
		for _, dx := range [2]int{-1, 0} {
			sx, sy := cx+dx, cy+dy
			if !r.inBounds(sx, sy) {
				continue
			}
			sum += float32(r.At(sx, sy)) / MaxSample
			cnt++
		}
	}

	if cnt == 0 {
		return 0
	}
	return sum / float32(cnt)
}

// CornerGrid holds sampled heights for every cell corner of a raster.
type CornerGrid struct {
	cellsX  int
	cellsZ  int
	heights []float32 // row-major, (cellsX+1) per row
}

// CornerGrid samples every corner of the raster.
func (r *Raster) CornerGrid() *CornerGrid {
	g := &CornerGrid{
		cellsX:  r.width,
		cellsZ:  r.height,
		heights: make([]float32, (r.width+1)*(r.height+1)),
	}

	i := 0
	for cy := 0; cy <= r.height; cy++ {
		for cx := 0; cx <= r.width; cx++ {
			g.heights[i] = r.CornerHeight(cx, cy)
			i++
		}
	}
	return g
}

// CellsX returns the raster width the grid was sampled from.
func (g *CornerGrid) CellsX() int { return g.cellsX }

// CellsZ returns the raster height the grid was sampled from.
func (g *CornerGrid) CellsZ() int { return g.cellsZ }

// Columns returns the number of corners per row.
func (g *CornerGrid) Columns() int { return g.cellsX + 1 }

// Rows returns the number of corner rows.
func (g *CornerGrid) Rows() int { return g.cellsZ + 1 }

// At returns the normalized height of corner (cx, cy).
func (g *CornerGrid) At(cx, cy int) float32 {
	return g.heights[cy*g.Columns()+cx]
}
