package terrain

import (
	"github.com/Faultbox/terrain-mesh/pkg/math"
)

// ComputeSmoothNormals fills m.Normals from the triangle list.
func (m *Mesh) ComputeSmoothNormals() {
	m.Normals = ComputeSmoothNormals(m.Positions, m.Indices)
}

// ComputeSmoothNormals returns one unit normal per position.
// Each triangle adds its unnormalized face normal (twice its area) to its three
// vertices, and the sums are normalized at the end, so larger faces weigh more.
// A vertex with a zero sum gets +Y.
func ComputeSmoothNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	sums := make([]math.Vec3, len(positions))

	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		a := math.FromArray(positions[ia])
		b := math.FromArray(positions[ib])
		c := math.FromArray(positions[ic])

		face := b.Sub(a).Cross(c.Sub(a))
		sums[ia] = sums[ia].Add(face)
		sums[ib] = sums[ib].Add(face)
		sums[ic] = sums[ic].Add(face)
	}

	normals := make([][3]float32, len(positions))
	up := math.Vec3{Y: 1}
	for i, s := range sums {
		n := s.Normalize()
		if n == (math.Vec3{}) {
			n = up
		}
		normals[i] = n.Array()
	}
	return normals
}
