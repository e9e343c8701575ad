// Package scene renders terrain meshes with OpenGL.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-mesh/internal/engine/scene/shaders"
	"github.com/Faultbox/terrain-mesh/internal/engine/shader"
	"github.com/Faultbox/terrain-mesh/internal/engine/terrain"
	"github.com/Faultbox/terrain-mesh/internal/logger"
	"github.com/Faultbox/terrain-mesh/pkg/math"
)

// Material is the uniform surface description bound to the terrain.
type Material struct {
	Color    [3]float32
	Ambient  [3]float32
	LightDir [3]float32
}

// DefaultMaterial is plain white lit from above at an angle.
func DefaultMaterial() Material {
	return Material{
		Color:    [3]float32{1, 1, 1},
		Ambient:  [3]float32{0.25, 0.25, 0.25},
		LightDir: [3]float32{-0.4, -1.0, -0.3},
	}
}

// TerrainRenderer uploads terrain meshes and draws whichever one was
// displayed last.
type TerrainRenderer struct {
	program  *shader.Program
	material Material
	log      *zap.Logger

	locViewProj  int32
	locColor     int32
	locAmbient   int32
	locLightDir  int32
	locWireframe int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	style      terrain.Style
	uploaded   *terrain.Mesh

	// Bounds of the displayed mesh
	Bounds terrain.Bounds
}

// NewTerrainRenderer compiles the terrain shader. A GL context must be current.
func NewTerrainRenderer(material Material) (*TerrainRenderer, error) {
	program, err := shader.Compile(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}

	return &TerrainRenderer{
		program:      program,
		material:     material,
		log:          logger.Named("scene"),
		locViewProj:  program.Uniform("uViewProj"),
		locColor:     program.Uniform("uColor"),
		locAmbient:   program.Uniform("uAmbient"),
		locLightDir:  program.Uniform("uLightDir"),
		locWireframe: program.Uniform("uWireframe"),
	}, nil
}

// DisplayTerrain replaces the displayed mesh. Meshes that only differ in
// style share GPU buffers, so a style swap does not re-upload.
func (tr *TerrainRenderer) DisplayTerrain(mesh *terrain.Mesh) {
	if mesh == nil || len(mesh.Indices) == 0 {
		tr.clear()
		return
	}

	if !tr.sameGeometry(mesh) {
		tr.clear()
		tr.upload(mesh)
		tr.log.Debug("terrain uploaded",
			zap.Int("vertices", mesh.VertexCount()),
			zap.Int("triangles", mesh.TriangleCount()))
	}
	tr.style = mesh.Style
	tr.Bounds = mesh.Bounds
	tr.uploaded = mesh
}

// sameGeometry reports whether mesh shares its index buffer with the uploaded one.
func (tr *TerrainRenderer) sameGeometry(mesh *terrain.Mesh) bool {
	if tr.vao == 0 || tr.uploaded == nil || len(mesh.Positions) == 0 {
		return false
	}
	return len(mesh.Indices) == len(tr.uploaded.Indices) &&
		len(mesh.Positions) == len(tr.uploaded.Positions) &&
		&mesh.Indices[0] == &tr.uploaded.Indices[0] &&
		&mesh.Positions[0] == &tr.uploaded.Positions[0]
}

func (tr *TerrainRenderer) upload(mesh *terrain.Mesh) {
	vertices := mesh.Interleave()

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(terrain.InterleavedStride * 4)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	tr.indexCount = int32(len(mesh.Indices))
}

// Render draws the displayed terrain.
func (tr *TerrainRenderer) Render(viewProj math.Mat4) {
	if tr.vao == 0 {
		return
	}

	tr.program.Use()
	gl.UniformMatrix4fv(tr.locViewProj, 1, false, &viewProj[0])
	c, a, l := tr.material.Color, tr.material.Ambient, tr.material.LightDir
	gl.Uniform3f(tr.locColor, c[0], c[1], c[2])
	gl.Uniform3f(tr.locAmbient, a[0], a[1], a[2])
	gl.Uniform3f(tr.locLightDir, l[0], l[1], l[2])

	wireframe := tr.style == terrain.StyleWireframe
	if wireframe {
		gl.Uniform1i(tr.locWireframe, 1)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.Uniform1i(tr.locWireframe, 0)
	}

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (tr *TerrainRenderer) clear() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	tr.indexCount = 0
	tr.uploaded = nil
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clear()
	tr.program.Delete()
}
