// Command terrainmesh builds a terrain mesh from a heightmap without opening
// a window and logs its statistics.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-mesh/internal/config"
	"github.com/Faultbox/terrain-mesh/internal/logger"
	"github.com/Faultbox/terrain-mesh/internal/pipeline"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gen := pipeline.New(cfg.Params(), cfg.Style())
	mesh, err := gen.Regenerate(pipeline.Trigger{Recalculate: true})
	if err != nil {
		logger.Error("failed to build terrain", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	b := mesh.Bounds
	logger.Info("terrain mesh",
		zap.String("image", cfg.Terrain.ImagePath),
		zap.Int("cells_x", mesh.CellsX),
		zap.Int("cells_z", mesh.CellsZ),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Stringer("style", mesh.Style),
		zap.Float32s("bounds_min", b.Min[:]),
		zap.Float32s("bounds_max", b.Max[:]),
	)

	fmt.Printf("%s: %dx%d cells, %d vertices, %d triangles\n",
		cfg.Terrain.ImagePath, mesh.CellsX, mesh.CellsZ, mesh.VertexCount(), mesh.TriangleCount())
}
