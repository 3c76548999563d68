package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// FrameConfig contains configuration for rendering a frame
type FrameConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; tile i samples with Seed + i
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		TileSize:   32,
		NumWorkers: runtime.NumCPU(),
		Seed:       42,
	}
}

// Tile is a rectangular block of pixels rendered as one task
type Tile struct {
	ID      int             // Unique tile identifier
	Bounds  image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Sampler core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile whose sampler is seeded from seed and the tile ID
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid covers a width x height image with tiles in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// FrameRenderer drives a full frame across a pool of workers. Every tile has
// its own seeded sampler, so the output does not depend on the worker count.
type FrameRenderer struct {
	scene  *scene.Scene
	config FrameConfig
	logger core.Logger
}

// NewFrameRenderer creates a frame renderer for a built scene
func NewFrameRenderer(s *scene.Scene, config FrameConfig, logger core.Logger) *FrameRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultFrameConfig().TileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &FrameRenderer{scene: s, config: config, logger: logger}
}

// RenderFrame renders every pixel of the scene into a linear image. It
// returns ctx.Err() if the context is cancelled before all tiles finish.
func (fr *FrameRenderer) RenderFrame(ctx context.Context) (*LinearImage, RenderStats, error) {
	settings := fr.scene.Settings
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid frame size %dx%d", settings.Width, settings.Height)
	}

	start := time.Now()
	img := NewLinearImage(settings.Width, settings.Height)
	tiles := NewTileGrid(settings.Width, settings.Height, fr.config.TileSize, fr.config.Seed)

	pool := NewWorkerPool(fr.scene, fr.config.NumWorkers, len(tiles))
	fr.logger.Printf("Rendering %dx%d, %d samples/pixel, %d bounces, %d tiles on %d workers...\n",
		settings.Width, settings.Height, settings.SamplesPerPixel, settings.MaxBounces, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Image: img})
	}

	stats := RenderStats{
		Samples: settings.SamplesPerPixel,
		Workers: pool.GetNumWorkers(),
	}
	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		stats.add(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		fr.logger.Printf("Render stopped: %v\n", firstErr)
		return nil, stats, firstErr
	}

	stats.Elapsed = time.Since(start)
	fr.logger.Printf("Render completed in %v (%d rays, %.0f rays/s, %d/%d pixels hit)\n",
		stats.Elapsed, stats.TotalRays, stats.RaysPerSecond(), stats.HitPixels, stats.TotalPixels)
	return img, stats, nil
}
