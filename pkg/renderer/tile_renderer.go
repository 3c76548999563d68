package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileTracer renders the pixels of one tile at a time
type TileTracer struct {
	camera    *Camera
	raytracer *Raytracer
	samples   int
}

// NewTileTracer creates a tile tracer with its own raytracer
func NewTileTracer(s *scene.Scene) *TileTracer {
	return &TileTracer{
		camera:    NewCamera(s.Camera, s.Settings.Width, s.Settings.Height),
		raytracer: NewRaytracer(s),
		samples:   max(1, s.Settings.SamplesPerPixel),
	}
}

// RenderTile renders every pixel inside the tile's bounds into img
func (tt *TileTracer) RenderTile(tile *Tile, img *LinearImage) RenderStats {
	bounds := tile.Bounds
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}
	raysBefore := tt.raytracer.RaysTraced()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, alpha, emitted := tt.SamplePixel(x, y, tile.Sampler)
			img.Set(x, y, color, alpha)
			stats.PrimaryRays += emitted
			if alpha > 0 {
				stats.HitPixels++
			}
		}
	}

	stats.TotalRays = tt.raytracer.RaysTraced() - raysBefore
	return stats
}

// SamplePixel averages the configured number of samples for one pixel and
// truncates each channel. A single sample is taken at the pixel coordinate
// itself; more samples are jittered by up to half a pixel on each axis.
func (tt *TileTracer) SamplePixel(x, y int, sampler core.Sampler) (core.Vec3, float64, int) {
	var color core.Vec3
	var alpha float64
	emitted := 0

	for i := 0; i < tt.samples; i++ {
		px, py := float64(x), float64(y)
		if tt.samples > 1 {
			px += sampler.Get1D() - 0.5
			py += sampler.Get1D() - 0.5
		}

		ray, ok := tt.camera.EmitRay(px, py, sampler)
		if !ok {
			continue
		}
		emitted++
		sample := tt.raytracer.Trace(ray, sampler)
		color = color.Add(sample.Color)
		alpha += sample.Alpha
	}

	n := float64(tt.samples)
	color = core.NewVec3(math.Trunc(color.X/n), math.Trunc(color.Y/n), math.Trunc(color.Z/n))
	return color, math.Trunc(alpha / n), emitted
}
