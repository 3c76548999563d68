package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels rendered
	PrimaryRays int           // Camera rays emitted
	TotalRays   int64         // All rays cast, including shadow and secondary rays
	HitPixels   int           // Pixels with non-zero alpha
	Samples     int           // Anti-aliasing samples per pixel
	Workers     int           // Goroutines used
	Elapsed     time.Duration // Wall-clock time of the frame
}

// add merges the counters of one tile into the frame totals
func (s *RenderStats) add(tile RenderStats) {
	s.TotalPixels += tile.TotalPixels
	s.PrimaryRays += tile.PrimaryRays
	s.TotalRays += tile.TotalRays
	s.HitPixels += tile.HitPixels
}

// RaysPerSecond returns the ray throughput of the frame
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalRays) / s.Elapsed.Seconds()
}
