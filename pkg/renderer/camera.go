package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera maps pixel coordinates to world-space rays
type Camera struct {
	config        scene.CameraConfig
	width, height float64
	maxDimension  float64
}

// NewCamera creates a camera for an image of the given size
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	return &Camera{
		config:       config,
		width:        float64(width),
		height:       float64(height),
		maxDimension: float64(max(width, height)),
	}
}

// EmitRay returns the ray through pixel coordinate (x, y). Coordinates may be
// fractional for jittered samples. It reports false for fisheye pixels
// outside the image circle. The sampler is only used for depth of field.
func (c *Camera) EmitRay(x, y float64, sampler core.Sampler) (core.Ray, bool) {
	sx := (2*x - c.width) / c.maxDimension
	sy := (c.height - 2*y) / c.maxDimension
	sz := 1.0

	if c.config.Projection == scene.Panorama {
		longitude := (2*x - c.width) * math.Pi / c.width
		latitude := (c.height - 2*y) * math.Pi / (2 * c.height)
		sx = math.Cos(latitude) * math.Sin(longitude)
		sy = math.Sin(latitude)
		sz = math.Cos(latitude) * math.Cos(longitude)
	}

	forward := c.config.Forward
	if c.config.Projection == scene.Fisheye {
		r2 := sx*sx + sy*sy
		if r2 > 1 {
			return core.Ray{}, false
		}
		forward = forward.Multiply(math.Sqrt(1 - r2))
	}

	direction := forward.Multiply(sz).
		Add(c.config.Right.Multiply(sx)).
		Add(c.config.Up.Multiply(sy)).
		Normalize()
	if direction.IsZero() {
		return core.Ray{}, false
	}

	if !c.config.HasDepthOfField() {
		return core.NewRay(c.config.Eye, direction), true
	}
	return c.lensRay(direction, sampler), true
}

// lensRay re-aims a ray from a point on the lens through the focal point of
// the pinhole ray
func (c *Camera) lensRay(direction core.Vec3, sampler core.Sampler) core.Ray {
	focalPoint := c.config.Eye.Add(direction.Multiply(c.config.FocusDistance))

	offset := core.SamplePolarDisk(sampler.Get2D(), c.config.LensRadius)
	origin := c.config.Eye.
		Add(c.config.Right.Multiply(offset.X)).
		Add(c.config.Up.Multiply(offset.Y))

	return core.NewRay(origin, focalPoint.Subtract(origin).Normalize())
}
