package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Scene is a frozen scene graph ready for rendering. It is read-only once
// built, so any number of goroutines may trace against it.
type Scene struct {
	Shapes   []geometry.Shape // Objects in the scene
	Lights   []lights.Light   // Lights in the scene, indexed by shadow maps
	Camera   CameraConfig
	Settings RenderSettings
	BVH      *geometry.BVH // Acceleration structure for ray-object intersection
}

// Projection selects how the camera maps pixels to ray directions
type Projection int

const (
	Perspective Projection = iota
	Fisheye                // Circular image; pixels outside the unit disk emit no ray
	Panorama               // Equirectangular 360x180 degree view
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Fisheye:
		return "fisheye"
	case Panorama:
		return "panorama"
	default:
		return "unknown"
	}
}

// CameraConfig describes the eye, its basis and the lens
type CameraConfig struct {
	Eye     core.Vec3
	Forward core.Vec3 // Not normalized; its length acts as a zoom factor
	Right   core.Vec3 // Unit vector
	Up      core.Vec3 // Unit vector

	Projection Projection

	FocusDistance float64 // Depth of field is on when both values are positive
	LensRadius    float64
}

// DefaultCameraConfig looks down -z from the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Eye:        core.NewVec3(0, 0, 0),
		Forward:    core.NewVec3(0, 0, -1),
		Right:      core.NewVec3(1, 0, 0),
		Up:         core.NewVec3(0, 1, 0),
		Projection: Perspective,
	}
}

// HasDepthOfField reports whether lens sampling is enabled
func (c CameraConfig) HasDepthOfField() bool {
	return c.LensRadius > 0 && c.FocusDistance > 0
}

// RenderSettings contains image and sampling configuration
type RenderSettings struct {
	Width           int    // Image width in pixels
	Height          int    // Image height in pixels
	Output          string // Output target named by the scene
	MaxBounces      int    // Maximum reflection/refraction depth
	SamplesPerPixel int    // Anti-aliasing samples; 1 disables jitter
	Exposure        float64
	UseExposure     bool // Apply 1 - exp(-Exposure * x) before display encoding
	SRGB            bool // Apply the sRGB transfer function before quantizing
}

// DefaultRenderSettings returns the settings in effect before any command
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		MaxBounces:      4,
		SamplesPerPixel: 1,
		SRGB:            true,
	}
}

// PrimitiveCount returns the number of shapes in the scene
func (s *Scene) PrimitiveCount() int {
	return len(s.Shapes)
}

// Hit returns the nearest intersection of the ray with the scene
func (s *Scene) Hit(ray core.Ray) (*geometry.HitRecord, bool) {
	return s.BVH.Hit(ray)
}
