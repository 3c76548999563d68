package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Distance          float64           // Parameter t along the ray, > 0
	Point             core.Vec3         // Point of intersection
	Normal            core.Vec3         // Unit normal, facing against the incident ray
	Color             core.Vec3         // Linear RGB surface color at Point
	Material          material.Material // Snapshot of the shape's appearance
	Shape             Shape             // Primitive that was hit
	IncidentDirection core.Vec3         // Direction of the ray that produced the hit
	Shadows           ShadowMap         // Filled in by the shading engine before lighting
}

// newHitRecord fills in the fields common to every shape. outwardNormal is
// flipped so that the stored normal faces the incoming ray.
func newHitRecord(ray core.Ray, t float64, outwardNormal core.Vec3, color core.Vec3, shape Shape) *HitRecord {
	normal := outwardNormal
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Negate()
	}
	return &HitRecord{
		Distance:          t,
		Point:             ray.At(t),
		Normal:            normal,
		Color:             color,
		Material:          shape.Material(),
		Shape:             shape,
		IncidentDirection: ray.Direction,
	}
}

// PerturbNormal adds isotropic Gaussian noise with standard deviation equal
// to the material roughness and renormalizes. Only spheres are rough; planes,
// triangles and smooth spheres are untouched.
func (h *HitRecord) PerturbNormal(sampler core.Sampler) {
	if _, ok := h.Shape.(*Sphere); !ok || h.Material.Roughness <= 0 {
		return
	}
	perturbed := h.Normal.Add(core.SampleGaussianVec3(sampler, h.Material.Roughness)).Normalize()
	if perturbed.IsZero() {
		return
	}
	h.Normal = perturbed
}

// Occlusion records what a shadow ray toward one light found
type Occlusion struct {
	Occluded bool    // Something lies along the shadow ray
	Distance float64 // Distance to the nearest occluder, valid when Occluded
}

// ShadowMap holds one Occlusion per light, indexed by the light's position
// in the scene's light list. A fresh map is built for every hit.
type ShadowMap []Occlusion

// Lookup returns the occluder distance for a light, or false if unoccluded
func (s ShadowMap) Lookup(light int) (float64, bool) {
	if light < 0 || light >= len(s) || !s[light].Occluded {
		return 0, false
	}
	return s[light].Distance, true
}
