package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Sample is the result of tracing one ray: RGB on the 0-255 scale, truncated
// to whole numbers, and alpha 255 for a hit or 0 for a miss.
type Sample struct {
	Color core.Vec3
	Alpha float64
}

// Raytracer is the recursive shading engine. A Raytracer counts the rays it
// traces and so must not be shared between goroutines; create one per worker.
type Raytracer struct {
	scene      *scene.Scene
	maxBounces int
	rays       int64
}

// NewRaytracer creates a raytracer for a built scene
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:      s,
		maxBounces: s.Settings.MaxBounces,
	}
}

// RaysTraced returns the number of rays cast so far, shadow rays included
func (rt *Raytracer) RaysTraced() int64 {
	return rt.rays
}

// Trace returns the shaded color seen along a ray
func (rt *Raytracer) Trace(ray core.Ray, sampler core.Sampler) Sample {
	hit, ok := rt.intersect(ray, sampler)
	if !ok {
		return Sample{}
	}
	return Sample{Color: rt.shade(hit, 0, sampler), Alpha: 255}
}

// hitScene casts a ray against the scene and counts it
func (rt *Raytracer) hitScene(ray core.Ray) (*geometry.HitRecord, bool) {
	rt.rays++
	return rt.scene.Hit(ray)
}

// intersect finds the nearest hit and applies the surface's roughness
func (rt *Raytracer) intersect(ray core.Ray, sampler core.Sampler) (*geometry.HitRecord, bool) {
	hit, ok := rt.hitScene(ray)
	if !ok {
		return nil, false
	}
	hit.PerturbNormal(sampler)
	return hit, true
}

// shade computes the color at a hit on the 0-255 scale, truncated per channel.
// Reflection and refraction recurse while depth < maxBounces.
func (rt *Raytracer) shade(hit *geometry.HitRecord, depth int, sampler core.Sampler) core.Vec3 {
	hit.Shadows = rt.castShadows(hit)

	total := core.Vec3{}
	for id, light := range rt.scene.Lights {
		total = total.Add(light.Illuminate(hit, id))
	}

	if depth < rt.maxBounces {
		reflection := rt.reflect(hit, depth, sampler)
		refraction := rt.refract(hit, depth, sampler)

		opacity := hit.Material.Transparency.OneMinus()
		total = total.MultiplyVec(opacity).MultiplyVec(hit.Material.Shininess.OneMinus()).
			Add(reflection.MultiplyVec(opacity)).
			Add(refraction)
	}

	return core.NewVec3(
		math.Trunc(total.X*255),
		math.Trunc(total.Y*255),
		math.Trunc(total.Z*255),
	)
}

// castShadows sends one ray toward each light from just above the surface
// and records the nearest occluder, if any
func (rt *Raytracer) castShadows(hit *geometry.HitRecord) geometry.ShadowMap {
	lights := rt.scene.Lights
	if len(lights) == 0 {
		return nil
	}

	origin := hit.Point.Add(hit.Normal.Multiply(core.SurfaceOffset))
	shadows := make(geometry.ShadowMap, len(lights))
	for id, light := range lights {
		occluder, occluded := rt.hitScene(core.NewRay(origin, light.DirectionFrom(origin)))
		if occluded {
			shadows[id] = geometry.Occlusion{Occluded: true, Distance: occluder.Distance}
		}
	}
	return shadows
}

// reflect traces the mirror ray and weights it by shininess
func (rt *Raytracer) reflect(hit *geometry.HitRecord, depth int, sampler core.Sampler) core.Vec3 {
	if !hit.Material.IsShiny() {
		return core.Vec3{}
	}

	direction := hit.IncidentDirection.Reflect(hit.Normal).Normalize()
	origin := hit.Point.Add(hit.Normal.Multiply(core.SurfaceOffset))

	next, ok := rt.intersect(core.NewRay(origin, direction), sampler)
	if !ok {
		return core.Vec3{}
	}
	return rt.shade(next, depth+1, sampler).Multiply(1.0 / 255).MultiplyVec(hit.Material.Shininess)
}

// refractDirection bends a unit direction through a surface whose normal faces
// against it, going from index n1 to n2. It reports false on total internal
// reflection.
func refractDirection(incident, normal core.Vec3, n1, n2 float64) (core.Vec3, bool) {
	ratio := n1 / n2
	cosIncident := -normal.Dot(incident)
	discriminant := 1 - ratio*ratio*(1-cosIncident*cosIncident)
	if discriminant < 0 {
		return core.Vec3{}, false
	}
	direction := incident.Multiply(ratio).
		Add(normal.Multiply(ratio*cosIncident - math.Sqrt(discriminant))).
		Normalize()
	return direction, !direction.IsZero()
}

// refract follows the ray into the object, out through its far side, and on
// to whatever it hits next. The exit must be on the same primitive, otherwise
// the path is dropped.
func (rt *Raytracer) refract(hit *geometry.HitRecord, depth int, sampler core.Sampler) core.Vec3 {
	mat := hit.Material
	if !mat.IsTransparent() {
		return core.Vec3{}
	}

	inside, ok := refractDirection(hit.IncidentDirection.Normalize(), hit.Normal, 1, mat.RefractionIndex)
	if !ok {
		return core.Vec3{}
	}
	entry := core.NewRay(hit.Point.Subtract(hit.Normal.Multiply(core.SurfaceOffset)), inside)

	exit, ok := rt.intersect(entry, sampler)
	if !ok || exit.Shape != hit.Shape {
		return core.Vec3{}
	}

	outside, ok := refractDirection(inside, exit.Normal, mat.RefractionIndex, 1)
	if !ok {
		return core.Vec3{}
	}
	onward := core.NewRay(exit.Point.Subtract(exit.Normal.Multiply(core.SurfaceOffset)), outside)

	next, ok := rt.intersect(onward, sampler)
	if !ok {
		return core.Vec3{}
	}
	return rt.shade(next, depth+1, sampler).Multiply(1.0 / 255).MultiplyVec(mat.Transparency)
}
