package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal
	material material.Material
}

// NewPlane creates a new plane through point with the given normal
func NewPlane(point, normal core.Vec3, mat material.Material) (*Plane, error) {
	length := normal.Length()
	if length < core.Epsilon || !normal.IsFinite() {
		return nil, fmt.Errorf("%w: plane normal %v has no direction", ErrDegenerate, normal)
	}
	if !point.IsFinite() {
		return nil, fmt.Errorf("%w: plane point %v is not finite", ErrDegenerate, point)
	}
	if err := mat.Validate(); err != nil {
		return nil, err
	}
	return &Plane{
		Point:    point,
		Normal:   normal.Multiply(1 / length),
		material: mat,
	}, nil
}

// NewPlaneFromCoefficients creates the plane ax + by + cz + d = 0
func NewPlaneFromCoefficients(a, b, c, d float64, mat material.Material) (*Plane, error) {
	var point core.Vec3
	switch {
	case d == 0:
		point = core.Vec3{}
	case a != 0:
		point = core.NewVec3(-d/a, 0, 0)
	case b != 0:
		point = core.NewVec3(0, -d/b, 0)
	case c != 0:
		point = core.NewVec3(0, 0, -d/c)
	default:
		return nil, fmt.Errorf("%w: plane coefficients (%g, %g, %g, %g) have no normal", ErrDegenerate, a, b, c, d)
	}
	return NewPlane(point, core.NewVec3(a, b, c), mat)
}

// intersectPlane solves t = (point-origin)·normal / (direction·normal).
// Parallel rays and intersections behind the origin report false.
func intersectPlane(ray core.Ray, point, normal core.Vec3) (float64, bool) {
	denominator := ray.Direction.Dot(normal)
	if math.Abs(denominator) < core.Epsilon {
		return 0, false
	}

	t := point.Subtract(ray.Origin).Dot(normal) / denominator
	if t <= core.Epsilon {
		return 0, false
	}
	return t, true
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray) (*HitRecord, bool) {
	t, ok := intersectPlane(ray, p.Point, p.Normal)
	if !ok {
		return nil, false
	}
	return newHitRecord(ray, t, p.Normal, p.material.Color, p), true
}

// BoundingBox returns an infinite box; a plane has no finite bounds
func (p *Plane) BoundingBox() core.AABB {
	return core.InfiniteAABB()
}

// Centroid returns the plane's reference point
func (p *Plane) Centroid() core.Vec3 {
	return p.Point
}

// Material returns the plane's appearance snapshot
func (p *Plane) Material() material.Material {
	return p.material
}

func (p *Plane) shape() {}
