package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: sphere radius must be positive and finite, got %g", ErrDegenerate, radius)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: sphere center %v is not finite", ErrDegenerate, center)
	}
	if err := mat.Validate(); err != nil {
		return nil, err
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: mat,
	}, nil
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray) (*HitRecord, bool) {
	dd := ray.Direction.LengthSquared()
	if dd < core.Epsilon {
		return nil, false
	}

	r2 := s.Radius * s.Radius
	toCenter := s.Center.Subtract(ray.Origin)
	inside := toCenter.LengthSquared() < r2

	// Distance along the ray to the point closest to the center
	tc := toCenter.Dot(ray.Direction) / dd
	if !inside && tc < 0 {
		return nil, false
	}

	closest := ray.At(tc).Subtract(s.Center)
	d2 := closest.LengthSquared()
	if !inside && d2 > r2 {
		return nil, false
	}

	tOffset := math.Sqrt(math.Max(0, r2-d2)) / math.Sqrt(dd)

	var t float64
	if inside {
		t = tc + tOffset
	} else {
		t = tc - tOffset
	}
	if t <= core.Epsilon {
		return nil, false
	}

	point := ray.At(t)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	return newHitRecord(ray, t, outwardNormal, s.colorAt(point), s), true
}

// colorAt samples the texture with a longitude/latitude mapping, or returns the flat color
func (s *Sphere) colorAt(point core.Vec3) core.Vec3 {
	if s.material.Texture == nil {
		return s.material.Color
	}
	local := point.Subtract(s.Center)

	longitude := math.Atan2(local.X, local.Z) - math.Pi/2
	u := math.Mod((longitude+math.Pi)/(2*math.Pi), 1)
	if u < 0 {
		u += 1
	}

	latitude := math.Acos(max(-1, min(1, local.Y/s.Radius)))
	v := latitude / math.Pi

	return s.material.Texture.Sample(u, v)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Centroid returns the sphere's center
func (s *Sphere) Centroid() core.Vec3 {
	return s.Center
}

// Material returns the sphere's appearance snapshot
func (s *Sphere) Material() material.Material {
	return s.material
}

func (s *Sphere) shape() {}
