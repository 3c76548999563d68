package geometry

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrDegenerate is returned when a primitive's parameters cannot describe a surface
var ErrDegenerate = errors.New("degenerate geometry")

// Shape is implemented by the primitives a scene can contain: Sphere, Plane
// and Triangle. The set is closed; the unexported method keeps it that way.
type Shape interface {
	// Hit returns the nearest forward intersection, or false if there is none
	Hit(ray core.Ray) (*HitRecord, bool)
	// BoundingBox returns the axis-aligned box enclosing the shape
	BoundingBox() core.AABB
	// Centroid is the point used to order shapes when building the BVH
	Centroid() core.Vec3
	// Material returns the appearance snapshot captured at construction
	Material() material.Material

	shape()
}
