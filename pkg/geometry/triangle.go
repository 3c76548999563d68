package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Vertex is a point with the texture coordinate that was current when it was declared
type Vertex struct {
	Point    core.Vec3
	Texcoord core.Vec2
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 Vertex
	material   material.Material
	normal     core.Vec3 // Cached unit normal
	e1, e2     core.Vec3 // Barycentric basis: b1 = e1·(p-p0), b2 = e2·(p-p0)
	bbox       core.AABB
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 Vertex, mat material.Material) (*Triangle, error) {
	edge1 := v1.Point.Subtract(v0.Point)
	edge2 := v2.Point.Subtract(v0.Point)

	cross := edge1.Cross(edge2)
	if cross.Length() < core.Epsilon || !cross.IsFinite() {
		return nil, fmt.Errorf("%w: triangle %v %v %v has no area", ErrDegenerate, v0.Point, v1.Point, v2.Point)
	}
	if err := mat.Validate(); err != nil {
		return nil, err
	}
	normal := cross.Normalize()

	a1 := edge2.Cross(normal)
	a2 := edge1.Cross(normal)

	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		material: mat,
		normal:   normal,
		e1:       a1.Multiply(1 / a1.Dot(edge1)),
		e2:       a2.Multiply(1 / a2.Dot(edge2)),
		bbox:     core.NewAABBFromPoints(v0.Point, v1.Point, v2.Point),
	}, nil
}

// Barycentric returns the weights (b0, b1, b2) of p with respect to V0, V1, V2.
// p is assumed to lie in the triangle's plane.
func (t *Triangle) Barycentric(p core.Vec3) (b0, b1, b2 float64) {
	rel := p.Subtract(t.V0.Point)
	b1 = t.e1.Dot(rel)
	b2 = t.e2.Dot(rel)
	b0 = 1 - b1 - b2
	return b0, b1, b2
}

// Hit intersects the triangle's plane and keeps the hit if its barycentric
// coordinates are all non-negative
func (t *Triangle) Hit(ray core.Ray) (*HitRecord, bool) {
	dist, ok := intersectPlane(ray, t.V0.Point, t.normal)
	if !ok {
		return nil, false
	}

	b0, b1, b2 := t.Barycentric(ray.At(dist))
	if b0 < -core.Epsilon || b1 < -core.Epsilon || b2 < -core.Epsilon {
		return nil, false
	}

	return newHitRecord(ray, dist, t.normal, t.colorAt(b0, b1, b2), t), true
}

// colorAt blends the texture samples of the three vertices, or returns the flat color
func (t *Triangle) colorAt(b0, b1, b2 float64) core.Vec3 {
	texture := t.material.Texture
	if texture == nil {
		return t.material.Color
	}
	c0 := texture.Sample(t.V0.Texcoord.X, t.V0.Texcoord.Y)
	c1 := texture.Sample(t.V1.Texcoord.X, t.V1.Texcoord.Y)
	c2 := texture.Sample(t.V2.Texcoord.X, t.V2.Texcoord.Y)
	return c0.Multiply(b0).Add(c1.Multiply(b1)).Add(c2.Multiply(b2))
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Point.Add(t.V1.Point).Add(t.V2.Point).Multiply(1.0 / 3.0)
}

// Material returns the triangle's appearance snapshot
func (t *Triangle) Material() material.Material {
	return t.material
}

func (t *Triangle) shape() {}
