package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const tolerance = 1e-9

func assertVecNear(t *testing.T, label string, expected, got core.Vec3, tol float64) {
	t.Helper()
	if math.Abs(expected.X-got.X) > tol ||
		math.Abs(expected.Y-got.Y) > tol ||
		math.Abs(expected.Z-got.Z) > tol {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

func mustSphere(t *testing.T, center core.Vec3, radius float64, mat material.Material) *Sphere {
	t.Helper()
	s, err := NewSphere(center, radius, mat)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

// constTexture returns the same color everywhere
type constTexture struct {
	color core.Vec3
}

func (c *constTexture) Sample(u, v float64) core.Vec3 {
	return c.color
}

// uvTexture encodes the texture coordinate in the returned color
type uvTexture struct{}

func (uvTexture) Sample(u, v float64) core.Vec3 {
	return core.NewVec3(u, v, 0)
}
