package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func mustPlane(t *testing.T, point, normal core.Vec3) *Plane {
	t.Helper()
	p, err := NewPlane(point, normal, material.Default())
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	return p
}

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.Distance-1) > tolerance {
		t.Errorf("Expected t=1, got t=%f", hit.Distance)
	}
	assertVecNear(t, "point", core.NewVec3(0, 0, 0), hit.Point, tolerance)
	assertVecNear(t, "normal", core.NewVec3(0, 1, 0), hit.Normal, tolerance)
}

func TestPlane_Hit_NormalFacesRay(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(3, -2, 1), core.NewVec3(0, 1, 0))

	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit from below")
	}
	assertVecNear(t, "normal", core.NewVec3(0, -1, 0), hit.Normal, tolerance)
}

func TestPlane_Hit_ParallelRay(t *testing.T) {
	point := core.NewVec3(1, 2, 3)
	plane := mustPlane(t, point, core.NewVec3(0, 1, 0))

	origins := []core.Vec3{
		core.NewVec3(0, 5, 0),
		core.NewVec3(0, -5, 0),
		core.NewVec3(9, 2, 9), // in the plane
		point,                 // exactly the reference point
	}
	for _, origin := range origins {
		ray := core.NewRay(origin, core.NewVec3(1, 0, 1))
		if hit, isHit := plane.Hit(ray); isHit {
			t.Errorf("Expected miss for parallel ray from %v, got hit at t=%f", origin, hit.Distance)
		}
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	if hit, isHit := plane.Hit(ray); isHit {
		t.Errorf("Expected miss for intersection behind ray, but got hit at t=%f", hit.Distance)
	}
}

func TestNewPlaneFromCoefficients(t *testing.T) {
	tests := []struct {
		name          string
		a, b, c, d    float64
		expectedPoint core.Vec3
		expectedNorm  core.Vec3
	}{
		{"through origin", 0, 1, 0, 0, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)},
		{"x = 2", 1, 0, 0, -2, core.NewVec3(2, 0, 0), core.NewVec3(1, 0, 0)},
		{"y = -1 scaled", 0, 4, 0, 4, core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)},
		{"z = 3", 0, 0, 2, -6, core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane, err := NewPlaneFromCoefficients(tt.a, tt.b, tt.c, tt.d, material.Default())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			assertVecNear(t, "point", tt.expectedPoint, plane.Point, tolerance)
			assertVecNear(t, "normal", tt.expectedNorm, plane.Normal, tolerance)
		})
	}
}

func TestNewPlane_Invalid(t *testing.T) {
	if _, err := NewPlaneFromCoefficients(0, 0, 0, 1, material.Default()); !errors.Is(err, ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate for zero normal, got %v", err)
	}
	if _, err := NewPlane(core.Vec3{}, core.Vec3{}, material.Default()); !errors.Is(err, ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate for zero normal, got %v", err)
	}
}
