package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// fixedSampler returns the same values on every call
type fixedSampler struct {
	value core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.value.X }
func (f fixedSampler) Get2D() core.Vec2 { return f.value }

func assertVecNear(t *testing.T, label string, expected, got core.Vec3, tol float64) {
	t.Helper()
	if math.Abs(expected.X-got.X) > tol ||
		math.Abs(expected.Y-got.Y) > tol ||
		math.Abs(expected.Z-got.Z) > tol {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

// buildScene frames a builder, applies the steps and builds the scene
func buildScene(t *testing.T, width, height int, steps ...func(b *scene.Builder) error) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder()
	if err := b.Frame(width, height, "test.png"); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	for i, step := range steps {
		if err := step(b); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

// sunSphereScene is a unit sphere at the origin lit by a sun along +z, seen
// from z = 5 looking down -z
func sunSphereScene(t *testing.T, width, height int, extra ...func(b *scene.Builder) error) *scene.Scene {
	t.Helper()
	steps := []func(b *scene.Builder) error{
		func(b *scene.Builder) error { return b.SetEye(core.NewVec3(0, 0, 5)) },
		func(b *scene.Builder) error { return b.AddSphere(core.NewVec3(0, 0, 0), 1) },
		func(b *scene.Builder) error { return b.AddSun(core.NewVec3(0, 0, 1)) },
	}
	return buildScene(t, width, height, append(steps, extra...)...)
}
