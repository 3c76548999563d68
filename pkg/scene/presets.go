package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// presets maps built-in scene names to their constructors
var presets = map[string]func(width, height int) (*Scene, error){
	"default":     NewDefaultScene,
	"sphere-grid": NewSphereGridScene,
	"mirrors":     NewMirrorScene,
}

// PresetNames returns the names of the built-in scenes in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPresetScene builds a built-in scene by name
func NewPresetScene(name string, width, height int) (*Scene, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return build(width, height)
}

// commands runs builder steps in order and stops at the first error
func commands(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// NewDefaultScene creates a matte, a mirror and a glass sphere on a ground plane
func NewDefaultScene(width, height int) (*Scene, error) {
	b := NewBuilder()
	v := core.NewVec3
	err := commands(
		func() error { return b.Frame(width, height, "default.png") },
		func() error { return b.SetEye(v(0, 0.6, 3)) },
		func() error { return b.SetForward(v(0, -0.15, -1)) },
		func() error { return b.SetSamples(4) },

		func() error { return b.SetColor(v(0.8, 0.8, 0.8)) },
		func() error { return b.AddPlane(0, 1, 0, 0.5) },

		func() error { return b.SetColor(v(0.65, 0.25, 0.2)) },
		func() error { return b.AddSphere(v(-1.1, 0, -1), 0.5) },

		func() error { return b.SetColor(v(0.9, 0.9, 0.9)) },
		func() error { return b.SetShininess(v(0.85, 0.85, 0.85)) },
		func() error { return b.AddSphere(v(0, 0, -1.4), 0.5) },

		func() error { return b.SetShininess(v(0.1, 0.1, 0.1)) },
		func() error { return b.SetTransparency(v(0.85, 0.85, 0.85)) },
		func() error { return b.SetRefractionIndex(1.5) },
		func() error { return b.AddSphere(v(1.1, 0, -1), 0.5) },

		func() error { return b.SetColor(v(1, 1, 0.95)) },
		func() error { return b.AddSun(v(1, 2, 1.5)) },
		func() error { return b.SetColor(v(0.6, 0.6, 0.8)) },
		func() error { return b.AddBulb(v(-1, 1.5, 0)) },
	)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// hueToRGB returns a saturated color for a hue in degrees
func hueToRGB(hue float64) core.Vec3 {
	channel := func(offset float64) float64 {
		return 0.5 + 0.5*math.Cos((hue-offset)*math.Pi/180)
	}
	return core.NewVec3(channel(0), channel(120), channel(240))
}

// NewSphereGridScene creates a 10x10 grid of rainbow-colored shiny spheres
func NewSphereGridScene(width, height int) (*Scene, error) {
	const gridSize = 10
	b := NewBuilder()
	v := core.NewVec3
	err := commands(
		func() error { return b.Frame(width, height, "sphere-grid.png") },
		func() error { return b.SetEye(v(4.5, 6, 18)) },
		func() error { return b.SetForward(v(0, -0.4, -1).Multiply(1.8)) },
		func() error { return b.SetBounces(3) },
		func() error { return b.SetColor(v(0.5, 0.5, 0.5)) },
		func() error { return b.AddPlane(0, 1, 0, 0) },
		func() error { return b.SetShininess(v(0.3, 0.3, 0.3)) },
	)
	if err != nil {
		return nil, err
	}

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			hue := float64(i*gridSize+j) * 360 / (gridSize * gridSize)
			center := v(float64(i), 0.4, float64(j))
			err := commands(
				func() error { return b.SetColor(hueToRGB(hue)) },
				func() error { return b.AddSphere(center, 0.4) },
			)
			if err != nil {
				return nil, err
			}
		}
	}

	err = commands(
		func() error { return b.SetColor(v(1, 1, 1)) },
		func() error { return b.AddSun(v(-1, 3, 2)) },
	)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// NewMirrorScene places a sphere between two facing mirrors
func NewMirrorScene(width, height int) (*Scene, error) {
	b := NewBuilder()
	v := core.NewVec3
	err := commands(
		func() error { return b.Frame(width, height, "mirrors.png") },
		func() error { return b.SetEye(v(0, 0, 2)) },
		func() error { return b.SetForward(v(0.3, 0, -1)) },
		func() error { return b.SetBounces(6) },

		func() error { return b.SetColor(v(0.9, 0.95, 0.9)) },
		func() error { return b.SetShininess(v(0.9, 0.9, 0.9)) },
		func() error { return b.AddPlane(1, 0, 0, 2) },
		func() error { return b.AddPlane(-1, 0, 0, 2) },

		func() error { return b.SetShininess(v(0, 0, 0)) },
		func() error { return b.SetColor(v(0.3, 0.3, 0.35)) },
		func() error { return b.AddPlane(0, 1, 0, 1) },

		func() error { return b.SetColor(v(0.2, 0.4, 0.9)) },
		func() error { return b.AddSphere(v(0, -0.4, -1), 0.6) },

		func() error { return b.SetColor(v(1, 1, 1)) },
		func() error { return b.AddBulb(v(0, 1.5, 0)) },
		func() error { return b.AddSun(v(0.2, 1, 0.5)) },
	)
	if err != nil {
		return nil, err
	}
	return b.Build()
}
