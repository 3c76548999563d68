package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned when a material parameter is out of range
var ErrInvalidMaterial = errors.New("invalid material")

// DefaultRefractionIndex is the index of refraction used until a scene sets one
const DefaultRefractionIndex = 1.458

// Material is the appearance state captured when a primitive is added to a
// scene. It is copied by value into each primitive, so later changes to the
// builder's current state never reach primitives that already exist.
type Material struct {
	Color           core.Vec3 // Flat linear RGB color, used when Texture is nil
	Texture         Texture   // Optional texture, sampled at the hit point
	Texcoord        core.Vec2 // Texture coordinate current at capture time
	Shininess       core.Vec3 // Per-channel mirror reflection weight
	Transparency    core.Vec3 // Per-channel refraction weight
	Roughness       float64   // Standard deviation of the normal perturbation
	RefractionIndex float64
}

// Default returns the state a scene starts from: opaque, matte, white
func Default() Material {
	return Material{
		Color:           core.NewVec3(1, 1, 1),
		RefractionIndex: DefaultRefractionIndex,
	}
}

// Validate rejects parameters that would otherwise turn into NaNs during tracing
func (m Material) Validate() error {
	if !m.Color.IsFinite() || !m.Shininess.IsFinite() || !m.Transparency.IsFinite() {
		return fmt.Errorf("%w: non-finite color, shininess or transparency", ErrInvalidMaterial)
	}
	if negative(m.Shininess) {
		return fmt.Errorf("%w: negative shininess %v", ErrInvalidMaterial, m.Shininess)
	}
	if negative(m.Transparency) {
		return fmt.Errorf("%w: negative transparency %v", ErrInvalidMaterial, m.Transparency)
	}
	if m.Roughness < 0 || math.IsNaN(m.Roughness) || math.IsInf(m.Roughness, 0) {
		return fmt.Errorf("%w: roughness must be a finite value >= 0, got %g", ErrInvalidMaterial, m.Roughness)
	}
	if !(m.RefractionIndex > 0) || math.IsInf(m.RefractionIndex, 0) {
		return fmt.Errorf("%w: index of refraction must be a finite value > 0, got %g", ErrInvalidMaterial, m.RefractionIndex)
	}
	return nil
}

// IsTransparent reports whether any channel lets light through
func (m Material) IsTransparent() bool {
	return m.Transparency.AnyPositive()
}

// IsShiny reports whether any channel reflects
func (m Material) IsShiny() bool {
	return m.Shininess.AnyPositive()
}

func negative(v core.Vec3) bool {
	return v.X < 0 || v.Y < 0 || v.Z < 0
}
