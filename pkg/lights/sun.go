package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Sun is a directional light infinitely far away
type Sun struct {
	Direction core.Vec3 // Unit direction toward the light
	color     core.Vec3
}

// NewSun creates a sun shining from the given direction
func NewSun(direction, color core.Vec3) (*Sun, error) {
	if direction.IsZero() || !direction.IsFinite() {
		return nil, fmt.Errorf("%w: sun direction %v", ErrInvalidLight, direction)
	}
	if !color.IsFinite() {
		return nil, fmt.Errorf("%w: sun color %v", ErrInvalidLight, color)
	}
	return &Sun{Direction: direction.Normalize(), color: color}, nil
}

// DirectionFrom is the same for every point
func (s *Sun) DirectionFrom(point core.Vec3) core.Vec3 {
	return s.Direction
}

// Illuminate applies Lambert's law. Any occluder blocks a sun, and surfaces
// facing away receive nothing.
func (s *Sun) Illuminate(hit *geometry.HitRecord, id int) core.Vec3 {
	if _, occluded := hit.Shadows.Lookup(id); occluded {
		return core.Vec3{}
	}
	cosine := hit.Normal.Dot(s.Direction)
	if cosine < 0 {
		return core.Vec3{}
	}
	return hit.Color.MultiplyVec(s.color).Multiply(cosine)
}

func (s *Sun) light() {}
