package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Bulb is a point light with inverse-square falloff
type Bulb struct {
	Position core.Vec3
	color    core.Vec3
}

// NewBulb creates a point light at position
func NewBulb(position, color core.Vec3) (*Bulb, error) {
	if !position.IsFinite() {
		return nil, fmt.Errorf("%w: bulb position %v", ErrInvalidLight, position)
	}
	if !color.IsFinite() {
		return nil, fmt.Errorf("%w: bulb color %v", ErrInvalidLight, color)
	}
	return &Bulb{Position: position, color: color}, nil
}

// DirectionFrom returns the unit direction from point to the bulb
func (b *Bulb) DirectionFrom(point core.Vec3) core.Vec3 {
	return b.Position.Subtract(point).Normalize()
}

// DistanceFrom returns the distance from point to the bulb
func (b *Bulb) DistanceFrom(point core.Vec3) float64 {
	return b.Position.Subtract(point).Length()
}

// Illuminate applies Lambert's law with inverse-square falloff. An occluder
// only blocks the bulb when it lies between the surface and the bulb; one
// recorded beyond the bulb is ignored.
func (b *Bulb) Illuminate(hit *geometry.HitRecord, id int) core.Vec3 {
	distance := b.DistanceFrom(hit.Point)
	if distance < core.Epsilon {
		return core.Vec3{}
	}
	if occluder, occluded := hit.Shadows.Lookup(id); occluded && occluder <= distance {
		return core.Vec3{}
	}

	cosine := math.Max(0, hit.Normal.Dot(b.DirectionFrom(hit.Point)))
	return hit.Color.MultiplyVec(b.color).Multiply(cosine / (distance * distance))
}

func (b *Bulb) light() {}
