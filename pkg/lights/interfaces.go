package lights

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrInvalidLight is returned when a light is constructed from unusable input
var ErrInvalidLight = errors.New("invalid light")

// Light is the closed set of light sources: Sun and Bulb
type Light interface {
	// DirectionFrom returns the unit direction from point toward the light
	DirectionFrom(point core.Vec3) core.Vec3

	// Illuminate returns the direct radiance the light contributes at a hit.
	// id indexes the light's entry in hit.Shadows, which must already be filled.
	Illuminate(hit *geometry.HitRecord, id int) core.Vec3

	light()
}
