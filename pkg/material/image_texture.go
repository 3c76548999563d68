package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Texture provides linear RGB colors for texture coordinates.
// Implementations are read-only once loaded and safe for concurrent use.
type Texture interface {
	Sample(u, v float64) core.Vec3
}

// ImageTexture provides color from a 2D image already converted to linear RGB
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample looks up the nearest texel. u outside [0, 1] wraps around and v is
// clamped, so v=0 is the top row and v=1 the bottom row.
func (t *ImageTexture) Sample(u, v float64) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.Vec3{}
	}

	if u < 0 || u > 1 {
		u -= math.Floor(u)
	}
	if math.IsNaN(u) {
		u = 0
	}
	v = max(0, min(1, v))
	if math.IsNaN(v) {
		v = 0
	}

	x := int(u * float64(t.Width-1))
	y := int(v * float64(t.Height-1))

	return t.Pixels[y*t.Width+x]
}
