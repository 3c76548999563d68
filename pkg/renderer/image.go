package renderer

import "github.com/df07/go-whitted-raytracer/pkg/core"

// LinearImage is the frame buffer written by the frame driver. Each pixel
// holds RGB on the 0-255 scale, unclamped, and an alpha in [0, 255].
type LinearImage struct {
	Width, Height int
	Pix           []float64 // RGBA, row-major, four values per pixel
}

// NewLinearImage allocates a transparent black image
func NewLinearImage(width, height int) *LinearImage {
	return &LinearImage{
		Width:  width,
		Height: height,
		Pix:    make([]float64, 4*width*height),
	}
}

func (img *LinearImage) offset(x, y int) int {
	return 4 * (y*img.Width + x)
}

// At returns the color and alpha at (x, y)
func (img *LinearImage) At(x, y int) (core.Vec3, float64) {
	i := img.offset(x, y)
	return core.NewVec3(img.Pix[i], img.Pix[i+1], img.Pix[i+2]), img.Pix[i+3]
}

// Set stores the color and alpha at (x, y)
func (img *LinearImage) Set(x, y int, color core.Vec3, alpha float64) {
	i := img.offset(x, y)
	img.Pix[i] = color.X
	img.Pix[i+1] = color.Y
	img.Pix[i+2] = color.Z
	img.Pix[i+3] = alpha
}
