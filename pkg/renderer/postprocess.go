package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// PostConfig selects the display transforms applied to a linear image
type PostConfig struct {
	UseExposure bool
	Exposure    float64 // Used when UseExposure is set
	SRGB        bool
}

// PostConfigFromSettings takes the post-processing options from a scene
func PostConfigFromSettings(settings scene.RenderSettings) PostConfig {
	return PostConfig{
		UseExposure: settings.UseExposure,
		Exposure:    settings.Exposure,
		SRGB:        settings.SRGB,
	}
}

// PostProcess maps a linear image to 8-bit RGBA. RGB channels are scaled to
// [0, 1], optionally tone mapped with 1 - exp(-exposure * x), optionally sRGB
// encoded, then clamped and rounded. Alpha passes through unchanged.
func PostProcess(img *LinearImage, config PostConfig) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c, alpha := img.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: mapChannel(c.X, config),
				G: mapChannel(c.Y, config),
				B: mapChannel(c.Z, config),
				A: toByte(alpha / 255),
			})
		}
	}
	return out
}

func mapChannel(value float64, config PostConfig) uint8 {
	v := value / 255
	if config.UseExposure {
		v = 1 - math.Exp(-config.Exposure*v)
	}
	if config.SRGB {
		v = LinearToSRGB(v)
	}
	return toByte(v)
}

// LinearToSRGB applies the sRGB transfer function, clamped to [0, 1]
func LinearToSRGB(c float64) float64 {
	var v float64
	if c < 0.0031308 {
		v = 12.92 * c
	} else {
		v = 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return math.Max(0, math.Min(1, v))
}

// toByte clamps to [0, 1] and rounds to the nearest 8-bit value
func toByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
