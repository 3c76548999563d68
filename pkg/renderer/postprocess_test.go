package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestPostProcess_Identity(t *testing.T) {
	img := NewLinearImage(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := float64(y*16 + x)
			img.Set(x, y, core.NewVec3(v, 255-v, float64(x)), float64(y*17))
		}
	}

	out := PostProcess(img, PostConfig{})
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c, alpha := img.At(x, y)
			got := out.NRGBAAt(x, y)
			if float64(got.R) != c.X || float64(got.G) != c.Y || float64(got.B) != c.Z || float64(got.A) != alpha {
				t.Fatalf("pixel (%d,%d): expected %v/%f, got %v", x, y, c, alpha, got)
			}
		}
	}
}

func TestPostProcess_ClampsOverbright(t *testing.T) {
	img := NewLinearImage(1, 1)
	img.Set(0, 0, core.NewVec3(600, -3, 128), 255)

	got := PostProcess(img, PostConfig{}).NRGBAAt(0, 0)
	if got.R != 255 || got.G != 0 || got.B != 128 {
		t.Errorf("Expected (255, 0, 128), got %v", got)
	}
}

func TestPostProcess_Exposure(t *testing.T) {
	img := NewLinearImage(1, 1)
	img.Set(0, 0, core.NewVec3(0, 255, 510), 100)

	got := PostProcess(img, PostConfig{UseExposure: true, Exposure: 2}).NRGBAAt(0, 0)
	expectedG := uint8(math.Round((1 - math.Exp(-2)) * 255))
	expectedB := uint8(math.Round((1 - math.Exp(-4)) * 255))
	if got.R != 0 || got.G != expectedG || got.B != expectedB {
		t.Errorf("Expected (0, %d, %d), got %v", expectedG, expectedB, got)
	}
	if got.A != 100 {
		t.Errorf("Expected alpha to pass through, got %d", got.A)
	}
}

func TestLinearToSRGB(t *testing.T) {
	tests := []struct {
		linear   float64
		expected float64
	}{
		{0, 0},
		{0.002, 0.002 * 12.92},
		{0.5, 1.055*math.Pow(0.5, 1/2.4) - 0.055},
		{1, 1},
		{4, 1},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := LinearToSRGB(tt.linear); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("LinearToSRGB(%f) = %f, want %f", tt.linear, got, tt.expected)
		}
	}
}

func TestPostProcess_SRGBAndSettings(t *testing.T) {
	settings := scene.DefaultRenderSettings()
	config := PostConfigFromSettings(settings)
	if !config.SRGB || config.UseExposure {
		t.Fatalf("Unexpected config from defaults: %+v", config)
	}

	img := NewLinearImage(1, 1)
	img.Set(0, 0, core.NewVec3(255*0.5, 0, 255), 255)
	got := PostProcess(img, config).NRGBAAt(0, 0)

	// linear 0.5 encodes to about 0.735
	if got.R != uint8(math.Round(LinearToSRGB(0.5)*255)) || got.R < 185 || got.R > 190 {
		t.Errorf("Expected sRGB mid grey near 188, got %d", got.R)
	}
	if got.G != 0 || got.B != 255 || got.A != 255 {
		t.Errorf("Expected end points to be preserved, got %v", got)
	}
}
