package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// SRGBToLinear decodes one sRGB channel in [0, 1]
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LoadTexture decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image into a
// linear RGB texture. Alpha is dropped without premultiplying.
func LoadTexture(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", filename, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts 8-bit sRGB pixels to a linear texture
func TextureFromImage(img image.Image) *material.ImageTexture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	// sRGB decoding depends only on the byte value
	var lut [256]float64
	for i := range lut {
		lut[i] = SRGBToLinear(float64(i) / 255)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			pixels[y*width+x] = core.NewVec3(lut[c.R], lut[c.G], lut[c.B])
		}
	}

	return material.NewImageTexture(width, height, pixels)
}

// TextureCache loads each texture file once. Primitives that name the same
// file share one texture and so compare equal as materials.
type TextureCache struct {
	mu       sync.Mutex
	textures map[string]*material.ImageTexture
	load     func(string) (*material.ImageTexture, error)
}

// NewTextureCache creates a cache backed by LoadTexture
func NewTextureCache() *TextureCache {
	return &TextureCache{
		textures: make(map[string]*material.ImageTexture),
		load:     LoadTexture,
	}
}

// Load returns the cached texture for filename, loading it on first use
func (tc *TextureCache) Load(filename string) (material.Texture, error) {
	key := filepath.Clean(filename)

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if texture, ok := tc.textures[key]; ok {
		return texture, nil
	}
	texture, err := tc.load(key)
	if err != nil {
		return nil, err
	}
	tc.textures[key] = texture
	return texture, nil
}

// Len returns the number of distinct textures loaded
func (tc *TextureCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.textures)
}
