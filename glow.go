package posepaint

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxTextureRadius caps generated disc textures; larger draws scale up.
const maxTextureRadius = 128

// textureKey quantizes a radius to the integer size used for caching.
func textureKey(radius float64) int {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if key > maxTextureRadius {
		key = maxTextureRadius
	}
	return key
}

// discProfile is a solid disc with a one-pixel antialiased rim.
func discProfile(dist, radius float64) float64 {
	edge := radius - dist*radius
	return clamp01(edge + 0.5)
}

// glowProfile falls off smoothly from 1 at the center to 0 at the rim.
func glowProfile(dist, _ float64) float64 {
	if dist >= 1 {
		return 0
	}
	t := 1 - dist
	return t * t * (3 - 2*t)
}

// alphaMask renders a premultiplied white mask of the given radius where
// each pixel's alpha comes from profile(normalizedDistance, radius).
func alphaMask(radius float64, profile func(dist, radius float64) float64) []byte {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	pix := make([]byte, size*size*4)
	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius
			a := uint8(clamp01(profile(dist, radius)) * 255)
			off := (y*size + x) * 4
			pix[off+0] = a
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	return pix
}

// textureCache lazily generates and keeps mask textures keyed by radius.
type textureCache struct {
	profile func(dist, radius float64) float64
	images  map[int]*ebiten.Image
}

func (tc *textureCache) get(radius float64) *ebiten.Image {
	key := textureKey(radius)
	if tc.images == nil {
		tc.images = make(map[int]*ebiten.Image)
	}
	if img, ok := tc.images[key]; ok {
		return img
	}
	r := float64(key)
	size := int(math.Ceil(r * 2))
	img := ebiten.NewImage(size, size)
	img.WritePixels(alphaMask(r, tc.profile))
	tc.images[key] = img
	return img
}

func (tc *textureCache) dispose() {
	for _, img := range tc.images {
		img.Deallocate()
	}
	tc.images = nil
}

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// whiteSource returns a 1x1 white sub-image for solid triangle fills.
func whiteSource() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(ColorWhite.NRGBA())
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}
