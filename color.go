package posepaint

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color triple as written in hex color strings.
type RGB struct {
	R, G, B uint8
}

// HexToRGB parses a "#RRGGBB" (or "RRGGBB") string. Case is ignored.
func HexToRGB(hex string) (RGB, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 {
		return RGB{}, fmt.Errorf("parse hex color %q: want 6 hex digits", hex)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// RGBToHex formats c as a lowercase "#rrggbb" string.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color converts the triple to an opaque Color.
func (c RGB) Color() Color {
	return Color{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, 1}
}

// ParseColor parses a hex string into an opaque Color, falling back to fallback
// when the string is malformed.
func ParseColor(hex string, fallback Color) Color {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return fallback
	}
	return rgb.Color()
}

// HSVToRGB converts hue in degrees (any value, wrapped to [0, 360)) and
// saturation/value in [0, 1] to an opaque Color. A NaN or infinite hue
// is treated as 0.
func HSVToRGB(h, s, v float64) Color {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsv(h, clamp01(s), clamp01(v)).Clamped()
	return Color{c.R, c.G, c.B, 1}
}

// NRGBA converts c to a non-premultiplied standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Palette is the set of colors the circle painter and firework bursts draw from.
type Palette []Color

// DefaultPalette is a saturated neon set that reads well under additive blending.
var DefaultPalette = Palette{
	{1.00, 0.20, 0.40, 1},
	{1.00, 0.55, 0.10, 1},
	{1.00, 0.90, 0.20, 1},
	{0.30, 1.00, 0.45, 1},
	{0.10, 0.85, 1.00, 1},
	{0.35, 0.45, 1.00, 1},
	{0.75, 0.30, 1.00, 1},
	{1.00, 0.35, 0.85, 1},
}

// Random returns a uniformly chosen palette entry. An empty palette yields white.
func (p Palette) Random(rng *rand.Rand) Color {
	if len(p) == 0 {
		return ColorWhite
	}
	return p[rng.IntN(len(p))]
}

// HuePalette builds n evenly spaced hues at the given saturation and value.
func HuePalette(n int, s, v float64) Palette {
	if n <= 0 {
		return nil
	}
	p := make(Palette, n)
	for i := range p {
		p[i] = HSVToRGB(float64(i)*360/float64(n), s, v)
	}
	return p
}
