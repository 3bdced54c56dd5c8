package posepaint

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ImageCanvas is a Canvas backed by a persistent *ebiten.Image. Discs and
// glows are drawn from cached generated mask textures so blend scopes apply
// uniformly to every primitive.
type ImageCanvas struct {
	image *ebiten.Image
	owned bool
	state canvasState

	discs textureCache
	glows textureCache
	op    ebiten.DrawImageOptions

	// Background is the color BeginFrame clears or veils to.
	Background Color
	// Fade, when in (0, 1), makes BeginFrame veil the previous frame with
	// Background at that alpha instead of clearing it, leaving afterimages.
	Fade float64
}

// NewImageCanvas creates a canvas owning a new offscreen image of the given size.
func NewImageCanvas(w, h int) *ImageCanvas {
	c := WrapImage(ebiten.NewImage(w, h))
	c.owned = true
	return c
}

// WrapImage creates a canvas drawing directly onto img.
func WrapImage(img *ebiten.Image) *ImageCanvas {
	return &ImageCanvas{
		image:      img,
		discs:      textureCache{profile: discProfile},
		glows:      textureCache{profile: glowProfile},
		Background: Color{0, 0, 0, 1},
	}
}

// Image returns the underlying image.
func (c *ImageCanvas) Image() *ebiten.Image {
	return c.image
}

func (c *ImageCanvas) Size() (float64, float64) {
	b := c.image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// BeginFrame prepares the surface for a new frame: a full clear to
// Background, or a translucent veil when Fade is set.
func (c *ImageCanvas) BeginFrame() {
	if c.Fade > 0 && c.Fade < 1 {
		w, h := c.Size()
		vector.DrawFilledRect(c.image, 0, 0, float32(w), float32(h), c.Background.WithAlpha(c.Fade).NRGBA(), false)
		return
	}
	c.Clear()
}

// Clear fills the surface with Background.
func (c *ImageCanvas) Clear() {
	c.image.Fill(c.Background.NRGBA())
}

func (c *ImageCanvas) PushBlend(b BlendMode) { c.state.pushBlend(b) }
func (c *ImageCanvas) PopBlend()             { c.state.popBlend() }
func (c *ImageCanvas) PushAlpha(a float64)   { c.state.pushAlpha(a) }
func (c *ImageCanvas) PopAlpha()             { c.state.popAlpha() }

// drawMask draws a square mask texture centered on (x, y) at radius r, tinted
// with col under the current scopes.
func (c *ImageCanvas) drawMask(img *ebiten.Image, x, y, r float64, col Color) {
	a := col.A * c.state.alpha()
	if r <= 0 || a <= 0 {
		return
	}
	op := &c.op
	op.GeoM.Reset()
	src := float64(img.Bounds().Dx())
	op.GeoM.Scale(r*2/src, r*2/src)
	op.GeoM.Translate(x-r, y-r)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(col.R*a), float32(col.G*a), float32(col.B*a), float32(a))
	op.Blend = c.state.blend().EbitenBlend()
	op.Filter = ebiten.FilterLinear
	c.image.DrawImage(img, op)
}

func (c *ImageCanvas) FillCircle(x, y, r float64, col Color) {
	c.drawMask(c.discs.get(r), x, y, r, col)
}

// FillGlow composites a flat rim-colored disc with a smooth falloff in the
// inner color, approximating a two-stop radial gradient.
func (c *ImageCanvas) FillGlow(x, y, r float64, inner, outer Color) {
	c.drawMask(c.discs.get(r), x, y, r, outer)
	c.drawMask(c.glows.get(r), x, y, r, inner)
}

func (c *ImageCanvas) StrokeLine(x1, y1, x2, y2, width float64, col Color) {
	a := col.A * c.state.alpha()
	if a <= 0 || width <= 0 {
		return
	}
	if c.state.blend() == BlendNormal {
		vector.StrokeLine(c.image, float32(x1), float32(y1), float32(x2), float32(y2),
			float32(width), col.WithAlpha(a).NRGBA(), true)
		return
	}
	// Custom blends: draw a rotated, stretched white pixel.
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	op := &c.op
	op.GeoM.Reset()
	op.GeoM.Scale(length, width)
	op.GeoM.Translate(0, -width/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(col.R*a), float32(col.G*a), float32(col.B*a), float32(a))
	op.Blend = c.state.blend().EbitenBlend()
	op.Filter = ebiten.FilterLinear
	c.image.DrawImage(whiteSource(), op)
}

func (c *ImageCanvas) FillPath(pts []Vec2, col Color) {
	a := col.A * c.state.alpha()
	if len(pts) < 3 || a <= 0 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(col.R * a)
		vs[i].ColorG = float32(col.G * a)
		vs[i].ColorB = float32(col.B * a)
		vs[i].ColorA = float32(a)
	}
	op := &ebiten.DrawTrianglesOptions{Blend: c.state.blend().EbitenBlend(), AntiAlias: true}
	c.image.DrawTriangles(vs, is, whiteSource(), op)
}

// Dispose releases cached textures, and the image itself when the canvas
// created it.
func (c *ImageCanvas) Dispose() {
	c.discs.dispose()
	c.glows.dispose()
	if c.owned && c.image != nil {
		c.image.Deallocate()
	}
	c.image = nil
}
