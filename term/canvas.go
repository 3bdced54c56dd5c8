// Package term renders posepaint effects into a terminal through tcell.
// Each character cell accumulates color from every primitive touching its
// center; Flush writes the cells as shaded blocks.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/posepaint"
)

// shades maps brightness to block glyphs, darkest first.
var shades = []rune{' ', '░', '▒', '▓', '█'}

type cell struct {
	r, g, b float64
}

// Canvas is a posepaint.Canvas on a tcell.Screen. Pose space of width W and
// height H is mapped onto the screen's cell grid.
type Canvas struct {
	screen tcell.Screen
	w, h   float64
	cols   int
	rows   int
	cells  []cell

	blends []posepaint.BlendMode
	alphas []float64

	// Fade, when in (0, 1), dims the previous frame by that fraction in
	// BeginFrame instead of clearing it.
	Fade float64
}

// NewCanvas creates a canvas mapping a w×h pose space onto screen.
func NewCanvas(screen tcell.Screen, w, h float64) *Canvas {
	c := &Canvas{screen: screen, w: w, h: h}
	c.Resize()
	return c
}

// Resize re-reads the screen size and clears the cell buffer.
func (c *Canvas) Resize() {
	c.cols, c.rows = c.screen.Size()
	if c.cols < 0 {
		c.cols = 0
	}
	if c.rows < 0 {
		c.rows = 0
	}
	c.cells = make([]cell, c.cols*c.rows)
}

// Size returns the pose space dimensions.
func (c *Canvas) Size() (float64, float64) {
	return c.w, c.h
}

// Cells returns the grid dimensions.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// BeginFrame clears the buffer, or dims it when Fade is set.
func (c *Canvas) BeginFrame() {
	if c.Fade > 0 && c.Fade < 1 {
		k := 1 - c.Fade
		for i := range c.cells {
			c.cells[i].r *= k
			c.cells[i].g *= k
			c.cells[i].b *= k
		}
		return
	}
	clear(c.cells)
}

func (c *Canvas) PushBlend(b posepaint.BlendMode) { c.blends = append(c.blends, b) }

func (c *Canvas) PopBlend() {
	if len(c.blends) > 0 {
		c.blends = c.blends[:len(c.blends)-1]
	}
}

func (c *Canvas) PushAlpha(a float64) { c.alphas = append(c.alphas, math.Max(0, math.Min(1, a))) }

func (c *Canvas) PopAlpha() {
	if len(c.alphas) > 0 {
		c.alphas = c.alphas[:len(c.alphas)-1]
	}
}

func (c *Canvas) blend() posepaint.BlendMode {
	if len(c.blends) == 0 {
		return posepaint.BlendNormal
	}
	return c.blends[len(c.blends)-1]
}

func (c *Canvas) alpha() float64 {
	a := 1.0
	for _, v := range c.alphas {
		a *= v
	}
	return a
}

// cellSize returns the pose space extent of one cell.
func (c *Canvas) cellSize() (float64, float64) {
	if c.cols == 0 || c.rows == 0 {
		return 1, 1
	}
	return c.w / float64(c.cols), c.h / float64(c.rows)
}

// cellAt maps a pose space point to a cell index, or -1 off screen.
func (c *Canvas) cellAt(x, y float64) int {
	cw, ch := c.cellSize()
	col := int(math.Floor(x / cw))
	row := int(math.Floor(y / ch))
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return -1
	}
	return row*c.cols + col
}

// center returns the pose space center of cell (col, row).
func (c *Canvas) center(col, row int) (float64, float64) {
	cw, ch := c.cellSize()
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// plot blends col into cell i.
func (c *Canvas) plot(i int, col posepaint.Color) {
	if i < 0 {
		return
	}
	a := col.A * c.alpha()
	if a <= 0 {
		return
	}
	p := &c.cells[i]
	switch c.blend() {
	case posepaint.BlendAdd:
		p.r = math.Min(1, p.r+col.R*a)
		p.g = math.Min(1, p.g+col.G*a)
		p.b = math.Min(1, p.b+col.B*a)
	case posepaint.BlendScreen:
		p.r = 1 - (1-p.r)*(1-col.R*a)
		p.g = 1 - (1-p.g)*(1-col.G*a)
		p.b = 1 - (1-p.b)*(1-col.B*a)
	default:
		a = math.Min(a, 1)
		p.r += (col.R - p.r) * a
		p.g += (col.G - p.g) * a
		p.b += (col.B - p.b) * a
	}
}

// eachCell calls fn for every cell whose center lies in the box, passing the
// cell index and center.
func (c *Canvas) eachCell(x0, y0, x1, y1 float64, fn func(i int, cx, cy float64)) {
	cw, ch := c.cellSize()
	c0 := max(0, int(math.Floor(x0/cw)))
	r0 := max(0, int(math.Floor(y0/ch)))
	c1 := min(c.cols-1, int(math.Floor(x1/cw)))
	r1 := min(c.rows-1, int(math.Floor(y1/ch)))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx, cy := c.center(col, row)
			fn(row*c.cols+col, cx, cy)
		}
	}
}

func (c *Canvas) FillCircle(x, y, r float64, col posepaint.Color) {
	hit := false
	c.eachCell(x-r, y-r, x+r, y+r, func(i int, cx, cy float64) {
		if math.Hypot(cx-x, cy-y) <= r {
			c.plot(i, col)
			hit = true
		}
	})
	// Discs smaller than a cell still mark the cell they fall in.
	if !hit {
		c.plot(c.cellAt(x, y), col)
	}
}

func (c *Canvas) FillGlow(x, y, r float64, inner, outer posepaint.Color) {
	hit := false
	c.eachCell(x-r, y-r, x+r, y+r, func(i int, cx, cy float64) {
		d := math.Hypot(cx-x, cy-y)
		if d <= r && r > 0 {
			c.plot(i, inner.Lerp(outer, d/r))
			hit = true
		}
	})
	if !hit {
		c.plot(c.cellAt(x, y), inner)
	}
}

func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, col posepaint.Color) {
	cw, ch := c.cellSize()
	half := math.Max(width/2, math.Min(cw, ch)/2)
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	c.eachCell(math.Min(x1, x2)-half, math.Min(y1, y2)-half, math.Max(x1, x2)+half, math.Max(y1, y2)+half,
		func(i int, cx, cy float64) {
			t := 0.0
			if l2 > 0 {
				t = math.Max(0, math.Min(1, ((cx-x1)*dx+(cy-y1)*dy)/l2))
			}
			if math.Hypot(cx-(x1+t*dx), cy-(y1+t*dy)) <= half {
				c.plot(i, col)
			}
		})
}

func (c *Canvas) FillPath(pts []posepaint.Vec2, col posepaint.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	c.eachCell(minX, minY, maxX, maxY, func(i int, cx, cy float64) {
		if insidePolygon(pts, cx, cy) {
			c.plot(i, col)
		}
	})
}

// insidePolygon is the even-odd ray crossing test.
func insidePolygon(pts []posepaint.Vec2, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}

// Brightness returns the luminance of cell (col, row) in [0, 1].
func (c *Canvas) Brightness(col, row int) float64 {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	p := c.cells[row*c.cols+col]
	return 0.2126*p.r + 0.7152*p.g + 0.0722*p.b
}

// glyph picks the block for a brightness, which must be in [0, 1].
func glyph(v float64) rune {
	i := int(math.Round(v * float64(len(shades)-1)))
	return shades[max(0, min(len(shades)-1, i))]
}

// Flush writes the buffer to the screen and shows it.
func (c *Canvas) Flush() {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			p := c.cells[row*c.cols+col]
			v := c.Brightness(col, row)
			if v <= 0 {
				c.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}
			// Color carries hue; the glyph carries brightness.
			peak := math.Max(p.r, math.Max(p.g, p.b))
			fg := tcell.NewRGBColor(int32(p.r/peak*255), int32(p.g/peak*255), int32(p.b/peak*255))
			r := glyph(math.Max(v, 0.25))
			c.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(fg))
		}
	}
	c.screen.Show()
}
