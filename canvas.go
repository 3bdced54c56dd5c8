package posepaint

// Canvas is the primitive drawing surface every effect engine paints on.
// Coordinates are in pose pixel space. Backends apply the current blend and
// alpha scopes to every primitive.
type Canvas interface {
	// Size returns the drawable area in pixels.
	Size() (w, h float64)
	// FillCircle draws a solid disc.
	FillCircle(x, y, r float64, c Color)
	// StrokeLine draws a line segment of the given width.
	StrokeLine(x1, y1, x2, y2, width float64, c Color)
	// FillGlow draws a disc with a radial gradient from inner at the
	// center to outer at the rim.
	FillGlow(x, y, r float64, inner, outer Color)
	// FillPath fills the closed polygon through pts.
	FillPath(pts []Vec2, c Color)
	// PushBlend sets the blend mode until the matching PopBlend.
	PushBlend(BlendMode)
	PopBlend()
	// PushAlpha multiplies the opacity of subsequent draws by a until the
	// matching PopAlpha.
	PushAlpha(a float64)
	PopAlpha()
}

// canvasState tracks nested blend and alpha scopes for Canvas backends.
type canvasState struct {
	blends []BlendMode
	alphas []float64
}

func (s *canvasState) pushBlend(b BlendMode) { s.blends = append(s.blends, b) }

func (s *canvasState) popBlend() {
	if len(s.blends) > 0 {
		s.blends = s.blends[:len(s.blends)-1]
	}
}

func (s *canvasState) pushAlpha(a float64) { s.alphas = append(s.alphas, clamp01(a)) }

func (s *canvasState) popAlpha() {
	if len(s.alphas) > 0 {
		s.alphas = s.alphas[:len(s.alphas)-1]
	}
}

// blend returns the innermost blend mode.
func (s *canvasState) blend() BlendMode {
	if len(s.blends) == 0 {
		return BlendNormal
	}
	return s.blends[len(s.blends)-1]
}

// alpha returns the product of all alpha scopes.
func (s *canvasState) alpha() float64 {
	a := 1.0
	for _, v := range s.alphas {
		a *= v
	}
	return a
}

// DrawOp identifies a recorded primitive.
type DrawOp uint8

const (
	OpCircle DrawOp = iota
	OpLine
	OpGlow
	OpPath
)

// DrawCall is one primitive captured by a RecordingCanvas, with the blend
// mode and effective alpha scope in force when it was issued.
type DrawCall struct {
	Op     DrawOp
	Points []Vec2
	Radius float64
	Width  float64
	Color  Color
	Outer  Color
	Blend  BlendMode
	Alpha  float64
}

// RecordingCanvas is a headless Canvas that keeps every draw call in memory.
// It backs tests and headless runs that only need draw statistics.
type RecordingCanvas struct {
	W, H  float64
	Calls []DrawCall
	state canvasState
}

// NewRecordingCanvas returns an empty recorder of the given size.
func NewRecordingCanvas(w, h float64) *RecordingCanvas {
	return &RecordingCanvas{W: w, H: h}
}

func (r *RecordingCanvas) Size() (float64, float64) { return r.W, r.H }

func (r *RecordingCanvas) record(dc DrawCall) {
	dc.Blend = r.state.blend()
	dc.Alpha = r.state.alpha()
	r.Calls = append(r.Calls, dc)
}

func (r *RecordingCanvas) FillCircle(x, y, rad float64, c Color) {
	r.record(DrawCall{Op: OpCircle, Points: []Vec2{{x, y}}, Radius: rad, Color: c})
}

func (r *RecordingCanvas) StrokeLine(x1, y1, x2, y2, width float64, c Color) {
	r.record(DrawCall{Op: OpLine, Points: []Vec2{{x1, y1}, {x2, y2}}, Width: width, Color: c})
}

func (r *RecordingCanvas) FillGlow(x, y, rad float64, inner, outer Color) {
	r.record(DrawCall{Op: OpGlow, Points: []Vec2{{x, y}}, Radius: rad, Color: inner, Outer: outer})
}

func (r *RecordingCanvas) FillPath(pts []Vec2, c Color) {
	cp := make([]Vec2, len(pts))
	copy(cp, pts)
	r.record(DrawCall{Op: OpPath, Points: cp, Color: c})
}

func (r *RecordingCanvas) PushBlend(b BlendMode) { r.state.pushBlend(b) }
func (r *RecordingCanvas) PopBlend()             { r.state.popBlend() }
func (r *RecordingCanvas) PushAlpha(a float64)   { r.state.pushAlpha(a) }
func (r *RecordingCanvas) PopAlpha()             { r.state.popAlpha() }

// Reset discards recorded calls, keeping scopes intact.
func (r *RecordingCanvas) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns how many recorded calls used op.
func (r *RecordingCanvas) Count(op DrawOp) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Op == op {
			n++
		}
	}
	return n
}

// Touches reports whether any recorded call references the point (x, y).
func (r *RecordingCanvas) Touches(x, y float64) bool {
	for i := range r.Calls {
		for _, p := range r.Calls[i].Points {
			if p.X == x && p.Y == y {
				return true
			}
		}
	}
	return false
}
