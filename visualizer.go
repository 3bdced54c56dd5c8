package posepaint

import (
	"math"
	"math/rand/v2"
)

// VisualMode selects how PoseVisualizer paints keypoints.
type VisualMode uint8

const (
	VisualKeypoints VisualMode = iota // one dot per trusted keypoint
	VisualSkeleton                    // limb lines between trusted endpoints
	VisualTrails                      // fading history of recent keypoints
	VisualCircles                     // breathing glow circles with gesture growth
)

// VisualizerConfig holds the tunables of the circle and trail painters.
type VisualizerConfig struct {
	// TrailLength caps the snapshots kept per pose slot.
	TrailLength int
	// CircleAmplitude is the breathing amplitude as a fraction of the base size.
	CircleAmplitude float64
	// CircleFrequency is the breathing angular frequency in radians per second.
	CircleFrequency float64
	// CirclePhase is the phase offset between consecutive keypoint indices.
	CirclePhase float64
	// GrowthRate is how fast the hands-up growth accumulates, per second.
	GrowthRate float64
	// GrowthDecay is the per-reference-frame decay factor once hands drop.
	GrowthDecay float64
	// MaxGrowth caps the growth accumulator; circles scale by 1+growth.
	MaxGrowth float64
	// GlowEdgeAlpha is the rim opacity relative to the core. Never zero.
	GlowEdgeAlpha float64
	// LowMovement and HighMovement are the core-landmark displacement
	// thresholds in pixels per frame.
	LowMovement  float64
	HighMovement float64
	// LowRecolorChance and HighRecolorChance are per-reference-frame
	// probabilities of recoloring one random keypoint.
	LowRecolorChance  float64
	HighRecolorChance float64
	// Palette supplies the circle colors. Empty uses DefaultPalette.
	Palette Palette
}

// DefaultVisualizerConfig returns the stock painter tunables.
func DefaultVisualizerConfig() VisualizerConfig {
	return VisualizerConfig{
		TrailLength:       DefaultTrailLength,
		CircleAmplitude:   0.3,
		CircleFrequency:   2.0,
		CirclePhase:       0.5,
		GrowthRate:        1.5,
		GrowthDecay:       0.95,
		MaxGrowth:         3.0,
		GlowEdgeAlpha:     0.25,
		LowMovement:       1.5,
		HighMovement:      6.0,
		LowRecolorChance:  0.03,
		HighRecolorChance: 0.15,
	}
}

// circleSlot is the per-pose state of the circle painter.
type circleSlot struct {
	colors   [KeypointCount]Color
	assigned [KeypointCount]bool
	tracker  *MovementTracker
	level    MovementLevel
}

// PoseVisualizer paints keypoints directly: dots, skeleton lines, fading
// trails, or breathing glow circles that grow while the hands are raised and
// recolor when the body moves.
type PoseVisualizer struct {
	mode    VisualMode
	color   Color
	size    float64
	opacity float64
	cfg     VisualizerConfig

	trails  slotArena[TrailBuffer]
	circles slotArena[circleSlot]
	growth  float64
	handsUp bool
	clock   float64
	rng     *rand.Rand
}

// NewPoseVisualizer creates a painter in keypoints mode with white 10px dots.
func NewPoseVisualizer(cfg VisualizerConfig, rng *rand.Rand) *PoseVisualizer {
	if rng == nil {
		rng = newRand(0)
	}
	if cfg.GlowEdgeAlpha <= 0 {
		cfg.GlowEdgeAlpha = 0.25
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultPalette
	}
	v := &PoseVisualizer{
		color:   ColorWhite,
		size:    10,
		opacity: 1,
		cfg:     cfg,
		rng:     rng,
	}
	v.trails = newSlotArena(func() *TrailBuffer { return NewTrailBuffer(v.cfg.TrailLength) })
	v.circles = newSlotArena(func() *circleSlot {
		return &circleSlot{tracker: NewMovementTracker(CoreLandmarks)}
	})
	return v
}

// Configure sets the paint mode, color, size (diameter in pixels) and
// opacity in percent (0-100).
func (v *PoseVisualizer) Configure(mode VisualMode, color Color, size, opacity float64) {
	v.mode = mode
	v.color = color
	if size > 0 {
		v.size = size
	}
	v.opacity = clamp01(opacity / 100)
}

// SetMode switches the paint mode, keeping color, size and opacity.
func (v *PoseVisualizer) SetMode(mode VisualMode) {
	v.mode = mode
}

// Mode returns the current paint mode.
func (v *PoseVisualizer) Mode() VisualMode {
	return v.mode
}

// Growth returns the current hands-up growth accumulator in [0, MaxGrowth].
func (v *PoseVisualizer) Growth() float64 {
	return v.growth
}

// HandsUp reports whether the last rendered frame had raised hands.
func (v *PoseVisualizer) HandsUp() bool {
	return v.handsUp
}

// Render paints one frame of poses and advances the painter's state by dt
// seconds. Missing and untrusted keypoints are skipped.
func (v *PoseVisualizer) Render(c Canvas, poses []Pose, conns []Connection, minConfidence, dt float64) {
	v.clock += dt
	v.trails.Trim(len(poses))
	v.circles.Trim(len(poses))

	c.PushAlpha(v.opacity)
	defer c.PopAlpha()

	switch v.mode {
	case VisualKeypoints:
		v.drawKeypoints(c, poses, minConfidence)
	case VisualSkeleton:
		v.drawSkeleton(c, poses, conns, minConfidence)
	case VisualTrails:
		v.drawTrails(c, poses, minConfidence)
	case VisualCircles:
		v.updateGrowth(poses, minConfidence, dt)
		v.drawCircles(c, poses, minConfidence, dt)
	}
}

func (v *PoseVisualizer) drawKeypoints(c Canvas, poses []Pose, minConfidence float64) {
	col := v.color
	for _, p := range poses {
		for i := range p.Keypoints {
			k, ok := p.Keypoint(i, minConfidence)
			if !ok {
				continue
			}
			c.FillCircle(k.X, k.Y, v.size/2, col)
		}
	}
}

func (v *PoseVisualizer) drawSkeleton(c Canvas, poses []Pose, conns []Connection, minConfidence float64) {
	col := v.color
	for _, p := range poses {
		for _, cn := range conns {
			a, okA := p.Keypoint(cn.A, minConfidence)
			b, okB := p.Keypoint(cn.B, minConfidence)
			if !okA || !okB {
				continue
			}
			c.StrokeLine(a.X, a.Y, b.X, b.Y, v.size/2, col)
		}
	}
}

func (v *PoseVisualizer) drawTrails(c Canvas, poses []Pose, minConfidence float64) {
	for i, p := range poses {
		tb := v.trails.Get(i)
		tb.Push(p.Filtered(minConfidence))
		n := tb.Len()
		for age := 0; age < n; age++ {
			alpha := float64(age+1) / float64(n)
			col := v.color.Scale(alpha)
			s := tb.At(age)
			for k := 0; k < KeypointCount; k++ {
				if !s.OK[k] {
					continue
				}
				c.FillCircle(s.Points[k].X, s.Points[k].Y, v.size/2, col)
			}
		}
	}
}

// updateGrowth ramps the growth accumulator while any pose has raised hands
// and decays it geometrically otherwise.
func (v *PoseVisualizer) updateGrowth(poses []Pose, minConfidence, dt float64) {
	v.handsUp = false
	for _, p := range poses {
		if CheckHandsUp(p, minConfidence) {
			v.handsUp = true
			break
		}
	}
	if v.handsUp {
		v.growth = math.Min(v.growth+v.cfg.GrowthRate*dt, v.cfg.MaxGrowth)
		return
	}
	v.growth *= math.Pow(v.cfg.GrowthDecay, frameUnits(dt))
	if v.growth < 1e-4 {
		v.growth = 0
	}
}

func isEar(k int) bool {
	return k == KeypointLeftEar || k == KeypointRightEar
}

func (v *PoseVisualizer) drawCircles(c Canvas, poses []Pose, minConfidence, dt float64) {
	c.PushBlend(BlendAdd)
	defer c.PopBlend()

	scale := 1 + v.growth
	for i, p := range poses {
		slot := v.circles.Get(i)
		v.recolor(slot, p, minConfidence, dt)

		for k := 0; k < KeypointCount; k++ {
			if isEar(k) {
				continue
			}
			kp, ok := p.Keypoint(k, minConfidence)
			if !ok {
				continue
			}
			if !slot.assigned[k] {
				slot.colors[k] = v.cfg.Palette.Random(v.rng)
				slot.assigned[k] = true
			}
			r := v.size/2 + v.cfg.CircleAmplitude*v.size/2*math.Sin(v.clock*v.cfg.CircleFrequency+float64(k)*v.cfg.CirclePhase)
			if r < 1 {
				r = 1
			}
			r *= scale
			base := slot.colors[k]
			inner := base.Lerp(ColorWhite, 0.5).WithAlpha(1)
			outer := base.WithAlpha(v.cfg.GlowEdgeAlpha)
			c.FillGlow(kp.X, kp.Y, r, inner, outer)
		}
	}
}

// recolor measures core-landmark movement for one slot and, depending on
// the movement level, reassigns one random keypoint's palette color.
func (v *PoseVisualizer) recolor(slot *circleSlot, p Pose, minConfidence, dt float64) {
	mo := slot.tracker.Update(p, minConfidence)
	// Mean is measured per step; normalize to reference frames.
	perFrame := mo.Mean
	if f := frameUnits(dt); f > 0 {
		perFrame = mo.Mean / f
	}
	slot.level = ClassifyMovement(perFrame, v.cfg.LowMovement, v.cfg.HighMovement)

	var chance float64
	switch slot.level {
	case MovementHigh:
		chance = v.cfg.HighRecolorChance
	case MovementLow:
		chance = v.cfg.LowRecolorChance
	default:
		return
	}
	if v.rng.Float64() >= perFrameChance(chance, dt) {
		return
	}
	k := v.rng.IntN(KeypointCount - 2)
	if k >= KeypointLeftEar {
		k += 2
	}
	slot.colors[k] = v.cfg.Palette.Random(v.rng)
	slot.assigned[k] = true
}

// MovementLevel returns the last movement classification of pose slot i.
func (v *PoseVisualizer) MovementLevel(i int) MovementLevel {
	if s := v.circles.Peek(i); s != nil {
		return s.level
	}
	return MovementNone
}

// Reset clears trails, color assignments, trackers and growth.
func (v *PoseVisualizer) Reset() {
	v.trails.Reset()
	v.circles.Reset()
	v.growth = 0
	v.handsUp = false
}
