package posepaint

// MovementLevel classifies how much a pose moved between two frames.
type MovementLevel uint8

const (
	MovementNone MovementLevel = iota // below the low threshold, or no data
	MovementLow                       // at or above the low threshold
	MovementHigh                      // at or above the high threshold
)

func (m MovementLevel) String() string {
	switch m {
	case MovementLow:
		return "low"
	case MovementHigh:
		return "high"
	default:
		return "none"
	}
}

// ClassifyMovement maps a displacement to a level. Both thresholds are
// inclusive lower bounds.
func ClassifyMovement(d, low, high float64) MovementLevel {
	switch {
	case d >= high:
		return MovementHigh
	case d >= low && d > 0:
		return MovementLow
	default:
		return MovementNone
	}
}

// MovementTracker remembers the last trusted position of a fixed set of
// keypoints for a single pose slot and measures frame-to-frame displacement.
type MovementTracker struct {
	indices []int
	last    []Vec2
	seen    []bool
}

// NewMovementTracker tracks the given keypoint indices.
func NewMovementTracker(indices []int) *MovementTracker {
	return &MovementTracker{
		indices: indices,
		last:    make([]Vec2, len(indices)),
		seen:    make([]bool, len(indices)),
	}
}

// Motion is the displacement measured for one update.
type Motion struct {
	// Mean is the mean displacement length over the keypoints trusted in
	// both the previous and the current frame.
	Mean float64
	// Delta is the mean displacement vector over the same keypoints.
	Delta Vec2
	// Samples is the number of keypoints that contributed.
	Samples int
}

// Update records the pose's positions and returns the displacement relative
// to the previous update. Keypoints untrusted in this frame are forgotten so
// a later reappearance does not register as a jump.
func (m *MovementTracker) Update(p Pose, minConfidence float64) Motion {
	var mo Motion
	var sum float64
	var vec Vec2
	for j, idx := range m.indices {
		k, ok := p.Keypoint(idx, minConfidence)
		if !ok {
			m.seen[j] = false
			continue
		}
		pos := k.Pos()
		if m.seen[j] {
			d := pos.Sub(m.last[j])
			sum += d.Len()
			vec = vec.Add(d)
			mo.Samples++
		}
		m.last[j] = pos
		m.seen[j] = true
	}
	if mo.Samples > 0 {
		mo.Mean = sum / float64(mo.Samples)
		mo.Delta = vec.Mul(1 / float64(mo.Samples))
	}
	return mo
}

// Reset forgets every remembered position.
func (m *MovementTracker) Reset() {
	for i := range m.seen {
		m.seen[i] = false
	}
}
