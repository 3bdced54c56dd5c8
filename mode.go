package posepaint

import "strings"

// Mode selects the primary effect a Session renders.
type Mode uint8

const (
	ModeNone      Mode = iota // draws nothing
	ModeKeypoints             // dots on trusted keypoints
	ModeSkeleton              // limb lines
	ModeTrails                // fading keypoint history
	ModeCircles               // breathing glow circles
	ModeFireworks             // firework bursts
	ModeSmoke                 // wrist smoke plume
	ModeParticles             // noise paint particles

	modeCount
)

var modeNames = [modeCount]string{
	ModeNone:      "none",
	ModeKeypoints: "keypoints",
	ModeSkeleton:  "skeleton",
	ModeTrails:    "trails",
	ModeCircles:   "circles",
	ModeFireworks: "fireworks",
	ModeSmoke:     "smoke",
	ModeParticles: "particles",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return "none"
}

// ParseMode maps a mode name to a Mode. Matching ignores case and
// surrounding space. Unknown names map to ModeNone.
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return Mode(m)
		}
	}
	return ModeNone
}

// Modes returns every mode in key-binding order, ModeNone excluded.
func Modes() []Mode {
	return []Mode{ModeKeypoints, ModeSkeleton, ModeTrails, ModeCircles, ModeFireworks, ModeSmoke, ModeParticles}
}

// visualMode maps the direct painting modes onto the visualizer.
func (m Mode) visualMode() (VisualMode, bool) {
	switch m {
	case ModeKeypoints:
		return VisualKeypoints, true
	case ModeSkeleton:
		return VisualSkeleton, true
	case ModeTrails:
		return VisualTrails, true
	case ModeCircles:
		return VisualCircles, true
	}
	return 0, false
}
