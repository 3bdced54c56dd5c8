package posepaint

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and particle metrics.
// Only populated when Session.debug is true.
type debugStats struct {
	frame     uint64
	mode      Mode
	dt        float64
	poses     int
	particles int
	stepTime  time.Duration
}

// debugLog prints frame stats to stderr.
func (s *Session) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[posepaint] frame %d | mode: %s | dt: %.4f | poses: %d | particles: %d | step: %v\n",
		stats.frame, stats.mode, stats.dt, stats.poses, stats.particles, stats.stepTime)
	debugCheckPoseCount(stats.poses)
	debugCheckPoses(s.frame.Poses)
}

// debugCheckPoses warns on stderr about malformed poses.
func debugCheckPoses(poses []Pose) {
	for i, p := range poses {
		if len(p.Keypoints) != KeypointCount {
			_, _ = fmt.Fprintf(os.Stderr, "[posepaint] warning: pose %d has %d keypoints (want %d)\n",
				i, len(p.Keypoints), KeypointCount)
		}
	}
}

// debugMaxPoses is the pose count above which a frame is reported.
const debugMaxPoses = 8

// debugCheckPoseCount warns on stderr if a frame carries unusually many poses.
func debugCheckPoseCount(n int) bool {
	if n > debugMaxPoses {
		_, _ = fmt.Fprintf(os.Stderr, "[posepaint] warning: %d poses in one frame (threshold %d)\n",
			n, debugMaxPoses)
		return true
	}
	return false
}
