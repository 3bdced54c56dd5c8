package posepaint

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSteps is returned when a pose script has no steps.
var ErrNoSteps = errors.New("no steps")

// scriptStep represents a single action in a pose script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Poses  []Pose `json:"poses,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// poseScript is the top-level JSON structure for a pose script.
type poseScript struct {
	Steps []scriptStep `json:"steps"`
}

// Screenshotter captures a labeled screenshot of the rendered frame.
type Screenshotter interface {
	Screenshot(label string)
}

// PoseScript sequences poses, mode switches and screenshots across frames
// for automated visual testing. It is also the PoseSource for the run.
type PoseScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	poses     []Pose
	done      bool
}

// LoadPoseScript parses a JSON pose script.
func LoadPoseScript(jsonData []byte) (*PoseScript, error) {
	var script poseScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse pose script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse pose script: %w", ErrNoSteps)
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "pose", "mode", "wait", "screenshot", "clear":
		default:
			return nil, fmt.Errorf("parse pose script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &PoseScript{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *PoseScript) Done() bool {
	return r.done
}

// Poses returns the poses set by the most recent pose step.
func (r *PoseScript) Poses() []Pose {
	return r.poses
}

// Step advances the script by one frame. Call it once per frame before
// Session.Render. shots may be nil, in which case screenshot steps are skipped.
func (r *PoseScript) Step(s *Session, shots Screenshotter) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "pose":
		r.poses = st.Poses
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "mode":
		s.SetMode(ParseMode(st.Mode))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "screenshot":
		if shots != nil {
			shots.Screenshot(st.Label)
		}
	case "clear":
		r.poses = nil
		s.Reset()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
