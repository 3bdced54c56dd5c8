package posepaint

import (
	"math"
	"sync"
)

// PoseSource supplies the latest frame of poses. Implementations must be
// safe to call once per frame from the render loop.
type PoseSource interface {
	Poses() []Pose
}

// Advancer is implemented by sources that animate on the session clock.
type Advancer interface {
	Advance(dt float64)
}

// StaticSource returns a fixed set of poses until replaced with Set.
type StaticSource struct {
	mu    sync.Mutex
	poses []Pose
}

// NewStaticSource creates a source returning poses.
func NewStaticSource(poses ...Pose) *StaticSource {
	return &StaticSource{poses: poses}
}

// Set replaces the poses returned by the source.
func (s *StaticSource) Set(poses []Pose) {
	s.mu.Lock()
	s.poses = poses
	s.mu.Unlock()
}

func (s *StaticSource) Poses() []Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poses
}

// SyntheticSource animates stand-in dancers for demos and headless runs.
// Each dancer sways with arms lowered for the first half of Period and
// waves with both hands above the head for the second half.
type SyntheticSource struct {
	// Width and Height are the frame size the dancers are laid out in.
	Width, Height float64
	// People is the number of dancers.
	People int
	// Period is the length of one sway-then-wave cycle in seconds.
	Period float64
	// Confidence is the score given to every keypoint.
	Confidence float64

	clock float64
	poses []Pose
}

// NewSyntheticSource creates a source of n dancers in a w×h frame.
func NewSyntheticSource(w, h float64, n int) *SyntheticSource {
	if n <= 0 {
		n = 1
	}
	return &SyntheticSource{Width: w, Height: h, People: n, Period: 6, Confidence: 0.9}
}

// Advance moves the animation forward by dt seconds.
func (s *SyntheticSource) Advance(dt float64) {
	s.clock += dt
}

// HandsUp reports whether the dancers are in the raised-hands phase.
func (s *SyntheticSource) HandsUp() bool {
	if s.Period <= 0 {
		return false
	}
	return math.Mod(s.clock, s.Period) >= s.Period/2
}

// Poses returns the dancers at the current clock. The returned slice is
// reused by the next call.
func (s *SyntheticSource) Poses() []Pose {
	if cap(s.poses) < s.People {
		s.poses = make([]Pose, s.People)
	}
	s.poses = s.poses[:s.People]
	for i := range s.poses {
		if len(s.poses[i].Keypoints) != KeypointCount {
			s.poses[i].Keypoints = make([]Keypoint, KeypointCount)
		}
		cx := s.Width * float64(i+1) / float64(s.People+1)
		s.dancer(s.poses[i].Keypoints, cx, float64(i))
	}
	return s.poses
}

// dancer writes one animated pose centered horizontally on cx.
func (s *SyntheticSource) dancer(kp []Keypoint, cx, phase float64) {
	u := s.Height / 8
	t := s.clock + phase*0.7
	sway := math.Sin(t*1.6) * u * 0.4
	bob := math.Abs(math.Sin(t*3.2)) * u * 0.15

	top := s.Height*0.25 + bob
	x := cx + sway
	set := func(i int, px, py float64) {
		kp[i] = Keypoint{X: px, Y: py, Confidence: s.Confidence}
	}

	set(KeypointNose, x, top)
	set(KeypointLeftEye, x-u*0.15, top-u*0.12)
	set(KeypointRightEye, x+u*0.15, top-u*0.12)
	set(KeypointLeftEar, x-u*0.3, top-u*0.05)
	set(KeypointRightEar, x+u*0.3, top-u*0.05)

	sy := top + u*0.8
	hy := sy + u*2.2
	set(KeypointLeftShoulder, x-u*0.8, sy)
	set(KeypointRightShoulder, x+u*0.8, sy)
	set(KeypointLeftHip, x-u*0.5, hy)
	set(KeypointRightHip, x+u*0.5, hy)

	if s.HandsUp() {
		wave := math.Sin(t*6) * u * 0.5
		set(KeypointLeftElbow, x-u*1.3, sy-u*0.8)
		set(KeypointRightElbow, x+u*1.3, sy-u*0.8)
		set(KeypointLeftWrist, x-u*1.1+wave, top-u*1.2)
		set(KeypointRightWrist, x+u*1.1-wave, top-u*1.2)
	} else {
		swing := math.Sin(t*2.4) * u * 0.6
		set(KeypointLeftElbow, x-u*1.1, sy+u*1.0)
		set(KeypointRightElbow, x+u*1.1, sy+u*1.0)
		set(KeypointLeftWrist, x-u*1.2+swing, sy+u*2.0)
		set(KeypointRightWrist, x+u*1.2-swing, sy+u*2.0)
	}

	ky := hy + u*1.5
	ay := ky + u*1.5
	step := math.Sin(t*3.2) * u * 0.3
	set(KeypointLeftKnee, x-u*0.55+step, ky)
	set(KeypointRightKnee, x+u*0.55-step, ky)
	set(KeypointLeftAnkle, x-u*0.6+step, ay)
	set(KeypointRightAnkle, x+u*0.6-step, ay)
}
