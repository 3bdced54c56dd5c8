package posepaint

import "math"

// Keypoint indices in the 17-point COCO order produced by the pose model.
const (
	KeypointNose = iota
	KeypointLeftEye
	KeypointRightEye
	KeypointLeftEar
	KeypointRightEar
	KeypointLeftShoulder
	KeypointRightShoulder
	KeypointLeftElbow
	KeypointRightElbow
	KeypointLeftWrist
	KeypointRightWrist
	KeypointLeftHip
	KeypointRightHip
	KeypointLeftKnee
	KeypointRightKnee
	KeypointLeftAnkle
	KeypointRightAnkle

	// KeypointCount is the number of keypoints in a complete pose.
	KeypointCount
)

// DefaultMinConfidence is the trust threshold used when none is configured.
const DefaultMinConfidence = 0.1

// Keypoint is one anatomical landmark in source-video pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"score"`
}

// Pose is one detected person's keypoints for one frame, in COCO order.
// Poses shorter than KeypointCount are tolerated; missing indices are
// treated as untrusted.
type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
}

// Connection links two keypoint indices for skeleton rendering.
type Connection struct {
	A, B int
}

// DefaultSkeleton is the standard COCO limb table.
var DefaultSkeleton = []Connection{
	{KeypointLeftAnkle, KeypointLeftKnee},
	{KeypointLeftKnee, KeypointLeftHip},
	{KeypointRightAnkle, KeypointRightKnee},
	{KeypointRightKnee, KeypointRightHip},
	{KeypointLeftHip, KeypointRightHip},
	{KeypointLeftShoulder, KeypointLeftHip},
	{KeypointRightShoulder, KeypointRightHip},
	{KeypointLeftShoulder, KeypointRightShoulder},
	{KeypointLeftShoulder, KeypointLeftElbow},
	{KeypointRightShoulder, KeypointRightElbow},
	{KeypointLeftElbow, KeypointLeftWrist},
	{KeypointRightElbow, KeypointRightWrist},
	{KeypointLeftEye, KeypointRightEye},
	{KeypointNose, KeypointLeftEye},
	{KeypointNose, KeypointRightEye},
	{KeypointLeftEye, KeypointLeftEar},
	{KeypointRightEye, KeypointRightEar},
}

// CoreLandmarks are the keypoints whose displacement measures whole-body movement.
var CoreLandmarks = []int{
	KeypointNose,
	KeypointLeftShoulder,
	KeypointRightShoulder,
	KeypointLeftHip,
	KeypointRightHip,
}

// AllKeypoints lists every index of a complete pose.
var AllKeypoints = func() []int {
	idx := make([]int, KeypointCount)
	for i := range idx {
		idx[i] = i
	}
	return idx
}()

// validThreshold reports whether minConfidence is usable. Out-of-range
// thresholds exclude every keypoint.
func validThreshold(minConfidence float64) bool {
	return minConfidence >= 0 && minConfidence <= 1
}

// Trusted reports whether the keypoint clears minConfidence. The comparison
// is strict; confidences or thresholds outside [0, 1] (including NaN) are
// never trusted.
func (k Keypoint) Trusted(minConfidence float64) bool {
	if !validThreshold(minConfidence) {
		return false
	}
	if !(k.Confidence >= 0 && k.Confidence <= 1) {
		return false
	}
	if math.IsNaN(k.X) || math.IsNaN(k.Y) || math.IsInf(k.X, 0) || math.IsInf(k.Y, 0) {
		return false
	}
	return k.Confidence > minConfidence
}

// Pos returns the keypoint position as a vector.
func (k Keypoint) Pos() Vec2 {
	return Vec2{k.X, k.Y}
}

// Keypoint returns the keypoint at index i and whether it exists and is trusted.
func (p Pose) Keypoint(i int, minConfidence float64) (Keypoint, bool) {
	if i < 0 || i >= len(p.Keypoints) {
		return Keypoint{}, false
	}
	k := p.Keypoints[i]
	return k, k.Trusted(minConfidence)
}

// Filtered returns a snapshot of the pose with one entry per keypoint index;
// ok[i] is false for untrusted or missing keypoints.
func (p Pose) Filtered(minConfidence float64) Snapshot {
	var s Snapshot
	for i := 0; i < KeypointCount; i++ {
		if k, ok := p.Keypoint(i, minConfidence); ok {
			s.Points[i] = k.Pos()
			s.OK[i] = true
		}
	}
	return s
}

// Snapshot is a confidence-filtered copy of one pose's keypoint positions.
type Snapshot struct {
	Points [KeypointCount]Vec2
	OK     [KeypointCount]bool
}

// CheckHandsUp reports whether either trusted wrist is above the trusted
// nose. Screen coordinates grow downward, so "above" means a smaller Y.
func CheckHandsUp(p Pose, minConfidence float64) bool {
	nose, ok := p.Keypoint(KeypointNose, minConfidence)
	if !ok {
		return false
	}
	for _, w := range [2]int{KeypointLeftWrist, KeypointRightWrist} {
		if k, ok := p.Keypoint(w, minConfidence); ok && k.Y < nose.Y {
			return true
		}
	}
	return false
}

// BothWristsAboveShoulders reports whether each wrist is above its own
// shoulder with all four keypoints trusted.
func BothWristsAboveShoulders(p Pose, minConfidence float64) bool {
	lw, ok1 := p.Keypoint(KeypointLeftWrist, minConfidence)
	rw, ok2 := p.Keypoint(KeypointRightWrist, minConfidence)
	ls, ok3 := p.Keypoint(KeypointLeftShoulder, minConfidence)
	rs, ok4 := p.Keypoint(KeypointRightShoulder, minConfidence)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return lw.Y < ls.Y && rw.Y < rs.Y
}

// ShoulderWidth returns the distance between the trusted shoulders.
func ShoulderWidth(p Pose, minConfidence float64) (float64, bool) {
	ls, ok1 := p.Keypoint(KeypointLeftShoulder, minConfidence)
	rs, ok2 := p.Keypoint(KeypointRightShoulder, minConfidence)
	if !ok1 || !ok2 {
		return 0, false
	}
	return rs.Pos().Sub(ls.Pos()).Len(), true
}

// KeypointNames are the COCO landmark names indexed by keypoint.
var KeypointNames = [KeypointCount]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

// KeypointIndex returns the index of a landmark name, or -1.
func KeypointIndex(name string) int {
	for i, n := range KeypointNames {
		if n == name {
			return i
		}
	}
	return -1
}
