package posepaint

import (
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

// testFrame is one reference frame at 60 Hz.
const testFrame = 1.0 / 60

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func testRand() *rand.Rand {
	return newRand(42)
}

// fullPose returns a pose with every keypoint at (x, y) and the given confidence.
func fullPose(x, y, conf float64) Pose {
	kp := make([]Keypoint, KeypointCount)
	for i := range kp {
		kp[i] = Keypoint{X: x, Y: y, Confidence: conf}
	}
	return Pose{Keypoints: kp}
}

// standingPose returns a trusted upright figure with hands at the hips.
func standingPose(cx, cy float64) Pose {
	p := fullPose(cx, cy, 0.9)
	set := func(i int, x, y float64) {
		p.Keypoints[i].X, p.Keypoints[i].Y = cx+x, cy+y
	}
	set(KeypointNose, 0, -100)
	set(KeypointLeftEye, -8, -108)
	set(KeypointRightEye, 8, -108)
	set(KeypointLeftEar, -15, -104)
	set(KeypointRightEar, 15, -104)
	set(KeypointLeftShoulder, -40, -60)
	set(KeypointRightShoulder, 40, -60)
	set(KeypointLeftElbow, -50, -10)
	set(KeypointRightElbow, 50, -10)
	set(KeypointLeftWrist, -50, 30)
	set(KeypointRightWrist, 50, 30)
	set(KeypointLeftHip, -25, 40)
	set(KeypointRightHip, 25, 40)
	set(KeypointLeftKnee, -25, 110)
	set(KeypointRightKnee, 25, 110)
	set(KeypointLeftAnkle, -25, 180)
	set(KeypointRightAnkle, 25, 180)
	return p
}

// raiseHands lifts both wrists above the head by dy, offset horizontally by dx.
func raiseHands(p Pose, dx, dy float64) Pose {
	q := clonePose(p)
	nose := q.Keypoints[KeypointNose]
	q.Keypoints[KeypointLeftWrist].X = nose.X - 60 + dx
	q.Keypoints[KeypointLeftWrist].Y = nose.Y - dy
	q.Keypoints[KeypointRightWrist].X = nose.X + 60 + dx
	q.Keypoints[KeypointRightWrist].Y = nose.Y - dy
	return q
}
