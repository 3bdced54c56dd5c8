package posepaint

import (
	"math"
	"testing"
)

func newTestVisualizer() *PoseVisualizer {
	return NewPoseVisualizer(DefaultVisualizerConfig(), testRand())
}

func TestKeypoints_DrawsOnlyTrusted(t *testing.T) {
	v := newTestVisualizer()
	c := NewRecordingCanvas(640, 480)

	p := standingPose(200, 200)
	p.Keypoints[KeypointLeftKnee].Confidence = 0.05
	p.Keypoints = p.Keypoints[:KeypointRightAnkle] // drop one index entirely

	v.Render(c, []Pose{p}, DefaultSkeleton, 0.1, testFrame)

	if got := c.Count(OpCircle); got != KeypointCount-2 {
		t.Errorf("circles = %d, want %d", got, KeypointCount-2)
	}
	knee := p.Keypoints[KeypointLeftKnee]
	if c.Touches(knee.X, knee.Y) {
		t.Error("untrusted keypoint should not be drawn")
	}
	nose := p.Keypoints[KeypointNose]
	if !c.Touches(nose.X, nose.Y) {
		t.Error("trusted nose should be drawn")
	}
	if r := c.Calls[0].Radius; r != 5 {
		t.Errorf("radius = %v, want half the 10px size", r)
	}
}

func TestKeypoints_Opacity(t *testing.T) {
	v := newTestVisualizer()
	v.Configure(VisualKeypoints, ColorWhite, 8, 50)
	c := NewRecordingCanvas(640, 480)
	v.Render(c, []Pose{standingPose(200, 200)}, nil, 0.1, testFrame)
	assertNear(t, "scope alpha", c.Calls[0].Alpha, 0.5)
	assertNear(t, "color alpha", c.Calls[0].Color.A, 1)
	assertNear(t, "radius", c.Calls[0].Radius, 4)

	// The opacity scope is popped once the render returns.
	c.Reset()
	c.FillCircle(0, 0, 1, ColorWhite)
	assertNear(t, "alpha after render", c.Calls[0].Alpha, 1)
}

func TestOpacityScopesEveryMode(t *testing.T) {
	for _, mode := range []VisualMode{VisualKeypoints, VisualSkeleton, VisualTrails, VisualCircles} {
		v := newTestVisualizer()
		v.Configure(mode, ColorWhite, 10, 25)
		c := NewRecordingCanvas(640, 480)
		v.Render(c, []Pose{standingPose(200, 200)}, DefaultSkeleton, 0.1, testFrame)
		if len(c.Calls) == 0 {
			t.Fatalf("mode %d drew nothing", mode)
		}
		for _, dc := range c.Calls {
			if math.Abs(dc.Alpha-0.25) > epsilon {
				t.Fatalf("mode %d alpha = %v, want 0.25", mode, dc.Alpha)
			}
		}
	}
}

func TestSkeleton_BothEndpointsTrusted(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualSkeleton)
	c := NewRecordingCanvas(640, 480)

	p := standingPose(200, 200)
	p.Keypoints[KeypointLeftWrist].Confidence = 0

	v.Render(c, []Pose{p}, DefaultSkeleton, 0.1, testFrame)
	if got := c.Count(OpLine); got != len(DefaultSkeleton)-1 {
		t.Errorf("lines = %d, want %d", got, len(DefaultSkeleton)-1)
	}
	w := p.Keypoints[KeypointLeftWrist]
	if c.Touches(w.X, w.Y) {
		t.Error("limb to untrusted wrist should be skipped")
	}
}

func TestTrails_AlphaByAge(t *testing.T) {
	cfg := DefaultVisualizerConfig()
	cfg.TrailLength = 4
	v := NewPoseVisualizer(cfg, testRand())
	v.SetMode(VisualTrails)

	kp := make([]Keypoint, KeypointCount)
	c := NewRecordingCanvas(640, 480)
	for i := 0; i < 6; i++ {
		kp[KeypointNose] = Keypoint{X: float64(i * 10), Y: 0, Confidence: 0.9}
		c.Reset()
		v.Render(c, []Pose{{Keypoints: kp}}, nil, 0.1, testFrame)
	}

	if len(c.Calls) != 4 {
		t.Fatalf("calls = %d, want one per buffered snapshot", len(c.Calls))
	}
	for age, call := range c.Calls {
		want := float64(age+1) / 4
		assertNear(t, "alpha", call.Color.A, want)
		assertNear(t, "x", call.Points[0].X, float64((age+2)*10))
	}
}

func TestTrails_SlotTrimmedWhenPoseLeaves(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualTrails)
	c := NewRecordingCanvas(640, 480)
	two := []Pose{standingPose(100, 200), standingPose(300, 200)}
	v.Render(c, two, nil, 0.1, testFrame)
	v.Render(c, two[:1], nil, 0.1, testFrame)
	if v.trails.Len() != 1 {
		t.Errorf("trail slots = %d, want 1", v.trails.Len())
	}
}

func TestCircles_GrowthMonotonicAndBounded(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualCircles)
	c := NewRecordingCanvas(640, 480)
	up := []Pose{raiseHands(standingPose(200, 300), 0, 40)}

	prev := 0.0
	for i := 0; i < 600; i++ {
		v.Render(c, up, nil, 0.1, testFrame)
		g := v.Growth()
		if g < prev {
			t.Fatalf("growth decreased while hands up: %v -> %v", prev, g)
		}
		if g > v.cfg.MaxGrowth {
			t.Fatalf("growth %v exceeds max", g)
		}
		prev = g
	}
	assertNear(t, "saturated growth", v.Growth(), v.cfg.MaxGrowth)
	if !v.HandsUp() {
		t.Error("HandsUp should be true")
	}

	down := []Pose{standingPose(200, 300)}
	v.Render(c, down, nil, 0.1, testFrame)
	assertNear(t, "decay", v.Growth(), v.cfg.MaxGrowth*v.cfg.GrowthDecay)
	for i := 0; i < 1000; i++ {
		v.Render(c, down, nil, 0.1, testFrame)
	}
	if v.Growth() != 0 {
		t.Errorf("growth = %v, want 0 after long rest", v.Growth())
	}
}

func TestCircles_SkipsEarsAndUsesAdd(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualCircles)
	c := NewRecordingCanvas(640, 480)
	p := standingPose(200, 300)
	v.Render(c, []Pose{p}, nil, 0.1, testFrame)

	if got := c.Count(OpGlow); got != KeypointCount-2 {
		t.Errorf("glows = %d, want %d", got, KeypointCount-2)
	}
	ear := p.Keypoints[KeypointLeftEar]
	if c.Touches(ear.X, ear.Y) {
		t.Error("ears should not be drawn")
	}
	for _, call := range c.Calls {
		if call.Blend != BlendAdd {
			t.Fatalf("blend = %v, want additive", call.Blend)
		}
		if call.Outer.A <= 0 {
			t.Fatal("glow rim must keep nonzero alpha")
		}
		if call.Radius < 1 {
			t.Fatalf("radius %v below floor", call.Radius)
		}
	}
}

func TestCircles_MovementLevel(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualCircles)
	c := NewRecordingCanvas(640, 480)
	v.Render(c, []Pose{standingPose(200, 300)}, nil, 0.1, testFrame)
	v.Render(c, []Pose{standingPose(210, 300)}, nil, 0.1, testFrame)
	if got := v.MovementLevel(0); got != MovementHigh {
		t.Errorf("level = %v, want high", got)
	}
	v.Render(c, []Pose{standingPose(212, 300)}, nil, 0.1, testFrame)
	if got := v.MovementLevel(0); got != MovementLow {
		t.Errorf("level = %v, want low", got)
	}
	v.Render(c, []Pose{standingPose(212, 300)}, nil, 0.1, testFrame)
	if got := v.MovementLevel(0); got != MovementNone {
		t.Errorf("level = %v, want none", got)
	}
	if v.MovementLevel(5) != MovementNone {
		t.Error("unknown slot should report none")
	}
}

func TestCircles_Recolor(t *testing.T) {
	tests := []struct {
		name    string
		shift   func(frame int) float64
		changed bool
	}{
		{"still pose keeps colors", func(int) float64 { return 0 }, false},
		{"jitter recolors", func(frame int) float64 { return float64(frame%2) * 20 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVisualizer()
			v.SetMode(VisualCircles)
			c := NewRecordingCanvas(640, 480)

			v.Render(c, []Pose{standingPose(200, 300)}, nil, 0.1, testFrame)
			slot := v.circles.Peek(0)
			if slot == nil {
				t.Fatal("slot 0 should exist after the first frame")
			}
			first := slot.colors

			changed := false
			for i := 1; i <= 200; i++ {
				v.Render(c, []Pose{standingPose(200+tt.shift(i), 300)}, nil, 0.1, testFrame)
				if slot.colors != first {
					changed = true
				}
			}
			if changed != tt.changed {
				t.Errorf("colors changed = %v, want %v", changed, tt.changed)
			}
			if slot.assigned[KeypointLeftEar] || slot.assigned[KeypointRightEar] {
				t.Error("ears should never be assigned a color")
			}
			for k := 0; k < KeypointCount; k++ {
				if !isEar(k) && !slot.assigned[k] {
					t.Errorf("keypoint %d should have a color", k)
				}
			}
		})
	}
}

func TestVisualizerReset(t *testing.T) {
	v := newTestVisualizer()
	v.SetMode(VisualCircles)
	c := NewRecordingCanvas(640, 480)
	up := []Pose{raiseHands(standingPose(200, 300), 0, 40)}
	for i := 0; i < 10; i++ {
		v.Render(c, up, nil, 0.1, testFrame)
	}
	v.Reset()
	if v.Growth() != 0 || v.HandsUp() || v.circles.Len() != 0 {
		t.Error("Reset should clear growth and slots")
	}
	if math.IsNaN(v.clock) {
		t.Error("clock should stay finite")
	}
}
