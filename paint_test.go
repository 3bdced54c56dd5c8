package posepaint

import (
	"slices"
	"testing"
)

func newTestPaint(cfg PaintConfig) *PaintSystem {
	cfg.NoiseSeed = 7
	return NewPaintSystem(cfg, testRand())
}

func TestPaintEmitterGating(t *testing.T) {
	s := newTestPaint(DefaultPaintConfig())
	e := s.emitters(0)[0]

	if got := e.Emit(10, 10, 1); got != 6 {
		t.Fatalf("first burst = %d, want 6", got)
	}
	if got := e.Emit(10, 10, 1); got != 0 {
		t.Errorf("burst inside MinInterval = %d, want 0", got)
	}
	s.Update(0.1)
	if got := e.Emit(10, 10, 1); got != 6 {
		t.Errorf("burst after MinInterval = %d, want 6", got)
	}
}

func TestPaintEmitterFloor(t *testing.T) {
	cfg := DefaultPaintConfig()
	cfg.Floor = 10
	s := newTestPaint(cfg)
	e := s.emitters(0)[0]
	e.Emit(0, 0, 1)
	if got := e.Emit(0, 0, 1); got != 6 {
		t.Errorf("burst at or below floor = %d, want 6", got)
	}
}

func TestPaintEmitterCapacity(t *testing.T) {
	cfg := DefaultPaintConfig()
	cfg.ParticleCount = 8
	cfg.Floor = 100
	s := newTestPaint(cfg)
	e := s.emitters(0)[0]
	e.Emit(0, 0, 1)
	if got := e.Emit(0, 0, 1); got != 2 {
		t.Errorf("burst into nearly full pool = %d, want 2", got)
	}
	if got := e.Emit(0, 0, 1); got != 0 {
		t.Errorf("burst into full pool = %d, want 0", got)
	}
	if e.AliveCount() != 8 {
		t.Errorf("AliveCount = %d, want 8", e.AliveCount())
	}
}

func TestPaintEmitterIntensity(t *testing.T) {
	tests := []struct {
		intensity float64
		want      int
	}{
		{1, 6},
		{0.5, 3},
		{0.1, 1},
		{0, 0},
		{2, 6},
	}
	for _, tt := range tests {
		cfg := DefaultPaintConfig()
		cfg.Floor = 100
		s := newTestPaint(cfg)
		if got := s.emitters(0)[0].Emit(0, 0, tt.intensity); got != tt.want {
			t.Errorf("Emit(intensity %v) = %d, want %d", tt.intensity, got, tt.want)
		}
	}
}

func TestPaintFromPose_Limbs(t *testing.T) {
	p := standingPose(320, 300)

	s := newTestPaint(DefaultPaintConfig())
	s.EmitFromPoses([]Pose{p}, DefaultSkeleton, 0.1)
	// Nose, both wrists at ceil(6*0.9) each, plus two nose-to-eye half bursts.
	if got := s.AliveCount(); got != 24 {
		t.Errorf("AliveCount = %d, want 24", got)
	}

	cfg := DefaultPaintConfig()
	cfg.PaintLimbs = false
	s = newTestPaint(cfg)
	s.EmitFromPoses([]Pose{p}, DefaultSkeleton, 0.1)
	if got := s.AliveCount(); got != 18 {
		t.Errorf("AliveCount without limbs = %d, want 18", got)
	}
}

func TestPaintFromPose_UntrustedSkipped(t *testing.T) {
	cfg := DefaultPaintConfig()
	cfg.PaintLimbs = false
	s := newTestPaint(cfg)
	p := standingPose(320, 300)
	p.Keypoints[KeypointNose].Confidence = 0.05
	s.EmitFromPoses([]Pose{p}, nil, 0.1)
	if got := s.AliveCount(); got != 12 {
		t.Errorf("AliveCount = %d, want 12", got)
	}
}

func TestPaintRetiresVanishedSlots(t *testing.T) {
	cfg := DefaultPaintConfig()
	cfg.PaintLimbs = false
	s := newTestPaint(cfg)
	two := []Pose{standingPose(160, 300), standingPose(480, 300)}
	s.EmitFromPoses(two, nil, 0.1)
	if got := s.AliveCount(); got != 36 {
		t.Fatalf("AliveCount = %d, want 36", got)
	}

	s.EmitFromPoses(two[:1], nil, 0.1)
	if s.slots.Len() != 1 || len(s.retired) != 3 {
		t.Fatalf("slots = %d retired = %d, want 1 and 3", s.slots.Len(), len(s.retired))
	}
	if got := s.AliveCount(); got != 36 {
		t.Errorf("retired particles should keep fading, AliveCount = %d", got)
	}

	c := NewRecordingCanvas(640, 480)
	s.Draw(c)
	if got := c.Count(OpCircle); got != 36 {
		t.Errorf("drawn = %d, want 36", got)
	}

	for i := 0; i < 100; i++ {
		s.Update(testFrame)
	}
	if s.AliveCount() != 0 || len(s.retired) != 0 {
		t.Errorf("AliveCount = %d retired = %d, want both 0", s.AliveCount(), len(s.retired))
	}
}

func TestPaintHues(t *testing.T) {
	s := newTestPaint(DefaultPaintConfig())
	es := s.emitters(0)
	if len(es) != 3 {
		t.Fatalf("emitters = %d, want 3", len(es))
	}
	for j, e := range es {
		want := HSVToRGB(float64(j)*120, 0.75, 1)
		if e.Color != want {
			t.Errorf("emitter %d color = %v, want %v", j, e.Color, want)
		}
	}
	if got, want := s.emitters(1)[0].Color, HSVToRGB(37, 0.75, 1); got != want {
		t.Errorf("second slot hue color = %v, want %v", got, want)
	}
}

func TestPaintSetters(t *testing.T) {
	s := newTestPaint(DefaultPaintConfig())
	s.EmitFromPoses([]Pose{standingPose(320, 300)}, nil, 0.1)

	s.SetParticleCount(40)
	if s.AliveCount() != 0 || s.Config().ParticleCount != 40 {
		t.Error("SetParticleCount should clear and resize")
	}

	s.SetKeypoints(AllKeypoints)
	if got := len(s.emitters(0)); got != KeypointCount {
		t.Errorf("emitters = %d, want %d", got, KeypointCount)
	}

	s.SetKeypoints(nil)
	if got := len(s.emitters(0)); got != 3 {
		t.Errorf("emitters after empty subset = %d, want 3", got)
	}
	if !slices.Equal(s.Config().Keypoints, DefaultPaintConfig().Keypoints) {
		t.Errorf("keypoints = %v, want defaults", s.Config().Keypoints)
	}

	s.SetNoiseStrength(1)
	s.SetParticleSize(3)
	s.SetBurst(BurstParams{Count: 2, Speed: Range{Min: 1, Max: 1}, Life: Range{Min: 1, Max: 1}})
	cfg := s.Config()
	if cfg.NoiseStrength != 1 || cfg.ParticleSize != 3 || cfg.Burst.Count != 2 {
		t.Errorf("config = %+v", cfg)
	}

	s.Clear()
	if s.AliveCount() != 0 {
		t.Error("Clear should drop every particle")
	}
}

func TestPaintParticlesFade(t *testing.T) {
	s := newTestPaint(DefaultPaintConfig())
	e := s.emitters(0)[0]
	e.Emit(100, 100, 1)
	for i := 0; i < 200; i++ {
		s.Update(testFrame)
	}
	if e.AliveCount() != 0 {
		t.Errorf("AliveCount = %d, want 0", e.AliveCount())
	}
}
