package posepaint

import (
	"testing"
	"time"
)

type eventLog struct {
	events []GestureEvent
}

func (l *eventLog) sink() EventSink {
	return EventFunc(func(e GestureEvent) { l.events = append(l.events, e) })
}

func (l *eventLog) count(typ GestureType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func testSession() *Session {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return NewSession(cfg)
}

func TestSession_DefaultMode(t *testing.T) {
	s := testSession()
	if s.Mode() != ModeKeypoints {
		t.Errorf("Mode = %v, want keypoints", s.Mode())
	}
	c := NewRecordingCanvas(640, 480)
	s.RenderDelta(c, []Pose{standingPose(320, 300)}, testFrame)
	if got := c.Count(OpCircle); got != KeypointCount {
		t.Errorf("circles = %d, want %d", got, KeypointCount)
	}
}

func TestSession_SetModeIsQueued(t *testing.T) {
	s := testSession()
	var log eventLog
	s.SetEventSink(log.sink())

	s.SetMode(ModeSmoke)
	if s.Mode() != ModeKeypoints {
		t.Fatal("mode should not change before the next render")
	}
	s.RenderDelta(NewRecordingCanvas(640, 480), nil, testFrame)
	if s.Mode() != ModeSmoke {
		t.Fatalf("Mode = %v, want smoke", s.Mode())
	}
	if log.count(EventModeChange) != 1 {
		t.Fatalf("mode change events = %d, want 1", log.count(EventModeChange))
	}
	e := log.events[0]
	if e.Mode != ModeSmoke || e.Previous != ModeKeypoints {
		t.Errorf("event = %+v", e)
	}

	// Re-selecting the active mode is not a change.
	s.SetMode(ModeSmoke)
	s.RenderDelta(NewRecordingCanvas(640, 480), nil, testFrame)
	if log.count(EventModeChange) != 1 {
		t.Error("same-mode switch should not emit")
	}

	s.SetMode(Mode(250))
	s.RenderDelta(NewRecordingCanvas(640, 480), nil, testFrame)
	if s.Mode() != ModeNone {
		t.Errorf("out-of-range mode = %v, want none", s.Mode())
	}
}

func TestSession_EveryModeRenders(t *testing.T) {
	poses := []Pose{standingPose(200, 300), raiseHands(standingPose(440, 300), 0, 40)}
	for _, m := range append(Modes(), ModeNone) {
		t.Run(m.String(), func(t *testing.T) {
			s := testSession()
			s.SetMode(m)
			c := NewRecordingCanvas(640, 480)
			for i := 0; i < 30; i++ {
				s.RenderDelta(c, poses, testFrame)
			}
			if m == ModeNone && len(c.Calls) != 0 {
				t.Errorf("none mode drew %d calls", len(c.Calls))
			}
			if m != ModeNone && len(c.Calls) == 0 {
				t.Errorf("%v drew nothing", m)
			}
		})
	}
}

func TestSession_ParticlesDecayWithoutPoses(t *testing.T) {
	for _, m := range []Mode{ModeSmoke, ModeParticles, ModeFireworks} {
		t.Run(m.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Seed = 1
			cfg.Fireworks.Style = FireworkStyleAmbient
			s := NewSession(cfg)
			s.SetMode(m)
			c := NewRecordingCanvas(640, 480)
			poses := []Pose{standingPose(320, 300)}
			for i := 0; i < 20; i++ {
				s.RenderDelta(c, poses, testFrame)
			}
			if s.Particles() == 0 {
				t.Fatal("expected live particles")
			}
			for i := 0; i < 300; i++ {
				s.RenderDelta(c, nil, testFrame)
			}
			if s.Particles() != 0 {
				t.Errorf("Particles = %d, want 0 after poses vanish", s.Particles())
			}
		})
	}
}

// fireworkDrainFrames covers the sustain window plus a full spark life.
const fireworkDrainFrames = 240

func raiseHandsJittered(i int) []Pose {
	return []Pose{raiseHands(standingPose(320, 300), float64(i%2)*20, 40)}
}

func TestSession_GestureFireworksDrainWithoutPoses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.Mode = ModeFireworks.String()
	s := NewSession(cfg)
	c := NewRecordingCanvas(640, 480)
	for i := 0; i < 40; i++ {
		s.RenderDelta(c, raiseHandsJittered(i), testFrame)
	}
	if s.Particles() == 0 {
		t.Fatal("raised hands should leave live sparks")
	}
	for i := 0; i < fireworkDrainFrames; i++ {
		s.RenderDelta(c, nil, testFrame)
	}
	if n := s.Particles(); n != 0 {
		t.Errorf("Particles = %d, want 0 after %d empty frames", n, fireworkDrainFrames)
	}
	if b := s.Engine(ModeFireworks).(*gestureEngine).g.Manager().Bursts(); b != 0 {
		t.Errorf("bursts = %d, want 0", b)
	}
}

func TestSession_OverlayDrainsWithoutPoses(t *testing.T) {
	modes := []Mode{ModeNone, ModeKeypoints, ModeSkeleton, ModeTrails, ModeCircles, ModeSmoke, ModeParticles}
	for _, m := range modes {
		t.Run(m.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Seed = 3
			cfg.FireworkOverlay = true
			s := NewSession(cfg)
			s.SetMode(m)
			c := NewRecordingCanvas(640, 480)
			for i := 0; i < 40; i++ {
				s.RenderDelta(c, raiseHandsJittered(i), testFrame)
			}
			if s.overlay.Particles() == 0 {
				t.Fatal("overlay should have live sparks")
			}
			for i := 0; i < fireworkDrainFrames; i++ {
				s.RenderDelta(c, nil, testFrame)
			}
			if n := s.overlay.Particles(); n != 0 {
				t.Errorf("overlay sparks = %d, want 0 after %d empty frames", n, fireworkDrainFrames)
			}
			for i := 0; i < 60; i++ {
				s.RenderDelta(c, nil, testFrame)
			}
			if n := s.Particles(); n != 0 {
				t.Errorf("Particles = %d, want 0", n)
			}
		})
	}
}

func TestSession_ModeSwitchResetsOutgoing(t *testing.T) {
	s := testSession()
	s.SetMode(ModeParticles)
	c := NewRecordingCanvas(640, 480)
	poses := []Pose{standingPose(320, 300)}
	for i := 0; i < 5; i++ {
		s.RenderDelta(c, poses, testFrame)
	}
	paint := s.Engine(ModeParticles).(*paintEngine).p
	if paint.AliveCount() == 0 {
		t.Fatal("expected paint particles")
	}
	s.SetMode(ModeSkeleton)
	s.RenderDelta(c, poses, testFrame)
	if paint.AliveCount() != 0 {
		t.Error("switching away should clear the outgoing engine")
	}
	if s.Engine(ModeNone) != nil {
		t.Error("ModeNone has no engine")
	}
}

func TestSession_HandsUpEvents(t *testing.T) {
	s := testSession()
	var log eventLog
	s.SetEventSink(log.sink())
	c := NewRecordingCanvas(640, 480)

	down := []Pose{standingPose(200, 300), standingPose(440, 300)}
	up := []Pose{down[0], raiseHands(down[1], 0, 40)}

	s.RenderDelta(c, down, testFrame)
	s.RenderDelta(c, up, testFrame)
	s.RenderDelta(c, up, testFrame)
	s.RenderDelta(c, down, testFrame)

	if log.count(EventHandsUp) != 1 || log.count(EventHandsDown) != 1 {
		t.Fatalf("events = %+v", log.events)
	}
	for _, e := range log.events {
		if e.Slot != 1 {
			t.Errorf("%v slot = %d, want 1", e.Type, e.Slot)
		}
	}
}

func TestSession_FireworkOverlay(t *testing.T) {
	s := testSession()
	var log eventLog
	s.SetEventSink(log.sink())
	s.SetFireworkOverlay(true)

	c := NewRecordingCanvas(640, 480)
	poses := []Pose{raiseHands(standingPose(320, 300), 0, 40)}
	for i := 0; i < 60; i++ {
		s.RenderDelta(c, poses, testFrame)
	}
	if log.count(EventFireworkTrigger) == 0 {
		t.Fatal("raised hands should fire the overlay")
	}
	if s.Particles() == 0 {
		t.Error("overlay sparks should count as particles")
	}

	s.SetFireworkOverlay(false)
	if s.Particles() != 0 {
		t.Error("disabling the overlay should clear it")
	}
}

func TestSession_OverlayNotDoubledInFireworksMode(t *testing.T) {
	s := testSession()
	s.SetFireworkOverlay(true)
	s.SetMode(ModeFireworks)
	if !s.overlayActive() {
		t.Fatal("overlay should only be skipped once the mode applies")
	}
	s.RenderDelta(NewRecordingCanvas(640, 480), nil, testFrame)
	if s.overlayActive() {
		t.Error("gesture fireworks should not run twice")
	}
}

func TestSession_DeltaClamp(t *testing.T) {
	s := testSession()
	c := NewRecordingCanvas(640, 480)
	s.RenderDelta(c, nil, 5)
	assertNear(t, "clock", s.Clock(), MaxFrameDelta)
	s.RenderDelta(c, nil, -1)
	assertNear(t, "clock", s.Clock(), MaxFrameDelta)
}

func TestSession_RenderMeasuresDelta(t *testing.T) {
	s := testSession()
	c := NewRecordingCanvas(640, 480)
	start := time.Unix(1000, 0)
	s.Render(c, nil, start)
	assertNear(t, "first", s.Clock(), 1.0/60)
	s.Render(c, nil, start.Add(50*time.Millisecond))
	assertNear(t, "second", s.Clock(), 1.0/60+0.05)
	s.Render(c, nil, start.Add(10*time.Second))
	assertNear(t, "stall", s.Clock(), 1.0/60+0.05+MaxFrameDelta)
}

func TestSession_Reset(t *testing.T) {
	s := testSession()
	s.SetMode(ModeSmoke)
	c := NewRecordingCanvas(640, 480)
	for i := 0; i < 10; i++ {
		s.RenderDelta(c, []Pose{standingPose(320, 300)}, testFrame)
	}
	s.Reset()
	if s.Particles() != 0 {
		t.Errorf("Particles = %d after Reset", s.Particles())
	}
	if s.Mode() != ModeSmoke {
		t.Error("Reset should keep the mode")
	}
}

func TestSession_ApplyConfig(t *testing.T) {
	s := testSession()
	cfg := DefaultConfig()
	cfg.Mode = "fireworks"
	cfg.Fireworks.Style = FireworkStyleAmbient
	cfg.Opacity = 500
	s.ApplyConfig(cfg)

	if s.Config().Opacity != 100 {
		t.Error("ApplyConfig should normalize")
	}
	if _, ok := s.Engine(ModeFireworks).(*ambientEngine); !ok {
		t.Error("ambient style should build the ambient engine")
	}
	s.RenderDelta(NewRecordingCanvas(640, 480), nil, testFrame)
	if s.Mode() != ModeFireworks {
		t.Errorf("Mode = %v, want fireworks", s.Mode())
	}
}

func TestSession_CustomSkeleton(t *testing.T) {
	s := testSession()
	s.SetMode(ModeSkeleton)
	s.SetSkeleton([]Connection{{KeypointLeftShoulder, KeypointRightShoulder}})
	c := NewRecordingCanvas(640, 480)
	s.RenderDelta(c, []Pose{standingPose(320, 300)}, testFrame)
	if got := c.Count(OpLine); got != 1 {
		t.Errorf("lines = %d, want 1", got)
	}
}
