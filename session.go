package posepaint

import (
	"math/rand/v2"
	"time"
)

const (
	// MaxFrameDelta caps the measured frame delta so a stall does not
	// teleport particles.
	MaxFrameDelta = 0.1
	// firstFrameDelta is the delta used before a previous frame exists.
	firstFrameDelta = 1.0 / 60
)

// Session owns one set of effect engines and routes each frame of poses to
// the active mode. Mode switches are queued and applied at the start of the
// next Render. A Session is not safe for concurrent use.
type Session struct {
	cfg   Config
	rng   *rand.Rand
	color Color

	mode       Mode
	pending    Mode
	hasPending bool

	visual    *PoseVisualizer
	engines   [modeCount]Engine
	overlay   *gestureEngine
	skeleton  []Connection
	handsUp   bool
	handsSlot int

	last  time.Time
	clock float64
	frame Frame

	sink   EventSink
	debug  bool
	frames uint64
}

// NewSession creates a session from cfg. The config is normalized first.
func NewSession(cfg Config) *Session {
	cfg.Normalize()
	s := &Session{
		rng:      newRand(cfg.Seed),
		skeleton: DefaultSkeleton,
	}
	s.build(cfg)
	s.mode = ParseMode(cfg.Mode)
	return s
}

// build constructs every engine from cfg.
func (s *Session) build(cfg Config) {
	s.cfg = cfg
	s.color = cfg.PaintColor()

	vis := DefaultVisualizerConfig()
	vis.TrailLength = cfg.TrailLength
	vis.CircleAmplitude = cfg.Circles.Amplitude
	vis.CircleFrequency = cfg.Circles.Frequency
	vis.GrowthRate = cfg.Circles.GrowthRate
	vis.MaxGrowth = cfg.Circles.MaxGrowth
	s.visual = NewPoseVisualizer(vis, s.rng)
	s.visual.Configure(VisualKeypoints, s.color, cfg.Size, cfg.Opacity)

	for _, m := range []Mode{ModeKeypoints, ModeSkeleton, ModeTrails, ModeCircles} {
		vm, _ := m.visualMode()
		s.engines[m] = &visualEngine{v: s.visual, mode: vm}
	}

	fw := DefaultFireworkConfig()
	fw.SparksPerBurst = cfg.Fireworks.SparksPerBurst
	gesture := DefaultGestureFireworkConfig()
	gesture.MovementTrigger = cfg.Fireworks.MovementTrigger
	gesture.Cooldown = cfg.Fireworks.Cooldown
	gesture.Sustain = cfg.Fireworks.Sustain

	if cfg.Fireworks.Style == FireworkStyleAmbient {
		amb := DefaultAmbientFireworkConfig()
		amb.Interval = cfg.Fireworks.Interval
		s.engines[ModeFireworks] = &ambientEngine{a: NewAmbientFireworks(amb, NewFireworkManager(fw, s.rng), s.rng)}
	} else {
		s.engines[ModeFireworks] = &gestureEngine{g: NewGestureFireworks(gesture, NewFireworkManager(fw, s.rng), s.rng)}
	}
	s.overlay = &gestureEngine{g: NewGestureFireworks(gesture, NewFireworkManager(fw, s.rng), s.rng)}

	smoke := DefaultSmokeConfig()
	smoke.EmitRate = cfg.Smoke.EmitRate
	smoke.MaxParticles = cfg.Smoke.MaxParticles
	smoke.Size = cfg.Smoke.Size
	smoke.MaxSizeMult = cfg.Smoke.MaxSizeMult
	smoke.WindGain = cfg.Smoke.WindGain
	smoke.MaxWind = cfg.Smoke.MaxWind
	s.engines[ModeSmoke] = &smokeEngine{s: NewSmokeSystem(smoke, s.rng)}

	paint := DefaultPaintConfig()
	if idx := cfg.ParticleKeypoints(); len(idx) > 0 {
		paint.Keypoints = idx
	}
	paint.ParticleCount = cfg.Particles.Count
	paint.ParticleSize = cfg.Particles.Size
	paint.NoiseStrength = cfg.Particles.NoiseStrength
	paint.Burst.Count = cfg.Particles.BurstCount
	if cfg.Particles.Limbs != nil {
		paint.PaintLimbs = *cfg.Particles.Limbs
	}
	s.engines[ModeParticles] = &paintEngine{p: NewPaintSystem(paint, s.rng)}
}

// ApplyConfig rebuilds every engine from cfg and queues its mode. Engine
// state is discarded.
func (s *Session) ApplyConfig(cfg Config) {
	cfg.Normalize()
	s.build(cfg)
	s.handsUp = false
	s.SetMode(ParseMode(cfg.Mode))
}

// Config returns the normalized configuration in use.
func (s *Session) Config() Config {
	return s.cfg
}

// SetMode queues a mode switch for the next Render.
func (s *Session) SetMode(m Mode) {
	if m >= modeCount {
		m = ModeNone
	}
	s.pending = m
	s.hasPending = true
}

// Mode returns the active mode. A queued switch is not reported until it
// has been applied.
func (s *Session) Mode() Mode {
	return s.mode
}

// SetSkeleton replaces the connection table used by skeleton and paint modes.
func (s *Session) SetSkeleton(conns []Connection) {
	s.skeleton = conns
}

// SetFireworkOverlay toggles gesture fireworks on top of the active mode.
func (s *Session) SetFireworkOverlay(on bool) {
	s.cfg.FireworkOverlay = on
	if !on {
		s.overlay.Reset()
	}
}

// SetEventSink sets the optional gesture event receiver.
func (s *Session) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables per-frame stats on stderr.
func (s *Session) SetDebugMode(on bool) {
	s.debug = on
}

// Visualizer returns the direct-mode painter.
func (s *Session) Visualizer() *PoseVisualizer {
	return s.visual
}

// Engine returns the engine serving m, or nil for ModeNone.
func (s *Session) Engine(m Mode) Engine {
	if m >= modeCount {
		return nil
	}
	return s.engines[m]
}

// Clock returns the session clock in seconds.
func (s *Session) Clock() float64 {
	return s.clock
}

// Render measures the frame delta from the previous call and renders one
// frame. The first frame uses a nominal 1/60 s; deltas are clamped to
// MaxFrameDelta.
func (s *Session) Render(c Canvas, poses []Pose, now time.Time) {
	dt := firstFrameDelta
	if !s.last.IsZero() {
		dt = now.Sub(s.last).Seconds()
	}
	s.last = now
	s.RenderDelta(c, poses, dt)
}

// RenderDelta renders one frame advanced by dt seconds.
func (s *Session) RenderDelta(c Canvas, poses []Pose, dt float64) {
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	dt = clamp(dt, 0, MaxFrameDelta)
	s.applyPending()
	s.clock += dt

	f := &s.frame
	*f = Frame{
		Canvas:        c,
		Poses:         poses,
		Connections:   s.skeleton,
		MinConfidence: s.cfg.MinConfidence,
		Dt:            dt,
		Time:          s.clock,
	}
	s.detectHandsUp(poses)

	if e := s.engines[s.mode]; e != nil {
		e.Step(f)
	}
	if s.overlayActive() {
		s.overlay.Step(f)
	}
	if f.FireworkFired {
		s.emit(EventFireworkTrigger, -1)
	}

	s.frames++
	if s.debug {
		s.debugLog(debugStats{
			frame:     s.frames,
			mode:      s.mode,
			dt:        dt,
			poses:     len(poses),
			particles: s.Particles(),
			stepTime:  time.Since(start),
		})
	}
}

// overlayActive reports whether the overlay runs this frame. Gesture
// fireworks never run twice in one frame.
func (s *Session) overlayActive() bool {
	if !s.cfg.FireworkOverlay {
		return false
	}
	_, primaryGesture := s.engines[ModeFireworks].(*gestureEngine)
	return !(s.mode == ModeFireworks && primaryGesture)
}

func (s *Session) applyPending() {
	if !s.hasPending {
		return
	}
	s.hasPending = false
	prev := s.mode
	if s.pending == prev {
		return
	}
	if e := s.engines[prev]; e != nil {
		e.Reset()
	}
	s.mode = s.pending
	if s.sink != nil {
		s.sink.EmitEvent(GestureEvent{Type: EventModeChange, Time: s.clock, Slot: -1, Mode: s.mode, Previous: prev})
	}
}

// detectHandsUp emits edge-triggered hands up and down events.
func (s *Session) detectHandsUp(poses []Pose) {
	slot := -1
	for i, p := range poses {
		if CheckHandsUp(p, s.cfg.MinConfidence) {
			slot = i
			break
		}
	}
	up := slot >= 0
	if up == s.handsUp {
		return
	}
	s.handsUp = up
	if up {
		s.handsSlot = slot
		s.emit(EventHandsUp, slot)
	} else {
		s.emit(EventHandsDown, s.handsSlot)
	}
}

func (s *Session) emit(t GestureType, slot int) {
	if s.sink == nil {
		return
	}
	s.sink.EmitEvent(GestureEvent{Type: t, Time: s.clock, Slot: slot, Mode: s.mode, Previous: s.mode})
}

// Reset clears every engine, the overlay and the gesture state. The mode
// and configuration are kept.
func (s *Session) Reset() {
	for _, e := range s.engines {
		if e != nil {
			e.Reset()
		}
	}
	s.overlay.Reset()
	s.handsUp = false
	s.last = time.Time{}
}

// Particles returns the live particle count of the active mode and the overlay.
func (s *Session) Particles() int {
	n := 0
	if pc, ok := s.engines[s.mode].(particleCounter); ok {
		n += pc.Particles()
	}
	if s.overlayActive() {
		n += s.overlay.Particles()
	}
	return n
}
