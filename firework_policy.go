package posepaint

import (
	"math"
	"math/rand/v2"
)

// GestureFireworkConfig tunes the raised-hands firework trigger.
type GestureFireworkConfig struct {
	// MinConfidence is the trust threshold for wrists and shoulders.
	MinConfidence float64
	// MovementTrigger is the wrist displacement per reference frame,
	// relative to shoulder width, that fires while the hands are up.
	MovementTrigger float64
	// Hold is how long the hands must stay up before a still pose fires.
	Hold float64
	// Cooldown is the minimum time between still-pose triggers, in seconds.
	Cooldown float64
	// Sustain is how far a trigger extends the firing window, in seconds.
	Sustain float64
	// Cadence is the interval between bursts inside the window, in seconds.
	Cadence float64
	// CrownChance and RingChance are per-burst probabilities of an extra
	// head-crown burst and a four-point torso ring.
	CrownChance float64
	RingChance  float64
	// Palette supplies burst colors. Empty uses a rainbow hue palette.
	Palette Palette
}

// DefaultGestureFireworkConfig returns the stock trigger tunables.
func DefaultGestureFireworkConfig() GestureFireworkConfig {
	return GestureFireworkConfig{
		MinConfidence:   0.3,
		MovementTrigger: 0.12,
		Hold:            0.3,
		Cooldown:        1.5,
		Sustain:         1.2,
		Cadence:         0.12,
		CrownChance:     0.10,
		RingChance:      0.05,
	}
}

// gestureSlot is the per-pose state of the gesture trigger.
type gestureSlot struct {
	wrists       *MovementTracker
	handsUp      bool
	handsUpSince float64
}

// GestureFireworks fires sustained bursts from the wrists while both hands
// are raised above the shoulders. All timers run on session seconds derived
// from measured frame deltas.
type GestureFireworks struct {
	cfg GestureFireworkConfig
	mgr *FireworkManager
	rng *rand.Rand

	slots        slotArena[gestureSlot]
	clock        float64
	sustainUntil float64
	lastTrigger  float64
	nextEmit     float64
	leftNext     bool
	anchor       Pose
	triggers     int
}

// NewGestureFireworks wires the trigger policy to a burst manager.
func NewGestureFireworks(cfg GestureFireworkConfig, mgr *FireworkManager, rng *rand.Rand) *GestureFireworks {
	if rng == nil {
		rng = newRand(0)
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = HuePalette(12, 0.8, 1)
	}
	g := &GestureFireworks{
		cfg:         cfg,
		mgr:         mgr,
		rng:         rng,
		lastTrigger: math.Inf(-1),
		leftNext:    true,
	}
	g.slots = newSlotArena(func() *gestureSlot {
		return &gestureSlot{wrists: NewMovementTracker([]int{KeypointLeftWrist, KeypointRightWrist})}
	})
	return g
}

// Manager returns the underlying burst manager.
func (g *GestureFireworks) Manager() *FireworkManager {
	return g.mgr
}

// Sustaining reports whether the firing window is open.
func (g *GestureFireworks) Sustaining() bool {
	return g.clock < g.sustainUntil
}

// Triggers returns how many times the gesture has fired since the last Reset.
func (g *GestureFireworks) Triggers() int {
	return g.triggers
}

// Step evaluates the gesture for every pose, emits bursts inside the
// sustain window, and advances the burst manager. It reports whether a
// trigger happened during this step.
func (g *GestureFireworks) Step(poses []Pose, dt float64) bool {
	g.clock += dt
	g.slots.Trim(len(poses))

	triggered := false
	for i, p := range poses {
		if g.evaluate(g.slots.Get(i), p, dt) {
			triggered = true
			g.anchor = clonePose(p)
		}
	}
	if triggered {
		g.triggers++
		g.lastTrigger = g.clock
		g.sustainUntil = g.clock + g.cfg.Sustain
	}

	if g.Sustaining() && g.clock >= g.nextEmit {
		g.nextEmit = g.clock + g.cfg.Cadence
		g.emit(g.currentAnchor(poses))
	}

	g.mgr.Update(dt)
	return triggered
}

// evaluate updates one slot and reports whether it fires.
func (g *GestureFireworks) evaluate(s *gestureSlot, p Pose, dt float64) bool {
	conf := g.cfg.MinConfidence
	mo := s.wrists.Update(p, conf)
	up := BothWristsAboveShoulders(p, conf)
	if !up {
		s.handsUp = false
		return false
	}
	if !s.handsUp {
		s.handsUp = true
		s.handsUpSince = g.clock
	}

	if sw, ok := ShoulderWidth(p, conf); ok && sw > 0 && mo.Samples > 0 {
		perFrame := mo.Mean
		if f := frameUnits(dt); f > 0 {
			perFrame /= f
		}
		if perFrame/sw >= g.cfg.MovementTrigger {
			return true
		}
	}
	held := g.clock-s.handsUpSince >= g.cfg.Hold
	return held && g.clock-g.lastTrigger >= g.cfg.Cooldown
}

// currentAnchor prefers the live pose with raised hands, falling back to the
// pose that last fired so the window keeps firing through brief dropouts.
func (g *GestureFireworks) currentAnchor(poses []Pose) Pose {
	for _, p := range poses {
		if BothWristsAboveShoulders(p, g.cfg.MinConfidence) {
			return p
		}
	}
	return g.anchor
}

func (g *GestureFireworks) emit(p Pose) {
	conf := g.cfg.MinConfidence
	wrist := KeypointRightWrist
	if g.leftNext {
		wrist = KeypointLeftWrist
	}
	g.leftNext = !g.leftNext
	if k, ok := p.Keypoint(wrist, conf); ok {
		g.mgr.Trigger(k.X, k.Y, g.cfg.Palette.Random(g.rng))
	}

	if g.rng.Float64() < g.cfg.CrownChance {
		if nose, ok := p.Keypoint(KeypointNose, conf); ok {
			lift := 40.0
			if sw, ok := ShoulderWidth(p, conf); ok {
				lift = sw * 0.6
			}
			g.mgr.Trigger(nose.X, nose.Y-lift, g.cfg.Palette.Random(g.rng))
		}
	}

	if g.rng.Float64() < g.cfg.RingChance {
		col := g.cfg.Palette.Random(g.rng)
		for _, idx := range [4]int{KeypointLeftShoulder, KeypointRightShoulder, KeypointRightHip, KeypointLeftHip} {
			if k, ok := p.Keypoint(idx, conf); ok {
				g.mgr.Trigger(k.X, k.Y, col)
			}
		}
	}
}

// Reset closes the window, forgets per-slot state and clears all bursts.
func (g *GestureFireworks) Reset() {
	g.slots.Reset()
	g.sustainUntil = 0
	g.clock = 0
	g.nextEmit = 0
	g.lastTrigger = math.Inf(-1)
	g.anchor = Pose{}
	g.triggers = 0
	g.mgr.Clear()
}

// AmbientFireworkConfig tunes the continuous firework mode.
type AmbientFireworkConfig struct {
	// Keypoints are the indices that emit. Empty means nose and wrists.
	Keypoints []int
	// Interval is the minimum time between bursts of one keypoint, in seconds.
	Interval float64
	// Palette supplies burst colors. Empty uses a rainbow hue palette.
	Palette Palette
}

// DefaultAmbientFireworkConfig returns the stock ambient tunables.
func DefaultAmbientFireworkConfig() AmbientFireworkConfig {
	return AmbientFireworkConfig{
		Keypoints: []int{KeypointNose, KeypointLeftWrist, KeypointRightWrist},
		Interval:  0.45,
	}
}

// AmbientFireworks emits one burst per trusted keypoint at a fixed minimum
// interval, independent of gesture.
type AmbientFireworks struct {
	cfg   AmbientFireworkConfig
	mgr   *FireworkManager
	rng   *rand.Rand
	clock float64
	last  slotArena[[KeypointCount]float64]
}

// NewAmbientFireworks wires the ambient policy to a burst manager.
func NewAmbientFireworks(cfg AmbientFireworkConfig, mgr *FireworkManager, rng *rand.Rand) *AmbientFireworks {
	if rng == nil {
		rng = newRand(0)
	}
	if len(cfg.Keypoints) == 0 {
		cfg.Keypoints = DefaultAmbientFireworkConfig().Keypoints
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = HuePalette(12, 0.8, 1)
	}
	a := &AmbientFireworks{cfg: cfg, mgr: mgr, rng: rng}
	a.last = newSlotArena(func() *[KeypointCount]float64 {
		var t [KeypointCount]float64
		for i := range t {
			t[i] = math.Inf(-1)
		}
		return &t
	})
	return a
}

// Manager returns the underlying burst manager.
func (a *AmbientFireworks) Manager() *FireworkManager {
	return a.mgr
}

// Step emits due bursts and advances the burst manager.
func (a *AmbientFireworks) Step(poses []Pose, minConfidence, dt float64) {
	a.clock += dt
	a.last.Trim(len(poses))
	for i, p := range poses {
		last := a.last.Get(i)
		for _, idx := range a.cfg.Keypoints {
			if idx < 0 || idx >= KeypointCount {
				continue
			}
			k, ok := p.Keypoint(idx, minConfidence)
			if !ok || a.clock-last[idx] < a.cfg.Interval {
				continue
			}
			last[idx] = a.clock
			a.mgr.Trigger(k.X, k.Y, a.cfg.Palette.Random(a.rng))
		}
	}
	a.mgr.Update(dt)
}

// Reset forgets emission timers and clears all bursts.
func (a *AmbientFireworks) Reset() {
	a.last.Reset()
	a.clock = 0
	a.mgr.Clear()
}

func clonePose(p Pose) Pose {
	kp := make([]Keypoint, len(p.Keypoints))
	copy(kp, p.Keypoints)
	return Pose{Keypoints: kp}
}
