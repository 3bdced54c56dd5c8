package posepaint

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SmokeConfig holds the smoke plume tunables. Velocities, forces and decay
// are per reference frame; times are in seconds.
type SmokeConfig struct {
	// EmitRate is the particles emitted per second from each trusted wrist.
	EmitRate float64
	// MaxParticles caps the live particle count; emissions beyond it are dropped.
	MaxParticles int
	// Size is the base particle radius in pixels.
	Size float64
	// Life is the initial particle life; Decay is subtracted per reference frame.
	Life  float64
	Decay float64
	// SpreadX is the standard deviation of the horizontal launch velocity.
	SpreadX float64
	// RiseMean and RiseSpread shape the vertical launch velocity (negative is up).
	RiseMean   float64
	RiseSpread float64
	// MaxGrowth caps the age-driven size factor.
	MaxGrowth float64
	// Opacity is the alpha of a fresh particle.
	Opacity float64

	// StillThreshold is the wrist displacement, per reference frame at the
	// base resolution, below which the wrists count as resting.
	StillThreshold float64
	// StillDelay is how long the wrists must rest before the size ramp starts.
	StillDelay float64
	// MaxSizeMult is the size multiplier reached after resting.
	MaxSizeMult float64
	// RampSeconds is the duration of the rest size ramp.
	RampSeconds float64
	// SizeSmoothing is the rate at which the live multiplier chases its target, per second.
	SizeSmoothing float64

	// WindGain converts wrist displacement into wind.
	WindGain float64
	// MaxWind caps the wind magnitude.
	MaxWind float64
	// WindBuild and WindDecay are the per-reference-frame interpolation
	// factors toward a moving target and back toward calm.
	WindBuild float64
	WindDecay float64

	// BaseWidth and BaseHeight are the resolution the thresholds are tuned for.
	BaseWidth  float64
	BaseHeight float64

	// Young and Old are the colors of fresh and aged particles.
	Young Color
	Old   Color
}

// DefaultSmokeConfig returns the stock plume tunables.
func DefaultSmokeConfig() SmokeConfig {
	return SmokeConfig{
		EmitRate:       90,
		MaxParticles:   2500,
		Size:           6,
		Life:           255,
		Decay:          2.4,
		SpreadX:        0.35,
		RiseMean:       -1.1,
		RiseSpread:     0.3,
		MaxGrowth:      1.6,
		Opacity:        0.55,
		StillThreshold: 2.5,
		StillDelay:     0.4,
		MaxSizeMult:    3,
		RampSeconds:    4,
		SizeSmoothing:  3,
		WindGain:       0.08,
		MaxWind:        0.6,
		WindBuild:      0.04,
		WindDecay:      0.12,
		BaseWidth:      640,
		BaseHeight:     480,
		Young:          Color{1, 69.0 / 255, 0, 1},
		Old:            Color{1, 214.0 / 255, 64.0 / 255, 1},
	}
}

type smokeParticle struct {
	pos, vel, acc Vec2
	life, maxLife float64
}

// SmokeSystem emits warm, upward-drifting smoke from the wrists. Resting
// wrists grow the plume; moving wrists blow it with a smoothed wind.
type SmokeSystem struct {
	cfg       SmokeConfig
	particles []smokeParticle
	carry     [2]float64
	rng       *rand.Rand

	trackers  slotArena[MovementTracker]
	scale     float64
	stillTime float64
	target    float64
	ramp      *gween.Tween
	mult      float64
	wind      Vec2
}

var smokeWrists = []int{KeypointLeftWrist, KeypointRightWrist}

// NewSmokeSystem creates an empty plume tuned for the base resolution.
func NewSmokeSystem(cfg SmokeConfig, rng *rand.Rand) *SmokeSystem {
	if rng == nil {
		rng = newRand(0)
	}
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 2500
	}
	if cfg.Life <= 0 {
		cfg.Life = 255
	}
	s := &SmokeSystem{
		cfg:       cfg,
		particles: make([]smokeParticle, 0, cfg.MaxParticles),
		rng:       rng,
		scale:     1,
		target:    1,
		mult:      1,
	}
	s.trackers = newSlotArena(func() *MovementTracker { return NewMovementTracker(smokeWrists) })
	return s
}

// Config returns a pointer to the config for live tuning.
func (s *SmokeSystem) Config() *SmokeConfig {
	return &s.cfg
}

// SetCanvasSize rescales the movement threshold and wind smoothing by
// √(area / base area) so behavior does not depend on resolution.
func (s *SmokeSystem) SetCanvasSize(w, h float64) {
	base := s.cfg.BaseWidth * s.cfg.BaseHeight
	if w <= 0 || h <= 0 || base <= 0 {
		s.scale = 1
		return
	}
	s.scale = math.Sqrt(w * h / base)
}

// Scale returns the current resolution scale factor.
func (s *SmokeSystem) Scale() float64 {
	return s.scale
}

// SizeMultiplier returns the live size multiplier.
func (s *SmokeSystem) SizeMultiplier() float64 {
	return s.mult
}

// TargetMultiplier returns the multiplier the live value is chasing.
func (s *SmokeSystem) TargetMultiplier() float64 {
	return s.target
}

// Wind returns the current wind vector.
func (s *SmokeSystem) Wind() Vec2 {
	return s.wind
}

// Len returns the number of live particles.
func (s *SmokeSystem) Len() int {
	return len(s.particles)
}

// Observe measures wrist motion across all poses and updates the rest size
// ramp and the wind.
func (s *SmokeSystem) Observe(poses []Pose, minConfidence, dt float64) {
	s.trackers.Trim(len(poses))

	var sum float64
	var delta Vec2
	samples := 0
	for i, p := range poses {
		mo := s.trackers.Get(i).Update(p, minConfidence)
		if mo.Samples == 0 {
			continue
		}
		sum += mo.Mean
		delta = delta.Add(mo.Delta)
		samples++
	}

	f := frameUnits(dt)
	measured := samples > 0 && f > 0
	moving := false
	if measured {
		perFrame := sum / float64(samples) / f
		delta = delta.Mul(1 / float64(samples) / f)
		moving = perFrame >= s.cfg.StillThreshold*s.scale
	}

	s.updateSize(moving, measured, dt)
	s.updateWind(moving, delta, f)
}

// updateSize advances the rest ramp only while wrists are measured below the
// still threshold. Frames without a measurement hold the ramp.
func (s *SmokeSystem) updateSize(moving, measured bool, dt float64) {
	switch {
	case moving:
		s.stillTime = 0
		s.ramp = nil
		s.target = 1
	case measured:
		s.stillTime += dt
		if s.stillTime >= s.cfg.StillDelay && s.ramp == nil && s.target < s.cfg.MaxSizeMult {
			s.ramp = gween.New(float32(s.target), float32(s.cfg.MaxSizeMult), float32(s.cfg.RampSeconds), ease.InOutQuad)
		}
		if s.ramp != nil {
			v, done := s.ramp.Update(float32(dt))
			s.target = float64(v)
			if done {
				s.target = s.cfg.MaxSizeMult
				s.ramp = nil
			}
		}
	}
	s.mult += (s.target - s.mult) * (1 - math.Exp(-dt*s.cfg.SizeSmoothing))
}

func (s *SmokeSystem) updateWind(moving bool, delta Vec2, f float64) {
	target := Vec2{}
	k := s.cfg.WindDecay
	if moving {
		target = delta.Mul(s.cfg.WindGain).Limit(s.cfg.MaxWind)
		k = s.cfg.WindBuild
	}
	s.wind = s.wind.Lerp(target, clamp01(k*s.scale*f))
	if !moving && s.wind.Len() < 1e-4 {
		s.wind = Vec2{}
	}
}

// Emit spawns particles at the pose's trusted wrists for a step of dt seconds.
func (s *SmokeSystem) Emit(p Pose, minConfidence, dt float64) {
	for j, idx := range smokeWrists {
		k, ok := p.Keypoint(idx, minConfidence)
		if !ok {
			continue
		}
		s.carry[j] += s.cfg.EmitRate * dt
		for s.carry[j] >= 1 {
			s.carry[j]--
			s.spawn(k.Pos())
		}
	}
}

func (s *SmokeSystem) spawn(at Vec2) {
	if len(s.particles) >= s.cfg.MaxParticles {
		return
	}
	s.particles = append(s.particles, smokeParticle{
		pos: at,
		vel: Vec2{
			X: s.rng.NormFloat64() * s.cfg.SpreadX,
			Y: s.cfg.RiseMean + s.rng.NormFloat64()*s.cfg.RiseSpread,
		},
		life:    s.cfg.Life,
		maxLife: s.cfg.Life,
	})
}

// ApplyForce adds f to every particle's force accumulator for the next update.
func (s *SmokeSystem) ApplyForce(f Vec2) {
	for i := range s.particles {
		s.particles[i].acc = s.particles[i].acc.Add(f)
	}
}

// Update integrates accumulated forces, ages particles and removes the dead
// while keeping draw order.
func (s *SmokeSystem) Update(dt float64) {
	f := frameUnits(dt)
	n := 0
	for i := range s.particles {
		p := s.particles[i]
		p.vel = p.vel.Add(p.acc.Mul(f))
		p.pos = p.pos.Add(p.vel.Mul(f))
		p.acc = Vec2{}
		p.life -= s.cfg.Decay * f
		if p.life <= 0 {
			continue
		}
		s.particles[n] = p
		n++
	}
	s.particles = s.particles[:n]
}

// Draw paints the plume. Fresh particles are small and orange-red; aging
// particles grow up to MaxGrowth and shift toward yellow as they fade.
func (s *SmokeSystem) Draw(c Canvas) {
	for i := range s.particles {
		p := &s.particles[i]
		remaining := clamp01(p.life / p.maxLife)
		age := 1 - remaining
		col := s.cfg.Young.Lerp(s.cfg.Old, age).WithAlpha(s.cfg.Opacity * remaining)
		r := s.cfg.Size * s.mult * math.Min(0.4+1.6*age, s.cfg.MaxGrowth)
		c.FillCircle(p.pos.X, p.pos.Y, r, col)
	}
}

// Run updates then draws, applying the current wind first.
func (s *SmokeSystem) Run(c Canvas, dt float64) {
	s.ApplyForce(s.wind)
	s.Update(dt)
	s.Draw(c)
}

// Clear removes every particle and resets the size and wind dynamics.
func (s *SmokeSystem) Clear() {
	s.particles = s.particles[:0]
	s.carry = [2]float64{}
	s.trackers.Reset()
	s.stillTime = 0
	s.ramp = nil
	s.target = 1
	s.mult = 1
	s.wind = Vec2{}
}
