package posepaint

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
)

// BurstParams shapes one emitter burst.
type BurstParams struct {
	// Count is the particles spawned by a full-intensity burst.
	Count int
	// Speed is the launch speed range in pixels per reference frame.
	Speed Range
	// Life is the initial life range; life decays by PaintConfig.Decay per reference frame.
	Life Range
}

// PaintConfig holds the noise paint tunables.
type PaintConfig struct {
	// Keypoints are the indices that get an emitter. Empty means nose and
	// wrists; AllKeypoints gives every landmark its own emitter.
	Keypoints []int
	// ParticleCount is the fixed capacity of each emitter.
	ParticleCount int
	// ParticleSize is the radius of a particle at full life.
	ParticleSize float64
	// NoiseStrength scales the noise force added to velocity per reference frame.
	NoiseStrength float64
	// NoiseStep is how far each particle's noise offset advances per reference frame.
	NoiseStep float64
	// Friction multiplies velocity once per reference frame.
	Friction float64
	// Decay is the life lost per reference frame.
	Decay float64
	// MinInterval is the minimum time between bursts of one emitter, in seconds.
	MinInterval float64
	// Floor lets an emitter burst early once its live count drops to it.
	Floor int
	// Burst shapes each emission.
	Burst BurstParams
	// PaintLimbs also paints half-bursts at the midpoint of every connection
	// whose first endpoint just emitted.
	PaintLimbs bool
	// Saturation and Value of the emitter hues.
	Saturation float64
	Value      float64
	// Opacity of the drawn particles.
	Opacity float64
	// NoiseSeed seeds the noise field; zero draws a random seed.
	NoiseSeed int64
}

// DefaultPaintConfig returns the stock paint tunables.
func DefaultPaintConfig() PaintConfig {
	return PaintConfig{
		Keypoints:     []int{KeypointNose, KeypointLeftWrist, KeypointRightWrist},
		ParticleCount: 80,
		ParticleSize:  6,
		NoiseStrength: 0.35,
		NoiseStep:     0.01,
		Friction:      0.95,
		Decay:         0.015,
		MinInterval:   0.08,
		Floor:         5,
		Burst: BurstParams{
			Count: 6,
			Speed: Range{Min: 0.5, Max: 2.5},
			Life:  Range{Min: 0.7, Max: 1.0},
		},
		PaintLimbs: true,
		Saturation: 0.75,
		Value:      1,
		Opacity:    0.85,
	}
}

// paintParticle holds per-particle state. Managed by PaintEmitter.
type paintParticle struct {
	x, y    float64
	vx, vy  float64
	life    float64
	maxLife float64
	noise   float64
}

// PaintEmitter is a fixed-capacity particle pool bound to one keypoint and
// one hue. Live particles occupy the prefix of the pool; emissions into a
// full pool are dropped.
type PaintEmitter struct {
	sys       *PaintSystem
	particles []paintParticle
	alive     int
	lastBurst float64
	Color     Color
}

func newPaintEmitter(sys *PaintSystem, col Color) *PaintEmitter {
	n := sys.cfg.ParticleCount
	if n <= 0 {
		n = 80
	}
	return &PaintEmitter{
		sys:       sys,
		particles: make([]paintParticle, n),
		lastBurst: math.Inf(-1),
		Color:     col,
	}
}

// AliveCount returns the number of live particles.
func (e *PaintEmitter) AliveCount() int {
	return e.alive
}

// Emit spawns a burst at (x, y) scaled by intensity in [0, 1], but only when
// MinInterval has passed since the last burst or the live count has fallen
// to Floor. It returns the number of particles spawned.
func (e *PaintEmitter) Emit(x, y, intensity float64) int {
	cfg := &e.sys.cfg
	now := e.sys.clock
	if now-e.lastBurst < cfg.MinInterval && e.alive > cfg.Floor {
		return 0
	}
	e.lastBurst = now
	return e.burst(x, y, cfg.Burst.Count, intensity)
}

func (e *PaintEmitter) burst(x, y float64, count int, intensity float64) int {
	n := int(math.Ceil(float64(count) * clamp01(intensity)))
	spawned := 0
	for i := 0; i < n && e.alive < len(e.particles); i++ {
		e.spawnParticle(x, y)
		spawned++
	}
	return spawned
}

// spawnParticle initializes the particle at slot e.alive and increments alive.
func (e *PaintEmitter) spawnParticle(x, y float64) {
	cfg := &e.sys.cfg
	rng := e.sys.rng
	p := &e.particles[e.alive]

	angle := rng.Float64() * 2 * math.Pi
	speed := cfg.Burst.Speed.Random(rng)
	p.x, p.y = x, y
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.life = cfg.Burst.Life.Random(rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life
	p.noise = rng.Float64() * 1000

	e.alive++
}

// update advances particles by f reference frames, swap-removing dead ones.
func (e *PaintEmitter) update(f float64) {
	cfg := &e.sys.cfg
	noise := e.sys.noise
	friction := math.Pow(cfg.Friction, f)

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= cfg.Decay * f
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		// Axis offsets are decorrelated by sampling far apart in the field.
		p.vx += noise.Noise1D(p.noise) * cfg.NoiseStrength * f
		p.vy += noise.Noise1D(p.noise+5000) * cfg.NoiseStrength * f
		p.noise += cfg.NoiseStep * f

		p.vx *= friction
		p.vy *= friction
		p.x += p.vx * f
		p.y += p.vy * f

		i++
	}
}

func (e *PaintEmitter) draw(c Canvas) {
	cfg := &e.sys.cfg
	col := e.Color.WithAlpha(cfg.Opacity)
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		c.FillCircle(p.x, p.y, cfg.ParticleSize*clamp01(p.life/p.maxLife), col)
	}
}

// PaintSystem drives one PaintEmitter per tracked keypoint per pose slot.
// Emitters of a slot that disappears are retired: they stop emitting and are
// dropped once their particles have faded.
type PaintSystem struct {
	cfg      PaintConfig
	rng      *rand.Rand
	noise    *perlin.Perlin
	clock    float64
	slots    slotArena[[]*PaintEmitter]
	retired  []*PaintEmitter
	tracking [KeypointCount]int
}

// NewPaintSystem creates an empty system.
func NewPaintSystem(cfg PaintConfig, rng *rand.Rand) *PaintSystem {
	if rng == nil {
		rng = newRand(0)
	}
	if len(cfg.Keypoints) == 0 {
		cfg.Keypoints = DefaultPaintConfig().Keypoints
	}
	seed := cfg.NoiseSeed
	if seed == 0 {
		seed = rng.Int64()
	}
	s := &PaintSystem{
		cfg:   cfg,
		rng:   rng,
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
	s.indexKeypoints()
	s.slots = newSlotArena(func() *[]*PaintEmitter {
		return &[]*PaintEmitter{}
	})
	return s
}

// indexKeypoints maps keypoint index to emitter position (or -1).
func (s *PaintSystem) indexKeypoints() {
	for i := range s.tracking {
		s.tracking[i] = -1
	}
	j := 0
	for _, k := range s.cfg.Keypoints {
		if k < 0 || k >= KeypointCount || s.tracking[k] >= 0 {
			continue
		}
		s.tracking[k] = j
		j++
	}
}

// trackedCount is the number of distinct valid tracked keypoints.
func (s *PaintSystem) trackedCount() int {
	n := 0
	for _, j := range s.tracking {
		if j >= 0 {
			n++
		}
	}
	return n
}

// SetNoiseStrength tunes the noise force.
func (s *PaintSystem) SetNoiseStrength(v float64) { s.cfg.NoiseStrength = v }

// SetBurst tunes the burst parameters.
func (s *PaintSystem) SetBurst(b BurstParams) { s.cfg.Burst = b }

// SetParticleSize tunes the particle radius.
func (s *PaintSystem) SetParticleSize(v float64) { s.cfg.ParticleSize = v }

// SetParticleCount changes emitter capacity. Existing emitters are cleared
// so every emitter shares the new capacity.
func (s *PaintSystem) SetParticleCount(n int) {
	if n <= 0 || n == s.cfg.ParticleCount {
		return
	}
	s.cfg.ParticleCount = n
	s.Clear()
}

// SetKeypoints changes the tracked keypoint subset and clears all emitters.
// An empty subset falls back to the default paint points.
func (s *PaintSystem) SetKeypoints(idx []int) {
	if len(idx) == 0 {
		idx = DefaultPaintConfig().Keypoints
	}
	s.cfg.Keypoints = append([]int(nil), idx...)
	s.indexKeypoints()
	s.Clear()
}

// Config returns a copy of the current tunables.
func (s *PaintSystem) Config() PaintConfig {
	return s.cfg
}

// emitters returns slot i's emitters, creating them with evenly spaced hues.
func (s *PaintSystem) emitters(i int) []*PaintEmitter {
	es := s.slots.Get(i)
	if len(*es) == 0 {
		n := s.trackedCount()
		*es = make([]*PaintEmitter, n)
		for j := range *es {
			hue := float64(j)*360/float64(n) + float64(i)*37
			(*es)[j] = newPaintEmitter(s, HSVToRGB(hue, s.cfg.Saturation, s.cfg.Value))
		}
	}
	return *es
}

// EmitFromPoses trims slots to the pose count, retiring vanished slots, and
// emits from every pose.
func (s *PaintSystem) EmitFromPoses(poses []Pose, conns []Connection, minConfidence float64) {
	for i := len(poses); i < s.slots.Len(); i++ {
		if es := s.slots.Peek(i); es != nil {
			s.retired = append(s.retired, *es...)
		}
	}
	s.slots.Trim(len(poses))
	for i, p := range poses {
		s.EmitFromPose(i, p, conns, minConfidence)
	}
}

// EmitFromPose emits from the tracked keypoints of the pose in slot i, with
// intensity following keypoint confidence.
func (s *PaintSystem) EmitFromPose(i int, p Pose, conns []Connection, minConfidence float64) {
	es := s.emitters(i)
	var emitted [KeypointCount]bool
	for k, j := range s.tracking {
		if j < 0 {
			continue
		}
		kp, ok := p.Keypoint(k, minConfidence)
		if !ok {
			continue
		}
		if es[j].Emit(kp.X, kp.Y, kp.Confidence) > 0 {
			emitted[k] = true
		}
	}
	if !s.cfg.PaintLimbs {
		return
	}
	for _, cn := range conns {
		if cn.A < 0 || cn.A >= KeypointCount || !emitted[cn.A] {
			continue
		}
		a, okA := p.Keypoint(cn.A, minConfidence)
		b, okB := p.Keypoint(cn.B, minConfidence)
		if !okA || !okB {
			continue
		}
		mid := a.Pos().Lerp(b.Pos(), 0.5)
		es[s.tracking[cn.A]].burst(mid.X, mid.Y, s.cfg.Burst.Count/2, 1)
	}
}

// Update advances every emitter, including retired ones, by dt seconds.
func (s *PaintSystem) Update(dt float64) {
	s.clock += dt
	f := frameUnits(dt)
	s.slots.Each(func(_ int, es *[]*PaintEmitter) {
		for _, e := range *es {
			e.update(f)
		}
	})
	n := 0
	for _, e := range s.retired {
		e.update(f)
		if e.alive > 0 {
			s.retired[n] = e
			n++
		}
	}
	clear(s.retired[n:])
	s.retired = s.retired[:n]
}

// Draw paints every live particle.
func (s *PaintSystem) Draw(c Canvas) {
	for _, e := range s.retired {
		e.draw(c)
	}
	s.slots.Each(func(_ int, es *[]*PaintEmitter) {
		for _, e := range *es {
			e.draw(c)
		}
	})
}

// AliveCount returns the live particle count across all emitters.
func (s *PaintSystem) AliveCount() int {
	n := 0
	for _, e := range s.retired {
		n += e.alive
	}
	s.slots.Each(func(_ int, es *[]*PaintEmitter) {
		for _, e := range *es {
			n += e.alive
		}
	})
	return n
}

// Clear drops every emitter and particle.
func (s *PaintSystem) Clear() {
	s.slots.Reset()
	s.retired = s.retired[:0]
}
