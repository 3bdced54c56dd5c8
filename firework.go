package posepaint

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Spark is one firework particle. Velocity, gravity and decay are expressed
// per reference frame and scaled by measured dt during Update.
type Spark struct {
	Pos   Vec2
	Vel   Vec2
	Life  float64
	Decay float64
	Size  float64
	Color Color

	// owner is the id of the burst that last claimed this pool slot. A burst
	// ignores sparks whose slot has since been recycled by a newer burst.
	owner uint64
}

// Alive reports whether the spark still has life left.
func (s *Spark) Alive() bool {
	return s.Life > 0
}

// Burst is one radial emission of sparks.
type Burst struct {
	id     uint64
	sparks []*Spark
	active bool
	Origin Vec2
	Color  Color
}

// IsDead reports whether none of the burst's sparks are alive. Sparks
// recycled by a newer burst no longer count.
func (b *Burst) IsDead() bool {
	for _, s := range b.sparks {
		if b.owns(s) && s.Alive() {
			return false
		}
	}
	return true
}

// Alive returns the number of live sparks the burst still owns.
func (b *Burst) Alive() int {
	n := 0
	for _, s := range b.sparks {
		if b.owns(s) && s.Alive() {
			n++
		}
	}
	return n
}

func (b *Burst) owns(s *Spark) bool {
	return s.owner == b.id
}

// FireworkConfig holds burst shape and spark physics tunables.
type FireworkConfig struct {
	// SparksPerBurst is the number of sparks in one burst.
	SparksPerBurst int
	// AngleJitter is the maximum random offset added to each spark's slot angle, in radians.
	AngleJitter float64
	// Speed is the initial spark speed range in pixels per reference frame.
	Speed Range
	// Drag multiplies velocity once per reference frame.
	Drag float64
	// Gravity is the downward acceleration per reference frame.
	Gravity float64
	// Jitter is the maximum random velocity nudge per reference frame.
	Jitter float64
	// Life is each spark's initial life; Decay is subtracted per reference frame.
	Life  float64
	Decay float64
	// SparkSize is the spark radius at full life.
	SparkSize float64
	// SparkPool and BurstPool are the fixed pool capacities.
	SparkPool int
	BurstPool int
}

// DefaultFireworkConfig returns the stock burst tunables.
func DefaultFireworkConfig() FireworkConfig {
	return FireworkConfig{
		SparksPerBurst: 90,
		AngleJitter:    0.05,
		Speed:          Range{Min: 2, Max: 6},
		Drag:           0.96,
		Gravity:        0.06,
		Jitter:         0.05,
		Life:           1,
		Decay:          0.012,
		SparkSize:      2.5,
		SparkPool:      4096,
		BurstPool:      96,
	}
}

// FireworkManager owns the spark and burst pools and the ordered list of
// live bursts. Saturated pools recycle their oldest slots.
type FireworkManager struct {
	cfg    FireworkConfig
	sparks *Pool[Spark]
	bursts *Pool[Burst]
	active []*Burst
	nextID uint64
	rng    *rand.Rand
}

// NewFireworkManager preallocates both pools.
func NewFireworkManager(cfg FireworkConfig, rng *rand.Rand) *FireworkManager {
	if rng == nil {
		rng = newRand(0)
	}
	if cfg.SparksPerBurst <= 0 {
		cfg.SparksPerBurst = 90
	}
	// A burst must never recycle its own sparks.
	if cfg.SparkPool < cfg.SparksPerBurst {
		cfg.SparkPool = cfg.SparksPerBurst
	}
	m := &FireworkManager{
		cfg:    cfg,
		sparks: NewPool[Spark](cfg.SparkPool),
		bursts: NewPool[Burst](cfg.BurstPool),
		rng:    rng,
	}
	for i := 0; i < m.bursts.Cap(); i++ {
		m.bursts.At(i).sparks = make([]*Spark, 0, cfg.SparksPerBurst)
	}
	return m
}

// Config returns a pointer to the config for live tuning. Pool capacities
// are fixed at construction.
func (m *FireworkManager) Config() *FireworkConfig {
	return &m.cfg
}

// Trigger spawns one burst at (x, y) and returns it.
func (m *FireworkManager) Trigger(x, y float64, col Color) *Burst {
	b := m.bursts.Next()
	if b.active {
		m.active = slices.DeleteFunc(m.active, func(o *Burst) bool { return o == b })
	}
	m.nextID++
	b.id = m.nextID
	b.active = true
	b.Origin = Vec2{x, y}
	b.Color = col
	b.sparks = b.sparks[:0]

	n := m.cfg.SparksPerBurst
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		s := m.sparks.Next()
		angle := float64(i)*step + (m.rng.Float64()*2-1)*m.cfg.AngleJitter
		speed := m.cfg.Speed.Random(m.rng)
		*s = Spark{
			Pos:   Vec2{x, y},
			Vel:   Vec2{math.Cos(angle) * speed, math.Sin(angle) * speed},
			Life:  m.cfg.Life,
			Decay: m.cfg.Decay,
			Size:  m.cfg.SparkSize,
			Color: col,
			owner: b.id,
		}
		b.sparks = append(b.sparks, s)
	}
	m.active = append(m.active, b)
	return b
}

// Update advances every owned spark by dt seconds and drops dead bursts,
// keeping the draw order of the survivors.
func (m *FireworkManager) Update(dt float64) {
	f := frameUnits(dt)
	drag := math.Pow(m.cfg.Drag, f)
	for _, b := range m.active {
		for _, s := range b.sparks {
			if !b.owns(s) || !s.Alive() {
				continue
			}
			s.Vel = s.Vel.Mul(drag)
			s.Vel.Y += m.cfg.Gravity * f
			s.Vel.X += (m.rng.Float64()*2 - 1) * m.cfg.Jitter * f
			s.Vel.Y += (m.rng.Float64()*2 - 1) * m.cfg.Jitter * f
			s.Pos = s.Pos.Add(s.Vel.Mul(f))
			s.Life -= s.Decay * f
		}
	}
	m.active = slices.DeleteFunc(m.active, func(b *Burst) bool {
		if b.IsDead() {
			b.active = false
			return true
		}
		return false
	})
}

// Draw paints every live spark additively, fading and shrinking with life.
func (m *FireworkManager) Draw(c Canvas) {
	if len(m.active) == 0 {
		return
	}
	c.PushBlend(BlendAdd)
	defer c.PopBlend()
	for _, b := range m.active {
		for _, s := range b.sparks {
			if !b.owns(s) || !s.Alive() {
				continue
			}
			life := clamp01(s.Life / m.cfg.Life)
			c.FillCircle(s.Pos.X, s.Pos.Y, s.Size*(0.4+0.6*life), s.Color.Scale(life))
		}
	}
}

// Clear drops every burst and zeroes both pools.
func (m *FireworkManager) Clear() {
	for _, b := range m.active {
		b.active = false
	}
	m.active = m.active[:0]
	m.sparks.Reset()
	for i := 0; i < m.bursts.Cap(); i++ {
		b := m.bursts.At(i)
		b.active = false
		b.sparks = b.sparks[:0]
	}
}

// Bursts returns the number of live bursts.
func (m *FireworkManager) Bursts() int {
	return len(m.active)
}

// ActiveSparks returns the number of live sparks across all bursts.
func (m *FireworkManager) ActiveSparks() int {
	n := 0
	for _, b := range m.active {
		n += b.Alive()
	}
	return n
}

// Reset is Clear; it lets the manager serve as an engine component.
func (m *FireworkManager) Reset() {
	m.Clear()
}
