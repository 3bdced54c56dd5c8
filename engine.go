package posepaint

// Frame is the per-frame input handed to every Engine.
type Frame struct {
	Canvas        Canvas
	Poses         []Pose
	Connections   []Connection
	MinConfidence float64
	// Dt is the measured frame delta in seconds.
	Dt float64
	// Time is the session clock in seconds.
	Time float64

	// FireworkFired is set by engines when a firework gesture fired.
	FireworkFired bool
}

// Engine is one effect driven by the session frame loop. Step advances the
// effect by f.Dt and paints it; Reset returns it to its empty state.
type Engine interface {
	Step(f *Frame)
	Reset()
}

// particleCounter is implemented by engines that report live particles.
type particleCounter interface {
	Particles() int
}

// visualEngine paints a direct visualizer mode.
type visualEngine struct {
	v    *PoseVisualizer
	mode VisualMode
}

func (e *visualEngine) Step(f *Frame) {
	if e.v.Mode() != e.mode {
		e.v.SetMode(e.mode)
	}
	e.v.Render(f.Canvas, f.Poses, f.Connections, f.MinConfidence, f.Dt)
}

func (e *visualEngine) Reset() { e.v.Reset() }

// gestureEngine runs gesture fireworks.
type gestureEngine struct {
	g *GestureFireworks
}

func (e *gestureEngine) Step(f *Frame) {
	if e.g.Step(f.Poses, f.Dt) {
		f.FireworkFired = true
	}
	e.g.Manager().Draw(f.Canvas)
}

func (e *gestureEngine) Reset()         { e.g.Reset() }
func (e *gestureEngine) Particles() int { return e.g.Manager().ActiveSparks() }

// ambientEngine runs ambient fireworks.
type ambientEngine struct {
	a *AmbientFireworks
}

func (e *ambientEngine) Step(f *Frame) {
	e.a.Step(f.Poses, f.MinConfidence, f.Dt)
	e.a.Manager().Draw(f.Canvas)
}

func (e *ambientEngine) Reset()         { e.a.Reset() }
func (e *ambientEngine) Particles() int { return e.a.Manager().ActiveSparks() }

// smokeEngine runs the wrist smoke plume.
type smokeEngine struct {
	s *SmokeSystem
}

func (e *smokeEngine) Step(f *Frame) {
	e.s.SetCanvasSize(f.Canvas.Size())
	e.s.Observe(f.Poses, f.MinConfidence, f.Dt)
	for _, p := range f.Poses {
		e.s.Emit(p, f.MinConfidence, f.Dt)
	}
	e.s.Run(f.Canvas, f.Dt)
}

func (e *smokeEngine) Reset()         { e.s.Clear() }
func (e *smokeEngine) Particles() int { return e.s.Len() }

// paintEngine runs the noise paint particles.
type paintEngine struct {
	p *PaintSystem
}

func (e *paintEngine) Step(f *Frame) {
	e.p.EmitFromPoses(f.Poses, f.Connections, f.MinConfidence)
	e.p.Update(f.Dt)
	e.p.Draw(f.Canvas)
}

func (e *paintEngine) Reset()         { e.p.Clear() }
func (e *paintEngine) Particles() int { return e.p.AliveCount() }
