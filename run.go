package posepaint

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Script, when set, drives poses, modes and screenshots and replaces
	// the source. The game exits once the script is done.
	Script *PoseScript
	// ScreenshotDir is where S and script screenshots are written.
	ScreenshotDir string
	// Fade is the ImageCanvas afterimage veil. Zero falls back to the
	// session config.
	Fade float64
	// UpdateFunc, when set, is called once per tick before input handling.
	UpdateFunc func() error
}

// Game adapts a Session and a PoseSource to ebiten.Game. Number keys 1-7
// select modes in Modes order, 0 selects ModeNone, C clears, F toggles the
// firework overlay, D toggles debug output and S queues a screenshot.
type Game struct {
	session *Session
	source  PoseSource
	cfg     RunConfig
	canvas  *ImageCanvas
	shots   *ScreenshotQueue
	hud     *hud
	overlay bool
	debug   bool
	done    bool
}

// NewGame creates the game for s drawing poses from src.
func NewGame(s *Session, src PoseSource, cfg RunConfig) *Game {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Script != nil {
		src = cfg.Script
	}
	if src == nil {
		src = NewStaticSource()
	}
	canvas := NewImageCanvas(cfg.Width, cfg.Height)
	canvas.Fade = cfg.Fade
	if canvas.Fade == 0 {
		canvas.Fade = s.Config().Fade
	}
	g := &Game{
		session: s,
		source:  src,
		cfg:     cfg,
		canvas:  canvas,
		shots:   NewScreenshotQueue(cfg.ScreenshotDir),
		overlay: s.Config().FireworkOverlay,
	}
	if cfg.ShowFPS {
		g.hud = newHUD()
	}
	return g
}

// Canvas returns the offscreen canvas the session paints on.
func (g *Game) Canvas() *ImageCanvas {
	return g.canvas
}

// Screenshot queues a labeled capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.shots.Screenshot(label)
}

// modeKeys maps number keys to modes.
var modeKeys = map[ebiten.Key]Mode{
	ebiten.Key0: ModeNone,
	ebiten.Key1: ModeKeypoints,
	ebiten.Key2: ModeSkeleton,
	ebiten.Key3: ModeTrails,
	ebiten.Key4: ModeCircles,
	ebiten.Key5: ModeFireworks,
	ebiten.Key6: ModeSmoke,
	ebiten.Key7: ModeParticles,
}

func (g *Game) Update() error {
	if g.done {
		return ebiten.Termination
	}
	if g.cfg.UpdateFunc != nil {
		if err := g.cfg.UpdateFunc(); err != nil {
			return err
		}
	}

	for k, m := range modeKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.session.SetMode(m)
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.session.Reset()
		g.canvas.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.overlay = !g.overlay
		g.session.SetFireworkOverlay(g.overlay)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.debug = !g.debug
		g.session.SetDebugMode(g.debug)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.shots.Screenshot("manual")
	}

	tick := 1.0 / float64(ebiten.TPS())
	if a, ok := g.source.(Advancer); ok {
		a.Advance(tick)
	}
	if g.cfg.Script != nil {
		g.cfg.Script.Step(g.session, g.shots)
		if g.cfg.Script.Done() && g.shots.Pending() == 0 {
			g.done = true
		}
	}
	if g.hud != nil {
		g.hud.update(tick, g.session)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.BeginFrame()
	g.session.Render(g.canvas, g.source.Poses(), time.Now())
	g.shots.Flush(g.canvas.Image())

	screen.DrawImage(g.canvas.Image(), nil)
	if g.hud != nil {
		g.hud.draw(screen)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and renders s from src until the window is closed
// or a configured script finishes.
func Run(s *Session, src PoseSource, cfg RunConfig) error {
	g := NewGame(s, src, cfg)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	return ebiten.RunGame(g)
}
