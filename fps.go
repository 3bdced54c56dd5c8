package posepaint

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is the interval between HUD text refreshes, in seconds.
const hudRefresh = 0.5

// hud displays FPS, the active mode and the live particle count. The text
// is re-rendered into a small cached image every ~0.5 seconds.
type hud struct {
	img        *ebiten.Image
	lastUpdate float64
	dirty      bool
}

func newHUD() *hud {
	// 160x48 is enough for three short DebugPrint lines.
	return &hud{img: ebiten.NewImage(160, 48), dirty: true}
}

// hudText formats the overlay lines.
func hudText(fps float64, mode Mode, particles int) string {
	return fmt.Sprintf("FPS: %.1f\nMode: %s\nParticles: %d", fps, mode, particles)
}

func (h *hud) update(dt float64, s *Session) {
	h.lastUpdate += dt
	if h.lastUpdate < hudRefresh && !h.dirty {
		return
	}
	h.lastUpdate = 0
	h.dirty = false

	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, hudText(ebiten.ActualFPS(), s.Mode(), s.Particles()))
}

func (h *hud) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(h.img, &op)
}
