package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/trackview"
)

// statsInterval is how often, in seconds, the overlay text is redrawn.
const statsInterval = 0.5

// statsOverlay shows frame rate, running transitions and zoom in the top left
// corner. It redraws its own image every statsInterval.
type statsOverlay struct {
	img   *ebiten.Image
	since float64
	dirty bool
}

func newStatsOverlay() *statsOverlay {
	return &statsOverlay{img: ebiten.NewImage(140, 48), dirty: true}
}

func (o *statsOverlay) update(dt float64, c *trackview.Chart) {
	o.since += dt
	if o.since < statsInterval && !o.dirty {
		return
	}
	o.since, o.dirty = 0, false

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), c))
}

func statsText(fps, tps float64, c *trackview.Chart) string {
	s := c.Scene()
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nanim: %d zoom: %.2f",
		fps, tps, s.Animator().Len(), s.Zoom().Scale)
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
