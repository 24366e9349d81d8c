// Package viewer runs a trackview chart in an Ebitengine window.
//
// Click a shape to trigger its interaction (sort a heatmap, bring an
// association to the front). Hovering raises associations and transcripts as
// well. Scroll to zoom around the cursor, drag to pan and press R to reset
// the zoom. F toggles a frame rate overlay.
package viewer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/trackview"
)

const (
	// dragThreshold is how far the cursor must move, in pixels, before a
	// press becomes a pan instead of a click.
	dragThreshold = 4
	// wheelZoomStep is the zoom factor per wheel notch.
	wheelZoomStep = 1.2
	pathSegments  = 32
)

// Viewer implements ebiten.Game for a chart.
type Viewer struct {
	chart  *trackview.Chart
	script *trackview.ScriptRunner

	white *ebiten.Image
	face  *text.GoXFace

	pressed        bool
	dragged        bool
	pressX, pressY int
	lastX, lastY   int
	hoverX, hoverY int

	verts []ebiten.Vertex
	inds  []uint16

	stats *statsOverlay

	// ShowStats draws the frame rate overlay. F toggles it.
	ShowStats bool

	// OnError receives errors from dispatched commands and scripts. Nil
	// stops the game on the first error.
	OnError func(error)
}

// New creates a viewer for c.
func New(c *trackview.Chart) *Viewer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Viewer{
		chart: c,
		white: white,
		face:  text.NewGoXFace(basicfont.Face7x13),
		stats: newStatsOverlay(),
	}
}

// SetScript replays an interaction script, one step per frame.
func (v *Viewer) SetScript(r *trackview.ScriptRunner) {
	v.script = r
}

// Run opens a window sized to the chart and blocks until it is closed.
func Run(c *trackview.Chart, title string) error {
	return RunViewer(New(c), title)
}

// RunViewer opens a window for an already configured viewer.
func RunViewer(v *Viewer, title string) error {
	w, h := v.size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

func (v *Viewer) size() (int, int) {
	s := v.chart.Scene()
	return max(int(math.Ceil(s.Width)), 1), max(int(math.Ceil(s.Height)), 1)
}

// Update handles input and advances transitions by one tick.
func (v *Viewer) Update() error {
	if err := v.handleInput(); err != nil {
		if v.OnError == nil {
			return err
		}
		v.OnError(err)
	}
	if v.script != nil && !v.script.Done() {
		if err := v.script.Step(v.chart); err != nil {
			if v.OnError == nil {
				return err
			}
			v.OnError(err)
		}
	}
	dt := 1.0 / float64(ebiten.TPS())
	v.chart.Update(float32(dt))
	if v.ShowStats {
		v.stats.update(dt, v.chart)
	}
	return nil
}

func (v *Viewer) handleInput() error {
	x, y := ebiten.CursorPosition()

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		v.ShowStats = !v.ShowStats
		v.stats.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.chart.Dispatch(trackview.ResetZoom{}); err != nil {
			return err
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		f := math.Pow(wheelZoomStep, wy)
		if err := v.chart.Dispatch(trackview.ZoomBy{Factor: f, X: float64(x), Y: float64(y)}); err != nil {
			return err
		}
	}

	if !v.pressed && (x != v.hoverX || y != v.hoverY) {
		v.hoverX, v.hoverY = x, y
		v.chart.Hover(float64(x), float64(y))
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.pressed, v.dragged = true, false
		v.pressX, v.pressY = x, y
		v.lastX, v.lastY = x, y
	case v.pressed && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if !v.dragged && (abs(x-v.pressX) > dragThreshold || abs(y-v.pressY) > dragThreshold) {
			v.dragged = true
		}
		if v.dragged && (x != v.lastX || y != v.lastY) {
			if err := v.chart.Dispatch(trackview.Pan{DX: float64(x - v.lastX), DY: float64(y - v.lastY)}); err != nil {
				return err
			}
		}
		v.lastX, v.lastY = x, y
	case v.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		v.pressed = false
		if !v.dragged {
			v.chart.Click(float64(x), float64(y))
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Layout reports the chart's natural size; Ebitengine scales it to the window.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.size()
}

// Draw paints the scene in painter order.
func (v *Viewer) Draw(screen *ebiten.Image) {
	s := v.chart.Scene()
	bg := s.Background
	if bg.A == 0 {
		bg = trackview.ColorWhite
	}
	screen.Fill(bg.NRGBA())

	s.Visit(func(n *trackview.Node, world [6]float64, alpha float64) bool {
		if alpha <= 0 {
			return false
		}
		switch n.Type {
		case trackview.NodeTypeRect:
			v.drawRect(screen, n, world, alpha)
		case trackview.NodeTypePath:
			v.drawPath(screen, n, world, alpha)
		case trackview.NodeTypeLine:
			x0, y0 := trackview.TransformPoint(world, 0, 0)
			x1, y1 := trackview.TransformPoint(world, n.Width, n.Height)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1),
				float32(max(n.StrokeWidth, 1)), faded(n.Stroke, alpha), false)
		case trackview.NodeTypeText:
			v.drawText(screen, n, world, alpha)
		}
		return true
	})
	if v.ShowStats {
		v.stats.draw(screen)
	}
}

func faded(c trackview.Color, alpha float64) color.Color {
	c.A *= alpha
	return c.NRGBA()
}

func (v *Viewer) drawRect(screen *ebiten.Image, n *trackview.Node, world [6]float64, alpha float64) {
	x0, y0 := trackview.TransformPoint(world, 0, 0)
	x1, y1 := trackview.TransformPoint(world, n.Width, n.Height)
	if len(n.Gradient) < 2 {
		vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
			faded(n.Color, alpha), false)
		return
	}
	// One quad per gradient segment, colored at its corners.
	v.verts, v.inds = v.verts[:0], v.inds[:0]
	for i := 0; i+1 < len(n.Gradient); i++ {
		a, b := n.Gradient[i], n.Gradient[i+1]
		xa := x0 + (x1-x0)*a.Offset
		xb := x0 + (x1-x0)*b.Offset
		base := uint16(len(v.verts))
		v.verts = append(v.verts,
			vertex(xa, y0, a.Color, alpha), vertex(xb, y0, b.Color, alpha),
			vertex(xa, y1, a.Color, alpha), vertex(xb, y1, b.Color, alpha),
		)
		v.inds = append(v.inds, base, base+1, base+2, base+1, base+3, base+2)
	}
	screen.DrawTriangles(v.verts, v.inds, v.white, &ebiten.DrawTrianglesOptions{})
}

// drawPath fills a link path as a triangle strip between its outer and inner
// arcs.
func (v *Viewer) drawPath(screen *ebiten.Image, n *trackview.Node, world [6]float64, alpha float64) {
	if n.Path == nil {
		return
	}
	band := n.Path.Band(pathSegments)
	v.verts, v.inds = v.verts[:0], v.inds[:0]
	for _, p := range band {
		x, y := trackview.TransformPoint(world, p.X, p.Y)
		v.verts = append(v.verts, vertex(x, y, n.Color, alpha))
	}
	for i := uint16(0); int(i)+3 < len(band); i += 2 {
		v.inds = append(v.inds, i, i+1, i+2, i+1, i+3, i+2)
	}
	screen.DrawTriangles(v.verts, v.inds, v.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// vertex builds a straight-alpha vertex sampling the white image.
func vertex(x, y float64, c trackview.Color, alpha float64) ebiten.Vertex {
	a := c.A * alpha
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 1, SrcY: 1,
		ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(a),
	}
}

func (v *Viewer) drawText(screen *ebiten.Image, n *trackview.Node, world [6]float64, alpha float64) {
	x, y := trackview.TransformPoint(world, 0, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	switch n.Anchor {
	case trackview.TextAnchorMiddle:
		op.PrimaryAlign = text.AlignCenter
	case trackview.TextAnchorEnd:
		op.PrimaryAlign = text.AlignEnd
	}
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(faded(n.Color, alpha))
	text.Draw(screen, n.Text, v.face, op)
}
