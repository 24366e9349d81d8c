package trackview

import (
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// pathSegments is the number of steps each link arc is flattened into.
const pathSegments = 32

// WritePNG rasterizes the scene as it currently stands, including any
// transition in flight, and encodes it as PNG.
func WritePNG(w io.Writer, s *Scene) error {
	width, height := sceneSize(s)
	dc := gg.NewContext(width, height)
	if s.Background.A > 0 {
		dc.SetColor(s.Background.NRGBA())
	} else {
		dc.SetColor(ColorWhite.NRGBA())
	}
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	drawPNGNode(dc, s.root, 1)
	return dc.EncodePNG(w)
}

func drawPNGNode(dc *gg.Context, n *Node, parentAlpha float64) {
	if !n.Visible {
		return
	}
	alpha := parentAlpha * n.Alpha
	if alpha <= 0 {
		return
	}
	dc.Push()
	dc.Translate(n.X, n.Y)
	dc.Scale(n.ScaleX, n.ScaleY)

	switch n.Type {
	case NodeTypeRect:
		dc.DrawRectangle(0, 0, n.Width, n.Height)
		if len(n.Gradient) > 0 {
			g := gg.NewLinearGradient(0, 0, n.Width, 0)
			for _, st := range n.Gradient {
				g.AddColorStop(st.Offset, faded(st.Color, alpha).NRGBA())
			}
			dc.SetFillStyle(g)
		} else {
			dc.SetColor(faded(n.Color, alpha).NRGBA())
		}
		dc.Fill()
	case NodeTypePath:
		if n.Path != nil {
			pts := n.Path.Polygon(pathSegments)
			dc.NewSubPath()
			for i, p := range pts {
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
					continue
				}
				dc.LineTo(p.X, p.Y)
			}
			dc.ClosePath()
			dc.SetColor(faded(n.Color, alpha).NRGBA())
			dc.Fill()
		}
	case NodeTypeLine:
		dc.SetColor(faded(n.Stroke, alpha).NRGBA())
		dc.SetLineWidth(max(n.StrokeWidth, 1))
		dc.DrawLine(0, 0, n.Width, n.Height)
		dc.Stroke()
	case NodeTypeText:
		ax := 0.0
		switch n.Anchor {
		case TextAnchorMiddle:
			ax = 0.5
		case TextAnchorEnd:
			ax = 1
		}
		dc.SetColor(faded(n.Color, alpha).NRGBA())
		dc.DrawStringAnchored(n.Text, 0, 0, ax, 0.5)
	}

	for _, c := range n.children {
		drawPNGNode(dc, c, alpha)
	}
	dc.Pop()
}

func faded(c Color, alpha float64) Color {
	c.A *= alpha
	return c
}
