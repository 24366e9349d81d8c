package trackview

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ajstarks/svgo"
)

// WriteSVG writes the scene as an SVG document. Nodes become nested groups
// carrying their class marker, transform and title, so the output can be
// styled from outside.
func WriteSVG(w io.Writer, s *Scene) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	width, height := sceneSize(s)
	canvas.Start(width, height, `class="trackview chart"`)
	if s.Background.A > 0 {
		canvas.Rect(0, 0, width, height, "fill:"+s.Background.Hex())
	}
	writeGradients(canvas, s.root)
	writeSVGNode(canvas, s.root)
	canvas.End()
	return ew.err
}

func sceneSize(s *Scene) (int, int) {
	w, h := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	if w <= 0 || h <= 0 {
		if b, ok := s.root.ContentBounds(); ok {
			w, h = int(math.Ceil(b.X+b.Width)), int(math.Ceil(b.Y+b.Height))
		}
	}
	return max(w, 1), max(h, 1)
}

func gradientID(n *Node) string {
	return "gradient-" + strconv.FormatUint(uint64(n.ID), 10)
}

func writeGradients(canvas *svg.SVG, root *Node) {
	var nodes []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if len(n.Gradient) > 0 {
			nodes = append(nodes, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	if len(nodes) == 0 {
		return
	}
	canvas.Def()
	for _, n := range nodes {
		stops := make([]svg.Offcolor, len(n.Gradient))
		for i, st := range n.Gradient {
			stops[i] = svg.Offcolor{
				Offset:  uint8(math.Round(st.Offset * 100)),
				Color:   st.Color.Hex(),
				Opacity: math.Max(0, math.Min(1, st.Color.A)),
			}
		}
		canvas.LinearGradient(gradientID(n), 0, 0, 100, 0, stops)
	}
	canvas.DefEnd()
}

func writeSVGNode(canvas *svg.SVG, n *Node) {
	if !n.Visible {
		return
	}
	attrs := []string{}
	if class := svgClass(n); class != "" {
		attrs = append(attrs, attr("class", class))
	}
	if n.Key != "" {
		attrs = append(attrs, attr("data-key", n.Key))
	}
	if t := svgTransform(n); t != "" {
		attrs = append(attrs, attr("transform", t))
	}
	if n.Alpha < 1 {
		attrs = append(attrs, attr("opacity", fmtCoord(math.Max(n.Alpha, 0))))
	}
	canvas.Group(attrs...)
	if n.Title != "" {
		canvas.Title(n.Title)
	}
	writeSVGShape(canvas, n)
	for _, c := range n.children {
		writeSVGNode(canvas, c)
	}
	canvas.Gend()
}

func writeSVGShape(canvas *svg.SVG, n *Node) {
	switch n.Type {
	case NodeTypeRect:
		fill := fillStyle(n.Color)
		if len(n.Gradient) > 0 {
			fill = "fill:url(#" + gradientID(n) + ")"
		}
		canvas.Path(rectPath(n.Width, n.Height), fill+strokeStyle(n))
	case NodeTypePath:
		if n.Path != nil {
			canvas.Path(n.Path.String(), fillStyle(n.Color)+strokeStyle(n))
		}
	case NodeTypeLine:
		canvas.Path("M0,0 L"+fmtCoord(n.Width)+","+fmtCoord(n.Height), "fill:none"+strokeStyle(n))
	case NodeTypeText:
		anchor := "start"
		switch n.Anchor {
		case TextAnchorMiddle:
			anchor = "middle"
		case TextAnchorEnd:
			anchor = "end"
		}
		canvas.Text(0, 0, n.Text, fmt.Sprintf("%s;font-size:%spx;text-anchor:%s;dominant-baseline:middle",
			fillStyle(n.Color), fmtCoord(n.FontSize), anchor))
	}
}

func svgClass(n *Node) string {
	var parts []string
	if n.Class != "" {
		parts = append(parts, n.Class)
	}
	if n.Selected {
		parts = append(parts, "selected")
	}
	return strings.Join(parts, " ")
}

func svgTransform(n *Node) string {
	var parts []string
	if n.X != 0 || n.Y != 0 {
		parts = append(parts, "translate("+fmtCoord(n.X)+","+fmtCoord(n.Y)+")")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		parts = append(parts, "scale("+fmtCoord(n.ScaleX)+","+fmtCoord(n.ScaleY)+")")
	}
	return strings.Join(parts, " ")
}

func fillStyle(c Color) string {
	if c.A <= 0 {
		return "fill:none"
	}
	s := "fill:" + c.Hex()
	if c.A < 1 {
		s += ";fill-opacity:" + fmtCoord(c.A)
	}
	return s
}

func strokeStyle(n *Node) string {
	if n.Stroke.A <= 0 {
		return ""
	}
	w := n.StrokeWidth
	if w <= 0 {
		w = 1
	}
	return ";stroke:" + n.Stroke.Hex() + ";stroke-width:" + fmtCoord(w)
}

func attr(name, value string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return name + `="` + r.Replace(value) + `"`
}

// rectPath outlines a w by h rect at the origin. svgo's Rect takes whole
// pixels; a path keeps sub-pixel widths.
func rectPath(w, h float64) string {
	return "M0,0 H" + fmtCoord(w) + " V" + fmtCoord(h) + " H0 Z"
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}
