package trackview

import (
	"math"
	"strconv"
	"strings"
)

// Interval is a horizontal pixel span [X0, X1].
type Interval struct {
	X0, X1 float64
}

func (iv Interval) normalized() Interval {
	if iv.X1 < iv.X0 {
		return Interval{X0: iv.X1, X1: iv.X0}
	}
	return iv
}

func (iv Interval) less(o Interval) bool {
	if iv.X0 != o.X0 {
		return iv.X0 < o.X0
	}
	return iv.X1 < o.X1
}

// LinkPath is the closed lens-shaped path joining two intervals on the same
// baseline (y = 0). The outer arc runs from the left edge of the left interval
// to the right edge of the right interval; the inner arc returns from the left
// edge of the right interval to the right edge of the left interval. Both arcs
// bulge toward negative y, with a vertical radius of Ratio times the
// horizontal one.
//
// The interval with the smaller X0 (then smaller X1) is always Left, so the
// path does not depend on which interval is the source. When the intervals
// touch or overlap there is no room for an inner arc and the path collapses to
// the outer arc closed along the baseline.
type LinkPath struct {
	Left, Right Interval
	Ratio       float64
}

// NewLinkPath builds the link path between source and target.
func NewLinkPath(source, target Interval, ratio float64) *LinkPath {
	a, b := source.normalized(), target.normalized()
	if b.less(a) {
		a, b = b, a
	}
	return &LinkPath{Left: a, Right: b, Ratio: ratio}
}

// Collapsed reports whether the intervals touch or overlap.
func (p *LinkPath) Collapsed() bool {
	return p.Right.X0 <= p.Left.X1
}

// outer returns the outer arc's endpoints and radii.
func (p *LinkPath) outer() (x0, x1, rx, ry float64) {
	x0 = p.Left.X0
	x1 = math.Max(p.Left.X1, p.Right.X1)
	rx = (x1 - x0) / 2
	return x0, x1, rx, rx * p.Ratio
}

// inner returns the inner arc's endpoints (left to right) and radii.
func (p *LinkPath) inner() (x0, x1, rx, ry float64) {
	x0, x1 = p.Left.X1, p.Right.X0
	rx = (x1 - x0) / 2
	return x0, x1, rx, rx * p.Ratio
}

// String returns the SVG path data.
func (p *LinkPath) String() string {
	ox0, ox1, orx, ory := p.outer()
	var b strings.Builder
	b.WriteString("M" + fmtCoord(ox0) + ",0 ")
	b.WriteString("A" + fmtCoord(orx) + "," + fmtCoord(ory) + " 0 0,1 " + fmtCoord(ox1) + ",0 ")
	if p.Collapsed() {
		b.WriteString("Z")
		return b.String()
	}
	ix0, ix1, irx, iry := p.inner()
	b.WriteString("L" + fmtCoord(ix1) + ",0 ")
	b.WriteString("A" + fmtCoord(irx) + "," + fmtCoord(iry) + " 0 0,0 " + fmtCoord(ix0) + ",0 ")
	b.WriteString("Z")
	return b.String()
}

// Bounds returns the path's bounding box.
func (p *LinkPath) Bounds() Rect {
	x0, x1, _, ry := p.outer()
	ry = math.Abs(ry)
	return Rect{X: x0, Y: -ry, Width: x1 - x0, Height: ry}
}

// arcPoint returns the point at parameter u in [0, 1] along a half ellipse
// from (x0, 0) to (x1, 0) bulging toward negative y.
func arcPoint(x0, x1, ry, u float64) Vec2 {
	rx := (x1 - x0) / 2
	theta := math.Pi * (1 - u)
	return Vec2{X: x0 + rx + rx*math.Cos(theta), Y: -ry * math.Sin(theta)}
}

// Polygon flattens the closed path into a polygon, using segments steps per
// arc. The polygon is listed outer arc first, left to right.
func (p *LinkPath) Polygon(segments int) []Vec2 {
	if segments < 1 {
		segments = 1
	}
	ox0, ox1, _, ory := p.outer()
	pts := make([]Vec2, 0, 2*(segments+1))
	for i := 0; i <= segments; i++ {
		pts = append(pts, arcPoint(ox0, ox1, ory, float64(i)/float64(segments)))
	}
	if p.Collapsed() {
		return pts
	}
	ix0, ix1, _, iry := p.inner()
	for i := segments; i >= 0; i-- {
		pts = append(pts, arcPoint(ix0, ix1, iry, float64(i)/float64(segments)))
	}
	return pts
}

// Band flattens the path into a triangle strip: alternating outer and inner
// points sampled at the same arc parameter. For a collapsed path the inner
// points lie on the baseline below the outer ones.
func (p *LinkPath) Band(segments int) []Vec2 {
	if segments < 1 {
		segments = 1
	}
	ox0, ox1, _, ory := p.outer()
	ix0, ix1, _, iry := p.inner()
	collapsed := p.Collapsed()
	pts := make([]Vec2, 0, 2*(segments+1))
	for i := 0; i <= segments; i++ {
		u := float64(i) / float64(segments)
		o := arcPoint(ox0, ox1, ory, u)
		pts = append(pts, o)
		if collapsed {
			pts = append(pts, Vec2{X: o.X})
			continue
		}
		pts = append(pts, arcPoint(ix0, ix1, iry, u))
	}
	return pts
}

// Contains reports whether (x, y) lies inside the path (even-odd rule).
func (p *LinkPath) Contains(x, y float64) bool {
	if !p.Bounds().Contains(x, y) {
		return false
	}
	return polygonContains(p.Polygon(32), x, y)
}

func polygonContains(poly []Vec2, x, y float64) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		pi, pj := poly[i], poly[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

func fmtCoord(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
