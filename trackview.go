package trackview

import (
	"fmt"
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Components may fall outside [0, 1] when produced by an extrapolating color
// scale; they are clamped when converted for output.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the default fill for new shape nodes.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is the default stroke and text color.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorTransparent disables a fill or stroke.
	ColorTransparent = Color{}
)

// RGBA returns the color as an 8-bit color.RGBA, clamping each component.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clampByte(c.R * c.A),
		G: clampByte(c.G * c.A),
		B: clampByte(c.B * c.A),
		A: clampByte(c.A),
	}
}

// NRGBA returns the color as a non-premultiplied color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: clampByte(c.A)}
}

// Hex returns the color as a "#rrggbb" string. Alpha is ignored.
func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Vec2 is a 2D vector used for positions and path points.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bottom returns the Y coordinate of the rectangle's lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Extent is a [Min, Max] numeric range over a coordinate or score domain.
type Extent struct {
	Min, Max float64
}

// Span returns Max - Min.
func (e Extent) Span() float64 {
	return e.Max - e.Min
}

// Pad returns the extent widened by p on both sides.
func (e Extent) Pad(p float64) Extent {
	return Extent{Min: e.Min - p, Max: e.Max + p}
}

func (e Extent) String() string {
	return fmt.Sprintf("[%g, %g]", e.Min, e.Max)
}

// NodeType distinguishes drawing behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeRect                      // filled rectangle of Width x Height
	NodeTypePath                      // closed arc-link path
	NodeTypeLine                      // line from (0,0) to (Width, Height)
	NodeTypeText                      // single-line text label
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeRect:
		return "rect"
	case NodeTypePath:
		return "path"
	case NodeTypeLine:
		return "line"
	case NodeTypeText:
		return "text"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// TextAnchor controls horizontal text alignment relative to the node origin.
type TextAnchor uint8

const (
	TextAnchorStart  TextAnchor = iota // text starts at the origin (default)
	TextAnchorMiddle                   // text is centered on the origin
	TextAnchorEnd                      // text ends at the origin
)

// Class markers set on scene nodes. Exported so hosts can style or query the
// scene without depending on literal strings.
const (
	ClassTrack       = "track"
	ClassTracks      = "tracks"
	ClassBase        = "base"
	ClassLabel       = "label"
	ClassHeatColumn  = "heatcolumn"
	ClassScoreBox    = "scorebox"
	ClassAssociation = "association"
	ClassRegion      = "region"
	ClassLink        = "link"
	ClassStrip       = "strip"
	ClassBlock       = "block"
	ClassIntron      = "intron"
	ClassLegend      = "legend"
	ClassAxis        = "axis"
	ClassGrid        = "grid"
	ClassTick        = "tick"
)
