package trackview

import "math"

// scaleEpsilon snaps a zoom scale that drifted from 1 through repeated
// multiplication (1.2 * 1/1.2) back to exactly 1.
const scaleEpsilon = 1e-9

// Zoom is the logical zoom/pan state applied as a single transform to the whole
// scene: screen = world*Scale + (TranslateX, TranslateY).
//
// Scale is clamped to [MinScale, MaxScale]. Whenever Scale is exactly 1 the
// translation is (0, 0), so zooming out fully always re-centers.
type Zoom struct {
	Scale      float64
	TranslateX float64
	TranslateY float64

	// MinScale and MaxScale bound Scale. Defaults are 1 and 8.
	MinScale float64
	MaxScale float64
}

// newZoom creates an identity zoom with the default [1, 8] range.
func newZoom() *Zoom {
	return &Zoom{Scale: 1, MinScale: 1, MaxScale: 8}
}

// SetRange changes the scale bounds and re-clamps the current state.
func (z *Zoom) SetRange(minScale, maxScale float64) {
	z.MinScale = minScale
	z.MaxScale = maxScale
	z.normalize()
}

// ZoomAt multiplies the scale by factor, keeping the screen point (cx, cy)
// fixed over the same world point.
func (z *Zoom) ZoomAt(factor, cx, cy float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	z.ScaleTo(z.Scale*factor, cx, cy)
}

// ScaleTo sets an absolute scale, keeping the screen point (cx, cy) fixed.
func (z *Zoom) ScaleTo(scale, cx, cy float64) {
	old := z.Scale
	next := z.clampScale(scale)
	if old != 0 {
		z.TranslateX = cx - (cx-z.TranslateX)*(next/old)
		z.TranslateY = cy - (cy-z.TranslateY)*(next/old)
	}
	z.Scale = next
	z.normalize()
}

// PanBy moves the translation by (dx, dy) screen pixels. Panning at scale 1
// is a no-op because of the re-centering rule.
func (z *Zoom) PanBy(dx, dy float64) {
	z.TranslateX += dx
	z.TranslateY += dy
	z.normalize()
}

// Set replaces the whole transform, then applies clamping and re-centering.
func (z *Zoom) Set(scale, tx, ty float64) {
	z.Scale = scale
	z.TranslateX = tx
	z.TranslateY = ty
	z.normalize()
}

// Reset returns to the identity transform.
func (z *Zoom) Reset() {
	z.Set(1, 0, 0)
}

// Matrix returns the zoom as an affine matrix.
func (z *Zoom) Matrix() [6]float64 {
	return [6]float64{z.Scale, 0, 0, z.Scale, z.TranslateX, z.TranslateY}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (z *Zoom) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(z.Matrix(), wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (z *Zoom) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return transformPoint(invertAffine(z.Matrix()), sx, sy)
}

// state returns the zoom as the layer node state it drives.
func (z *Zoom) state(base NodeState) NodeState {
	base.X, base.Y = z.TranslateX, z.TranslateY
	base.ScaleX, base.ScaleY = z.Scale, z.Scale
	return base
}

func (z *Zoom) clampScale(s float64) float64 {
	lo, hi := z.MinScale, z.MaxScale
	if lo <= 0 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if math.IsNaN(s) {
		return lo
	}
	return math.Max(lo, math.Min(s, hi))
}

// normalize enforces the clamp range and the scale-one re-centering rule.
func (z *Zoom) normalize() {
	z.Scale = z.clampScale(z.Scale)
	if math.Abs(z.Scale-1) < scaleEpsilon {
		z.Scale = 1
	}
	if z.Scale == 1 {
		z.TranslateX = 0
		z.TranslateY = 0
	}
}
