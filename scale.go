package trackview

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// PositionScale maps a genomic coordinate domain linearly onto a pixel range.
type PositionScale struct {
	Domain Extent
	Range  Extent
}

// NewPositionScale builds the position scale for a raw coordinate extent:
// the domain is the extent widened by padding on both sides, the range is
// [0, width].
func NewPositionScale(raw Extent, padding, width float64) PositionScale {
	return PositionScale{Domain: raw.Pad(padding), Range: Extent{Min: 0, Max: width}}
}

// Map converts a domain value to pixels.
func (s PositionScale) Map(v float64) float64 {
	d := s.Domain.Span()
	if d == 0 {
		return (s.Range.Min + s.Range.Max) / 2
	}
	return s.Range.Min + (v-s.Domain.Min)/d*s.Range.Span()
}

// Invert converts a pixel position back to a domain value.
func (s PositionScale) Invert(px float64) float64 {
	r := s.Range.Span()
	if r == 0 {
		return s.Domain.Min
	}
	return s.Domain.Min + (px-s.Range.Min)/r*s.Domain.Span()
}

// Ticks returns roughly count "nice" tick values (multiples of 1, 2 or 5
// times a power of ten) inside the domain.
func (s PositionScale) Ticks(count int) []float64 {
	lo, hi := s.Domain.Min, s.Domain.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}
	start := math.Ceil(lo / step)
	stop := math.Floor(hi / step)
	ticks := make([]float64, 0, int(stop-start)+1)
	for i := start; i <= stop; i++ {
		ticks = append(ticks, i*step)
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	span := hi - lo
	if span <= 0 || count <= 0 {
		return 0
	}
	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	e := float64(count) / span * step
	switch {
	case e <= 0.15:
		step *= 10
	case e <= 0.35:
		step *= 5
	case e <= 0.75:
		step *= 2
	}
	return step
}

// ColorScale maps a normalized score to a color by piecewise-linear RGB
// interpolation over a palette spread evenly across [0, 1]. It does not clamp:
// inputs outside [0, 1] extrapolate from the first or last segment.
type ColorScale struct {
	domain []float64
	colors []Color
}

// NewColorScale builds a color scale over the palette, in order.
func NewColorScale(palette []Color) ColorScale {
	s := ColorScale{colors: palette}
	if len(palette) > 1 {
		s.domain = floats.Span(make([]float64, len(palette)), 0, 1)
	}
	return s
}

// Domain returns the k evenly spaced stops the palette is anchored at.
func (s ColorScale) Domain() []float64 {
	return s.domain
}

// At returns the color for a normalized value t.
func (s ColorScale) At(t float64) Color {
	switch len(s.colors) {
	case 0:
		return ColorBlack
	case 1:
		return s.colors[0]
	}
	i := len(s.domain) - 2
	for j := 1; j < len(s.domain)-1; j++ {
		if t < s.domain[j] {
			i = j - 1
			break
		}
	}
	d0, d1 := s.domain[i], s.domain[i+1]
	u := (t - d0) / (d1 - d0)
	c := toColorful(s.colors[i]).BlendRgb(toColorful(s.colors[i+1]), u)
	return fromColorful(c)
}

// Normalizer maps scores affinely into [0, 1] over the bound set's score
// extent. When every score is equal it returns 0.
type Normalizer struct {
	Extent Extent
}

// Normalize returns (v - min) / (max - min), or 0 for an empty score range.
func (n Normalizer) Normalize(v float64) float64 {
	d := n.Extent.Span()
	if d == 0 {
		return 0
	}
	return (v - n.Extent.Min) / d
}

// ScaleSet is the set of scales derived for one render pass.
type ScaleSet struct {
	X      PositionScale
	Color  ColorScale
	Scores Normalizer
}

// ScoreColor is shorthand for Color.At(Scores.Normalize(v)).
func (s ScaleSet) ScoreColor(v float64) Color {
	return s.Color.At(s.Scores.Normalize(v))
}

// Width returns the pixel width between two domain values.
func (s ScaleSet) Width(start, end float64) float64 {
	return s.X.Map(end) - s.X.Map(start)
}

// extentOf returns [min, max] over values. Non-finite values are a data error.
func extentOf(values []float64) (Extent, error) {
	if len(values) == 0 {
		return Extent{}, ErrEmptyExtent
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Extent{}, fmt.Errorf("%w: non-finite value %v", ErrMalformedRecord, v)
		}
	}
	return Extent{Min: floats.Min(values), Max: floats.Max(values)}, nil
}

// buildScales derives the scales for one pass from the bound coordinates and
// scores. An override extent takes precedence over the data.
func buildScales(coords, scores []float64, override *Extent, padding, width float64, palette []Color) (ScaleSet, error) {
	var raw Extent
	if override != nil {
		raw = *override
	} else {
		e, err := extentOf(coords)
		if err != nil {
			return ScaleSet{}, fmt.Errorf("position scale: %w", err)
		}
		raw = e
	}
	var se Extent
	if len(scores) > 0 {
		e, err := extentOf(scores)
		if err != nil {
			return ScaleSet{}, fmt.Errorf("score scale: %w", err)
		}
		se = e
	}
	return ScaleSet{
		X:      NewPositionScale(raw, padding, width),
		Color:  NewColorScale(palette),
		Scores: Normalizer{Extent: se},
	}, nil
}
