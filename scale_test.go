package trackview

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestPositionScalePadding(t *testing.T) {
	s := NewPositionScale(Extent{Min: 230, Max: 480}, 50, 800)
	if s.Domain != (Extent{Min: 180, Max: 530}) {
		t.Errorf("Domain = %v, want [180, 530]", s.Domain)
	}
	assertNear(t, "Map(min)", s.Map(180), 0)
	assertNear(t, "Map(max)", s.Map(530), 800)
	assertNear(t, "Map(mid)", s.Map(355), 400)
	assertNear(t, "Invert(400)", s.Invert(400), 355)
}

func TestPositionScaleDegenerateDomain(t *testing.T) {
	s := PositionScale{Domain: Extent{Min: 5, Max: 5}, Range: Extent{Min: 0, Max: 100}}
	assertNear(t, "Map", s.Map(5), 50)
}

func TestPositionScaleTicks(t *testing.T) {
	s := PositionScale{Domain: Extent{Min: 0, Max: 100}, Range: Extent{Max: 800}}
	ticks := s.Ticks(10)
	if len(ticks) != 11 {
		t.Fatalf("got %d ticks, want 11: %v", len(ticks), ticks)
	}
	for i, v := range ticks {
		assertNear(t, "tick", v, float64(10*i))
	}

	s.Domain = Extent{Min: 180, Max: 530}
	for _, v := range s.Ticks(10) {
		if v < 180 || v > 530 || math.Mod(v, 50) != 0 {
			t.Errorf("tick %v is not a multiple of 50 inside the domain", v)
		}
	}
}

func TestNormalizer(t *testing.T) {
	n := Normalizer{Extent: Extent{Min: 2, Max: 6}}
	assertNear(t, "min", n.Normalize(2), 0)
	assertNear(t, "max", n.Normalize(6), 1)
	assertNear(t, "mid", n.Normalize(4), 0.5)
	if n.Normalize(3) >= n.Normalize(5) {
		t.Error("Normalize is not monotonic")
	}
}

func TestNormalizerProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1e6, 1e6).Draw(t, "min")
		span := rapid.Float64Range(1e-3, 1e6).Draw(t, "span")
		n := Normalizer{Extent: Extent{Min: lo, Max: lo + span}}

		if got := n.Normalize(lo); math.Abs(got) > 1e-9 {
			t.Fatalf("Normalize(min) = %v, want 0", got)
		}
		if got := n.Normalize(lo + span); math.Abs(got-1) > 1e-9 {
			t.Fatalf("Normalize(max) = %v, want 1", got)
		}

		a := rapid.Float64Range(lo, lo+span).Draw(t, "a")
		b := rapid.Float64Range(lo, lo+span).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		na, nb := n.Normalize(a), n.Normalize(b)
		if na > nb {
			t.Fatalf("Normalize(%v) = %v > Normalize(%v) = %v", a, na, b, nb)
		}
		if na < -1e-9 || nb > 1+1e-9 {
			t.Fatalf("normalized %v, %v outside [0, 1]", na, nb)
		}
	})
}

func TestNormalizerEqualScores(t *testing.T) {
	n := Normalizer{Extent: Extent{Min: 7, Max: 7}}
	if got := n.Normalize(7); got != 0 {
		t.Errorf("Normalize over an empty range = %v, want 0", got)
	}
}

func defaultPalette(t *testing.T) []Color {
	t.Helper()
	p, err := ParsePalette([]string{"red", "black", "green"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func assertColor(t *testing.T, name string, got, want Color) {
	t.Helper()
	if math.Abs(got.R-want.R) > 1e-6 || math.Abs(got.G-want.G) > 1e-6 || math.Abs(got.B-want.B) > 1e-6 {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func TestColorScaleStops(t *testing.T) {
	s := NewColorScale(defaultPalette(t))
	green := 128.0 / 255

	assertColor(t, "At(0)", s.At(0), Color{R: 1})
	assertColor(t, "At(0.25)", s.At(0.25), Color{R: 0.5})
	assertColor(t, "At(0.5)", s.At(0.5), Color{})
	assertColor(t, "At(1)", s.At(1), Color{G: green})
}

func TestColorScaleExtrapolates(t *testing.T) {
	s := NewColorScale(defaultPalette(t))
	// Past the last stop the black->green segment continues.
	assertColor(t, "At(1.5)", s.At(1.5), Color{G: 2 * 128.0 / 255})
	// Below zero the red->black segment continues.
	assertColor(t, "At(-0.5)", s.At(-0.5), Color{R: 2})
}

func TestColorScaleDomain(t *testing.T) {
	d := NewColorScale(defaultPalette(t)).Domain()
	if len(d) != 3 || d[0] != 0 || d[1] != 0.5 || d[2] != 1 {
		t.Errorf("Domain = %v, want [0 0.5 1]", d)
	}
}

func TestBuildScales(t *testing.T) {
	sc, err := buildScales([]float64{230, 480, 300}, []float64{0.1, 0.9}, nil, 50, 800, defaultPalette(t))
	if err != nil {
		t.Fatal(err)
	}
	if sc.X.Domain != (Extent{Min: 180, Max: 530}) {
		t.Errorf("Domain = %v", sc.X.Domain)
	}
	if sc.Scores.Extent != (Extent{Min: 0.1, Max: 0.9}) {
		t.Errorf("score extent = %v", sc.Scores.Extent)
	}
	assertColor(t, "min color", sc.ScoreColor(0.1), Color{R: 1})
}

func TestBuildScalesOverride(t *testing.T) {
	sc, err := buildScales([]float64{230, 480}, nil, &Extent{Min: 0, Max: 1000}, 0, 1000, defaultPalette(t))
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "Map(500)", sc.X.Map(500), 500)
}

func TestBuildScalesEmpty(t *testing.T) {
	_, err := buildScales(nil, nil, nil, 50, 800, defaultPalette(t))
	if !errors.Is(err, ErrEmptyExtent) {
		t.Errorf("err = %v, want ErrEmptyExtent", err)
	}
}

func TestExtentOfNonFinite(t *testing.T) {
	_, err := extentOf([]float64{1, math.NaN()})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("err = %v, want ErrMalformedRecord", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", Color{R: 1, A: 1}},
		{"SteelBlue", Color{R: 70.0 / 255, G: 130.0 / 255, B: 180.0 / 255, A: 1}},
		{"#00ff00", Color{G: 1, A: 1}},
		{"#fff", Color{R: 1, G: 1, B: 1, A: 1}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		assertColor(t, tt.in, got, tt.want)
	}
	for _, bad := range []string{"notacolor", "#12"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}
