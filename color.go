package trackview

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor resolves a CSS color name ("red", "steelblue") or a "#rrggbb" /
// "#rgb" hex literal.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("trackview: color %q: %w", s, err)
		}
		return fromColorful(c), nil
	}
	rgba, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, fmt.Errorf("trackview: unknown color name %q", s)
	}
	return Color{
		R: float64(rgba.R) / 255,
		G: float64(rgba.G) / 255,
		B: float64(rgba.B) / 255,
		A: float64(rgba.A) / 255,
	}, nil
}

// ParsePalette resolves every entry of a palette, in order.
func ParsePalette(names []string) ([]Color, error) {
	out := make([]Color, len(names))
	for i, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func fromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}
