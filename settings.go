package trackview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ColorSettings holds the chart palettes.
type ColorSettings struct {
	// Score is the ordered palette of the score color scale. Entries are CSS
	// color names or hex literals.
	Score []string `yaml:"score" json:"score"`
}

// AnimationSettings holds transition timing in milliseconds.
type AnimationSettings struct {
	GroupDelay   float64 `yaml:"groupDelay" json:"groupDelay"`
	TrackDelay   float64 `yaml:"trackDelay" json:"trackDelay"`
	Duration     float64 `yaml:"duration" json:"duration"`
	SortDuration float64 `yaml:"sortDuration" json:"sortDuration"`
}

// ZoomSettings bounds the zoom scale and times zoom transitions (milliseconds).
type ZoomSettings struct {
	Min      float64 `yaml:"min" json:"min"`
	Max      float64 `yaml:"max" json:"max"`
	Duration float64 `yaml:"duration" json:"duration"`
}

// Settings is the complete chart configuration.
type Settings struct {
	Width       float64 `yaml:"width" json:"width"`
	PaddingX    float64 `yaml:"paddingX" json:"paddingX"`
	PaddingY    float64 `yaml:"paddingY" json:"paddingY"`
	PaddingTick float64 `yaml:"paddingTick" json:"paddingTick"`

	// Extent overrides the coordinate extent derived from the data.
	Extent *Extent `yaml:"extent,omitempty" json:"extent,omitempty"`

	Colors ColorSettings `yaml:"colors" json:"colors"`

	// Type selects the heatmap layer shown. Empty selects the first type in
	// the data.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	TrackHeight     float64 `yaml:"trackHeight" json:"trackHeight"`
	LegendHeight    float64 `yaml:"legendHeight" json:"legendHeight"`
	LinkRadiusRatio float64 `yaml:"linkRadiusRatio" json:"linkRadiusRatio"`
	BoxHeight       float64 `yaml:"boxHeight" json:"boxHeight"`
	BoxGap          float64 `yaml:"boxGap" json:"boxGap"`
	BoxOffset       float64 `yaml:"boxOffset" json:"boxOffset"`

	Animation AnimationSettings `yaml:"animation" json:"animation"`
	Zoom      ZoomSettings      `yaml:"zoom" json:"zoom"`
}

// DefaultSettings returns the settings every chart starts from.
func DefaultSettings() Settings {
	return Settings{
		Width:       800,
		PaddingX:    50,
		PaddingY:    50,
		PaddingTick: 15,
		Colors: ColorSettings{
			Score: []string{"red", "black", "green"},
		},
		TrackHeight:     15,
		LegendHeight:    20,
		LinkRadiusRatio: 0.8,
		BoxHeight:       20,
		BoxGap:          1,
		BoxOffset:       15,
		Animation: AnimationSettings{
			GroupDelay:   300,
			TrackDelay:   200,
			Duration:     500,
			SortDuration: 500,
		},
		Zoom: ZoomSettings{Min: 1, Max: 8, Duration: 250},
	}
}

// Validate checks that the settings describe a drawable chart.
func (s Settings) Validate() error {
	var errs []error
	if s.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %g", s.Width))
	}
	if len(s.Colors.Score) == 0 {
		errs = append(errs, errors.New("colors.score must not be empty"))
	} else if _, err := ParsePalette(s.Colors.Score); err != nil {
		errs = append(errs, err)
	}
	if s.Extent != nil && s.Extent.Min > s.Extent.Max {
		errs = append(errs, fmt.Errorf("extent %v is reversed", *s.Extent))
	}
	if s.Zoom.Min <= 0 || s.Zoom.Max < s.Zoom.Min {
		errs = append(errs, fmt.Errorf("zoom range [%g, %g] is invalid", s.Zoom.Min, s.Zoom.Max))
	}
	if s.BoxHeight < 0 || s.BoxGap < 0 || s.TrackHeight < 0 {
		errs = append(errs, errors.New("box and track sizes must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// Palette returns the parsed score palette.
func (s Settings) Palette() []Color {
	p, err := ParsePalette(s.Colors.Score)
	if err != nil {
		return []Color{ColorBlack}
	}
	return p
}

// seconds converts a millisecond setting to transition seconds.
func seconds(ms float64) float32 {
	return float32(ms / 1000)
}

// --- Partial options ---

// AnimationOptions is the partial form of AnimationSettings.
type AnimationOptions struct {
	GroupDelay   *float64 `yaml:"groupDelay" json:"groupDelay"`
	TrackDelay   *float64 `yaml:"trackDelay" json:"trackDelay"`
	Duration     *float64 `yaml:"duration" json:"duration"`
	SortDuration *float64 `yaml:"sortDuration" json:"sortDuration"`
}

// ZoomOptions is the partial form of ZoomSettings.
type ZoomOptions struct {
	Min      *float64 `yaml:"min" json:"min"`
	Max      *float64 `yaml:"max" json:"max"`
	Duration *float64 `yaml:"duration" json:"duration"`
}

// Options is a partial configuration merged into the current Settings. Nil
// fields leave the current value unchanged.
type Options struct {
	Width       *float64 `yaml:"width" json:"width"`
	PaddingX    *float64 `yaml:"paddingX" json:"paddingX"`
	PaddingY    *float64 `yaml:"paddingY" json:"paddingY"`
	PaddingTick *float64 `yaml:"paddingTick" json:"paddingTick"`

	Extent *Extent `yaml:"extent" json:"extent"`
	// ClearExtent drops a previously configured extent override.
	ClearExtent bool `yaml:"clearExtent" json:"clearExtent"`

	Colors *ColorSettings `yaml:"colors" json:"colors"`
	Type   *string        `yaml:"type" json:"type"`

	TrackHeight     *float64 `yaml:"trackHeight" json:"trackHeight"`
	LegendHeight    *float64 `yaml:"legendHeight" json:"legendHeight"`
	LinkRadiusRatio *float64 `yaml:"linkRadiusRatio" json:"linkRadiusRatio"`
	BoxHeight       *float64 `yaml:"boxHeight" json:"boxHeight"`
	BoxGap          *float64 `yaml:"boxGap" json:"boxGap"`
	BoxOffset       *float64 `yaml:"boxOffset" json:"boxOffset"`

	Animation *AnimationOptions `yaml:"animation" json:"animation"`
	Zoom      *ZoomOptions      `yaml:"zoom" json:"zoom"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Merge returns s with every non-nil option applied. The result is validated;
// on error s is returned unchanged.
func (s Settings) Merge(o Options) (Settings, error) {
	out := s
	setIf(&out.Width, o.Width)
	setIf(&out.PaddingX, o.PaddingX)
	setIf(&out.PaddingY, o.PaddingY)
	setIf(&out.PaddingTick, o.PaddingTick)
	if o.ClearExtent {
		out.Extent = nil
	}
	if o.Extent != nil {
		e := *o.Extent
		out.Extent = &e
	}
	if o.Colors != nil && o.Colors.Score != nil {
		out.Colors.Score = append([]string(nil), o.Colors.Score...)
	}
	setIf(&out.Type, o.Type)
	setIf(&out.TrackHeight, o.TrackHeight)
	setIf(&out.LegendHeight, o.LegendHeight)
	setIf(&out.LinkRadiusRatio, o.LinkRadiusRatio)
	setIf(&out.BoxHeight, o.BoxHeight)
	setIf(&out.BoxGap, o.BoxGap)
	setIf(&out.BoxOffset, o.BoxOffset)
	if a := o.Animation; a != nil {
		setIf(&out.Animation.GroupDelay, a.GroupDelay)
		setIf(&out.Animation.TrackDelay, a.TrackDelay)
		setIf(&out.Animation.Duration, a.Duration)
		setIf(&out.Animation.SortDuration, a.SortDuration)
	}
	if z := o.Zoom; z != nil {
		setIf(&out.Zoom.Min, z.Min)
		setIf(&out.Zoom.Max, z.Max)
		setIf(&out.Zoom.Duration, z.Duration)
	}
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

// ParseOptions decodes options from YAML or JSON. format is "yaml", "yml"
// or "json".
func ParseOptions(data []byte, format string) (Options, error) {
	var o Options
	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &o)
	case "json":
		err = json.Unmarshal(data, &o)
	default:
		return Options{}, fmt.Errorf("trackview: unknown settings format %q", format)
	}
	if err != nil {
		return Options{}, fmt.Errorf("trackview: parsing settings: %w", err)
	}
	return o, nil
}

// LoadOptionsFile reads a YAML or JSON settings file, choosing the decoder by
// extension.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("trackview: reading settings: %w", err)
	}
	return ParseOptions(data, filepath.Ext(path))
}

// --- Extent encoding ---

// MarshalJSON encodes the extent as [min, max].
func (e Extent) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{e.Min, e.Max})
}

// UnmarshalJSON decodes an extent from [min, max].
func (e *Extent) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return e.set(v)
}

// MarshalYAML encodes the extent as [min, max].
func (e Extent) MarshalYAML() (any, error) {
	return []float64{e.Min, e.Max}, nil
}

// UnmarshalYAML decodes an extent from [min, max].
func (e *Extent) UnmarshalYAML(node *yaml.Node) error {
	var v []float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	return e.set(v)
}

func (e *Extent) set(v []float64) error {
	if len(v) != 2 {
		return fmt.Errorf("extent must have 2 elements, got %d", len(v))
	}
	e.Min, e.Max = v[0], v[1]
	return nil
}
