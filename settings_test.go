package trackview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestMergePartial(t *testing.T) {
	base := DefaultSettings()
	got, err := base.Merge(Options{
		Width:     ptr(1200.0),
		Animation: &AnimationOptions{SortDuration: ptr(0.0)},
		Zoom:      &ZoomOptions{Max: ptr(4.0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 1200 || got.Animation.SortDuration != 0 || got.Zoom.Max != 4 {
		t.Errorf("merged = width %v sort %v zoom max %v", got.Width, got.Animation.SortDuration, got.Zoom.Max)
	}
	// Untouched fields keep their values.
	if got.PaddingX != base.PaddingX || got.Animation.Duration != base.Animation.Duration {
		t.Error("merge changed fields it was not given")
	}
	if base.Width != 800 {
		t.Error("merge mutated the receiver")
	}
}

func TestMergeInvalidKeepsSettings(t *testing.T) {
	base := DefaultSettings()
	got, err := base.Merge(Options{Width: ptr(-1.0)})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	if got.Width != base.Width {
		t.Errorf("Width = %v after failed merge, want %v", got.Width, base.Width)
	}
}

func TestMergeBadPalette(t *testing.T) {
	_, err := DefaultSettings().Merge(Options{Colors: &ColorSettings{Score: []string{"red", "nope"}}})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("err = %v, want ErrInvalidSettings", err)
	}
}

func TestMergeExtent(t *testing.T) {
	s, err := DefaultSettings().Merge(Options{Extent: &Extent{Min: 0, Max: 1000}})
	if err != nil {
		t.Fatal(err)
	}
	if s.Extent == nil || *s.Extent != (Extent{Min: 0, Max: 1000}) {
		t.Fatalf("Extent = %v", s.Extent)
	}
	s, err = s.Merge(Options{ClearExtent: true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Extent != nil {
		t.Errorf("Extent = %v after clear, want nil", *s.Extent)
	}
	if _, err := s.Merge(Options{Extent: &Extent{Min: 5, Max: 1}}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("reversed extent: err = %v", err)
	}
}

func TestParseOptionsYAML(t *testing.T) {
	o, err := ParseOptions([]byte(`
width: 640
extent: [100, 900]
colors:
  score: [blue, white, red]
animation:
  duration: 0
`), "yaml")
	if err != nil {
		t.Fatal(err)
	}
	s, err := DefaultSettings().Merge(o)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 640 || s.Animation.Duration != 0 {
		t.Errorf("width %v duration %v", s.Width, s.Animation.Duration)
	}
	if s.Extent == nil || *s.Extent != (Extent{Min: 100, Max: 900}) {
		t.Errorf("Extent = %v", s.Extent)
	}
	assertStrings(t, "palette", s.Colors.Score, []string{"blue", "white", "red"})
}

func TestParseOptionsJSON(t *testing.T) {
	o, err := ParseOptions([]byte(`{"paddingY": 10, "extent": [1, 2], "type": "hi-c"}`), ".json")
	if err != nil {
		t.Fatal(err)
	}
	if *o.PaddingY != 10 || *o.Type != "hi-c" || *o.Extent != (Extent{Min: 1, Max: 2}) {
		t.Errorf("options = %+v", o)
	}
	if o.Width != nil {
		t.Error("absent field decoded as set")
	}
}

func TestParseOptionsErrors(t *testing.T) {
	if _, err := ParseOptions([]byte(`{}`), "toml"); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := ParseOptions([]byte(`{"extent": [1]}`), "json"); err == nil {
		t.Error("one-element extent accepted")
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yml")
	if err := os.WriteFile(path, []byte("boxHeight: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.BoxHeight == nil || *o.BoxHeight != 12 {
		t.Errorf("BoxHeight = %v", o.BoxHeight)
	}
}

func TestSettingsExtentEncodesAsPair(t *testing.T) {
	s := DefaultSettings()
	s.Extent = &Extent{Min: 3, Max: 7}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	ext, ok := raw["extent"].([]any)
	if !ok || len(ext) != 2 || ext[0] != 3.0 || ext[1] != 7.0 {
		t.Errorf("extent = %v", raw["extent"])
	}
}
