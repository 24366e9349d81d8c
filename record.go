package trackview

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
)

// Score is one named score of a heatmap record (tissue or sample name → value).
type Score struct {
	Name  string
	Value float64
}

// Scores is an ordered score map. Order is the natural iteration order used
// when no SortOrder is active: header column order for TSV input, and
// lexicographic key order for JSON objects (which carry no order).
type Scores []Score

// Get returns the score with the given name.
func (s Scores) Get(name string) (float64, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// Names returns the score names in natural order.
func (s Scores) Names() []string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}
	return names
}

// MarshalJSON encodes the scores as a JSON object.
func (s Scores) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(s))
	for _, e := range s {
		m[e.Name] = e.Value
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a JSON object of name → score.
func (s *Scores) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	out := make(Scores, len(names))
	for i, k := range names {
		out[i] = Score{Name: k, Value: m[k]}
	}
	*s = out
	return nil
}

// Record is one genomic interval. Which optional fields are meaningful depends
// on the graph mode.
type Record struct {
	Chr   string  `json:"chr"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Name  string  `json:"name,omitempty"`

	// heatmap
	Type   string `json:"type,omitempty"`
	Scores Scores `json:"scores,omitempty"`

	// associations
	TargetChr   string  `json:"targetChr,omitempty"`
	TargetStart float64 `json:"targetStart,omitempty"`
	TargetEnd   float64 `json:"targetEnd,omitempty"`
	Score       float64 `json:"score,omitempty"`

	// exon/intron
	ThickStart  float64   `json:"thickStart,omitempty"`
	ThickEnd    float64   `json:"thickEnd,omitempty"`
	BlockSizes  []float64 `json:"blockSizes,omitempty"`
	BlockStarts []float64 `json:"blockStarts,omitempty"`
}

// Validate checks the invariants every mode relies on.
func (r Record) Validate() error {
	if r.Chr == "" {
		return fmt.Errorf("%w: empty chromosome", ErrMalformedRecord)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: %s start %g > end %g", ErrMalformedRecord, r.Chr, r.Start, r.End)
	}
	if len(r.BlockSizes) != len(r.BlockStarts) {
		return fmt.Errorf("%w: %s:%s has %d block sizes but %d block starts",
			ErrMalformedRecord, r.Chr, r.IntervalKey(), len(r.BlockSizes), len(r.BlockStarts))
	}
	return nil
}

// IntervalKey identifies the record's interval within its track.
func (r Record) IntervalKey() string {
	return formatNum(r.Start) + "-" + formatNum(r.End)
}

// PairKey identifies an association by its source and target intervals.
func (r Record) PairKey() string {
	return r.IntervalKey() + ">" + formatNum(r.TargetStart) + "-" + formatNum(r.TargetEnd)
}

// Track is the set of records sharing one chromosome, laid out as one
// horizontal band. Offset is the vertical translation assigned by layout.
type Track struct {
	Chr     string
	Records []Record
	Offset  float64
}

// GroupByTrack partitions records into tracks by exact chromosome match.
// Tracks appear in order of first appearance; records keep input order.
func GroupByTrack(records []Record) []Track {
	var tracks []Track
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Chr]
		if !ok {
			i = len(tracks)
			index[r.Chr] = i
			tracks = append(tracks, Track{Chr: r.Chr})
		}
		tracks[i].Records = append(tracks[i].Records, r)
	}
	return tracks
}

// FilterType returns the records whose Type equals typ, in input order.
func FilterType(records []Record, typ string) []Record {
	var out []Record
	for _, r := range records {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// Types returns the distinct record types in order of first appearance.
func Types(records []Record) []string {
	var types []string
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Type] {
			seen[r.Type] = true
			types = append(types, r.Type)
		}
	}
	return types
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
