package trackview

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/goccy/go-json"
	"google.golang.org/api/option"
)

// Source supplies the records of one load. mode selects the tab-separated
// layout expected for text inputs.
type Source interface {
	Records(ctx context.Context, mode string) ([]Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, mode string) ([]Record, error)

// Records calls f.
func (f SourceFunc) Records(ctx context.Context, mode string) ([]Record, error) {
	return f(ctx, mode)
}

// Records returns a source for an in-memory record set.
func Records(rs ...Record) Source {
	return SourceFunc(func(context.Context, string) ([]Record, error) {
		return rs, nil
	})
}

// Reader returns a source that parses r. name is used to detect JSON input
// (".json" suffix) and in error messages.
func Reader(r io.Reader, name string) Source {
	return SourceFunc(func(_ context.Context, mode string) ([]Record, error) {
		return Parse(r, name, mode)
	})
}

// File returns a source that reads a local TSV or JSON file.
func File(name string) Source {
	return SourceFunc(func(_ context.Context, mode string) ([]Record, error) {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("trackview: opening %s: %w", name, err)
		}
		defer f.Close()
		return Parse(f, name, mode)
	})
}

// URL returns a source that fetches http(s):// and gs://bucket/object URLs.
// Plain paths and file:// URLs read the local file system.
func URL(rawURL string) Source {
	return SourceFunc(func(ctx context.Context, mode string) ([]Record, error) {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		switch u.Scheme {
		case "", "file":
			return File(u.Path).Records(ctx, mode)
		case "http", "https":
			return fetchHTTP(ctx, u, mode)
		case "gs":
			return fetchGCS(ctx, u, mode)
		default:
			return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
		}
	})
}

// RemoteURL is URL without local access: plain paths and file:// URLs fail
// with ErrUnsupportedSource. Hosts serving untrusted callers load through it.
func RemoteURL(rawURL string) Source {
	return SourceFunc(func(ctx context.Context, mode string) ([]Record, error) {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		if u.Scheme == "" || u.Scheme == "file" {
			return nil, fmt.Errorf("%w: local path %q", ErrUnsupportedSource, rawURL)
		}
		return URL(rawURL).Records(ctx, mode)
	})
}

func fetchHTTP(ctx context.Context, u *url.URL, mode string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trackview: fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trackview: fetching %s: %s", u, resp.Status)
	}
	return Parse(resp.Body, u.Path, mode)
}

// fetchGCS reads a publicly readable object without client authorization.
func fetchGCS(ctx context.Context, u *url.URL, mode string) ([]Record, error) {
	bucket, object := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("%w: %s needs a bucket and an object", ErrUnsupportedSource, u)
	}
	client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return nil, fmt.Errorf("trackview: creating storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return nil, fmt.Errorf("trackview: %s: object does not exist", u)
	}
	if err != nil {
		return nil, fmt.Errorf("trackview: reading %s: %w", u, err)
	}
	defer r.Close()
	return Parse(r, object, mode)
}

// Parse decodes records from r: a JSON record array when name ends in
// ".json", otherwise the mode's tab-separated layout.
func Parse(r io.Reader, name, mode string) ([]Record, error) {
	if strings.EqualFold(path.Ext(name), ".json") {
		var rs []Record
		if err := json.NewDecoder(r).Decode(&rs); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
		}
		return rs, nil
	}
	rs, err := ParseTSV(r, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rs, nil
}

// ParseTSV parses tab-separated rows for a graph mode. Lines starting with
// '#' are skipped.
//
//	heatmap:      header "chr start end type <sample...>", one score column per sample
//	associations: header naming chr start end targetChr targetStart targetEnd associationScore
//	exons:        BED12 rows, no header
func ParseTSV(r io.Reader, mode string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var conv rowConverter
	switch mode {
	case "heatmap":
		conv = &heatmapRows{}
	case "associations":
		conv = &associationRows{}
	case "exons":
		conv = bedRows{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGraph, mode)
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		line, _ := cr.FieldPos(0)
		rec, ok, err := conv.convert(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// rowConverter turns one TSV row into a record. ok is false for rows that
// carry no record, such as headers.
type rowConverter interface {
	convert(row []string) (rec Record, ok bool, err error)
}

type heatmapRows struct {
	header []string
}

func (h *heatmapRows) convert(row []string) (Record, bool, error) {
	if h.header == nil {
		if len(row) < 4 {
			return Record{}, false, fmt.Errorf("%w: heatmap header needs chr, start, end and type", ErrMalformedRecord)
		}
		h.header = row
		return Record{}, false, nil
	}
	if len(row) != len(h.header) {
		return Record{}, false, fmt.Errorf("%w: %d fields, header has %d", ErrMalformedRecord, len(row), len(h.header))
	}
	var p fieldParser
	rec := Record{
		Chr:   row[0],
		Start: p.number("start", row[1]),
		End:   p.number("end", row[2]),
		Type:  row[3],
	}
	for i, v := range row[4:] {
		name := h.header[i+4]
		rec.Scores = append(rec.Scores, Score{Name: name, Value: p.number(name, v)})
	}
	return rec, true, p.err
}

type associationRows struct {
	index map[string]int
}

var associationColumns = []string{"chr", "start", "end", "targetChr", "targetStart", "targetEnd", "associationScore"}

func (a *associationRows) convert(row []string) (Record, bool, error) {
	if a.index == nil {
		a.index = make(map[string]int, len(row))
		for i, name := range row {
			a.index[strings.TrimSpace(name)] = i
		}
		for _, c := range associationColumns {
			if _, ok := a.index[c]; !ok {
				return Record{}, false, fmt.Errorf("%w: association header lacks %q", ErrMalformedRecord, c)
			}
		}
		return Record{}, false, nil
	}
	get := func(col string) string {
		if i := a.index[col]; i < len(row) {
			return row[i]
		}
		return ""
	}
	var p fieldParser
	rec := Record{
		Chr:         get("chr"),
		Start:       p.number("start", get("start")),
		End:         p.number("end", get("end")),
		TargetChr:   get("targetChr"),
		TargetStart: p.number("targetStart", get("targetStart")),
		TargetEnd:   p.number("targetEnd", get("targetEnd")),
		Score:       p.number("associationScore", get("associationScore")),
	}
	return rec, true, p.err
}

type bedRows struct{}

func (bedRows) convert(row []string) (Record, bool, error) {
	// Browser directives share the file with data rows.
	if first := strings.Fields(row[0]); len(first) > 0 && (first[0] == "track" || first[0] == "browser") {
		return Record{}, false, nil
	}
	if len(row) < 3 {
		return Record{}, false, fmt.Errorf("%w: BED rows need at least 3 fields, got %d", ErrMalformedRecord, len(row))
	}
	var p fieldParser
	rec := Record{
		Chr:   row[0],
		Start: p.number("chromStart", row[1]),
		End:   p.number("chromEnd", row[2]),
	}
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	rec.Name = field(3)
	if s := field(4); s != "" && s != "." {
		rec.Score = p.number("score", s)
	}
	if len(row) >= 8 {
		rec.ThickStart = p.number("thickStart", row[6])
		rec.ThickEnd = p.number("thickEnd", row[7])
	}
	if len(row) >= 12 {
		rec.BlockSizes = p.list("blockSizes", row[10])
		rec.BlockStarts = p.list("blockStarts", row[11])
		if n := p.number("blockCount", row[9]); p.err == nil && int(n) != len(rec.BlockSizes) {
			p.fail(fmt.Errorf("blockCount %d but %d block sizes", int(n), len(rec.BlockSizes)))
		}
	} else {
		// A BED6 row is one block spanning the whole feature.
		rec.BlockSizes = []float64{rec.End - rec.Start}
		rec.BlockStarts = []float64{0}
	}
	return rec, true, p.err
}

// fieldParser parses numeric fields, keeping the first error.
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
}

func (p *fieldParser) number(name, s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.fail(fmt.Errorf("%s: %q is not a number", name, s))
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(fmt.Errorf("%s: %q is not finite", name, s))
		return 0
	}
	return v
}

func (p *fieldParser) list(name, s string) []float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, part := range parts {
		out[i] = p.number(name, part)
	}
	return out
}
