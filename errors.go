package trackview

import "errors"

var (
	// ErrUnknownGraph is returned when a chart is requested for a graph mode
	// that is not registered. No chart or scene is created.
	ErrUnknownGraph = errors.New("trackview: unknown graph mode")

	// ErrEmptyExtent is returned when the bound record set yields no
	// coordinates and no explicit extent is configured.
	ErrEmptyExtent = errors.New("trackview: empty extent")

	// ErrNoRecords is returned when a render pass is requested before any data
	// was loaded, or when filtering leaves nothing to draw.
	ErrNoRecords = errors.New("trackview: no records")

	// ErrMalformedRecord is returned for records that violate the data model:
	// non-numeric or non-finite fields, start > end, mismatched block lists.
	ErrMalformedRecord = errors.New("trackview: malformed record")

	// ErrInvalidSettings is returned when merged settings cannot describe a
	// drawable chart. The previous settings stay in effect.
	ErrInvalidSettings = errors.New("trackview: invalid settings")

	// ErrUnsupportedSource is returned for source URLs with an unknown scheme.
	ErrUnsupportedSource = errors.New("trackview: unsupported source")
)
