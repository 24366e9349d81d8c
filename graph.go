package trackview

import (
	"fmt"
	"slices"
)

// graph is one rendering mode. A graph decides which records a pass draws,
// which values feed the scales, and how a track's items and leaves are bound
// to scene nodes.
type graph interface {
	name() string

	// bind selects the records drawn under the settings.
	bind(records []Record, s Settings) ([]Record, error)

	// coords and scores return the values the position and score scales are
	// derived from.
	coords(records []Record) []float64
	scores(records []Record) []float64

	// drawTrack reconciles the track's items (and their leaves) under node.
	drawTrack(p *pass, node *Node, t Track, index int) (items, leaves Diff)

	// interact maps a clicked node to the command it triggers, or nil.
	interact(n *Node) Command
}

// leafLayouter is implemented by graphs whose leaves follow the sort order.
type leafLayouter interface {
	layoutLeaves(p *pass, track *Node) Diff
}

var graphs = map[string]func() graph{
	"heatmap":      func() graph { return heatmap{} },
	"associations": func() graph { return associations{} },
	"exons":        func() graph { return exons{} },
}

// Modes returns the registered graph mode names, sorted.
func Modes() []string {
	names := make([]string, 0, len(graphs))
	for k := range graphs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func newGraph(mode string) (graph, error) {
	f, ok := graphs[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownGraph, mode, Modes())
	}
	return f(), nil
}

// pass holds the state shared by every stage of one render pass. It is
// rebuilt for every pass and never outlives it.
type pass struct {
	settings  Settings
	scales    ScaleSet
	animator  *Animator
	sortOrder []string
}

// animate moves n toward to over duration milliseconds. Nodes created in this
// pass already hold their target state, so nothing runs for them.
func (p *pass) animate(n *Node, to NodeState, delayMS, durationMS float64) {
	p.animator.Start(n, to, seconds(delayMS), seconds(durationMS), nil)
}

// --- Track chrome shared by every mode ---

func newTrackNode(p *pass, t Track) *Node {
	n := NewContainer("track " + t.Chr)

	base := NewRect("base", p.settings.Width, p.settings.TrackHeight, Color{0.93, 0.93, 0.93, 1})
	base.Class = ClassBase
	n.AddChild(base)

	label := NewText("label", t.Chr, p.settings.TrackHeight*0.8)
	label.Class = ClassLabel
	label.X = 3
	label.Y = p.settings.TrackHeight / 2
	n.AddChild(label)
	return n
}

// updateTrackNode refreshes the track chrome: base title and width, label text.
func updateTrackNode(p *pass, n *Node, t Track) {
	if base := n.FindChild(ClassBase, ""); base != nil {
		base.Title = t.Chr
		base.Width = p.settings.Width
		base.Height = p.settings.TrackHeight
	}
	if label := n.FindChild(ClassLabel, ""); label != nil {
		label.Text = t.Chr
		label.FontSize = p.settings.TrackHeight * 0.8
		label.Y = p.settings.TrackHeight / 2
	}
}

func recordCoords(records []Record, fields func(Record) []float64) []float64 {
	out := make([]float64, 0, 2*len(records))
	for _, r := range records {
		out = append(out, fields(r)...)
	}
	return out
}
