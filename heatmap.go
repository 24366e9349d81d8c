package trackview

import (
	"fmt"
	"strconv"
)

// heatmap draws one column per interval, with a stack of score boxes (one per
// sample) below the track base.
type heatmap struct{}

func (heatmap) name() string { return "heatmap" }

func (heatmap) bind(records []Record, s Settings) ([]Record, error) {
	typ := s.Type
	if typ == "" {
		if types := Types(records); len(types) > 0 {
			typ = types[0]
		}
	}
	out := FilterType(records, typ)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no records of type %q", ErrNoRecords, typ)
	}
	return out, nil
}

func (heatmap) coords(records []Record) []float64 {
	return recordCoords(records, func(r Record) []float64 { return []float64{r.Start, r.End} })
}

func (heatmap) scores(records []Record) []float64 {
	var out []float64
	for _, r := range records {
		for _, sc := range r.Scores {
			out = append(out, sc.Value)
		}
	}
	return out
}

func (h heatmap) drawTrack(p *pass, node *Node, t Track, _ int) (items, leaves Diff) {
	items = Reconcile(node, t.Records, Binding[Record]{
		Class: ClassHeatColumn,
		Key:   func(r Record, _ int) string { return r.IntervalKey() },
		Create: func(r Record, _ int) *Node {
			return NewContainer("heatcolumn " + r.IntervalKey())
		},
		Update: func(n *Node, r Record, _ int) {
			n.UserData = r
			n.Title = r.Chr + ":" + r.IntervalKey()
		},
	})
	return items, h.layoutLeaves(p, node)
}

// layoutLeaves binds every column's scores to score boxes, in sort order.
// It runs for each pass and again whenever the sort order changes.
func (heatmap) layoutLeaves(p *pass, track *Node) Diff {
	var total Diff
	s := p.settings
	for _, col := range track.ChildrenByClass(ClassHeatColumn) {
		r, ok := col.UserData.(Record)
		if !ok {
			continue
		}
		x := p.scales.X.Map(r.Start)
		w := p.scales.Width(r.Start, r.End)
		target := func(sc Score, i int) NodeState {
			return NodeState{
				X: x, Y: s.BoxOffset + float64(i)*(s.BoxHeight+s.BoxGap),
				ScaleX: 1, ScaleY: 1,
				Width: w, Height: s.BoxHeight,
				Alpha: 1,
				Color: p.scales.ScoreColor(sc.Value),
			}
		}
		d := Reconcile(col, orderScores(r.Scores, p.sortOrder), Binding[Score]{
			Class: ClassScoreBox,
			Key:   func(sc Score, _ int) string { return sc.Name },
			Create: func(sc Score, i int) *Node {
				n := NewRect("scorebox "+sc.Name, 0, 0, ColorBlack)
				n.Interactable = true
				target(sc, i).applyTo(n)
				return n
			},
			Update: func(n *Node, sc Score, i int) {
				n.Title = sc.Name + ", score: " + strconv.FormatFloat(sc.Value, 'g', -1, 64)
				n.UserData = sc
				p.animate(n, target(sc, i), 0, s.Animation.SortDuration)
			},
		})
		total.add(d)
	}
	return total
}

func (heatmap) interact(n *Node) Command {
	if n.Class != ClassScoreBox || n.Parent == nil {
		return nil
	}
	r, ok := n.Parent.UserData.(Record)
	if !ok {
		return nil
	}
	return SetSortOrder{Column: n.Parent.Key, Keys: SortOrderFor(r.Scores)}
}

// orderScores returns the scores in sort order: keys named in order first, in
// that order, then the remaining scores in natural order. A nil order keeps
// natural order.
func orderScores(scores Scores, order []string) Scores {
	if len(order) == 0 {
		return scores
	}
	out := make(Scores, 0, len(scores))
	placed := make(map[string]bool, len(order))
	for _, k := range order {
		if v, ok := scores.Get(k); ok && !placed[k] {
			placed[k] = true
			out = append(out, Score{Name: k, Value: v})
		}
	}
	for _, sc := range scores {
		if !placed[sc.Name] {
			out = append(out, sc)
		}
	}
	return out
}
