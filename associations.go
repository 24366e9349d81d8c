package trackview

import "strconv"

// associations draws each association as a group of two region rects joined
// by an arc link above the track base, filled by the normalized score.
type associations struct{}

func (associations) name() string { return "associations" }

func (associations) bind(records []Record, _ Settings) ([]Record, error) {
	return records, nil
}

func (associations) coords(records []Record) []float64 {
	return recordCoords(records, func(r Record) []float64 {
		return []float64{r.Start, r.End, r.TargetStart, r.TargetEnd}
	})
}

func (associations) scores(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

const (
	keySource = "source"
	keyTarget = "target"
)

func (associations) drawTrack(p *pass, node *Node, t Track, index int) (items, leaves Diff) {
	s := p.settings
	items = Reconcile(node, t.Records, Binding[Record]{
		Class: ClassAssociation,
		Key:   func(r Record, _ int) string { return r.PairKey() },
		Create: func(r Record, i int) *Node {
			g := NewContainer("association " + r.PairKey())
			for _, k := range []string{keySource, keyTarget} {
				region := NewRect("region "+k, 0, s.TrackHeight, Color{0.27, 0.51, 0.71, 1})
				region.Class = ClassRegion
				region.Key = k
				region.Interactable = true
				g.AddChild(region)
			}
			link := NewPath("link", nil)
			link.Class = ClassLink
			link.Interactable = true
			g.AddChild(link)

			// Fade in, staggered by group then by track.
			g.Alpha = 0
			delay := float64(i+1)*s.Animation.GroupDelay + float64(index)*s.Animation.TrackDelay
			to := StateOf(g)
			to.Alpha = 1
			p.animate(g, to, delay, s.Animation.Duration)
			leaves.Created += 3
			return g
		},
		Update: func(g *Node, r Record, _ int) {
			g.UserData = r
			src := Interval{X0: p.scales.X.Map(r.Start), X1: p.scales.X.Map(r.End)}
			dst := Interval{X0: p.scales.X.Map(r.TargetStart), X1: p.scales.X.Map(r.TargetEnd)}

			if n := g.FindChild(ClassRegion, keySource); n != nil {
				n.X, n.Width, n.Height = src.X0, src.X1-src.X0, s.TrackHeight
				n.Title = "source: " + formatNum(r.Start) + ":" + formatNum(r.End)
			}
			if n := g.FindChild(ClassRegion, keyTarget); n != nil {
				n.X, n.Width, n.Height = dst.X0, dst.X1-dst.X0, s.TrackHeight
				n.Title = "target: " + formatNum(r.TargetStart) + ":" + formatNum(r.TargetEnd)
			}
			if n := g.FindChild(ClassLink, ""); n != nil {
				n.Path = NewLinkPath(src, dst, s.LinkRadiusRatio)
				n.Color = p.scales.ScoreColor(r.Score)
				n.Title = "score: " + strconv.FormatFloat(r.Score, 'g', -1, 64)
			}
			leaves.Updated += 3
		},
		Remove: func(g *Node) {
			leaves.Removed += 3
			g.Dispose()
		},
	})
	// Updates include the groups created this pass.
	leaves.Updated -= leaves.Created
	return items, leaves
}

func (associations) interact(n *Node) Command {
	for g := n; g != nil; g = g.Parent {
		if g.Class == ClassAssociation {
			return BringToFront{Node: g}
		}
	}
	return nil
}
