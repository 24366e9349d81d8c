package trackview

import (
	"math"
	"strconv"
)

// exons draws one strip per transcript record below the track base: the
// transcript's full span as an intron line, its blocks as rects. Blocks that
// overlap the thick (coding) range are full height, the rest half height.
type exons struct{}

func (exons) name() string { return "exons" }

func (exons) bind(records []Record, _ Settings) ([]Record, error) {
	return records, nil
}

func (exons) coords(records []Record) []float64 {
	return recordCoords(records, func(r Record) []float64 {
		c := []float64{r.Start, r.End}
		if r.ThickEnd > r.ThickStart {
			c = append(c, r.ThickStart, r.ThickEnd)
		}
		return c
	})
}

func (exons) scores(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

// block is one exon of a transcript in absolute coordinates.
type block struct {
	index      int
	start, end float64
	thick      bool
}

func blocksOf(r Record) []block {
	out := make([]block, len(r.BlockStarts))
	for i := range r.BlockStarts {
		start := r.Start + r.BlockStarts[i]
		end := start + r.BlockSizes[i]
		out[i] = block{
			index: i,
			start: start,
			end:   end,
			thick: r.ThickEnd > r.ThickStart && start < r.ThickEnd && end > r.ThickStart,
		}
	}
	return out
}

func stripKey(r Record) string {
	if r.Name == "" {
		return r.IntervalKey()
	}
	return r.IntervalKey() + ":" + r.Name
}

func (exons) drawTrack(p *pass, node *Node, t Track, _ int) (items, leaves Diff) {
	s := p.settings
	items = Reconcile(node, t.Records, Binding[Record]{
		Class: ClassStrip,
		Key:   func(r Record, _ int) string { return stripKey(r) },
		Create: func(r Record, i int) *Node {
			strip := NewContainer("strip " + stripKey(r))
			strip.Y = s.BoxOffset + float64(i)*(s.BoxHeight+s.BoxGap)
			intron := NewLine("intron", 0, 0, ColorBlack)
			intron.Class = ClassIntron
			strip.AddChild(intron)
			return strip
		},
		Update: func(strip *Node, r Record, i int) {
			strip.UserData = r
			strip.Title = r.Name
			to := StateOf(strip)
			to.Y = s.BoxOffset + float64(i)*(s.BoxHeight+s.BoxGap)
			p.animate(strip, to, 0, s.Animation.Duration)

			if intron := strip.FindChild(ClassIntron, ""); intron != nil {
				intron.X = p.scales.X.Map(r.Start)
				intron.Y = s.BoxHeight / 2
				intron.Width = p.scales.Width(r.Start, r.End)
			}

			color := p.scales.ScoreColor(r.Score)
			d := Reconcile(strip, blocksOf(r), Binding[block]{
				Class: ClassBlock,
				Key:   func(b block, _ int) string { return strconv.Itoa(b.index) },
				Create: func(b block, _ int) *Node {
					n := NewRect("block "+strconv.Itoa(b.index), 0, 0, color)
					n.Interactable = true
					return n
				},
				Update: func(n *Node, b block, _ int) {
					h := s.BoxHeight
					if !b.thick {
						h = s.BoxHeight / 2
					}
					n.X = p.scales.X.Map(b.start)
					n.Width = math.Max(p.scales.Width(b.start, b.end), 1)
					n.Y = (s.BoxHeight - h) / 2
					n.Height = h
					n.Color = color
					n.Title = r.Name + " exon " + strconv.Itoa(b.index+1) +
						": " + formatNum(b.start) + "-" + formatNum(b.end)
				},
			})
			leaves.add(d)
		},
	})
	return items, leaves
}

func (exons) interact(n *Node) Command {
	for g := n; g != nil; g = g.Parent {
		if g.Class == ClassStrip {
			return BringToFront{Node: g}
		}
	}
	return nil
}
