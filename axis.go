package trackview

import "strconv"

const (
	gridTicks      = 10
	axisTicks      = 40
	axisTickSize   = 5
	axisFontSize   = 10
	legendPadding  = 4
	legendBarWidth = 100
)

var gridColor = Color{0.85, 0.85, 0.85, 1}

// decorate rebuilds the grid, axis and legend below the tracks. They carry no
// keys and are replaced on every pass.
func decorate(layer *Node, p *pass, height float64) {
	for _, class := range []string{ClassGrid, ClassAxis, ClassLegend} {
		for _, n := range layer.ChildrenByClass(class) {
			n.Dispose()
		}
	}
	layer.AddChild(newGrid(p, height))
	layer.AddChild(newAxis(p, height))
	legend := newLegend(p)
	legend.Y = height + axisTickSize + p.settings.PaddingTick + axisFontSize + legendPadding
	layer.AddChild(legend)
}

// newGrid draws vertical lines spanning the chart height at the coarse ticks.
func newGrid(p *pass, height float64) *Node {
	g := NewContainer("grid")
	g.Class = ClassGrid
	g.Y = height
	for _, v := range p.scales.X.Ticks(gridTicks) {
		l := NewLine("grid "+formatNum(v), 0, -height, gridColor)
		l.Class = ClassTick
		l.X = p.scales.X.Map(v)
		g.AddChild(l)
	}
	return g
}

// newAxis draws the baseline, fine ticks and labels at the coarse ticks.
func newAxis(p *pass, height float64) *Node {
	a := NewContainer("axis")
	a.Class = ClassAxis
	a.Y = height

	base := NewLine("baseline", p.settings.Width, 0, ColorBlack)
	a.AddChild(base)
	for _, v := range p.scales.X.Ticks(axisTicks) {
		t := NewLine("tick "+formatNum(v), 0, axisTickSize, ColorBlack)
		t.Class = ClassTick
		t.X = p.scales.X.Map(v)
		a.AddChild(t)
	}
	for _, v := range p.scales.X.Ticks(gridTicks) {
		label := NewText("label "+formatNum(v), formatNum(v), axisFontSize)
		label.Class = ClassLabel
		label.Anchor = TextAnchorMiddle
		label.X = p.scales.X.Map(v)
		label.Y = axisTickSize + p.settings.PaddingTick
		a.AddChild(label)
	}
	return a
}

// newLegend draws the score range: min label, gradient bar, max label.
func newLegend(p *pass) *Node {
	h := p.settings.LegendHeight
	lg := NewContainer("legend")
	lg.Class = ClassLegend

	lo := strconv.FormatFloat(p.scales.Scores.Extent.Min, 'g', -1, 64)
	hi := strconv.FormatFloat(p.scales.Scores.Extent.Max, 'g', -1, 64)

	minText := NewText("min", lo, axisFontSize)
	minText.X, minText.Y = legendPadding, h/2
	lg.AddChild(minText)
	offset := legendPadding*3 + textWidth(lo, axisFontSize)

	bar := NewRect("gradient", legendBarWidth, h, ColorWhite)
	bar.X = offset
	k := len(p.settings.Colors.Score)
	for i := 0; i <= k; i++ {
		t := float64(i) / float64(k)
		bar.Gradient = append(bar.Gradient, GradientStop{Offset: t, Color: p.scales.Color.At(t)})
	}
	lg.AddChild(bar)
	offset += legendBarWidth + legendPadding

	maxText := NewText("max", hi, axisFontSize)
	maxText.X, maxText.Y = offset, h/2
	lg.AddChild(maxText)
	return lg
}
