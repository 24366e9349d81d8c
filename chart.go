package trackview

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Chart is one chart instance: a graph mode, its settings, the bound data and
// the scene it renders into. A Chart is not safe for concurrent use; at most
// one render pass runs at a time.
type Chart struct {
	graph    graph
	settings Settings

	records []Record // everything loaded
	bound   []Record // records drawn by the current pass
	tracks  []Track
	scales  ScaleSet
	height  float64

	sortColumn string
	sortOrder  []string

	scene       *Scene
	tracksNode  *Node
	clickHandle CallbackHandle
	last        *pass
}

// New creates a chart for the named graph mode ("heatmap", "associations" or
// "exons"). An unknown mode yields ErrUnknownGraph and no chart.
func New(mode string) (*Chart, error) {
	g, err := newGraph(mode)
	if err != nil {
		return nil, err
	}
	c := &Chart{graph: g, settings: DefaultSettings()}
	c.mount(NewScene())
	return c, nil
}

// Mode returns the chart's graph mode name.
func (c *Chart) Mode() string {
	return c.graph.name()
}

// Scene returns the scene the chart renders into.
func (c *Chart) Scene() *Scene {
	return c.scene
}

// Settings returns a copy of the current settings.
func (c *Chart) Settings() Settings {
	s := c.settings
	s.Colors.Score = slices.Clone(s.Colors.Score)
	if s.Extent != nil {
		e := *s.Extent
		s.Extent = &e
	}
	return s
}

// Tracks returns the tracks bound by the last render pass, with their offsets.
func (c *Chart) Tracks() []Track {
	return c.tracks
}

// Scales returns the scales derived by the last render pass.
func (c *Chart) Scales() ScaleSet {
	return c.scales
}

// Height returns the rendered chart height, including axis and legend.
func (c *Chart) Height() float64 {
	return c.height
}

// SortOrder returns the active sort order and the column it was computed
// from. keys is nil for natural order.
func (c *Chart) SortOrder() (column string, keys []string) {
	return c.sortColumn, slices.Clone(c.sortOrder)
}

// SetDebugMode toggles debug logging and checks on the chart's scene.
func (c *Chart) SetDebugMode(enabled bool) {
	c.scene.SetDebugMode(enabled)
}

// Configure merges options into the settings. When data is loaded the chart
// is re-rendered; if the new settings cannot be rendered (for instance a type
// filter that matches nothing) the previous settings and scene are kept.
func (c *Chart) Configure(o Options) error {
	next, err := c.settings.Merge(o)
	if err != nil {
		return err
	}
	if c.records == nil {
		c.settings = next
		c.applyZoomSettings()
		return nil
	}
	prev := c.settings
	c.settings = next
	if err := c.Refresh(); err != nil {
		c.settings = prev
		return err
	}
	c.applyZoomSettings()
	return nil
}

// Load reads records from src and renders them. The sort order is reset. On
// error the previously loaded data and scene remain.
func (c *Chart) Load(ctx context.Context, src Source) error {
	records, err := src.Records(ctx, c.graph.name())
	if err != nil {
		return err
	}
	return c.LoadRecords(records)
}

// LoadRecords binds an in-memory record set and renders it.
func (c *Chart) LoadRecords(records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	prevRecords := c.records
	prevColumn, prevOrder := c.sortColumn, c.sortOrder

	c.records = slices.Clone(records)
	c.sortColumn, c.sortOrder = "", nil
	if err := c.Refresh(); err != nil {
		c.records = prevRecords
		c.sortColumn, c.sortOrder = prevColumn, prevOrder
		return err
	}
	return nil
}

// Refresh re-runs the render pass against the current data and settings.
func (c *Chart) Refresh() error {
	return c.render()
}

// RefreshScene re-mounts the chart onto target and renders into it. The
// previous scene is left as it was, and target is untouched when the pass
// cannot be prepared.
func (c *Chart) RefreshScene(target *Scene) error {
	t0 := time.Now()
	pr, err := c.prepare()
	if err != nil {
		return err
	}
	c.mount(target)
	c.commit(pr, time.Since(t0))
	return nil
}

// Click hit-tests a surface point and dispatches the command the hit node
// triggers. It returns the hit node, or nil.
func (c *Chart) Click(x, y float64) *Node {
	return c.scene.Click(x, y)
}

// Hover raises the association or strip under a surface point, as a click
// would. Commands other than BringToFront, such as a heatmap sort, only run
// on click. It returns the node under the point, or nil.
func (c *Chart) Hover(x, y float64) *Node {
	hit := c.scene.HitTest(x, y)
	if hit == nil {
		return nil
	}
	cmd, ok := c.graph.interact(hit).(BringToFront)
	if !ok || cmd.Node.Selected {
		return hit
	}
	if err := c.Dispatch(cmd); err != nil && c.scene.debug {
		c.scene.logger.Debug("hover", "err", err)
	}
	return hit
}

// Update advances transitions by dt seconds.
func (c *Chart) Update(dt float32) {
	c.scene.Update(dt)
}

// Settle jumps all running transitions to their end state.
func (c *Chart) Settle() {
	c.scene.Settle()
}

// mount attaches the chart to a scene, finding or creating its tracks group.
func (c *Chart) mount(s *Scene) {
	c.clickHandle.Remove()
	c.scene = s
	c.tracksNode = s.Layer().FindChild(ClassTracks, "")
	if c.tracksNode == nil {
		c.tracksNode = NewContainer("tracks")
		c.tracksNode.Class = ClassTracks
		s.Layer().AddChildAt(c.tracksNode, 0)
	}
	c.clickHandle = s.OnClick(c.handleClick)
	c.applyZoomSettings()
}

func (c *Chart) handleClick(ctx ClickContext) {
	cmd := c.graph.interact(ctx.Node)
	if cmd == nil {
		return
	}
	if err := c.Dispatch(cmd); err != nil && c.scene.debug {
		c.scene.logger.Debug("click", "err", err)
	}
}

func (c *Chart) applyZoomSettings() {
	c.scene.Zoom().SetRange(c.settings.Zoom.Min, c.settings.Zoom.Max)
	c.scene.ZoomDuration = seconds(c.settings.Zoom.Duration)
}

// prepared is everything a pass derives before it touches the scene.
type prepared struct {
	bound  []Record
	tracks []Track
	scales ScaleSet
}

// prepare filters, groups and derives scales. It fails without side effects.
func (c *Chart) prepare() (prepared, error) {
	if len(c.records) == 0 {
		return prepared{}, ErrNoRecords
	}
	bound, err := c.graph.bind(c.records, c.settings)
	if err != nil {
		return prepared{}, err
	}
	scales, err := buildScales(
		c.graph.coords(bound), c.graph.scores(bound),
		c.settings.Extent, c.settings.PaddingX, c.settings.Width,
		c.settings.Palette(),
	)
	if err != nil {
		return prepared{}, fmt.Errorf("%s: %w", c.graph.name(), err)
	}
	return prepared{bound: bound, tracks: GroupByTrack(bound), scales: scales}, nil
}

// render runs one full pass: grouping and scales, then track reconciliation
// with sequential stacking, then decorations.
func (c *Chart) render() error {
	t0 := time.Now()
	pr, err := c.prepare()
	if err != nil {
		return err
	}
	c.commit(pr, time.Since(t0))
	return nil
}

// commit applies a prepared pass to the mounted scene.
func (c *Chart) commit(pr prepared, prepareTime time.Duration) {
	stats := passStats{prepareTime: prepareTime}
	c.bound, c.tracks, c.scales = pr.bound, pr.tracks, pr.scales
	p := &pass{
		settings:  c.settings,
		scales:    c.scales,
		animator:  c.scene.Animator(),
		sortOrder: c.sortOrder,
	}
	c.last = p

	t1 := time.Now()
	stack := trackStacker{padding: c.settings.PaddingY}
	fresh := make(map[*Node]bool)
	stats.tracks = Reconcile(c.tracksNode, c.tracks, Binding[Track]{
		Class: ClassTrack,
		Key:   func(t Track, _ int) string { return t.Chr },
		Create: func(t Track, _ int) *Node {
			n := newTrackNode(p, t)
			fresh[n] = true
			return n
		},
		Update: func(n *Node, t Track, i int) {
			n.UserData = t.Chr
			updateTrackNode(p, n, t)
			items, leaves := c.graph.drawTrack(p, n, t, i)
			stats.items.add(items)
			stats.leaves.add(leaves)

			to := StateOf(n)
			to.Y = stack.place(n)
			if fresh[n] {
				c.scene.animator.Set(n, to)
			} else {
				p.animate(n, to, 0, c.settings.Animation.Duration)
			}
			c.tracks[i].Offset = to.Y
		},
	})
	stats.reconcileTime = time.Since(t1)

	t2 := time.Now()
	height := stack.height()
	decorate(c.scene.Layer(), p, height)
	c.scene.Width = c.settings.Width
	if b, ok := c.scene.Layer().ContentBounds(); ok {
		c.height = b.Bottom() + c.settings.PaddingY/2
	} else {
		c.height = height
	}
	c.scene.Height = c.height
	stats.decorateTime = time.Since(t2)

	c.scene.logPass(c.graph.name(), stats)
}
