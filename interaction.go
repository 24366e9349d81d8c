package trackview

import (
	"errors"
	"fmt"
	"slices"
)

// Command is a described state transition produced by interaction and applied
// by Chart.Dispatch. Input handling builds commands; only Dispatch mutates the
// chart.
type Command interface {
	apply(c *Chart) error
}

// SetSortOrder orders the score boxes of every column by Keys. Column names
// the column the order was computed from. A nil Keys restores natural order.
type SetSortOrder struct {
	Column string
	Keys   []string
}

// BringToFront paints Node above its siblings and marks it selected.
type BringToFront struct {
	Node *Node
}

// ZoomBy multiplies the zoom scale by Factor around the surface point (X, Y).
type ZoomBy struct {
	Factor float64
	X, Y   float64
}

// Pan translates the zoomed scene by (DX, DY) surface pixels.
type Pan struct {
	DX, DY float64
}

// ResetZoom returns to scale 1 with no translation.
type ResetZoom struct{}

// SortOrderFor returns the score names sorted ascending by value. Equal values
// keep their natural order.
func SortOrderFor(scores Scores) []string {
	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b Score) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})
	return sorted.Names()
}

func (cmd SetSortOrder) apply(c *Chart) error {
	c.sortColumn = cmd.Column
	c.sortOrder = slices.Clone(cmd.Keys)
	if cmd.Keys == nil {
		c.sortColumn = ""
	}
	return c.applyLeafLayout()
}

func (cmd BringToFront) apply(*Chart) error {
	n := cmd.Node
	if n == nil || n.IsDisposed() {
		return errors.New("trackview: bring to front: node is gone")
	}
	if n.Parent != nil {
		for _, sib := range n.Parent.children {
			sib.Selected = false
		}
	}
	n.Selected = true
	n.BringToFront()
	return nil
}

func (cmd ZoomBy) apply(c *Chart) error {
	c.scene.ZoomAt(cmd.Factor, cmd.X, cmd.Y)
	return nil
}

func (cmd Pan) apply(c *Chart) error {
	c.scene.PanBy(cmd.DX, cmd.DY)
	return nil
}

func (ResetZoom) apply(c *Chart) error {
	c.scene.ResetZoom()
	return nil
}

// Dispatch applies commands in order, stopping at the first error.
func (c *Chart) Dispatch(cmds ...Command) error {
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if err := cmd.apply(c); err != nil {
			return fmt.Errorf("dispatch %T: %w", cmd, err)
		}
		if c.scene.debug {
			c.scene.logger.Debug("dispatch", "command", fmt.Sprintf("%T", cmd))
		}
	}
	return nil
}

// applyLeafLayout re-binds the leaves of every track to the current sort
// order, without re-deriving scales or restacking tracks.
func (c *Chart) applyLeafLayout() error {
	ll, ok := c.graph.(leafLayouter)
	if !ok || c.last == nil {
		return nil
	}
	p := *c.last
	p.sortOrder = c.sortOrder
	for _, t := range c.tracksNode.ChildrenByClass(ClassTrack) {
		ll.layoutLeaves(&p, t)
	}
	return nil
}
