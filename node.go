package trackview

import (
	"math"
	"sync/atomic"
)

// ClickContext carries click event data.
type ClickContext struct {
	Node    *Node // node that was hit
	Target  *Node // node whose handler is running (Node or an ancestor)
	GlobalX float64
	GlobalY float64
	LocalX  float64
	LocalY  float64
}

// GradientStop is one color stop of a horizontal linear gradient fill.
type GradientStop struct {
	Offset float64 // 0..1
	Color  Color
}

// --- ID counter ---

// nodeIDCounter is shared by every chart; a server builds charts on
// concurrent requests.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types. ID is assigned once at construction and never reused, so it
// serves as the identity token for reconciliation checks.
type Node struct {
	// Identity
	ID    uint32
	Name  string
	Type  NodeType
	Class string // class marker (track, scorebox, link, ...)
	Key   string // reconciliation key among siblings of the same Class
	Title string // tooltip text

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Only translation and scale are supported.
	X, Y   float64
	ScaleX float64
	ScaleY float64

	// Geometry
	Width  float64
	Height float64

	// Appearance
	Color       Color
	Stroke      Color
	StrokeWidth float64
	Alpha       float64
	Visible     bool
	Selected    bool
	Gradient    []GradientStop

	// Path fields (NodeTypePath)
	Path *LinkPath

	// Text fields (NodeTypeText)
	Text     string
	FontSize float64
	Anchor   TextAnchor

	// Metadata
	UserData any

	// Interaction
	Interactable bool
	OnClick      func(ClickContext)

	// Internal
	disposed   bool
	scene      *Scene      // set on a scene's root only
	transition *Transition // pending transition; its end state is the layout geometry
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Stroke = ColorTransparent
	n.Visible = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewRect creates a filled rectangle node.
func NewRect(name string, w, h float64, fill Color) *Node {
	n := &Node{Name: name, Type: NodeTypeRect, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = fill
	return n
}

// NewPath creates a path node drawing the given link path.
func NewPath(name string, p *LinkPath) *Node {
	n := &Node{Name: name, Type: NodeTypePath, Path: p}
	nodeDefaults(n)
	return n
}

// NewLine creates a line node from its origin to (dx, dy).
func NewLine(name string, dx, dy float64, stroke Color) *Node {
	n := &Node{Name: name, Type: NodeTypeLine, Width: dx, Height: dy}
	nodeDefaults(n)
	n.Color = ColorTransparent
	n.Stroke = stroke
	n.StrokeWidth = 1
	return n
}

// NewText creates a text node. The origin is the left end of the text's
// vertical middle line unless Anchor says otherwise.
func NewText(name, content string, size float64) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, FontSize: size}
	nodeDefaults(n)
	n.Color = ColorBlack
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("trackview: cannot add nil child")
	}
	if debugEnabled(n) {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("trackview: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if debugEnabled(n) {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("trackview: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("trackview: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("trackview: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("trackview: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildrenByClass returns the children carrying the given class marker, in
// painter order.
func (n *Node) ChildrenByClass(class string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// FindChild returns the first child with the given class and key, or nil.
func (n *Node) FindChild(class, key string) *Node {
	for _, c := range n.children {
		if c.Class == class && c.Key == key {
			return c
		}
	}
	return nil
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("trackview: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("trackview: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// BringToFront moves the node to the end of its parent's children so it is
// painted (and hit-tested) above its siblings.
func (n *Node) BringToFront() {
	if n.Parent == nil {
		return
	}
	n.Parent.SetChildIndex(n, len(n.Parent.children)-1)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Path = nil
	n.Gradient = nil
	n.UserData = nil
	n.OnClick = nil
	n.transition = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Measurement ---

// ownBounds returns the node's own shape bounds in its local space.
func (n *Node) ownBounds() (Rect, bool) {
	g := n.layoutState()
	switch n.Type {
	case NodeTypeRect:
		return Rect{Width: g.Width, Height: g.Height}, true
	case NodeTypeLine:
		return Rect{
			X:      math.Min(0, g.Width),
			Y:      math.Min(0, g.Height),
			Width:  math.Abs(g.Width),
			Height: math.Abs(g.Height),
		}, true
	case NodeTypePath:
		if n.Path == nil {
			return Rect{}, false
		}
		return n.Path.Bounds(), true
	case NodeTypeText:
		if n.Text == "" {
			return Rect{}, false
		}
		w := textWidth(n.Text, n.FontSize)
		x := 0.0
		switch n.Anchor {
		case TextAnchorMiddle:
			x = -w / 2
		case TextAnchorEnd:
			x = -w
		}
		return Rect{X: x, Y: -n.FontSize / 2, Width: w, Height: n.FontSize}, true
	default:
		return Rect{}, false
	}
}

// ContentBounds returns the bounding box of the node's own shape and all
// visible descendants, in the node's local coordinate space (its own
// translation and scale are not applied). Geometry that is mid-transition is
// measured at its end state. ok is false when nothing visible was drawn.
func (n *Node) ContentBounds() (r Rect, ok bool) {
	r, ok = n.ownBounds()
	for _, c := range n.children {
		cb, cok := c.Bounds()
		if !cok {
			continue
		}
		if !ok {
			r, ok = cb, true
			continue
		}
		r = r.Union(cb)
	}
	return r, ok
}

// Bounds returns the node's content bounds in its parent's coordinate space.
func (n *Node) Bounds() (Rect, bool) {
	if !n.Visible {
		return Rect{}, false
	}
	r, ok := n.ContentBounds()
	if !ok {
		return Rect{}, false
	}
	return transformRect(localTransform(n.layoutState()), r), true
}

// textWidth estimates rendered text width for an average sans-serif face.
func textWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.6
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
