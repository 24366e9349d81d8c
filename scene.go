package trackview

import (
	"log/slog"

	"github.com/tanema/gween/ease"
)

const defaultZoomDuration = 0.25 // seconds

// Scene is the top-level object that owns the node tree, the zoom transform,
// running transitions and click dispatch. All chart content lives under Layer,
// which carries the zoom transform; Root holds the layer only.
type Scene struct {
	root  *Node
	layer *Node

	zoom         *Zoom
	ZoomDuration float32
	ZoomEase     ease.TweenFunc

	animator *Animator

	// Width and Height size the drawing surface, in unzoomed pixels.
	Width, Height float64

	// Background fills the surface before drawing; transparent by default.
	Background Color

	handlers []clickHandler
	nextID   uint32
	hitBuf   []*Node

	debug  bool
	logger *slog.Logger
}

// NewScene creates a new scene with a pre-created root and zoom layer.
func NewScene() *Scene {
	root := NewContainer("root")
	layer := NewContainer("layer")
	root.AddChild(layer)
	s := &Scene{
		root:         root,
		layer:        layer,
		zoom:         newZoom(),
		ZoomDuration: defaultZoomDuration,
		ZoomEase:     ease.OutCubic,
		animator:     NewAnimator(),
		logger:       slog.New(slog.DiscardHandler),
	}
	root.scene = s
	if debugFromEnv() {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Layer returns the zoomable container holding all chart content.
func (s *Scene) Layer() *Node {
	return s.layer
}

// Zoom returns the scene's logical zoom state. Mutate it through ZoomAt,
// PanBy, SetZoom and ResetZoom so the layer transform follows.
func (s *Scene) Zoom() *Zoom {
	return s.zoom
}

// Animator returns the scene's transition registry.
func (s *Scene) Animator() *Animator {
	return s.animator
}

// Update advances transitions by dt seconds.
func (s *Scene) Update(dt float32) {
	s.animator.Update(dt)
}

// Settle jumps every running transition to its end state.
func (s *Scene) Settle() {
	s.animator.Settle()
}

// ZoomAt zooms by factor around the screen point (cx, cy).
func (s *Scene) ZoomAt(factor, cx, cy float64) {
	s.zoom.ZoomAt(factor, cx, cy)
	s.applyZoom()
}

// PanBy pans by (dx, dy) screen pixels.
func (s *Scene) PanBy(dx, dy float64) {
	s.zoom.PanBy(dx, dy)
	s.applyZoom()
}

// SetZoom replaces the zoom transform.
func (s *Scene) SetZoom(scale, tx, ty float64) {
	s.zoom.Set(scale, tx, ty)
	s.applyZoom()
}

// ResetZoom returns to scale 1 with no translation.
func (s *Scene) ResetZoom() {
	s.zoom.Reset()
	s.applyZoom()
}

// applyZoom starts an eased transition of the layer toward the zoom state,
// superseding any zoom transition already in flight.
func (s *Scene) applyZoom() {
	to := s.zoom.state(StateOf(s.layer))
	s.animator.Start(s.layer, to, 0, s.ZoomDuration, s.ZoomEase)
	if s.debug {
		s.logger.Debug("zoom", "scale", s.zoom.Scale, "tx", s.zoom.TranslateX, "ty", s.zoom.TranslateY)
	}
}

// ScreenToWorld converts a surface point to the layer's (unzoomed) space using
// the transform currently on screen, including an in-flight zoom transition.
func (s *Scene) ScreenToWorld(sx, sy float64) (float64, float64) {
	return s.layer.WorldToLocal(sx, sy)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// per-pass timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled {
		s.logger = newDebugLogger()
	} else {
		s.logger = slog.New(slog.DiscardHandler)
	}
}

// Visit walks the scene in painter order, calling fn with each visible node
// and its current world transform. Returning false from fn skips the node's
// children.
func (s *Scene) Visit(fn func(n *Node, world [6]float64, alpha float64) bool) {
	visit(s.root, identityTransform, 1, fn)
}

func visit(n *Node, parent [6]float64, parentAlpha float64, fn func(*Node, [6]float64, float64) bool) {
	if !n.Visible {
		return
	}
	world := multiplyAffine(parent, localTransform(StateOf(n)))
	alpha := parentAlpha * n.Alpha
	if !fn(n, world, alpha) {
		return
	}
	for _, c := range n.children {
		visit(c, world, alpha, fn)
	}
}
