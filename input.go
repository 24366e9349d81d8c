package trackview

// --- Handler registry ---

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	scene *Scene
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.scene == nil {
		return
	}
	s := h.scene.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = clickHandler{}
			h.scene.handlers = s[:len(s)-1]
			return
		}
	}
}

// OnClick registers a scene-level callback fired after node handlers for
// every click that hits a node.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, scene: s}
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's shape.
// Containers, lines and text are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	switch n.Type {
	case NodeTypeRect:
		return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
	case NodeTypePath:
		return n.Path != nil && n.Path.Contains(lx, ly)
	default:
		return false
	}
}

// collectInteractable walks the tree in painter order (DFS), appending
// interactable shape nodes to buf. Invisible subtrees are skipped.
// A node is interactable if it or any ancestor has Interactable set.
func collectInteractable(n *Node, inherited bool, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	interactable := inherited || n.Interactable
	if interactable && n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectInteractable(child, interactable, buf)
	}
	return buf
}

// HitTest finds the topmost interactable node at the surface point (x, y).
// Returns nil if nothing is hit.
func (s *Scene) HitTest(x, y float64) *Node {
	s.hitBuf = collectInteractable(s.root, false, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(x, y)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// Click hit-tests the surface point (x, y) and fires OnClick on the hit node
// and each ancestor that has a handler, innermost first, then the scene-level
// handlers. It returns the hit node, or nil when nothing was hit.
func (s *Scene) Click(x, y float64) *Node {
	hit := s.HitTest(x, y)
	if hit == nil {
		return nil
	}
	for n := hit; n != nil; n = n.Parent {
		if n.OnClick == nil {
			continue
		}
		lx, ly := n.WorldToLocal(x, y)
		n.OnClick(ClickContext{Node: hit, Target: n, GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly})
		if hit.IsDisposed() {
			return hit
		}
	}
	for _, h := range s.handlers {
		lx, ly := hit.WorldToLocal(x, y)
		h.fn(ClickContext{Node: hit, Target: hit, GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly})
	}
	return hit
}
