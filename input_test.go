package trackview

import "testing"

func interactableRect(name string, x, y, w, h float64) *Node {
	n := NewRect(name, w, h, ColorBlack)
	n.X, n.Y = x, y
	n.Interactable = true
	return n
}

func TestHitTestTopmostNode(t *testing.T) {
	s := NewScene()
	below := interactableRect("below", 0, 0, 100, 100)
	above := interactableRect("above", 50, 50, 100, 100)
	s.Layer().AddChild(below)
	s.Layer().AddChild(above)

	if got := s.HitTest(75, 75); got != above {
		t.Errorf("HitTest(75, 75) = %v, want above", got.Name)
	}
	if got := s.HitTest(10, 10); got != below {
		t.Errorf("HitTest(10, 10) = %v, want below", got.Name)
	}
	if got := s.HitTest(500, 500); got != nil {
		t.Errorf("HitTest(500, 500) = %v, want nil", got.Name)
	}
}

func TestHitTestSkipsInvisibleAndInert(t *testing.T) {
	s := NewScene()
	hidden := interactableRect("hidden", 0, 0, 10, 10)
	hidden.Visible = false
	inert := NewRect("inert", 10, 10, ColorBlack)
	s.Layer().AddChild(hidden)
	s.Layer().AddChild(inert)

	if got := s.HitTest(5, 5); got != nil {
		t.Errorf("HitTest = %v, want nil", got.Name)
	}
}

func TestHitTestInheritsInteractable(t *testing.T) {
	s := NewScene()
	g := NewContainer("group")
	g.Interactable = true
	g.X = 100
	child := NewRect("child", 10, 10, ColorBlack)
	g.AddChild(child)
	s.Layer().AddChild(g)

	if got := s.HitTest(105, 5); got != child {
		t.Errorf("HitTest = %v, want child", got)
	}
}

func TestHitTestZoomed(t *testing.T) {
	s := NewScene()
	r := interactableRect("r", 10, 10, 10, 10)
	s.Layer().AddChild(r)
	s.SetZoom(2, 0, 0)
	s.Settle()

	if got := s.HitTest(30, 30); got != r {
		t.Errorf("HitTest(30, 30) at 2x = %v, want r", got)
	}
	if got := s.HitTest(15, 15); got != nil {
		t.Errorf("HitTest(15, 15) at 2x = %v, want nil", got.Name)
	}
}

func TestHitTestPath(t *testing.T) {
	s := NewScene()
	p := NewPath("link", NewLinkPath(Interval{0, 10}, Interval{30, 40}, 0.8))
	p.Interactable = true
	p.Y = 100
	s.Layer().AddChild(p)

	if got := s.HitTest(20, 88); got != p {
		t.Errorf("HitTest in band = %v, want link", got)
	}
	if got := s.HitTest(20, 96); got != nil {
		t.Errorf("HitTest under inner arc = %v, want nil", got.Name)
	}
}

func TestClickHandlerOrder(t *testing.T) {
	s := NewScene()
	g := NewContainer("group")
	r := interactableRect("r", 0, 0, 10, 10)
	g.AddChild(r)
	s.Layer().AddChild(g)

	var order []string
	r.OnClick = func(ClickContext) { order = append(order, "node") }
	g.OnClick = func(ctx ClickContext) {
		if ctx.Node != r || ctx.Target != g {
			t.Errorf("ctx = node %v target %v", ctx.Node.Name, ctx.Target.Name)
		}
		order = append(order, "parent")
	}
	h := s.OnClick(func(ClickContext) { order = append(order, "scene") })

	if got := s.Click(5, 5); got != r {
		t.Fatalf("Click = %v, want r", got)
	}
	want := []string{"node", "parent", "scene"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	h.Remove()
	order = nil
	s.Click(5, 5)
	if len(order) != 2 {
		t.Errorf("after Remove: order = %v, want node and parent only", order)
	}
}

func TestClickMissReturnsNil(t *testing.T) {
	s := NewScene()
	called := false
	s.OnClick(func(ClickContext) { called = true })
	if s.Click(1, 1) != nil || called {
		t.Error("click on empty scene hit something")
	}
}
