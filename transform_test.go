package trackview

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 ||
		math.Abs(got.Width-want.Width) > 1e-6 || math.Abs(got.Height-want.Height) > 1e-6 {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func TestLocalTransformIdentity(t *testing.T) {
	n := NewContainer("test")
	assertMatrix(t, "identity", localTransform(StateOf(n)), identityTransform)
}

func TestLocalTransformTranslateScale(t *testing.T) {
	n := NewContainer("test")
	n.X, n.Y = 10, 20
	n.ScaleX, n.ScaleY = 2, 3
	assertMatrix(t, "local", localTransform(StateOf(n)), [6]float64{2, 0, 0, 3, 10, 20})
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 7}
	assertMatrix(t, "product", multiplyAffine(a, b), [6]float64{1, 0, 0, 1, 15, 27})
}

func TestMultiplyAffineScaleThenTranslate(t *testing.T) {
	parent := [6]float64{2, 0, 0, 2, 100, 0}
	child := [6]float64{1, 0, 0, 1, 10, 10}
	// child origin lands at parent-scaled (20, 20) plus parent translation.
	x, y := transformPoint(multiplyAffine(parent, child), 0, 0)
	assertNear(t, "x", x, 120)
	assertNear(t, "y", y, 20)
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 4, 10, -6}
	assertMatrix(t, "m*inv", multiplyAffine(m, invertAffine(m)), identityTransform)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	assertMatrix(t, "singular", invertAffine([6]float64{0, 0, 0, 0, 5, 5}), identityTransform)
}

func TestTransformRectScaled(t *testing.T) {
	got := transformRect([6]float64{2, 0, 0, 3, 1, 1}, Rect{X: 1, Y: 1, Width: 2, Height: 2})
	assertRect(t, "rect", got, Rect{X: 3, Y: 4, Width: 4, Height: 6})
}

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewContainer("parent")
	parent.X, parent.Y = 100, 50
	parent.ScaleX, parent.ScaleY = 2, 2
	child := NewContainer("child")
	child.X, child.Y = 10, 5
	parent.AddChild(child)

	x, y := child.LocalToWorld(0, 0)
	assertNear(t, "x", x, 120)
	assertNear(t, "y", y, 60)
}

func TestWorldToLocalRoundtrip(t *testing.T) {
	root := NewContainer("root")
	root.ScaleX, root.ScaleY = 1.5, 1.5
	root.X = 40
	mid := NewContainer("mid")
	mid.Y = 75
	leaf := NewRect("leaf", 10, 10, ColorBlack)
	leaf.X = 12
	root.AddChild(mid)
	mid.AddChild(leaf)

	wx, wy := leaf.LocalToWorld(3, 4)
	lx, ly := leaf.WorldToLocal(wx, wy)
	assertNear(t, "lx", lx, 3)
	assertNear(t, "ly", ly, 4)
}

func TestWorldTransformFollowsTransition(t *testing.T) {
	a := NewAnimator()
	n := NewContainer("n")
	a.Start(n, NodeState{X: 100, ScaleX: 1, ScaleY: 1, Alpha: 1, Color: n.Color}, 0, 1, nil)
	a.Update(0.5)

	// World transform reflects the current, intermediate position.
	m := n.WorldTransform()
	if m[4] <= 0 || m[4] >= 100 {
		t.Errorf("tx = %v, want strictly between 0 and 100", m[4])
	}
	// Measurement uses the end state.
	b := NewRect("r", 1, 1, ColorBlack)
	n.AddChild(b)
	got, ok := n.Bounds()
	if !ok {
		t.Fatal("Bounds: ok = false")
	}
	assertNear(t, "bounds x", got.X, 100)
}
