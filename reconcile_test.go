package trackview

import "testing"

func stringBinding(updates *[]string) Binding[string] {
	return Binding[string]{
		Class: "item",
		Key:   func(s string, _ int) string { return s },
		Create: func(s string, _ int) *Node {
			return NewContainer(s)
		},
		Update: func(n *Node, s string, i int) {
			n.UserData = i
			if updates != nil {
				*updates = append(*updates, s)
			}
		},
	}
}

func TestReconcileCreatesInOrder(t *testing.T) {
	p := NewContainer("p")
	d := Reconcile(p, []string{"a", "b", "c"}, stringBinding(nil))
	if d.Created != 3 || d.Updated != 0 || d.Removed != 0 {
		t.Errorf("diff = %v, want +3 ~0 -0", d)
	}
	for i, k := range []string{"a", "b", "c"} {
		if n := p.ChildAt(i); n.Key != k || n.Class != "item" {
			t.Errorf("child %d = %s/%s, want item/%s", i, n.Class, n.Key, k)
		}
	}
}

func TestReconcilePreservesIdentity(t *testing.T) {
	p := NewContainer("p")
	b := stringBinding(nil)
	first := Reconcile(p, []string{"a", "b", "c"}, b)
	a, bNode, c := first.Nodes[0], first.Nodes[1], first.Nodes[2]

	d := Reconcile(p, []string{"b", "c", "d"}, b)
	if d.Created != 1 || d.Updated != 2 || d.Removed != 1 {
		t.Errorf("diff = %v, want +1 ~2 -1", d)
	}
	if d.Nodes[0] != bNode || d.Nodes[1] != c {
		t.Error("kept keys were rebound to new nodes")
	}
	if d.Nodes[0].ID != bNode.ID {
		t.Error("ID changed")
	}
	if !a.IsDisposed() {
		t.Error("removed key's node not disposed")
	}
	if d.Nodes[0].UserData != 0 || d.Nodes[2].UserData != 2 {
		t.Error("Update did not see the new item index")
	}
}

func TestReconcileUnchangedIsAllUpdates(t *testing.T) {
	p := NewContainer("p")
	var updates []string
	b := stringBinding(&updates)
	Reconcile(p, []string{"x", "y"}, b)
	updates = nil
	d := Reconcile(p, []string{"x", "y"}, b)
	if d.Created != 0 || d.Removed != 0 || d.Updated != 2 {
		t.Errorf("diff = %v, want +0 ~2 -0", d)
	}
	if len(updates) != 2 || updates[0] != "x" || updates[1] != "y" {
		t.Errorf("updates = %v, want [x y]", updates)
	}
}

func TestReconcileIgnoresOtherClasses(t *testing.T) {
	p := NewContainer("p")
	other := NewContainer("other")
	other.Class = "chrome"
	p.AddChild(other)

	Reconcile(p, []string{"a"}, stringBinding(nil))
	Reconcile(p, []string{}, stringBinding(nil))
	if other.IsDisposed() || other.Parent != p {
		t.Error("reconcile touched a child of another class")
	}
}

func TestReconcileDuplicateKeys(t *testing.T) {
	p := NewContainer("p")
	d := Reconcile(p, []string{"x", "x", "y"}, stringBinding(nil))
	if d.Created != 3 {
		t.Fatalf("created = %d, want 3", d.Created)
	}
	if d.Nodes[1].Key != "x#2" {
		t.Errorf("duplicate key = %q, want x#2", d.Nodes[1].Key)
	}
	again := Reconcile(p, []string{"x", "x", "y"}, stringBinding(nil))
	if again.Created != 0 || again.Nodes[1] != d.Nodes[1] {
		t.Error("duplicate key did not keep its node")
	}
}

func TestReconcileCustomRemove(t *testing.T) {
	p := NewContainer("p")
	var removed []string
	b := stringBinding(nil)
	b.Remove = func(n *Node) {
		removed = append(removed, n.Key)
		n.RemoveFromParent()
	}
	Reconcile(p, []string{"a", "b"}, b)
	Reconcile(p, []string{"b"}, b)
	if len(removed) != 1 || removed[0] != "a" {
		t.Errorf("removed = %v, want [a]", removed)
	}
}

func TestDiffString(t *testing.T) {
	d := Diff{Created: 2, Updated: 5, Removed: 1}
	if got := d.String(); got != "+2 ~5 -1" {
		t.Errorf("String() = %q", got)
	}
}
