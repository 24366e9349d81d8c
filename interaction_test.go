package trackview

import "testing"

func assertStrings(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

func TestSortOrderFor(t *testing.T) {
	got := SortOrderFor(Scores{{"A", 5}, {"B", 1}, {"C", 3}})
	assertStrings(t, "order", got, []string{"B", "C", "A"})
}

func TestSortOrderForTiesKeepNaturalOrder(t *testing.T) {
	got := SortOrderFor(Scores{{"A", 5}, {"B", 1}, {"C", 1}})
	assertStrings(t, "order", got, []string{"B", "C", "A"})

	got = SortOrderFor(Scores{{"C", 1}, {"B", 1}, {"A", 5}})
	assertStrings(t, "order", got, []string{"C", "B", "A"})
}

func TestOrderScores(t *testing.T) {
	s := Scores{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}}
	assertStrings(t, "natural", orderScores(s, nil).Names(), []string{"a", "b", "c", "d"})
	// Names missing from the order follow in natural order; unknown names
	// are skipped.
	assertStrings(t, "partial", orderScores(s, []string{"c", "zz", "a"}).Names(), []string{"c", "a", "b", "d"})
}

func TestBringToFrontSelects(t *testing.T) {
	p := NewContainer("p")
	a, b := NewContainer("a"), NewContainer("b")
	p.AddChild(a)
	p.AddChild(b)
	b.Selected = true

	if err := (BringToFront{Node: a}).apply(nil); err != nil {
		t.Fatal(err)
	}
	if p.ChildAt(1) != a {
		t.Error("node not moved to front")
	}
	if !a.Selected || b.Selected {
		t.Errorf("selected = a:%v b:%v, want a only", a.Selected, b.Selected)
	}
}

func TestBringToFrontDisposed(t *testing.T) {
	n := NewContainer("n")
	n.Dispose()
	if err := (BringToFront{Node: n}).apply(nil); err == nil {
		t.Error("expected error for a disposed node")
	}
}
