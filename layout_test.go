package trackview

import "testing"

func TestTrackStackerSequential(t *testing.T) {
	s := trackStacker{padding: 50}

	a := NewContainer("a")
	a.AddChild(NewRect("r", 100, 30, ColorBlack))
	assertNear(t, "a.Y", s.place(a), 50)

	// Content above the origin pushes the track down so its top sits on
	// the padding line.
	b := NewContainer("b")
	above := NewRect("r", 100, 40, ColorBlack)
	above.Y = -25
	b.AddChild(above)
	assertNear(t, "b.Y", s.place(b), 50+30+50+25)

	assertNear(t, "height", s.height(), 50+30+50+40+50)
}

func TestTrackStackerEmptyTrack(t *testing.T) {
	s := trackStacker{padding: 10}
	s.place(NewContainer("empty"))
	n := NewContainer("n")
	n.AddChild(NewRect("r", 1, 5, ColorBlack))
	assertNear(t, "after empty", s.place(n), 20)
}

func TestTrackStackerMeasuresEndState(t *testing.T) {
	a := NewAnimator()
	s := trackStacker{padding: 0}

	n := NewContainer("n")
	r := NewRect("r", 10, 10, ColorBlack)
	n.AddChild(r)
	to := StateOf(r)
	to.Height = 100
	a.Start(r, to, 0, 1, nil)

	s.place(n)
	assertNear(t, "bottom", s.bottom, 100)
}
