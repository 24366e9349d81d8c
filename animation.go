package trackview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// NodeState is the animatable subset of a node's fields.
type NodeState struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Width, Height  float64
	Alpha          float64
	Color          Color
}

// StateOf returns the node's current animatable state.
func StateOf(n *Node) NodeState {
	return NodeState{
		X: n.X, Y: n.Y,
		ScaleX: n.ScaleX, ScaleY: n.ScaleY,
		Width: n.Width, Height: n.Height,
		Alpha: n.Alpha,
		Color: n.Color,
	}
}

// applyTo writes the state onto n.
func (s NodeState) applyTo(n *Node) {
	n.X, n.Y = s.X, s.Y
	n.ScaleX, n.ScaleY = s.ScaleX, s.ScaleY
	n.Width, n.Height = s.Width, s.Height
	n.Alpha = s.Alpha
	n.Color = s.Color
}

// pairs returns pointers to every animatable field of n paired with the
// corresponding value in s, in a fixed order.
func (s *NodeState) pairs(n *Node) ([11]*float64, [11]float64) {
	return [11]*float64{
			&n.X, &n.Y, &n.ScaleX, &n.ScaleY, &n.Width, &n.Height, &n.Alpha,
			&n.Color.R, &n.Color.G, &n.Color.B, &n.Color.A,
		}, [11]float64{
			s.X, s.Y, s.ScaleX, s.ScaleY, s.Width, s.Height, s.Alpha,
			s.Color.R, s.Color.G, s.Color.B, s.Color.A,
		}
}

// layoutState is the geometry used for measurement: the end state of a
// pending transition, or the current state when none is running.
func (n *Node) layoutState() NodeState {
	if n.transition != nil && !n.transition.Done {
		return n.transition.to
	}
	return StateOf(n)
}

// Transition animates the fields of a Node that differ from a target state.
// It waits for its delay, then tweens with gween and writes values each
// Update. If the target node is disposed, the transition stops immediately.
type Transition struct {
	target *Node
	to     NodeState
	delay  float32
	tweens []*gween.Tween
	fields []*float64
	ends   []float64
	Done   bool
}

// Update advances the transition by dt seconds. Time left over after the delay
// elapses is applied to the tweens in the same call.
func (t *Transition) Update(dt float32) {
	if t.Done {
		return
	}
	if t.target.IsDisposed() {
		t.finish(false)
		return
	}
	if t.delay > 0 {
		if dt < t.delay {
			t.delay -= dt
			return
		}
		dt -= t.delay
		t.delay = 0
	}

	allDone := true
	for i, tw := range t.tweens {
		val, finished := tw.Update(dt)
		if finished {
			*t.fields[i] = t.ends[i]
			continue
		}
		*t.fields[i] = float64(val)
		allDone = false
	}
	if allDone {
		t.finish(true)
	}
}

// finish marks the transition done, optionally snapping to the end state.
func (t *Transition) finish(apply bool) {
	if apply && !t.target.IsDisposed() {
		t.to.applyTo(t.target)
	}
	t.Done = true
	if t.target.transition == t {
		t.target.transition = nil
	}
}

// Animator owns every running transition of a scene. Transitions are keyed by
// target node: starting a new one on a node supersedes the one already running.
//
// There is no global animation clock. The host calls Update itself.
type Animator struct {
	active map[uint32]*Transition
	order  []*Transition
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{active: make(map[uint32]*Transition)}
}

// Start animates n toward the target state after delay seconds, over duration
// seconds, using the easing function. Any transition already running on n is
// superseded from its current (intermediate) values. A non-positive duration
// and delay applies the state immediately and returns nil.
func (a *Animator) Start(n *Node, to NodeState, delay, duration float32, fn ease.TweenFunc) *Transition {
	a.Cancel(n)
	if duration <= 0 && delay <= 0 {
		to.applyTo(n)
		return nil
	}
	if fn == nil {
		fn = ease.InOutQuad
	}
	if duration <= 0 {
		duration = 1e-6
	}

	t := &Transition{target: n, to: to, delay: delay}
	fields, ends := to.pairs(n)
	for i, f := range fields {
		if *f == ends[i] {
			continue
		}
		t.tweens = append(t.tweens, gween.New(float32(*f), float32(ends[i]), duration, fn))
		t.fields = append(t.fields, f)
		t.ends = append(t.ends, ends[i])
	}
	if len(t.tweens) == 0 {
		return nil
	}

	n.transition = t
	a.active[n.ID] = t
	a.order = append(a.order, t)
	return t
}

// Set applies the state immediately, cancelling any transition on n.
func (a *Animator) Set(n *Node, to NodeState) {
	a.Cancel(n)
	to.applyTo(n)
}

// Cancel stops the transition running on n, leaving its fields at their
// current values.
func (a *Animator) Cancel(n *Node) {
	t, ok := a.active[n.ID]
	if !ok {
		return
	}
	delete(a.active, n.ID)
	t.finish(false)
}

// Running returns the transition in flight on n, or nil.
func (a *Animator) Running(n *Node) *Transition {
	return a.active[n.ID]
}

// Len returns the number of transitions in flight.
func (a *Animator) Len() int {
	return len(a.active)
}

// Update advances every transition by dt seconds and drops finished ones.
func (a *Animator) Update(dt float32) {
	live := a.order[:0]
	for _, t := range a.order {
		t.Update(dt)
		if t.Done {
			if a.active[t.target.ID] == t {
				delete(a.active, t.target.ID)
			}
			continue
		}
		live = append(live, t)
	}
	for i := len(live); i < len(a.order); i++ {
		a.order[i] = nil
	}
	a.order = live
}

// Settle jumps every running transition to its end state.
func (a *Animator) Settle() {
	for _, t := range a.order {
		if !t.Done {
			t.finish(true)
		}
	}
	for i := range a.order {
		a.order[i] = nil
	}
	a.order = a.order[:0]
	clear(a.active)
}
