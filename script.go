package trackview

import (
	"fmt"

	"github.com/goccy/go-json"
)

// scriptStep is a single action in an interaction script.
type scriptStep struct {
	Action string   `json:"action"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Factor float64  `json:"factor,omitempty"`
	Frames int      `json:"frames,omitempty"`
	Column string   `json:"column,omitempty"`
	Keys   []string `json:"keys,omitempty"`
}

// script is the top-level JSON structure of an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays clicks, zoom and pan gestures and waits against a
// chart, one step per frame, so interaction can be exercised headlessly.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script:
//
//	{"steps": [{"action": "click", "x": 120, "y": 80}, {"action": "wait", "frames": 30}]}
//
// Actions: click, hover, zoom (factor, x, y), pan (dx, dy), reset, sort (column,
// keys), wait (frames), settle, refresh.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "click", "hover", "zoom", "pan", "reset", "sort", "wait", "settle", "refresh":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step runs at most one step against c. Call it once per frame.
func (r *ScriptRunner) Step(c *Chart) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "click":
		c.Click(st.X, st.Y)
	case "hover":
		c.Hover(st.X, st.Y)
	case "zoom":
		err = c.Dispatch(ZoomBy{Factor: st.Factor, X: st.X, Y: st.Y})
	case "pan":
		err = c.Dispatch(Pan{DX: st.DX, DY: st.DY})
	case "reset":
		err = c.Dispatch(ResetZoom{})
	case "sort":
		err = c.Dispatch(SetSortOrder{Column: st.Column, Keys: st.Keys})
	case "settle":
		c.Settle()
	case "refresh":
		err = c.Refresh()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return err
}

// Run steps the script to completion, advancing the chart by dt seconds after
// every frame.
func (r *ScriptRunner) Run(c *Chart, dt float32) error {
	for !r.done {
		if err := r.Step(c); err != nil {
			return err
		}
		c.Update(dt)
	}
	return nil
}
