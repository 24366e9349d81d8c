package trackview

import "testing"

func TestLoadScriptErrors(t *testing.T) {
	for _, in := range []string{
		`{"steps": []}`,
		`{"steps": [{"action": "jump"}]}`,
		`{"steps":`,
	} {
		if _, err := LoadScript([]byte(in)); err == nil {
			t.Errorf("LoadScript(%s) succeeded", in)
		}
	}
}

func TestScriptRun(t *testing.T) {
	c := newHeatmapChart(t)
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "sort", "column": "300-360", "keys": ["heart", "liver"]},
		{"action": "wait", "frames": 3},
		{"action": "zoom", "factor": 2, "x": 100, "y": 50},
		{"action": "settle"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Run(c, 1.0/60); err != nil {
		t.Fatal(err)
	}
	if !r.Done() {
		t.Error("runner not done")
	}
	column, keys := c.SortOrder()
	if column != "300-360" {
		t.Errorf("sort column = %q", column)
	}
	assertStrings(t, "keys", keys, []string{"heart", "liver"})
	if z := c.Scene().Zoom(); z.Scale != 2 {
		t.Errorf("zoom scale = %v, want 2", z.Scale)
	}
	col := trackNodes(c)[0].FindChild(ClassHeatColumn, "230-280")
	assertNear(t, "heart", boxY(t, col, "heart"), 15)
	assertNear(t, "brain", boxY(t, col, "brain"), 57)
}

func TestScriptWaitCountsFrames(t *testing.T) {
	c := newHeatmapChart(t)
	r, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}, {"action": "reset"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	for !r.Done() {
		if err := r.Step(c); err != nil {
			t.Fatal(err)
		}
		frames++
	}
	// Three frames of waiting, one for reset.
	if frames != 4 {
		t.Errorf("frames = %d, want 4", frames)
	}
}
