package resulttree

import "testing"

func TestRollup(t *testing.T) {
	tests := []struct {
		name   string
		states []State
		want   State
	}{
		{name: "no states", want: NotRun},
		{name: "aggregated is ignored", states: []State{Aggregated, Passed}, want: Passed},
		{name: "worst wins", states: []State{Passed, Error, Skipped, Failed}, want: Error},
		{name: "order does not matter", states: []State{Failed, Skipped}, want: Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rollup(tt.states...); got != tt.want {
				t.Errorf("Rollup() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestState_IsLeafState(t *testing.T) {
	for _, s := range []State{NotRun, Passed, Skipped, Failed, Error} {
		if !s.IsLeafState() {
			t.Errorf("%s should be a leaf state", s)
		}
	}
	if Aggregated.IsLeafState() {
		t.Errorf("aggregated should not be a leaf state")
	}
}
