package pipeline

import "testing"

func stageNames(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

func TestEmbeddedPlansMatchPipelineStages(t *testing.T) {
	wantDocument := []string{"validate", "extract", "analyze", "match", "narrate", "synthesize", "assemble"}
	wantConcepts := []string{"validate", "extract", "extract_graph", "synthesize", "assemble"}

	for _, tc := range []struct {
		mode   string
		stages []Stage
		want   []string
	}{
		{"document", plans.Document, wantDocument},
		{"concepts", plans.Concepts, wantConcepts},
	} {
		got := stageNames(tc.stages)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: stages = %v, want %v", tc.mode, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: stages = %v, want %v", tc.mode, got, tc.want)
			}
		}
		if tc.stages[0].StartPct != 0 || tc.stages[len(tc.stages)-1].EndPct != 100 {
			t.Fatalf("%s: plan does not span 0..100", tc.mode)
		}
	}
}

func TestValidatePlanRejectsBadShapes(t *testing.T) {
	full := func(name string, start, end int) Stage {
		return Stage{Name: name, StartPct: start, EndPct: end, StartMsg: "s", DoneMsg: "d"}
	}
	cases := map[string][]Stage{
		"empty":          {},
		"missing start":  {full("a", 10, 100)},
		"missing end":    {full("a", 0, 90)},
		"gap":            {full("a", 0, 40), full("b", 50, 100)},
		"overlap":        {full("a", 0, 60), full("b", 50, 100)},
		"empty band":     {full("a", 0, 0), full("b", 0, 100)},
		"duplicate name": {full("a", 0, 50), full("a", 50, 100)},
		"no messages":    {{Name: "a", StartPct: 0, EndPct: 100}},
	}
	for name, stages := range cases {
		if err := validatePlan(stages); err == nil {
			t.Errorf("%s: validatePlan accepted a bad plan", name)
		}
	}
}

func TestValidatePlanAcceptsContiguousPlan(t *testing.T) {
	stages := []Stage{
		{Name: "a", StartPct: 0, EndPct: 30, StartMsg: "s", DoneMsg: "d"},
		{Name: "b", StartPct: 30, EndPct: 100, StartMsg: "s", DoneMsg: "d"},
	}
	if err := validatePlan(stages); err != nil {
		t.Fatalf("validatePlan: %v", err)
	}
}
