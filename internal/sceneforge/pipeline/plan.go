package pipeline

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stage is one progress band of a generation mode.
type Stage struct {
	Name     string `yaml:"name"`
	StartPct int    `yaml:"start_pct"`
	EndPct   int    `yaml:"end_pct"`
	StartMsg string `yaml:"start_msg"`
	DoneMsg  string `yaml:"done_msg"`
}

type stagePlan struct {
	Document []Stage `yaml:"document"`
	Concepts []Stage `yaml:"concepts"`
}

//go:embed plan.yaml
var planSrc []byte

var plans = mustLoadPlans()

func mustLoadPlans() stagePlan {
	var p stagePlan
	if err := yaml.Unmarshal(planSrc, &p); err != nil {
		panic(fmt.Sprintf("pipeline: bad stage plan: %v", err))
	}
	for mode, stages := range map[string][]Stage{"document": p.Document, "concepts": p.Concepts} {
		if err := validatePlan(stages); err != nil {
			panic(fmt.Sprintf("pipeline: bad %s stage plan: %v", mode, err))
		}
	}
	return p
}

// validatePlan requires contiguous bands from 0 to 100 with unique,
// messaged stages.
func validatePlan(stages []Stage) error {
	if len(stages) == 0 {
		return fmt.Errorf("no stages")
	}
	seen := map[string]bool{}
	for i, s := range stages {
		if s.Name == "" || s.StartMsg == "" || s.DoneMsg == "" {
			return fmt.Errorf("stage %d incomplete", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate stage %q", s.Name)
		}
		seen[s.Name] = true
		if s.StartPct >= s.EndPct {
			return fmt.Errorf("stage %q has empty range %d..%d", s.Name, s.StartPct, s.EndPct)
		}
		if i == 0 && s.StartPct != 0 {
			return fmt.Errorf("first stage starts at %d", s.StartPct)
		}
		if i > 0 && s.StartPct != stages[i-1].EndPct {
			return fmt.Errorf("stage %q leaves a gap after %q", s.Name, stages[i-1].Name)
		}
	}
	if last := stages[len(stages)-1]; last.EndPct != 100 {
		return fmt.Errorf("last stage ends at %d", last.EndPct)
	}
	return nil
}
