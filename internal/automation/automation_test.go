package automation

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/physics"
)

const scenarioYAML = `
name: lab
description: two runs
steps:
  - simulation: projectile
    mode: challenge
    frames: 1000
    params:
      prediction: 40.8
    save_as: guess
  - simulation: spring
    frames: 20
`

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), sc, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "guess" || results[1].Name != "2-spring" {
		t.Errorf("unexpected names %q %q", results[0].Name, results[1].Name)
	}
	if len(results[0].Result.Events) != 1 || !results[0].Result.Events[0].Result.Correct() {
		t.Errorf("projectile guess should score once, got %+v", results[0].Result.Events)
	}
	if len(results[1].Result.Times) != 21 {
		t.Errorf("spring should run 20 frames, got %d", len(results[1].Result.Times)-1)
	}
}

func TestScenarioErrors(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("empty scenario should fail")
	}
	sc := &Scenario{Steps: []ScenarioStep{{Simulation: "spring", Pointer: []PointerAction{{Kind: "wiggle"}}}}}
	if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
		t.Error("unknown pointer kind should fail")
	}
	sc = &Scenario{Steps: []ScenarioStep{{Simulation: "spring", Mode: "race"}}}
	if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Simulation: "projectile",
		ParamName:  "angle",
		ParamMin:   15,
		ParamMax:   75,
		NumSteps:   3,
		Frames:     2000,
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[1].ParamValue != 45 {
		t.Fatalf("unexpected sweep %+v", results)
	}
	// complementary angles land at the same spot
	x15 := results[0].FinalState[physics.PrX]
	x75 := results[2].FinalState[physics.PrX]
	if math.Abs(x15-x75) > 0.05*x15 {
		t.Errorf("15° and 75° ranges differ: %.2f vs %.2f", x15, x75)
	}
	if results[1].FinalState[physics.PrX] <= x15 {
		t.Error("45° should go furthest")
	}
}

func TestScenarioRepeatKeepsTally(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: streak
steps:
  - simulation: projectile
    mode: challenge
    frames: 1000
    repeat: 3
    params:
      prediction: 40.8
`))
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), sc, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[2].Name != "1-projectile#3" {
		t.Fatalf("unexpected results %d, last %q", len(results), results[len(results)-1].Name)
	}
	c := results[2].Result.Challenge
	if c.Attempts != 3 || c.Streak != 3 || c.BestStreak != 3 {
		t.Errorf("expected a streak of three, got %+v", c)
	}
}
