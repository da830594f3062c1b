package experiment

import (
	"context"
	"errors"
	"testing"
)

func TestRunBatch(t *testing.T) {
	cfgs := []Config{
		{Simulation: "projectile", Params: map[string]float64{"angle": 30}},
		{Simulation: "nope"},
		{Simulation: "projectile", Params: map[string]float64{"angle": 60}},
		{Simulation: "spring", Frames: 10},
	}
	results, errs := RunBatch(context.Background(), cfgs, nil, nil, 2)

	if !errors.Is(errs[1], ErrUnknownSimulation) || results[1] != nil {
		t.Errorf("slot 1 should fail with unknown simulation, got %v", errs[1])
	}
	for _, i := range []int{0, 2, 3} {
		if errs[i] != nil {
			t.Fatalf("slot %d: %v", i, errs[i])
		}
		if results[i].Simulation != cfgs[i].Simulation {
			t.Errorf("slot %d holds %s", i, results[i].Simulation)
		}
	}
	if len(results[3].Times) != 11 {
		t.Errorf("spring slot should run 10 frames, got %d", len(results[3].Times)-1)
	}
	if results[0].Params.Get("angle") != 30 || results[2].Params.Get("angle") != 60 {
		t.Error("results out of order")
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, errs := RunBatch(ctx, []Config{{Simulation: "spring"}, {Simulation: "projectile"}}, nil, nil, 0)
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("slot %d: expected context.Canceled, got %v", i, err)
		}
	}
}
