package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/physics"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Linspace = %v, want %v", got, want)
		}
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("single point: %v", got)
	}
}

func TestSearchFindsProjectileRange(t *testing.T) {
	g := NewGridSearch(
		experiment.Config{Simulation: "projectile", Frames: 1000},
		[]Axis{{Name: "prediction", Values: Linspace(0, 80, 81)}},
		nil, nil,
	)
	best, err := g.Search(context.Background(), "target_error")
	if err != nil {
		t.Fatal(err)
	}
	if best.Runs != 81 {
		t.Errorf("expected 81 runs, got %d", best.Runs)
	}
	want := physics.Range(20, 45, 0, 9.81)
	if math.Abs(best.Params["prediction"]-want) > 1.5 {
		t.Errorf("best prediction %f, analytic range %f", best.Params["prediction"], want)
	}
}

func TestSearchTwoAxes(t *testing.T) {
	g := NewGridSearch(
		experiment.Config{Simulation: "projectile", Frames: 1000, Params: map[string]float64{"prediction": 40}},
		[]Axis{
			{Name: "speed", Values: []float64{10, 20}},
			{Name: "angle", Values: []float64{30, 45, 60}},
		},
		nil, nil,
	)
	best, err := g.Search(context.Background(), "target_error")
	if err != nil {
		t.Fatal(err)
	}
	if best.Runs != 6 {
		t.Errorf("expected 6 runs, got %d", best.Runs)
	}
	if best.Params["speed"] != 20 || best.Params["angle"] != 45 {
		t.Errorf("expected the 40.8 m shot closest to 40, got %v", best.Params)
	}
}

func TestSearchSkipsRejectedPoints(t *testing.T) {
	g := NewGridSearch(
		experiment.Config{Simulation: "spring", Frames: 50},
		[]Axis{{Name: "mass", Values: []float64{-1, 1}}},
		nil, nil,
	)
	best, err := g.Search(context.Background(), "peak")
	if err != nil {
		t.Fatal(err)
	}
	if best.Runs != 1 || best.Params["mass"] != 1 {
		t.Errorf("expected only mass=1 to run, got %+v", best)
	}

	if _, err := g.Search(context.Background(), "no_such_metric"); err == nil {
		t.Error("expected an error when no run reports the metric")
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch(
		experiment.Config{Simulation: "spring"},
		[]Axis{{Name: "release", Values: Linspace(0.1, 1, 4)}},
		nil, nil,
	)
	if _, err := g.Search(ctx, "peak"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPointsOrder(t *testing.T) {
	g := NewGridSearch(experiment.Config{}, []Axis{
		{Name: "a", Values: []float64{1, 2}},
		{Name: "b", Values: []float64{10, 20, 30}},
	}, nil, nil)
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["a"] != 1 || points[0]["b"] != 10 || points[1]["b"] != 20 || points[3]["a"] != 2 {
		t.Errorf("unexpected order %v", points)
	}
}
