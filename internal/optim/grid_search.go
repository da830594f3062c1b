package optim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/physlab/internal/experiment"
)

// Axis is one parameter and the values to try for it.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

type Best struct {
	Params map[string]float64
	Value  float64
	// Runs counts experiments that finished and reported the metric.
	Runs int
}

// GridSearch runs base once per point of the axes' cartesian product and
// keeps the point with the lowest metric. Ties go to the earlier point.
type GridSearch struct {
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int

	base   experiment.Config
	axes   []Axis
	reg    *experiment.Registry
	logger *log.Logger
}

func NewGridSearch(base experiment.Config, axes []Axis, reg *experiment.Registry, logger *log.Logger) *GridSearch {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GridSearch{base: base, axes: axes, reg: reg, logger: logger}
}

// Points lists the grid in search order, last axis fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var points []map[string]float64
	g.collect(0, map[string]float64{}, &points)
	return points
}

func (g *GridSearch) collect(depth int, current map[string]float64, points *[]map[string]float64) {
	if depth == len(g.axes) {
		*points = append(*points, current)
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		g.collect(depth+1, next, points)
	}
}

// Search fails only when ctx ends or no point produced the metric. Points
// whose config is rejected are skipped.
func (g *GridSearch) Search(ctx context.Context, metric string) (Best, error) {
	points := g.Points()
	cfgs := make([]experiment.Config, len(points))
	for i, point := range points {
		cfgs[i] = g.config(point)
	}

	results, errs := experiment.RunBatch(ctx, cfgs, g.reg, g.logger, g.Workers)
	if err := ctx.Err(); err != nil {
		return Best{}, err
	}

	best := Best{Value: math.Inf(1)}
	for i, res := range results {
		if errs[i] != nil {
			g.logger.Debug("grid point rejected", "params", points[i], "err", errs[i])
			continue
		}
		val, ok := res.Metrics[metric]
		if !ok || math.IsNaN(val) {
			continue
		}
		best.Runs++
		if best.Params == nil || val < best.Value {
			best.Value = val
			best.Params = points[i]
		}
		g.logger.Debug("grid point", "params", points[i], metric, val)
	}

	if best.Params == nil {
		return Best{}, fmt.Errorf("optim: no run reported metric %q", metric)
	}
	return best, nil
}

func (g *GridSearch) config(point map[string]float64) experiment.Config {
	cfg := g.base
	cfg.Params = make(map[string]float64, len(g.base.Params)+len(point))
	for k, v := range g.base.Params {
		cfg.Params[k] = v
	}
	for k, v := range point {
		cfg.Params[k] = v
	}
	// metrics carry state, so every run gets fresh ones
	cfg.Metrics = nil
	return cfg
}
