package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/interact"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario.
type ScenarioStep struct {
	Simulation string             `yaml:"simulation"`
	Mode       string             `yaml:"mode"`
	Frames     int                `yaml:"frames"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	Pointer    []PointerAction    `yaml:"pointer"`
	// Repeat reruns the step on the same driver, so the challenge tally
	// carries across attempts.
	Repeat int    `yaml:"repeat"`
	SaveAs string `yaml:"save_as"`
}

// PointerAction is a scripted pointer event in logical canvas units.
type PointerAction struct {
	Frame int     `yaml:"frame"`
	Kind  string  `yaml:"kind"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

var pointerKinds = map[string]interact.EventKind{
	"down":   interact.PointerDown,
	"move":   interact.PointerMove,
	"up":     interact.PointerUp,
	"leave":  interact.PointerLeave,
	"cancel": interact.PointerCancel,
}

// StepResult pairs a step's label with its run.
type StepResult struct {
	Name   string
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

func (st ScenarioStep) config() (experiment.Config, error) {
	cfg := experiment.Config{
		Simulation: st.Simulation,
		Params:     st.Params,
		Dt:         st.Dt,
		Frames:     st.Frames,
	}
	if st.Mode != "" {
		mode, err := dynamo.ParseMode(st.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	for _, pa := range st.Pointer {
		kind, ok := pointerKinds[pa.Kind]
		if !ok {
			return cfg, fmt.Errorf("unknown pointer kind %q", pa.Kind)
		}
		cfg.Script = append(cfg.Script, experiment.ScriptedEvent{
			Frame: pa.Frame,
			Event: interact.Event{Kind: kind, X: pa.X, Y: pa.Y},
		})
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "simulation", step.Simulation)

		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%d-%s", i+1, step.Simulation)
		}

		exp := experiment.New(cfg, registry, logger)
		attempts := max(step.Repeat, 1)
		for a := 1; a <= attempts; a++ {
			if a > 1 {
				exp.Reset()
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
			label := name
			if attempts > 1 {
				label = fmt.Sprintf("%s#%d", name, a)
			}
			results = append(results, StepResult{Name: label, Result: res})
		}
	}

	return results, nil
}

// ParameterSweep runs a simulation across a range of one parameter.
type ParameterSweep struct {
	Simulation string
	Mode       dynamo.Mode
	Params     map[string]float64
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Frames     int
	Dt         float64
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	// Measure is the challenge quantity at the end of the run.
	Measure float64
	Time    float64
	Score   int
}

// RunSweep executes a parameter sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	cfgs := make([]experiment.Config, sweep.NumSteps)
	values := make([]float64, sweep.NumSteps)
	for i := range cfgs {
		values[i] = sweep.ParamMin + float64(i)*paramStep
		params := make(map[string]float64, len(sweep.Params)+1)
		for k, v := range sweep.Params {
			params[k] = v
		}
		params[sweep.ParamName] = values[i]
		cfgs[i] = experiment.Config{
			Simulation: sweep.Simulation,
			Mode:       sweep.Mode,
			Params:     params,
			Frames:     sweep.Frames,
			Dt:         sweep.Dt,
		}
	}

	runs, errs := experiment.RunBatch(ctx, cfgs, registry, logger, sweep.Workers)
	results := make([]SweepResult, 0, sweep.NumSteps)
	for i, res := range runs {
		if errs[i] != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.ParamName, values[i], errs[i])
		}
		r := SweepResult{ParamValue: values[i]}
		if n := len(res.States); n > 0 {
			r.FinalState = res.States[n-1]
			r.Time = res.Times[n-1]
		}
		if n := len(res.Measures); n > 0 {
			r.Measure = res.Measures[n-1]
		}
		for _, ev := range res.Events {
			r.Score += ev.Result.Points
		}
		results = append(results, r)
		logger.Debug("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, values[i])
	}

	return results, nil
}
