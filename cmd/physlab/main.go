package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/audio"
	"github.com/san-kum/physlab/internal/automation"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/gui"
	"github.com/san-kum/physlab/internal/optim"
	"github.com/san-kum/physlab/internal/sim"
	"github.com/san-kum/physlab/internal/viz"
)

var (
	configFile string
	logLevel   string
	logFile    string
	preset     string
	dt         float64
	mode       string
	params     []string
	runFrames  int
	snapFrames int
	maxFrames  int
	traceFile  string
	outFile    string
	configOut  string
	width      float64
	height     float64
	background string
	plotFile   string
	dumpFile   string
	vary       []string
	metric     string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "physlab",
		Short:         "interactive physics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&dt, "dt", 0, "physics step in seconds")
	pf.StringVar(&mode, "mode", "", "explore or challenge")
	pf.StringArrayVar(&params, "param", nil, "override a parameter, name=value (repeatable)")

	guiCmd := &cobra.Command{
		Use:   "gui [simulation]",
		Short: "run a simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live [simulation]",
		Short: "run a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&dumpFile, "dump", "", "write the last terminal frame to this SVG on exit")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a simulation and preset in the terminal",
		RunE:  runMenu,
	}

	runCmd := &cobra.Command{
		Use:   "run [simulation]",
		Short: "run a simulation headless and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 3000, "maximum number of frames")
	runCmd.Flags().StringVar(&plotFile, "plot", "", "write the measure (or first state component) over time to this SVG")
	runCmd.Flags().StringVar(&traceFile, "trace", "", "write the trace to a CSV file, or JSON for a .json path")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [simulation]",
		Short: "render one frame to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 30, "frames to simulate before the snapshot")
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().Float64Var(&width, "width", 800, "logical width")
	snapshotCmd.Flags().Float64Var(&height, "height", 500, "logical height")
	snapshotCmd.Flags().StringVar(&background, "background", "", "background colour, #rrggbb or #rrggbbaa")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	searchCmd := &cobra.Command{
		Use:   "search [simulation]",
		Short: "grid search parameters for the lowest metric, target_error by default",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArrayVar(&vary, "vary", nil, "parameter range, name=min:max:steps (repeatable)")
	searchCmd.Flags().StringVar(&metric, "metric", "target_error", "metric to minimise")
	searchCmd.Flags().IntVar(&maxFrames, "frames", 3000, "maximum frames per run")
	searchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs, 0 for one per CPU")
	searchCmd.MarkFlagRequired("vary")

	sweepCmd := &cobra.Command{
		Use:   "sweep [simulation]",
		Short: "run a simulation across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param-name", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of runs")
	sweepCmd.Flags().IntVar(&maxFrames, "frames", 3000, "maximum frames per run")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs, 0 for one per CPU")
	sweepCmd.MarkFlagRequired("param-name")

	configCmd := &cobra.Command{
		Use:   "config [simulation]",
		Short: "write the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if err := config.Save(configOut, cfg); err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", configOut)
			return nil
		},
	}
	configCmd.Flags().StringVarP(&configOut, "output", "o", "physlab.yaml", "output file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list simulations and their parameters",
		RunE:  listSimulations,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [simulation]",
		Short: "list available presets for a simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for simulation: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %-14s %s\n", p, config.GetPreset(args[0], p).Mode)
			}
			return nil
		},
	}

	rootCmd.AddCommand(guiCmd, liveCmd, tuiCmd, runCmd, snapshotCmd, scenarioCmd, searchCmd, sweepCmd, configCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger writes to the log file when given, otherwise to stderr. Full
// screen commands pass quiet so stray logs don't tear the display.
func newLogger(quiet bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, func() { f.Close() }
	case quiet:
		w = io.Discard
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "physlab",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	return logger, closer, nil
}

// loadConfig layers defaults, the config file, the simulation argument,
// the preset and finally changed flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	if len(args) > 0 && args[0] != cfg.Simulation {
		// file params belong to the file's simulation
		cfg.Simulation = args[0]
		cfg.Params = nil
	}
	if preset != "" {
		p := config.GetPreset(cfg.Simulation, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Simulation))
		}
		cfg.Mode = p.Mode
		cfg.Params = cfg.MergeParams(p.Params)
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	cfg.Params = cfg.MergeParams(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParams(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad --param %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad --param %q: %w", kv, err)
		}
		out[name] = v
	}
	return out, nil
}

// driverOptions wires config, logging and, when enabled, sound.
func driverOptions(cfg *config.Config, logger *log.Logger) ([]sim.Option, func()) {
	opts := append(sim.OptionsFromConfig(cfg), sim.WithLogger(logger))
	if !cfg.Audio.Enabled {
		return opts, func() {}
	}
	sm := audio.NewSoundManager(cfg.Audio.Volume, logger)
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return opts, func() {}
	}
	return append(opts, sim.WithAudio(sm)), sm.Close
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, closeAudio := driverOptions(cfg, logger)
	defer closeAudio()

	app, err := gui.NewApp(experiment.NewRegistry(), cfg, logger, opts...)
	if err != nil {
		return err
	}
	app.Run()
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, closeAudio := driverOptions(cfg, logger)
	defer closeAudio()

	m, err := viz.NewLive(experiment.NewRegistry(), cfg.Simulation, cfg.FrameInterval(), viz.GetTheme(cfg.Display.Theme), logger, opts...)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil || dumpFile == "" {
		return err
	}
	lm, ok := final.(viz.Live)
	if !ok {
		return nil
	}
	return os.WriteFile(dumpFile, []byte(export.CanvasToSVG(lm.Canvas(), 4)), 0o644)
}

func runMenu(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(viz.NewMenu(experiment.NewRegistry(), cfg, logger), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func experimentConfig(cfg *config.Config, frames int) experiment.Config {
	m, _ := dynamo.ParseMode(cfg.Mode)
	return experiment.Config{
		Simulation: cfg.Simulation,
		Mode:       m,
		Params:     cfg.Params,
		Dt:         cfg.Dt,
		Frames:     frames,
		Options:    sim.OptionsFromConfig(cfg),
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := experiment.New(experimentConfig(cfg, runFrames), nil, logger).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) completed in %v\n", res.Simulation, res.Params.Mode, time.Since(start))
	fmt.Printf("frames: %d  simulated: %.2fs  finished: %v\n", len(res.Times)-1, res.Times[len(res.Times)-1], res.Terminal)
	if len(res.Measures) > 1 {
		fmt.Println(asciigraph.Plot(res.Measures, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("measured")))
	}
	for _, ev := range res.Events {
		fmt.Printf("score: %s  (measured %.3f, target %.3f)\n", ev.Result, ev.Actual, ev.Target)
	}
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Printf("%-14s %.4g\n", name, res.Metrics[name])
	}
	if res.Params.Challenge() {
		c := res.Challenge
		fmt.Printf("attempts %d  correct %d  streak %d  best %d\n", c.Attempts, c.CorrectCount, c.Streak, c.BestStreak)
	}

	if plotFile != "" {
		if err := os.WriteFile(plotFile, []byte(plotSVG(res)), 0o644); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", plotFile)
	}
	if traceFile != "" {
		if err := writeTrace(traceFile, res, cfg.Dt); err != nil {
			return err
		}
		fmt.Printf("trace written to %s\n", traceFile)
	}
	return nil
}

func plotSVG(res *experiment.Result) string {
	pts := make([]gfx.Point, 0, len(res.Times))
	for i, t := range res.Times {
		var v float64
		if i < len(res.Measures) {
			v = res.Measures[i]
		} else {
			v = res.States[i].At(0)
		}
		pts = append(pts, gfx.Point{X: t, Y: v})
	}
	return export.TrajectoryToSVG(pts, 640, 360, "#38bdf8")
}

// writeTrace picks JSON for a .json path and CSV otherwise.
func writeTrace(path string, res *experiment.Result, dt float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if filepath.Ext(path) == ".json" {
		return export.WriteJSON(f, res, dt)
	}
	return export.WriteCSV(f, res)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := experiment.NewRegistry().Get(cfg.Simulation)
	if err != nil {
		return err
	}

	svg := export.NewSVG()
	q := sim.NewFrameQueue()
	opts := append(sim.OptionsFromConfig(cfg), sim.WithLogger(logger))
	if background != "" {
		opts = append(opts, sim.WithBackground(gfx.Hex(background)))
	}
	d := sim.NewDriver(s, opts...)
	d.Mount(svg, nil, q)
	defer d.Unmount()
	if !d.Resize(width, height, 1) {
		return fmt.Errorf("bad snapshot size %gx%g", width, height)
	}

	clock := time.Unix(0, 0)
	for i := 0; i < max(snapFrames, 1); i++ {
		clock = clock.Add(time.Duration(cfg.Dt * float64(time.Second)))
		if q.Flush(clock) == 0 {
			d.Render(clock)
		}
	}
	if err := os.WriteFile(outFile, []byte(svg.String()), 0o644); err != nil {
		return err
	}
	logger.Info("snapshot written", "file", outFile, "t", d.Time(), "elements", svg.Len())
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	results, err := automation.RunScenario(cmd.Context(), sc, nil, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSIMULATION\tFRAMES\tT\tFINISHED\tSCORE")
	for _, r := range results {
		score := "-"
		if len(r.Result.Events) > 0 {
			parts := make([]string, len(r.Result.Events))
			for i, ev := range r.Result.Events {
				parts[i] = ev.Result.String()
			}
			score = strings.Join(parts, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%v\t%s\n",
			r.Name, r.Result.Simulation, len(r.Result.Times)-1, r.Result.Times[len(r.Result.Times)-1], r.Result.Terminal, score)
	}
	return w.Flush()
}

func listSimulations(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range reg.List() {
		s, err := reg.Get(name)
		if err != nil {
			return err
		}
		_, challenge := s.(dynamo.Challenger)
		_, drag := s.(dynamo.Draggable)
		fmt.Fprintf(w, "%s\tchallenge=%v\tdrag=%v\n", name, challenge, drag)
		defaults := s.Defaults()
		for _, spec := range s.Specs() {
			fmt.Fprintf(w, "  %s\t%g %s\t[%g, %g]\n", spec.Name, defaults.Get(spec.Name), spec.Unit, spec.Min, spec.Max)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nthemes: %s\n", strings.Join(viz.ThemeNames(), ", "))
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseAxis(raw string) (optim.Axis, error) {
	name, spec, ok := strings.Cut(raw, "=")
	parts := strings.Split(spec, ":")
	if !ok || name == "" || len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("bad --vary %q, want name=min:max:steps", raw)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || n < 1 {
		return optim.Axis{}, fmt.Errorf("bad --vary %q, want name=min:max:steps", raw)
	}
	return optim.Axis{Name: name, Values: optim.Linspace(lo, hi, n)}, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	axes := make([]optim.Axis, 0, len(vary))
	points := 1
	for _, v := range vary {
		a, err := parseAxis(v)
		if err != nil {
			return err
		}
		axes = append(axes, a)
		points *= len(a.Values)
	}
	logger.Info("searching", "simulation", cfg.Simulation, "points", points, "metric", metric)

	// search runs are quiet; the summary is enough
	quiet := log.New(io.Discard)
	start := time.Now()
	gs := optim.NewGridSearch(experimentConfig(cfg, maxFrames), axes, nil, quiet)
	gs.Workers = workers
	best, err := gs.Search(cmd.Context(), metric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s = %.4g after %d runs in %v\n", metric, best.Value, best.Runs, time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(best.Params) {
		fmt.Fprintf(w, "  %s\t%g\n", name, best.Params[name])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	m, _ := dynamo.ParseMode(cfg.Mode)
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Simulation: cfg.Simulation,
		Mode:       m,
		Params:     cfg.Params,
		ParamName:  sweepParam,
		ParamMin:   sweepMin,
		ParamMax:   sweepMax,
		NumSteps:   sweepSteps,
		Frames:     maxFrames,
		Dt:         cfg.Dt,
		Workers:    workers,
	}, nil, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tT\tMEASURE\tSCORE\n", strings.ToUpper(sweepParam))
	measures := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%g\t%.2f\t%.4g\t%d\n", r.ParamValue, r.Time, r.Measure, r.Score)
		measures[i] = r.Measure
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(measures) > 1 {
		fmt.Println(asciigraph.Plot(measures, asciigraph.Height(8), asciigraph.Caption("measure vs "+sweepParam)))
	}
	return nil
}
