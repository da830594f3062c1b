package gui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/sim"
)

var (
	ColText    = rl.NewColor(203, 213, 225, 255)
	ColTextDim = rl.NewColor(100, 116, 139, 255)
	ColSelect  = rl.NewColor(251, 191, 36, 255)
	ColHUD     = rl.NewColor(15, 23, 42, 200)
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

// App hosts one driver in a raylib window.
type App struct {
	reg    *experiment.Registry
	cfg    *config.Config
	opts   []sim.Option
	logger *log.Logger

	names  []string
	idx    int
	driver *sim.Driver
	queue  *sim.FrameQueue
	bus    *interact.Bus
	target *Target
	font   rl.Font

	paramSel int
	paused   bool
	pointer  bool
	lastW    int32
	lastH    int32
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "physlab")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
	// fans from FillPolygon come in either winding
	rl.DisableBackfaceCulling()
}

func loadFont() rl.Font {
	if !rl.FileExists(fontPath) {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp opens the window and mounts the configured simulation.
func NewApp(reg *experiment.Registry, cfg *config.Config, logger *log.Logger, opts ...sim.Option) (*App, error) {
	if reg == nil {
		reg = experiment.NewRegistry()
	}
	initWindow(cfg.FPS)
	a := &App{
		reg:    reg,
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		names:  reg.List(),
		queue:  sim.NewFrameQueue(),
		bus:    interact.NewBus(),
		font:   loadFont(),
	}
	a.target = NewTarget(a.font)
	for i, n := range a.names {
		if n == cfg.Simulation {
			a.idx = i
		}
	}
	if err := a.load(cfg.Simulation); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) load(name string) error {
	s, err := a.reg.Get(name)
	if err != nil {
		return err
	}
	opts := append([]sim.Option{}, a.opts...)
	if a.driver != nil {
		opts = append(opts, sim.WithMode(a.driver.Params().Mode))
		a.driver.Unmount()
	}
	opts = append(opts, sim.WithLogger(a.logger))
	a.driver = sim.NewDriver(s, opts...)
	a.driver.Mount(a.target, a.bus, a.queue)
	a.paramSel, a.paused = 0, false
	a.lastW, a.lastH = 0, 0
	a.logger.Info("loaded simulation", "name", name)
	return nil
}

// Run blocks until the window closes.
func (a *App) Run() {
	defer a.Close()
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Close() {
	if a.driver != nil {
		a.driver.Unmount()
	}
	if a.target != nil {
		a.target.Unload()
	}
	rl.CloseWindow()
}

func (a *App) Update() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w != a.lastW || h != a.lastH {
		dpi := rl.GetWindowScaleDPI()
		a.driver.Resize(float64(w), float64(h), float64(dpi.X))
		a.lastW, a.lastH = w, h
	}

	a.pointerEvents()
	a.keys()
}

func (a *App) pointerEvents() {
	p := rl.GetMousePosition()
	x, y := float64(p.X), float64(p.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		a.pointer = true
		a.bus.Publish(interact.Event{Kind: interact.PointerDown, X: x, Y: y})
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.pointer = false
		a.bus.Publish(interact.Event{Kind: interact.PointerUp, X: x, Y: y})
	case a.pointer && !rl.IsCursorOnScreen():
		a.pointer = false
		a.bus.Publish(interact.Event{Kind: interact.PointerLeave, X: x, Y: y})
	default:
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			a.bus.Publish(interact.Event{Kind: interact.PointerMove, X: x, Y: y})
		}
	}
}

func (a *App) keys() {
	d := a.driver
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
		if a.paused {
			d.Stop()
		} else {
			d.Start()
		}
	case rl.IsKeyPressed(rl.KeyR):
		a.paused = false
		d.Reset()
	case rl.IsKeyPressed(rl.KeyC):
		if d.Params().Challenge() {
			d.SetMode(dynamo.ModeExplore)
		} else {
			d.SetMode(dynamo.ModeChallenge)
		}
	case rl.IsKeyPressed(rl.KeyTab):
		if n := len(d.Simulation().Specs()); n > 0 {
			a.paramSel = (a.paramSel + 1) % n
		}
	case rl.IsKeyPressed(rl.KeyUp):
		a.nudge(1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.nudge(-1)
	}

	for i := range a.names {
		if i < 9 && rl.IsKeyPressed(rl.KeyOne+int32(i)) && i != a.idx {
			a.idx = i
			if err := a.load(a.names[i]); err != nil {
				a.logger.Error("switch simulation", "err", err)
			}
			return
		}
	}
}

func (a *App) nudge(dir float64) {
	specs := a.driver.Simulation().Specs()
	if len(specs) == 0 {
		return
	}
	spec := specs[a.paramSel%len(specs)]
	step := spec.Step
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if err := a.driver.SetParam(spec.Name, spec.Clamp(a.driver.Params().Get(spec.Name)+dir*step)); err != nil {
		a.logger.Warn("param rejected", "err", err)
	}
}

func (a *App) Draw() {
	now := time.Now()
	if a.target.Begin() {
		if a.queue.Flush(now) == 0 {
			a.driver.Render(now)
		}
		a.target.End()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.target.Present(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	d := a.driver
	p := d.Params()
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	x := float32(w - 260)

	rl.DrawRectangleRounded(rl.NewRectangle(x-12, 12, 252, float32(44+22*len(d.Simulation().Specs()))), 0.08, 6, ColHUD)
	a.drawText(fmt.Sprintf("%s  ::  %s", d.Simulation().Name(), p.Mode), x, 22, 16, ColText)
	for i, spec := range d.Simulation().Specs() {
		col := ColTextDim
		if i == a.paramSel {
			col = ColSelect
		}
		a.drawText(fmt.Sprintf("%-10s %8.2f %s", spec.Label, p.Get(spec.Name), spec.Unit), x, float32(50+22*i), 14, col)
	}

	status := "RUNNING"
	switch {
	case a.paused:
		status = "PAUSED"
	case d.Terminal():
		status = "FINISHED"
	}
	a.drawText(fmt.Sprintf("%s  t=%.2fs  %d FPS", status, d.Time(), rl.GetFPS()), 20, float32(h-28), 14, ColTextDim)
	a.drawText("[SPACE] PAUSE  [R] RESET  [C] CHALLENGE  [TAB/UP/DOWN] TUNE  [1-9] SIM  [Q] QUIT", float32(w)-660, float32(h-28), 14, ColTextDim)
}

func (a *App) drawText(text string, x, y float32, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(x, y), float32(size), 1, color)
}
