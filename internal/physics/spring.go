package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/particles"
)

// State layout for Spring.
const (
	SpPos = iota
	SpVel
	SpPeak
	spDim
)

const (
	spMassSize    = 36.0
	spMotePeriod  = 0.12
	spEnergyFloor = 1e-3
	spCoils       = 12
)

// Spring is a mass on a damped horizontal spring. Dragging the mass sets
// the release displacement; the challenge is to hit a target peak speed.
type Spring struct {
	integ *integrators.Kinematic
}

func NewSpring() *Spring {
	return &Spring{integ: integrators.NewKinematic()}
}

func (s *Spring) Name() string { return "spring" }

func (s *Spring) Defaults() dynamo.Params {
	return dynamo.NewParams(map[string]float64{
		"stiffness":   20,
		"mass":        1,
		"damping":     0.3,
		"release":     0.5,
		"targetSpeed": 2,
	})
}

func (s *Spring) Specs() []dynamo.ParamSpec {
	return []dynamo.ParamSpec{
		{Name: "release", Label: "Release", Unit: "m", Min: -1, Max: 1, Step: 0.05},
		{Name: "stiffness", Label: "k", Unit: "N/m", Min: 1, Max: 200, Step: 1},
		{Name: "mass", Label: "Mass", Unit: "kg", Min: 0.1, Max: 10, Step: 0.1},
		{Name: "damping", Label: "b", Unit: "N·s/m", Min: 0, Max: 5, Step: 0.1},
		{Name: "targetSpeed", Label: "Target v", Unit: "m/s", Min: 0.1, Max: 20, Step: 0.1},
	}
}

func (s *Spring) Init(p dynamo.Params) dynamo.State {
	x := make(dynamo.State, spDim)
	x[SpPos] = p.Get("release")
	return x
}

func (s *Spring) Dof() int { return 1 }

func (s *Spring) Derive(x dynamo.State, p dynamo.Params) dynamo.State {
	m := math.Max(p.Get("mass"), 1e-6)
	a := (-p.Get("stiffness")*x[SpPos] - p.Get("damping")*x[SpVel]) / m
	return dynamo.State{x[SpVel], a, 0}
}

func (s *Spring) Update(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	next := s.integ.Step(s, x, p, dt)
	next[SpPeak] = math.Max(x[SpPeak], math.Abs(next[SpVel]))
	return next
}

// Energy returns potential and kinetic energy.
func (s *Spring) Energy(x dynamo.State, p dynamo.Params) (pe, ke float64) {
	pe = 0.5 * p.Get("stiffness") * x[SpPos] * x[SpPos]
	ke = 0.5 * p.Get("mass") * x[SpVel] * x[SpVel]
	return pe, ke
}

func (s *Spring) TotalEnergy(x dynamo.State, p dynamo.Params) float64 {
	pe, ke := s.Energy(x, p)
	return pe + ke
}

func (s *Spring) Terminal(x dynamo.State, p dynamo.Params) bool {
	pe, ke := s.Energy(x, p)
	return pe+ke < spEnergyFloor
}

// Measure is the highest speed reached so far.
func (s *Spring) Measure(x dynamo.State, p dynamo.Params) float64 {
	return x.At(SpPeak)
}

func (s *Spring) Target(x dynamo.State, p dynamo.Params) float64 {
	return p.Get("targetSpeed")
}

func (s *Spring) ScoresAtEnd() bool { return true }

func (s *Spring) view(f dynamo.Frame) view {
	return view{ox: f.Width / 2, oy: f.Height * 0.6, scale: math.Min(f.Width*0.35, 260)}
}

func (s *Spring) massRect(f dynamo.Frame) interact.Rect {
	v := s.view(f)
	mx, my := v.toScreen(f.State.At(SpPos), 0)
	return interact.Rect{X: mx - spMassSize/2, Y: my - spMassSize, W: spMassSize, H: spMassSize}
}

func (s *Spring) Grab(f dynamo.Frame, x, y float64) (string, bool) {
	var hs interact.Handles
	hs.Set("mass", s.massRect(f))
	return hs.Hit(x, y)
}

// Drag on the mass sets the release point and holds it there.
func (s *Spring) Drag(f dynamo.Frame, handle string, x, y float64) (dynamo.Params, bool) {
	if handle != "mass" {
		return f.Params, false
	}
	wx, _ := s.view(f).toWorld(x, y)
	return f.Params.With("release", clamp(math.Round(wx*100)/100, -1, 1)), true
}

func (s *Spring) ScoreAnchor(f dynamo.Frame) gfx.Point {
	r := s.massRect(f)
	return gfx.Pt(r.X+r.W/2, r.Y-20)
}

type spMeters struct {
	x, w, h, peY, keY, max float64
}

func (s *Spring) meters(f dynamo.Frame) spMeters {
	k := f.Params.Get("stiffness")
	r := math.Max(math.Abs(f.Params.Get("release")), 0.05)
	return spMeters{x: margin, w: math.Min(200, f.Width*0.35), h: 10, peY: 34, keY: 64, max: 0.5 * k * r * r}
}

// Emit sends motes between the PE and KE meters in the direction energy
// is flowing.
func (s *Spring) Emit(ps *particles.System, prev dynamo.State, f dynamo.Frame, dt float64) {
	if !crossed(f.Time, dt, spMotePeriod) {
		return
	}
	m := s.meters(f)
	pe, ke := s.Energy(f.State, f.Params)
	ppe, _ := s.Energy(prev, f.Params)
	if math.Abs(pe-ppe) < 1e-6 {
		return
	}
	pePt := gfx.Pt(m.x+draw.MeterFill(pe, m.max, m.w, 0), m.peY+m.h/2)
	kePt := gfx.Pt(m.x+draw.MeterFill(ke, m.max, m.w, 0), m.keY+m.h/2)
	from, to := pePt, kePt
	if pe > ppe {
		from, to = kePt, pePt
	}
	ps.Emit(particles.KindTransfer, from, 1, particles.EmitParams{Target: to, Color: colEnergy})
}

func (s *Spring) Draw(ctx gfx.Context, f dynamo.Frame) {
	v := s.view(f)
	x := f.State
	pe, ke := s.Energy(x, f.Params)
	r := s.massRect(f)

	wallX, floorY := v.toScreen(-1.3, 0)
	ctx.SetStrokeColor(colTrack)
	ctx.SetLineWidth(2)
	ctx.BeginPath()
	ctx.MoveTo(wallX, floorY-spMassSize*2)
	ctx.LineTo(wallX, floorY)
	ctx.LineTo(f.Width-margin, floorY)
	ctx.Stroke()

	eqX, _ := v.toScreen(0, 0)
	ctx.SetStrokeColor(colMuted)
	ctx.SetLineWidth(1)
	ctx.BeginPath()
	ctx.MoveTo(eqX, floorY)
	ctx.LineTo(eqX, floorY+8)
	ctx.Stroke()

	// coil
	cy := r.Y + r.H/2
	end := r.X
	ctx.SetStrokeColor(colForce)
	ctx.SetLineWidth(1.5)
	ctx.BeginPath()
	ctx.MoveTo(wallX, cy)
	step := (end - wallX) / spCoils
	for i := 1; i < spCoils; i++ {
		off := 8.0
		if i%2 == 0 {
			off = -8
		}
		ctx.LineTo(wallX+step*float64(i), cy+off)
	}
	ctx.LineTo(end, cy)
	ctx.Stroke()

	ctx.SetFillColor(colBlock)
	ctx.BeginPath()
	ctx.RoundRect(r.X, r.Y, r.W, r.H, 4)
	ctx.Fill()
	if f.Handle == "mass" {
		ctx.SetStrokeColor(colHandle)
		ctx.SetLineWidth(2)
		ctx.StrokeRect(r.X-2, r.Y-2, r.W+4, r.H+4)
	}

	draw.Arrow(ctx, r.X+r.W/2, r.Y-10, x.At(SpVel)*30, 0, draw.ArrowOptions{Color: colVel, Label: "v"})

	m := s.meters(f)
	draw.Meter(ctx, m.x, m.peY, m.w, m.h, pe, m.max, draw.MeterOptions{Fill: colForce, MinSliver: f.MeterSliver, Label: fmt.Sprintf("PE  %.2f J", pe)})
	draw.Meter(ctx, m.x, m.keY, m.w, m.h, ke, m.max, draw.MeterOptions{Fill: colVel, MinSliver: f.MeterSliver, Label: fmt.Sprintf("KE  %.2f J", ke)})

	rows := []draw.Row{
		{Label: "x", Value: fmt.Sprintf("%.2f m", x.At(SpPos))},
		{Label: "v", Value: fmt.Sprintf("%.2f m/s", x.At(SpVel))},
		{Label: "peak", Value: fmt.Sprintf("%.2f m/s", x.At(SpPeak)), Color: colVel},
	}
	if f.Params.Challenge() {
		rows = append(rows, draw.Row{Label: "Target", Value: fmt.Sprintf("%.2f m/s", f.Params.Get("targetSpeed")), Color: colTarget})
	}
	draw.InfoPanel(ctx, f.Width-150-margin/2, 20, 150, rows, draw.PanelOptions{Title: "Spring"})
}
