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

// State layout for WorkEnergy.
const (
	WEPos = iota
	WEVel
	WEWork
	WEHeat
	weDim
)

const (
	weForcePx   = 3.0 // pixels per newton
	weBlockW    = 44.0
	weBlockH    = 30.0
	weMoteJoule = 4.0
	weRestSpeed = 1e-9
)

// WorkEnergy pushes a block along a rough horizontal track. The applied
// force does work; friction turns some of it into heat; the rest shows up
// as kinetic energy.
type WorkEnergy struct {
	integ *integrators.Kinematic
}

func NewWorkEnergy() *WorkEnergy {
	return &WorkEnergy{integ: integrators.NewKinematic()}
}

func (w *WorkEnergy) Name() string { return "work-energy" }

func (w *WorkEnergy) Defaults() dynamo.Params {
	return dynamo.NewParams(map[string]float64{
		"mass":     2,
		"force":    20,
		"angle":    0,
		"friction": 0.1,
		"targetKE": 50,
		"track":    20,
	})
}

func (w *WorkEnergy) Specs() []dynamo.ParamSpec {
	return []dynamo.ParamSpec{
		{Name: "force", Label: "Force", Unit: "N", Min: 0, Max: 100, Step: 1},
		{Name: "angle", Label: "Angle", Unit: "°", Min: -60, Max: 60, Step: 5},
		{Name: "mass", Label: "Mass", Unit: "kg", Min: 0.5, Max: 20, Step: 0.5},
		{Name: "friction", Label: "μk", Min: 0, Max: 1, Step: 0.05},
		{Name: "targetKE", Label: "Target KE", Unit: "J", Min: 1, Max: 500, Step: 5},
		{Name: "track", Label: "Track", Unit: "m", Min: 5, Max: 100, Step: 5},
	}
}

func (w *WorkEnergy) Init(p dynamo.Params) dynamo.State {
	return make(dynamo.State, weDim)
}

func (w *WorkEnergy) Dof() int { return 1 }

// forces returns the horizontal applied force and the friction magnitude.
func (w *WorkEnergy) forces(p dynamo.Params) (fx, fric float64) {
	f, a := p.Get("force"), rad(p.Get("angle"))
	fx = f * math.Cos(a)
	normal := math.Max(0, p.Get("mass")*gravity-f*math.Sin(a))
	return fx, p.Get("friction") * normal
}

func (w *WorkEnergy) Derive(x dynamo.State, p dynamo.Params) dynamo.State {
	m := math.Max(p.Get("mass"), 1e-6)
	fx, fric := w.forces(p)
	v := x[WEVel]

	var net float64
	switch {
	case math.Abs(v) > weRestSpeed:
		net = fx - fric*math.Copysign(1, v)
	case math.Abs(fx) > fric:
		net = fx - fric*math.Copysign(1, fx)
	}
	return dynamo.State{v, net / m, fx * v, fric * math.Abs(v)}
}

func (w *WorkEnergy) Update(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	next := w.integ.Step(w, x, p, dt)

	// kinetic friction stops the block, it never reverses it
	fx, fric := w.forces(p)
	if x[WEVel]*next[WEVel] < 0 && math.Abs(fx) <= fric {
		next[WEVel] = 0
	}
	if next[WEPos] < 0 {
		next[WEPos] = 0
		next[WEVel] = math.Max(next[WEVel], 0)
	}
	return next
}

func (w *WorkEnergy) Terminal(x dynamo.State, p dynamo.Params) bool {
	if x[WEPos] >= p.Get("track") {
		return true
	}
	fx, fric := w.forces(p)
	return x[WEPos] > 0 && math.Abs(x[WEVel]) <= weRestSpeed && math.Abs(fx) <= fric
}

// KineticEnergy is ½mv².
func (w *WorkEnergy) KineticEnergy(x dynamo.State, p dynamo.Params) float64 {
	v := x[WEVel]
	return 0.5 * p.Get("mass") * v * v
}

func (w *WorkEnergy) Measure(x dynamo.State, p dynamo.Params) float64 {
	return w.KineticEnergy(x, p)
}

func (w *WorkEnergy) Target(x dynamo.State, p dynamo.Params) float64 {
	return p.Get("targetKE")
}

type weLayout struct {
	track  view
	meterX float64
	meterW float64
	workY  float64
	keY    float64
	heatY  float64
	meterH float64
	max    float64
}

func (w *WorkEnergy) layout(f dynamo.Frame) weLayout {
	track := math.Max(f.Params.Get("track"), 1)
	l := weLayout{
		track:  view{ox: margin, oy: f.Height * 0.62, scale: (f.Width - 2*margin - weBlockW) / track},
		meterX: margin,
		meterW: math.Min(220, f.Width*0.4),
		meterH: 10,
		workY:  34,
	}
	l.keY = l.workY + 30
	l.heatY = l.keY + 30
	l.max = math.Max(f.Params.Get("targetKE")*1.5, f.State.At(WEWork))
	return l
}

func (w *WorkEnergy) blockCenter(f dynamo.Frame, l weLayout) (float64, float64) {
	sx, sy := l.track.toScreen(f.State.At(WEPos), 0)
	return sx + weBlockW/2, sy - weBlockH/2
}

func (w *WorkEnergy) forceTip(f dynamo.Frame, l weLayout) (float64, float64) {
	cx, cy := w.blockCenter(f, l)
	a := rad(f.Params.Get("angle"))
	n := f.Params.Get("force") * weForcePx
	return cx + n*math.Cos(a), cy - n*math.Sin(a)
}

func (w *WorkEnergy) Grab(f dynamo.Frame, x, y float64) (string, bool) {
	l := w.layout(f)
	var hs interact.Handles
	cx, cy := w.blockCenter(f, l)
	hs.Set("block", interact.Rect{X: cx - weBlockW/2, Y: cy - weBlockH/2, W: weBlockW, H: weBlockH})
	tx, ty := w.forceTip(f, l)
	hs.Set("force", interact.Circle{X: tx, Y: ty, R: 14})
	return hs.Hit(x, y)
}

// Drag on the force handle aims the push. Grabbing the block restarts the
// run from the left end of the track.
func (w *WorkEnergy) Drag(f dynamo.Frame, handle string, x, y float64) (dynamo.Params, bool) {
	l := w.layout(f)
	switch handle {
	case "force":
		cx, cy := w.blockCenter(f, l)
		dx, dy := x-cx, cy-y
		p := f.Params.With("force", clamp(math.Round(math.Hypot(dx, dy)/weForcePx), 0, 100))
		return p.With("angle", clamp(math.Round(deg(math.Atan2(dy, dx))), -60, 60)), false
	case "block":
		return f.Params, true
	}
	return f.Params, false
}

func (w *WorkEnergy) ScoreAnchor(f dynamo.Frame) gfx.Point {
	l := w.layout(f)
	cx, cy := w.blockCenter(f, l)
	return gfx.Pt(cx, cy-weBlockH)
}

// Emit sends a mote from the work meter to the KE meter for every few
// joules of work done.
func (w *WorkEnergy) Emit(ps *particles.System, prev dynamo.State, f dynamo.Frame, dt float64) {
	before := math.Floor(prev.At(WEWork) / weMoteJoule)
	after := math.Floor(f.State.At(WEWork) / weMoteJoule)
	n := int(math.Min(after-before, 3))
	if n <= 0 {
		return
	}
	l := w.layout(f)
	from := gfx.Pt(l.meterX+draw.MeterFill(f.State.At(WEWork), l.max, l.meterW, 0), l.workY+l.meterH/2)
	to := gfx.Pt(l.meterX+draw.MeterFill(w.KineticEnergy(f.State, f.Params), l.max, l.meterW, 0), l.keY+l.meterH/2)
	ps.Emit(particles.KindTransfer, from, n, particles.EmitParams{Target: to, Color: colEnergy})
}

func (w *WorkEnergy) Draw(ctx gfx.Context, f dynamo.Frame) {
	l := w.layout(f)
	x := f.State
	ke := w.KineticEnergy(x, f.Params)

	// track
	x0, y0 := l.track.toScreen(0, 0)
	x1, _ := l.track.toScreen(f.Params.Get("track"), 0)
	ctx.SetStrokeColor(colTrack)
	ctx.SetLineWidth(2)
	ctx.BeginPath()
	ctx.MoveTo(x0, y0)
	ctx.LineTo(x1+weBlockW, y0)
	ctx.Stroke()

	// block
	cx, cy := w.blockCenter(f, l)
	ctx.SetFillColor(colBlock)
	ctx.BeginPath()
	ctx.RoundRect(cx-weBlockW/2, cy-weBlockH/2, weBlockW, weBlockH, 4)
	ctx.Fill()

	tx, ty := w.forceTip(f, l)
	draw.Arrow(ctx, cx, cy, tx-cx, ty-cy, draw.ArrowOptions{
		Color: colForce,
		Width: 3,
		Label: fmt.Sprintf("F = %.0f N", f.Params.Get("force")),
	})
	ctx.SetStrokeColor(colHandle)
	ctx.SetLineWidth(1)
	ctx.BeginPath()
	ctx.Arc(tx, ty, 8, 0, 2*math.Pi)
	ctx.ClosePath()
	ctx.Stroke()

	if v := x.At(WEVel); v != 0 {
		draw.Arrow(ctx, cx, cy+weBlockH, v*6, 0, draw.ArrowOptions{Color: colVel, Label: "v"})
	}

	draw.Meter(ctx, l.meterX, l.workY, l.meterW, l.meterH, x.At(WEWork), l.max,
		draw.MeterOptions{Fill: colForce, MinSliver: f.MeterSliver, Label: fmt.Sprintf("Work  %.1f J", x.At(WEWork))})
	draw.Meter(ctx, l.meterX, l.keY, l.meterW, l.meterH, ke, l.max,
		draw.MeterOptions{Fill: colVel, MinSliver: f.MeterSliver, Label: fmt.Sprintf("KE  %.1f J", ke)})
	draw.Meter(ctx, l.meterX, l.heatY, l.meterW, l.meterH, x.At(WEHeat), l.max,
		draw.MeterOptions{Fill: colHeat, MinSliver: f.MeterSliver, Label: fmt.Sprintf("Heat  %.1f J", x.At(WEHeat))})

	if f.Params.Challenge() {
		mx := l.meterX + draw.MeterFill(f.Params.Get("targetKE"), l.max, l.meterW, 0)
		ctx.SetStrokeColor(colTarget)
		ctx.SetLineWidth(2)
		ctx.BeginPath()
		ctx.MoveTo(mx, l.keY-3)
		ctx.LineTo(mx, l.keY+l.meterH+3)
		ctx.Stroke()
	}

	rows := []draw.Row{
		{Label: "x", Value: fmt.Sprintf("%.2f m", x.At(WEPos))},
		{Label: "v", Value: fmt.Sprintf("%.2f m/s", x.At(WEVel))},
		{Label: "KE", Value: fmt.Sprintf("%.1f J", ke), Color: colVel},
		{Label: "W", Value: fmt.Sprintf("%.1f J", x.At(WEWork)), Color: colForce},
	}
	if f.Params.Challenge() {
		rows = append(rows, draw.Row{Label: "Target", Value: fmt.Sprintf("%.0f J", f.Params.Get("targetKE")), Color: colTarget})
	}
	pw := 150.0
	draw.InfoPanel(ctx, f.Width-pw-margin/2, 20, pw, rows, draw.PanelOptions{Title: "Work-Energy"})
}
