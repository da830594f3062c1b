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

// State layout for Projectile.
const (
	PrX = iota
	PrY
	PrVX
	PrVY
	PrTime
	PrLanded
	prDim
)

const (
	prLaunchPx    = 4.0 // pixels per m/s on the launch handle
	prTrailPeriod = 0.04
)

// Projectile launches a ball from height h with a given speed and angle.
// In challenge mode the player predicts the range before the ball lands.
type Projectile struct {
	integ *integrators.Kinematic
}

func NewProjectile() *Projectile {
	return &Projectile{integ: integrators.NewKinematic()}
}

func (pr *Projectile) Name() string { return "projectile" }

func (pr *Projectile) Defaults() dynamo.Params {
	return dynamo.NewParams(map[string]float64{
		"speed":      20,
		"angle":      45,
		"height":     0,
		"gravity":    gravity,
		"prediction": 30,
	})
}

func (pr *Projectile) Specs() []dynamo.ParamSpec {
	return []dynamo.ParamSpec{
		{Name: "speed", Label: "Speed", Unit: "m/s", Min: 1, Max: 60, Step: 1},
		{Name: "angle", Label: "Angle", Unit: "°", Min: 0, Max: 90, Step: 5},
		{Name: "height", Label: "Height", Unit: "m", Min: 0, Max: 50, Step: 1},
		{Name: "gravity", Label: "g", Unit: "m/s²", Min: 1, Max: 25, Step: 0.5},
		{Name: "prediction", Label: "Prediction", Unit: "m", Min: 0, Max: 400, Step: 1},
	}
}

func (pr *Projectile) Init(p dynamo.Params) dynamo.State {
	x := make(dynamo.State, prDim)
	a := rad(p.Get("angle"))
	x[PrY] = math.Max(p.Get("height"), 0)
	x[PrVX] = p.Get("speed") * math.Cos(a)
	x[PrVY] = p.Get("speed") * math.Sin(a)
	return x
}

func (pr *Projectile) Dof() int { return 2 }

func (pr *Projectile) Derive(x dynamo.State, p dynamo.Params) dynamo.State {
	return dynamo.State{x[PrVX], x[PrVY], 0, -p.Get("gravity"), 1, 0}
}

func (pr *Projectile) Update(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	if x[PrLanded] != 0 {
		return x.Clone()
	}
	next := pr.integ.Step(pr, x, p, dt)
	if next[PrY] <= 0 && next[PrTime] > 0 {
		// interpolate back to the ground crossing
		frac := 1.0
		if d := x[PrY] - next[PrY]; d > 0 {
			frac = x[PrY] / d
		}
		next[PrX] = x[PrX] + (next[PrX]-x[PrX])*frac
		next[PrY] = 0
		next[PrVX], next[PrVY] = 0, 0
		next[PrLanded] = 1
	}
	return next
}

func (pr *Projectile) Terminal(x dynamo.State, p dynamo.Params) bool {
	return x[PrLanded] != 0
}

// TotalEnergy is the specific mechanical energy. The landing kills the
// velocity, so it is undefined once the ball is down.
func (pr *Projectile) TotalEnergy(x dynamo.State, p dynamo.Params) float64 {
	if x.At(PrLanded) != 0 {
		return math.NaN()
	}
	return 0.5*(x[PrVX]*x[PrVX]+x[PrVY]*x[PrVY]) + p.Get("gravity")*x[PrY]
}

// Range is the analytic horizontal distance to landing.
func Range(speed, angleDeg, height, g float64) float64 {
	if g <= 0 {
		return math.Inf(1)
	}
	a := rad(angleDeg)
	vx, vy := speed*math.Cos(a), speed*math.Sin(a)
	return vx / g * (vy + math.Sqrt(vy*vy+2*g*math.Max(height, 0)))
}

func (pr *Projectile) analyticRange(p dynamo.Params) float64 {
	return Range(p.Get("speed"), p.Get("angle"), p.Get("height"), p.Get("gravity"))
}

// Measure is the player's predicted range.
func (pr *Projectile) Measure(x dynamo.State, p dynamo.Params) float64 {
	return p.Get("prediction")
}

// Target is the landed distance once the ball is down, the analytic range
// before that.
func (pr *Projectile) Target(x dynamo.State, p dynamo.Params) float64 {
	if x.At(PrLanded) != 0 {
		return x[PrX]
	}
	return pr.analyticRange(p)
}

func (pr *Projectile) ScoresAtEnd() bool { return true }

func (pr *Projectile) view(f dynamo.Frame) view {
	p := f.Params
	span := math.Max(pr.analyticRange(p), p.Get("prediction"))
	if math.IsInf(span, 0) || math.IsNaN(span) {
		span = 100
	}
	span = math.Max(span*1.15, 10)
	h := p.Get("speed")*p.Get("speed")/(2*math.Max(p.Get("gravity"), 1e-6)) + p.Get("height")
	scale := math.Min((f.Width-2*margin)/span, (f.Height*0.75)/math.Max(h*1.1, 5))
	return view{ox: margin, oy: f.Height - margin, scale: scale}
}

func (pr *Projectile) launchTip(f dynamo.Frame) (float64, float64, float64, float64) {
	v := pr.view(f)
	lx, ly := v.toScreen(0, math.Max(f.Params.Get("height"), 0))
	a := rad(f.Params.Get("angle"))
	n := f.Params.Get("speed") * prLaunchPx
	return lx, ly, lx + n*math.Cos(a), ly - n*math.Sin(a)
}

func (pr *Projectile) Grab(f dynamo.Frame, x, y float64) (string, bool) {
	_, _, tx, ty := pr.launchTip(f)
	var hs interact.Handles
	hs.Set("launch", interact.Circle{X: tx, Y: ty, R: 14})
	return hs.Hit(x, y)
}

// Drag on the launch handle sets speed and angle and re-arms the launch.
func (pr *Projectile) Drag(f dynamo.Frame, handle string, x, y float64) (dynamo.Params, bool) {
	if handle != "launch" {
		return f.Params, false
	}
	lx, ly, _, _ := pr.launchTip(f)
	dx, dy := x-lx, ly-y
	p := f.Params.With("speed", clamp(math.Round(math.Hypot(dx, dy)/prLaunchPx), 1, 60))
	return p.With("angle", clamp(math.Round(deg(math.Atan2(dy, dx))), 0, 90)), true
}

func (pr *Projectile) ScoreAnchor(f dynamo.Frame) gfx.Point {
	v := pr.view(f)
	sx, sy := v.toScreen(f.State.At(PrX), f.State.At(PrY))
	return gfx.Pt(sx, sy-30)
}

// Emit leaves trail motes behind the ball while it is airborne.
func (pr *Projectile) Emit(ps *particles.System, prev dynamo.State, f dynamo.Frame, dt float64) {
	if f.State.At(PrLanded) != 0 || !crossed(f.State.At(PrTime), dt, prTrailPeriod) {
		return
	}
	v := pr.view(f)
	sx, sy := v.toScreen(f.State.At(PrX), f.State.At(PrY))
	ps.Emit(particles.KindTrail, gfx.Pt(sx, sy), 1, particles.EmitParams{Color: colEnergy, Lifetime: 1.5, Size: 2})
}

func (pr *Projectile) Draw(ctx gfx.Context, f dynamo.Frame) {
	v := pr.view(f)
	p := f.Params
	x := f.State

	// ground
	gx0, gy := v.toScreen(0, 0)
	ctx.SetStrokeColor(colTrack)
	ctx.SetLineWidth(2)
	ctx.BeginPath()
	ctx.MoveTo(gx0-margin/2, gy)
	ctx.LineTo(f.Width-margin/2, gy)
	ctx.Stroke()

	if h := p.Get("height"); h > 0 {
		_, ty := v.toScreen(0, h)
		ctx.SetFillColor(colTrack)
		ctx.FillRect(gx0-10, ty, 10, gy-ty)
	}

	if p.Challenge() {
		px, _ := v.toScreen(p.Get("prediction"), 0)
		ctx.SetStrokeColor(colTarget)
		ctx.SetLineWidth(2)
		ctx.BeginPath()
		ctx.MoveTo(px, gy)
		ctx.LineTo(px, gy-28)
		ctx.Stroke()
		ctx.SetFillColor(colTarget)
		ctx.BeginPath()
		ctx.MoveTo(px, gy-28)
		ctx.LineTo(px+14, gy-23)
		ctx.LineTo(px, gy-18)
		ctx.ClosePath()
		ctx.Fill()
	}

	lx, ly, tx, ty := pr.launchTip(f)
	if x.At(PrTime) == 0 || f.Handle == "launch" {
		draw.Arrow(ctx, lx, ly, tx-lx, ty-ly, draw.ArrowOptions{
			Color: colForce,
			Label: fmt.Sprintf("%.0f m/s @ %.0f°", p.Get("speed"), p.Get("angle")),
		})
	}
	ctx.SetStrokeColor(colHandle)
	ctx.SetLineWidth(1)
	ctx.BeginPath()
	ctx.Arc(tx, ty, 8, 0, 2*math.Pi)
	ctx.ClosePath()
	ctx.Stroke()

	bx, by := v.toScreen(x.At(PrX), x.At(PrY))
	ctx.SetFillColor(colBlock)
	ctx.BeginPath()
	ctx.Arc(bx, by-6, 6, 0, 2*math.Pi)
	ctx.ClosePath()
	ctx.Fill()

	if x.At(PrLanded) == 0 {
		draw.Arrow(ctx, bx, by-6, x.At(PrVX)*2, -x.At(PrVY)*2, draw.ArrowOptions{Color: colVel, Width: 1.5, HeadSize: 6})
	}

	rows := []draw.Row{
		{Label: "t", Value: fmt.Sprintf("%.2f s", x.At(PrTime))},
		{Label: "x", Value: fmt.Sprintf("%.1f m", x.At(PrX))},
		{Label: "y", Value: fmt.Sprintf("%.1f m", x.At(PrY))},
	}
	if p.Challenge() {
		rows = append(rows, draw.Row{Label: "Guess", Value: fmt.Sprintf("%.0f m", p.Get("prediction")), Color: colTarget})
	}
	if x.At(PrLanded) != 0 {
		rows = append(rows, draw.Row{Label: "Range", Value: fmt.Sprintf("%.1f m", x.At(PrX)), Color: colVel})
	}
	draw.InfoPanel(ctx, f.Width-150-margin/2, 20, 150, rows, draw.PanelOptions{Title: "Projectile"})
}
