package scoring

import (
	"fmt"

	"github.com/san-kum/physlab/internal/draw"
	"github.com/san-kum/physlab/internal/gfx"
)

// RenderScoreboard draws the challenge tally in the box (x, y, w, h). It
// reads state only.
func RenderScoreboard(ctx gfx.Context, x, y, w, h float64, state ChallengeState) {
	if ctx == nil || !(w > 0) || !(h > 0) {
		return
	}
	const pad = 8.0
	rows := []struct {
		label string
		value string
	}{
		{"Attempts", fmt.Sprint(state.Attempts)},
		{"Correct", fmt.Sprint(state.CorrectCount)},
		{"Streak", fmt.Sprint(state.Streak)},
		{"Best", fmt.Sprint(state.BestStreak)},
	}

	lineH := (h - 2*pad) / float64(len(rows)+2)
	font := min(12, lineH*0.8)

	ctx.Save()
	ctx.SetFillColor(gfx.RGBA(15, 23, 42, 220))
	ctx.BeginPath()
	ctx.RoundRect(x, y, w, h, 6)
	ctx.Fill()

	ctx.SetFontSize(font)
	cy := y + pad + lineH/2
	ctx.SetTextAlign(gfx.AlignLeft)
	ctx.SetFillColor(gfx.White)
	ctx.FillText("Challenge", x+pad, cy)
	if state.LastResult != nil {
		ctx.SetTextAlign(gfx.AlignRight)
		ctx.SetFillColor(LabelColor(state.LastResult.Label))
		ctx.FillText(state.LastResult.Label, x+w-pad, cy)
	}
	cy += lineH

	for _, r := range rows {
		ctx.SetTextAlign(gfx.AlignLeft)
		ctx.SetFillColor(gfx.Hex("#94a3b8"))
		ctx.FillText(r.label, x+pad, cy)
		ctx.SetTextAlign(gfx.AlignRight)
		ctx.SetFillColor(gfx.White)
		ctx.FillText(r.value, x+w-pad, cy)
		cy += lineH
	}
	ctx.Restore()

	draw.Meter(ctx, x+pad, cy-lineH/2+2, w-2*pad, max(lineH/3, 2), state.Accuracy(), 1, draw.MeterOptions{})
}
