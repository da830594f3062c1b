package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/physlab/internal/experiment"
)

type TraceEvent struct {
	Label  string  `json:"label"`
	Points int     `json:"points"`
	Error  float64 `json:"error"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

type TraceData struct {
	Simulation string             `json:"simulation"`
	Mode       string             `json:"mode"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Terminal   bool               `json:"terminal"`
	Params     map[string]float64 `json:"params"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Measures   []float64          `json:"measures,omitempty"`
	Events     []TraceEvent       `json:"events,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewTrace(res *experiment.Result, dt float64) TraceData {
	data := TraceData{
		Simulation: res.Simulation,
		Mode:       string(res.Params.Mode),
		Dt:         dt,
		Steps:      len(res.Times),
		Terminal:   res.Terminal,
		Params:     res.Params.Values,
		Times:      res.Times,
		States:     make([][]float64, len(res.States)),
		Measures:   res.Measures,
		Metrics:    make(map[string]float64, len(res.Metrics)),
	}
	// JSON has no Inf or NaN
	for k, v := range res.Metrics {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			data.Metrics[k] = v
		}
	}
	for i, s := range res.States {
		data.States[i] = s
	}
	for _, ev := range res.Events {
		data.Events = append(data.Events, TraceEvent{
			Label:  ev.Result.Label,
			Points: ev.Result.Points,
			Error:  ev.Result.ErrorMagnitude,
			Actual: ev.Actual,
			Target: ev.Target,
		})
	}
	return data
}

func WriteJSON(w io.Writer, res *experiment.Result, dt float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewTrace(res, dt))
}

// WriteCSV writes one row per recorded frame: time, each state component
// and, for challengers, the measure.
func WriteCSV(w io.Writer, res *experiment.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	if len(res.States) > 0 {
		for i := range res.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if len(res.Measures) > 0 {
		header = append(header, "measure")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range res.States {
		row := []string{strconv.FormatFloat(res.Times[i], 'f', 6, 64)}
		for _, val := range res.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if i < len(res.Measures) {
			row = append(row, strconv.FormatFloat(res.Measures[i], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
