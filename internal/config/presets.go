package config

import "sort"

var Presets = map[string]map[string]*Config{
	"work-energy": {
		"gentle": {
			Simulation: "work-energy", Mode: "explore",
			Params: map[string]float64{"force": 10, "angle": 0, "mass": 2, "friction": 0.05},
		},
		"uphill-pull": {
			Simulation: "work-energy", Mode: "explore",
			Params: map[string]float64{"force": 40, "angle": 35, "mass": 5, "friction": 0.3},
		},
		"target-50": {
			Simulation: "work-energy", Mode: "challenge",
			Params: map[string]float64{"force": 20, "mass": 2, "friction": 0.1, "targetKE": 50},
		},
		"target-200": {
			Simulation: "work-energy", Mode: "challenge",
			Params: map[string]float64{"force": 30, "mass": 4, "friction": 0.2, "targetKE": 200},
		},
	},
	"projectile": {
		"classic": {
			Simulation: "projectile", Mode: "explore",
			Params: map[string]float64{"speed": 20, "angle": 45},
		},
		"cliff": {
			Simulation: "projectile", Mode: "explore",
			Params: map[string]float64{"speed": 15, "angle": 20, "height": 30},
		},
		"moon": {
			Simulation: "projectile", Mode: "explore",
			Params: map[string]float64{"speed": 12, "angle": 50, "gravity": 1.62},
		},
		"guess-range": {
			Simulation: "projectile", Mode: "challenge",
			Params: map[string]float64{"speed": 25, "angle": 30, "prediction": 50},
		},
	},
	"spring": {
		"soft": {
			Simulation: "spring", Mode: "explore",
			Params: map[string]float64{"stiffness": 5, "mass": 1, "damping": 0.1, "release": 0.8},
		},
		"stiff": {
			Simulation: "spring", Mode: "explore",
			Params: map[string]float64{"stiffness": 120, "mass": 0.5, "damping": 0.5, "release": 0.3},
		},
		"peak-speed": {
			Simulation: "spring", Mode: "challenge",
			Params: map[string]float64{"stiffness": 20, "mass": 1, "damping": 0.3, "targetSpeed": 3},
		},
	},
}

// GetPreset returns a full config for a named preset: defaults with the
// preset's simulation, mode and params applied.
func GetPreset(simulation, preset string) *Config {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	p, ok := simPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Simulation = p.Simulation
	cfg.Mode = p.Mode
	cfg.Params = cfg.MergeParams(p.Params)
	return cfg
}

func ListPresets(simulation string) []string {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(simPresets))
	for name := range simPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
