package config

import "sort"

// Presets are common measurement conditions. Each only sets the temperature
// and medium fields; everything else keeps its default.
var Presets = map[string]Preset{
	"room": {
		Description:     "room temperature in water",
		MeasurementTemp: 22.0, ReferenceTemp: 25.0, Medium: "Water",
	},
	"physiological": {
		Description:     "37°C in PBS",
		MeasurementTemp: 37.0, ReferenceTemp: 25.0, Medium: "PBS",
	},
	"cold": {
		Description:     "4°C storage sample in PBS",
		MeasurementTemp: 4.0, ReferenceTemp: 25.0, Medium: "PBS",
	},
	"serum": {
		Description:     "37°C in undiluted serum",
		MeasurementTemp: 37.0, ReferenceTemp: 25.0, Medium: "Serum",
	},
	"culture": {
		Description:     "37°C in culture medium",
		MeasurementTemp: 37.0, ReferenceTemp: 25.0, Medium: "Culture Medium",
	},
}

type Preset struct {
	Description     string
	MeasurementTemp float64
	ReferenceTemp   float64
	Medium          string
}

// Apply copies the preset's conditions onto cfg.
func (p Preset) Apply(cfg *Config) {
	cfg.MeasurementTemp = p.MeasurementTemp
	cfg.ReferenceTemp = p.ReferenceTemp
	cfg.Medium = p.Medium
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
