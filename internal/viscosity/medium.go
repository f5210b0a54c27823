package viscosity

import "strings"

// Medium identifies a suspending medium with a fixed relative viscosity.
type Medium int

const (
	MediumWater Medium = iota
	MediumPBS
	MediumCultureMedium
	MediumSerum
	MediumGlycerol10

	numMedia
)

type mediumInfo struct {
	label       string
	multiplier  float64
	description string
}

// Relative viscosities against pure water at the same temperature.
var mediumTable = [numMedia]mediumInfo{
	MediumWater:         {"Water", 1.00, "pure water, reference medium"},
	MediumPBS:           {"PBS", 1.02, "phosphate-buffered saline (1x)"},
	MediumCultureMedium: {"Culture Medium", 1.05, "serum-free cell culture medium (DMEM/RPMI)"},
	MediumSerum:         {"Serum", 1.50, "undiluted serum or plasma"},
	MediumGlycerol10:    {"Glycerol 10%", 1.30, "10% (w/w) glycerol in water"},
}

func (m Medium) valid() bool { return m >= 0 && m < numMedia }

// String returns the display label.
func (m Medium) String() string {
	if !m.valid() {
		return "Unknown"
	}
	return mediumTable[m].label
}

// Multiplier returns the relative viscosity of the medium. Out-of-range values
// behave like water.
func (m Medium) Multiplier() float64 {
	if !m.valid() {
		return 1.0
	}
	return mediumTable[m].multiplier
}

func (m Medium) Description() string {
	if !m.valid() {
		return ""
	}
	return mediumTable[m].description
}

// Media lists every known medium in table order.
func Media() []Medium {
	out := make([]Medium, 0, numMedia)
	for m := Medium(0); m < numMedia; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMedium looks up a medium by label. Matching ignores case, spaces,
// dashes, underscores and percent signs, so "culture_medium" and
// "Glycerol 10%" both resolve.
func ParseMedium(label string) (Medium, bool) {
	key := normalizeLabel(label)
	if key == "" {
		return MediumWater, false
	}
	for m := Medium(0); m < numMedia; m++ {
		if normalizeLabel(mediumTable[m].label) == key {
			return m, true
		}
	}
	return MediumWater, false
}

// Multiplier returns the relative viscosity for a medium label, falling back
// to 1.0 for labels that are not in the table.
func Multiplier(label string) float64 {
	m, ok := ParseMedium(label)
	if !ok {
		return 1.0
	}
	return m.Multiplier()
}

func normalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '%', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
