package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/viscosity"
)

func press(t *testing.T, m calculator, keys ...string) calculator {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(calculator)
	}
	return m
}

func TestCalculatorStartsFromInputs(t *testing.T) {
	m := newCalculator(37, 25, "PBS")
	want := viscosity.CorrectionFactor(37, 25, "PBS")
	if math.Abs(m.correction.Factor-want.Factor) > 1e-12 {
		t.Errorf("factor = %v, want %v", m.correction.Factor, want.Factor)
	}
	if m.medium != viscosity.MediumPBS {
		t.Errorf("medium = %v, want PBS", m.medium)
	}
}

func TestCalculatorUnknownMediumFallsBackToWater(t *testing.T) {
	m := newCalculator(25, 25, "honey")
	if m.medium != viscosity.MediumWater {
		t.Errorf("medium = %v, want Water", m.medium)
	}
	if math.Abs(m.correction.Factor-1) > 1e-12 {
		t.Errorf("factor = %v, want 1", m.correction.Factor)
	}
}

func TestCalculatorAdjustsTemperature(t *testing.T) {
	m := newCalculator(25, 25, "Water")
	m = press(t, m, "l", "l", "L")
	if m.measTemp != 31 {
		t.Fatalf("measTemp = %v, want 31", m.measTemp)
	}
	want := viscosity.CorrectionFactor(31, 25, "Water").Factor
	if math.Abs(m.correction.Factor-want) > 1e-12 {
		t.Errorf("factor not recomputed: %v, want %v", m.correction.Factor, want)
	}

	m = press(t, m, "j", "h")
	if m.refTemp != 24.5 {
		t.Errorf("refTemp = %v, want 24.5", m.refTemp)
	}
}

func TestCalculatorClampsTemperature(t *testing.T) {
	m := newCalculator(2, 25, "Water")
	m = press(t, m, "H", "H")
	if m.measTemp != minTemp {
		t.Errorf("measTemp = %v, want %v", m.measTemp, minTemp)
	}
}

func TestCalculatorCyclesMedia(t *testing.T) {
	m := newCalculator(25, 25, "Water")
	m = press(t, m, "j", "j", "l")
	if m.medium != viscosity.MediumPBS {
		t.Fatalf("medium = %v, want PBS", m.medium)
	}
	m = press(t, m, "h", "h")
	if m.medium != viscosity.MediumGlycerol10 {
		t.Errorf("medium = %v, want wrap to last entry", m.medium)
	}
}

func TestCalculatorCursorWraps(t *testing.T) {
	m := newCalculator(25, 25, "Water")
	m = press(t, m, "up")
	if m.cursor != fieldDiameter {
		t.Errorf("cursor = %v, want %v", m.cursor, fieldDiameter)
	}
	m = press(t, m, "down")
	if m.cursor != fieldMeasurement {
		t.Errorf("cursor = %v, want %v", m.cursor, fieldMeasurement)
	}
}

func TestCalculatorSwap(t *testing.T) {
	m := newCalculator(37, 20, "Water")
	m = press(t, m, "r")
	if m.measTemp != 20 || m.refTemp != 37 {
		t.Errorf("swap gave meas=%v ref=%v", m.measTemp, m.refTemp)
	}
}

func TestCalculatorQuit(t *testing.T) {
	m := newCalculator(25, 25, "Water")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if v := next.(calculator).View(); v != "" {
		t.Errorf("view after quit = %q, want empty", v)
	}
}

func TestCalculatorView(t *testing.T) {
	m := newCalculator(37, 25, "Serum")
	v := m.View()
	for _, want := range []string{"measurement temp", "Serum", "factor", "corrected diameter"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if v := next.(calculator).View(); !strings.Contains(v, "factor vs measurement temp") {
		t.Error("tall view should include the sweep chart")
	}
}

func TestInterpretationBadge(t *testing.T) {
	cases := map[spatial.Interpretation]string{
		spatial.Clustered:     "Clustered",
		spatial.Random:        "Random",
		spatial.Dispersed:     "Dispersed",
		spatial.NotApplicable: "N/A",
		"":                    "N/A",
	}
	for in, want := range cases {
		if got := InterpretationBadge(in); !strings.Contains(got, want) {
			t.Errorf("InterpretationBadge(%q) = %q, want it to contain %q", in, got, want)
		}
	}
}

func TestSpatialSummary(t *testing.T) {
	if got := SpatialSummary(nil); !strings.Contains(got, "no particles") {
		t.Errorf("nil summary = %q", got)
	}
	stats := spatial.Analyze([]spatial.Position{
		{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 25, Y: 75}, {X: 75, Y: 75},
	}, spatial.Frame{Width: 100, Height: 100})
	got := SpatialSummary(stats)
	for _, want := range []string{"particles", "1 / 1 / 1 / 1", "2.000", "Dispersed"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
