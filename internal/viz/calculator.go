package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlelab/internal/viscosity"
)

type field int

const (
	fieldMeasurement field = iota
	fieldReference
	fieldMedium
	fieldDiameter
	numFields
)

var fieldNames = [numFields]string{"measurement temp", "reference temp", "medium", "sample diameter"}

const (
	tempStep     = 0.5
	tempBigStep  = 5.0
	minTemp      = 0.0
	maxTemp      = 80.0
	diameterStep = 10.0
)

type calculator struct {
	measTemp float64
	refTemp  float64
	medium   viscosity.Medium
	diameter float64
	cursor   field

	correction viscosity.Correction
	showHelp   bool
	quitting   bool

	width  int
	height int
}

func newCalculator(measTemp, refTemp float64, medium string) calculator {
	m, ok := viscosity.ParseMedium(medium)
	if !ok {
		m = viscosity.MediumWater
	}
	c := calculator{
		measTemp: clampTemp(measTemp),
		refTemp:  clampTemp(refTemp),
		medium:   m,
		diameter: 100,
		width:    80,
		height:   24,
	}
	c.recompute()
	return c
}

func (m *calculator) recompute() {
	m.correction = viscosity.CorrectionForMedium(m.measTemp, m.refTemp, m.medium)
}

func clampTemp(t float64) float64 {
	if t < minTemp {
		return minTemp
	}
	if t > maxTemp {
		return maxTemp
	}
	return t
}

func (m calculator) Init() tea.Cmd { return nil }

func (m calculator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m calculator) handleKey(msg tea.KeyMsg) (calculator, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor + numFields - 1) % numFields
	case "down", "j":
		m.cursor = (m.cursor + 1) % numFields
	case "left", "h":
		m.adjust(-1, false)
	case "right", "l":
		m.adjust(1, false)
	case "H":
		m.adjust(-1, true)
	case "L":
		m.adjust(1, true)
	case "r":
		m.measTemp, m.refTemp = m.refTemp, m.measTemp
	case "?":
		m.showHelp = !m.showHelp
	}
	m.recompute()
	return m, nil
}

func (m *calculator) adjust(dir float64, big bool) {
	step := tempStep
	if big {
		step = tempBigStep
	}
	switch m.cursor {
	case fieldMeasurement:
		m.measTemp = clampTemp(m.measTemp + dir*step)
	case fieldReference:
		m.refTemp = clampTemp(m.refTemp + dir*step)
	case fieldMedium:
		media := viscosity.Media()
		i := (int(m.medium) + int(dir) + len(media)) % len(media)
		m.medium = media[i]
	case fieldDiameter:
		d := diameterStep
		if big {
			d *= 10
		}
		if next := m.diameter + dir*d; next > 0 {
			m.diameter = next
		}
	}
}

func (m calculator) value(f field) string {
	switch f {
	case fieldMeasurement:
		return fmt.Sprintf("%.1f °C", m.measTemp)
	case fieldReference:
		return fmt.Sprintf("%.1f °C", m.refTemp)
	case fieldMedium:
		return fmt.Sprintf("%s (x%.2f)", m.medium, m.medium.Multiplier())
	case fieldDiameter:
		return fmt.Sprintf("%.0f nm", m.diameter)
	}
	return ""
}

func (m calculator) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(Title.Render("viscosity correction"))
	b.WriteString("\n\n")

	for f := field(0); f < numFields; f++ {
		prefix := "  "
		label := MetricLabel.Render(fmt.Sprintf("%-18s", fieldNames[f]))
		if f == m.cursor {
			prefix = KeyHint.Render("> ")
			label = Selected.Render(fmt.Sprintf("%-18s", fieldNames[f]))
		}
		b.WriteString(prefix + label + MetricValue.Render(m.value(f)) + "\n")
	}
	b.WriteString("\n")

	c := m.correction
	b.WriteString(Metric("factor", FactorBadge(c)) + "\n")
	b.WriteString(Metric("corrected diameter", fmt.Sprintf("%.1f nm", c.Apply(m.diameter))) + "\n\n")
	b.WriteString(Panel.Render(c.Breakdown()))
	b.WriteString("\n\n")

	if chart := m.sweepChart(); chart != "" {
		b.WriteString(Subtle.Render(chart))
		b.WriteString("\n\n")
	}

	if m.showHelp {
		b.WriteString(Subtle.Render("j/k select field  h/l adjust  H/L large step  r swap temps  q quit"))
	} else {
		b.WriteString(Subtle.Render("? help  q quit"))
	}
	return b.String()
}

func (m calculator) sweepChart() string {
	if m.height < 30 {
		return ""
	}
	points := viscosity.TemperatureSweep(m.refTemp, m.medium.String(), 10, 45, 36)
	width := m.width - 12
	if width < 20 {
		width = 20
	}
	return asciigraph.Plot(viscosity.Factors(points),
		asciigraph.Height(6),
		asciigraph.Width(width),
		asciigraph.Caption("factor vs measurement temp, 10..45 °C"),
		asciigraph.Precision(3))
}

// RunCalculator starts the interactive correction calculator.
func RunCalculator(measTemp, refTemp float64, medium string) error {
	p := tea.NewProgram(newCalculator(measTemp, refTemp, medium), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
