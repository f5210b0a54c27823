package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/viscosity"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00cccc"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00aaaa")).
		Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	badgeClustered = badgeBase.Foreground(lipgloss.Color("#1a1a1a")).Background(lipgloss.Color("#ffaa00"))
	badgeRandom    = badgeBase.Foreground(lipgloss.Color("#1a1a1a")).Background(lipgloss.Color("#00ff88"))
	badgeDispersed = badgeBase.Foreground(lipgloss.Color("#1a1a1a")).Background(lipgloss.Color("#00ccff"))
	badgeNA        = badgeBase.Foreground(lipgloss.Color("#cccccc")).Background(lipgloss.Color("#444455"))
)

// InterpretationBadge renders a coloured label for a clustering reading.
func InterpretationBadge(i spatial.Interpretation) string {
	switch i {
	case spatial.Clustered:
		return badgeClustered.Render(string(i))
	case spatial.Random:
		return badgeRandom.Render(string(i))
	case spatial.Dispersed:
		return badgeDispersed.Render(string(i))
	default:
		return badgeNA.Render(string(spatial.NotApplicable))
	}
}

// FactorBadge highlights how far a correction moves sizes.
func FactorBadge(c viscosity.Correction) string {
	text := fmt.Sprintf("x%.4f", c.Factor)
	switch {
	case c.IsIdentity(0.005):
		return badgeRandom.Render(text)
	case c.Factor > 1.2 || c.Factor < 0.8:
		return badgeClustered.Render(text)
	default:
		return badgeDispersed.Render(text)
	}
}

// Metric renders an aligned "label  value" line.
func Metric(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-26s", label)) + MetricValue.Render(value)
}

// SpatialSummary renders the statistics block used by the CLI.
func SpatialSummary(s *spatial.Stats) string {
	if s == nil {
		return Subtle.Render("no particles to analyse")
	}
	lines := []string{
		Metric("particles", fmt.Sprintf("%d", s.Count)),
		Metric("frame", fmt.Sprintf("%.0f x %.0f", s.Frame.Width, s.Frame.Height)),
		Metric("quadrants UL/UR/LL/LR", fmt.Sprintf("%d / %d / %d / %d",
			s.Quadrants.UpperLeft, s.Quadrants.UpperRight, s.Quadrants.LowerLeft, s.Quadrants.LowerRight)),
		Metric("mean position", fmt.Sprintf("(%.2f, %.2f)", s.MeanX, s.MeanY)),
		Metric("spread (sd x, sd y)", fmt.Sprintf("(%.2f, %.2f)", s.StdX, s.StdY)),
		Metric("mean nn distance", fmt.Sprintf("%.3f", s.MeanNearestNeighbor)),
		Metric("expected nn (csr)", fmt.Sprintf("%.3f", s.ExpectedNearestNeighbor)),
		Metric("clustering index", fmt.Sprintf("%.3f", s.ClusteringIndex)),
		Metric("interpretation", InterpretationBadge(s.Interpretation)),
	}
	return strings.Join(lines, "\n")
}
