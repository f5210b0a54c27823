// Package viz renders terminal views of correction and spatial results.
//
// It provides lipgloss styles and badges for the CLI and a bubbletea
// calculator that recomputes the size correction as the user adjusts the
// measurement temperature, reference temperature and medium:
//
//	if err := viz.RunCalculator(37, 25, "PBS"); err != nil {
//	    log.Fatal(err)
//	}
package viz
