package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/particlelab/internal/spatial"
)

var ErrMalformedPositions = errors.New("storage: malformed positions file")

var positionsHeader = []string{"x", "y", "size", "frame", "intensity"}

// WritePositions writes positions as CSV with a header row.
func WritePositions(w io.Writer, positions []spatial.Position) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(positionsHeader); err != nil {
		return err
	}

	for _, p := range positions {
		row := []string{
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatFloat(p.Size, 'f', 6, 64),
			strconv.Itoa(p.Frame),
			strconv.FormatFloat(p.Intensity, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadPositions parses CSV with a header row. Columns are matched by name
// (case-insensitive); x and y are required, size, frame and intensity are
// optional. "diameter" is accepted as an alias for size.
func ReadPositions(r io.Reader) ([]spatial.Position, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []spatial.Position{}, nil
	}
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "diameter" {
			name = "size"
		}
		cols[name] = i
	}
	if _, ok := cols["x"]; !ok {
		return nil, fmt.Errorf("%w: missing x column", ErrMalformedPositions)
	}
	if _, ok := cols["y"]; !ok {
		return nil, fmt.Errorf("%w: missing y column", ErrMalformedPositions)
	}

	positions := make([]spatial.Position, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		var p spatial.Position
		fields := []struct {
			name string
			dst  *float64
		}{
			{"x", &p.X}, {"y", &p.Y}, {"size", &p.Size}, {"intensity", &p.Intensity},
		}
		for _, f := range fields {
			v, ok, err := column(record, cols, f.name)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformedPositions, line, f.name, err)
			}
			if !ok && (f.name == "x" || f.name == "y") {
				return nil, fmt.Errorf("%w: line %d: missing %s", ErrMalformedPositions, line, f.name)
			}
			*f.dst = v
		}

		frame, ok, err := column(record, cols, "frame")
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: frame: %v", ErrMalformedPositions, line, err)
		}
		if ok {
			p.Frame = int(frame)
		}

		positions = append(positions, p)
	}
	return positions, nil
}

// ReadPositionsFile is ReadPositions over a file path.
func ReadPositionsFile(path string) ([]spatial.Position, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadPositions(file)
}

func column(record []string, cols map[string]int, name string) (float64, bool, error) {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return 0, false, nil
	}
	s := strings.TrimSpace(record[i])
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("non-finite value %q", s)
	}
	return v, true, nil
}
