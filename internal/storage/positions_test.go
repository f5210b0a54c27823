package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPositionsColumnsByName(t *testing.T) {
	input := "Y, X, Diameter\n1.5, 2.5, 80\n3, 4, 120\n"

	positions, err := ReadPositions(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []spatial.Position{
		{X: 2.5, Y: 1.5, Size: 80},
		{X: 4, Y: 3, Size: 120},
	}, positions)
}

func TestReadPositionsOptionalColumns(t *testing.T) {
	input := "x,y,size,frame,intensity\n1,2,,7,\n"

	positions, err := ReadPositions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, spatial.Position{X: 1, Y: 2, Frame: 7}, positions[0])
}

func TestReadPositionsEmpty(t *testing.T) {
	positions, err := ReadPositions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, positions)

	positions, err = ReadPositions(strings.NewReader("x,y,size\n"))
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestReadPositionsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no x column", "a,y\n1,2\n"},
		{"no y column", "x,b\n1,2\n"},
		{"bad number", "x,y\n1,two\n"},
		{"missing y value", "x,y\n1,\n"},
		{"bad frame", "x,y,frame\n1,2,first\n"},
		{"nan x", "x,y\nNaN,2\n"},
		{"inf y", "x,y\n1,+Inf\n"},
		{"negative inf size", "x,y,size\n1,2,-inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPositions(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedPositions)
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePositions(&buf, testPositions))

	positions, err := ReadPositions(&buf)
	require.NoError(t, err)
	assert.Equal(t, testPositions, positions)
}

func TestReadPositionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,1\n2,2\n"), 0644))

	positions, err := ReadPositionsFile(path)
	require.NoError(t, err)
	assert.Len(t, positions, 2)

	_, err = ReadPositionsFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
