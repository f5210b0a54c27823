package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/particlelab/internal/sizing"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/viscosity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(positions []spatial.Position) *Run {
	frame := spatial.Frame{Width: 100, Height: 100}
	c := viscosity.CorrectionFactor(37, 25, "PBS")
	sizes := sizing.Summarize(spatial.Sizes(positions))
	return &Run{
		Label:          "sample-a",
		Source:         "synth:grid",
		Seed:           42,
		Correction:     c,
		Spatial:        spatial.Analyze(positions, frame),
		Sizes:          sizes,
		CorrectedSizes: sizes.Corrected(c),
	}
}

var testPositions = []spatial.Position{
	{X: 25, Y: 25, Size: 90, Frame: 1, Intensity: 0.5},
	{X: 75, Y: 25, Size: 110, Frame: 1, Intensity: 1.25},
	{X: 25, Y: 75, Size: 100, Frame: 2},
	{X: 75, Y: 75, Size: 120, Frame: 2, Intensity: 3},
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	run := testRun(testPositions)
	runID, err := st.Save(run, testPositions)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.False(t, run.Timestamp.IsZero())

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "sample-a", loaded.Label)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.InDelta(t, run.Correction.Factor, loaded.Correction.Factor, 1e-15)
	require.NotNil(t, loaded.Spatial)
	assert.Equal(t, spatial.Dispersed, loaded.Spatial.Interpretation)
	assert.Equal(t, 4, loaded.Spatial.Quadrants.Total())
	require.NotNil(t, loaded.CorrectedSizes)
	assert.InDelta(t, run.CorrectedSizes.D50, loaded.CorrectedSizes.D50, 1e-12)

	positions, err := st.LoadPositions(runID)
	require.NoError(t, err)
	assert.Equal(t, testPositions, positions)
}

func TestStoreKeepsExplicitID(t *testing.T) {
	st := New(t.TempDir())
	run := testRun(testPositions)
	run.ID = "fixed"

	runID, err := st.Save(run, testPositions)
	require.NoError(t, err)
	assert.Equal(t, "fixed", runID)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first := testRun(testPositions)
	first.Label = "first"
	first.Timestamp = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	second := testRun(testPositions)
	second.Label = "second"
	second.Timestamp = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err = st.Save(first, testPositions)
	require.NoError(t, err)
	_, err = st.Save(second, testPositions)
	require.NoError(t, err)

	// Stray directories without metadata are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Label)
	assert.Equal(t, "first", runs[1].Label)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadPositions("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(testRun(testPositions), testPositions)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, runID, metadataFile))
	assert.FileExists(t, filepath.Join(dir, runID, positionsFile))
}
