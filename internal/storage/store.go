package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/particlelab/internal/sizing"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/viscosity"
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per analysis run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Run is the persisted record of one analysis.
type Run struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Seed      int64     `json:"seed,omitempty"`

	Correction     viscosity.Correction `json:"correction"`
	Spatial        *spatial.Stats       `json:"spatial,omitempty"`
	Sizes          *sizing.Summary      `json:"sizes,omitempty"`
	CorrectedSizes *sizing.Summary      `json:"corrected_sizes,omitempty"`
}

// Save writes the run metadata and its positions. An empty ID is replaced
// with a fresh UUID and a zero timestamp with the current time. The final
// ID is returned.
func (s *Store) Save(run *Run, positions []spatial.Position) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	runDir := filepath.Join(s.baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, positionsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WritePositions(csvFile, positions); err != nil {
		return "", err
	}
	return run.ID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]Run, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, err
	}

	runs := make([]Run, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		run, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &run, nil
}

func (s *Store) LoadPositions(runID string) ([]spatial.Position, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadPositions(file)
}
