package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Store keeps run metadata under a base directory, one subdirectory per run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Snapshots int                `json:"snapshots"`
	Backend   string             `json:"backend"`
	Dataset   string             `json:"dataset"` // path to the snapshot file
	Metrics   map[string]float64 `json:"metrics"`
}

// RunDir returns the directory a run's artifacts live in.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes metadata.json into the run directory, creating it if needed.
func (s *Store) Save(meta RunMetadata) error {
	runDir := s.RunDir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
