package store

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sbinet/npyio"
)

// ExportData flattens a run for inspection without NPZ tooling: metadata plus
// the snapshot time axis. Field data stays in the dataset file.
type ExportData struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Snapshots int                `json:"snapshots"`
	Backend   string             `json:"backend"`
	Dataset   string             `json:"dataset"`
	Times     []float64          `json:"times"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes a JSON summary of a stored run to path.
func (s *Store) ExportJSON(path, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	times, err := readTimeAxis(meta.Dataset)
	if err != nil {
		return fmt.Errorf("store: dataset %s: %w", meta.Dataset, err)
	}

	data := ExportData{
		ID:        meta.ID,
		Timestamp: meta.Timestamp,
		Seed:      meta.Seed,
		Dt:        meta.Dt,
		Steps:     meta.Steps,
		Snapshots: meta.Snapshots,
		Backend:   meta.Backend,
		Dataset:   meta.Dataset,
		Times:     times,
		Metrics:   meta.Metrics,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// readTimeAxis pulls time/t.npy out of a dataset file. An empty dataset
// (zero snapshots) has no time axis and yields an empty slice.
func readTimeAxis(dataset string) ([]float64, error) {
	zr, err := zip.OpenReader(dataset)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "time/t.npy" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		var times []float64
		if err := npyio.Read(rc, &times); err != nil {
			return nil, err
		}
		return times, nil
	}
	return []float64{}, nil
}
