// Package store persists simulation output. Snapshots go into a single
// hierarchical dataset file: an NPZ-style zip whose member names mirror the
// dataset paths (coords/, time/, fields/, inputs/), each member a .npy array
// readable by numpy downstream. Run metadata goes into a per-run directory
// with a metadata.json.
package store

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Writer appends snapshots to a dataset file. Coordinates are written once at
// creation; per-snapshot state fields and inputs are streamed as they arrive;
// the time axis and Bz block are finalized on Close. The file is valid
// whenever Close runs after the last append.
type Writer struct {
	f  *os.File
	zw *zip.Writer

	nr, nz int
	times  []float64
	bz     []float64 // row-major (snapshot, Nr)
	idx    int
	closed bool
}

// Create opens the dataset file and writes the cell-center coordinate arrays.
func Create(path string, r, z []float64) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		f:  f,
		zw: zip.NewWriter(f),
		nr: len(r),
		nz: len(z),
	}
	if err := w.writeNPY("coords/r.npy", r); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.writeNPY("coords/z.npy", z); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeNPY(name string, val interface{}) error {
	fw, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	return npyio.Write(fw, val)
}

// Len reports the number of snapshots appended so far.
func (w *Writer) Len() int { return w.idx }

// Append writes one snapshot and advances the snapshot index by exactly one.
func (w *Writer) Append(snap *plasma.Snapshot) error {
	if w.closed {
		return fmt.Errorf("store: append after close")
	}
	if len(snap.Bz) != w.nr {
		return fmt.Errorf("store: Bz has %d samples, expected %d", len(snap.Bz), w.nr)
	}
	if len(snap.Ne) != w.nr*w.nz || len(snap.Te) != w.nr*w.nz {
		return fmt.Errorf("store: state field size mismatch (%d, %d != %d)",
			len(snap.Ne), len(snap.Te), w.nr*w.nz)
	}

	k := w.idx
	if err := w.writeNPY(fmt.Sprintf("fields/ne/%d.npy", k), mat.NewDense(w.nz, w.nr, snap.Ne)); err != nil {
		return err
	}
	if err := w.writeNPY(fmt.Sprintf("fields/Te/%d.npy", k), mat.NewDense(w.nz, w.nr, snap.Te)); err != nil {
		return err
	}
	if err := w.writeNPY(fmt.Sprintf("inputs/%d/E0_Vpm.npy", k), []float64{snap.Inputs.E0Vpm}); err != nil {
		return err
	}
	if err := w.writeNPY(fmt.Sprintf("inputs/%d/phase_deg.npy", k), []float64{snap.Inputs.PhaseDeg}); err != nil {
		return err
	}
	if err := w.writeNPY(fmt.Sprintf("inputs/%d/freq_Hz.npy", k), []float64{snap.Inputs.FreqHz}); err != nil {
		return err
	}

	w.times = append(w.times, snap.Time)
	w.bz = append(w.bz, snap.Bz...)
	w.idx++
	return nil
}

// Times returns the time axis accumulated so far (one entry per snapshot).
func (w *Writer) Times() []float64 { return w.times }

// Close finalizes the time axis and the (snapshots, Nr) Bz block, then
// flushes and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.idx > 0 {
		if err := w.writeNPY("time/t.npy", w.times); err != nil {
			return err
		}
		if err := w.writeNPY("fields/Bz.npy", mat.NewDense(w.idx, w.nr, w.bz)); err != nil {
			return err
		}
	}
	if err := w.zw.Close(); err != nil {
		return err
	}
	if err := w.f.Sync(); err != nil {
		return err
	}
	return w.f.Close()
}
