package store

import (
	"archive/zip"
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/sbinet/npyio"
)

func snapshotAt(t float64, nr, nz int) *plasma.Snapshot {
	snap := &plasma.Snapshot{
		Time:   t,
		Bz:     make([]float64, nr),
		Ne:     make(plasma.Field, nr*nz),
		Te:     make(plasma.Field, nr*nz),
		Inputs: plasma.ControlInputs{E0Vpm: 200, FreqHz: 13.56e6},
	}
	for i := range snap.Bz {
		snap.Bz[i] = t * float64(i)
	}
	for idx := range snap.Ne {
		snap.Ne[idx] = 1e15 + float64(idx)
		snap.Te[idx] = 2.0
	}
	return snap
}

func readMember(t *testing.T, zr *zip.ReadCloser, name string) []float64 {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		var data []float64
		if err := npyio.Read(rc, &data); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return data
	}
	t.Fatalf("member %s not found", name)
	return nil
}

func TestWriterRoundTrip(t *testing.T) {
	nr, nz := 4, 6
	r := []float64{0.1, 0.2, 0.3, 0.4}
	z := []float64{1, 2, 3, 4, 5, 6}
	path := filepath.Join(t.TempDir(), "snapshots.npz")

	w, err := Create(path, r, z)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for k := 0; k < 3; k++ {
		if err := w.Append(snapshotAt(float64(k+1)*1e-4, nr, nz)); err != nil {
			t.Fatalf("Append %d: %v", k, err)
		}
	}
	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3", w.Len())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	for _, want := range []string{
		"coords/r.npy", "coords/z.npy", "time/t.npy", "fields/Bz.npy",
		"fields/ne/0.npy", "fields/ne/2.npy", "fields/Te/1.npy",
		"inputs/0/E0_Vpm.npy", "inputs/2/freq_Hz.npy",
	} {
		i := sort.SearchStrings(names, want)
		if i >= len(names) || names[i] != want {
			t.Errorf("missing dataset member %s (have %v)", want, names)
		}
	}

	gotR := readMember(t, zr, "coords/r.npy")
	for i := range r {
		if gotR[i] != r[i] {
			t.Errorf("coords/r[%d] = %g, want %g", i, gotR[i], r[i])
		}
	}

	gotT := readMember(t, zr, "time/t.npy")
	if len(gotT) != 3 {
		t.Fatalf("time axis has %d entries, want 3", len(gotT))
	}
	for k := range gotT {
		if math.Abs(gotT[k]-float64(k+1)*1e-4) > 1e-18 {
			t.Errorf("t[%d] = %g", k, gotT[k])
		}
	}

	gotBz := readMember(t, zr, "fields/Bz.npy")
	if len(gotBz) != 3*nr {
		t.Fatalf("Bz block has %d values, want %d", len(gotBz), 3*nr)
	}
	// Row 1 (second snapshot, t=2e-4): Bz[i] = t*i.
	if math.Abs(gotBz[nr+2]-2e-4*2) > 1e-18 {
		t.Errorf("Bz[1][2] = %g", gotBz[nr+2])
	}

	gotNe := readMember(t, zr, "fields/ne/0.npy")
	if len(gotNe) != nr*nz {
		t.Fatalf("ne snapshot has %d values, want %d", len(gotNe), nr*nz)
	}
	if gotNe[7] != 1e15+7 {
		t.Errorf("ne[7] = %g", gotNe[7])
	}

	gotE0 := readMember(t, zr, "inputs/1/E0_Vpm.npy")
	if len(gotE0) != 1 || gotE0[0] != 200 {
		t.Errorf("inputs/1/E0_Vpm = %v", gotE0)
	}
}

func TestAppendValidatesShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.npz")
	w, err := Create(path, []float64{1, 2, 3}, []float64{1, 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	bad := snapshotAt(1e-4, 5, 2) // wrong radial size
	if err := w.Append(bad); err == nil {
		t.Error("expected shape mismatch error")
	}
	if w.Len() != 0 {
		t.Errorf("Len = %d after rejected append", w.Len())
	}
}

func TestAppendAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.npz")
	w, err := Create(path, []float64{1, 2}, []float64{1, 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Append(snapshotAt(1e-4, 2, 2)); err == nil {
		t.Error("expected error appending after close")
	}
}

func TestEmptyDatasetCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.npz")
	w, err := Create(path, []float64{1, 2}, []float64{1, 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == "time/t.npy" {
			t.Error("empty dataset should not carry a time axis")
		}
	}
}
