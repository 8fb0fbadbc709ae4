// Package mesh builds the uniform axisymmetric r-z grid the transport
// equations are discretized on. The x coordinate is radius, y is axial
// height; spacing is fixed for the whole run.
package mesh

import "fmt"

type Grid struct {
	Nr, Nz int
	R, H   float64 // cylinder radius and height [m]
	Dr, Dz float64

	r []float64 // radial cell centers, length Nr
	z []float64 // axial cell centers, length Nz
}

func New(radiusM, heightM float64, nr, nz int) (*Grid, error) {
	if radiusM <= 0 || heightM <= 0 {
		return nil, fmt.Errorf("mesh: non-positive extent R=%g H=%g", radiusM, heightM)
	}
	if nr < 2 || nz < 2 {
		return nil, fmt.Errorf("mesh: need at least 2 cells per direction, got %dx%d", nr, nz)
	}

	g := &Grid{
		Nr: nr,
		Nz: nz,
		R:  radiusM,
		H:  heightM,
		Dr: radiusM / float64(nr),
		Dz: heightM / float64(nz),
	}
	g.r = make([]float64, nr)
	for i := range g.r {
		g.r[i] = (float64(i) + 0.5) * g.Dr
	}
	g.z = make([]float64, nz)
	for j := range g.z {
		g.z[j] = (float64(j) + 0.5) * g.Dz
	}
	return g, nil
}

// RadialCenters returns the Nr radial cell-center coordinates [m].
func (g *Grid) RadialCenters() []float64 { return g.r }

// AxialCenters returns the Nz axial cell-center coordinates [m].
func (g *Grid) AxialCenters() []float64 { return g.z }

// NumCells returns the total cell count Nr*Nz.
func (g *Grid) NumCells() int { return g.Nr * g.Nz }

// Index maps (i, j) cell coordinates to the flat row-major-in-z index.
func (g *Grid) Index(i, j int) int { return j*g.Nr + i }

// CellRadius returns the radial coordinate of a flat cell index.
func (g *Grid) CellRadius(idx int) float64 { return g.r[idx%g.Nr] }
