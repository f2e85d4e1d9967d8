// Package grid partitions 3D point sets into a uniform mesh of cells for
// fixed-radius neighbor queries ("gridlink").
//
// Cells are sized so that all true neighbors within the search radius lie
// within a bounded number of adjacent cells: along each axis the cell size
// times the refine factor is at least the search radius, so walking refine
// cells per side from a probe's home cell covers the whole sphere. Points
// are stored per cell as compacted coordinate arrays (struct-of-arrays) for
// cache-friendly vectorized access.
package grid

import (
	"errors"
)

// Errors returned by Build and BoundsOf.
var (
	ErrNoPoints       = errors.New("grid: point set is empty")
	ErrLengthMismatch = errors.New("grid: coordinate arrays differ in length")
	ErrDegenerate     = errors.New("grid: bounding box has a zero-extent axis")
	ErrBadRadius      = errors.New("grid: search radius must be positive")
	ErrBadRefine      = errors.New("grid: refine factors must be >= 1")
	ErrBadMaxCells    = errors.New("grid: max cells per dimension must be >= 1")
)

// Real constrains the coordinate element types supported by the mesh.
// The set is exact (no approximation through ~) so slices of Real assert
// cleanly to their concrete types at the kernel boundary.
type Real interface {
	float32 | float64
}

// Cell is one mesh voxel: the coordinates of its points compacted into
// parallel arrays, plus their weights when the build was given any.
type Cell[F Real] struct {
	X []F
	Y []F
	Z []F
	W []F // nil when the point set is unweighted
}

// Len returns the number of points in the cell.
func (c *Cell[F]) Len() int {
	return len(c.X)
}

// Grid is a uniform 3D mesh over a bounding box. Cells are stored row-major:
// index = (ix*NCells[1] + iy)*NCells[2] + iz.
type Grid[F Real] struct {
	Bounds   Bounds[F]
	NCells   [3]int
	Refine   [3]int
	Periodic bool

	cells   []Cell[F]
	invStep [3]float64 // NCells[a] / extent[a]
}

// Build partitions the point set into a mesh whose cell size along each axis
// is at least rmax/refine[axis].
//
// ncells per axis is floor(refine*extent/rmax) clamped to [1, maxCells]; the
// actual cell size extent/ncells then meets the floor by construction. Each
// point is assigned to exactly one cell, deterministically from its
// position; the assignment clamp guards floating-point rounding exactly at
// the upper boundary. Cells are materialized by counting sort, preserving
// input order within each cell.
//
// ws may be nil; when present it must have the same length as the
// coordinate arrays and is scattered alongside them.
func Build[F Real](xs, ys, zs, ws []F, bounds Bounds[F], rmax F, refine [3]int, maxCells int, periodic bool) (*Grid[F], error) {
	if len(ys) != len(xs) || len(zs) != len(xs) || (ws != nil && len(ws) != len(xs)) {
		return nil, ErrLengthMismatch
	}
	if len(xs) == 0 {
		return nil, ErrNoPoints
	}
	if rmax <= 0 {
		return nil, ErrBadRadius
	}
	if refine[0] < 1 || refine[1] < 1 || refine[2] < 1 {
		return nil, ErrBadRefine
	}
	if maxCells < 1 {
		return nil, ErrBadMaxCells
	}
	if bounds.Degenerate() {
		return nil, ErrDegenerate
	}

	g := &Grid[F]{
		Bounds:   bounds,
		Refine:   refine,
		Periodic: periodic,
	}
	for a := 0; a < 3; a++ {
		n := int(float64(refine[a]) * float64(bounds.Extent(a)) / float64(rmax))
		if n < 1 {
			n = 1
		}
		if n > maxCells {
			n = maxCells
		}
		g.NCells[a] = n
		g.invStep[a] = float64(n) / float64(bounds.Extent(a))
	}

	n := len(xs)
	ntot := g.NCells[0] * g.NCells[1] * g.NCells[2]

	// Counting sort: tally occupancy, prefix-sum into offsets, scatter.
	home := make([]int32, n)
	occ := make([]int32, ntot)
	for i := 0; i < n; i++ {
		ix, iy, iz := g.CellCoordOf(xs[i], ys[i], zs[i])
		idx := g.cellIndex(ix, iy, iz)
		home[i] = int32(idx)
		occ[idx]++
	}

	offsets := make([]int32, ntot+1)
	for k := 0; k < ntot; k++ {
		offsets[k+1] = offsets[k] + occ[k]
	}

	xbuf := make([]F, n)
	ybuf := make([]F, n)
	zbuf := make([]F, n)
	var wbuf []F
	if ws != nil {
		wbuf = make([]F, n)
	}

	cursor := make([]int32, ntot)
	copy(cursor, offsets[:ntot])
	for i := 0; i < n; i++ {
		c := home[i]
		j := cursor[c]
		cursor[c]++
		xbuf[j] = xs[i]
		ybuf[j] = ys[i]
		zbuf[j] = zs[i]
		if ws != nil {
			wbuf[j] = ws[i]
		}
	}

	g.cells = make([]Cell[F], ntot)
	for k := 0; k < ntot; k++ {
		lo, hi := offsets[k], offsets[k+1]
		g.cells[k].X = xbuf[lo:hi:hi]
		g.cells[k].Y = ybuf[lo:hi:hi]
		g.cells[k].Z = zbuf[lo:hi:hi]
		if ws != nil {
			g.cells[k].W = wbuf[lo:hi:hi]
		}
	}

	return g, nil
}

// NumPoints returns the total number of points across all cells.
func (g *Grid[F]) NumPoints() int {
	total := 0
	for k := range g.cells {
		total += g.cells[k].Len()
	}
	return total
}

// NumCellsTotal returns the number of cells in the mesh.
func (g *Grid[F]) NumCellsTotal() int {
	return len(g.cells)
}

// Cell returns the cell at the given mesh coordinate.
func (g *Grid[F]) Cell(ix, iy, iz int) *Cell[F] {
	return &g.cells[g.cellIndex(ix, iy, iz)]
}

// CellSize returns the actual cell width along the given axis.
func (g *Grid[F]) CellSize(axis int) F {
	return g.Bounds.Extent(axis) / F(g.NCells[axis])
}

// CellCoordOf returns the mesh coordinate of the cell owning the given
// position. Positions exactly on the upper boundary are clamped into the
// last cell.
func (g *Grid[F]) CellCoordOf(x, y, z F) (ix, iy, iz int) {
	ix = g.axisCell(0, x)
	iy = g.axisCell(1, y)
	iz = g.axisCell(2, z)
	return ix, iy, iz
}

func (g *Grid[F]) axisCell(axis int, v F) int {
	i := int(float64(v-g.Bounds.Min[axis]) * g.invStep[axis])
	if i < 0 {
		return 0
	}
	if i >= g.NCells[axis] {
		return g.NCells[axis] - 1
	}
	return i
}

// cellIndex flattens a mesh coordinate row-major.
func (g *Grid[F]) cellIndex(ix, iy, iz int) int {
	return (ix*g.NCells[1]+iy)*g.NCells[2] + iz
}
