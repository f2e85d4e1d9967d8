package grid

// WalkNeighbors enumerates the (2rx+1)(2ry+1)(2rz+1) cells around the home
// cell (ix, iy, iz) and invokes visit once per existing neighbor.
//
// In periodic mode a neighbor index past the mesh edge wraps modulo the axis
// cell count, and the probe coordinate handed to visit is shifted by the box
// extent across the seam, so distances against the neighbor's unshifted
// stored coordinates stay geometrically correct. In non-periodic mode
// out-of-range neighbors are skipped.
//
// The walk assumes the correctness precondition established at build time:
// cell size times refine factor is at least the search radius on every axis.
func (g *Grid[F]) WalkNeighbors(ix, iy, iz int, px, py, pz F, visit func(c *Cell[F], px, py, pz F)) {
	rx, ry, rz := g.Refine[0], g.Refine[1], g.Refine[2]

	for dx := -rx; dx <= rx; dx++ {
		jx, sx, ok := g.wrapAxis(0, ix+dx, px)
		if !ok {
			continue
		}
		for dy := -ry; dy <= ry; dy++ {
			jy, sy, ok := g.wrapAxis(1, iy+dy, py)
			if !ok {
				continue
			}
			for dz := -rz; dz <= rz; dz++ {
				jz, sz, ok := g.wrapAxis(2, iz+dz, pz)
				if !ok {
					continue
				}
				cell := &g.cells[g.cellIndex(jx, jy, jz)]
				if cell.Len() == 0 {
					continue
				}
				visit(cell, sx, sy, sz)
			}
		}
	}
}

// wrapAxis resolves a raw neighbor index on one axis. In periodic mode it
// wraps the index and shifts the probe coordinate by one box extent per
// crossing; the shift count can exceed one when the refine span is wider
// than the mesh, which keeps the geometry consistent even for tiny meshes.
func (g *Grid[F]) wrapAxis(axis, j int, p F) (int, F, bool) {
	n := g.NCells[axis]
	if j >= 0 && j < n {
		return j, p, true
	}
	if !g.Periodic {
		return 0, 0, false
	}

	w := floorDiv(j, n)
	return j - w*n, p - F(w)*g.Bounds.Extent(axis), true
}

// floorDiv computes floor(a/n) for positive n.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
