package generic

// PairCount64 histograms squared distances from the probe to each cell point
// over the squared bin edges redges2 (ascending, len(counts)+1 entries).
// Bin k covers (redges2[k], redges2[k+1]]; distances at or below the first
// edge, or above the last, are not counted. The reverse scan starts at the
// outermost bin because pair separations cluster toward larger radii.
func PairCount64(xs, ys, zs []float64, px, py, pz float64, redges2 []float64, counts []uint64) {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(redges2) - 1
	if len(counts) != nbin {
		panic("kernel: counts length must equal len(redges2)-1")
	}

	rmin2 := redges2[0]
	rmax2 := redges2[nbin]

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := dx*dx + dy*dy + dz*dz
		if d2 <= rmin2 || d2 > rmax2 {
			continue
		}
		for k := nbin - 1; k >= 0; k-- {
			if d2 > redges2[k] {
				counts[k]++
				break
			}
		}
	}
}

// PairCount32 is the float32 scalar reference implementation. The squared
// distance is widened to float64 before edge comparison so every variant,
// and both precisions of the same data, make the same in/out decision.
func PairCount32(xs, ys, zs []float32, px, py, pz float32, redges2 []float64, counts []uint64) {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(redges2) - 1
	if len(counts) != nbin {
		panic("kernel: counts length must equal len(redges2)-1")
	}

	rmin2 := redges2[0]
	rmax2 := redges2[nbin]

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := float64(dx*dx + dy*dy + dz*dz)
		if d2 <= rmin2 || d2 > rmax2 {
			continue
		}
		for k := nbin - 1; k >= 0; k-- {
			if d2 > redges2[k] {
				counts[k]++
				break
			}
		}
	}
}

// PairCountW64 is PairCount64 with per-pair weights: each counted pair also
// accumulates ws[i]*pw into wsums for its bin.
func PairCountW64(xs, ys, zs, ws []float64, px, py, pz, pw float64, redges2 []float64, counts []uint64, wsums []float64) {
	if len(ys) != len(xs) || len(zs) != len(xs) || len(ws) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(redges2) - 1
	if len(counts) != nbin || len(wsums) != nbin {
		panic("kernel: counts length must equal len(redges2)-1")
	}

	rmin2 := redges2[0]
	rmax2 := redges2[nbin]

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := dx*dx + dy*dy + dz*dz
		if d2 <= rmin2 || d2 > rmax2 {
			continue
		}
		for k := nbin - 1; k >= 0; k-- {
			if d2 > redges2[k] {
				counts[k]++
				wsums[k] += ws[i] * pw
				break
			}
		}
	}
}

// PairCountW32 is the float32 weighted scalar reference implementation.
// Weight products accumulate in float64.
func PairCountW32(xs, ys, zs, ws []float32, px, py, pz, pw float32, redges2 []float64, counts []uint64, wsums []float64) {
	if len(ys) != len(xs) || len(zs) != len(xs) || len(ws) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(redges2) - 1
	if len(counts) != nbin || len(wsums) != nbin {
		panic("kernel: counts length must equal len(redges2)-1")
	}

	rmin2 := redges2[0]
	rmax2 := redges2[nbin]

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := float64(dx*dx + dy*dy + dz*dz)
		if d2 <= rmin2 || d2 > rmax2 {
			continue
		}
		for k := nbin - 1; k >= 0; k-- {
			if d2 > redges2[k] {
				counts[k]++
				wsums[k] += float64(ws[i]) * float64(pw)
				break
			}
		}
	}
}
