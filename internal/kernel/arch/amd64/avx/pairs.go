//go:build amd64 && !purego

package avx

// PairCount64 histograms squared probe-to-point distances over squared bin
// edges. Distances are computed per lane-width chunk; the edge scan is
// scalar and identical to the fallback kernel.
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
	n := len(xs)

	var d2 [lanes64]float64
	i := 0
	for ; i+lanes64 <= n; i += lanes64 {
		for l := 0; l < lanes64; l++ {
			dx := xs[i+l] - px
			dy := ys[i+l] - py
			dz := zs[i+l] - pz
			d2[l] = dx*dx + dy*dy + dz*dz
		}
		for l := 0; l < lanes64; l++ {
			binPair(d2[l], rmin2, rmax2, redges2, counts)
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		binPair(dx*dx+dy*dy+dz*dz, rmin2, rmax2, redges2, counts)
	}
}

// PairCount32 is the float32 form of PairCount64. Squared distances are
// widened to float64 before the edge comparison, matching the fallback.
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
	n := len(xs)

	var d2 [lanes32]float32
	i := 0
	for ; i+lanes32 <= n; i += lanes32 {
		for l := 0; l < lanes32; l++ {
			dx := xs[i+l] - px
			dy := ys[i+l] - py
			dz := zs[i+l] - pz
			d2[l] = dx*dx + dy*dy + dz*dz
		}
		for l := 0; l < lanes32; l++ {
			binPair(float64(d2[l]), rmin2, rmax2, redges2, counts)
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		binPair(float64(dx*dx+dy*dy+dz*dz), rmin2, rmax2, redges2, counts)
	}
}

// PairCountW64 is PairCount64 with per-pair weights.
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
	n := len(xs)

	var d2 [lanes64]float64
	i := 0
	for ; i+lanes64 <= n; i += lanes64 {
		for l := 0; l < lanes64; l++ {
			dx := xs[i+l] - px
			dy := ys[i+l] - py
			dz := zs[i+l] - pz
			d2[l] = dx*dx + dy*dy + dz*dz
		}
		for l := 0; l < lanes64; l++ {
			binPairW(d2[l], ws[i+l]*pw, rmin2, rmax2, redges2, counts, wsums)
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		binPairW(dx*dx+dy*dy+dz*dz, ws[i]*pw, rmin2, rmax2, redges2, counts, wsums)
	}
}

// PairCountW32 is the float32 weighted form. Weight products accumulate in
// float64.
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
	n := len(xs)

	var d2 [lanes32]float32
	i := 0
	for ; i+lanes32 <= n; i += lanes32 {
		for l := 0; l < lanes32; l++ {
			dx := xs[i+l] - px
			dy := ys[i+l] - py
			dz := zs[i+l] - pz
			d2[l] = dx*dx + dy*dy + dz*dz
		}
		for l := 0; l < lanes32; l++ {
			binPairW(float64(d2[l]), float64(ws[i+l])*float64(pw), rmin2, rmax2, redges2, counts, wsums)
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		binPairW(float64(dx*dx+dy*dy+dz*dz), float64(ws[i])*float64(pw), rmin2, rmax2, redges2, counts, wsums)
	}
}

// binPair assigns one squared distance to its pair bin via reverse edge scan.
func binPair(d2, rmin2, rmax2 float64, redges2 []float64, counts []uint64) {
	if d2 <= rmin2 || d2 > rmax2 {
		return
	}
	for k := len(redges2) - 2; k >= 0; k-- {
		if d2 > redges2[k] {
			counts[k]++
			return
		}
	}
}

// binPairW is binPair with a weight contribution.
func binPairW(d2, w, rmin2, rmax2 float64, redges2 []float64, counts []uint64, wsums []float64) {
	if d2 <= rmin2 || d2 > rmax2 {
		return
	}
	for k := len(redges2) - 2; k >= 0; k-- {
		if d2 > redges2[k] {
			counts[k]++
			wsums[k] += w
			return
		}
	}
}
