package generic

import (
	"math"

	"github.com/chewxy/math32"
)

// SphereCount64 counts cell points falling inside a sphere of radius rmax
// centered on the probe, binned by radial shell of width rmax/len(counts).
// This is the pure Go scalar reference implementation: every vectorized
// variant must count exactly the same points into exactly the same bins.
func SphereCount64(xs, ys, zs []float64, px, py, pz, rmax float64, counts []int) {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(counts)
	if nbin == 0 {
		return
	}

	rmax2 := rmax * rmax
	invStep := float64(nbin) / rmax

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := dx*dx + dy*dy + dz*dz
		if d2 < rmax2 {
			ibin := int(math.Sqrt(d2) * invStep)
			// Rounding at the outer edge can land exactly on nbin.
			if ibin >= nbin {
				ibin = nbin - 1
			}
			counts[ibin]++
		}
	}
}

// SphereCount32 is the float32 scalar reference implementation.
func SphereCount32(xs, ys, zs []float32, px, py, pz, rmax float32, counts []int) {
	if len(ys) != len(xs) || len(zs) != len(xs) {
		panic("kernel: coordinate slice length mismatch")
	}
	nbin := len(counts)
	if nbin == 0 {
		return
	}

	rmax2 := rmax * rmax
	invStep := float32(nbin) / rmax

	for i := range xs {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		d2 := dx*dx + dy*dy + dz*dz
		if d2 < rmax2 {
			ibin := int(math32.Sqrt(d2) * invStep)
			if ibin >= nbin {
				ibin = nbin - 1
			}
			counts[ibin]++
		}
	}
}
