//go:build amd64 && !purego

package avx2

import (
	"math"

	"github.com/chewxy/math32"
)

// Two 256-bit chunks in flight per iteration to hide multiply-add
// latency: 8 float64 or 16 float32 lanes.
const (
	lanes64 = 8
	lanes32 = 16
)

// SphereCount64 counts cell points inside a sphere of radius rmax around the
// probe, binned by radial shell. Squared distances are computed in lane-width
// chunks the compiler can keep in YMM registers; bin updates and the
// remainder tail are scalar. The counted set is identical to the fallback
// kernel by construction.
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
			if d2[l] < rmax2 {
				ibin := int(math.Sqrt(d2[l]) * invStep)
				if ibin >= nbin {
					ibin = nbin - 1
				}
				counts[ibin]++
			}
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		r2 := dx*dx + dy*dy + dz*dz
		if r2 < rmax2 {
			ibin := int(math.Sqrt(r2) * invStep)
			if ibin >= nbin {
				ibin = nbin - 1
			}
			counts[ibin]++
		}
	}
}

// SphereCount32 is the float32 form of SphereCount64 (16 lanes per chunk).
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
			if d2[l] < rmax2 {
				ibin := int(math32.Sqrt(d2[l]) * invStep)
				if ibin >= nbin {
					ibin = nbin - 1
				}
				counts[ibin]++
			}
		}
	}
	for ; i < n; i++ {
		dx := xs[i] - px
		dy := ys[i] - py
		dz := zs[i] - pz
		r2 := dx*dx + dy*dy + dz*dz
		if r2 < rmax2 {
			ibin := int(math32.Sqrt(r2) * invStep)
			if ibin >= nbin {
				ibin = nbin - 1
			}
			counts[ibin]++
		}
	}
}
