package kernel

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// Every compiled-in variant must count exactly the same points into exactly
// the same bins as the scalar fallback: the in/out decision is an exact
// threshold comparison, never an approximation. Weighted sums may differ in
// rounding from summation order, so they get a tolerance; counts get none.
func TestVariantsMatchFallback(t *testing.T) {
	entries := registry.Global.ListEntries()
	if len(entries) == 0 {
		t.Fatal("no kernel variants registered - init() imports missing")
	}

	var fallback *registry.OpEntry
	for i := range entries {
		if entries[i].Name == "fallback" {
			fallback = &entries[i]
		}
	}
	if fallback == nil {
		t.Fatal("fallback variant not registered")
	}

	rng := rand.New(rand.NewSource(7))
	const n = 1023 // odd size to exercise every tail path
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	ws := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = rng.Float64() * 10
		ys[i] = rng.Float64() * 10
		zs[i] = rng.Float64() * 10
		ws[i] = rng.Float64()
	}
	xs32 := narrow(xs)
	ys32 := narrow(ys)
	zs32 := narrow(zs)
	ws32 := narrow(ws)

	const (
		px, py, pz = 5.0, 5.0, 5.0
		rmax       = 4.0
		nbin       = 8
	)
	redges2 := make([]float64, nbin+1)
	for k := range redges2 {
		r := float64(k) * rmax / float64(nbin)
		redges2[k] = r * r
	}

	wantSphere64 := make([]int, nbin)
	fallback.SphereCount64(xs, ys, zs, px, py, pz, rmax, wantSphere64)
	wantSphere32 := make([]int, nbin)
	fallback.SphereCount32(xs32, ys32, zs32, px, py, pz, rmax, wantSphere32)
	wantPair64 := make([]uint64, nbin)
	fallback.PairCount64(xs, ys, zs, px, py, pz, redges2, wantPair64)
	wantPair32 := make([]uint64, nbin)
	fallback.PairCount32(xs32, ys32, zs32, px, py, pz, redges2, wantPair32)
	wantPairW64 := make([]uint64, nbin)
	wantWsum64 := make([]float64, nbin)
	fallback.PairCountW64(xs, ys, zs, ws, px, py, pz, 0.5, redges2, wantPairW64, wantWsum64)
	wantPairW32 := make([]uint64, nbin)
	wantWsum32 := make([]float64, nbin)
	fallback.PairCountW32(xs32, ys32, zs32, ws32, px, py, pz, 0.5, redges2, wantPairW32, wantWsum32)

	for _, e := range entries {
		if e.Name == "fallback" {
			continue
		}
		t.Run(e.Name, func(t *testing.T) {
			got := make([]int, nbin)
			e.SphereCount64(xs, ys, zs, px, py, pz, rmax, got)
			for k := range got {
				if got[k] != wantSphere64[k] {
					t.Errorf("SphereCount64 bin %d = %d, want %d", k, got[k], wantSphere64[k])
				}
			}

			got32 := make([]int, nbin)
			e.SphereCount32(xs32, ys32, zs32, px, py, pz, rmax, got32)
			for k := range got32 {
				if got32[k] != wantSphere32[k] {
					t.Errorf("SphereCount32 bin %d = %d, want %d", k, got32[k], wantSphere32[k])
				}
			}

			gotPairs := make([]uint64, nbin)
			e.PairCount64(xs, ys, zs, px, py, pz, redges2, gotPairs)
			for k := range gotPairs {
				if gotPairs[k] != wantPair64[k] {
					t.Errorf("PairCount64 bin %d = %d, want %d", k, gotPairs[k], wantPair64[k])
				}
			}

			gotPairs32 := make([]uint64, nbin)
			e.PairCount32(xs32, ys32, zs32, px, py, pz, redges2, gotPairs32)
			for k := range gotPairs32 {
				if gotPairs32[k] != wantPair32[k] {
					t.Errorf("PairCount32 bin %d = %d, want %d", k, gotPairs32[k], wantPair32[k])
				}
			}

			gotPairsW := make([]uint64, nbin)
			gotWsums := make([]float64, nbin)
			e.PairCountW64(xs, ys, zs, ws, px, py, pz, 0.5, redges2, gotPairsW, gotWsums)
			for k := range gotPairsW {
				if gotPairsW[k] != wantPairW64[k] {
					t.Errorf("PairCountW64 bin %d = %d, want %d", k, gotPairsW[k], wantPairW64[k])
				}
				if diff := gotWsums[k] - wantWsum64[k]; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("PairCountW64 wsum bin %d = %g, want %g", k, gotWsums[k], wantWsum64[k])
				}
			}

			gotPairsW32 := make([]uint64, nbin)
			gotWsums32 := make([]float64, nbin)
			e.PairCountW32(xs32, ys32, zs32, ws32, px, py, pz, 0.5, redges2, gotPairsW32, gotWsums32)
			for k := range gotPairsW32 {
				if gotPairsW32[k] != wantPairW32[k] {
					t.Errorf("PairCountW32 bin %d = %d, want %d", k, gotPairsW32[k], wantPairW32[k])
				}
				if diff := gotWsums32[k] - wantWsum32[k]; diff > 1e-6 || diff < -1e-6 {
					t.Errorf("PairCountW32 wsum bin %d = %g, want %g", k, gotWsums32[k], wantWsum32[k])
				}
			}
		})
	}
}

func narrow(xs []float64) []float32 {
	out := make([]float32, len(xs))
	for i, v := range xs {
		out[i] = float32(v)
	}
	return out
}
