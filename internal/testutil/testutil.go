// Package testutil provides deterministic point-cloud generators for tests.
package testutil

import (
	"math/rand"
)

// UniformBox generates n points uniformly distributed in [0, box)^3 with a
// fixed seed for reproducibility.
func UniformBox(seed int64, n int, box float64) (xs, ys, zs []float64) {
	rng := rand.New(rand.NewSource(seed))
	xs = make([]float64, n)
	ys = make([]float64, n)
	zs = make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = rng.Float64() * box
		ys[i] = rng.Float64() * box
		zs[i] = rng.Float64() * box
	}
	return xs, ys, zs
}

// Lattice generates an m^3 cubic lattice of points with spacing box/m,
// offset to cell centers.
func Lattice(m int, box float64) (xs, ys, zs []float64) {
	step := box / float64(m)
	n := m * m * m
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	zs = make([]float64, 0, n)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			for k := 0; k < m; k++ {
				xs = append(xs, (float64(i)+0.5)*step)
				ys = append(ys, (float64(j)+0.5)*step)
				zs = append(zs, (float64(k)+0.5)*step)
			}
		}
	}
	return xs, ys, zs
}

// ToFloat32 narrows a float64 slice for single-precision test runs.
func ToFloat32(xs []float64) []float32 {
	out := make([]float32, len(xs))
	for i, v := range xs {
		out[i] = float32(v)
	}
	return out
}
