package kernel

import (
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// Real constrains the coordinate element types the kernels support. The
// constraint is exact (no ~) so that a []F always asserts cleanly to the
// matching concrete slice type.
type Real interface {
	float32 | float64
}

// SphereCounter adapts the entry's sphere-counting kernel to precision F.
// Both precisions of every variant are mandatory at registration, so the
// returned function is never nil.
func SphereCounter[F Real](e *registry.OpEntry) func(xs, ys, zs []F, px, py, pz, rmax F, counts []int) {
	var zero F
	switch any(zero).(type) {
	case float64:
		fn := e.SphereCount64
		return func(xs, ys, zs []F, px, py, pz, rmax F, counts []int) {
			fn(any(xs).([]float64), any(ys).([]float64), any(zs).([]float64),
				float64(px), float64(py), float64(pz), float64(rmax), counts)
		}
	default:
		fn := e.SphereCount32
		return func(xs, ys, zs []F, px, py, pz, rmax F, counts []int) {
			fn(any(xs).([]float32), any(ys).([]float32), any(zs).([]float32),
				float32(px), float32(py), float32(pz), float32(rmax), counts)
		}
	}
}

// PairCounter adapts the entry's pair-counting kernel to precision F.
func PairCounter[F Real](e *registry.OpEntry) func(xs, ys, zs []F, px, py, pz F, redges2 []float64, counts []uint64) {
	var zero F
	switch any(zero).(type) {
	case float64:
		fn := e.PairCount64
		return func(xs, ys, zs []F, px, py, pz F, redges2 []float64, counts []uint64) {
			fn(any(xs).([]float64), any(ys).([]float64), any(zs).([]float64),
				float64(px), float64(py), float64(pz), redges2, counts)
		}
	default:
		fn := e.PairCount32
		return func(xs, ys, zs []F, px, py, pz F, redges2 []float64, counts []uint64) {
			fn(any(xs).([]float32), any(ys).([]float32), any(zs).([]float32),
				float32(px), float32(py), float32(pz), redges2, counts)
		}
	}
}

// PairCounterW adapts the entry's weighted pair-counting kernel to precision F.
func PairCounterW[F Real](e *registry.OpEntry) func(xs, ys, zs, ws []F, px, py, pz, pw F, redges2 []float64, counts []uint64, wsums []float64) {
	var zero F
	switch any(zero).(type) {
	case float64:
		fn := e.PairCountW64
		return func(xs, ys, zs, ws []F, px, py, pz, pw F, redges2 []float64, counts []uint64, wsums []float64) {
			fn(any(xs).([]float64), any(ys).([]float64), any(zs).([]float64), any(ws).([]float64),
				float64(px), float64(py), float64(pz), float64(pw), redges2, counts, wsums)
		}
	default:
		fn := e.PairCountW32
		return func(xs, ys, zs, ws []F, px, py, pz, pw F, redges2 []float64, counts []uint64, wsums []float64) {
			fn(any(xs).([]float32), any(ys).([]float32), any(zs).([]float32), any(ws).([]float32),
				float32(px), float32(py), float32(pz), float32(pw), redges2, counts, wsums)
		}
	}
}
