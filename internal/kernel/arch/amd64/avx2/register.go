//go:build amd64 && !purego

package avx2

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the AVX2 kernels with the registry.
//
// AVX2 provides 256-bit vectors with FMA-class cores (Haswell 2013+,
// Excavator 2015+); the kernels keep two chunks in flight per iteration.
//
// Priority: 20 (preferred over AVX, SSE4.2 and fallback when available)
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx2",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
