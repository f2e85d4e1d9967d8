//go:build amd64 && !purego

package avx

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the AVX kernels with the registry.
//
// AVX provides 256-bit floating-point vectors (Sandy Bridge 2011+) without
// the integer and FMA extensions of AVX2.
//
// Priority: 15
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx",
		SIMDLevel: cpu.SIMDAVX,
		Priority:  15,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
