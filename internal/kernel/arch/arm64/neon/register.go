//go:build arm64 && !purego

package neon

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the NEON kernels with the registry.
//
// NEON (Advanced SIMD) is mandatory on ARMv8, so on arm64 this variant is
// effectively always selected unless the ceiling forces the fallback.
//
// Priority: 10
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  10,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
