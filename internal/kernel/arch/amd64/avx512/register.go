//go:build amd64 && !purego

package avx512

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the AVX-512 kernels with the registry.
//
// Requires the F+BW+CD+DQ+VL subset reported as a single composite flag by
// the detector (Skylake-X 2017+). Widest tier; selected only when the
// requested ceiling admits it.
//
// Priority: 30 (highest)
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx512",
		SIMDLevel: cpu.SIMDAVX512,
		Priority:  30,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
