package generic

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the generic (pure Go scalar) kernels with the registry.
//
// The generic variant is the mandatory fallback: it is compatible with every
// CPU and every instruction-set ceiling, so dispatch can never come up empty.
//
// Priority: 0 (lowest - used only when no SIMD alternatives are available)
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "fallback",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
