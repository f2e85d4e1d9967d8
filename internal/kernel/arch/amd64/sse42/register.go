//go:build amd64 && !purego

package sse42

import (
	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// init registers the SSE4.2 kernels with the registry.
//
// SSE4.2 is the narrowest x86 tier with a distinct variant (128-bit vectors,
// Nehalem 2008+). It is also the lowest ceiling an explicit ISA request can
// name on amd64 short of the scalar fallback.
//
// Priority: 10
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "sse42",
		SIMDLevel: cpu.SIMDSSE42,
		Priority:  10,

		SphereCount64: SphereCount64,
		SphereCount32: SphereCount32,

		PairCount64: PairCount64,
		PairCount32: PairCount32,

		PairCountW64: PairCountW64,
		PairCountW32: PairCountW32,
	})
}
