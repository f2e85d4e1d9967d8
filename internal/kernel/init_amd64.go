//go:build amd64 && !purego

package kernel

// This file imports amd64-specific kernel packages to trigger their init()
// functions, which register variants with the global registry.

import (
	// Generic kernels (pure Go scalar fallback)
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/generic"

	// AMD64 kernels, widest first
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/amd64/avx"
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/amd64/avx2"
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/amd64/avx512"
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/amd64/sse42"
)
