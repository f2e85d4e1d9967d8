//go:build arm64 && !purego

package kernel

// This file imports arm64-specific kernel packages to trigger their init()
// functions, which register variants with the global registry.

import (
	// Generic kernels (pure Go scalar fallback)
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/generic"

	// ARM64 kernels
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/arm64/neon"
)
