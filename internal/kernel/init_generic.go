//go:build !amd64 && !arm64

package kernel

// This file imports the generic kernel package for other architectures.

import (
	// Generic kernels (pure Go scalar fallback)
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/generic"
)
