//go:build purego && (amd64 || arm64)

package kernel

// Under the purego tag the architecture kernel packages are excluded, so
// only the scalar fallback registers.

import (
	_ "github.com/cwbudde/algo-spatial/internal/kernel/arch/generic"
)
