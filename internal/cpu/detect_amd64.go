//go:build amd64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs CPU feature detection on amd64 systems.
//
// Uses golang.org/x/sys/cpu which provides portable CPUID access. The
// HasAVX512 flag there is the composite F+BW+CD+DQ+VL check, which is the
// baseline the AVX-512 counting kernels assume.
func detectFeaturesImpl() Features {
	return Features{
		HasSSE42:     cpu.X86.HasSSE42,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		Architecture: runtime.GOARCH,
	}
}
