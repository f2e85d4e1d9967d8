// Package cpu provides CPU feature detection for counting-kernel selection.
//
// This package detects SIMD instruction set extensions (SSE4.2, AVX, AVX2,
// AVX-512, NEON) available on the current processor and caches the results
// for efficient querying.
//
// Detection is performed lazily on the first call to DetectFeatures() and the
// results are cached for subsequent calls using sync.Once for thread-safety.
package cpu

import (
	"sync"
)

// SIMDLevel represents a SIMD instruction set extension level.
// Higher numeric values generally indicate more advanced SIMD capabilities,
// but levels are not strictly comparable across architectures (e.g., AVX2 vs NEON).
type SIMDLevel int

const (
	// SIMDNone indicates no SIMD optimization (pure Go scalar fallback).
	SIMDNone SIMDLevel = iota

	// SIMDSSE42 indicates x86-64 SSE4.2 (128-bit vectors).
	SIMDSSE42

	// SIMDAVX indicates x86-64 AVX (256-bit floating-point vectors).
	SIMDAVX

	// SIMDAVX2 indicates x86-64 AVX2 (256-bit vectors on FMA-era cores).
	SIMDAVX2

	// SIMDAVX512 indicates x86-64 AVX-512 (512-bit vectors).
	SIMDAVX512

	// SIMDNEON indicates ARM NEON / Advanced SIMD.
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE42:
		return "SSE4.2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Rank returns the position of the level in the widest-first preference order
// used for ceiling comparisons. NEON ranks alongside the 128-bit x86 tier:
// the two never coexist on one machine, but a single ordering keeps ceiling
// arithmetic architecture-independent.
func (s SIMDLevel) Rank() int {
	switch s {
	case SIMDNone:
		return 0
	case SIMDSSE42, SIMDNEON:
		return 10
	case SIMDAVX:
		return 15
	case SIMDAVX2:
		return 20
	case SIMDAVX512:
		return 30
	default:
		return -1
	}
}

// Features describes CPU capabilities relevant to counting-kernel selection.
type Features struct {
	// x86/amd64 SIMD features
	HasSSE42  bool // Streaming SIMD Extensions 4.2
	HasAVX    bool // Advanced Vector Extensions
	HasAVX2   bool // Advanced Vector Extensions 2
	HasAVX512 bool // Advanced Vector Extensions 512

	// ARM SIMD features
	HasNEON bool // ARM Advanced SIMD (NEON)

	// Control flags
	ForceGeneric bool // Disable all SIMD optimizations (for testing/debugging)

	// Runtime information
	Architecture string // runtime.GOARCH (e.g., "amd64", "arm64")
}

var (
	// detectedFeatures holds the cached CPU features detected on this system.
	detectedFeatures Features

	// detectOnce ensures feature detection runs exactly once, thread-safely.
	detectOnce sync.Once

	// detectMutex serializes access to detectOnce/detectedFeatures.
	detectMutex sync.Mutex

	// forcedFeatures allows overriding actual hardware detection for testing.
	forcedFeatures *Features

	// forcedMutex protects forcedFeatures from concurrent access during testing.
	forcedMutex sync.RWMutex
)

// DetectFeatures returns the CPU features available on the current system.
//
// Detection is performed once on the first call and cached for subsequent calls.
// This function is thread-safe and can be called concurrently from multiple goroutines.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// Best returns the widest SIMD level the given features support.
func Best(features Features) SIMDLevel {
	switch {
	case features.ForceGeneric:
		return SIMDNone
	case features.HasAVX512:
		return SIMDAVX512
	case features.HasAVX2:
		return SIMDAVX2
	case features.HasAVX:
		return SIMDAVX
	case features.HasSSE42:
		return SIMDSSE42
	case features.HasNEON:
		return SIMDNEON
	default:
		return SIMDNone
	}
}

// SetForcedFeatures overrides CPU feature detection with the specified features.
// This is intended for testing purposes only.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection clears any forced features and the detection cache.
// This is intended for testing purposes.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Supports returns true if the given CPU features support the specified SIMD level.
// This function is used by the kernel registry to determine implementation compatibility.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE42:
		return features.HasSSE42
	case SIMDAVX:
		return features.HasAVX
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDAVX512:
		return features.HasAVX512
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
