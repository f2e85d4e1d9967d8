// Package registry provides the implementation registry for counting kernels.
//
// The registry-based dispatch system allows multiple kernel variants
// (generic, SSE4.2, AVX, AVX2, AVX-512, NEON) to coexist. The best variant
// for the current CPU, bounded by a caller-requested instruction-set ceiling,
// is selected at runtime.
//
// Architecture-specific kernel packages register themselves via init()
// functions, and the kernel package uses the registry to select an
// implementation based on detected CPU features.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-spatial/internal/cpu"
)

// SphereCount64 counts the points of one cell that fall inside a sphere of
// radius rmax centered on the probe (px, py, pz), incrementing counts by
// radial shell: counts[floor(dist/(rmax/len(counts)))]++ for dist < rmax.
type SphereCount64 func(xs, ys, zs []float64, px, py, pz, rmax float64, counts []int)

// SphereCount32 is the float32 form of SphereCount64.
type SphereCount32 func(xs, ys, zs []float32, px, py, pz, rmax float32, counts []int)

// PairCount64 histograms the squared distances from the probe point to one
// cell's points over squared bin edges redges2 (ascending, len nbin+1).
// A distance d falls in bin k when redges2[k] < d*d <= redges2[k+1].
type PairCount64 func(xs, ys, zs []float64, px, py, pz float64, redges2 []float64, counts []uint64)

// PairCount32 is the float32 form of PairCount64. Squared edges stay in
// float64 so the in/out decision does not depend on a lossy narrowing.
type PairCount32 func(xs, ys, zs []float32, px, py, pz float32, redges2 []float64, counts []uint64)

// PairCountW64 is PairCount64 with per-pair weights: each counted pair also
// adds ws[i]*pw into wsums for its bin.
type PairCountW64 func(xs, ys, zs, ws []float64, px, py, pz, pw float64, redges2 []float64, counts []uint64, wsums []float64)

// PairCountW32 is the float32 form of PairCountW64. Weight products
// accumulate in float64.
type PairCountW32 func(xs, ys, zs, ws []float32, px, py, pz, pw float32, redges2 []float64, counts []uint64, wsums []float64)

// OpEntry represents a registered kernel variant.
//
// Each entry carries typed function pointers for both numeric precisions at a
// specific SIMD level. Every field must be populated: the drivers select one
// entry per call and expect all counting modes to be present on it.
type OpEntry struct {
	// Name is a human-readable identifier for this variant (e.g., "avx2", "neon").
	Name string

	// SIMDLevel indicates the SIMD instruction set required for this variant.
	SIMDLevel cpu.SIMDLevel

	// Priority determines selection order when multiple compatible variants
	// exist. Higher priority variants are preferred. Suggested priorities:
	//   - Generic (SIMDNone): 0
	//   - SSE4.2/NEON: 10
	//   - AVX: 15
	//   - AVX2: 20
	//   - AVX-512: 30
	Priority int

	// Sphere-counting kernels, one per precision.
	SphereCount64 SphereCount64
	SphereCount32 SphereCount32

	// Pair-counting kernels, one per precision.
	PairCount64 PairCount64
	PairCount32 PairCount32

	// Weighted pair-counting kernels, one per precision.
	PairCountW64 PairCountW64
	PairCountW32 PairCountW32
}

// OpRegistry manages the registration and lookup of kernel variants.
//
// Variants register themselves via init() functions. At runtime, Lookup()
// selects the highest-priority variant compatible with the current CPU and
// the requested ceiling.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool // true if entries are sorted by priority (descending)
}

// Global is the default registry instance used by the kernel package.
var Global = &OpRegistry{}

// Register adds a kernel variant to the registry.
//
// This function is typically called from init() functions in architecture-
// specific kernel packages. It is safe to call concurrently, but all
// registrations should complete before the first call to Lookup().
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup finds the best kernel variant for the given CPU features whose
// SIMD level does not rank above maxRank.
//
// Returns the highest-priority entry compatible with both constraints. If no
// compatible variant is found, returns nil (which should never happen if the
// generic fallback is registered — it is compatible with every ceiling).
//
// This function is thread-safe and performs lazy sorting of entries on first call.
func (r *OpRegistry) Lookup(features cpu.Features, maxRank int) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if entry.SIMDLevel.Rank() > maxRank {
			continue
		}
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

// sortByPriority sorts entries by priority in descending order.
// Must be called with r.mu held (write lock).
func (r *OpRegistry) sortByPriority() {
	// Simple insertion sort (registry is small, ~3-6 entries)
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of all registered entries, sorted by priority.
// This function is primarily intended for testing and debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all registered entries.
// This function is intended for testing purposes only.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
