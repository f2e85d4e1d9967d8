// Package kernel selects counting-kernel variants at runtime.
//
// Kernel variants (scalar fallback, SSE4.2, AVX, AVX2, AVX-512, NEON) are
// registered by the architecture packages under arch/. A Resolver maps a
// requested instruction-set ceiling plus the detected CPU capability to one
// concrete registry entry and memoizes the choice, so repeated calls with an
// unchanged ceiling skip re-resolution.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

// Errors returned by Resolve.
var (
	// ErrNoKernel indicates that no registered variant satisfied the ceiling.
	// The fallback variant is compatible with every CPU and every ceiling, so
	// this error signals a broken build (fallback not linked in), not a
	// runtime condition.
	ErrNoKernel = errors.New("kernel: no compatible counting kernel registered")

	// ErrBadCeiling indicates an ISA value outside the known enumeration.
	ErrBadCeiling = errors.New("kernel: unknown instruction-set ceiling")
)

// ISA names an instruction-set ceiling for kernel selection.
//
// ISAAuto picks the widest variant the running CPU supports. An explicit
// tier caps selection at that tier; the resolved variant may still be
// narrower when the hardware lacks the requested one.
type ISA int

const (
	ISAAuto ISA = iota
	ISAFallback
	ISASSE42
	ISAAVX
	ISAAVX2
	ISAAVX512
)

// String returns the canonical spelling of the ceiling.
func (isa ISA) String() string {
	switch isa {
	case ISAAuto:
		return "auto"
	case ISAFallback:
		return "fallback"
	case ISASSE42:
		return "sse42"
	case ISAAVX:
		return "avx"
	case ISAAVX2:
		return "avx2"
	case ISAAVX512:
		return "avx512"
	default:
		return fmt.Sprintf("ISA(%d)", int(isa))
	}
}

// ParseISA converts a config spelling into an ISA ceiling.
func ParseISA(s string) (ISA, error) {
	switch s {
	case "", "auto", "fastest":
		return ISAAuto, nil
	case "fallback", "none":
		return ISAFallback, nil
	case "sse42", "sse4.2":
		return ISASSE42, nil
	case "avx":
		return ISAAVX, nil
	case "avx2":
		return ISAAVX2, nil
	case "avx512", "avx512f":
		return ISAAVX512, nil
	default:
		return ISAAuto, fmt.Errorf("%w: %q", ErrBadCeiling, s)
	}
}

// maxRank maps the ceiling to the highest admissible SIMDLevel rank.
func (isa ISA) maxRank() (int, error) {
	switch isa {
	case ISAAuto:
		return math.MaxInt, nil
	case ISAFallback:
		return cpu.SIMDNone.Rank(), nil
	case ISASSE42:
		return cpu.SIMDSSE42.Rank(), nil
	case ISAAVX:
		return cpu.SIMDAVX.Rank(), nil
	case ISAAVX2:
		return cpu.SIMDAVX2.Rank(), nil
	case ISAAVX512:
		return cpu.SIMDAVX512.Rank(), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBadCeiling, int(isa))
	}
}

// Resolver resolves and memoizes kernel variants per requested ceiling.
//
// Each Resolver is an explicit cache object: callers that need different
// ceilings concurrently use separate Resolvers instead of racing on shared
// process-wide state. The zero value is not usable; use NewResolver or the
// package Default.
type Resolver struct {
	mu      sync.Mutex
	reg     *registry.OpRegistry
	ceiling ISA
	entry   *registry.OpEntry
	valid   bool
}

// Default resolves against the global registry. The drivers share it; they
// serialize on its internal lock, never on re-resolution, as long as the
// ceiling is unchanged between calls.
var Default = NewResolver(registry.Global)

// NewResolver returns a Resolver backed by the given registry.
func NewResolver(reg *registry.OpRegistry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve returns the best kernel variant for the ceiling on this CPU.
//
// The result is memoized keyed by the last-requested ceiling; a call with
// the same ceiling returns the cached entry without consulting the registry.
func (r *Resolver) Resolve(ceiling ISA) (*registry.OpEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.valid && r.ceiling == ceiling {
		return r.entry, nil
	}

	maxRank, err := ceiling.maxRank()
	if err != nil {
		return nil, err
	}

	entry := r.reg.Lookup(cpu.DetectFeatures(), maxRank)
	if entry == nil {
		return nil, ErrNoKernel
	}

	r.ceiling = ceiling
	r.entry = entry
	r.valid = true
	return entry, nil
}

// Invalidate drops the memoized entry, forcing the next Resolve to consult
// the registry again. Intended for tests that swap forced CPU features.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valid = false
	r.entry = nil
}
