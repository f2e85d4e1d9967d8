package kernel

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spatial/internal/cpu"
	"github.com/cwbudde/algo-spatial/internal/kernel/registry"
)

func newTestRegistry() *registry.OpRegistry {
	reg := &registry.OpRegistry{}
	reg.Register(registry.OpEntry{Name: "fallback", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(registry.OpEntry{Name: "sse42", SIMDLevel: cpu.SIMDSSE42, Priority: 10})
	reg.Register(registry.OpEntry{Name: "avx", SIMDLevel: cpu.SIMDAVX, Priority: 15})
	reg.Register(registry.OpEntry{Name: "avx2", SIMDLevel: cpu.SIMDAVX2, Priority: 20})
	reg.Register(registry.OpEntry{Name: "avx512", SIMDLevel: cpu.SIMDAVX512, Priority: 30})
	return reg
}

// TestResolve_CeilingAboveDetected forces the detector to report each tier in
// turn and requests a ceiling above it: resolution must land on the highest
// tier at or below the detected capability, never on an unsupported one.
func TestResolve_CeilingAboveDetected(t *testing.T) {
	defer cpu.ResetDetection()

	tests := []struct {
		name     string
		features cpu.Features
		ceiling  ISA
		want     string
	}{
		{"scalar CPU, avx512 requested", cpu.Features{}, ISAAVX512, "fallback"},
		{"sse42 CPU, avx512 requested", cpu.Features{HasSSE42: true}, ISAAVX512, "sse42"},
		{"avx CPU, avx512 requested", cpu.Features{HasSSE42: true, HasAVX: true}, ISAAVX512, "avx"},
		{"avx2 CPU, avx512 requested", cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true}, ISAAVX512, "avx2"},
		{"avx512 CPU, avx512 requested", cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true}, ISAAVX512, "avx512"},
		{"avx512 CPU, auto", cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true}, ISAAuto, "avx512"},
		{"avx512 CPU, ceiling below capability", cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true}, ISASSE42, "sse42"},
		{"avx512 CPU, fallback forced", cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true}, ISAFallback, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu.SetForcedFeatures(tt.features)
			r := NewResolver(newTestRegistry())

			entry, err := r.Resolve(tt.ceiling)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if entry.Name != tt.want {
				t.Errorf("Resolve = %q, want %q", entry.Name, tt.want)
			}
			if !cpu.Supports(tt.features, entry.SIMDLevel) {
				t.Errorf("resolved %q unsupported by forced features", entry.Name)
			}
		})
	}
}

func TestResolve_Memoization(t *testing.T) {
	defer cpu.ResetDetection()
	cpu.SetForcedFeatures(cpu.Features{HasSSE42: true, HasAVX: true})

	r := NewResolver(newTestRegistry())

	first, err := r.Resolve(ISAAuto)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Change the forced features without invalidating: the memoized entry
	// must be returned for the same ceiling.
	cpu.SetForcedFeatures(cpu.Features{})
	second, err := r.Resolve(ISAAuto)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second != first {
		t.Error("repeated Resolve with unchanged ceiling re-resolved")
	}

	// A different ceiling re-resolves against the new features.
	third, err := r.Resolve(ISAFallback)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if third.Name != "fallback" {
		t.Errorf("Resolve after ceiling change = %q, want fallback", third.Name)
	}

	// Invalidate drops the cache.
	r.Invalidate()
	fourth, err := r.Resolve(ISAFallback)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fourth.Name != "fallback" {
		t.Errorf("Resolve after Invalidate = %q, want fallback", fourth.Name)
	}
}

func TestResolve_NoFallbackRegistered(t *testing.T) {
	defer cpu.ResetDetection()
	cpu.SetForcedFeatures(cpu.Features{})

	reg := &registry.OpRegistry{}
	reg.Register(registry.OpEntry{Name: "avx2", SIMDLevel: cpu.SIMDAVX2, Priority: 20})

	r := NewResolver(reg)
	if _, err := r.Resolve(ISAAuto); !errors.Is(err, ErrNoKernel) {
		t.Fatalf("expected ErrNoKernel, got %v", err)
	}
}

func TestResolve_BadCeiling(t *testing.T) {
	r := NewResolver(newTestRegistry())
	if _, err := r.Resolve(ISA(99)); !errors.Is(err, ErrBadCeiling) {
		t.Fatalf("expected ErrBadCeiling, got %v", err)
	}
}

func TestParseISA(t *testing.T) {
	tests := []struct {
		in   string
		want ISA
	}{
		{"", ISAAuto},
		{"auto", ISAAuto},
		{"fastest", ISAAuto},
		{"fallback", ISAFallback},
		{"none", ISAFallback},
		{"sse42", ISASSE42},
		{"sse4.2", ISASSE42},
		{"avx", ISAAVX},
		{"avx2", ISAAVX2},
		{"avx512", ISAAVX512},
		{"avx512f", ISAAVX512},
	}
	for _, tt := range tests {
		got, err := ParseISA(tt.in)
		if err != nil {
			t.Errorf("ParseISA(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseISA(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseISA("mmx"); !errors.Is(err, ErrBadCeiling) {
		t.Errorf("expected ErrBadCeiling for unknown spelling, got %v", err)
	}
}

func TestISAString(t *testing.T) {
	for _, isa := range []ISA{ISAAuto, ISAFallback, ISASSE42, ISAAVX, ISAAVX2, ISAAVX512} {
		round, err := ParseISA(isa.String())
		if err != nil || round != isa {
			t.Errorf("round trip failed for %v: %v %v", isa, round, err)
		}
	}
}
