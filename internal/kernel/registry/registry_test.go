package registry

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spatial/internal/cpu"
)

func dummyEntry(name string, level cpu.SIMDLevel, priority int) OpEntry {
	return OpEntry{
		Name:      name,
		SIMDLevel: level,
		Priority:  priority,
	}
}

func TestOpRegistry_Register(t *testing.T) {
	reg := &OpRegistry{}

	reg.Register(dummyEntry("fallback", cpu.SIMDNone, 0))
	reg.Register(dummyEntry("avx2", cpu.SIMDAVX2, 20))

	entries := reg.ListEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "avx2" {
		t.Errorf("expected highest priority first, got %q", entries[0].Name)
	}
}

func TestOpRegistry_Lookup_Priority(t *testing.T) {
	reg := &OpRegistry{}

	// Register in scrambled order to exercise sorting.
	reg.Register(dummyEntry("fallback", cpu.SIMDNone, 0))
	reg.Register(dummyEntry("avx512", cpu.SIMDAVX512, 30))
	reg.Register(dummyEntry("sse42", cpu.SIMDSSE42, 10))
	reg.Register(dummyEntry("avx2", cpu.SIMDAVX2, 20))
	reg.Register(dummyEntry("avx", cpu.SIMDAVX, 15))

	tests := []struct {
		name     string
		features cpu.Features
		want     string
	}{
		{
			name:     "AVX-512 capable - widest wins",
			features: cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true},
			want:     "avx512",
		},
		{
			name:     "AVX2 capable",
			features: cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true},
			want:     "avx2",
		},
		{
			name:     "AVX only",
			features: cpu.Features{HasSSE42: true, HasAVX: true},
			want:     "avx",
		},
		{
			name:     "SSE4.2 only",
			features: cpu.Features{HasSSE42: true},
			want:     "sse42",
		},
		{
			name:     "no SIMD - fallback",
			features: cpu.Features{},
			want:     "fallback",
		},
		{
			name:     "ForceGeneric overrides capability",
			features: cpu.Features{HasAVX512: true, ForceGeneric: true},
			want:     "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := reg.Lookup(tt.features, math.MaxInt)
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}
			if entry.Name != tt.want {
				t.Errorf("Lookup = %q, want %q", entry.Name, tt.want)
			}
		})
	}
}

func TestOpRegistry_Lookup_Ceiling(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(dummyEntry("fallback", cpu.SIMDNone, 0))
	reg.Register(dummyEntry("sse42", cpu.SIMDSSE42, 10))
	reg.Register(dummyEntry("avx2", cpu.SIMDAVX2, 20))
	reg.Register(dummyEntry("avx512", cpu.SIMDAVX512, 30))

	all := cpu.Features{HasSSE42: true, HasAVX: true, HasAVX2: true, HasAVX512: true}

	tests := []struct {
		name    string
		maxRank int
		want    string
	}{
		{"unbounded", math.MaxInt, "avx512"},
		{"capped at AVX2", cpu.SIMDAVX2.Rank(), "avx2"},
		{"capped at AVX admits narrower tiers only", cpu.SIMDAVX.Rank(), "sse42"},
		{"capped at scalar", cpu.SIMDNone.Rank(), "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := reg.Lookup(all, tt.maxRank)
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}
			if entry.Name != tt.want {
				t.Errorf("Lookup = %q, want %q", entry.Name, tt.want)
			}
		})
	}
}

func TestOpRegistry_Lookup_NoFallback(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(dummyEntry("avx2", cpu.SIMDAVX2, 20))

	// A CPU without AVX2 and a registry without a fallback: nothing matches.
	if entry := reg.Lookup(cpu.Features{HasSSE42: true}, math.MaxInt); entry != nil {
		t.Errorf("expected nil, got %q", entry.Name)
	}
}

func TestOpRegistry_Reset(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(dummyEntry("fallback", cpu.SIMDNone, 0))
	reg.Reset()
	if entries := reg.ListEntries(); len(entries) != 0 {
		t.Fatalf("expected empty registry after Reset, got %d entries", len(entries))
	}
}
