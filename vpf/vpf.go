// Package vpf computes the void probability function and its count-order
// generalization: the probability that a randomly placed sphere of radius r
// contains exactly k points, tabulated per radius bin.
//
// The driver grids the point set once per call, draws probe centers from a
// seeded generator, and accumulates per-sphere contained-point counts via
// runtime-dispatched counting kernels. A call is single-threaded and
// deterministic: the same seed and inputs produce the same probe sequence
// and an identical result matrix.
package vpf

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-spatial/grid"
	"github.com/cwbudde/algo-spatial/internal/kernel"
)

// Defaults applied by CountSpheres for zero-valued optional config fields.
const (
	// DefaultRefine subdivides cells to half the search radius, trading a
	// larger neighbor walk for tighter cells.
	DefaultRefine = 2

	// DefaultMaxCellsPerDim caps the mesh resolution per axis.
	DefaultMaxCellsPerDim = 120

	// DefaultMaxRejects bounds consecutive boundary rejections per accepted
	// probe in non-periodic domains. Rejection sampling near r = extent/2
	// would otherwise spin forever.
	DefaultMaxRejects = 10000
)

// Errors returned by CountSpheres.
var (
	ErrInvalidRadius      = errors.New("vpf: rmax must be positive")
	ErrInvalidBinCount    = errors.New("vpf: bin count must be positive")
	ErrInvalidSphereCount = errors.New("vpf: sphere count must be positive")
	ErrInvalidMaxOrder    = errors.New("vpf: max order must be positive")
	ErrInvalidISA         = errors.New("vpf: unknown instruction-set ceiling")
	ErrDomainTooSmall     = errors.New("vpf: sphere diameter exceeds the domain extent")
	ErrInterrupted        = errors.New("vpf: interrupted")
	ErrCountInvariant     = errors.New("vpf: histogram bucket exceeds sphere count")
	ErrSamplingExhausted  = errors.New("vpf: rejection sampling exhausted its retry budget")
)

// Reporter observes sampling progress. Progress is observational only: it
// advances once per accepted probe and has no effect on results.
type Reporter interface {
	Init(total int)
	Advance(done int)
	Finish()
}

// Config controls one CountSpheres call.
type Config struct {
	Rmax       float64 // largest sphere radius, in input coordinate units
	NumBins    int     // radius bins between 0 and Rmax
	NumSpheres int     // probe spheres to place
	MaxOrder   int     // count orders tabulated: k = 0..MaxOrder-1
	Seed       int64   // PRNG seed for probe placement

	Periodic bool       // treat the domain as a torus
	Boxsize  [3]float64 // per-axis extent; 0 derives the axis from the data

	// RefineFactors sets the number of neighbor cells searched per side along
	// each axis. Values below 1 are auto-reset to DefaultRefine with a
	// warning; this is a correction, not an error.
	RefineFactors  [3]int
	MaxCellsPerDim int // 0 uses DefaultMaxCellsPerDim

	// ISA caps kernel selection: "auto", "fallback", "sse42", "avx", "avx2"
	// or "avx512". Empty means auto.
	ISA string

	Verbose bool // enables progress reporting
	Timing  bool // measure wall-clock time into Result.Elapsed

	// MaxRejects bounds consecutive boundary rejections per accepted probe
	// in non-periodic mode. 0 uses DefaultMaxRejects.
	MaxRejects int

	// Progress receives sampling progress when Verbose is set. Nil disables.
	Progress Reporter

	// Logf receives warnings and verbose diagnostics. Nil uses log.Printf.
	Logf func(format string, args ...any)
}

// Result is the tabulated void probability function.
type Result struct {
	Rmax       float64
	NumBins    int
	NumSpheres int
	MaxOrder   int

	// P[bin][k] is the probability that a sphere of radius BinRadius(bin)
	// contains exactly k points. Rows slice one contiguous backing array.
	P [][]float64

	// Elapsed is the wall-clock duration of the call when Config.Timing was
	// set, zero otherwise.
	Elapsed time.Duration
}

// BinRadius returns the sphere radius of bin i (the bin's outer edge).
func (r *Result) BinRadius(i int) float64 {
	return float64(i+1) * r.Rmax / float64(r.NumBins)
}

// CountSpheres places cfg.NumSpheres random spheres in the domain of the
// point set and tabulates, per radius bin, the distribution of contained
// point counts.
//
// The call validates before it allocates, builds the search mesh once,
// resolves a counting kernel for the configured instruction-set ceiling and
// samples to completion. Cancellation through ctx is cooperative: it is
// observed once per accepted probe, partial state is discarded, and the
// call reports ErrInterrupted, never a partial result.
func CountSpheres[F grid.Real](ctx context.Context, xs, ys, zs []F, cfg Config) (*Result, error) {
	var start time.Time
	if cfg.Timing {
		start = time.Now()
	}

	if cfg.Rmax <= 0 {
		return nil, ErrInvalidRadius
	}
	if cfg.NumBins <= 0 {
		return nil, ErrInvalidBinCount
	}
	if cfg.NumSpheres <= 0 {
		return nil, ErrInvalidSphereCount
	}
	if cfg.MaxOrder <= 0 {
		return nil, ErrInvalidMaxOrder
	}

	isa, err := kernel.ParseISA(cfg.ISA)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidISA, cfg.ISA)
	}

	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}

	refine := cfg.RefineFactors
	if refine == [3]int{} {
		// Unset, not invalid: apply defaults without a warning.
		refine = [3]int{DefaultRefine, DefaultRefine, DefaultRefine}
	}
	for a := 0; a < 3; a++ {
		if refine[a] < 1 {
			logf("vpf: refine factor %d on axis %d reset to %d", refine[a], a, DefaultRefine)
			refine[a] = DefaultRefine
		}
	}
	maxCells := cfg.MaxCellsPerDim
	if maxCells == 0 {
		maxCells = DefaultMaxCellsPerDim
	}
	maxRejects := cfg.MaxRejects
	if maxRejects == 0 {
		maxRejects = DefaultMaxRejects
	}

	bounds, err := grid.BoundsOf(xs, ys, zs)
	if err != nil {
		return nil, err
	}
	if cfg.Periodic {
		bounds = bounds.WithBox([3]F{F(cfg.Boxsize[0]), F(cfg.Boxsize[1]), F(cfg.Boxsize[2])})
	}

	// A sphere must fit in the domain: in a periodic box wrap geometry is
	// only single-image below half the extent, and in an open box no probe
	// position could ever be accepted.
	for a := 0; a < 3; a++ {
		ext := float64(bounds.Extent(a))
		if cfg.Periodic && 2*cfg.Rmax > ext {
			return nil, fmt.Errorf("%w: 2*rmax %g > boxsize %g on axis %d", ErrDomainTooSmall, 2*cfg.Rmax, ext, a)
		}
		if !cfg.Periodic && 2*cfg.Rmax >= ext {
			return nil, fmt.Errorf("%w: 2*rmax %g >= extent %g on axis %d", ErrDomainTooSmall, 2*cfg.Rmax, ext, a)
		}
	}

	g, err := grid.Build(xs, ys, zs, nil, bounds, F(cfg.Rmax), refine, maxCells, cfg.Periodic)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		logf("vpf: mesh %dx%dx%d over %d points", g.NCells[0], g.NCells[1], g.NCells[2], len(xs))
	}

	entry, err := kernel.Default.Resolve(isa)
	if err != nil {
		return nil, err
	}
	count := kernel.SphereCounter[F](entry)
	if cfg.Verbose {
		logf("vpf: using %s counting kernel", entry.Name)
	}

	nbin, norder := cfg.NumBins, cfg.MaxOrder
	pN := make([]int, nbin*norder)
	perProbe := make([]int, nbin)
	rng := rand.New(rand.NewSource(cfg.Seed))

	progress := cfg.Progress
	if !cfg.Verbose || progress == nil {
		progress = nopReporter{}
	}
	progress.Init(cfg.NumSpheres)

	rejects := 0
	for accepted := 0; accepted < cfg.NumSpheres; {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}

		px := float64(bounds.Min[0]) + rng.Float64()*float64(bounds.Extent(0))
		py := float64(bounds.Min[1]) + rng.Float64()*float64(bounds.Extent(1))
		pz := float64(bounds.Min[2]) + rng.Float64()*float64(bounds.Extent(2))

		if !cfg.Periodic && !sphereInside(bounds, px, py, pz, cfg.Rmax) {
			rejects++
			if rejects > maxRejects {
				return nil, fmt.Errorf("%w: %d consecutive boundary rejections", ErrSamplingExhausted, rejects)
			}
			continue
		}
		rejects = 0

		fx, fy, fz := F(px), F(py), F(pz)
		for i := range perProbe {
			perProbe[i] = 0
		}
		ix, iy, iz := g.CellCoordOf(fx, fy, fz)
		g.WalkNeighbors(ix, iy, iz, fx, fy, fz, func(c *grid.Cell[F], sx, sy, sz F) {
			count(c.X, c.Y, c.Z, sx, sy, sz, F(cfg.Rmax), perProbe)
		})

		// Larger spheres contain everything smaller ones do: convert the
		// per-shell counts to cumulative-over-radius counts.
		for i := 1; i < nbin; i++ {
			perProbe[i] += perProbe[i-1]
		}
		for i := 0; i < nbin; i++ {
			if k := perProbe[i]; k < norder {
				pN[i*norder+k]++
			}
		}

		accepted++
		progress.Advance(accepted)
	}
	progress.Finish()

	res := &Result{
		Rmax:       cfg.Rmax,
		NumBins:    nbin,
		NumSpheres: cfg.NumSpheres,
		MaxOrder:   norder,
	}
	backing := make([]float64, nbin*norder)
	res.P = make([][]float64, nbin)
	inv := 1 / float64(cfg.NumSpheres)
	for i := 0; i < nbin; i++ {
		row := backing[i*norder : (i+1)*norder : (i+1)*norder]
		for k := 0; k < norder; k++ {
			c := pN[i*norder+k]
			if c > cfg.NumSpheres {
				return nil, fmt.Errorf("%w: bin %d order %d holds %d of %d", ErrCountInvariant, i, k, c, cfg.NumSpheres)
			}
			row[k] = float64(c) * inv
		}
		res.P[i] = row
	}

	if cfg.Timing {
		res.Elapsed = time.Since(start)
	}
	return res, nil
}

// sphereInside reports whether a sphere of radius r centered at (px, py, pz)
// lies entirely within the bounding box.
func sphereInside[F grid.Real](b grid.Bounds[F], px, py, pz, r float64) bool {
	return px-r >= float64(b.Min[0]) && px+r <= float64(b.Max[0]) &&
		py-r >= float64(b.Min[1]) && py+r <= float64(b.Max[1]) &&
		pz-r >= float64(b.Min[2]) && pz+r <= float64(b.Max[2])
}

type nopReporter struct{}

func (nopReporter) Init(int)    {}
func (nopReporter) Advance(int) {}
func (nopReporter) Finish()     {}
