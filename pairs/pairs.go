// Package pairs counts point pairs by separation over a 3D point set, the
// two-point clustering primitive DD(r).
//
// The driver follows the same grid-plus-kernel pattern as the sphere
// sampler: the point set is gridded once per call, then every point's
// neighborhood is walked and a runtime-dispatched kernel histograms squared
// pair separations over the configured bin edges.
//
// Bin edges are lower-exclusive and upper-inclusive: bin k holds separations
// in (REdges[k], REdges[k+1]]. This deliberately differs from the sphere
// kernels, which use strict d < rmax; pair bins are explicit edges and the
// conventional two-point estimator includes the outer edge.
package pairs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cwbudde/algo-spatial/grid"
	"github.com/cwbudde/algo-spatial/internal/kernel"
)

// Defaults applied by Count for zero-valued optional config fields.
const (
	DefaultRefine         = 2
	DefaultMaxCellsPerDim = 120
)

// Errors returned by Count.
var (
	ErrInvalidEdges   = errors.New("pairs: bin edges must be ascending with at least two entries, starting at >= 0")
	ErrInvalidISA     = errors.New("pairs: unknown instruction-set ceiling")
	ErrDomainTooSmall = errors.New("pairs: maximum separation must stay below half the box extent")
	ErrInterrupted    = errors.New("pairs: interrupted")
)

// Reporter observes counting progress, advancing once per processed point.
type Reporter interface {
	Init(total int)
	Advance(done int)
	Finish()
}

// Config controls one Count call.
type Config struct {
	// REdges are the separation bin edges, ascending, at least two entries,
	// first entry >= 0. Bin k covers (REdges[k], REdges[k+1]].
	REdges []float64

	Periodic bool       // treat the domain as a torus
	Boxsize  [3]float64 // per-axis extent; 0 derives the axis from the data

	// RefineFactors sets the number of neighbor cells searched per side along
	// each axis. Values below 1 are auto-reset to DefaultRefine with a
	// warning.
	RefineFactors  [3]int
	MaxCellsPerDim int // 0 uses DefaultMaxCellsPerDim

	// ISA caps kernel selection: "auto", "fallback", "sse42", "avx", "avx2"
	// or "avx512". Empty means auto.
	ISA string

	Verbose bool
	Timing  bool

	Progress Reporter
	Logf     func(format string, args ...any)
}

// Result holds pair counts per separation bin.
type Result struct {
	REdges    []float64
	NumPoints int

	// NPairs[k] counts ordered pairs (i, j), i != j, whose separation falls
	// in bin k. For an auto-correlation each unordered pair contributes
	// twice.
	NPairs []uint64

	// WPairs[k] is the sum of weight products w[i]*w[j] over the same pairs.
	// Nil when the call was unweighted.
	WPairs []float64

	Elapsed time.Duration
}

// Count histograms all pair separations of the point set over cfg.REdges.
//
// ws may be nil for an unweighted count; when present it must parallel the
// coordinate arrays and per-pair weight products are accumulated per bin.
// Cancellation through ctx is observed once per processed point; on trip the
// partial histogram is discarded and the call reports ErrInterrupted.
func Count[F grid.Real](ctx context.Context, xs, ys, zs, ws []F, cfg Config) (*Result, error) {
	var start time.Time
	if cfg.Timing {
		start = time.Now()
	}

	nbin := len(cfg.REdges) - 1
	if nbin < 1 || cfg.REdges[0] < 0 {
		return nil, ErrInvalidEdges
	}
	for k := 0; k < nbin; k++ {
		if cfg.REdges[k+1] <= cfg.REdges[k] {
			return nil, ErrInvalidEdges
		}
	}
	rmax := cfg.REdges[nbin]

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
		refine = [3]int{DefaultRefine, DefaultRefine, DefaultRefine}
	}
	for a := 0; a < 3; a++ {
		if refine[a] < 1 {
			logf("pairs: refine factor %d on axis %d reset to %d", refine[a], a, DefaultRefine)
			refine[a] = DefaultRefine
		}
	}
	maxCells := cfg.MaxCellsPerDim
	if maxCells == 0 {
		maxCells = DefaultMaxCellsPerDim
	}

	bounds, err := grid.BoundsOf(xs, ys, zs)
	if err != nil {
		return nil, err
	}
	if cfg.Periodic {
		bounds = bounds.WithBox([3]F{F(cfg.Boxsize[0]), F(cfg.Boxsize[1]), F(cfg.Boxsize[2])})
		// rmax must stay strictly below half the box: at exactly half, a pair
		// separated by boxsize/2 sits on the inclusive outer edge through both
		// wrap images and would be counted twice.
		for a := 0; a < 3; a++ {
			if ext := float64(bounds.Extent(a)); 2*rmax >= ext {
				return nil, fmt.Errorf("%w: 2*rmax %g >= boxsize %g on axis %d", ErrDomainTooSmall, 2*rmax, ext, a)
			}
		}
	}

	g, err := grid.Build(xs, ys, zs, ws, bounds, F(rmax), refine, maxCells, cfg.Periodic)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		logf("pairs: mesh %dx%dx%d over %d points", g.NCells[0], g.NCells[1], g.NCells[2], len(xs))
	}

	entry, err := kernel.Default.Resolve(isa)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		logf("pairs: using %s counting kernel", entry.Name)
	}

	redges2 := make([]float64, nbin+1)
	for k := range redges2 {
		redges2[k] = cfg.REdges[k] * cfg.REdges[k]
	}

	counts := make([]uint64, nbin)
	var wsums []float64
	if ws != nil {
		wsums = make([]float64, nbin)
	}

	progress := cfg.Progress
	if !cfg.Verbose || progress == nil {
		progress = nopReporter{}
	}
	progress.Init(len(xs))

	countPlain := kernel.PairCounter[F](entry)
	countW := kernel.PairCounterW[F](entry)

	for i := range xs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}

		px, py, pz := xs[i], ys[i], zs[i]
		ix, iy, iz := g.CellCoordOf(px, py, pz)
		if ws != nil {
			pw := ws[i]
			g.WalkNeighbors(ix, iy, iz, px, py, pz, func(c *grid.Cell[F], sx, sy, sz F) {
				countW(c.X, c.Y, c.Z, c.W, sx, sy, sz, pw, redges2, counts, wsums)
			})
		} else {
			g.WalkNeighbors(ix, iy, iz, px, py, pz, func(c *grid.Cell[F], sx, sy, sz F) {
				countPlain(c.X, c.Y, c.Z, sx, sy, sz, redges2, counts)
			})
		}
		progress.Advance(i + 1)
	}
	progress.Finish()

	res := &Result{
		REdges:    append([]float64(nil), cfg.REdges...),
		NumPoints: len(xs),
		NPairs:    counts,
		WPairs:    wsums,
	}
	if cfg.Timing {
		res.Elapsed = time.Since(start)
	}
	return res, nil
}

type nopReporter struct{}

func (nopReporter) Init(int)    {}
func (nopReporter) Advance(int) {}
func (nopReporter) Finish()     {}
