package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spatial/internal/testutil"
)

// buildWrapGrid places a single data point near the upper box edge so only a
// periodic walk can see it from a probe near the lower edge.
func buildWrapGrid(t *testing.T, periodic bool) *Grid[float64] {
	t.Helper()

	xs := []float64{99.5}
	ys := []float64{50}
	zs := []float64{50}
	bounds := Bounds[float64]{}.WithBox([3]float64{100, 100, 100})

	g, err := Build(xs, ys, zs, nil, bounds, 2.0, [3]int{2, 2, 2}, 20, periodic)
	require.NoError(t, err)
	return g
}

// visitDistances walks the neighborhood of the probe and collects the
// distance from the (possibly shifted) probe to every visited point.
func visitDistances(g *Grid[float64], px, py, pz float64) []float64 {
	ix, iy, iz := g.CellCoordOf(px, py, pz)
	var dists []float64
	g.WalkNeighbors(ix, iy, iz, px, py, pz, func(c *Cell[float64], sx, sy, sz float64) {
		for i := 0; i < c.Len(); i++ {
			dx := c.X[i] - sx
			dy := c.Y[i] - sy
			dz := c.Z[i] - sz
			dists = append(dists, math.Sqrt(dx*dx+dy*dy+dz*dz))
		}
	})
	return dists
}

func TestWalkNeighbors_PeriodicWrap(t *testing.T) {
	g := buildWrapGrid(t, true)

	// Probe at x=0.5 sits one unit from the point at x=99.5 across the seam.
	dists := visitDistances(g, 0.5, 50, 50)
	require.Len(t, dists, 1)
	assert.InDelta(t, 1.0, dists[0], 1e-12)
}

func TestWalkNeighbors_NonPeriodicNoWrap(t *testing.T) {
	g := buildWrapGrid(t, false)

	dists := visitDistances(g, 0.5, 50, 50)
	assert.Empty(t, dists, "point across the seam must be invisible without wrapping")
}

func TestWalkNeighbors_VisitsAllPointsWithinRadius(t *testing.T) {
	// Lattice of points; every point within rmax of the probe must appear in
	// some visited cell regardless of where the probe lands.
	xs, ys, zs := testutil.Lattice(10, 10)
	bounds := Bounds[float64]{}.WithBox([3]float64{10, 10, 10})
	rmax := 2.0

	g, err := Build(xs, ys, zs, nil, bounds, rmax, [3]int{2, 2, 2}, 120, true)
	require.NoError(t, err)

	for _, probe := range [][3]float64{{5, 5, 5}, {0.1, 0.1, 0.1}, {9.9, 4.2, 0.3}} {
		seen := 0
		for _, d := range visitDistances(g, probe[0], probe[1], probe[2]) {
			if d < rmax {
				seen++
			}
		}

		// Brute force with the minimum image convention.
		want := 0
		for i := range xs {
			dx := minImage(xs[i]-probe[0], 10)
			dy := minImage(ys[i]-probe[1], 10)
			dz := minImage(zs[i]-probe[2], 10)
			if math.Sqrt(dx*dx+dy*dy+dz*dz) < rmax {
				want++
			}
		}
		assert.Equal(t, want, seen, "probe %v", probe)
	}
}

func minImage(d, box float64) float64 {
	for d > box/2 {
		d -= box
	}
	for d < -box/2 {
		d += box
	}
	return d
}

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, n, want int
	}{
		{0, 5, 0},
		{4, 5, 0},
		{5, 5, 1},
		{-1, 5, -1},
		{-5, 5, -1},
		{-6, 5, -2},
		{12, 5, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, floorDiv(c.a, c.n), "floorDiv(%d, %d)", c.a, c.n)
	}
}
