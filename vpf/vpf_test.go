package vpf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spatial/internal/testutil"
)

func discard(string, ...any) {}

func baseConfig() Config {
	return Config{
		Rmax:       0.1,
		NumBins:    4,
		NumSpheres: 200,
		MaxOrder:   8,
		Seed:       42,
		Logf:       discard,
	}
}

func TestCountSpheres_Validation(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero rmax", func(c *Config) { c.Rmax = 0 }, ErrInvalidRadius},
		{"negative rmax", func(c *Config) { c.Rmax = -1 }, ErrInvalidRadius},
		{"zero bins", func(c *Config) { c.NumBins = 0 }, ErrInvalidBinCount},
		{"zero spheres", func(c *Config) { c.NumSpheres = 0 }, ErrInvalidSphereCount},
		{"zero max order", func(c *Config) { c.MaxOrder = 0 }, ErrInvalidMaxOrder},
		{"unknown isa", func(c *Config) { c.ISA = "mmx" }, ErrInvalidISA},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := baseConfig()
			c.mutate(&cfg)
			_, err := CountSpheres(ctx, xs, ys, zs, cfg)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestCountSpheres_Deterministic(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(7, 500, 1)
	ctx := context.Background()
	cfg := baseConfig()

	r1, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)
	r2, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)
	assert.Equal(t, r1.P, r2.P, "same seed must reproduce the result matrix")

	cfg.Seed = 43
	r3, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, r1.P, r3.P, "a different seed should move the estimates")
}

func TestCountSpheres_ISAFallbackMatchesAuto(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(11, 400, 1)
	ctx := context.Background()

	cfg := baseConfig()
	cfg.ISA = "auto"
	auto, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	cfg.ISA = "fallback"
	fb, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	assert.Equal(t, fb.P, auto.P, "kernel tier must not change counted sets")
}

func TestCountSpheres_VoidFractionMonotone(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(3, 800, 1)
	ctx := context.Background()
	cfg := baseConfig()
	cfg.NumBins = 6
	cfg.NumSpheres = 500

	res, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	// A sphere empty at radius r is empty at every smaller radius, so P0
	// cannot increase with the bin radius.
	for i := 1; i < res.NumBins; i++ {
		assert.LessOrEqual(t, res.P[i][0], res.P[i-1][0],
			"void probability must be non-increasing, bins %d..%d", i-1, i)
	}
}

func TestCountSpheres_RowsSumToOneWhenOrderCoversN(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(5, 50, 1)
	ctx := context.Background()
	cfg := baseConfig()
	cfg.MaxOrder = 60 // more orders than points: no count can fall off the table

	res, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	for i := 0; i < res.NumBins; i++ {
		sum := 0.0
		for _, p := range res.P[i] {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "bin %d", i)
	}
}

func TestCountSpheres_RowSumsBounded(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(5, 500, 1)
	ctx := context.Background()
	cfg := baseConfig()
	cfg.Rmax = 0.3
	cfg.MaxOrder = 3 // counts past the table are dropped, not clipped

	res, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	for i := 0; i < res.NumBins; i++ {
		sum := 0.0
		for _, p := range res.P[i] {
			sum += p
		}
		assert.LessOrEqual(t, sum, 1.0+1e-9, "bin %d", i)
	}
}

func TestCountSpheres_PoissonVoidProbability(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	// For a Poisson point process the void probability is exp(-n V(r)).
	n := 1000
	xs, ys, zs := testutil.UniformBox(19, n, 1)
	ctx := context.Background()

	cfg := Config{
		Rmax:       0.1,
		NumBins:    1,
		NumSpheres: 10000,
		MaxOrder:   5,
		Seed:       42,
		Periodic:   true,
		Boxsize:    [3]float64{1, 1, 1},
		Logf:       discard,
	}
	res, err := CountSpheres(ctx, xs, ys, zs, cfg)
	require.NoError(t, err)

	lambda := float64(n) * (4.0 / 3.0) * math.Pi * cfg.Rmax * cfg.Rmax * cfg.Rmax
	assert.InDelta(t, math.Exp(-lambda), res.P[0][0], 0.01)
	assert.InDelta(t, lambda*math.Exp(-lambda), res.P[0][1], 0.02)
}

func TestCountSpheres_Interrupted(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CountSpheres(ctx, xs, ys, zs, baseConfig())
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestCountSpheres_DomainTooSmall(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)
	ctx := context.Background()

	cfg := baseConfig()
	cfg.Periodic = true
	cfg.Boxsize = [3]float64{1, 1, 1}
	cfg.Rmax = 0.51
	_, err := CountSpheres(ctx, xs, ys, zs, cfg)
	assert.ErrorIs(t, err, ErrDomainTooSmall)

	// Open box: even half the extent leaves no room to place a probe.
	cfg = baseConfig()
	cfg.Rmax = 0.5
	_, err = CountSpheres(ctx, xs, ys, zs, cfg)
	assert.ErrorIs(t, err, ErrDomainTooSmall)
}

func TestCountSpheres_SamplingExhausted(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)
	ctx := context.Background()

	// Nearly half the extent: almost every draw is rejected, and a tiny
	// retry budget trips before a probe lands.
	cfg := baseConfig()
	cfg.Rmax = minExtent(xs, ys, zs) * 0.4999
	cfg.MaxRejects = 10
	_, err := CountSpheres(ctx, xs, ys, zs, cfg)
	assert.ErrorIs(t, err, ErrSamplingExhausted)
}

func minExtent(cols ...[]float64) float64 {
	ext := math.Inf(1)
	for _, col := range cols {
		lo, hi := col[0], col[0]
		for _, v := range col {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		ext = math.Min(ext, hi-lo)
	}
	return ext
}

func TestCountSpheres_Float32(t *testing.T) {
	xs64, ys64, zs64 := testutil.UniformBox(13, 200, 1)
	xs := testutil.ToFloat32(xs64)
	ys := testutil.ToFloat32(ys64)
	zs := testutil.ToFloat32(zs64)

	res, err := CountSpheres(context.Background(), xs, ys, zs, baseConfig())
	require.NoError(t, err)
	assert.Len(t, res.P, res.NumBins)
	for i := range res.P {
		assert.Len(t, res.P[i], res.MaxOrder)
	}
}

func TestCountSpheres_Timing(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)
	cfg := baseConfig()
	cfg.Timing = true

	res, err := CountSpheres(context.Background(), xs, ys, zs, cfg)
	require.NoError(t, err)
	assert.Greater(t, res.Elapsed.Nanoseconds(), int64(0))
}

type recordingReporter struct {
	inits, advances, finishes int
	last                      int
}

func (r *recordingReporter) Init(int) { r.inits++ }

func (r *recordingReporter) Advance(done int) { r.advances++; r.last = done }

func (r *recordingReporter) Finish() { r.finishes++ }

func TestCountSpheres_ProgressReporting(t *testing.T) {
	xs, ys, zs := testutil.UniformBox(1, 100, 1)

	rep := &recordingReporter{}
	cfg := baseConfig()
	cfg.NumSpheres = 25
	cfg.Verbose = true
	cfg.Progress = rep

	_, err := CountSpheres(context.Background(), xs, ys, zs, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.inits)
	assert.Equal(t, 25, rep.advances)
	assert.Equal(t, 25, rep.last)
	assert.Equal(t, 1, rep.finishes)

	// Without Verbose the reporter stays silent.
	rep2 := &recordingReporter{}
	cfg.Verbose = false
	cfg.Progress = rep2
	_, err = CountSpheres(context.Background(), xs, ys, zs, cfg)
	require.NoError(t, err)
	assert.Zero(t, rep2.advances)
}

func TestResultBinRadius(t *testing.T) {
	r := &Result{Rmax: 10, NumBins: 5}
	assert.InDelta(t, 2.0, r.BinRadius(0), 1e-12)
	assert.InDelta(t, 10.0, r.BinRadius(4), 1e-12)
}
