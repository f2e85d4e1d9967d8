// Command vpfrun computes the void probability function of a particle
// catalog.
//
// Usage:
//
//	vpfrun -config run.cfg
//	vpfrun -example > run.cfg
//
// The catalog is a text file with one particle per line, whitespace
// separated x y z. Lines starting with # are skipped.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/gcfg.v1"

	"github.com/cwbudde/algo-spatial/vpf"
)

const exampleConfigFile = `[VPF]

#######################
# Required Parameters #
#######################

# Particle catalog: one particle per line, whitespace-separated x y z.
Input = points.txt

# Largest sphere radius, in the catalog's coordinate units.
Rmax = 10.0

# Number of radius bins between 0 and Rmax.
Bins = 10

# Number of random probe spheres to place.
Spheres = 10000

# Count orders to tabulate (probabilities for 0..MaxOrder-1 points).
MaxOrder = 6

#######################
# Optional Parameters #
#######################

# Seed for the probe-placement generator. Runs with the same seed and
# catalog produce identical results.
# Seed = 42

# Treat the domain as periodic with the given cubic box size. Boxsize 0
# derives the box from the catalog extent.
# Periodic = true
# Boxsize = 420.0

# Neighbor cells searched per side along each axis (0 = default).
# Refine = 2

# Cap on mesh cells per dimension (0 = default).
# MaxCellsPerDim = 120

# Instruction-set ceiling for the counting kernels:
# auto | fallback | sse42 | avx | avx2 | avx512
# ISA = auto

# Verbose enables progress output on stderr; Timing reports wall time.
# Verbose = true
# Timing = true`

type configFile struct {
	VPF struct {
		Input          string
		Rmax           float64
		Bins           int
		Spheres        int
		MaxOrder       int
		Seed           int
		Periodic       bool
		Boxsize        float64
		Refine         int
		MaxCellsPerDim int
		ISA            string
		Verbose        bool
		Timing         bool
	}
}

func main() {
	configPath := flag.String("config", "", "path to the run configuration file")
	example := flag.Bool("example", false, "print an example configuration file and exit")
	flag.Parse()

	if *example {
		fmt.Println(exampleConfigFile)
		return
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "vpfrun: -config is required (see -example)")
		os.Exit(2)
	}

	var cfgFile configFile
	if err := gcfg.ReadFileInto(&cfgFile, *configPath); err != nil {
		fatal(err)
	}
	con := &cfgFile.VPF

	xs, ys, zs, err := readPoints(con.Input)
	if err != nil {
		fatal(err)
	}

	cfg := vpf.Config{
		Rmax:           con.Rmax,
		NumBins:        con.Bins,
		NumSpheres:     con.Spheres,
		MaxOrder:       con.MaxOrder,
		Seed:           int64(con.Seed),
		Periodic:       con.Periodic,
		Boxsize:        [3]float64{con.Boxsize, con.Boxsize, con.Boxsize},
		RefineFactors:  [3]int{con.Refine, con.Refine, con.Refine},
		MaxCellsPerDim: con.MaxCellsPerDim,
		ISA:            con.ISA,
		Verbose:        con.Verbose,
		Timing:         con.Timing,
		Progress:       &stderrReporter{},
	}

	// Ctrl-C interrupts the sampling loop cooperatively; the handler is
	// released when the call returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := vpf.CountSpheres(ctx, xs, ys, zs, cfg)
	if err != nil {
		fatal(err)
	}

	printResult(res)
	if con.Timing {
		fmt.Fprintf(os.Stderr, "vpfrun: counted %d spheres in %v\n", res.NumSpheres, res.Elapsed)
	}
}

// printResult writes the probability matrix as a table: one row per radius
// bin, one column per count order.
func printResult(res *vpf.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(w, "r\t")
	for k := 0; k < res.MaxOrder; k++ {
		fmt.Fprintf(w, "p%d\t", k)
	}
	fmt.Fprintln(w)

	for i := 0; i < res.NumBins; i++ {
		fmt.Fprintf(w, "%.4g\t", res.BinRadius(i))
		for k := 0; k < res.MaxOrder; k++ {
			fmt.Fprintf(w, "%.6f\t", res.P[i][k])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

// readPoints reads a whitespace-separated x y z catalog.
func readPoints(path string) (xs, ys, zs []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, nil, nil, fmt.Errorf("%s:%d: expected x y z, got %q", path, line, text)
		}
		var p [3]float64
		for a := 0; a < 3; a++ {
			p[a], err = strconv.ParseFloat(fields[a], 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		}
		xs = append(xs, p[0])
		ys = append(ys, p[1])
		zs = append(zs, p[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, err
	}
	return xs, ys, zs, nil
}

// stderrReporter prints sampling progress as an in-place percentage.
type stderrReporter struct {
	total int
	last  int
}

func (r *stderrReporter) Init(total int) {
	r.total = total
	r.last = -1
}

func (r *stderrReporter) Advance(done int) {
	pct := done * 100 / r.total
	if pct != r.last {
		fmt.Fprintf(os.Stderr, "\rvpfrun: %3d%%", pct)
		r.last = pct
	}
}

func (r *stderrReporter) Finish() {
	fmt.Fprint(os.Stderr, "\r\n")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "vpfrun: %v\n", err)
	os.Exit(1)
}
