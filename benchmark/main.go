// Package main provides a performance benchmarking tool for the chartmap pipeline.
// It generates a synthetic segment cache per grid size, then times the blend
// composition and the refinement over several worker counts, treating the first
// run as cold (cache files not yet indexed or paged in) and averaging the rest as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Usage: go run ./benchmark [work-dir]
//
//	work-dir: Directory for the synthetic caches (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/chartmap/core"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/internal/segcache"
	"github.com/huangsam/chartmap/schema"
)

// BenchmarkResult holds the timings of one stage for one grid size and worker count.
type BenchmarkResult struct {
	Grid     string
	Stage    string
	Workers  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Runs    int
	Workers []int
	Sizes   [][2]int // lines, samples
	Seed    uint64
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "chartmap-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	if err := log.Init(false); err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	config := BenchmarkConfig{
		WorkDir: workDir,
		Runs:    4,
		Workers: []int{1, 4, 8},
		Sizes:   [][2]int{{64, 64}, {256, 256}, {512, 512}},
		Seed:    42,
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes the blend and refine stages for every grid size.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d grid sizes, workers %v, %d runs each\n",
		len(config.Sizes), config.Workers, config.Runs)

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	for _, size := range config.Sizes {
		lines, samples := size[0], size[1]
		name := fmt.Sprintf("%dx%d", lines, samples)
		dir := filepath.Join(config.WorkDir, name)

		fmt.Printf("Generating segment cache for %s\n", name)
		if err := generateCache(rng, dir, lines, samples); err != nil {
			return nil, fmt.Errorf("failed to generate cache for %s: %w", name, err)
		}
		geo := schema.GeoRef{Lines: lines, Samples: samples, Bands: schema.NumYears}
		landCover := randomGrid(rng, lines, samples, 1, 17)

		var blended *schema.Grid
		for _, workers := range config.Workers {
			opts := core.Options{Workers: workers, ProgressStep: 100, Label: "benchmark"}

			result, grid, err := runStage(config, name, "blend", workers, func() (*schema.Grid, error) {
				// A fresh source per run so the cold run includes indexing
				grid, _, err := core.Compose(context.Background(), geo, segcache.NewSource(dir, false), landCover, opts)
				return grid, err
			})
			if err != nil {
				return nil, err
			}
			results = append(results, result)
			blended = grid

			rules := schema.DefaultRuleSet()
			result, _, err = runStage(config, name, "refine", workers, func() (*schema.Grid, error) {
				grid, _, err := core.RefineGrid(context.Background(), blended, landCover, &rules, opts)
				return grid, err
			})
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	}

	return results, nil
}

// runStage times fn config.Runs times and returns the cold and warm timings.
func runStage(config BenchmarkConfig, grid, stage string, workers int, fn func() (*schema.Grid, error)) (BenchmarkResult, *schema.Grid, error) {
	fmt.Printf("  %s with %d workers (%d runs)\n", stage, workers, config.Runs)

	var out *schema.Grid
	var times []float64
	for range config.Runs {
		start := time.Now()
		g, err := fn()
		if err != nil {
			return BenchmarkResult{}, nil, fmt.Errorf("%s %s: %w", stage, grid, err)
		}
		times = append(times, time.Since(start).Seconds())
		out = g
	}

	result := BenchmarkResult{Grid: grid, Stage: stage, Workers: workers, ColdTime: "-", WarmTime: "-"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}
	return result, out, nil
}

// generateCache writes one cache file per row with two to four segments per pixel.
// About one pixel in ten has no segments so the land-cover fallback is exercised.
func generateCache(rng *rand.Rand, dir string, lines, samples int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for row := range lines {
		var pixels [][]schema.Segment
		for col := range samples {
			if rng.IntN(10) == 0 {
				continue
			}
			pixels = append(pixels, randomSegments(rng, schema.Pixel{Row: row, Col: col}))
		}
		if err := segcache.WriteRow(dir, row, pixels); err != nil {
			return err
		}
	}
	return nil
}

// randomSegments splits 2001-001 through 2016-365 into consecutive segments.
func randomSegments(rng *rand.Rand, px schema.Pixel) []schema.Segment {
	start := core.DOYToOrdinal(schema.EpochStart)
	end := core.DOYToOrdinal(schema.EpochEnd)
	n := 2 + rng.IntN(3)

	segments := make([]schema.Segment, 0, n)
	for i := range n {
		stop := end
		if i < n-1 {
			stop = start + 1 + rng.IntN((end-start)/(n-i))
		}
		segments = append(segments, schema.Segment{
			Start: start,
			End:   stop,
			Class: uint8(rng.IntN(17)),
			Pixel: px,
		})
		start = stop + 1
	}
	return segments
}

// randomGrid returns a grid with classes drawn from [lo, hi).
func randomGrid(rng *rand.Rand, lines, samples, lo, hi int) *schema.Grid {
	g := schema.NewGrid(lines, samples, schema.NumYears, 0)
	for b := range schema.NumYears {
		plane := make([]uint8, lines*samples)
		for i := range plane {
			plane[i] = uint8(lo + rng.IntN(hi-lo))
		}
		g.SetBand(b, plane)
	}
	return g
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("chartmap_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"grid", "stage", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Grid, r.Stage, strconv.Itoa(r.Workers), r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printStageSummary(results, "blend", "Blend:")
	printStageSummary(results, "refine", "Refine:")
}

// printStageSummary displays results for a specific stage
func printStageSummary(results []BenchmarkResult, stage, title string) {
	fmt.Printf("%s\n", title)
	for _, r := range results {
		if r.Stage == stage {
			fmt.Printf("  %-9s workers=%-2d: Cold: %s, Warm: %s\n", r.Grid, r.Workers, r.ColdTime, r.WarmTime)
		}
	}
}
