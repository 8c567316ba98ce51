package batch

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/epipolar/internal/corrio"
	"github.com/MeKo-Tech/epipolar/internal/epipolar"
)

// FileResult holds the estimation outcome for a single correspondence file.
type FileResult struct {
	Path        string
	Fundamental *mat.Dense
	Candidates  int
	BestIndex   int
	MeanError   float64
	PointCount  int
	Duration    time.Duration
	Err         error
}

// EstimateFile loads one correspondence file and estimates a fundamental
// matrix from it.
func EstimateFile(path, method string, selectBest bool) *FileResult {
	start := time.Now()
	fr := &FileResult{Path: path}

	doc, err := corrio.Load(path)
	if err != nil {
		fr.Err = fmt.Errorf("failed to load %s: %w", path, err)
		fr.Duration = time.Since(start)
		return fr
	}

	pts1, pts2 := doc.PointSets()
	fr.PointCount = len(pts1)

	var weights [][]float64
	if len(doc.Weights) > 0 {
		weights = [][]float64{doc.Weights}
	}

	out, err := epipolar.FindFundamental([][]epipolar.Point{pts1}, [][]epipolar.Point{pts2}, weights, method)
	if err != nil {
		fr.Err = fmt.Errorf("estimation failed for %s: %w", path, err)
		fr.Duration = time.Since(start)
		return fr
	}

	candidates := out[0]
	fr.Candidates = len(candidates)

	if selectBest && len(candidates) > 1 {
		best, idx, err := epipolar.SelectBestCandidate(candidates, pts1, pts2)
		if err != nil {
			fr.Err = fmt.Errorf("candidate selection failed for %s: %w", path, err)
			fr.Duration = time.Since(start)
			return fr
		}
		fr.Fundamental = best
		fr.BestIndex = idx
	} else {
		fr.Fundamental = candidates[0]
	}

	if me, err := epipolar.MeanEpipolarError(pts1, pts2, fr.Fundamental); err == nil {
		fr.MeanError = me
	}

	fr.Duration = time.Since(start)
	return fr
}

// processFilesParallel estimates all files using a bounded worker pool.
// Results keep the order of the input paths.
func processFilesParallel(paths []string, config *Config) []*FileResult {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	method := strings.ToUpper(config.Method)
	results := make([]*FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = EstimateFile(paths[i], method, config.SelectBest)
				if results[i].Err != nil {
					slog.Warn("file failed", "file", paths[i], "error", results[i].Err)
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
