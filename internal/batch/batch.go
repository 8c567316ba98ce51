// Package batch estimates fundamental matrices for whole directories of
// correspondence files.
package batch

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ProcessBatch runs fundamental matrix estimation over all correspondence
// files named by args, directly or via directory discovery.
func ProcessBatch(args []string, config *Config) (*Result, error) {
	files, err := discoverCorrespondenceFiles(args, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover correspondence files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no correspondence files found")
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := processFilesParallel(files, config)
	duration := time.Since(start)

	return &Result{
		Files:       results,
		Duration:    duration,
		WorkerCount: workers,
	}, nil
}
