package batch

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for batch estimation.
type Config struct {
	// Estimator settings
	Method     string
	SelectBest bool

	// Output settings
	Format     string
	OutputFile string
	Precision  int

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	Quiet     bool
	ShowStats bool
}

// Result holds the result of a batch run.
type Result struct {
	Files       []*FileResult
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of files estimated without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, fr := range r.Files {
		if fr.Err == nil {
			n++
		}
	}
	return n
}

// FormatResults formats the batch results in the specified format.
func (r *Result) FormatResults(format string, precision int) (string, error) {
	return formatBatchResults(r.Files, format, precision)
}

// SaveResults writes the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, precision int, quiet bool) error {
	output, err := r.FormatResults(format, precision)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	succeeded := r.Succeeded()
	_, _ = fmt.Fprintf(os.Stderr, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stderr, "  Total files: %d\n", len(r.Files))
	_, _ = fmt.Fprintf(os.Stderr, "  Succeeded: %d\n", succeeded)
	_, _ = fmt.Fprintf(os.Stderr, "  Failed: %d\n", len(r.Files)-succeeded)
	_, _ = fmt.Fprintf(os.Stderr, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stderr, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if len(r.Files) > 0 {
		avg := r.Duration / time.Duration(len(r.Files))
		_, _ = fmt.Fprintf(os.Stderr, "  Avg per file: %v\n", avg.Round(time.Microsecond))
	}
}
