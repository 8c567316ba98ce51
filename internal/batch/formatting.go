package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// formatBatchResults formats batch results in the specified format.
func formatBatchResults(files []*FileResult, format string, precision int) (string, error) {
	switch format {
	case "json":
		return formatJSON(files)
	case "csv":
		return formatCSV(files, precision)
	default: // text
		return formatText(files, precision)
	}
}

type jsonFileResult struct {
	File        string      `json:"file"`
	Fundamental [][]float64 `json:"fundamental,omitempty"`
	Candidates  int         `json:"candidates,omitempty"`
	BestIndex   int         `json:"best_index,omitempty"`
	MeanError   float64     `json:"mean_error,omitempty"`
	Points      int         `json:"points,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// formatJSON formats results as JSON.
func formatJSON(files []*FileResult) (string, error) {
	batchResult := struct {
		Files []jsonFileResult `json:"files"`
	}{
		Files: make([]jsonFileResult, len(files)),
	}

	for i, fr := range files {
		entry := jsonFileResult{
			File:       fr.Path,
			Candidates: fr.Candidates,
			BestIndex:  fr.BestIndex,
			MeanError:  fr.MeanError,
			Points:     fr.PointCount,
		}
		if fr.Err != nil {
			entry.Error = fr.Err.Error()
		} else {
			entry.Fundamental = matrixRows(fr.Fundamental)
		}
		batchResult.Files[i] = entry
	}

	bts, err := json.MarshalIndent(batchResult, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV, one row per file with the fundamental
// matrix flattened row-major.
func formatCSV(files []*FileResult, precision int) (string, error) {
	var csvData [][]string
	csvData = append(csvData, []string{
		"file", "points", "candidates", "mean_error",
		"f11", "f12", "f13", "f21", "f22", "f23", "f31", "f32", "f33",
		"error",
	})

	for _, fr := range files {
		row := []string{
			fr.Path,
			strconv.Itoa(fr.PointCount),
			strconv.Itoa(fr.Candidates),
		}
		if fr.Err != nil {
			row = append(row, "")
			row = append(row, "", "", "", "", "", "", "", "", "")
			row = append(row, fr.Err.Error())
		} else {
			row = append(row, formatFloat(fr.MeanError, precision))
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					row = append(row, formatFloat(fr.Fundamental.At(r, c), precision))
				}
			}
			row = append(row, "")
		}
		csvData = append(csvData, row)
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText formats results as plain text.
func formatText(files []*FileResult, precision int) (string, error) {
	var output strings.Builder
	for i, fr := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", fr.Path))
		if fr.Err != nil {
			output.WriteString(fmt.Sprintf("error: %v\n", fr.Err))
			continue
		}
		output.WriteString(fmt.Sprintf("points: %d  candidates: %d  mean_error: %s\n",
			fr.PointCount, fr.Candidates, formatFloat(fr.MeanError, precision)))
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if c > 0 {
					output.WriteString("  ")
				}
				output.WriteString(formatFloat(fr.Fundamental.At(r, c), precision))
			}
			output.WriteString("\n")
		}
	}
	return output.String(), nil
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'g', precision, 64)
}

func matrixRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
