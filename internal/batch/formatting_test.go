package batch

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sampleFileResults() []*FileResult {
	f := mat.NewDense(3, 3, []float64{
		0.5, -0.25, 1,
		0.125, 0.75, -2,
		-1.5, 0.0625, 1,
	})
	return []*FileResult{
		{
			Path:        "pairs/a.yaml",
			Fundamental: f,
			Candidates:  1,
			MeanError:   1.25e-9,
			PointCount:  10,
		},
		{
			Path:       "pairs/b.yaml",
			PointCount: 4,
			Err:        errors.New("estimation failed for pairs/b.yaml: need at least 8 points"),
		},
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := formatJSON(sampleFileResults())
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			File        string      `json:"file"`
			Fundamental [][]float64 `json:"fundamental"`
			Points      int         `json:"points"`
			Error       string      `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 2)

	assert.Equal(t, "pairs/a.yaml", decoded.Files[0].File)
	require.Len(t, decoded.Files[0].Fundamental, 3)
	assert.InDelta(t, 0.5, decoded.Files[0].Fundamental[0][0], 0)
	assert.Empty(t, decoded.Files[0].Error)

	assert.Nil(t, decoded.Files[1].Fundamental)
	assert.Contains(t, decoded.Files[1].Error, "need at least 8 points")
}

func TestFormatCSV(t *testing.T) {
	out, err := formatCSV(sampleFileResults(), 6)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "file", rows[0][0])
	assert.Equal(t, "f11", rows[0][4])

	assert.Equal(t, "pairs/a.yaml", rows[1][0])
	assert.Equal(t, "10", rows[1][1])
	assert.Equal(t, "0.5", rows[1][4])
	assert.Equal(t, "1", rows[1][12])
	assert.Empty(t, rows[1][13])

	assert.Equal(t, "pairs/b.yaml", rows[2][0])
	assert.Empty(t, rows[2][4])
	assert.Contains(t, rows[2][13], "need at least 8 points")
}

func TestFormatText(t *testing.T) {
	out, err := formatText(sampleFileResults(), 6)
	require.NoError(t, err)

	assert.Contains(t, out, "# pairs/a.yaml")
	assert.Contains(t, out, "points: 10")
	assert.Contains(t, out, "0.5  -0.25  1")
	assert.Contains(t, out, "# pairs/b.yaml")
	assert.Contains(t, out, "error:")
}

func TestFormatBatchResultsDispatch(t *testing.T) {
	files := sampleFileResults()

	jsonOut, err := formatBatchResults(files, "json", 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(jsonOut), "{"))

	csvOut, err := formatBatchResults(files, "csv", 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(csvOut, "file,"))

	textOut, err := formatBatchResults(files, "text", 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(textOut, "# "))
}
