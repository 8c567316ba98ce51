package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	writeCorrespondenceFile(t, dir, "a.yaml", 10, 21)
	writeCorrespondenceFile(t, dir, "b.json", 15, 22)
	writeCorrespondenceFile(t, filepath.Join(dir), "bad.yaml", 5, 23)

	config := &Config{
		Method:     "8point",
		SelectBest: true,
		Format:     "text",
	}

	result, err := ProcessBatch([]string{dir}, config)
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	assert.Equal(t, 2, result.Succeeded())
	assert.Positive(t, result.WorkerCount)

	out, err := result.FormatResults("json", 6)
	require.NoError(t, err)
	assert.Contains(t, out, "a.yaml")
	assert.Contains(t, out, "b.json")
	assert.Contains(t, out, "bad.yaml")
}

func TestProcessBatchNoFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := ProcessBatch([]string{dir}, &Config{Method: "8point"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no correspondence files found")
}

func TestResultSaveResults(t *testing.T) {
	dir := t.TempDir()
	writeCorrespondenceFile(t, dir, "a.yaml", 10, 31)

	result, err := ProcessBatch([]string{dir}, &Config{Method: "8point", SelectBest: true})
	require.NoError(t, err)

	outPath := filepath.Join(dir, "out.json")
	require.NoError(t, result.SaveResults("json", outPath, 6, true))
	assert.FileExists(t, outPath)
}
