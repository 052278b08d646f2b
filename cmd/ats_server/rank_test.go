package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRankFlags() {
	rankCandidatesFile, rankJob, rankTop, rankOut = "", "", 0, ""
}

func writeRankPool(t *testing.T, dir string) string {
	t.Helper()
	pool := `[
  {"id": "c-1", "first_name": "Jane", "last_name": "Doe", "resume_text": "Go developer with PostgreSQL and Kubernetes experience"},
  {"id": "c-2", "first_name": "Sam", "last_name": "Lee", "resume_text": "Graphic designer focused on typography and branding"}
]`
	path := filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(pool), 0644))
	return path
}

func TestRankCommand_WritesRankedJSON(t *testing.T) {
	resetRankFlags()

	tmpDir := t.TempDir()
	poolPath := writeRankPool(t, tmpDir)
	jobPath := filepath.Join(tmpDir, "job.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte("Go developer with PostgreSQL experience"), 0644))
	outPath := filepath.Join(tmpDir, "ranked.json")

	err := runCLI(t, "rank", "--candidates", poolPath, "--job", jobPath, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var ranked []map[string]any
	require.NoError(t, json.Unmarshal(data, &ranked))
	require.Len(t, ranked, 2)

	assert.Equal(t, "c-1", ranked[0]["id"])
	first, ok := ranked[0]["match_score"].(float64)
	require.True(t, ok)
	second, ok := ranked[1]["match_score"].(float64)
	require.True(t, ok)
	assert.Greater(t, first, second)
}

func TestRankCommand_TopTruncates(t *testing.T) {
	resetRankFlags()

	tmpDir := t.TempDir()
	poolPath := writeRankPool(t, tmpDir)
	jobPath := filepath.Join(tmpDir, "job.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte("Go developer with PostgreSQL experience"), 0644))
	outPath := filepath.Join(tmpDir, "ranked.json")

	err := runCLI(t, "rank", "--candidates", poolPath, "--job", jobPath, "--top", "1", "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var ranked []map[string]any
	require.NoError(t, json.Unmarshal(data, &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "c-1", ranked[0]["id"])
}

func TestLoadCandidatePool_FileMissing(t *testing.T) {
	_, err := loadCandidatePool(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read candidates file")
}

func TestLoadCandidatePool_MalformedJSON(t *testing.T) {
	path := writeTempFile(t, "pool.json", "{not json")

	_, err := loadCandidatePool(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse candidates file")
}
