package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in-process with the given args.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func resetMatchFlags() {
	matchResume, matchJob, matchMaxScore = "", "", 0
}

func TestMatchCommand_ScoresPairOfFiles(t *testing.T) {
	resetMatchFlags()

	resume := writeTempFile(t, "resume.txt", "Go engineer with Kubernetes and PostgreSQL experience")
	job := writeTempFile(t, "job.txt", "Looking for a Go engineer who knows Kubernetes")

	err := runCLI(t, "match", "--resume", resume, "--job", job)

	assert.NoError(t, err)
}

func TestMatchCommand_MissingResumeFile(t *testing.T) {
	resetMatchFlags()

	job := writeTempFile(t, "job.txt", "Looking for a Go engineer")
	absent := filepath.Join(t.TempDir(), "absent.txt")

	err := runCLI(t, "match", "--resume", absent, "--job", job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load resume")
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "(none)", joinOrNone(nil))
	assert.Equal(t, "go, postgresql", joinOrNone([]string{"go", "postgresql"}))
}
