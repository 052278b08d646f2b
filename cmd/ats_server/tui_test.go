package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruki/ats-backend/internal/db"
)

func TestCandidateRecord_MapsStoredFields(t *testing.T) {
	id := uuid.New()
	c := db.Candidate{
		ID:         id,
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@example.com",
		ResumeText: "Go developer",
	}

	record := candidateRecord(c)

	assert.Equal(t, id.String(), record["id"])
	assert.Equal(t, "Jane", record["first_name"])
	assert.Equal(t, "Doe", record["last_name"])
	assert.Equal(t, "jane@example.com", record["email"])
	assert.Equal(t, "Go developer", record["resume_text"])
}

func TestLoadTUIPool_FromFile(t *testing.T) {
	tuiCandidatesFile = writeTempFile(t, "pool.json", `[{"first_name": "Jane", "resume_text": "Go"}]`)
	t.Cleanup(func() { tuiCandidatesFile = "" })

	pool, summary, err := loadTUIPool(context.Background())

	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "Jane", pool[0]["first_name"])
	assert.Contains(t, summary, "pool.json")
}

func TestLoadTUIPool_NoSourceConfigured(t *testing.T) {
	tuiCandidatesFile = ""
	t.Setenv("DATABASE_URL", "")

	_, _, err := loadTUIPool(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide --candidates or set DATABASE_URL")
}
