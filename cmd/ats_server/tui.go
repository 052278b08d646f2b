package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haruki/ats-backend/internal/db"
	"github.com/haruki/ats-backend/internal/matching"
	"github.com/haruki/ats-backend/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse candidate rankings interactively",
	Long:  "Open an interactive terminal browser over a candidate pool: type a job description, rank the pool, and step through the results. The pool comes from a JSON file or, with DATABASE_URL set, from the candidates table.",
	RunE:  runTUI,
}

var (
	tuiCandidatesFile string
	tuiJob            string
)

// tuiPoolPageSize is how many candidates are pulled per query when the pool
// is loaded from the database.
const tuiPoolPageSize = 200

func init() {
	tuiCmd.Flags().StringVarP(&tuiCandidatesFile, "candidates", "c", "", "Path to JSON array of candidate records")
	tuiCmd.Flags().StringVar(&tuiJob, "job", "", "Job description file or URL to rank on startup")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	pool, summary, err := loadTUIPool(ctx)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		return fmt.Errorf("candidate pool is empty")
	}

	var jobText string
	if tuiJob != "" {
		jobText, _, err = loadText(ctx, tuiJob)
		if err != nil {
			return fmt.Errorf("failed to load job description: %w", err)
		}
	}

	ranker := tui.NewEngineRanker(matching.NewEngine(nil), pool)
	model := tui.New(ranker, jobText, summary)

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	return nil
}

// loadTUIPool builds the candidate pool from --candidates when given,
// otherwise from the database.
func loadTUIPool(ctx context.Context) ([]map[string]any, string, error) {
	if tuiCandidatesFile != "" {
		pool, err := loadCandidatePool(tuiCandidatesFile)
		if err != nil {
			return nil, "", err
		}
		return pool, fmt.Sprintf("%d candidates from %s", len(pool), filepath.Base(tuiCandidatesFile)), nil
	}

	databaseURL := viper.GetString("database-url")
	if databaseURL == "" {
		return nil, "", fmt.Errorf("provide --candidates or set DATABASE_URL")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var pool []map[string]any
	for offset := 0; ; offset += tuiPoolPageSize {
		page, err := database.ListCandidates(ctx, db.CandidateFilters{Limit: tuiPoolPageSize, Offset: offset})
		if err != nil {
			return nil, "", fmt.Errorf("failed to list candidates: %w", err)
		}
		for _, c := range page {
			pool = append(pool, candidateRecord(c))
		}
		if len(page) < tuiPoolPageSize {
			break
		}
	}

	return pool, fmt.Sprintf("%d candidates from the database", len(pool)), nil
}

// candidateRecord converts a stored candidate into the loose mapping the
// ranking engine consumes.
func candidateRecord(c db.Candidate) map[string]any {
	return map[string]any{
		"id":          c.ID.String(),
		"first_name":  c.FirstName,
		"last_name":   c.LastName,
		"email":       c.Email,
		"resume_text": c.ResumeText,
	}
}
