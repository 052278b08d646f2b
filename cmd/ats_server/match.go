package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haruki/ats-backend/internal/ingestion"
	"github.com/haruki/ats-backend/internal/matching"
	"github.com/haruki/ats-backend/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one resume against one job description",
	Long:  "Score a resume against a job description and print the match score with the matched and missing skills. Inputs are file paths (.txt, .md, .html, .pdf) or http(s) URLs.",
	RunE:  runMatch,
}

var (
	matchResume   string
	matchJob      string
	matchMaxScore float64
)

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "Resume file or URL (required)")
	matchCmd.Flags().StringVar(&matchJob, "job", "", "Job description file or URL (required)")
	matchCmd.Flags().Float64Var(&matchMaxScore, "max-score", 0, "Score scale (default 100)")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	resumeText, _, err := loadText(ctx, matchResume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	jobText, _, err := loadText(ctx, matchJob)
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	engine := matching.NewEngine(nil)

	scale := matchMaxScore
	if scale <= 0 {
		scale = matching.DefaultMaxScore
	}
	score := engine.MatchScoreMax(resumeText, jobText, scale)
	missing, matched := engine.ExtractSkills(resumeText, jobText)

	if viper.GetBool("debug") {
		observability.NewPrinter(os.Stdout).PrintMatchSummary(score, scale, matched, missing)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Match score: %.1f / %.0f\n", score, scale)
	fmt.Fprintf(os.Stdout, "Matched skills (%d): %s\n", len(matched), joinOrNone(matched))
	fmt.Fprintf(os.Stdout, "Missing skills (%d): %s\n", len(missing), joinOrNone(missing))

	return nil
}

// loadText reads resume or job text from a local file or an http(s) URL and
// returns it cleaned. URL loads pass the Gemini key through so structured
// extraction runs when one is configured; without a key the posting is still
// fetched and cleaned, just not enriched.
func loadText(ctx context.Context, source string) (string, *ingestion.Metadata, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return ingestion.IngestFromURL(ctx, source, viper.GetString("gemini-api-key"), false, viper.GetBool("debug"))
	}
	return ingestion.IngestFromFile(source)
}

func joinOrNone(skills []string) string {
	if len(skills) == 0 {
		return "(none)"
	}
	return strings.Join(skills, ", ")
}
